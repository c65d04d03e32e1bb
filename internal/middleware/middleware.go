package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"zeno/internal/handlers/dto"
	"zeno/internal/logger"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const RequestIDKey contextKey = "request_id"

const requestIDHeader = "X-Request-ID"

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		ctx := context.WithValue(r.Context(), RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

type statusWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.status == 0 {
		sw.status = code
		sw.ResponseWriter.WriteHeader(code)
	}
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if sw.status == 0 {
		sw.WriteHeader(http.StatusOK)
	}
	n, err := sw.ResponseWriter.Write(b)
	sw.size += n
	return n, err
}

// Logging пишет одну запись на запрос. Шаблон маршрута берётся из chi,
// поэтому идентификаторы ресурсов не попадают в поле route.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}

		logger.Debug("HTTP: Начало запроса",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))

		next.ServeHTTP(sw, r)

		if sw.status == 0 {
			sw.status = http.StatusOK
		}

		level := zap.InfoLevel
		switch {
		case sw.status >= 500:
			level = zap.ErrorLevel
		case sw.status >= 400:
			level = zap.WarnLevel
		}

		logger.Log(level, "HTTP: Запрос обработан",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("route", routePattern(r)),
			zap.Int("status", sw.status),
			zap.Int("bytes", sw.size),
			zap.String("client_ip", clientIP(r)),
			zap.Duration("duration", time.Since(start)))
	})
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

type window struct {
	count   int
	resetAt time.Time
}

// limiter считает запросы клиента в фиксированном окне.
type limiter struct {
	mu      sync.Mutex
	limit   int
	period  time.Duration
	clients map[string]*window
	sweepAt time.Time
	now     func() time.Time
}

func newLimiter(limit int, period time.Duration) *limiter {
	return &limiter{
		limit:   limit,
		period:  period,
		clients: make(map[string]*window),
		now:     time.Now,
	}
}

// allow возвращает остаток в окне и момент сброса; ok == false, если лимит исчерпан.
func (l *limiter) allow(key string) (remaining int, resetAt time.Time, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	w, exists := l.clients[key]
	if !exists || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(l.period)}
		l.clients[key] = w
	}
	if w.count >= l.limit {
		return 0, w.resetAt, false
	}
	w.count++
	return l.limit - w.count, w.resetAt, true
}

// sweep удаляет истёкшие окна не чаще раза в период.
func (l *limiter) sweep(now time.Time) {
	if now.Before(l.sweepAt) {
		return
	}
	for key, w := range l.clients {
		if now.After(w.resetAt) {
			delete(l.clients, key)
		}
	}
	l.sweepAt = now.Add(l.period)
}

// RateLimit ограничивает число запросов с одного адреса в минуту.
// rpm <= 0 отключает ограничение.
func RateLimit(rpm int) func(http.Handler) http.Handler {
	if rpm <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	l := newLimiter(rpm, time.Minute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remaining, resetAt, ok := l.allow(clientIP(r))

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rpm))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

			if !ok {
				retry := int(time.Until(resetAt).Seconds()) + 1
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				logger.Warn("HTTP: Превышен лимит запросов",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("client_ip", clientIP(r)))
				writeError(w, http.StatusTooManyRequests, dto.ErrorResponse{
					Error:   "rate_limit_exceeded",
					Message: "Слишком много запросов. Попробуйте позже.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, body dto.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
