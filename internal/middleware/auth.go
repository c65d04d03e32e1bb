package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"zeno/internal/handlers/dto"
	"zeno/internal/logger"

	"go.uber.org/zap"
)

const UserIDKey contextKey = "user_id"

// Auth сопоставляет bearer-токен пользователю по карте пользователь -> токен.
// Запрос без токена или с неизвестным токеном получает 401 и не доходит до обработчика.
func Auth(users map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			var userID string
			if ok {
				userID = lookup(users, token)
			}

			if userID == "" {
				logger.Warn("HTTP: Запрос без авторизации",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("path", r.URL.Path),
					zap.String("client_ip", r.RemoteAddr))

				w.Header().Set("WWW-Authenticate", `Bearer realm="zeno"`)
				writeError(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
				return
			}

			ctx := WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func lookup(users map[string]string, token string) string {
	var userID string
	for user, known := range users {
		if subtle.ConstantTimeCompare([]byte(known), []byte(token)) == 1 {
			userID = user
		}
	}
	return userID
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}
