package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"zeno/internal/handlers/dto"
	"zeno/internal/logger"
	"zeno/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// ResourceHandler обслуживает коллекцию одной сущности:
// GET/POST на коллекции и GET/PUT/PATCH/DELETE на /{id}.
type ResourceHandler[T any] struct {
	Service ResourceService[T]
}

func NewResourceHandler[T any](svc ResourceService[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{Service: svc}
}

func (h *ResourceHandler[T]) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Replace)
		r.Patch("/", h.Patch)
		r.Delete("/", h.Delete)
	})
}

// userID возвращает владельца запроса; пустое значение означает,
// что маршрут смонтирован без Auth, и запрос отклоняется.
func (h *ResourceHandler[T]) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		logger.Warn("HTTP: Запрос без пользователя", zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return userID, true
}

func (h *ResourceHandler[T]) id(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("error", "empty id"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return "", false
	}
	return id, true
}

func (h *ResourceHandler[T]) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return nil, false
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			responseWithError(w, http.StatusRequestEntityTooLarge, "слишком большое тело запроса")
			return nil, false
		}
		responseWithError(w, http.StatusBadRequest, "не удалось прочитать тело запроса")
		return nil, false
	}
	return body, true
}

func (h *ResourceHandler[T]) decode(w http.ResponseWriter, r *http.Request) (*T, bool) {
	body, ok := h.readBody(w, r)
	if !ok {
		return nil, false
	}

	item := new(T)
	if err := json.Unmarshal(body, item); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return nil, false
	}
	return item, true
}

func (h *ResourceHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	items, err := h.Service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err, "list_"+h.Service.Name())
		return
	}

	logger.Info("HTTP_OUT: Записи получены",
		zap.String("resource", h.Service.Name()),
		zap.Int("count", len(items)),
		zap.Duration("ms", time.Since(start)))

	responseWithData(w, http.StatusOK, dto.NewList(items))
}

func (h *ResourceHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.id(w, r)
	if !ok {
		return
	}

	item, err := h.Service.Get(r.Context(), userID, id)
	if err != nil {
		handleServiceError(w, r, err, "get_"+h.Service.Name())
		return
	}
	responseWithData(w, http.StatusOK, item)
}

func (h *ResourceHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	item, ok := h.decode(w, r)
	if !ok {
		return
	}

	created, err := h.Service.Create(r.Context(), userID, item)
	if err != nil {
		handleServiceError(w, r, err, "create_"+h.Service.Name())
		return
	}

	logger.Info("HTTP_OUT: Запись создана",
		zap.String("resource", h.Service.Name()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithData(w, http.StatusCreated, created)
}

func (h *ResourceHandler[T]) Replace(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	item, ok := h.decode(w, r)
	if !ok {
		return
	}

	replaced, err := h.Service.Replace(r.Context(), userID, id, item)
	if err != nil {
		handleServiceError(w, r, err, "replace_"+h.Service.Name())
		return
	}
	responseWithData(w, http.StatusOK, replaced)
}

func (h *ResourceHandler[T]) Patch(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	patched, err := h.Service.Patch(r.Context(), userID, id, body)
	if err != nil {
		handleServiceError(w, r, err, "patch_"+h.Service.Name())
		return
	}
	responseWithData(w, http.StatusOK, patched)
}

func (h *ResourceHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.id(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), userID, id); err != nil {
		handleServiceError(w, r, err, "delete_"+h.Service.Name())
		return
	}

	logger.Info("HTTP_OUT: Запись удалена",
		zap.String("resource", h.Service.Name()),
		zap.String("id", id),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}
