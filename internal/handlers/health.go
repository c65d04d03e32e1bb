package handlers

import (
	"context"
	"net/http"
	"time"

	"zeno/internal/handlers/dto"
	"zeno/internal/logger"
)

type HealthHandler struct {
	checker HealthChecker
	storage string
}

func NewHealthHandler(checker HealthChecker, storage string) *HealthHandler {
	return &HealthHandler{checker: checker, storage: storage}
}

func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.checker.HealthCheck(ctx); err != nil {
		logger.Error("HTTP: Хранилище недоступно", err)
		responseWithData(w, http.StatusServiceUnavailable, dto.HealthResponse{Status: "unavailable", Storage: h.storage})
		return
	}
	responseWithData(w, http.StatusOK, dto.HealthResponse{Status: "ok", Storage: h.storage})
}
