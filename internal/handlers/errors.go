package handlers

import (
	"errors"
	"net/http"

	"zeno/internal/logger"
	"zeno/internal/service"

	"go.uber.org/zap"
)

func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode))

	if statusCode == http.StatusUnauthorized {
		responseWithError(w, statusCode, "unauthorized")
		return true
	}

	responseWithJSON(w, statusCode,
		toPayload("error", businessErr.Code),
		toPayload("message", businessErr.Message),
		toPayload("details", businessErr.Details),
	)
	return true
}

// handleServiceError отвечает на любую ошибку сервиса; технические
// подробности клиенту не передаются.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if handleBusinessError(w, err) {
		return
	}

	logger.Error("HTTP: Ошибка Service", err,
		zap.String("operation", operation),
		zap.String("client_ip", r.RemoteAddr))
	responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}
