package handlers

import (
	"encoding/json"
	"net/http"

	"zeno/internal/logger"
)

type Payload struct {
	Key     string
	Payload any
}

func toPayload(key string, pl any) Payload {
	return Payload{Key: key, Payload: pl}
}

func toJSON(storage map[string]any, payload Payload) {
	storage[payload.Key] = payload.Payload
}

func responseWithJSON(w http.ResponseWriter, code int, payload ...Payload) {
	storage := make(map[string]any)
	for _, pl := range payload {
		toJSON(storage, pl)
	}
	responseWithData(w, code, storage)
}

// responseWithData пишет значение как есть, без обёртки в объект.
func responseWithData(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("HTTP: Ошибка записи ответа", err)
	}
}

func responseWithError(w http.ResponseWriter, code int, message string) {
	responseWithJSON(w, code, toPayload("error", message))
}
