// Package dto - формы запросов и ответов удалённого API, общие для
// сервера и клиента.
package dto

type ListResponse[T any] struct {
	Items []*T `json:"items"`
	Count int  `json:"count"`
}

func NewList[T any](items []*T) ListResponse[T] {
	if items == nil {
		items = []*T{}
	}
	return ListResponse[T]{Items: items, Count: len(items)}
}

type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}
