package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"zeno/internal/handlers/dto"
)

// Resource - операции над одной коллекцией удалённого API.
type Resource[T any] struct {
	c    *Client
	path string
}

func newResource[T any](c *Client, path string) *Resource[T] {
	return &Resource[T]{c: c, path: path}
}

func (r *Resource[T]) item(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

func (r *Resource[T]) List(ctx context.Context) ([]*T, error) {
	var list dto.ListResponse[T]
	if err := r.c.get(ctx, r.path, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	out := new(T)
	if err := r.c.get(ctx, r.item(id), out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resource[T]) Create(ctx context.Context, item *T) (*T, error) {
	return r.send(ctx, http.MethodPost, r.path, item)
}

// Replace полностью заменяет запись (PUT).
func (r *Resource[T]) Replace(ctx context.Context, id string, item *T) (*T, error) {
	return r.send(ctx, http.MethodPut, r.item(id), item)
}

// Patch отправляет только переданные поля.
func (r *Resource[T]) Patch(ctx context.Context, id string, fields map[string]any) (*T, error) {
	return r.send(ctx, http.MethodPatch, r.item(id), fields)
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, http.MethodDelete, r.item(id), nil, nil)
}

func (r *Resource[T]) send(ctx context.Context, method, path string, body any) (*T, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("кодирование запроса: %w", err)
	}
	out := new(T)
	if err := r.c.do(ctx, method, path, data, out); err != nil {
		return nil, err
	}
	return out, nil
}
