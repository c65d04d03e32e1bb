package service

import "context"

// Repository - хранилище одной сущности с фильтрацией по владельцу.
// Отсутствующая или чужая запись даёт repository.ErrNotFound.
type Repository[T any] interface {
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	GetByID(ctx context.Context, userID, id string) (*T, error)
	List(ctx context.Context, userID string) ([]*T, error)
	Delete(ctx context.Context, userID, id string) error
	HealthCheck(ctx context.Context) error
}
