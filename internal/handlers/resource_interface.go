package handlers

import "context"

type ResourceService[T any] interface {
	Name() string
	List(ctx context.Context, userID string) ([]*T, error)
	Get(ctx context.Context, userID, id string) (*T, error)
	Create(ctx context.Context, userID string, item *T) (*T, error)
	Replace(ctx context.Context, userID, id string, item *T) (*T, error)
	Patch(ctx context.Context, userID, id string, patch []byte) (*T, error)
	Delete(ctx context.Context, userID, id string) error
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
