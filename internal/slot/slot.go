// Package slot - долговременное локальное хранилище: один именованный слот
// на стор, внутри JSON-снимок коллекции. Запись всегда перезаписывает слот целиком.
package slot

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("slot not found")

type Storage interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
	Close() error
}
