package inmemory

import (
	"context"
	"sync"

	"zeno/internal/logger"
	"zeno/internal/models"
	repo "zeno/internal/repository"

	"go.uber.org/zap"
)

// Storage - потокобезопасное хранилище в памяти с порядком вставки.
// Все чтения и записи фильтруются по владельцу.
type Storage[T any, P models.Record[T]] struct {
	name    string
	storage map[string]P
	mtx     *sync.RWMutex
	ids     []string
}

func NewStorage[T any, P models.Record[T]](name string) *Storage[T, P] {
	return &Storage[T, P]{
		name:    name,
		storage: make(map[string]P),
		mtx:     &sync.RWMutex{},
		ids:     []string{},
	}
}

func (s *Storage[T, P]) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: Соединение стабильно", zap.String("storage", s.name))
	return nil
}

func (s *Storage[T, P]) Create(ctx context.Context, item P) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	id := item.Meta().ID
	if _, exists := s.storage[id]; !exists {
		s.ids = append(s.ids, id)
	}
	s.storage[id] = item.Clone()
	return nil
}

func (s *Storage[T, P]) Update(ctx context.Context, item P) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	meta := item.Meta()
	existing, ok := s.storage[meta.ID]
	if !ok || existing.Meta().UserID != meta.UserID {
		return repo.ErrNotFound
	}
	s.storage[meta.ID] = item.Clone()
	return nil
}

func (s *Storage[T, P]) GetByID(ctx context.Context, userID, id string) (P, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	item, ok := s.storage[id]
	if !ok || item.Meta().UserID != userID {
		return nil, repo.ErrNotFound
	}
	return item.Clone(), nil
}

func (s *Storage[T, P]) List(ctx context.Context, userID string) ([]P, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []P{}
	for _, id := range s.ids {
		item := s.storage[id]
		if item.Meta().UserID != userID {
			continue
		}
		res = append(res, item.Clone())
	}
	return res, nil
}

func (s *Storage[T, P]) Delete(ctx context.Context, userID, id string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	item, ok := s.storage[id]
	if !ok || item.Meta().UserID != userID {
		return repo.ErrNotFound
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}
