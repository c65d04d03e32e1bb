// Package store - персистентные сторы сущностей: коллекция в памяти,
// которая после каждого изменения целиком сохраняется в именованный слот.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"zeno/internal/logger"
	"zeno/internal/models"
	"zeno/internal/slot"

	"go.uber.org/zap"
)

const snapshotVersion = 1

type snapshot[T any] struct {
	Version int  `json:"version"`
	Items   []*T `json:"items"`
}

type Store[T any, P models.Record[T]] struct {
	mtx   sync.RWMutex
	name  string
	slots slot.Storage
	coll  collection[T, P]

	persistErr error
}

// New создаёт стор и гидрирует его из слота name. Отсутствующий или
// повреждённый слот даёт пустую коллекцию.
func New[T any, P models.Record[T]](slots slot.Storage, name string, hooks Hooks[T], opts ...Option) *Store[T, P] {
	s := &Store[T, P]{
		name:  name,
		slots: slots,
		coll: collection[T, P]{
			hooks:    hooks,
			settings: newSettings(opts),
		},
	}
	s.coll.items = hydrate[T, P](slots, name)
	return s
}

func hydrate[T any, P models.Record[T]](slots slot.Storage, name string) []P {
	data, err := slots.Load(context.Background(), name)
	if err != nil {
		if !errors.Is(err, slot.ErrNotFound) {
			logger.Warn("Store: Не удалось прочитать слот", zap.String("slot", name), zap.Error(err))
		}
		return []P{}
	}

	var snap snapshot[T]
	if err := json.Unmarshal(data, &snap); err != nil {
		logger.Warn("Store: Повреждённый слот, начинаем с пустой коллекции",
			zap.String("slot", name), zap.Error(err))
		return []P{}
	}

	items := make([]P, 0, len(snap.Items))
	for _, item := range snap.Items {
		if item == nil {
			continue
		}
		items = append(items, P(item))
	}
	logger.Debug("Store: Слот загружен", zap.String("slot", name), zap.Int("items", len(items)))
	return items
}

// persist вызывается под блокировкой записи.
func (s *Store[T, P]) persist() {
	snap := snapshot[T]{Version: snapshotVersion, Items: make([]*T, len(s.coll.items))}
	for i, p := range s.coll.items {
		snap.Items[i] = p
	}

	s.persistErr = writeSlot(s.slots, s.name, snap)
}

func writeSlot(slots slot.Storage, name string, v any) error {
	data, err := json.Marshal(v)
	if err == nil {
		err = slots.Save(context.Background(), name, data)
	}
	if err != nil {
		logger.Error("Store: Не удалось сохранить слот", err, zap.String("slot", name))
	}
	return err
}

func (s *Store[T, P]) Name() string {
	return s.name
}

// PersistErr - ошибка последней записи в слот, nil если запись удалась.
func (s *Store[T, P]) PersistErr() error {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.persistErr
}

func (s *Store[T, P]) Create(fields T) P {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	created := s.coll.create(fields)
	s.persist()
	return created
}

// Update применяет опции к сущности id и обновляет updatedAt.
// Для неизвестного id ничего не делает и возвращает false.
func (s *Store[T, P]) Update(id string, opts ...func(*T)) (P, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	updated, ok := s.coll.update(id, opts)
	if !ok {
		return nil, false
	}
	s.persist()
	return updated, true
}

// Delete удаляет сущность; отсутствие id - не ошибка.
func (s *Store[T, P]) Delete(id string) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if !s.coll.remove(id) {
		return false
	}
	s.persist()
	return true
}

// Append добавляет готовую запись как есть, без штампов.
// Используется движком помодоро для завершённых сессий.
func (s *Store[T, P]) Append(item P) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.coll.items = append(s.coll.items, P(item.Clone()))
	s.persist()
}

func (s *Store[T, P]) Get(id string) (P, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.coll.get(id)
}

func (s *Store[T, P]) All() []P {
	return s.Filter(nil)
}

func (s *Store[T, P]) Filter(match func(*T) bool) []P {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.coll.filter(match)
}

func (s *Store[T, P]) Len() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return len(s.coll.items)
}
