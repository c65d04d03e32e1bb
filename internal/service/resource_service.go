package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"zeno/internal/logger"
	"zeno/internal/models"
	repo "zeno/internal/repository"

	"dario.cat/mergo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Rules - правила конкретной сущности для удалённого API.
type Rules[T any] struct {
	// Defaults подставляются в незаданные поля при POST и PUT.
	Defaults T
	// Prepare вызывается после Defaults при POST и PUT.
	Prepare func(item *T, now time.Time)
	// OnPatch получает применённые поля частичного обновления.
	OnPatch func(item *T, fields map[string]json.RawMessage)
	// Normalize вызывается после любого изменения.
	Normalize func(item *T)
	Validate  func(item *T) error
	// PatchReplaces: PATCH работает как PUT.
	PatchReplaces bool
}

type settings struct {
	now   func() time.Time
	newID func() string
}

type Option func(*settings)

func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *settings) {
		s.newID = newID
	}
}

// здесь происходит проверка ошибок бизнес-логики

type ResourceService[T any, P models.Record[T]] struct {
	repo  Repository[T]
	name  string
	rules Rules[T]
	settings
}

func NewResourceService[T any, P models.Record[T]](name string, repository Repository[T], rules Rules[T], opts ...Option) *ResourceService[T, P] {
	s := &ResourceService[T, P]{
		repo:  repository,
		name:  name,
		rules: rules,
		settings: settings{
			now:   time.Now,
			newID: func() string { return uuid.New().String() },
		},
	}
	for _, opt := range opts {
		opt(&s.settings)
	}
	return s
}

func (s *ResourceService[T, P]) Name() string {
	return s.name
}

func (s *ResourceService[T, P]) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}

func (s *ResourceService[T, P]) List(ctx context.Context, userID string) ([]*T, error) {
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("получение %s: %w", s.name, err)
	}
	return items, nil
}

func (s *ResourceService[T, P]) Get(ctx context.Context, userID, id string) (*T, error) {
	item, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Запись не найдена",
				zap.String("resource", s.name),
				zap.String("target_id", id))
			return nil, NewNotFound(s.name, id)
		}
		return nil, fmt.Errorf("получение %s: %w", s.name, err)
	}
	return item, nil
}

func (s *ResourceService[T, P]) Create(ctx context.Context, userID string, item *T) (*T, error) {
	now := s.now()
	meta := P(item).Meta()
	meta.ID = s.newID()
	meta.UserID = userID
	meta.CreatedAt = now
	meta.UpdatedAt = now

	if err := s.prepare(item, now); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("создание %s: %w", s.name, err)
	}

	logger.Info("Service: Запись создана",
		zap.String("resource", s.name),
		zap.String("id", meta.ID))
	return item, nil
}

// Replace - полная замена записи. Идентификатор, владелец и время
// создания сохраняются, незаданные поля получают значения по умолчанию.
func (s *ResourceService[T, P]) Replace(ctx context.Context, userID, id string, item *T) (*T, error) {
	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	meta := P(item).Meta()
	meta.ID = id
	meta.UserID = userID
	meta.CreatedAt = P(existing).Meta().CreatedAt
	meta.UpdatedAt = now

	if err := s.prepare(item, now); err != nil {
		return nil, err
	}
	if err := s.update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Patch накладывает переданные поля JSON на существующую запись.
func (s *ResourceService[T, P]) Patch(ctx context.Context, userID, id string, patch []byte) (*T, error) {
	if s.rules.PatchReplaces {
		item := new(T)
		if err := json.Unmarshal(patch, item); err != nil {
			return nil, NewValidationError("body", err.Error())
		}
		return s.Replace(ctx, userID, id, item)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(patch, &fields); err != nil {
		return nil, NewValidationError("body", err.Error())
	}

	item, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	meta := *P(item).Meta()
	if err := json.Unmarshal(patch, item); err != nil {
		return nil, NewValidationError("body", err.Error())
	}

	patched := P(item).Meta()
	patched.ID = meta.ID
	patched.UserID = meta.UserID
	patched.CreatedAt = meta.CreatedAt
	patched.UpdatedAt = s.now()

	if s.rules.OnPatch != nil {
		s.rules.OnPatch(item, fields)
	}
	if err := s.finish(item); err != nil {
		return nil, err
	}
	if err := s.update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ResourceService[T, P]) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Запись для удаления не найдена",
				zap.String("resource", s.name),
				zap.String("target_id", id))
			return NewNotFound(s.name, id)
		}
		return fmt.Errorf("удаление %s: %w", s.name, err)
	}

	logger.Info("Service: Запись удалена",
		zap.String("resource", s.name),
		zap.String("id", id))
	return nil
}

func (s *ResourceService[T, P]) prepare(item *T, now time.Time) error {
	if err := mergo.Merge(item, s.rules.Defaults); err != nil {
		return fmt.Errorf("значения по умолчанию %s: %w", s.name, err)
	}
	if s.rules.Prepare != nil {
		s.rules.Prepare(item, now)
	}
	return s.finish(item)
}

func (s *ResourceService[T, P]) finish(item *T) error {
	if s.rules.Normalize != nil {
		s.rules.Normalize(item)
	}
	if s.rules.Validate != nil {
		if err := s.rules.Validate(item); err != nil {
			logger.Warn("Service: Ошибка валидации",
				zap.String("resource", s.name),
				zap.Error(err))
			return err
		}
	}
	return nil
}

func (s *ResourceService[T, P]) update(ctx context.Context, item *T) error {
	id := P(item).Meta().ID
	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound(s.name, id)
		}
		return fmt.Errorf("обновление %s: %w", s.name, err)
	}

	logger.Info("Service: Запись обновлена",
		zap.String("resource", s.name),
		zap.String("id", id))
	return nil
}
