package store

import (
	"slices"
	"time"

	"zeno/internal/models"

	"github.com/google/uuid"
)

// Hooks - правила конкретной сущности: значения по умолчанию при создании
// и нормализация после каждого изменения.
type Hooks[T any] struct {
	Defaults  func(*T)
	Normalize func(*T)
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

func newSettings(opts []Option) settings {
	s := settings{
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

// collection - упорядоченная коллекция в памяти без синхронизации и сохранения.
type collection[T any, P models.Record[T]] struct {
	items []P
	hooks Hooks[T]
	settings
}

func (c *collection[T, P]) create(fields T) P {
	item := P(&fields).Clone()
	p := P(item)

	now := c.now()
	meta := p.Meta()
	meta.ID = c.newID()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	if c.hooks.Defaults != nil {
		c.hooks.Defaults(item)
	}
	if c.hooks.Normalize != nil {
		c.hooks.Normalize(item)
	}

	c.items = append(c.items, p)
	return P(p.Clone())
}

func (c *collection[T, P]) index(id string) int {
	return slices.IndexFunc(c.items, func(p P) bool { return p.Meta().ID == id })
}

func (c *collection[T, P]) update(id string, opts []func(*T)) (P, bool) {
	i := c.index(id)
	if i < 0 {
		return nil, false
	}

	p := c.items[i]
	meta := *p.Meta()
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if c.hooks.Normalize != nil {
		c.hooks.Normalize(p)
	}

	// идентификатор и дату создания изменить нельзя
	updated := p.Meta()
	updated.ID = meta.ID
	updated.CreatedAt = meta.CreatedAt
	updated.UserID = meta.UserID
	updated.UpdatedAt = c.now()

	return P(p.Clone()), true
}

func (c *collection[T, P]) remove(id string) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.items = slices.Delete(c.items, i, i+1)
	return true
}

func (c *collection[T, P]) removeWhere(match func(*T) bool) int {
	before := len(c.items)
	c.items = slices.DeleteFunc(c.items, func(p P) bool { return match(p) })
	return before - len(c.items)
}

func (c *collection[T, P]) get(id string) (P, bool) {
	i := c.index(id)
	if i < 0 {
		return nil, false
	}
	return P(c.items[i].Clone()), true
}

func (c *collection[T, P]) filter(match func(*T) bool) []P {
	res := make([]P, 0, len(c.items))
	for _, p := range c.items {
		if match == nil || match(p) {
			res = append(res, P(p.Clone()))
		}
	}
	return res
}
