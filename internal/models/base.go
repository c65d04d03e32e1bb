package models

import "time"

// Base - общие поля всех сущностей: идентификатор, владелец и временные метки.
type Base struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId,omitempty" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func (b *Base) Meta() *Base {
	return b
}

type Entity interface {
	Meta() *Base
}

// Record - указатель на сущность со служебными полями и глубоким копированием.
type Record[T any] interface {
	*T
	Meta() *Base
	Clone() *T
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank используется при сортировке: high < medium < low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}
