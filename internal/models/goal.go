package models

import "time"

type GoalCategory string

const (
	GoalPersonal     GoalCategory = "personal"
	GoalProfessional GoalCategory = "professional"
	GoalHealth       GoalCategory = "health"
	GoalLearning     GoalCategory = "learning"
	GoalFinancial    GoalCategory = "financial"
	GoalOther        GoalCategory = "other"
)

func (c GoalCategory) Valid() bool {
	switch c {
	case GoalPersonal, GoalProfessional, GoalHealth, GoalLearning, GoalFinancial, GoalOther:
		return true
	}
	return false
}

type Goal struct {
	Base
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description" db:"description"`
	Category    GoalCategory `json:"category" db:"category"`
	Priority    Priority     `json:"priority" db:"priority"`
	Deadline    *time.Time   `json:"deadline,omitempty" db:"deadline"`
	Progress    int          `json:"progress" db:"progress"` // 0-100
	IsCompleted bool         `json:"isCompleted" db:"is_completed"`
}

func ClampProgress(p int) int {
	return max(0, min(100, p))
}

// SetProgress - путь с ограничением значения: p >= 100 завершает цель.
// Снижение прогресса флаг isCompleted не сбрасывает.
func (g *Goal) SetProgress(p int) {
	g.Progress = ClampProgress(p)
	if p >= 100 {
		g.IsCompleted = true
	}
}

// SetCompleted: установка флага завершает цель с прогрессом 100,
// снятие флага прогресс не меняет.
func (g *Goal) SetCompleted(done bool) {
	g.IsCompleted = done
	if done {
		g.Progress = 100
	}
}

// Normalize применяется после каждого изменения и только ограничивает прогресс.
func (g *Goal) Normalize() {
	g.Progress = ClampProgress(g.Progress)
}

func (g *Goal) ApplyDefaults() {
	if g.Category == "" {
		g.Category = GoalPersonal
	}
	if g.Priority == "" {
		g.Priority = PriorityMedium
	}
	g.SetProgress(g.Progress)
	if g.IsCompleted {
		g.SetCompleted(true)
	}
}

func (g *Goal) Clone() *Goal {
	c := *g
	if g.Deadline != nil {
		d := *g.Deadline
		c.Deadline = &d
	}
	return &c
}

type GoalOption func(*Goal)

func WithGoalProgress(p int) GoalOption {
	return func(g *Goal) {
		g.SetProgress(p)
	}
}

func WithGoalCompleted(done bool) GoalOption {
	return func(g *Goal) {
		g.SetCompleted(done)
	}
}

func WithGoalTitle(title string) GoalOption {
	return func(g *Goal) {
		g.Title = title
	}
}

func WithGoalDeadline(deadline *time.Time) GoalOption {
	return func(g *Goal) {
		g.Deadline = deadline
	}
}
