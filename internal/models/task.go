package models

import (
	"slices"
	"time"
)

type Task struct {
	Base
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description,omitempty" db:"description"`
	Priority    Priority   `json:"priority" db:"priority"`
	Status      Status     `json:"status" db:"status"`
	Tags        []string   `json:"tags" db:"tags"`
	Subtasks    []Subtask  `json:"subtasks" db:"subtasks"`
	DueDate     *time.Time `json:"dueDate,omitempty" db:"due_date"`
}

type Subtask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type Status string

const StatusPending Status = "pending"
const StatusInProgress Status = "in-progress"
const StatusDone Status = "done"

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusDone
}

// ApplyDefaults заполняет значения по умолчанию для незаданных полей.
func (t *Task) ApplyDefaults() {
	if t.Status == "" {
		t.Status = StatusPending
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.Subtasks == nil {
		t.Subtasks = []Subtask{}
	}
}

func (t *Task) Clone() *Task {
	c := *t
	c.Tags = slices.Clone(t.Tags)
	c.Subtasks = slices.Clone(t.Subtasks)
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return &c
}

type TaskOption func(*Task)

func WithTitle(title string) TaskOption {
	return func(task *Task) {
		task.Title = title
	}
}

func WithDescription(description string) TaskOption {
	return func(task *Task) {
		task.Description = description
	}
}

func WithStatus(status Status) TaskOption {
	if status == "" {
		return nil
	}
	return func(task *Task) {
		task.Status = status
	}
}

func WithPriority(priority Priority) TaskOption {
	if priority == "" {
		return nil
	}
	return func(task *Task) {
		task.Priority = priority
	}
}

func WithTags(tags ...string) TaskOption {
	return func(task *Task) {
		task.Tags = append([]string{}, tags...)
	}
}

func WithDueDate(due *time.Time) TaskOption {
	return func(task *Task) {
		task.DueDate = due
	}
}

func WithSubtasks(subtasks ...Subtask) TaskOption {
	return func(task *Task) {
		task.Subtasks = append([]Subtask{}, subtasks...)
	}
}

// ToggleSubtask переключает флаг completed у подзадачи; статус задачи не меняется.
func ToggleSubtask(subtaskID string) TaskOption {
	return func(task *Task) {
		for i := range task.Subtasks {
			if task.Subtasks[i].ID == subtaskID {
				task.Subtasks[i].Completed = !task.Subtasks[i].Completed
			}
		}
	}
}
