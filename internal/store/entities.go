package store

import (
	"zeno/internal/models"
	"zeno/internal/slot"
)

// Имена слотов, по одному на стор.
const (
	SlotTasks     = "tasks"
	SlotGoals     = "goals"
	SlotNotes     = "notes"
	SlotResources = "resources"
	SlotProjects  = "projects"
	SlotTimetable = "timetable"
	SlotPomodoro  = "pomodoro"
)

type (
	TaskStore     = Store[models.Task, *models.Task]
	GoalStore     = Store[models.Goal, *models.Goal]
	NoteStore     = Store[models.Note, *models.Note]
	ResourceStore = Store[models.Resource, *models.Resource]
	ProjectStore  = Store[models.Project, *models.Project]
	SessionStore  = Store[models.PomodoroSession, *models.PomodoroSession]
)

func NewTaskStore(slots slot.Storage, opts ...Option) *TaskStore {
	return New[models.Task](slots, SlotTasks, Hooks[models.Task]{
		Defaults: (*models.Task).ApplyDefaults,
	}, opts...)
}

func NewGoalStore(slots slot.Storage, opts ...Option) *GoalStore {
	return New[models.Goal](slots, SlotGoals, Hooks[models.Goal]{
		Defaults:  (*models.Goal).ApplyDefaults,
		Normalize: (*models.Goal).Normalize,
	}, opts...)
}

func NewNoteStore(slots slot.Storage, opts ...Option) *NoteStore {
	return New[models.Note](slots, SlotNotes, Hooks[models.Note]{
		Defaults: (*models.Note).ApplyDefaults,
	}, opts...)
}

func NewResourceStore(slots slot.Storage, opts ...Option) *ResourceStore {
	return New[models.Resource](slots, SlotResources, Hooks[models.Resource]{
		Defaults:  (*models.Resource).ApplyDefaults,
		Normalize: (*models.Resource).Normalize,
	}, opts...)
}

func NewProjectStore(slots slot.Storage, opts ...Option) *ProjectStore {
	return New[models.Project](slots, SlotProjects, Hooks[models.Project]{
		Defaults:  (*models.Project).ApplyDefaults,
		Normalize: (*models.Project).Normalize,
	}, opts...)
}

func NewSessionStore(slots slot.Storage, opts ...Option) *SessionStore {
	return New[models.PomodoroSession](slots, SlotPomodoro, Hooks[models.PomodoroSession]{
		Defaults: (*models.PomodoroSession).ApplyDefaults,
	}, opts...)
}

// Stores - все локальные сторы приложения, созданные над одним хранилищем слотов.
type Stores struct {
	Tasks     *TaskStore
	Goals     *GoalStore
	Notes     *NoteStore
	Resources *ResourceStore
	Projects  *ProjectStore
	Sessions  *SessionStore
	Timetable *Timetable
}

func Open(slots slot.Storage, opts ...Option) *Stores {
	return &Stores{
		Tasks:     NewTaskStore(slots, opts...),
		Goals:     NewGoalStore(slots, opts...),
		Notes:     NewNoteStore(slots, opts...),
		Resources: NewResourceStore(slots, opts...),
		Projects:  NewProjectStore(slots, opts...),
		Sessions:  NewSessionStore(slots, opts...),
		Timetable: NewTimetable(slots, opts...),
	}
}
