package assistant

import (
	"context"

	"zeno/internal/client"
	"zeno/internal/models"
)

// Backend - операции удалённого API, которые нужны действиям ассистента.
type Backend interface {
	ListTasks(ctx context.Context) ([]*models.Task, error)
	CreateTask(ctx context.Context, task *models.Task) (*models.Task, error)
	ListSessions(ctx context.Context) ([]*models.PomodoroSession, error)
	CreateSession(ctx context.Context, session *models.PomodoroSession) (*models.PomodoroSession, error)
	CreateNote(ctx context.Context, note *models.Note) (*models.Note, error)
	ListGoals(ctx context.Context) ([]*models.Goal, error)
}

type clientBackend struct {
	c *client.Client
}

func NewClientBackend(c *client.Client) Backend {
	return clientBackend{c: c}
}

func (b clientBackend) ListTasks(ctx context.Context) ([]*models.Task, error) {
	return b.c.Tasks.List(ctx)
}

func (b clientBackend) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	return b.c.Tasks.Create(ctx, task)
}

func (b clientBackend) ListSessions(ctx context.Context) ([]*models.PomodoroSession, error) {
	return b.c.Sessions.List(ctx)
}

func (b clientBackend) CreateSession(ctx context.Context, session *models.PomodoroSession) (*models.PomodoroSession, error) {
	return b.c.Sessions.Create(ctx, session)
}

func (b clientBackend) CreateNote(ctx context.Context, note *models.Note) (*models.Note, error) {
	return b.c.Notes.Create(ctx, note)
}

func (b clientBackend) ListGoals(ctx context.Context) ([]*models.Goal, error) {
	return b.c.Goals.List(ctx)
}
