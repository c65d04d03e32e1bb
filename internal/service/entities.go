package service

import (
	"encoding/json"
	"strings"
	"time"

	"zeno/internal/models"

	"github.com/google/uuid"
)

type (
	TaskService    = ResourceService[models.Task, *models.Task]
	NoteService    = ResourceService[models.Note, *models.Note]
	SessionService = ResourceService[models.PomodoroSession, *models.PomodoroSession]
	ResourceItems  = ResourceService[models.Resource, *models.Resource]
	GoalService    = ResourceService[models.Goal, *models.Goal]
)

func requireTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return NewValidationError("title", "не может быть пустым")
	}
	return nil
}

func NewTaskService(repository Repository[models.Task], opts ...Option) *TaskService {
	return NewResourceService[models.Task, *models.Task]("task", repository, Rules[models.Task]{
		Defaults: models.Task{
			Status:   models.StatusPending,
			Priority: models.PriorityMedium,
			Tags:     []string{},
			Subtasks: []models.Subtask{},
		},
		Normalize: func(t *models.Task) {
			t.ApplyDefaults()
			for i := range t.Subtasks {
				if t.Subtasks[i].ID == "" {
					t.Subtasks[i].ID = uuid.New().String()
				}
			}
		},
		Validate: func(t *models.Task) error {
			if err := requireTitle(t.Title); err != nil {
				return err
			}
			if !t.Status.Valid() {
				return NewValidationError("status", "допустимо pending, in-progress или done")
			}
			if !t.Priority.Valid() {
				return NewValidationError("priority", "допустимо low, medium или high")
			}
			return nil
		},
	}, opts...)
}

// NewNoteService: у заметок PATCH - это полная замена.
func NewNoteService(repository Repository[models.Note], opts ...Option) *NoteService {
	return NewResourceService[models.Note, *models.Note]("note", repository, Rules[models.Note]{
		Defaults: models.Note{
			Category: models.NotePersonal,
			Tags:     []string{},
		},
		Normalize: (*models.Note).ApplyDefaults,
		Validate: func(n *models.Note) error {
			if err := requireTitle(n.Title); err != nil {
				return err
			}
			if !n.Category.Valid() {
				return NewValidationError("category", "неизвестная категория")
			}
			if n.Mood != nil && !n.Mood.Valid() {
				return NewValidationError("mood", "неизвестное настроение")
			}
			return nil
		},
		PatchReplaces: true,
	}, opts...)
}

func NewSessionService(repository Repository[models.PomodoroSession], opts ...Option) *SessionService {
	return NewResourceService[models.PomodoroSession, *models.PomodoroSession]("pomodoro-session", repository, Rules[models.PomodoroSession]{
		Defaults: models.PomodoroSession{Type: models.SessionFocus},
		Prepare: func(p *models.PomodoroSession, now time.Time) {
			if p.StartTime.IsZero() {
				p.StartTime = now
			}
		},
		Normalize: (*models.PomodoroSession).ApplyDefaults,
		Validate: func(p *models.PomodoroSession) error {
			if !p.Type.Valid() {
				return NewValidationError("type", "допустимо focus, short-break или long-break")
			}
			if p.EndTime != nil && p.EndTime.Before(p.StartTime) {
				return NewValidationError("endTime", "раньше startTime")
			}
			return nil
		},
	}, opts...)
}

func NewResourceItems(repository Repository[models.Resource], opts ...Option) *ResourceItems {
	return NewResourceService[models.Resource, *models.Resource]("resource", repository, Rules[models.Resource]{
		Defaults: models.Resource{
			Type:     models.ResourceLink,
			Category: models.KnownCategory(models.CategoryOther),
			Tags:     []string{},
		},
		Normalize: (*models.Resource).ApplyDefaults,
		Validate: func(r *models.Resource) error {
			if err := requireTitle(r.Title); err != nil {
				return err
			}
			if !r.Type.Valid() {
				return NewValidationError("type", "неизвестный тип ресурса")
			}
			if r.Type == models.ResourceYouTube && r.YouTubeID == "" {
				return NewValidationError("url", "не удалось определить идентификатор видео YouTube")
			}
			return nil
		},
	}, opts...)
}

// NewGoalService: переданный прогресс >= 100 завершает цель, переданный
// isCompleted=true выставляет прогресс 100. Снижение прогресса завершение не снимает.
func NewGoalService(repository Repository[models.Goal], opts ...Option) *GoalService {
	return NewResourceService[models.Goal, *models.Goal]("goal", repository, Rules[models.Goal]{
		Defaults: models.Goal{
			Category: models.GoalPersonal,
			Priority: models.PriorityMedium,
		},
		Prepare: func(g *models.Goal, _ time.Time) {
			g.SetProgress(g.Progress)
			if g.IsCompleted {
				g.SetCompleted(true)
			}
		},
		OnPatch: func(g *models.Goal, fields map[string]json.RawMessage) {
			if _, ok := fields["progress"]; ok {
				g.SetProgress(g.Progress)
			}
			if _, ok := fields["isCompleted"]; ok && g.IsCompleted {
				g.SetCompleted(true)
			}
		},
		Normalize: (*models.Goal).Normalize,
		Validate: func(g *models.Goal) error {
			if err := requireTitle(g.Title); err != nil {
				return err
			}
			if !g.Category.Valid() {
				return NewValidationError("category", "неизвестная категория")
			}
			if !g.Priority.Valid() {
				return NewValidationError("priority", "допустимо low, medium или high")
			}
			return nil
		},
	}, opts...)
}
