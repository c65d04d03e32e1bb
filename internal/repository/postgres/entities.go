package postgres

import (
	"zeno/internal/models"
)

type (
	TaskRepo     = Repo[models.Task, *models.Task]
	NoteRepo     = Repo[models.Note, *models.Note]
	SessionRepo  = Repo[models.PomodoroSession, *models.PomodoroSession]
	ResourceRepo = Repo[models.Resource, *models.Resource]
	GoalRepo     = Repo[models.Goal, *models.Goal]
)

func tags(t []string) []string {
	if t == nil {
		return []string{}
	}
	return t
}

func (s *Storage) Tasks() *TaskRepo {
	return newRepo[models.Task, *models.Task](s.pool, table[models.Task]{
		name:    "tasks",
		columns: []string{"title", "description", "priority", "status", "tags", "subtasks", "due_date"},
		values: func(t *models.Task) []any {
			subtasks := t.Subtasks
			if subtasks == nil {
				subtasks = []models.Subtask{}
			}
			return []any{t.Title, t.Description, t.Priority, t.Status, tags(t.Tags), subtasks, t.DueDate}
		},
		targets: func(t *models.Task) []any {
			return []any{&t.Title, &t.Description, &t.Priority, &t.Status, &t.Tags, &t.Subtasks, &t.DueDate}
		},
	})
}

func (s *Storage) Notes() *NoteRepo {
	return newRepo[models.Note, *models.Note](s.pool, table[models.Note]{
		name:    "notes",
		columns: []string{"title", "content", "category", "tags", "mood"},
		values: func(n *models.Note) []any {
			return []any{n.Title, n.Content, n.Category, tags(n.Tags), n.Mood}
		},
		targets: func(n *models.Note) []any {
			return []any{&n.Title, &n.Content, &n.Category, &n.Tags, &n.Mood}
		},
	})
}

func (s *Storage) Sessions() *SessionRepo {
	return newRepo[models.PomodoroSession, *models.PomodoroSession](s.pool, table[models.PomodoroSession]{
		name:    "pomodoro_sessions",
		columns: []string{"type", "duration", "completed", "start_time", "end_time", "label"},
		values: func(p *models.PomodoroSession) []any {
			return []any{p.Type, p.Duration, p.Completed, p.StartTime, p.EndTime, p.Label}
		},
		targets: func(p *models.PomodoroSession) []any {
			return []any{&p.Type, &p.Duration, &p.Completed, &p.StartTime, &p.EndTime, &p.Label}
		},
	})
}

func (s *Storage) Resources() *ResourceRepo {
	return newRepo[models.Resource, *models.Resource](s.pool, table[models.Resource]{
		name: "resources",
		columns: []string{"title", "description", "type", "category_kind", "category_label",
			"tags", "notes", "url", "youtube_id", "file", "favorite"},
		values: func(r *models.Resource) []any {
			return []any{r.Title, r.Description, r.Type, r.Category.Kind, r.Category.Label,
				tags(r.Tags), r.Notes, r.URL, r.YouTubeID, r.File, r.Favorite}
		},
		targets: func(r *models.Resource) []any {
			return []any{&r.Title, &r.Description, &r.Type, &r.Category.Kind, &r.Category.Label,
				&r.Tags, &r.Notes, &r.URL, &r.YouTubeID, &r.File, &r.Favorite}
		},
		after: (*models.Resource).Normalize,
	})
}

func (s *Storage) Goals() *GoalRepo {
	return newRepo[models.Goal, *models.Goal](s.pool, table[models.Goal]{
		name:    "goals",
		columns: []string{"title", "description", "category", "priority", "deadline", "progress", "is_completed"},
		values: func(g *models.Goal) []any {
			return []any{g.Title, g.Description, g.Category, g.Priority, g.Deadline, g.Progress, g.IsCompleted}
		},
		targets: func(g *models.Goal) []any {
			return []any{&g.Title, &g.Description, &g.Category, &g.Priority, &g.Deadline, &g.Progress, &g.IsCompleted}
		},
	})
}
