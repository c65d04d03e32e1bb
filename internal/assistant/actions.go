package assistant

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"zeno/internal/logger"
	"zeno/internal/models"
	"zeno/internal/query"

	"go.uber.org/zap"
)

// planSize - сколько задач попадает в план на день.
const planSize = 5

var errUnknownAction = errors.New("неизвестное действие")

// Execute выполняет одно действие; ошибки возвращаются в результате.
func (b *Bridge) Execute(ctx context.Context, action Action) ActionResult {
	var result ActionResult
	switch action.Type {
	case ActionCreateTask:
		result = b.createTask(ctx, action.Params)
	case ActionStartPomodoro:
		result = b.startPomodoro(ctx, action.Params)
	case ActionCreateNote:
		result = b.createNote(ctx, action.Params)
	case ActionListTasks:
		result = b.listTasks(ctx, action.Params)
	case ActionAnalyzeProductivity:
		result = b.analyzeProductivity(ctx)
	case ActionGenerateDailyPlan:
		result = b.generateDailyPlan(ctx)
	default:
		result = failure(action.Type, fmt.Errorf("%w %q", errUnknownAction, action.Type))
	}

	if !result.Success {
		logger.Warn("Assistant: Действие не выполнено",
			zap.String("action", action.Type),
			zap.String("error", result.Error))
	}
	return result
}

func stringParam(params map[string]any, key string) string {
	switch v := params[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func intParam(params map[string]any, key string) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	}
	return 0
}

// dateParam принимает RFC3339 или YYYY-MM-DD в часовом поясе now.
func dateParam(params map[string]any, key string, now time.Time) (*time.Time, error) {
	raw := stringParam(params, key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, now.Location())
	if err != nil {
		return nil, fmt.Errorf("неверная дата %q", raw)
	}
	return &t, nil
}

func (b *Bridge) createTask(ctx context.Context, params map[string]any) ActionResult {
	title := stringParam(params, "title")
	if title == "" {
		return failure(ActionCreateTask, errors.New("не указано название задачи"))
	}

	due, err := dateParam(params, "dueDate", b.now())
	if err != nil {
		return failure(ActionCreateTask, err)
	}

	task := &models.Task{
		Title:       title,
		Description: stringParam(params, "description"),
		Priority:    models.Priority(stringParam(params, "priority")),
		DueDate:     due,
	}
	if task.Priority != "" && !task.Priority.Valid() {
		task.Priority = models.PriorityMedium
	}

	created, err := b.backend.CreateTask(ctx, task)
	if err != nil {
		return failure(ActionCreateTask, err)
	}
	return success(ActionCreateTask, fmt.Sprintf("задача «%s» создана", created.Title), created)
}

func (b *Bridge) startPomodoro(ctx context.Context, params map[string]any) ActionResult {
	typ := models.SessionType(stringParam(params, "type"))
	if typ == "" {
		typ = models.SessionFocus
	}
	if !typ.Valid() {
		return failure(ActionStartPomodoro, fmt.Errorf("неизвестный тип сессии %q", typ))
	}

	minutes := intParam(params, "duration")
	if minutes <= 0 {
		minutes = typ.DefaultMinutes()
	}

	created, err := b.backend.CreateSession(ctx, &models.PomodoroSession{
		Type:      typ,
		Duration:  minutes,
		StartTime: b.now(),
		Label:     stringParam(params, "label"),
	})
	if err != nil {
		return failure(ActionStartPomodoro, err)
	}

	if b.onStart != nil {
		b.onStart(typ, minutes)
	}
	return success(ActionStartPomodoro, fmt.Sprintf("сессия %s на %d мин. запущена", typ, minutes), created)
}

func (b *Bridge) createNote(ctx context.Context, params map[string]any) ActionResult {
	title := stringParam(params, "title")
	if title == "" {
		return failure(ActionCreateNote, errors.New("не указан заголовок заметки"))
	}

	note := &models.Note{
		Title:    title,
		Content:  stringParam(params, "content"),
		Category: models.NoteCategory(stringParam(params, "category")),
	}
	if note.Category != "" && !note.Category.Valid() {
		note.Category = models.NoteOther
	}
	if mood := models.Mood(stringParam(params, "mood")); mood.Valid() {
		note.Mood = &mood
	}

	created, err := b.backend.CreateNote(ctx, note)
	if err != nil {
		return failure(ActionCreateNote, err)
	}
	return success(ActionCreateNote, fmt.Sprintf("заметка «%s» сохранена", created.Title), created)
}

func (b *Bridge) listTasks(ctx context.Context, params map[string]any) ActionResult {
	tasks, err := b.backend.ListTasks(ctx)
	if err != nil {
		return failure(ActionListTasks, err)
	}

	if status := models.Status(stringParam(params, "status")); status != "" {
		tasks = query.TasksByStatus(tasks)[status]
	}

	if len(tasks) == 0 {
		return success(ActionListTasks, "задач нет", tasks)
	}

	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, fmt.Sprintf("- [%s] %s (%s)", t.Status, t.Title, t.Priority))
	}
	return success(ActionListTasks, strings.Join(lines, "\n"), tasks)
}

type productivityReport struct {
	query.FocusStats
	CompletedTasks int `json:"completedTasks"`
	PendingTasks   int `json:"pendingTasks"`
	OverdueTasks   int `json:"overdueTasks"`
	Streak         int `json:"streak"`
}

func (b *Bridge) analyzeProductivity(ctx context.Context) ActionResult {
	tasks, err := b.backend.ListTasks(ctx)
	if err != nil {
		return failure(ActionAnalyzeProductivity, err)
	}
	sessions, err := b.backend.ListSessions(ctx)
	if err != nil {
		return failure(ActionAnalyzeProductivity, err)
	}

	now := b.now()
	byStatus := query.TasksByStatus(tasks)
	report := productivityReport{
		FocusStats:     query.Focus(sessions, now),
		CompletedTasks: len(byStatus[models.StatusDone]),
		PendingTasks:   len(byStatus[models.StatusPending]) + len(byStatus[models.StatusInProgress]),
		OverdueTasks:   len(query.OverdueTasks(tasks, now)),
		Streak:         query.Streak(sessions, tasks, now),
	}

	msg := fmt.Sprintf("сегодня %d мин. фокуса (%d сессий); задач выполнено %d, в работе %d, просрочено %d; серия %d дн.",
		report.FocusMinutes, report.FocusSessions,
		report.CompletedTasks, report.PendingTasks, report.OverdueTasks,
		report.Streak)
	return success(ActionAnalyzeProductivity, msg, report)
}

type PlanItem struct {
	Start time.Time    `json:"start"`
	End   time.Time    `json:"end"`
	Task  *models.Task `json:"task"`
}

// generateDailyPlan: просроченные, затем на сегодня, затем прочие
// незавершённые по приоритету. Каждой задаче отводится один фокус-слот
// с короткими перерывами.
func (b *Bridge) generateDailyPlan(ctx context.Context) ActionResult {
	tasks, err := b.backend.ListTasks(ctx)
	if err != nil {
		return failure(ActionGenerateDailyPlan, err)
	}

	now := b.now()
	seen := make(map[string]bool)
	var ordered []*models.Task
	add := func(list []*models.Task) {
		for _, t := range list {
			if !seen[t.ID] && t.Status != models.StatusDone {
				seen[t.ID] = true
				ordered = append(ordered, t)
			}
		}
	}

	add(query.OverdueTasks(tasks, now))
	add(query.TasksDueToday(tasks, now))
	rest := slices.Clone(tasks)
	slices.SortStableFunc(rest, func(a, b *models.Task) int {
		return a.Priority.Rank() - b.Priority.Rank()
	})
	add(rest)

	if len(ordered) == 0 {
		return success(ActionGenerateDailyPlan, "на сегодня задач нет", []PlanItem{})
	}
	if len(ordered) > planSize {
		ordered = ordered[:planSize]
	}

	focus := time.Duration(models.SessionFocus.DefaultMinutes()) * time.Minute
	pause := time.Duration(models.SessionShortBreak.DefaultMinutes()) * time.Minute
	start := now.Truncate(5 * time.Minute).Add(5 * time.Minute)

	plan := make([]PlanItem, 0, len(ordered))
	lines := make([]string, 0, len(ordered))
	for _, t := range ordered {
		item := PlanItem{Start: start, End: start.Add(focus), Task: t}
		plan = append(plan, item)
		lines = append(lines, fmt.Sprintf("%s-%s %s", item.Start.Format("15:04"), item.End.Format("15:04"), t.Title))
		start = item.End.Add(pause)
	}
	return success(ActionGenerateDailyPlan, strings.Join(lines, "\n"), plan)
}
