package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"zeno/internal/config"
	"zeno/internal/models"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 21, 14, 32, 0, 0, time.UTC)

type stubProvider struct {
	reply  string
	err    error
	system string
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Complete(_ context.Context, system, _ string) (string, error) {
	p.system = system
	return p.reply, p.err
}

// memoryBackend хранит данные в памяти; failCreateTask имитирует сбой API.
type memoryBackend struct {
	mu             sync.Mutex
	tasks          []*models.Task
	sessions       []*models.PomodoroSession
	notes          []*models.Note
	goals          []*models.Goal
	failCreateTask bool
	failLists      bool
}

func (m *memoryBackend) ListTasks(context.Context) ([]*models.Task, error) {
	if m.failLists {
		return nil, errors.New("недоступно")
	}
	return m.tasks, nil
}

func (m *memoryBackend) CreateTask(_ context.Context, t *models.Task) (*models.Task, error) {
	if m.failCreateTask {
		return nil, errors.New("сервер ответил 500")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = "t" + string(rune('0'+len(m.tasks)))
	t.ApplyDefaults()
	m.tasks = append(m.tasks, t)
	return t, nil
}

func (m *memoryBackend) ListSessions(context.Context) ([]*models.PomodoroSession, error) {
	if m.failLists {
		return nil, errors.New("недоступно")
	}
	return m.sessions, nil
}

func (m *memoryBackend) CreateSession(_ context.Context, s *models.PomodoroSession) (*models.PomodoroSession, error) {
	s.ApplyDefaults()
	m.sessions = append(m.sessions, s)
	return s, nil
}

func (m *memoryBackend) CreateNote(_ context.Context, n *models.Note) (*models.Note, error) {
	n.ApplyDefaults()
	m.notes = append(m.notes, n)
	return n, nil
}

func (m *memoryBackend) ListGoals(context.Context) ([]*models.Goal, error) {
	if m.failLists {
		return nil, errors.New("недоступно")
	}
	return m.goals, nil
}

func newBridge(t *testing.T, p Provider, b Backend, opts ...Option) *Bridge {
	t.Helper()
	bridge, err := NewBridge(p, b, append([]Option{WithClock(func() time.Time { return testNow })}, opts...)...)
	require.NoError(t, err)
	return bridge
}

func ptr[T any](v T) *T { return &v }

// TestBridge_ExecutesActionsInOrder тестирует выполнение пакета действий
func TestBridge_ExecutesActionsInOrder(t *testing.T) {
	backend := &memoryBackend{}
	provider := &stubProvider{reply: `{"reply":"Готово","actions":[
		{"type":"create_task","params":{"title":"Buy milk","priority":"high"}},
		{"type":"create_note","params":{"title":"Idea","content":"text","mood":"good"}},
		{"type":"start_pomodoro","params":{"duration":50}}
	]}`}

	var started []int
	bridge := newBridge(t, provider, backend, WithPomodoroStarter(func(_ models.SessionType, minutes int) {
		started = append(started, minutes)
	}))

	resp := bridge.Chat(context.Background(), "do things")

	assert.Equal(t, "Готово", resp.Reply)
	require.Len(t, resp.Results, 3)
	for _, r := range resp.Results {
		assert.True(t, r.Success, r.String())
	}

	require.Len(t, backend.tasks, 1)
	assert.Equal(t, models.PriorityHigh, backend.tasks[0].Priority)
	require.Len(t, backend.notes, 1)
	assert.Equal(t, models.MoodGood, *backend.notes[0].Mood)
	require.Len(t, backend.sessions, 1)
	assert.Equal(t, 50, backend.sessions[0].Duration)
	assert.Equal(t, testNow, backend.sessions[0].StartTime)
	assert.Equal(t, []int{50}, started)
}

// TestBridge_FailedActionDoesNotAbortBatch тестирует изоляцию ошибок действий
func TestBridge_FailedActionDoesNotAbortBatch(t *testing.T) {
	backend := &memoryBackend{failCreateTask: true}
	provider := &stubProvider{reply: `{"reply":"ok","actions":[
		{"type":"create_task","params":{"title":"A"}},
		{"type":"teleport"},
		{"type":"create_note","params":{"title":"B"}}
	]}`}

	resp := newBridge(t, provider, backend).Chat(context.Background(), "x")

	require.Len(t, resp.Results, 3)
	assert.False(t, resp.Results[0].Success)
	assert.Contains(t, resp.Results[0].Error, "500")
	assert.False(t, resp.Results[1].Success)
	assert.True(t, resp.Results[2].Success)
	assert.Len(t, backend.notes, 1)
}

// TestBridge_ProviderFailure тестирует ответ с извинением
func TestBridge_ProviderFailure(t *testing.T) {
	bridge := newBridge(t, &stubProvider{err: errors.New("timeout")}, &memoryBackend{})

	resp := bridge.Chat(context.Background(), "hello")

	assert.Equal(t, bridge.prompt.CannedReply, resp.Reply)
	assert.NotEmpty(t, resp.Reply)
	assert.Empty(t, resp.Results)
}

// TestBridge_Summary тестирует сводку, передаваемую модели
func TestBridge_Summary(t *testing.T) {
	backend := &memoryBackend{
		tasks: []*models.Task{
			{Title: "a", Status: models.StatusPending},
			{Title: "b", Status: models.StatusInProgress},
			{Title: "c", Status: models.StatusDone},
		},
		sessions: []*models.PomodoroSession{
			{Type: models.SessionFocus, StartTime: testNow.Add(-time.Hour)},
			{Type: models.SessionFocus, StartTime: testNow.Add(-48 * time.Hour)},
		},
		goals: []*models.Goal{{Title: "g1"}, {Title: "g2", IsCompleted: true}},
	}
	provider := &stubProvider{reply: `{"reply":"hi","actions":[]}`}
	bridge := newBridge(t, provider, backend)

	assert.Equal(t, ContextSummary{ActiveTasks: 2, TodaySessions: 1, PendingGoals: 1}, bridge.Summary(context.Background()))

	bridge.Chat(context.Background(), "hi")
	assert.Contains(t, provider.system, "active tasks: 2")
	assert.Contains(t, provider.system, "pomodoro sessions today: 1")
	assert.Contains(t, provider.system, "pending goals: 1")
	assert.Contains(t, provider.system, "- generate_daily_plan:")
}

// TestBridge_SummaryBackendDown тестирует нулевую сводку при недоступном API
func TestBridge_SummaryBackendDown(t *testing.T) {
	bridge := newBridge(t, &stubProvider{}, &memoryBackend{failLists: true})
	assert.Equal(t, ContextSummary{}, bridge.Summary(context.Background()))
}

// TestParseReply тестирует разбор ответа модели
func TestParseReply(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		reply   string
		actions int
	}{
		{name: "чистый JSON", raw: `{"reply":"a","actions":[{"type":"list_tasks"}]}`, reply: "a", actions: 1},
		{name: "markdown-блок", raw: "```json\n{\"reply\":\"b\",\"actions\":[]}\n```", reply: "b"},
		{name: "просто текст", raw: "Just text", reply: "Just text"},
		{name: "битый JSON", raw: `{"reply": "c"`, reply: `{"reply": "c"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseReply(tt.raw)
			assert.Equal(t, tt.reply, got.Reply)
			assert.Len(t, got.Actions, tt.actions)
		})
	}
}

// TestExecute_Validation тестирует ошибки параметров
func TestExecute_Validation(t *testing.T) {
	bridge := newBridge(t, &stubProvider{}, &memoryBackend{})
	ctx := context.Background()

	assert.False(t, bridge.Execute(ctx, Action{Type: ActionCreateTask}).Success)
	assert.False(t, bridge.Execute(ctx, Action{Type: ActionCreateNote}).Success)
	assert.False(t, bridge.Execute(ctx, Action{Type: ActionStartPomodoro, Params: map[string]any{"type": "nap"}}).Success)
	assert.False(t, bridge.Execute(ctx, Action{Type: ActionCreateTask, Params: map[string]any{"title": "a", "dueDate": "tomorrow"}}).Success)

	res := bridge.Execute(ctx, Action{Type: ActionCreateTask, Params: map[string]any{"title": "a", "dueDate": "2026-10-22"}})
	require.True(t, res.Success)
	task := res.Data.(*models.Task)
	assert.Equal(t, time.Date(2026, 10, 22, 0, 0, 0, 0, time.UTC), *task.DueDate)
}

// TestExecute_ListTasks тестирует фильтр по статусу
func TestExecute_ListTasks(t *testing.T) {
	backend := &memoryBackend{tasks: []*models.Task{
		{Title: "a", Status: models.StatusPending, Priority: models.PriorityLow},
		{Title: "b", Status: models.StatusDone, Priority: models.PriorityHigh},
	}}
	bridge := newBridge(t, &stubProvider{}, backend)

	res := bridge.Execute(context.Background(), Action{Type: ActionListTasks, Params: map[string]any{"status": "done"}})
	require.True(t, res.Success)
	assert.Equal(t, "- [done] b (high)", res.Message)

	empty := newBridge(t, &stubProvider{}, &memoryBackend{})
	assert.Equal(t, "задач нет", empty.Execute(context.Background(), Action{Type: ActionListTasks}).Message)
}

// TestExecute_AnalyzeProductivity тестирует отчёт о продуктивности
func TestExecute_AnalyzeProductivity(t *testing.T) {
	yesterday := testNow.Add(-24 * time.Hour)
	backend := &memoryBackend{
		tasks: []*models.Task{
			{Title: "done", Status: models.StatusDone, Base: models.Base{UpdatedAt: yesterday}},
			{Title: "late", Status: models.StatusPending, DueDate: ptr(testNow.Add(-72 * time.Hour))},
		},
		sessions: []*models.PomodoroSession{
			{Type: models.SessionFocus, Duration: 25, Completed: true, StartTime: testNow.Add(-2 * time.Hour)},
			{Type: models.SessionShortBreak, Duration: 5, Completed: true, StartTime: testNow.Add(-90 * time.Minute)},
		},
	}
	res := newBridge(t, &stubProvider{}, backend).Execute(context.Background(), Action{Type: ActionAnalyzeProductivity})
	require.True(t, res.Success)

	report := res.Data.(productivityReport)
	assert.Equal(t, 25, report.FocusMinutes)
	assert.Equal(t, 1, report.CompletedTasks)
	assert.Equal(t, 1, report.PendingTasks)
	assert.Equal(t, 1, report.OverdueTasks)
	assert.Equal(t, 2, report.Streak)
}

// TestExecute_DailyPlan тестирует порядок задач в плане
func TestExecute_DailyPlan(t *testing.T) {
	backend := &memoryBackend{tasks: []*models.Task{
		{Base: models.Base{ID: "low"}, Title: "Low", Status: models.StatusPending, Priority: models.PriorityLow},
		{Base: models.Base{ID: "today"}, Title: "Today", Status: models.StatusPending, Priority: models.PriorityLow, DueDate: ptr(testNow.Add(time.Hour))},
		{Base: models.Base{ID: "late"}, Title: "Late", Status: models.StatusPending, Priority: models.PriorityLow, DueDate: ptr(testNow.Add(-48 * time.Hour))},
		{Base: models.Base{ID: "high"}, Title: "High", Status: models.StatusInProgress, Priority: models.PriorityHigh},
		{Base: models.Base{ID: "done"}, Title: "Done", Status: models.StatusDone, Priority: models.PriorityHigh},
	}}

	res := newBridge(t, &stubProvider{}, backend).Execute(context.Background(), Action{Type: ActionGenerateDailyPlan})
	require.True(t, res.Success)

	plan := res.Data.([]PlanItem)
	var order []string
	for _, item := range plan {
		order = append(order, item.Task.ID)
	}
	assert.Equal(t, []string{"late", "today", "high", "low"}, order)
	assert.Equal(t, time.Date(2026, 10, 21, 14, 35, 0, 0, time.UTC), plan[0].Start)
	assert.Equal(t, plan[0].End.Add(5*time.Minute), plan[1].Start)
	assert.True(t, strings.HasPrefix(res.Message, "14:35-15:00 Late"))
}

// TestKeywordProvider тестирует распознавание действий по ключевым словам
func TestKeywordProvider(t *testing.T) {
	tests := []struct {
		message string
		action  string
		params  map[string]any
	}{
		{message: "Add task: write essay", action: ActionCreateTask, params: map[string]any{"title": "write essay"}},
		{message: "Создай задачу: позвонить маме", action: ActionCreateTask, params: map[string]any{"title": "позвонить маме"}},
		{message: "start a 40 minute focus session", action: ActionStartPomodoro, params: map[string]any{"type": "focus", "duration": float64(40)}},
		{message: "note: remember the milk", action: ActionCreateNote, params: map[string]any{"title": "remember the milk", "content": "remember the milk"}},
		{message: "plan my day", action: ActionGenerateDailyPlan},
		{message: "how is my productivity?", action: ActionAnalyzeProductivity},
		{message: "show my tasks", action: ActionListTasks},
		{message: "hello", action: ""},
	}

	p := NewKeywordProvider()
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			raw, err := p.Complete(context.Background(), "", tt.message)
			require.NoError(t, err)

			reply := parseReply(raw)
			assert.NotEmpty(t, reply.Reply)
			if tt.action == "" {
				assert.Empty(t, reply.Actions)
				return
			}
			require.Len(t, reply.Actions, 1)
			assert.Equal(t, tt.action, reply.Actions[0].Type)
			if tt.params != nil {
				assert.Equal(t, tt.params, reply.Actions[0].Params)
			}
		})
	}
}

// TestNewProvider тестирует выбор провайдера
func TestNewProvider(t *testing.T) {
	p, err := NewProvider(configFor("", ""))
	require.NoError(t, err)
	assert.Equal(t, "keyword", p.Name())

	p, err = NewProvider(configFor("", "sk-test"))
	require.NoError(t, err)
	assert.Equal(t, "deepseek", p.Name())

	_, err = NewProvider(configFor("deepseek", ""))
	assert.Error(t, err)

	_, err = NewProvider(configFor("gpt", ""))
	assert.Error(t, err)
}

// TestMCPTool тестирует вызов действия через MCP-обработчик
func TestMCPTool(t *testing.T) {
	backend := &memoryBackend{}
	bridge := newBridge(t, &stubProvider{}, backend)
	require.NotNil(t, NewMCPServer(bridge))

	req := mcp.CallToolRequest{}
	req.Params.Name = ActionCreateTask
	req.Params.Arguments = map[string]any{"title": "From MCP", "ignored": true}

	res, err := bridge.tool(ActionCreateTask, "title", "priority")(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.IsError)
	require.Len(t, backend.tasks, 1)
	assert.Equal(t, "From MCP", backend.tasks[0].Title)

	req.Params.Arguments = map[string]any{}
	res, err = bridge.tool(ActionCreateTask, "title")(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func configFor(provider, key string) config.AssistantConfig {
	return config.AssistantConfig{Provider: provider, APIKey: key, Model: "deepseek-chat"}
}
