// Package assistant переводит сообщения чата в действия над данными
// пользователя через удалённый API.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"zeno/internal/logger"
	"zeno/internal/models"
	"zeno/internal/query"

	"go.uber.org/zap"
)

const (
	ActionCreateTask          = "create_task"
	ActionStartPomodoro       = "start_pomodoro"
	ActionCreateNote          = "create_note"
	ActionListTasks           = "list_tasks"
	ActionAnalyzeProductivity = "analyze_productivity"
	ActionGenerateDailyPlan   = "generate_daily_plan"
)

type ContextSummary struct {
	ActiveTasks   int `json:"activeTasks"`
	TodaySessions int `json:"todaySessions"`
	PendingGoals  int `json:"pendingGoals"`
}

type Action struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params,omitempty"`
}

type ActionResult struct {
	Action  string `json:"action"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type Response struct {
	Reply   string         `json:"reply"`
	Results []ActionResult `json:"results"`
}

type modelReply struct {
	Reply   string   `json:"reply"`
	Actions []Action `json:"actions"`
}

type Bridge struct {
	provider Provider
	backend  Backend
	prompt   *Prompt
	now      func() time.Time
	onStart  func(models.SessionType, int)
}

type Option func(*Bridge)

func WithClock(now func() time.Time) Option {
	return func(b *Bridge) {
		b.now = now
	}
}

// WithPomodoroStarter вызывается после успешного start_pomodoro,
// чтобы запустить локальный таймер.
func WithPomodoroStarter(start func(models.SessionType, int)) Option {
	return func(b *Bridge) {
		b.onStart = start
	}
}

func NewBridge(provider Provider, backend Backend, opts ...Option) (*Bridge, error) {
	prompt, err := LoadPrompt()
	if err != nil {
		return nil, err
	}

	b := &Bridge{
		provider: provider,
		backend:  backend,
		prompt:   prompt,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Chat отвечает на сообщение и по порядку выполняет запрошенные действия.
// Ошибка провайдера превращается в стандартный ответ с извинением,
// ошибка отдельного действия попадает в его ActionResult.
func (b *Bridge) Chat(ctx context.Context, message string) Response {
	now := b.now()
	summary := b.Summary(ctx)

	system, err := b.prompt.Render(summary, now)
	if err != nil {
		logger.Error("Assistant: Ошибка промпта", err)
		return Response{Reply: b.prompt.CannedReply}
	}

	raw, err := b.provider.Complete(ctx, system, message)
	if err != nil {
		logger.Error("Assistant: Провайдер недоступен", err, zap.String("provider", b.provider.Name()))
		return Response{Reply: b.prompt.CannedReply}
	}

	reply := parseReply(raw)
	logger.Info("Assistant: Ответ модели",
		zap.String("provider", b.provider.Name()),
		zap.Int("actions", len(reply.Actions)))

	resp := Response{Reply: reply.Reply, Results: make([]ActionResult, 0, len(reply.Actions))}
	for _, action := range reply.Actions {
		resp.Results = append(resp.Results, b.Execute(ctx, action))
	}
	return resp
}

// Summary собирает сводку состояния; недоступные данные считаются нулём.
func (b *Bridge) Summary(ctx context.Context) ContextSummary {
	var summary ContextSummary
	now := b.now()

	if tasks, err := b.backend.ListTasks(ctx); err != nil {
		logger.Warn("Assistant: Не удалось получить задачи", zap.Error(err))
	} else {
		for _, t := range tasks {
			if t.Status != models.StatusDone {
				summary.ActiveTasks++
			}
		}
	}

	if sessions, err := b.backend.ListSessions(ctx); err != nil {
		logger.Warn("Assistant: Не удалось получить сессии", zap.Error(err))
	} else {
		summary.TodaySessions = len(query.TodaySessions(sessions, now))
	}

	if goals, err := b.backend.ListGoals(ctx); err != nil {
		logger.Warn("Assistant: Не удалось получить цели", zap.Error(err))
	} else {
		summary.PendingGoals = len(query.ActiveGoals(goals))
	}
	return summary
}

// parseReply достаёт JSON из ответа модели. Ответ без JSON целиком
// считается текстом без действий.
func parseReply(raw string) modelReply {
	text := strings.TrimSpace(raw)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		var reply modelReply
		if err := json.Unmarshal([]byte(text[start:end+1]), &reply); err == nil {
			return reply
		}
	}
	return modelReply{Reply: text}
}

func failure(action string, err error) ActionResult {
	return ActionResult{Action: action, Error: err.Error()}
}

func success(action, message string, data any) ActionResult {
	return ActionResult{Action: action, Success: true, Message: message, Data: data}
}

func (r ActionResult) String() string {
	if !r.Success {
		return fmt.Sprintf("%s: ошибка: %s", r.Action, r.Error)
	}
	return fmt.Sprintf("%s: %s", r.Action, r.Message)
}
