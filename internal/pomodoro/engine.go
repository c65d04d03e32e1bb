// Package pomodoro - конечный автомат таймера помодоро поверх стора сессий.
//
// Idle -> Running (Start) -> Paused (Pause) -> Running (Resume);
// Running/Paused -> Idle через Complete/Stop (сессия пишется в историю)
// или Cancel (сессия отбрасывается). Недопустимые переходы ничего не делают.
package pomodoro

import (
	"sync"
	"time"

	"zeno/internal/logger"
	"zeno/internal/models"
	"zeno/internal/query"
	"zeno/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

type Engine struct {
	mtx      sync.Mutex
	sessions *store.SessionStore
	now      func() time.Time
	newID    func() string

	current   *models.PomodoroSession
	running   bool
	remaining int

	onComplete []func(models.PomodoroSession)
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}

// OnComplete регистрирует обработчик завершённой сессии.
// Обработчики вызываются вне блокировки движка.
func OnComplete(fn func(models.PomodoroSession)) Option {
	return func(e *Engine) {
		e.onComplete = append(e.onComplete, fn)
	}
}

func NewEngine(sessions *store.SessionStore, opts ...Option) *Engine {
	e := &Engine{
		sessions: sessions,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) state() State {
	switch {
	case e.current == nil:
		return StateIdle
	case e.running:
		return StateRunning
	default:
		return StatePaused
	}
}

func (e *Engine) State() State {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.state()
}

func (e *Engine) Remaining() int {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.remaining
}

// Current возвращает копию текущей сессии.
func (e *Engine) Current() (*models.PomodoroSession, bool) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.current == nil {
		return nil, false
	}
	return e.current.Clone(), true
}

// Start запускает новую сессию. Текущая сессия, если она есть,
// молча отбрасывается и в историю не попадает.
func (e *Engine) Start(sessionType models.SessionType, minutes int, label string) models.PomodoroSession {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.current != nil {
		logger.Warn("Pomodoro: Текущая сессия отброшена новым запуском",
			zap.String("session_id", e.current.ID),
			zap.Int("remaining", e.remaining))
	}

	now := e.now()
	session := &models.PomodoroSession{
		Type:      sessionType,
		Duration:  minutes,
		Label:     label,
		StartTime: now,
	}
	session.ID = e.newID()
	session.CreatedAt = now
	session.UpdatedAt = now
	session.ApplyDefaults()

	e.current = session
	e.remaining = session.Duration * 60
	e.running = true

	logger.Info("Pomodoro: Сессия запущена",
		zap.String("session_id", session.ID),
		zap.String("type", string(session.Type)),
		zap.Int("duration", session.Duration))
	return *session.Clone()
}

func (e *Engine) Pause() bool {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.state() != StateRunning {
		return false
	}
	e.running = false
	return true
}

func (e *Engine) Resume() bool {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.state() != StatePaused {
		return false
	}
	e.running = true
	return true
}

// Tick уменьшает оставшееся время на секунду. При достижении нуля
// сессия завершается; возвращает true, если Tick завершил сессию.
func (e *Engine) Tick() bool {
	e.mtx.Lock()
	if e.state() != StateRunning {
		e.mtx.Unlock()
		return false
	}

	e.remaining--
	if e.remaining > 0 {
		e.mtx.Unlock()
		return false
	}

	done, handlers := e.complete()
	e.mtx.Unlock()

	notify(done, handlers)
	return true
}

// Complete завершает текущую сессию и добавляет её в историю.
func (e *Engine) Complete() (*models.PomodoroSession, bool) {
	e.mtx.Lock()
	if e.current == nil {
		e.mtx.Unlock()
		return nil, false
	}

	done, handlers := e.complete()
	e.mtx.Unlock()

	notify(done, handlers)
	return done.Clone(), true
}

// Stop - ручное завершение, то же самое, что Complete.
func (e *Engine) Stop() (*models.PomodoroSession, bool) {
	return e.Complete()
}

// complete вызывается под блокировкой при непустой текущей сессии.
func (e *Engine) complete() (*models.PomodoroSession, []func(models.PomodoroSession)) {
	now := e.now()
	done := e.current
	done.Completed = true
	done.EndTime = &now
	done.UpdatedAt = now

	e.sessions.Append(done)
	e.current = nil
	e.remaining = 0
	e.running = false

	logger.Info("Pomodoro: Сессия завершена",
		zap.String("session_id", done.ID),
		zap.String("type", string(done.Type)),
		zap.Int("duration", done.Duration))
	return done, e.onComplete
}

func notify(done *models.PomodoroSession, handlers []func(models.PomodoroSession)) {
	for _, fn := range handlers {
		fn(*done.Clone())
	}
}

// Cancel отбрасывает текущую сессию без записи в историю.
func (e *Engine) Cancel() bool {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.current == nil {
		return false
	}
	logger.Info("Pomodoro: Сессия отменена", zap.String("session_id", e.current.ID))
	e.current = nil
	e.remaining = 0
	e.running = false
	return true
}

// ClearSession - синоним Cancel.
func (e *Engine) ClearSession() bool {
	return e.Cancel()
}

// SetRemaining напрямую задаёт оставшееся время; значение <= 0 завершает сессию.
func (e *Engine) SetRemaining(seconds int) {
	e.mtx.Lock()
	if e.current == nil {
		e.mtx.Unlock()
		return
	}
	if seconds > 0 {
		e.remaining = seconds
		e.mtx.Unlock()
		return
	}

	done, handlers := e.complete()
	e.mtx.Unlock()
	notify(done, handlers)
}

// Reset возвращает оставшееся время к полной длительности текущей сессии.
func (e *Engine) Reset() {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.current != nil {
		e.remaining = e.current.Duration * 60
	}
}

// TodaySessions - сессии из истории, начатые в тот же календарный день, что и now.
func (e *Engine) TodaySessions(now time.Time) []*models.PomodoroSession {
	return query.TodaySessions(e.sessions.All(), now)
}

func (e *Engine) History() []*models.PomodoroSession {
	return e.sessions.All()
}
