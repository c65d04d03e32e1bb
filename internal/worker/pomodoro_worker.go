package worker

import (
	"context"
	"time"

	"zeno/internal/logger"
	"zeno/internal/pomodoro"

	"go.uber.org/zap"
)

// Ticker - источник секундных тиков для движка помодоро.
type Ticker interface {
	Tick() bool
	State() pomodoro.State
}

type PomodoroWorker struct {
	engine   Ticker
	interval time.Duration
	onTick   func(finished bool)
}

func NewPomodoroWorker(engine Ticker, interval *time.Duration, onTick func(finished bool)) *PomodoroWorker {
	intervalToSet := time.Second
	if interval != nil && *interval > 0 {
		intervalToSet = *interval
	}

	return &PomodoroWorker{
		engine:   engine,
		interval: intervalToSet,
		onTick:   onTick,
	}
}

// Start тикает движок, пока не отменён ctx. Возвращает true,
// если сессия завершилась тиком, и false при отмене контекста
// или если движок ушёл в Idle иным путём.
func (w *PomodoroWorker) Start(ctx context.Context) bool {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Worker: Таймер помодоро запущен", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ticker.C:
			if w.engine.State() == pomodoro.StateIdle {
				logger.Info("Worker: Нет активной сессии, таймер останавливается")
				return false
			}
			finished := w.engine.Tick()
			if w.onTick != nil {
				w.onTick(finished)
			}
			if finished {
				logger.Info("Worker: Сессия завершена таймером")
				return true
			}
		case <-ctx.Done():
			logger.Info("Worker: Таймер помодоро останавливается")
			return false
		}
	}
}
