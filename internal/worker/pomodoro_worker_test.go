package worker_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"zeno/internal/models"
	"zeno/internal/pomodoro"
	"zeno/internal/slot"
	"zeno/internal/store"
	"zeno/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() (*pomodoro.Engine, *store.SessionStore) {
	sessions := store.NewSessionStore(slot.NewMemory())
	return pomodoro.NewEngine(sessions), sessions
}

// TestPomodoroWorker_RunsToCompletion тестирует доведение сессии до конца тиками
func TestPomodoroWorker_RunsToCompletion(t *testing.T) {
	engine, sessions := newEngine()
	engine.Start(models.SessionFocus, 25, "")
	engine.SetRemaining(3)

	var ticks atomic.Int32
	interval := time.Millisecond
	w := worker.NewPomodoroWorker(engine, &interval, func(bool) { ticks.Add(1) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	finished := w.Start(ctx)

	assert.True(t, finished)
	assert.Equal(t, int32(3), ticks.Load())
	assert.Equal(t, pomodoro.StateIdle, engine.State())
	assert.Equal(t, 1, sessions.Len())
}

// TestPomodoroWorker_StopsOnCancel тестирует остановку по контексту без завершения сессии
func TestPomodoroWorker_StopsOnCancel(t *testing.T) {
	engine, sessions := newEngine()
	engine.Start(models.SessionFocus, 25, "")

	interval := time.Hour
	w := worker.NewPomodoroWorker(engine, &interval, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool, 1)
	go func() { done <- w.Start(ctx) }()
	cancel()

	select {
	case finished := <-done:
		assert.False(t, finished)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "воркер не остановился")
	}
	assert.Equal(t, pomodoro.StateRunning, engine.State())
	assert.Equal(t, 0, sessions.Len())
}

// TestPomodoroWorker_IdleEngine тестирует выход, когда сессии нет
func TestPomodoroWorker_IdleEngine(t *testing.T) {
	engine, _ := newEngine()
	interval := time.Millisecond
	w := worker.NewPomodoroWorker(engine, &interval, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.False(t, w.Start(ctx))
	assert.NoError(t, ctx.Err())
}

// TestPomodoroWorker_NonPositiveInterval тестирует запуск с нулевым и отрицательным интервалом
func TestPomodoroWorker_NonPositiveInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		engine, _ := newEngine()
		engine.Start(models.SessionFocus, 25, "")
		w := worker.NewPomodoroWorker(engine, &interval, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.NotPanics(t, func() {
			assert.False(t, w.Start(ctx))
		}, "interval %s", interval)
	}
}
