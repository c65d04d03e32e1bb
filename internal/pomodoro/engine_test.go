package pomodoro_test

import (
	"context"
	"testing"
	"time"

	"zeno/internal/models"
	"zeno/internal/pomodoro"
	"zeno/internal/slot"
	"zeno/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func newEngine(t *testing.T, opts ...pomodoro.Option) (*pomodoro.Engine, *store.SessionStore, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
	sessions := store.NewSessionStore(slot.NewMemory())
	opts = append([]pomodoro.Option{pomodoro.WithClock(c.Now)}, opts...)
	return pomodoro.NewEngine(sessions, opts...), sessions, c
}

// TestEngine_IdleIgnoresTransitions тестирует, что из Idle принимается только Start
func TestEngine_IdleIgnoresTransitions(t *testing.T) {
	engine, sessions, _ := newEngine(t)

	assert.False(t, engine.Pause())
	assert.False(t, engine.Resume())
	assert.False(t, engine.Tick())
	_, ok := engine.Complete()
	assert.False(t, ok)
	assert.False(t, engine.Cancel())
	engine.SetRemaining(0)

	assert.Equal(t, pomodoro.StateIdle, engine.State())
	assert.Equal(t, 0, sessions.Len())
}

// TestEngine_FullFocusSession тестирует 25-минутную сессию до автозавершения
func TestEngine_FullFocusSession(t *testing.T) {
	completions := 0
	engine, sessions, _ := newEngine(t, pomodoro.OnComplete(func(models.PomodoroSession) { completions++ }))

	engine.Start(models.SessionFocus, 25, "thesis")
	require.Equal(t, pomodoro.StateRunning, engine.State())
	require.Equal(t, 1500, engine.Remaining())

	finished := 0
	for i := 0; i < 1500; i++ {
		if engine.Tick() {
			finished++
		}
	}

	assert.Equal(t, 1, finished)
	assert.Equal(t, 1, completions)
	assert.Equal(t, pomodoro.StateIdle, engine.State())
	assert.Equal(t, 0, engine.Remaining())

	history := sessions.All()
	require.Len(t, history, 1)
	assert.True(t, history[0].Completed)
	assert.Equal(t, 25, history[0].Duration)
	assert.NotNil(t, history[0].EndTime)
	assert.Equal(t, "thesis", history[0].Label)

	// лишние тики после завершения ничего не делают
	assert.False(t, engine.Tick())
	assert.Equal(t, 1, sessions.Len())
}

// TestEngine_TickDecrements тестирует уменьшение на 1 за тик и завершение на переходе 1 -> 0
func TestEngine_TickDecrements(t *testing.T) {
	engine, sessions, _ := newEngine(t)
	engine.Start(models.SessionShortBreak, 5, "")

	engine.Tick()
	assert.Equal(t, 299, engine.Remaining())

	engine.SetRemaining(2)
	assert.False(t, engine.Tick())
	assert.Equal(t, 1, engine.Remaining())
	assert.Equal(t, 0, sessions.Len())

	assert.True(t, engine.Tick())
	assert.Equal(t, 1, sessions.Len())
}

// TestEngine_PausedDoesNotTick тестирует, что в паузе время не уходит
func TestEngine_PausedDoesNotTick(t *testing.T) {
	engine, _, _ := newEngine(t)
	engine.Start(models.SessionFocus, 25, "")
	engine.Tick()

	require.True(t, engine.Pause())
	assert.Equal(t, pomodoro.StatePaused, engine.State())
	assert.False(t, engine.Pause())

	for i := 0; i < 10; i++ {
		engine.Tick()
	}
	assert.Equal(t, 1499, engine.Remaining())

	require.True(t, engine.Resume())
	assert.False(t, engine.Resume())
	engine.Tick()
	assert.Equal(t, 1498, engine.Remaining())
}

// TestEngine_CancelNeverRecords тестирует, что отмена не пишет историю
func TestEngine_CancelNeverRecords(t *testing.T) {
	engine, sessions, _ := newEngine(t)

	engine.Start(models.SessionFocus, 25, "")
	assert.True(t, engine.Cancel())
	engine.Start(models.SessionFocus, 25, "")
	engine.Pause()
	assert.True(t, engine.ClearSession())

	assert.Equal(t, pomodoro.StateIdle, engine.State())
	assert.Equal(t, 0, sessions.Len())
}

// TestEngine_StopRecordsOnce тестирует ручное завершение из Running и Paused
func TestEngine_StopRecordsOnce(t *testing.T) {
	engine, sessions, c := newEngine(t)

	engine.Start(models.SessionFocus, 25, "")
	c.now = c.now.Add(10 * time.Minute)
	done, ok := engine.Stop()
	require.True(t, ok)
	assert.True(t, done.Completed)
	require.NotNil(t, done.EndTime)
	assert.Equal(t, c.now, *done.EndTime)

	engine.Start(models.SessionLongBreak, 15, "")
	engine.Pause()
	_, ok = engine.Complete()
	require.True(t, ok)

	_, ok = engine.Complete()
	assert.False(t, ok)
	assert.Equal(t, 2, sessions.Len())
	for _, s := range sessions.All() {
		assert.True(t, s.Completed)
		assert.NotNil(t, s.EndTime)
	}
}

// TestEngine_StartDiscardsCurrent тестирует молчаливое отбрасывание текущей сессии
func TestEngine_StartDiscardsCurrent(t *testing.T) {
	engine, sessions, _ := newEngine(t)

	first := engine.Start(models.SessionFocus, 25, "first")
	second := engine.Start(models.SessionShortBreak, 5, "second")

	assert.NotEqual(t, first.ID, second.ID)
	current, ok := engine.Current()
	require.True(t, ok)
	assert.Equal(t, "second", current.Label)
	assert.Equal(t, 300, engine.Remaining())
	assert.Equal(t, 0, sessions.Len())
}

// TestEngine_SetRemaining тестирует сброс и завершение через SetRemaining
func TestEngine_SetRemaining(t *testing.T) {
	engine, sessions, _ := newEngine(t)
	engine.Start(models.SessionFocus, 25, "")
	engine.Tick()

	engine.Reset()
	assert.Equal(t, 1500, engine.Remaining())

	engine.SetRemaining(-5)
	assert.Equal(t, pomodoro.StateIdle, engine.State())
	assert.Equal(t, 1, sessions.Len())
}

// TestEngine_TodaySessions тестирует выборку сессий за текущий день
func TestEngine_TodaySessions(t *testing.T) {
	engine, sessions, c := newEngine(t)

	yesterday := c.now.AddDate(0, 0, -1)
	sessions.Append(&models.PomodoroSession{Base: models.Base{ID: "old"}, Type: models.SessionFocus, Duration: 25, Completed: true, StartTime: yesterday})

	engine.Start(models.SessionFocus, 25, "")
	engine.Stop()
	engine.Start(models.SessionShortBreak, 5, "")
	engine.Stop()

	today := engine.TodaySessions(c.now)
	assert.Len(t, today, 2)
	assert.Len(t, engine.History(), 3)
}

// TestEngine_SnapshotRestore тестирует перенос состояния между экземплярами
func TestEngine_SnapshotRestore(t *testing.T) {
	slots := slot.NewMemory()
	engine, _, c := newEngine(t)
	engine.Start(models.SessionFocus, 25, "carry")
	engine.Tick()

	require.NoError(t, pomodoro.SaveSnapshot(context.Background(), slots, engine.Snapshot()))

	snap, err := pomodoro.LoadSnapshot(context.Background(), slots)
	require.NoError(t, err)

	c.now = c.now.Add(99 * time.Second)
	restored, sessions, _ := newEngine(t, pomodoro.WithClock(c.Now))
	restored.Restore(snap)

	assert.Equal(t, pomodoro.StateRunning, restored.State())
	assert.Equal(t, 1400, restored.Remaining())
	assert.Equal(t, 0, sessions.Len())

	// время вышло, пока процесс не работал
	c.now = c.now.Add(time.Hour)
	expired, history, _ := newEngine(t, pomodoro.WithClock(c.Now))
	expired.Restore(restored.Snapshot())
	assert.Equal(t, pomodoro.StateIdle, expired.State())
	assert.Equal(t, 1, history.Len())
}

// TestLoadSnapshot_Empty тестирует пустое состояние без слота
func TestLoadSnapshot_Empty(t *testing.T) {
	snap, err := pomodoro.LoadSnapshot(context.Background(), slot.NewMemory())
	require.NoError(t, err)
	assert.Equal(t, pomodoro.StateIdle, snap.State)
	assert.Nil(t, snap.Session)
}
