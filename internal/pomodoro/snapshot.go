package pomodoro

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"zeno/internal/models"
	"zeno/internal/slot"
)

// SlotCurrent - слот для переходного состояния движка между запусками CLI.
const SlotCurrent = "pomodoro.current"

type Snapshot struct {
	State     State                   `json:"state"`
	Session   *models.PomodoroSession `json:"session,omitempty"`
	Remaining int                     `json:"remaining"`
	SavedAt   time.Time               `json:"savedAt"`
}

func (e *Engine) Snapshot() Snapshot {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	snap := Snapshot{State: e.state(), Remaining: e.remaining, SavedAt: e.now()}
	if e.current != nil {
		snap.Session = e.current.Clone()
	}
	return snap
}

// Restore восстанавливает переходное состояние. Для работавшей сессии
// время, прошедшее с SavedAt, списывается; если оно вышло, сессия завершается.
func (e *Engine) Restore(snap Snapshot) {
	e.mtx.Lock()
	if snap.Session == nil || snap.State == StateIdle {
		e.current, e.running, e.remaining = nil, false, 0
		e.mtx.Unlock()
		return
	}

	e.current = snap.Session.Clone()
	e.running = snap.State == StateRunning
	e.remaining = snap.Remaining
	if e.running && !snap.SavedAt.IsZero() {
		if elapsed := int(e.now().Sub(snap.SavedAt) / time.Second); elapsed > 0 {
			e.remaining -= elapsed
		}
	}
	remaining := e.remaining
	e.mtx.Unlock()

	if remaining <= 0 {
		e.SetRemaining(0)
	}
}

func SaveSnapshot(ctx context.Context, slots slot.Storage, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("сериализация состояния помодоро: %w", err)
	}
	return slots.Save(ctx, SlotCurrent, data)
}

// LoadSnapshot возвращает пустой снимок, если слот отсутствует или повреждён.
func LoadSnapshot(ctx context.Context, slots slot.Storage) (Snapshot, error) {
	data, err := slots.Load(ctx, SlotCurrent)
	if errors.Is(err, slot.ErrNotFound) {
		return Snapshot{State: StateIdle}, nil
	}
	if err != nil {
		return Snapshot{State: StateIdle}, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{State: StateIdle}, nil
	}
	return snap, nil
}
