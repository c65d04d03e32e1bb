// Package cli - командная строка zeno над локальными сторами.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"zeno/internal/assistant"
	"zeno/internal/client"
	"zeno/internal/config"
	"zeno/internal/logger"
	"zeno/internal/models"
	"zeno/internal/pomodoro"
	"zeno/internal/slot"
	"zeno/internal/store"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type App struct {
	Config *config.Config
	Slots  slot.Storage
	Stores *store.Stores
	Engine *pomodoro.Engine
	Now    func() time.Time
	// Bridge собирает ассистента; по умолчанию по Config.Assistant.
	Bridge func(a *App) (*assistant.Bridge, error)

	opened bool
}

// New собирает сторы и движок над slots и восстанавливает состояние таймера.
func New(cfg *config.Config, slots slot.Storage, now func() time.Time) *App {
	if now == nil {
		now = time.Now
	}

	stores := store.Open(slots, store.WithClock(now))
	engine := pomodoro.NewEngine(stores.Sessions, pomodoro.WithClock(now))

	snap, err := pomodoro.LoadSnapshot(context.Background(), slots)
	if err != nil {
		logger.Warn("Store: Не удалось прочитать состояние таймера", zap.Error(err))
	}
	engine.Restore(snap)

	return &App{
		Config: cfg,
		Slots:  slots,
		Stores: stores,
		Engine: engine,
		Now:    now,
		Bridge: defaultBridge,
	}
}

// Open открывает хранилище слотов по конфигурации.
func Open(cfg *config.Config) (*App, error) {
	slots, err := openSlots(cfg.Storage)
	if err != nil {
		return nil, err
	}
	return New(cfg, slots, nil), nil
}

func dataPath(cfg config.StorageConfig) (string, error) {
	if cfg.Path != "" {
		return cfg.Path, nil
	}
	if p := os.Getenv("ZENO_DATA"); p != "" {
		return p, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("домашний каталог: %w", err)
	}
	name := "zeno.db"
	if cfg.Backend == "dir" {
		name = "data"
	}
	return filepath.Join(home, ".zeno", name), nil
}

func openSlots(cfg config.StorageConfig) (slot.Storage, error) {
	if cfg.Backend == "memory" {
		return slot.NewMemory(), nil
	}

	path, err := dataPath(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case "dir":
		return slot.NewDir(path)
	case "sqlite", "":
		return slot.OpenSQLite(path)
	default:
		return nil, fmt.Errorf("неизвестный storage.backend %q", cfg.Backend)
	}
}

// Close сохраняет состояние таймера и закрывает хранилище.
func (a *App) Close() error {
	err := pomodoro.SaveSnapshot(context.Background(), a.Slots, a.Engine.Snapshot())
	return multierr.Append(err, a.Slots.Close())
}

func defaultBridge(a *App) (*assistant.Bridge, error) {
	cfg := a.Config.Assistant

	provider, err := assistant.NewProvider(cfg)
	if err != nil {
		return nil, err
	}

	api := client.New(cfg.APIURL, cfg.APIToken, client.WithTimeout(cfg.Timeout))
	return assistant.NewBridge(provider, assistant.NewClientBackend(api),
		assistant.WithPomodoroStarter(func(typ models.SessionType, minutes int) {
			a.Engine.Start(typ, minutes, "")
		}),
	)
}

// resolveID находит запись по полному id или однозначному префиксу.
func resolveID[T models.Entity](items []T, prefix string) (string, error) {
	var found []string
	for _, item := range items {
		id := item.Meta().ID
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			found = append(found, id)
		}
	}

	switch len(found) {
	case 0:
		return "", fmt.Errorf("запись %q не найдена", prefix)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("префикс %q неоднозначен: %d совпадений", prefix, len(found))
	}
}

func parseDate(raw string, now time.Time) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	switch raw {
	case "today":
		d := startOfDay(now)
		return &d, nil
	case "tomorrow":
		d := startOfDay(now).AddDate(0, 0, 1)
		return &d, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, now.Location())
	if err != nil {
		return nil, fmt.Errorf("неверная дата %q, ожидается YYYY-MM-DD", raw)
	}
	return &t, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
