package slot_test

import (
	"context"
	"path/filepath"
	"testing"

	"zeno/internal/slot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]slot.Storage {
	t.Helper()

	dir, err := slot.NewDir(t.TempDir())
	require.NoError(t, err)

	db, err := slot.OpenSQLite(filepath.Join(t.TempDir(), "slots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]slot.Storage{
		"memory": slot.NewMemory(),
		"dir":    dir,
		"sqlite": db,
	}
}

// TestStorage_LoadSave тестирует чтение и перезапись слота во всех бэкендах
func TestStorage_LoadSave(t *testing.T) {
	ctx := context.Background()

	for name, storage := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := storage.Load(ctx, "tasks")
			assert.ErrorIs(t, err, slot.ErrNotFound)

			require.NoError(t, storage.Save(ctx, "tasks", []byte(`{"items":[]}`)))
			data, err := storage.Load(ctx, "tasks")
			require.NoError(t, err)
			assert.JSONEq(t, `{"items":[]}`, string(data))

			// последняя запись выигрывает
			require.NoError(t, storage.Save(ctx, "tasks", []byte(`{"items":[1]}`)))
			data, err = storage.Load(ctx, "tasks")
			require.NoError(t, err)
			assert.JSONEq(t, `{"items":[1]}`, string(data))

			_, err = storage.Load(ctx, "goals")
			assert.ErrorIs(t, err, slot.ErrNotFound)
		})
	}
}

// TestDir_InvalidName тестирует отказ на имена с разделителями пути
func TestDir_InvalidName(t *testing.T) {
	dir, err := slot.NewDir(t.TempDir())
	require.NoError(t, err)

	err = dir.Save(context.Background(), "../escape", []byte("{}"))
	assert.Error(t, err)
}
