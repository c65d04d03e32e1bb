package inmemory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"zeno/internal/models"
	"zeno/internal/repository"
	"zeno/internal/repository/inmemory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(id, userID, title string) *models.Task {
	return &models.Task{Base: models.Base{ID: id, UserID: userID}, Title: title}
}

// TestStorage_HealthCheck тестирует проверку здоровья
func TestStorage_HealthCheck(t *testing.T) {
	storage := inmemory.NewStorage[models.Task]("tasks")
	assert.NoError(t, storage.HealthCheck(context.Background()))
}

// TestStorage_CreateAndGet тестирует создание и получение
func TestStorage_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage[models.Task]("tasks")

	original := newTask("t1", "alice", "Write report")
	require.NoError(t, storage.Create(ctx, original))

	// изменение исходного объекта не влияет на хранилище
	original.Title = "changed"

	got, err := storage.GetByID(ctx, "alice", "t1")
	require.NoError(t, err)
	assert.Equal(t, "Write report", got.Title)

	got.Title = "changed too"
	again, err := storage.GetByID(ctx, "alice", "t1")
	require.NoError(t, err)
	assert.Equal(t, "Write report", again.Title)
}

// TestStorage_ListKeepsOrder тестирует порядок вставки
func TestStorage_ListKeepsOrder(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage[models.Task]("tasks")

	for i := 0; i < 5; i++ {
		require.NoError(t, storage.Create(ctx, newTask(fmt.Sprintf("t%d", i), "alice", "task")))
	}
	require.NoError(t, storage.Delete(ctx, "alice", "t2"))

	list, err := storage.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, []string{"t0", "t1", "t3", "t4"}, []string{list[0].ID, list[1].ID, list[2].ID, list[3].ID})
}

// TestStorage_Ownership тестирует изоляцию данных между пользователями
func TestStorage_Ownership(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage[models.Task]("tasks")
	require.NoError(t, storage.Create(ctx, newTask("t1", "alice", "private")))

	_, err := storage.GetByID(ctx, "bob", "t1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = storage.Update(ctx, newTask("t1", "bob", "stolen"))
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = storage.Delete(ctx, "bob", "t1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	list, err := storage.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := storage.GetByID(ctx, "alice", "t1")
	require.NoError(t, err)
	assert.Equal(t, "private", got.Title)
}

// TestStorage_UpdateAndDeleteMissing тестирует операции с несуществующей записью
func TestStorage_UpdateAndDeleteMissing(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage[models.Task]("tasks")

	assert.ErrorIs(t, storage.Update(ctx, newTask("nope", "alice", "x")), repository.ErrNotFound)
	assert.ErrorIs(t, storage.Delete(ctx, "alice", "nope"), repository.ErrNotFound)
}

// TestStorage_Concurrent тестирует параллельный доступ
func TestStorage_Concurrent(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage[models.Task]("tasks")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("t%d", i)
			assert.NoError(t, storage.Create(ctx, newTask(id, "alice", "task")))
			_, err := storage.GetByID(ctx, "alice", id)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	list, err := storage.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 50)
}
