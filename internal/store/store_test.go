package store_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"zeno/internal/models"
	"zeno/internal/slot"
	"zeno/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func sequentialIDs() store.Option {
	n := 0
	return store.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

// TestTaskStore_CreateDefaults тестирует значения по умолчанию при создании задачи
func TestTaskStore_CreateDefaults(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	tasks := store.NewTaskStore(slot.NewMemory(), store.WithClock(clock.Now))

	created := tasks.Create(models.Task{Title: "Buy milk"})

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, models.PriorityMedium, created.Priority)
	assert.Empty(t, created.Tags)
	assert.NotNil(t, created.Tags)
	assert.Empty(t, created.Subtasks)
	assert.NotNil(t, created.Subtasks)
	assert.Equal(t, clock.now, created.CreatedAt)
	assert.Equal(t, clock.now, created.UpdatedAt)
	assert.Equal(t, 1, tasks.Len())
}

// TestStore_Update тестирует частичное обновление и обновление updatedAt
func TestStore_Update(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	tasks := store.NewTaskStore(slot.NewMemory(), store.WithClock(clock.Now))
	created := tasks.Create(models.Task{Title: "Write report", Tags: []string{"work"}})

	clock.Advance(time.Hour)
	updated, ok := tasks.Update(created.ID,
		models.WithStatus(models.StatusDone),
		models.WithDescription("quarterly"),
	)

	require.True(t, ok)
	assert.Equal(t, models.StatusDone, updated.Status)
	assert.Equal(t, "quarterly", updated.Description)
	assert.Equal(t, "Write report", updated.Title)
	assert.Equal(t, []string{"work"}, updated.Tags)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, clock.now, updated.UpdatedAt)
	assert.Equal(t, created.ID, updated.ID)
}

// TestStore_UpdateUnknownID тестирует, что обновление несуществующего id ничего не делает
func TestStore_UpdateUnknownID(t *testing.T) {
	tasks := store.NewTaskStore(slot.NewMemory())
	tasks.Create(models.Task{Title: "a"})
	before := tasks.All()

	updated, ok := tasks.Update("missing", models.WithTitle("b"))

	assert.False(t, ok)
	assert.Nil(t, updated)
	assert.Equal(t, before, tasks.All())
}

// TestStore_DeleteIdempotent тестирует удаление несуществующего id
func TestStore_DeleteIdempotent(t *testing.T) {
	tasks := store.NewTaskStore(slot.NewMemory(), sequentialIDs())
	tasks.Create(models.Task{Title: "a"})
	tasks.Create(models.Task{Title: "b"})
	before := tasks.All()

	assert.NotPanics(t, func() {
		assert.False(t, tasks.Delete("nope"))
	})
	assert.Equal(t, before, tasks.All())

	assert.True(t, tasks.Delete("id-1"))
	assert.False(t, tasks.Delete("id-1"))
	require.Equal(t, 1, tasks.Len())
	assert.Equal(t, "b", tasks.All()[0].Title)
}

// TestStore_ReturnsCopies тестирует, что изменение результата не меняет стор
func TestStore_ReturnsCopies(t *testing.T) {
	tasks := store.NewTaskStore(slot.NewMemory())
	created := tasks.Create(models.Task{Title: "a", Tags: []string{"x"}})

	created.Tags[0] = "mutated"
	created.Title = "mutated"

	got, ok := tasks.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, "a", got.Title)
	assert.Equal(t, []string{"x"}, got.Tags)
}

// TestStore_RoundTrip тестирует сохранение и повторную гидрацию из слота
func TestStore_RoundTrip(t *testing.T) {
	slots := slot.NewMemory()
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	clock := &fixedClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}

	tasks := store.NewTaskStore(slots, store.WithClock(clock.Now))
	tasks.Create(models.Task{
		Title:    "Finish thesis",
		Priority: models.PriorityHigh,
		Tags:     []string{"uni", "writing"},
		Subtasks: []models.Subtask{{ID: "s1", Title: "outline"}},
		DueDate:  &due,
	})
	tasks.Create(models.Task{Title: "Buy milk"})
	require.NoError(t, tasks.PersistErr())

	reloaded := store.NewTaskStore(slots)

	assert.Equal(t, tasks.All(), reloaded.All())
}

// TestStore_CorruptedSlot тестирует откат к пустой коллекции при повреждённом слоте
func TestStore_CorruptedSlot(t *testing.T) {
	slots := slot.NewMemory()
	require.NoError(t, slots.Save(context.Background(), store.SlotTasks, []byte("{not json")))

	tasks := store.NewTaskStore(slots)

	assert.Equal(t, 0, tasks.Len())
	created := tasks.Create(models.Task{Title: "fresh"})
	assert.NotEmpty(t, created.ID)
}

type failingSlots struct {
	*slot.Memory
}

func (f failingSlots) Save(context.Context, string, []byte) error {
	return errors.New("disk full")
}

// TestStore_PersistError тестирует, что ошибка записи не ломает операции стора
func TestStore_PersistError(t *testing.T) {
	tasks := store.NewTaskStore(failingSlots{slot.NewMemory()})

	created := tasks.Create(models.Task{Title: "a"})

	assert.Equal(t, 1, tasks.Len())
	assert.NotEmpty(t, created.ID)
	assert.Error(t, tasks.PersistErr())
}

// TestGoalStore_Clamping тестирует ограничение прогресса цели
func TestGoalStore_Clamping(t *testing.T) {
	tests := []struct {
		name          string
		progress      int
		wantProgress  int
		wantCompleted bool
	}{
		{name: "negative", progress: -20, wantProgress: 0},
		{name: "zero", progress: 0, wantProgress: 0},
		{name: "middle", progress: 42, wantProgress: 42},
		{name: "exactly 100", progress: 100, wantProgress: 100, wantCompleted: true},
		{name: "over 100", progress: 150, wantProgress: 100, wantCompleted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goals := store.NewGoalStore(slot.NewMemory())

			created := goals.Create(models.Goal{Title: "Run", Progress: tt.progress})
			assert.Equal(t, tt.wantProgress, created.Progress)
			assert.Equal(t, tt.wantCompleted, created.IsCompleted)

			fresh := goals.Create(models.Goal{Title: "Read"})
			updated, ok := goals.Update(fresh.ID, models.WithGoalProgress(tt.progress))
			require.True(t, ok)
			assert.Equal(t, tt.wantProgress, updated.Progress)
			assert.Equal(t, tt.wantCompleted, updated.IsCompleted)
		})
	}
}

// TestGoalStore_CompletionAsymmetry тестирует асимметрию правила завершения
func TestGoalStore_CompletionAsymmetry(t *testing.T) {
	goals := store.NewGoalStore(slot.NewMemory())
	goal := goals.Create(models.Goal{Title: "Save money", Progress: 30})

	completed, _ := goals.Update(goal.ID, models.WithGoalCompleted(true))
	assert.Equal(t, 100, completed.Progress)

	// снижение прогресса не снимает флаг завершения, прогресс сохраняется как передан
	lowered, _ := goals.Update(goal.ID, models.WithGoalProgress(20))
	assert.True(t, lowered.IsCompleted)
	assert.Equal(t, 20, lowered.Progress)

	retitled, _ := goals.Update(goal.ID, models.WithGoalTitle("Save more"))
	assert.Equal(t, 20, retitled.Progress, "изменение других полей не трогает прогресс")

	reopened, _ := goals.Update(goal.ID, models.WithGoalCompleted(false), models.WithGoalProgress(20))
	assert.False(t, reopened.IsCompleted)
	assert.Equal(t, 20, reopened.Progress)
}

// TestGoalStore_ClampOnCompletedGoal тестирует ограничение прогресса уже завершённой цели
func TestGoalStore_ClampOnCompletedGoal(t *testing.T) {
	goals := store.NewGoalStore(slot.NewMemory())
	goal := goals.Create(models.Goal{Title: "Run", Progress: 150})
	require.True(t, goal.IsCompleted)

	for _, p := range []int{40, -5, 0, 99, 250} {
		updated, ok := goals.Update(goal.ID, models.WithGoalProgress(p))
		require.True(t, ok)
		assert.Equal(t, models.ClampProgress(p), updated.Progress, "progress %d", p)
		assert.True(t, updated.IsCompleted)
	}

	created := goals.Create(models.Goal{Title: "Read", Progress: 10, IsCompleted: true})
	assert.Equal(t, 100, created.Progress)
}

// TestTimetable_CascadeDelete тестирует каскадное удаление заданий предмета
func TestTimetable_CascadeDelete(t *testing.T) {
	slots := slot.NewMemory()
	tt := store.NewTimetable(slots)

	math := tt.CreateSubject(models.Subject{Name: "Math", Code: "MA101", Color: "#ff0000"})
	physics := tt.CreateSubject(models.Subject{Name: "Physics", Code: "PH101", Color: "#0000ff"})
	tt.CreateAssignment(models.Assignment{SubjectID: math.ID, Title: "Problem set 1"})
	tt.CreateAssignment(models.Assignment{SubjectID: math.ID, Title: "Midterm", Type: models.AssignmentExam})
	kept := tt.CreateAssignment(models.Assignment{SubjectID: physics.ID, Title: "Lab report"})

	assert.True(t, tt.DeleteSubject(math.ID))

	_, ok := tt.Subject(math.ID)
	assert.False(t, ok)
	remaining := tt.Assignments()
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)
	for _, a := range remaining {
		assert.NotEqual(t, math.ID, a.SubjectID)
	}

	// каскад сохранён в слот
	reloaded := store.NewTimetable(slots)
	assert.Len(t, reloaded.Subjects(), 1)
	assert.Len(t, reloaded.Assignments(), 1)
}

// TestTimetable_AssignmentWithoutSubject тестирует отсутствие ссылочной проверки
func TestTimetable_AssignmentWithoutSubject(t *testing.T) {
	tt := store.NewTimetable(slot.NewMemory())

	a := tt.CreateAssignment(models.Assignment{SubjectID: "ghost", Title: "Essay"})

	assert.Equal(t, models.AssignmentPending, a.Status)
	assert.Equal(t, models.AssignmentHomework, a.Type)
	assert.Equal(t, models.PriorityMedium, a.Priority)
	assert.Len(t, tt.Assignments(), 1)
}

// TestTimetable_Blocks тестирует блоки и их тип по умолчанию
func TestTimetable_Blocks(t *testing.T) {
	tt := store.NewTimetable(slot.NewMemory())
	monday := time.Monday
	date := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	recurring := tt.CreateBlock(models.TimetableBlock{Title: "Lecture", DayOfWeek: &monday, StartTime: "09:00", EndTime: "10:30"})
	oneTime := tt.CreateBlock(models.TimetableBlock{Title: "Dentist", Date: &date})

	assert.Equal(t, models.BlockRecurring, recurring.Type)
	assert.Equal(t, models.BlockOneTime, oneTime.Type)

	assert.True(t, tt.DeleteBlock(oneTime.ID))
	assert.False(t, tt.DeleteBlock(oneTime.ID))
	assert.Len(t, tt.Blocks(), 1)
}

// TestProjectStore_CustomCategory тестирует категорию other с меткой
func TestProjectStore_CustomCategory(t *testing.T) {
	projects := store.NewProjectStore(slot.NewMemory())

	custom := projects.Create(models.Project{Title: "Robot arm", Category: models.CustomCategory("Robotics")})
	known := projects.Create(models.Project{Title: "Site", Category: models.Category{Kind: "web", Label: "ignored"}})

	assert.True(t, custom.Category.IsCustom())
	assert.Equal(t, "Robotics", custom.Category.String())
	assert.Equal(t, models.ProjectPlanning, custom.Status)
	assert.Equal(t, "", known.Category.Label)
	assert.Equal(t, "web", known.Category.String())
}
