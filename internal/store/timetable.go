package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"zeno/internal/logger"
	"zeno/internal/models"
	"zeno/internal/slot"

	"go.uber.org/zap"
)

type timetableSnapshot struct {
	Version     int                      `json:"version"`
	Subjects    []*models.Subject        `json:"subjects"`
	Assignments []*models.Assignment     `json:"assignments"`
	Blocks      []*models.TimetableBlock `json:"blocks"`
}

// Timetable - стор расписания: предметы, задания и блоки в одном слоте.
// Удаление предмета каскадно удаляет его задания.
type Timetable struct {
	mtx   sync.RWMutex
	slots slot.Storage

	subjects    collection[models.Subject, *models.Subject]
	assignments collection[models.Assignment, *models.Assignment]
	blocks      collection[models.TimetableBlock, *models.TimetableBlock]

	persistErr error
}

func NewTimetable(slots slot.Storage, opts ...Option) *Timetable {
	set := newSettings(opts)
	t := &Timetable{slots: slots}
	t.subjects.settings = set
	t.assignments = collection[models.Assignment, *models.Assignment]{
		hooks:    Hooks[models.Assignment]{Defaults: (*models.Assignment).ApplyDefaults},
		settings: set,
	}
	t.blocks = collection[models.TimetableBlock, *models.TimetableBlock]{
		hooks:    Hooks[models.TimetableBlock]{Defaults: (*models.TimetableBlock).ApplyDefaults},
		settings: set,
	}
	t.hydrate()
	return t
}

func (t *Timetable) hydrate() {
	t.subjects.items = []*models.Subject{}
	t.assignments.items = []*models.Assignment{}
	t.blocks.items = []*models.TimetableBlock{}

	data, err := t.slots.Load(context.Background(), SlotTimetable)
	if err != nil {
		if !errors.Is(err, slot.ErrNotFound) {
			logger.Warn("Store: Не удалось прочитать слот", zap.String("slot", SlotTimetable), zap.Error(err))
		}
		return
	}

	var snap timetableSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		logger.Warn("Store: Повреждённый слот, начинаем с пустой коллекции",
			zap.String("slot", SlotTimetable), zap.Error(err))
		return
	}
	t.subjects.items = compact(snap.Subjects)
	t.assignments.items = compact(snap.Assignments)
	t.blocks.items = compact(snap.Blocks)
}

func compact[T any](items []*T) []*T {
	res := make([]*T, 0, len(items))
	for _, item := range items {
		if item != nil {
			res = append(res, item)
		}
	}
	return res
}

func (t *Timetable) persist() {
	t.persistErr = writeSlot(t.slots, SlotTimetable, timetableSnapshot{
		Version:     snapshotVersion,
		Subjects:    t.subjects.items,
		Assignments: t.assignments.items,
		Blocks:      t.blocks.items,
	})
}

func (t *Timetable) PersistErr() error {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	return t.persistErr
}

// Предметы

func (t *Timetable) CreateSubject(fields models.Subject) *models.Subject {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	created := t.subjects.create(fields)
	t.persist()
	return created
}

func (t *Timetable) UpdateSubject(id string, opts ...func(*models.Subject)) (*models.Subject, bool) {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	updated, ok := t.subjects.update(id, opts)
	if ok {
		t.persist()
	}
	return updated, ok
}

// DeleteSubject удаляет предмет и все задания, ссылающиеся на него.
func (t *Timetable) DeleteSubject(id string) bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	removed := t.subjects.remove(id)
	cascaded := t.assignments.removeWhere(func(a *models.Assignment) bool { return a.SubjectID == id })
	if !removed && cascaded == 0 {
		return false
	}
	t.persist()
	logger.Debug("Store: Предмет удалён", zap.String("subject_id", id), zap.Int("assignments_removed", cascaded))
	return removed
}

func (t *Timetable) Subject(id string) (*models.Subject, bool) {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	return t.subjects.get(id)
}

func (t *Timetable) Subjects() []*models.Subject {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	return t.subjects.filter(nil)
}

// Задания. Существование subjectId не проверяется.

func (t *Timetable) CreateAssignment(fields models.Assignment) *models.Assignment {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	created := t.assignments.create(fields)
	t.persist()
	return created
}

func (t *Timetable) UpdateAssignment(id string, opts ...func(*models.Assignment)) (*models.Assignment, bool) {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	updated, ok := t.assignments.update(id, opts)
	if ok {
		t.persist()
	}
	return updated, ok
}

func (t *Timetable) DeleteAssignment(id string) bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	if !t.assignments.remove(id) {
		return false
	}
	t.persist()
	return true
}

func (t *Timetable) Assignments() []*models.Assignment {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	return t.assignments.filter(nil)
}

// Блоки

func (t *Timetable) CreateBlock(fields models.TimetableBlock) *models.TimetableBlock {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	created := t.blocks.create(fields)
	t.persist()
	return created
}

func (t *Timetable) UpdateBlock(id string, opts ...func(*models.TimetableBlock)) (*models.TimetableBlock, bool) {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	updated, ok := t.blocks.update(id, opts)
	if ok {
		t.persist()
	}
	return updated, ok
}

func (t *Timetable) DeleteBlock(id string) bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	if !t.blocks.remove(id) {
		return false
	}
	t.persist()
	return true
}

func (t *Timetable) Blocks() []*models.TimetableBlock {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	return t.blocks.filter(nil)
}
