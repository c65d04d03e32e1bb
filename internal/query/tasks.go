package query

import (
	"slices"
	"time"

	"zeno/internal/models"
)

// TasksDueToday - незавершённые задачи со сроком в календарный день now,
// сначала более приоритетные.
func TasksDueToday(tasks []*models.Task, now time.Time) []*models.Task {
	var out []*models.Task
	for _, t := range tasks {
		if t.DueDate == nil || t.Status == models.StatusDone {
			continue
		}
		if sameDay(*t.DueDate, now) {
			out = append(out, t)
		}
	}
	sortByPriority(out)
	return out
}

// OverdueTasks - незавершённые задачи, срок которых раньше начала дня now.
func OverdueTasks(tasks []*models.Task, now time.Time) []*models.Task {
	today := startOfDay(now)
	var out []*models.Task
	for _, t := range tasks {
		if t.DueDate == nil || t.Status == models.StatusDone {
			continue
		}
		if t.DueDate.Before(today) {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b *models.Task) int {
		return a.DueDate.Compare(*b.DueDate)
	})
	return out
}

// TasksByStatus группирует задачи по статусу. Все три статуса
// присутствуют в результате, даже если пусты.
func TasksByStatus(tasks []*models.Task) map[models.Status][]*models.Task {
	out := map[models.Status][]*models.Task{
		models.StatusPending:    {},
		models.StatusInProgress: {},
		models.StatusDone:       {},
	}
	for _, t := range tasks {
		out[t.Status] = append(out[t.Status], t)
	}
	return out
}

func sortByPriority(tasks []*models.Task) {
	slices.SortStableFunc(tasks, func(a, b *models.Task) int {
		return a.Priority.Rank() - b.Priority.Rank()
	})
}
