package query

import (
	"time"

	"zeno/internal/models"
)

type FocusStats struct {
	FocusMinutes      int `json:"focusMinutes"`
	FocusSessions     int `json:"focusSessions"`
	CompletedSessions int `json:"completedSessions"`
	BreakMinutes      int `json:"breakMinutes"`
}

// TodaySessions - сессии, начатые в календарный день now.
func TodaySessions(sessions []*models.PomodoroSession, now time.Time) []*models.PomodoroSession {
	var out []*models.PomodoroSession
	for _, s := range sessions {
		if sameDay(s.StartTime, now) {
			out = append(out, s)
		}
	}
	return out
}

// Focus считает завершённые сессии за день now.
func Focus(sessions []*models.PomodoroSession, now time.Time) FocusStats {
	var stats FocusStats
	for _, s := range TodaySessions(sessions, now) {
		if !s.Completed {
			continue
		}
		stats.CompletedSessions++
		if s.Type == models.SessionFocus {
			stats.FocusSessions++
			stats.FocusMinutes += s.Duration
		} else {
			stats.BreakMinutes += s.Duration
		}
	}
	return stats
}

// Streak - число подряд идущих дней с завершённой сессией или
// выполненной задачей, считая назад от now, не более StreakWindow.
// Сегодняшний день без активности серию не обрывает, но и не засчитывается.
// Днём выполнения задачи считается её UpdatedAt.
func Streak(sessions []*models.PomodoroSession, tasks []*models.Task, now time.Time) int {
	loc := now.Location()
	active := make(map[string]bool)
	for _, s := range sessions {
		if s.Completed {
			active[dayKey(s.StartTime, loc)] = true
		}
	}
	for _, t := range tasks {
		if t.Status == models.StatusDone {
			active[dayKey(t.UpdatedAt, loc)] = true
		}
	}

	day := startOfDay(now)
	if !active[dayKey(day, loc)] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for i := 0; i < StreakWindow; i++ {
		if !active[dayKey(day, loc)] {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
