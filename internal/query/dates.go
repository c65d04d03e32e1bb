// Package query - чистые производные выборки поверх содержимого сторов.
// Функции ничего не кэшируют и не изменяют входные данные.
package query

import "time"

// StreakWindow - на сколько дней назад максимально уходит подсчёт серии.
const StreakWindow = 30

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// sameDay сравнивает календарные дни в часовом поясе ref.
func sameDay(t, ref time.Time) bool {
	y1, m1, d1 := t.In(ref.Location()).Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// StartOfWeek возвращает понедельник недели, в которую попадает t.
func StartOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.DateOnly)
}
