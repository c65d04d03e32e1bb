package query

import (
	"slices"
	"strings"
	"time"

	"zeno/internal/models"
)

// DayBlocks - блоки расписания одного календарного дня.
type DayBlocks struct {
	Date   time.Time
	Blocks []*models.TimetableBlock
}

// BlocksForDay - повторяющиеся блоки с днём недели day и разовые блоки
// на дату day, упорядоченные по времени начала. Блоки без времени идут первыми.
func BlocksForDay(blocks []*models.TimetableBlock, day time.Time) []*models.TimetableBlock {
	var out []*models.TimetableBlock
	for _, b := range blocks {
		switch b.Type {
		case models.BlockRecurring:
			if b.DayOfWeek != nil && *b.DayOfWeek == day.Weekday() {
				out = append(out, b)
			}
		case models.BlockOneTime, models.BlockAssignment:
			if b.Date != nil && sameDay(*b.Date, day) {
				out = append(out, b)
			}
		}
	}
	slices.SortStableFunc(out, func(a, b *models.TimetableBlock) int {
		return strings.Compare(a.StartTime, b.StartTime)
	})
	return out
}

// BlocksForWeek - семь дней начиная с понедельника недели now.
func BlocksForWeek(blocks []*models.TimetableBlock, now time.Time) []DayBlocks {
	return blocksForRange(blocks, StartOfWeek(now), 7)
}

// BlocksForMonth - все дни месяца month года year в поясе loc.
func BlocksForMonth(blocks []*models.TimetableBlock, year int, month time.Month, loc *time.Location) []DayBlocks {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	days := first.AddDate(0, 1, -1).Day()
	return blocksForRange(blocks, first, days)
}

func blocksForRange(blocks []*models.TimetableBlock, from time.Time, days int) []DayBlocks {
	out := make([]DayBlocks, 0, days)
	for i := 0; i < days; i++ {
		day := from.AddDate(0, 0, i)
		out = append(out, DayBlocks{Date: day, Blocks: BlocksForDay(blocks, day)})
	}
	return out
}

// AssignmentsForSubject - задания предмета по возрастанию срока.
func AssignmentsForSubject(assignments []*models.Assignment, subjectID string) []*models.Assignment {
	var out []*models.Assignment
	for _, a := range assignments {
		if a.SubjectID == subjectID {
			out = append(out, a)
		}
	}
	sortByDue(out)
	return out
}

// UpcomingAssignments - несданные задания со сроком в ближайшие days дней от now.
func UpcomingAssignments(assignments []*models.Assignment, now time.Time, days int) []*models.Assignment {
	until := now.AddDate(0, 0, days)
	var out []*models.Assignment
	for _, a := range assignments {
		if a.Status == models.AssignmentSubmitted || a.Status == models.AssignmentGraded {
			continue
		}
		if !a.DueDate.Before(now) && !a.DueDate.After(until) {
			out = append(out, a)
		}
	}
	sortByDue(out)
	return out
}

func sortByDue(assignments []*models.Assignment) {
	slices.SortStableFunc(assignments, func(a, b *models.Assignment) int {
		return a.DueDate.Compare(b.DueDate)
	})
}

// AssignmentView - задание с подставленными именем и цветом предмета.
type AssignmentView struct {
	*models.Assignment
	SubjectName  string `json:"subjectName"`
	SubjectColor string `json:"subjectColor"`
}

const unknownSubject = "Unknown subject"

// AssignmentViews соединяет задания с предметами. Для задания без
// существующего предмета имя заменяется заглушкой.
func AssignmentViews(assignments []*models.Assignment, subjects []*models.Subject) []AssignmentView {
	index := subjectIndex(subjects)
	out := make([]AssignmentView, 0, len(assignments))
	for _, a := range assignments {
		view := AssignmentView{Assignment: a, SubjectName: unknownSubject}
		if s, ok := index[a.SubjectID]; ok {
			view.SubjectName = s.Name
			view.SubjectColor = s.Color
		}
		out = append(out, view)
	}
	return out
}

// AssignmentBlocks проецирует задания в блоки расписания типа assignment
// на дату срока. Такие блоки нигде не сохраняются.
func AssignmentBlocks(assignments []*models.Assignment, subjects []*models.Subject) []*models.TimetableBlock {
	index := subjectIndex(subjects)
	out := make([]*models.TimetableBlock, 0, len(assignments))
	for _, a := range assignments {
		due := a.DueDate
		block := &models.TimetableBlock{
			Base:         models.Base{ID: "assignment-" + a.ID, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt},
			Title:        a.Title,
			Description:  a.Description,
			Type:         models.BlockAssignment,
			Date:         &due,
			StartTime:    due.Format("15:04"),
			AssignmentID: a.ID,
		}
		if s, ok := index[a.SubjectID]; ok {
			block.Color = s.Color
			block.Title = s.Name + ": " + a.Title
		}
		out = append(out, block)
	}
	return out
}

func subjectIndex(subjects []*models.Subject) map[string]*models.Subject {
	index := make(map[string]*models.Subject, len(subjects))
	for _, s := range subjects {
		index[s.ID] = s
	}
	return index
}
