package query

import (
	"slices"

	"zeno/internal/models"
)

// JournalEntries - заметки категории journal, новые первыми.
func JournalEntries(notes []*models.Note) []*models.Note {
	var out []*models.Note
	for _, n := range notes {
		if n.Category == models.NoteJournal {
			out = append(out, n)
		}
	}
	slices.SortStableFunc(out, func(a, b *models.Note) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// MoodCounts считает записи журнала по настроению; записи без настроения пропускаются.
func MoodCounts(notes []*models.Note) map[models.Mood]int {
	out := make(map[models.Mood]int)
	for _, n := range JournalEntries(notes) {
		if n.Mood != nil {
			out[*n.Mood]++
		}
	}
	return out
}
