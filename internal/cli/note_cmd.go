package cli

import (
	"fmt"
	"io"
	"strings"

	"zeno/internal/models"
	"zeno/internal/query"

	"github.com/spf13/cobra"
)

func newNoteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Заметки и дневник",
	}

	cmd.AddCommand(
		newNoteAddCmd(app),
		newNoteListCmd(app),
		newNoteJournalCmd(app),
	)
	return cmd
}

func newNoteAddCmd(app *App) *cobra.Command {
	var category, mood, content string
	var tags []string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Добавить заметку",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := models.NoteCategory(category)
			if c != "" && !c.Valid() {
				return fmt.Errorf("неизвестная категория %q", category)
			}

			note := models.Note{
				Title:    strings.Join(args, " "),
				Content:  content,
				Category: c,
				Tags:     tags,
			}
			if mood != "" {
				m := models.Mood(mood)
				if !m.Valid() {
					return fmt.Errorf("неизвестное настроение %q", mood)
				}
				note.Mood = &m
			}

			created := app.Stores.Notes.Create(note)
			fmt.Fprintf(cmd.OutOrStdout(), "%s заметка %s сохранена (%s)\n",
				styleGreen.Render("+"), styleBold.Render(created.Title), created.Category)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "personal, work, learning, ideas, meeting, journal, other")
	cmd.Flags().StringVarP(&mood, "mood", "m", "", "excellent, good, neutral, sad, stressed")
	cmd.Flags().StringVar(&content, "content", "", "текст заметки")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "теги")
	return cmd
}

func newNoteListCmd(app *App) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Список заметок",
		RunE: func(cmd *cobra.Command, args []string) error {
			notes := app.Stores.Notes.All()
			if category != "" {
				notes = app.Stores.Notes.Filter(func(n *models.Note) bool {
					return string(n.Category) == category
				})
			}
			printNotes(cmd.OutOrStdout(), "Заметки", notes)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "фильтр по категории")
	return cmd
}

func newNoteJournalCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "journal",
		Short: "Записи дневника, новые сверху",
		RunE: func(cmd *cobra.Command, args []string) error {
			all := app.Stores.Notes.All()
			w := cmd.OutOrStdout()
			printNotes(w, "Дневник", query.JournalEntries(all))

			counts := query.MoodCounts(all)
			if len(counts) == 0 {
				return nil
			}
			var parts []string
			for _, m := range []models.Mood{models.MoodExcellent, models.MoodGood, models.MoodNeutral, models.MoodSad, models.MoodStressed} {
				if counts[m] > 0 {
					parts = append(parts, fmt.Sprintf("%s: %d", m, counts[m]))
				}
			}
			fmt.Fprintln(w, styleDim.Render("настроение: "+strings.Join(parts, ", ")))
			return nil
		},
	}
}

func printNotes(w io.Writer, title string, notes []*models.Note) {
	fmt.Fprintln(w, header(title))
	if len(notes) == 0 {
		fmt.Fprintln(w, styleDim.Render("пусто"))
		return
	}
	for _, n := range notes {
		line := fmt.Sprintf("%s %s %s %s",
			styleDim.Render(shortID(n.ID)),
			styleDim.Render(n.CreatedAt.Format("02.01 15:04")),
			styleBold.Render(n.Title),
			styleBlue.Render("["+string(n.Category)+"]"))
		if n.Mood != nil {
			line += " " + styleYellow.Render(string(*n.Mood))
		}
		fmt.Fprintln(w, line)
		if n.Content != "" {
			fmt.Fprintln(w, "  "+firstLine(n.Content))
		}
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
