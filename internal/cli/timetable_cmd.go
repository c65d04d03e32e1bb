package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"zeno/internal/models"
	"zeno/internal/query"

	"github.com/spf13/cobra"
)

func newTimetableCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "timetable",
		Aliases: []string{"tt"},
		Short:   "Предметы, задания и расписание",
	}

	cmd.AddCommand(
		newSubjectCmd(app),
		newAssignmentCmd(app),
		newBlockCmd(app),
		newWeekCmd(app),
		newMonthCmd(app),
	)
	return cmd
}

func newSubjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subject",
		Short: "Предметы",
	}

	var code, color, instructor string
	var credits int
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Добавить предмет",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject := models.Subject{
				Name:       strings.Join(args, " "),
				Code:       code,
				Color:      color,
				Instructor: instructor,
			}
			if credits > 0 {
				subject.Credits = &credits
			}
			created := app.Stores.Timetable.CreateSubject(subject)
			fmt.Fprintf(cmd.OutOrStdout(), "%s предмет %s (%s)\n", styleGreen.Render("+"), styleBold.Render(created.Name), shortID(created.ID))
			return nil
		},
	}
	add.Flags().StringVar(&code, "code", "", "код курса")
	add.Flags().StringVar(&color, "color", "#83a598", "цвет в расписании")
	add.Flags().StringVar(&instructor, "instructor", "", "преподаватель")
	add.Flags().IntVar(&credits, "credits", 0, "кредиты")

	list := &cobra.Command{
		Use:   "list",
		Short: "Список предметов",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, header("Предметы"))
			for _, s := range app.Stores.Timetable.Subjects() {
				pending := 0
				for _, a := range query.AssignmentsForSubject(app.Stores.Timetable.Assignments(), s.ID) {
					if a.Status != models.AssignmentSubmitted && a.Status != models.AssignmentGraded {
						pending++
					}
				}
				fmt.Fprintf(w, "%s %s %s %s\n",
					styleDim.Render(shortID(s.ID)),
					colorDot(s.Color),
					styleBold.Render(s.Name),
					styleDim.Render(fmt.Sprintf("%s, заданий в работе: %d", s.Code, pending)))
			}
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Удалить предмет вместе с заданиями",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveID(app.Stores.Timetable.Subjects(), args[0])
			if err != nil {
				return err
			}
			app.Stores.Timetable.DeleteSubject(id)
			fmt.Fprintln(cmd.OutOrStdout(), styleRed.Render("предмет удалён"))
			return nil
		},
	}

	cmd.AddCommand(add, list, rm)
	return cmd
}

func newAssignmentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assignment",
		Short: "Задания по предметам",
	}

	var due, typ, priority, description string
	add := &cobra.Command{
		Use:   "add <subject-id> <title>",
		Short: "Добавить задание",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			subjectID, err := resolveID(app.Stores.Timetable.Subjects(), args[0])
			if err != nil {
				return err
			}
			dueDate, err := parseDateTime(due, app.Now())
			if err != nil {
				return err
			}

			created := app.Stores.Timetable.CreateAssignment(models.Assignment{
				SubjectID:   subjectID,
				Title:       strings.Join(args[1:], " "),
				Description: description,
				Type:        models.AssignmentType(typ),
				Priority:    models.Priority(priority),
				DueDate:     dueDate,
			})
			fmt.Fprintf(cmd.OutOrStdout(), "%s задание %s до %s\n",
				styleGreen.Render("+"), styleBold.Render(created.Title), created.DueDate.Format("02.01.2006 15:04"))
			return nil
		},
	}
	add.Flags().StringVar(&due, "due", "", "срок: YYYY-MM-DD или YYYY-MM-DD HH:MM")
	add.Flags().StringVar(&typ, "type", "", "assignment, project, exam, quiz, presentation")
	add.Flags().StringVarP(&priority, "priority", "p", "", "low, medium, high")
	add.Flags().StringVarP(&description, "description", "d", "", "описание")
	_ = add.MarkFlagRequired("due")

	var subject string
	var days int
	list := &cobra.Command{
		Use:   "list",
		Short: "Ближайшие задания или задания предмета",
		RunE: func(cmd *cobra.Command, args []string) error {
			all := app.Stores.Timetable.Assignments()
			assignments, title := query.UpcomingAssignments(all, app.Now(), days), fmt.Sprintf("Задания на %d дн.", days)
			if subject != "" {
				id, err := resolveID(app.Stores.Timetable.Subjects(), subject)
				if err != nil {
					return err
				}
				assignments, title = query.AssignmentsForSubject(all, id), "Задания предмета"
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, header(title))
			views := query.AssignmentViews(assignments, app.Stores.Timetable.Subjects())
			if len(views) == 0 {
				fmt.Fprintln(w, styleDim.Render("пусто"))
			}
			for _, v := range views {
				fmt.Fprintf(w, "%s %s %s %s %s\n",
					styleDim.Render(shortID(v.ID)),
					styleDim.Render(v.DueDate.Format("02.01 15:04")),
					colorDot(v.SubjectColor)+" "+v.SubjectName+":",
					v.Title,
					priorityStyle(v.Priority).Render("["+string(v.Status)+"]"))
			}
			return nil
		},
	}
	list.Flags().StringVar(&subject, "subject", "", "id предмета")
	list.Flags().IntVar(&days, "days", 7, "горизонт в днях")

	status := &cobra.Command{
		Use:   "status <id> <pending|in-progress|submitted|graded>",
		Short: "Сменить статус задания",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveID(app.Stores.Timetable.Assignments(), args[0])
			if err != nil {
				return err
			}
			s := models.AssignmentStatus(args[1])
			a, _ := app.Stores.Timetable.UpdateAssignment(id, func(a *models.Assignment) { a.Status = s })
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", a.Title, a.Status)
			return nil
		},
	}

	cmd.AddCommand(add, list, status)
	return cmd
}

func newBlockCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Блоки расписания",
	}

	var day, date, start, end, color string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Добавить блок: --day для еженедельного, --date для разового",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			block := models.TimetableBlock{
				Title:     strings.Join(args, " "),
				Color:     color,
				StartTime: start,
				EndTime:   end,
			}

			switch {
			case day != "" && date != "":
				return fmt.Errorf("укажите либо --day, либо --date")
			case day != "":
				wd, err := parseWeekday(day)
				if err != nil {
					return err
				}
				block.Type = models.BlockRecurring
				block.DayOfWeek = &wd
			case date != "":
				d, err := parseDate(date, app.Now())
				if err != nil {
					return err
				}
				block.Type = models.BlockOneTime
				block.Date = d
			default:
				return fmt.Errorf("нужен --day или --date")
			}

			created := app.Stores.Timetable.CreateBlock(block)
			fmt.Fprintf(cmd.OutOrStdout(), "%s блок %s (%s)\n", styleGreen.Render("+"), styleBold.Render(created.Title), created.Type)
			return nil
		},
	}
	add.Flags().StringVar(&day, "day", "", "день недели: mon..sun")
	add.Flags().StringVar(&date, "date", "", "дата: YYYY-MM-DD")
	add.Flags().StringVar(&start, "start", "", "начало HH:MM")
	add.Flags().StringVar(&end, "end", "", "конец HH:MM")
	add.Flags().StringVar(&color, "color", "#8ec07c", "цвет")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Удалить блок",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveID(app.Stores.Timetable.Blocks(), args[0])
			if err != nil {
				return err
			}
			app.Stores.Timetable.DeleteBlock(id)
			fmt.Fprintln(cmd.OutOrStdout(), styleRed.Render("блок удалён"))
			return nil
		},
	}

	cmd.AddCommand(add, rm)
	return cmd
}

// allBlocks - сохранённые блоки вместе с вычисленными блоками заданий.
func allBlocks(app *App) []*models.TimetableBlock {
	tt := app.Stores.Timetable
	return append(tt.Blocks(), query.AssignmentBlocks(tt.Assignments(), tt.Subjects())...)
}

func newWeekCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Расписание на неделю",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := app.Now()
			if date != "" {
				d, err := parseDate(date, ref)
				if err != nil {
					return err
				}
				ref = *d
			}
			printDays(cmd.OutOrStdout(), "Неделя с "+query.StartOfWeek(ref).Format("02.01.2006"), query.BlocksForWeek(allBlocks(app), ref), true)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "любой день нужной недели")
	return cmd
}

func newMonthCmd(app *App) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Расписание на месяц",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := app.Now()
			year, m := now.Year(), now.Month()
			if month != "" {
				t, err := time.ParseInLocation("2006-01", month, now.Location())
				if err != nil {
					return fmt.Errorf("неверный месяц %q, ожидается YYYY-MM", month)
				}
				year, m = t.Year(), t.Month()
			}
			days := query.BlocksForMonth(allBlocks(app), year, m, now.Location())
			printDays(cmd.OutOrStdout(), fmt.Sprintf("%02d.%d", int(m), year), days, false)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "месяц: YYYY-MM")
	return cmd
}

func printDays(w io.Writer, title string, days []query.DayBlocks, showEmpty bool) {
	fmt.Fprintln(w, header(title))
	for _, d := range days {
		if len(d.Blocks) == 0 && !showEmpty {
			continue
		}
		fmt.Fprintln(w, styleBold.Render(d.Date.Format("Mon 02.01")))
		if len(d.Blocks) == 0 {
			fmt.Fprintln(w, styleDim.Render("  -"))
		}
		for _, b := range d.Blocks {
			span := b.StartTime
			if b.EndTime != "" {
				span += "-" + b.EndTime
			}
			if span == "" {
				span = "весь день"
			}
			fmt.Fprintf(w, "  %s %s %s\n", colorDot(b.Color), styleDim.Render(span), b.Title)
		}
	}
}

func colorDot(color string) string {
	if color == "" {
		return styleDim.Render("●")
	}
	return styleFor(color).Render("●")
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

func parseWeekday(s string) (time.Weekday, error) {
	key := strings.ToLower(s)
	if len(key) > 3 {
		key = key[:3]
	}
	if wd, ok := weekdays[key]; ok {
		return wd, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
		return time.Weekday(n), nil
	}
	return 0, fmt.Errorf("неизвестный день недели %q", s)
}

// parseDateTime принимает дату или дату со временем.
func parseDateTime(raw string, now time.Time) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02 15:04", raw, now.Location()); err == nil {
		return t, nil
	}
	d, err := parseDate(raw, now)
	if err != nil {
		return time.Time{}, err
	}
	if d == nil {
		return time.Time{}, fmt.Errorf("срок обязателен")
	}
	return d.Add(23*time.Hour + 59*time.Minute), nil
}
