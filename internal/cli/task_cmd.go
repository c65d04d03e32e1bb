package cli

import (
	"fmt"
	"io"
	"strings"

	"zeno/internal/models"
	"zeno/internal/query"

	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Управление задачами",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskDoneCmd(app),
		newTaskRemoveCmd(app),
	)
	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var priority, due, description string
	var tags []string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Добавить задачу",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dueDate, err := parseDate(due, app.Now())
			if err != nil {
				return err
			}
			p := models.Priority(priority)
			if p != "" && !p.Valid() {
				return fmt.Errorf("неизвестный приоритет %q", priority)
			}

			task := app.Stores.Tasks.Create(models.Task{
				Title:       strings.Join(args, " "),
				Description: description,
				Priority:    p,
				Tags:        tags,
				DueDate:     dueDate,
			})
			fmt.Fprintf(cmd.OutOrStdout(), "%s задача %s добавлена\n", styleGreen.Render("+"), styleBold.Render(task.Title))
			fmt.Fprintln(cmd.OutOrStdout(), styleDim.Render("id: "+task.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&priority, "priority", "p", "", "приоритет: low, medium, high")
	cmd.Flags().StringVar(&due, "due", "", "срок: YYYY-MM-DD, today или tomorrow")
	cmd.Flags().StringVarP(&description, "description", "d", "", "описание")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "теги")
	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var status string
	var today, overdue bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Список задач",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks := app.Stores.Tasks.All()
			title := "Задачи"

			switch {
			case today:
				tasks, title = query.TasksDueToday(tasks, app.Now()), "На сегодня"
			case overdue:
				tasks, title = query.OverdueTasks(tasks, app.Now()), "Просрочено"
			case status != "":
				s := models.Status(status)
				if !s.Valid() {
					return fmt.Errorf("неизвестный статус %q", status)
				}
				tasks = query.TasksByStatus(tasks)[s]
			}

			printTasks(cmd.OutOrStdout(), title, tasks)
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "фильтр: pending, in-progress, done")
	cmd.Flags().BoolVar(&today, "today", false, "только со сроком сегодня")
	cmd.Flags().BoolVar(&overdue, "overdue", false, "только просроченные")
	return cmd
}

func printTasks(w io.Writer, title string, tasks []*models.Task) {
	fmt.Fprintln(w, header(title))
	if len(tasks) == 0 {
		fmt.Fprintln(w, styleDim.Render("пусто"))
		return
	}
	for _, t := range tasks {
		line := fmt.Sprintf("%s %s %s %s",
			statusMark(t.Status),
			styleDim.Render(shortID(t.ID)),
			t.Title,
			priorityStyle(t.Priority).Render(string(t.Priority)))
		if t.DueDate != nil {
			line += styleDim.Render(" до " + t.DueDate.Format("02.01.2006"))
		}
		if len(t.Tags) > 0 {
			line += styleBlue.Render(" #" + strings.Join(t.Tags, " #"))
		}
		fmt.Fprintln(w, line)
	}
}

func newTaskDoneCmd(app *App) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Отметить задачу выполненной",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveID(app.Stores.Tasks.All(), args[0])
			if err != nil {
				return err
			}

			status := models.StatusDone
			if undo {
				status = models.StatusPending
			}
			task, _ := app.Stores.Tasks.Update(id, models.WithStatus(status))
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", statusMark(task.Status), task.Title)
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "вернуть в pending")
	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Удалить задачу",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveID(app.Stores.Tasks.All(), args[0])
			if err != nil {
				return err
			}
			app.Stores.Tasks.Delete(id)
			fmt.Fprintln(cmd.OutOrStdout(), styleRed.Render("задача удалена"))
			return nil
		},
	}
}
