package cli

import (
	"fmt"
	"strconv"
	"strings"

	"zeno/internal/models"
	"zeno/internal/query"

	"github.com/spf13/cobra"
)

func newGoalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Цели и прогресс",
	}

	cmd.AddCommand(
		newGoalAddCmd(app),
		newGoalProgressCmd(app),
		newGoalListCmd(app),
	)
	return cmd
}

func newGoalAddCmd(app *App) *cobra.Command {
	var category, priority, deadline, description string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Добавить цель",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDate(deadline, app.Now())
			if err != nil {
				return err
			}
			c := models.GoalCategory(category)
			if c != "" && !c.Valid() {
				return fmt.Errorf("неизвестная категория %q", category)
			}
			p := models.Priority(priority)
			if p != "" && !p.Valid() {
				return fmt.Errorf("неизвестный приоритет %q", priority)
			}

			goal := app.Stores.Goals.Create(models.Goal{
				Title:       strings.Join(args, " "),
				Description: description,
				Category:    c,
				Priority:    p,
				Deadline:    d,
			})
			fmt.Fprintf(cmd.OutOrStdout(), "%s цель %s добавлена\n", styleGreen.Render("+"), styleBold.Render(goal.Title))
			fmt.Fprintln(cmd.OutOrStdout(), styleDim.Render("id: "+goal.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "personal, professional, health, learning, financial, other")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "low, medium, high")
	cmd.Flags().StringVar(&deadline, "deadline", "", "дедлайн: YYYY-MM-DD")
	cmd.Flags().StringVarP(&description, "description", "d", "", "описание")
	return cmd
}

func newGoalProgressCmd(app *App) *cobra.Command {
	var complete bool

	cmd := &cobra.Command{
		Use:   "progress <id> [percent]",
		Short: "Обновить прогресс цели",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveID(app.Stores.Goals.All(), args[0])
			if err != nil {
				return err
			}

			var opts []func(*models.Goal)
			if len(args) == 2 {
				p, err := strconv.Atoi(strings.TrimSuffix(args[1], "%"))
				if err != nil {
					return fmt.Errorf("прогресс должен быть числом: %q", args[1])
				}
				opts = append(opts, models.WithGoalProgress(p))
			}
			if complete {
				opts = append(opts, models.WithGoalCompleted(true))
			}
			if len(opts) == 0 {
				return fmt.Errorf("укажите процент или --complete")
			}

			goal, _ := app.Stores.Goals.Update(id, opts...)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %d%%\n", goal.Title, progressBar(goal.Progress, 20), goal.Progress)
			return nil
		},
	}

	cmd.Flags().BoolVar(&complete, "complete", false, "отметить цель достигнутой")
	return cmd
}

func newGoalListCmd(app *App) *cobra.Command {
	var completed bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Список целей",
		RunE: func(cmd *cobra.Command, args []string) error {
			all := app.Stores.Goals.All()
			goals, title := query.ActiveGoals(all), "Активные цели"
			if completed {
				goals, title = query.CompletedGoals(all), "Достигнутые цели"
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, header(title))
			if len(goals) == 0 {
				fmt.Fprintln(w, styleDim.Render("пусто"))
				return nil
			}
			for _, g := range goals {
				line := fmt.Sprintf("%s %s %s %3d%% %s",
					styleDim.Render(shortID(g.ID)),
					progressBar(g.Progress, 20),
					priorityStyle(g.Priority).Render("●"),
					g.Progress,
					g.Title)
				if g.Deadline != nil {
					line += styleDim.Render(" до " + g.Deadline.Format("02.01.2006"))
				}
				fmt.Fprintln(w, line)
			}
			fmt.Fprintln(w, styleDim.Render(fmt.Sprintf("средний прогресс: %d%%", query.AverageProgress(all))))
			return nil
		},
	}

	cmd.Flags().BoolVar(&completed, "completed", false, "показать достигнутые")
	return cmd
}
