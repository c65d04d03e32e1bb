package cli

import (
	"fmt"

	"zeno/internal/models"
	"zeno/internal/query"

	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Сводка продуктивности за сегодня",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := app.Now()
			sessions := app.Stores.Sessions.All()
			tasks := app.Stores.Tasks.All()
			goals := app.Stores.Goals.All()

			focus := query.Focus(sessions, now)
			byStatus := query.TasksByStatus(tasks)
			streak := query.Streak(sessions, tasks, now)

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, header("Сегодня"))
			fmt.Fprintf(w, "фокус:       %s\n", styleBold.Render(fmt.Sprintf("%d мин. (%d сессий)", focus.FocusMinutes, focus.FocusSessions)))
			fmt.Fprintf(w, "перерывы:    %d мин.\n", focus.BreakMinutes)
			fmt.Fprintf(w, "серия:       %s\n", styleYellow.Render(fmt.Sprintf("%d дн.", streak)))
			fmt.Fprintf(w, "на сегодня:  %d, просрочено: %s\n",
				len(query.TasksDueToday(tasks, now)),
				styleRed.Render(fmt.Sprint(len(query.OverdueTasks(tasks, now)))))

			fmt.Fprintln(w)
			fmt.Fprintln(w, header("Задачи"))
			fmt.Fprintf(w, "%s pending %d   %s in-progress %d   %s done %d\n",
				statusMark(models.StatusPending), len(byStatus[models.StatusPending]),
				statusMark(models.StatusInProgress), len(byStatus[models.StatusInProgress]),
				statusMark(models.StatusDone), len(byStatus[models.StatusDone]))

			fmt.Fprintln(w)
			fmt.Fprintln(w, header("Цели"))
			avg := query.AverageProgress(goals)
			fmt.Fprintf(w, "активных %d, достигнуто %d, средний прогресс %s %d%%\n",
				len(query.ActiveGoals(goals)), len(query.CompletedGoals(goals)), progressBar(avg, 20), avg)
			return nil
		},
	}
}
