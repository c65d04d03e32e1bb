package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"zeno/internal/models"
	"zeno/internal/pomodoro"
	"zeno/internal/worker"

	"github.com/spf13/cobra"
)

func newPomodoroCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pomodoro",
		Aliases: []string{"pomo"},
		Short:   "Таймер помодоро",
	}

	simple := func(use, short string, fn func() bool, okMsg, failMsg string) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if !fn() {
					return errors.New(failMsg)
				}
				fmt.Fprintln(cmd.OutOrStdout(), okMsg)
				return nil
			},
		}
	}

	cmd.AddCommand(
		newPomodoroStartCmd(app),
		simple("pause", "Пауза", func() bool { return app.Engine.Pause() }, "пауза", "таймер не запущен"),
		simple("resume", "Продолжить", func() bool { return app.Engine.Resume() }, "продолжаем", "таймер не на паузе"),
		simple("cancel", "Отменить без записи в историю", func() bool { return app.Engine.Cancel() }, "сессия отменена", "нет активной сессии"),
		newPomodoroStopCmd(app),
		newPomodoroStatusCmd(app),
		newPomodoroRunCmd(app),
	)
	return cmd
}

func defaultMinutes(app *App, typ models.SessionType) int {
	if app.Config != nil {
		p := app.Config.Pomodoro
		switch typ {
		case models.SessionFocus:
			if p.Focus > 0 {
				return p.Focus
			}
		case models.SessionShortBreak:
			if p.ShortBreak > 0 {
				return p.ShortBreak
			}
		case models.SessionLongBreak:
			if p.LongBreak > 0 {
				return p.LongBreak
			}
		}
	}
	return typ.DefaultMinutes()
}

func newPomodoroStartCmd(app *App) *cobra.Command {
	var typ, label string
	var minutes int

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Начать сессию; текущая сессия отбрасывается",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := models.SessionType(typ)
			if !t.Valid() {
				return fmt.Errorf("неизвестный тип сессии %q", typ)
			}
			if minutes <= 0 {
				minutes = defaultMinutes(app, t)
			}

			session := app.Engine.Start(t, minutes, label)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s на %d мин.\n", styleGreen.Render("▶"), session.Type, session.Duration)
			return nil
		},
	}

	cmd.Flags().StringVar(&typ, "type", string(models.SessionFocus), "focus, short-break, long-break")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "длительность в минутах")
	cmd.Flags().StringVarP(&label, "label", "l", "", "метка сессии")
	return cmd
}

func newPomodoroStopCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Завершить сессию досрочно и записать в историю",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			done, ok := app.Engine.Stop()
			if !ok {
				return fmt.Errorf("нет активной сессии")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s записана\n", styleGreen.Render("■"), done.Type)
			return nil
		},
	}
}

func newPomodoroStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Состояние таймера",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printStatus(cmd.OutOrStdout(), app)
			return nil
		},
	}
}

func printStatus(w io.Writer, app *App) {
	today := len(app.Engine.TodaySessions(app.Now()))

	session, ok := app.Engine.Current()
	if !ok {
		fmt.Fprintln(w, styleBox.Render(fmt.Sprintf("%s\nсегодня сессий: %d", styleDim.Render("нет активной сессии"), today)))
		return
	}

	state := styleGreen.Render("идёт")
	if app.Engine.State() == pomodoro.StatePaused {
		state = styleYellow.Render("пауза")
	}

	lines := []string{
		fmt.Sprintf("%s %s", styleBold.Render(string(session.Type)), state),
		styleHeader.Render(clock(app.Engine.Remaining())),
	}
	if session.Label != "" {
		lines = append(lines, styleDim.Render(session.Label))
	}
	lines = append(lines, styleDim.Render(fmt.Sprintf("сегодня сессий: %d", today)))
	fmt.Fprintln(w, styleBox.Render(strings.Join(lines, "\n")))
}

func newPomodoroRunCmd(app *App) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Вести таймер в терминале до конца сессии",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Engine.State() == pomodoro.StateIdle {
				return fmt.Errorf("нет активной сессии, сначала zeno pomodoro start")
			}

			w := cmd.OutOrStdout()
			timer := worker.NewPomodoroWorker(app.Engine, &interval, func(bool) {
				fmt.Fprintf(w, "\r%s %s ", styleHeader.Render("⏱"), clock(app.Engine.Remaining()))
			})

			if timer.Start(cmd.Context()) {
				fmt.Fprintf(w, "\n%s сессия завершена\n", styleGreen.Render("✔"))
				return nil
			}
			fmt.Fprintln(w, "\nтаймер остановлен, сессия сохранена")
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", time.Second, "шаг таймера")
	_ = cmd.Flags().MarkHidden("interval")
	return cmd
}
