package cli

import (
	"context"
	"fmt"

	"zeno/internal/config"
	"zeno/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// NewRootCmd создаёт команду zeno. Если app не собран заранее,
// он открывается по конфигурации перед запуском подкоманды.
func NewRootCmd(app *App) *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	root := &cobra.Command{
		Use:           "zeno",
		Short:         "Задачи, помодоро, цели, заметки и расписание",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				if err := logger.Init(true); err != nil {
					return fmt.Errorf("инициализация логгера: %w", err)
				}
			}
			if app.Stores != nil {
				return nil
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			opened, err := Open(cfg)
			if err != nil {
				return err
			}
			*app = *opened
			app.opened = true
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "путь к config.yml (или ZENO_CONFIG)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "подробный лог в stderr")

	root.AddCommand(
		newTaskCmd(app),
		newGoalCmd(app),
		newNoteCmd(app),
		newTimetableCmd(app),
		newPomodoroCmd(app),
		newStatsCmd(app),
		newChatCmd(app),
		newMCPCmd(app),
	)

	return root
}

// Execute запускает CLI с аргументами процесса.
func Execute(ctx context.Context) error {
	app := &App{}
	err := NewRootCmd(app).ExecuteContext(ctx)
	if app.opened {
		err = multierr.Append(err, app.Close())
	}
	logger.Sync()
	return err
}
