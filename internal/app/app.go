package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"zeno/internal/config"
	"zeno/internal/handlers"
	"zeno/internal/logger"
	"zeno/internal/middleware"
	"zeno/internal/migrations"
	"zeno/internal/models"
	"zeno/internal/repository/inmemory"
	"zeno/internal/repository/postgres"
	"zeno/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type repositories struct {
	tasks     service.Repository[models.Task]
	notes     service.Repository[models.Note]
	sessions  service.Repository[models.PomodoroSession]
	resources service.Repository[models.Resource]
	goals     service.Repository[models.Goal]
	health    handlers.HealthChecker
}

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	repos     repositories
	shutdowns []func(ctx context.Context) error // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(ctx context.Context) error, 0),
	}
}

// Init поднимает логгер, хранилище, сервисы и роутер.
func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func(context.Context) error {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
		return nil
	})

	if err := a.initRepositories(ctx); err != nil {
		return nil, err
	}

	a.router = a.newRouter()
	a.server = &http.Server{
		Addr:    a.config.GetServerAddr(),
		Handler: otelhttp.NewHandler(a.router, "zeno-api"),
	}

	return a, nil
}

func (a *App) initRepositories(ctx context.Context) error {
	switch a.config.Repository.Type {
	case "postgres":
		db := a.config.Database
		if db.Migrate {
			if err := migrations.Up(db.URL); err != nil {
				return fmt.Errorf("миграции: %w", err)
			}
		}

		storage, err := postgres.New(ctx, db.URL, postgres.PoolConfig{
			MaxConns:        db.MaxConnections,
			MinConns:        db.MinConnections,
			MaxConnIdleTime: db.IdleTimeout,
			ConnectTimeout:  db.ConnectTimeout,
		})
		if err != nil {
			return fmt.Errorf("подключение к postgres: %w", err)
		}

		a.shutdowns = append(a.shutdowns, func(context.Context) error {
			logger.Info("Закрытие пула соединений...")
			storage.Close()
			return nil
		})

		a.repos = repositories{
			tasks:     storage.Tasks(),
			notes:     storage.Notes(),
			sessions:  storage.Sessions(),
			resources: storage.Resources(),
			goals:     storage.Goals(),
			health:    storage,
		}
	default:
		tasks := inmemory.NewStorage[models.Task]("tasks")
		a.repos = repositories{
			tasks:     tasks,
			notes:     inmemory.NewStorage[models.Note]("notes"),
			sessions:  inmemory.NewStorage[models.PomodoroSession]("pomodoro_sessions"),
			resources: inmemory.NewStorage[models.Resource]("resources"),
			goals:     inmemory.NewStorage[models.Goal]("goals"),
			health:    tasks,
		}
	}

	logger.Info("Хранилище инициализировано", zap.String("type", a.config.Repository.Type))
	return nil
}

func (a *App) newRouter() *chi.Mux {
	srv := a.config.Server

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(srv.RequestTimeout))
	r.Use(middleware.RateLimit(srv.RateLimit))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: srv.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	health := handlers.NewHealthHandler(a.repos.health, a.config.Repository.Type)
	r.Get("/health", health.HealthCheck) // GET /health

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(a.config.Auth.Users))

		r.Route("/tasks", handlers.NewResourceHandler(service.NewTaskService(a.repos.tasks)).Routes)
		r.Route("/notes", handlers.NewResourceHandler(service.NewNoteService(a.repos.notes)).Routes)
		r.Route("/pomodoro-sessions", handlers.NewResourceHandler(service.NewSessionService(a.repos.sessions)).Routes)
		r.Route("/resources", handlers.NewResourceHandler(service.NewResourceItems(a.repos.resources)).Routes)
		r.Route("/goals", handlers.NewResourceHandler(service.NewGoalService(a.repos.goals)).Routes)
	})

	return r
}

// Handler отдаёт готовый обработчик; используется в тестах.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run обслуживает запросы, пока не отменён ctx, затем выполняет
// graceful shutdown.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("сервер: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Shutdown()
	})

	return g.Wait()
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	logger.Info("Остановка сервера...")
	err := a.server.Shutdown(ctx)

	// в обратном порядке: логгер закрывается последним
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.shutdowns[i](ctx))
	}
	return err
}
