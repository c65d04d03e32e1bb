// Package migrations применяет встроенную схему PostgreSQL через golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"zeno/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var files embed.FS

func newMigrate(databaseURL string) (*migrate.Migrate, *sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("открытие соединения: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("драйвер миграций: %w", err)
	}

	source, err := iofs.New(files, "sql")
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("источник миграций: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("создание мигратора: %w", err)
	}
	return m, db, nil
}

// Up применяет все непримененные миграции.
func Up(databaseURL string) error {
	logger.Info("Repository: Применение миграций")

	m, db, err := newMigrate(databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: Ошибка применения миграций", err)
		return fmt.Errorf("применение миграций: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Info("Repository: Миграции применены",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}

// Down откатывает все миграции.
func Down(databaseURL string) error {
	logger.Info("Repository: Откат миграций")

	m, db, err := newMigrate(databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: Ошибка отката миграций", err)
		return fmt.Errorf("откат миграций: %w", err)
	}
	return nil
}
