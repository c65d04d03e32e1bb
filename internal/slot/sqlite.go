package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS slots (
	name       TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLite хранит слоты в одной таблице базы SQLite.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite открывает базу по пути; ":memory:" - база в памяти.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("создание каталога базы: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("открытие базы: %w", err)
	}
	if path == ":memory:" {
		// каждое соединение :memory: - отдельная база
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("включение WAL: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("создание таблицы слотов: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Load(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM slots WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("чтение слота %s: %w", name, err)
	}
	return data, nil
}

func (s *SQLite) Save(ctx context.Context, name string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO slots (name, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		name, data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("запись слота %s: %w", name, err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
