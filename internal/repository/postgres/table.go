package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"zeno/internal/logger"
	"zeno/internal/models"
	repo "zeno/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQuery = time.Millisecond * 100

// table описывает отображение сущности на таблицу. Служебные колонки
// id, user_id, created_at, updated_at добавляются автоматически.
type table[T any] struct {
	name    string
	columns []string
	// values возвращает значения columns в том же порядке.
	values func(*T) []any
	// targets возвращает указатели для сканирования columns.
	targets func(*T) []any
	// after вызывается после сканирования строки.
	after func(*T)
}

// Repo - репозиторий одной сущности. Каждый запрос фильтруется по user_id,
// поэтому чужая запись неотличима от отсутствующей.
type Repo[T any, P models.Record[T]] struct {
	pool *pgxpool.Pool
	t    table[T]

	insertSQL string
	updateSQL string
	selectSQL string
	listSQL   string
	deleteSQL string
}

func newRepo[T any, P models.Record[T]](pool *pgxpool.Pool, t table[T]) *Repo[T, P] {
	all := append([]string{"id", "user_id", "created_at", "updated_at"}, t.columns...)
	selectCols := strings.Join(all, ", ")

	placeholders := make([]string, len(all))
	for i := range all {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	sets := make([]string, 0, len(t.columns)+1)
	sets = append(sets, "updated_at = $3")
	for i, col := range t.columns {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+4))
	}

	return &Repo[T, P]{
		pool: pool,
		t:    t,
		insertSQL: fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
			t.name, selectCols, strings.Join(placeholders, ", ")),
		updateSQL: fmt.Sprintf(`UPDATE %s SET %s WHERE id = $1 AND user_id = $2`,
			t.name, strings.Join(sets, ", ")),
		selectSQL: fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND user_id = $2`,
			selectCols, t.name),
		listSQL: fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1 ORDER BY created_at, id`,
			selectCols, t.name),
		deleteSQL: fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, t.name),
	}
}

func (r *Repo[T, P]) warnSlow(op string, start time.Time) {
	if elapsed := time.Since(start); elapsed > slowQuery {
		logger.Warn("Repository: Медленный запрос",
			zap.String("table", r.t.name),
			zap.String("operation", op),
			zap.Duration("ms", elapsed))
	}
}

func (r *Repo[T, P]) scanTargets(item P) []any {
	meta := item.Meta()
	return append([]any{&meta.ID, &meta.UserID, &meta.CreatedAt, &meta.UpdatedAt}, r.t.targets(item)...)
}

func (r *Repo[T, P]) Create(ctx context.Context, item P) error {
	start := time.Now()
	meta := item.Meta()

	args := append([]any{meta.ID, meta.UserID, meta.CreatedAt, meta.UpdatedAt}, r.t.values(item)...)
	if _, err := r.pool.Exec(ctx, r.insertSQL, args...); err != nil {
		logger.Error("Repository: Не удалось добавить запись", err,
			zap.String("table", r.t.name),
			zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление в %s: %w", r.t.name, err)
	}

	r.warnSlow("create", start)
	return nil
}

func (r *Repo[T, P]) Update(ctx context.Context, item P) error {
	start := time.Now()
	meta := item.Meta()

	args := append([]any{meta.ID, meta.UserID, meta.UpdatedAt}, r.t.values(item)...)
	tag, err := r.pool.Exec(ctx, r.updateSQL, args...)
	if err != nil {
		logger.Error("Repository: Не удалось обновить запись", err,
			zap.String("table", r.t.name),
			zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("обновление %s: %w", r.t.name, err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	r.warnSlow("update", start)
	return nil
}

func (r *Repo[T, P]) GetByID(ctx context.Context, userID, id string) (P, error) {
	start := time.Now()

	item := P(new(T))
	err := r.pool.QueryRow(ctx, r.selectSQL, id, userID).Scan(r.scanTargets(item)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить запись", err,
			zap.String("table", r.t.name),
			zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение из %s: %w", r.t.name, err)
	}
	if r.t.after != nil {
		r.t.after(item)
	}

	r.warnSlow("get", start)
	return item, nil
}

func (r *Repo[T, P]) List(ctx context.Context, userID string) ([]P, error) {
	start := time.Now()

	rows, err := r.pool.Query(ctx, r.listSQL, userID)
	if err != nil {
		logger.Error("Repository: Не удалось получить записи", err,
			zap.String("table", r.t.name),
			zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение из %s: %w", r.t.name, err)
	}
	defer rows.Close()

	items := []P{}
	for rows.Next() {
		item := P(new(T))
		if err := rows.Scan(r.scanTargets(item)...); err != nil {
			logger.Warn("Repository: Ошибка сканирования строки",
				zap.String("table", r.t.name),
				zap.Error(err))
			continue
		}
		if r.t.after != nil {
			r.t.after(item)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err, zap.String("table", r.t.name))
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	r.warnSlow("list", start)
	return items, nil
}

func (r *Repo[T, P]) Delete(ctx context.Context, userID, id string) error {
	start := time.Now()

	tag, err := r.pool.Exec(ctx, r.deleteSQL, id, userID)
	if err != nil {
		logger.Error("Repository: Не удалось удалить запись", err,
			zap.String("table", r.t.name),
			zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление из %s: %w", r.t.name, err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	r.warnSlow("delete", start)
	return nil
}

func (r *Repo[T, P]) HealthCheck(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
