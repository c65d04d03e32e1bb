package postgres

import (
	"context"
	"fmt"
	"time"

	"zeno/internal/logger"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Storage владеет пулом соединений; репозитории сущностей создаются из него.
type Storage struct {
	pool *pgxpool.Pool
}

type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
	// ConnectTimeout ограничивает общее время попыток подключения.
	ConnectTimeout time.Duration
}

func New(ctx context.Context, connString string, cfg PoolConfig) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5
	if cfg.MaxConns > 0 {
		config.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		config.MinConns = cfg.MinConns
	}
	if cfg.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	// времена читаются в UTC независимо от пояса сервера
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		conn.TypeMap().RegisterType(&pgtype.Type{
			Name:  "timestamptz",
			OID:   pgtype.TimestamptzOID,
			Codec: &pgtype.TimestamptzCodec{ScanLocation: time.UTC},
		})
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	retry := backoff.NewExponentialBackOff()
	retry.MaxElapsedTime = 30 * time.Second
	if cfg.ConnectTimeout > 0 {
		retry.MaxElapsedTime = cfg.ConnectTimeout
	}

	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		return pool.Ping(ctx)
	}, backoff.WithContext(retry, ctx))
	if err != nil {
		pool.Close()
		logger.Error("Repository: Неудачная проверка ping", err, zap.Int("attempts", attempt))
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL", zap.Int("attempts", attempt))
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}
