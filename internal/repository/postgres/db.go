package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/xela07ax/citizen-queue-portal/internal/infra"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	city          TEXT NOT NULL DEFAULT '',
	id_card       TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- базы, созданные до появления номера личной карты
ALTER TABLE users ADD COLUMN IF NOT EXISTS id_card TEXT NOT NULL DEFAULT '';

CREATE TABLE IF NOT EXISTS queries (
	id             UUID PRIMARY KEY,
	trace_id       TEXT NOT NULL DEFAULT '',
	user_id        UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	service        TEXT NOT NULL,
	kind           TEXT NOT NULL,
	query          TEXT NOT NULL DEFAULT '',
	wait_minutes   INTEGER NOT NULL,
	recommended_at TIMESTAMPTZ,
	created_at     TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS queries_user_created_idx ON queries (user_id, created_at DESC);
`

// Connect открывает пул и ждет базу с экспоненциальным бэкоффом:
// при старте в docker-compose Postgres часто поднимается позже портала.
func Connect(ctx context.Context, cfg infra.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	attempt := 0
	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(max(cfg.ConnectRetries, 1)),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
	)
	err = r.Do(func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := pool.Ping(pingCtx); err != nil {
			logger.Warn("database not reachable yet", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: database unreachable: %w", err)
	}

	logger.Info("connected to postgres", zap.Int("attempts", attempt))
	return pool, nil
}

// EnsureSchema создает таблицы, если их еще нет.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: failed to apply schema: %w", err)
	}
	return nil
}
