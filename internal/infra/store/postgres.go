package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"daily-uplift-bot/internal/domain"
	"daily-uplift-bot/internal/infra/metrics"
)

// PostgresKV реализует domain.KV поверх pgxpool.
type PostgresKV struct {
	pool *pgxpool.Pool
}

var _ domain.KV = (*PostgresKV)(nil)

// NewPostgres создаёт хранилище.
func NewPostgres(pool *pgxpool.Pool) *PostgresKV {
	return &PostgresKV{pool: pool}
}

func (p *PostgresKV) connCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 5*time.Second)
}

// EnsureSchema создаёт таблицу kv_store, если её нет.
func (p *PostgresKV) EnsureSchema(ctx context.Context) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()
	_, err := p.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS kv_store (
    namespace  text        NOT NULL,
    key        text        NOT NULL,
    value      bytea       NOT NULL,
    updated_at timestamptz NOT NULL DEFAULT now(),
    PRIMARY KEY (namespace, key)
)
`)
	if err != nil {
		return fmt.Errorf("store: создание схемы: %w", err)
	}
	return nil
}

// Get возвращает значение по ключу.
func (p *PostgresKV) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	var value []byte
	err := p.pool.QueryRow(ctx, `SELECT value FROM kv_store WHERE namespace = $1 AND key = $2`, namespace, key).Scan(&value)
	metrics.ObserveNetworkRequest("postgres", "kv_get", namespace, start, err)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: pg get: %w", err)
	}
	return value, true, nil
}

// Set задаёт значение по ключу.
func (p *PostgresKV) Set(ctx context.Context, namespace, key string, value []byte) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	_, err := p.pool.Exec(ctx, `
INSERT INTO kv_store (namespace, key, value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
`, namespace, key, value)
	metrics.ObserveNetworkRequest("postgres", "kv_set", namespace, start, err)
	if err != nil {
		return fmt.Errorf("store: pg set: %w", err)
	}
	return nil
}

// Clear очищает пространство имён.
func (p *PostgresKV) Clear(ctx context.Context, namespace string) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	_, err := p.pool.Exec(ctx, `DELETE FROM kv_store WHERE namespace = $1`, namespace)
	metrics.ObserveNetworkRequest("postgres", "kv_clear", namespace, start, err)
	if err != nil {
		return fmt.Errorf("store: pg clear: %w", err)
	}
	return nil
}
