package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"daily-uplift-bot/internal/domain"
	"daily-uplift-bot/internal/infra/db"
)

// Options задаёт откуда брать хранилище. Приоритет: Postgres, Redis, файл.
type Options struct {
	PGDSN     string
	RedisAddr string
	Dir       string
}

// Open выбирает и подключает KV-хранилище по конфигурации.
// Возвращённый closer обязателен к вызову при остановке.
func Open(ctx context.Context, opts Options, logger zerolog.Logger) (domain.KV, func(), error) {
	switch {
	case opts.PGDSN != "":
		pool, err := db.Connect(ctx, opts.PGDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("store: postgres: %w", err)
		}
		kv := NewPostgres(pool)
		if err := kv.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("store: схема: %w", err)
		}
		logger.Info().Msg("store: используем Postgres")
		return kv, pool.Close, nil

	case opts.RedisAddr != "":
		client := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		logger.Info().Str("addr", opts.RedisAddr).Msg("store: используем Redis")
		return NewRedis(client), func() { _ = client.Close() }, nil

	default:
		kv, err := NewFile(opts.Dir, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("store: файл: %w", err)
		}
		logger.Info().Str("dir", opts.Dir).Msg("store: используем файловое хранилище")
		return kv, func() {}, nil
	}
}
