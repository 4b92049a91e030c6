package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"daily-uplift-bot/internal/domain"
)

const redisKeyPrefix = "duplift"

// RedisKV реализует domain.KV поверх Redis.
type RedisKV struct {
	client *redis.Client
}

var _ domain.KV = (*RedisKV)(nil)

// NewRedis создаёт хранилище.
func NewRedis(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func redisKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s:%s", redisKeyPrefix, namespace, key)
}

// Get возвращает значение по ключу.
func (r *RedisKV) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	raw, err := r.client.Get(ctx, redisKey(namespace, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: redis get: %w", err)
	}
	return raw, true, nil
}

// Set задаёт значение без срока жизни: дневной кэш живёт до админского сброса.
func (r *RedisKV) Set(ctx context.Context, namespace, key string, value []byte) error {
	if err := r.client.Set(ctx, redisKey(namespace, key), value, 0).Err(); err != nil {
		return fmt.Errorf("store: redis set: %w", err)
	}
	return nil
}

// Clear удаляет все ключи пространства имён.
func (r *RedisKV) Clear(ctx context.Context, namespace string) error {
	pattern := fmt.Sprintf("%s:%s:*", redisKeyPrefix, namespace)
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("store: redis del: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("store: redis scan: %w", err)
	}
	return nil
}
