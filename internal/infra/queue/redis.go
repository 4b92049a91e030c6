package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"daily-uplift-bot/internal/domain"
)

// RedisWarmQueue реализует очередь задач прогрева на базе Redis lists.
type RedisWarmQueue struct {
	client *redis.Client
	key    string
}

var _ domain.WarmQueue = (*RedisWarmQueue)(nil)

// NewRedisWarmQueue создаёт очередь по указанному ключу.
func NewRedisWarmQueue(client *redis.Client, key string) *RedisWarmQueue {
	return &RedisWarmQueue{client: client, key: key}
}

// Enqueue публикует задачу в очередь.
func (q *RedisWarmQueue) Enqueue(ctx context.Context, job domain.WarmJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("push job: %w", err)
	}
	return nil
}

// Pop блокирующе читает задачу из очереди.
func (q *RedisWarmQueue) Pop(ctx context.Context) (domain.WarmJob, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.WarmJob{}, err
		}

		res, err := q.client.BRPop(ctx, time.Second, q.key).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				if ctx.Err() != nil {
					return domain.WarmJob{}, ctx.Err()
				}
				continue
			}
			if errors.Is(err, redis.Nil) {
				continue
			}
			return domain.WarmJob{}, err
		}
		if len(res) != 2 {
			return domain.WarmJob{}, errors.New("redis queue: unexpected response")
		}
		var job domain.WarmJob
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			return domain.WarmJob{}, fmt.Errorf("decode job: %w", err)
		}
		return job, nil
	}
}
