package queue

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"daily-uplift-bot/internal/domain"
)

// Open подключает очередь прогрева: RabbitMQ если задан URL, иначе Redis.
func Open(rabbitURL, redisAddr, key string, logger zerolog.Logger) (domain.WarmQueue, func(), error) {
	switch {
	case rabbitURL != "":
		q, err := NewRabbitWarmQueue(rabbitURL, key)
		if err != nil {
			return nil, nil, fmt.Errorf("queue: rabbitmq: %w", err)
		}
		logger.Info().Str("queue", key).Msg("queue: используем RabbitMQ")
		return q, func() { _ = q.Close() }, nil

	case redisAddr != "":
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		logger.Info().Str("key", key).Msg("queue: используем Redis")
		return NewRedisWarmQueue(client, key), func() { _ = client.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("queue: не задан ни RABBITMQ_URL, ни REDIS_ADDR")
	}
}
