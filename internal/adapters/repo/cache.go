package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"daily-uplift-bot/internal/domain"
)

const nsCache = "cache"

// DailyCache хранит ответ дня в KV-хранилище по ключу даты.
// На один ключ даты создаётся не более одной записи; после создания она
// неизменна до административного сброса.
type DailyCache struct {
	kv domain.KV
}

var _ domain.DailyCacheRepo = (*DailyCache)(nil)

// NewDailyCache создаёт репозиторий дневного кэша.
func NewDailyCache(kv domain.KV) *DailyCache {
	return &DailyCache{kv: kv}
}

// Get возвращает сохранённый конверт за дату.
func (c *DailyCache) Get(ctx context.Context, dateKey string) (domain.Envelope, bool, error) {
	raw, ok, err := c.kv.Get(ctx, nsCache, dateKey)
	if err != nil || !ok {
		return domain.Envelope{}, false, err
	}
	var env domain.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return domain.Envelope{}, false, fmt.Errorf("кэш: разбор записи %s: %w", dateKey, err)
	}
	return env, true, nil
}

// Set сохраняет конверт за дату.
func (c *DailyCache) Set(ctx context.Context, dateKey string, env domain.Envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("кэш: сериализация записи %s: %w", dateKey, err)
	}
	return c.kv.Set(ctx, nsCache, dateKey, raw)
}

// Clear удаляет весь дневной кэш.
func (c *DailyCache) Clear(ctx context.Context) error {
	return c.kv.Clear(ctx, nsCache)
}
