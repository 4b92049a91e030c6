package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"daily-uplift-bot/internal/domain"
)

const (
	nsHistory           = "history"
	defaultHistoryLimit = 200
)

// History хранит нормализованные ключи дедупликации по дням недели.
// Список каждого дня ограничен limit записями, старейшие вытесняются.
type History struct {
	kv    domain.KV
	limit int
}

var _ domain.HistoryRepo = (*History)(nil)

// NewHistory создаёт репозиторий истории.
func NewHistory(kv domain.KV, limit int) *History {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return &History{kv: kv, limit: limit}
}

func (h *History) load(ctx context.Context, day domain.Weekday) ([]string, error) {
	raw, ok, err := h.kv.Get(ctx, nsHistory, day.String())
	if err != nil || !ok {
		return nil, err
	}
	var keys []string
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil, fmt.Errorf("история: разбор %s: %w", day, err)
	}
	return keys, nil
}

// Contains сообщает, встречался ли нормализованный ключ в этот день недели.
func (h *History) Contains(ctx context.Context, day domain.Weekday, normKey string) (bool, error) {
	keys, err := h.load(ctx, day)
	if err != nil {
		return false, err
	}
	for _, k := range keys {
		if k == normKey {
			return true, nil
		}
	}
	return false, nil
}

// Add записывает ключ, сохраняя уникальность и ограничение длины.
func (h *History) Add(ctx context.Context, day domain.Weekday, normKey string) error {
	keys, err := h.load(ctx, day)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if k == normKey {
			return nil
		}
	}
	keys = append(keys, normKey)
	if len(keys) > h.limit {
		keys = keys[len(keys)-h.limit:]
	}
	raw, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("история: сериализация %s: %w", day, err)
	}
	return h.kv.Set(ctx, nsHistory, day.String(), raw)
}
