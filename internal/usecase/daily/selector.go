package daily

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"daily-uplift-bot/internal/domain"
	"daily-uplift-bot/internal/infra/metrics"
)

const defaultAttempts = 4

// Selector добивается неповторяющегося контента: генератор дёргается до
// attempts раз, пока ключ дедупликации не окажется новым для этого дня
// недели. Если все попытки дали повторы, берётся последняя — лучше
// повтор, чем пустой день.
type Selector struct {
	history  domain.HistoryRepo
	attempts int
	log      zerolog.Logger
}

// NewSelector создаёт селектор.
func NewSelector(history domain.HistoryRepo, attempts int, logger zerolog.Logger) *Selector {
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	return &Selector{history: history, attempts: attempts, log: logger}
}

// Select выбирает контент и записывает его нормализованный ключ в историю.
// При исчерпании попыток в историю попадает ключ последней попытки.
func (s *Selector) Select(ctx context.Context, day domain.Weekday, gen domain.ContentGenerator) (domain.ContentPayload, error) {
	var (
		payload domain.ContentPayload
		normKey string
	)
	for attempt := 1; attempt <= s.attempts; attempt++ {
		dedupKey, p, err := gen.Generate(ctx)
		if err != nil {
			return domain.ContentPayload{}, fmt.Errorf("selector: попытка %d: %w", attempt, err)
		}
		payload, normKey = p, NormalizeText(dedupKey)

		seen, err := s.history.Contains(ctx, day, normKey)
		if err != nil {
			return domain.ContentPayload{}, fmt.Errorf("selector: проверка истории: %w", err)
		}
		if !seen {
			break
		}
		metrics.DedupRetriesTotal.Inc()
		s.log.Info().
			Str("weekday", day.String()).
			Int("attempt", attempt).
			Str("norm_key", normKey).
			Msg("selector: повтор контента, пробуем ещё раз")
	}

	if err := s.history.Add(ctx, day, normKey); err != nil {
		return domain.ContentPayload{}, fmt.Errorf("selector: запись истории: %w", err)
	}
	return payload, nil
}
