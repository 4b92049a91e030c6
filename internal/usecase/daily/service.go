package daily

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"daily-uplift-bot/internal/domain"
	"daily-uplift-bot/internal/infra/metrics"
)

// Service — оркестратор дневного контента: кэш на календарный день IST,
// генерация по дню недели, дни рождения и годовщины поверх.
type Service struct {
	version  string
	cache    domain.DailyCacheRepo
	selector *Selector
	people   domain.PeopleSource
	registry map[domain.Weekday]domain.ContentGenerator
	log      zerolog.Logger

	// mu сериализует генерацию внутри процесса: два одновременных
	// промаха кэша не должны дважды жечь квоты провайдеров.
	mu sync.Mutex
}

// NewService создаёт оркестратор.
func NewService(
	version string,
	cache domain.DailyCacheRepo,
	selector *Selector,
	people domain.PeopleSource,
	registry map[domain.Weekday]domain.ContentGenerator,
	logger zerolog.Logger,
) *Service {
	return &Service{
		version:  version,
		cache:    cache,
		selector: selector,
		people:   people,
		registry: registry,
		log:      logger,
	}
}

// Daily возвращает контент на сегодня: из кэша, если день уже
// сгенерирован, иначе генерирует и кэширует. Дни рождения и годовщины
// на кэш-попадании перечитываются из файлов, а не берутся из кэша.
func (s *Service) Daily(ctx context.Context) (domain.Envelope, error) {
	now := domain.NowIST()
	dateKey := domain.DateKey(now)

	env, ok, err := s.cache.Get(ctx, dateKey)
	if err != nil {
		s.log.Warn().Err(err).Str("date", dateKey).Msg("daily: кэш недоступен, генерируем заново")
	}
	if ok {
		metrics.CacheHitsTotal.Inc()
		return s.refreshPeople(env, now), nil
	}
	metrics.CacheMissesTotal.Inc()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Пока ждали блокировку, параллельный запрос мог уже заполнить кэш.
	if env, ok, err = s.cache.Get(ctx, dateKey); err == nil && ok {
		metrics.CacheHitsTotal.Inc()
		return s.refreshPeople(env, now), nil
	}

	env, err = s.generate(ctx, now)
	if err != nil {
		return domain.Envelope{}, err
	}
	if err := s.cache.Set(ctx, dateKey, env); err != nil {
		s.log.Error().Err(err).Str("date", dateKey).Msg("daily: не удалось записать кэш")
	}
	return env, nil
}

// Preview генерирует контент для произвольного дня недели в обход кэша
// и истории дедупликации. Ничего не сохраняет.
func (s *Service) Preview(ctx context.Context, day domain.Weekday) (domain.Envelope, error) {
	gen, ok := s.registry[day]
	if !ok {
		return domain.Envelope{}, fmt.Errorf("preview: нет генератора для %s", day)
	}

	start := time.Now()
	_, payload, err := gen.Generate(ctx)
	metrics.GenerationSeconds.WithLabelValues(day.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.IncGeneratorFailure(day.String())
		return domain.Envelope{}, fmt.Errorf("preview %s: %w", day, err)
	}

	env := s.buildEnvelope(domain.NowIST(), day, payload)
	env.CacheHit = false
	if env.Metadata == nil {
		env.Metadata = map[string]any{}
	}
	env.Metadata["preview"] = true
	return env, nil
}

// Reset очищает дневной кэш. История дедупликации не трогается.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	s.log.Info().Msg("daily: кэш сброшен")
	return nil
}

func (s *Service) generate(ctx context.Context, now time.Time) (domain.Envelope, error) {
	day := domain.WeekdayOf(now)
	gen, ok := s.registry[day]
	if !ok {
		return domain.Envelope{}, fmt.Errorf("daily: нет генератора для %s", day)
	}

	start := time.Now()
	payload, err := s.selector.Select(ctx, day, gen)
	metrics.GenerationSeconds.WithLabelValues(day.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.IncGeneratorFailure(day.String())
		return domain.Envelope{}, fmt.Errorf("daily %s: %w", day, err)
	}

	return s.buildEnvelope(now, day, payload), nil
}

// buildEnvelope собирает ответ: контент дня плюс строки поздравлений
// в начале сообщения.
func (s *Service) buildEnvelope(now time.Time, day domain.Weekday, payload domain.ContentPayload) domain.Envelope {
	birthdays := s.people.BirthdaysOn(now)
	anniversaries := s.people.AnniversariesOn(now)

	message := payload.Message
	if header := greetingHeader(birthdays, anniversaries); header != "" {
		message = header + "\n\n" + message
	}

	if birthdays == nil {
		birthdays = []string{}
	}
	if anniversaries == nil {
		anniversaries = []domain.Anniversary{}
	}
	items := payload.Items
	if items == nil {
		items = []map[string]any{}
	}
	metadata := payload.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	return domain.Envelope{
		Success:            true,
		Version:            s.version,
		DateIST:            domain.DateKey(now),
		Weekday:            day.String(),
		CacheHit:           false,
		BirthdaysToday:     birthdays,
		AnniversariesToday: anniversaries,
		ContentType:        payload.ContentType,
		Title:              payload.Title,
		Message:            message,
		Items:              items,
		Metadata:           metadata,
	}
}

// refreshPeople подменяет в кэшированном ответе сегодняшние дни рождения
// и годовщины свежими данными из файлов и помечает кэш-попадание.
func (s *Service) refreshPeople(env domain.Envelope, now time.Time) domain.Envelope {
	birthdays := s.people.BirthdaysOn(now)
	anniversaries := s.people.AnniversariesOn(now)
	if birthdays == nil {
		birthdays = []string{}
	}
	if anniversaries == nil {
		anniversaries = []domain.Anniversary{}
	}
	env.BirthdaysToday = birthdays
	env.AnniversariesToday = anniversaries
	env.CacheHit = true
	return env
}

func greetingHeader(birthdays []string, anniversaries []domain.Anniversary) string {
	var lines []string
	if len(birthdays) > 0 {
		lines = append(lines, "🎉 Birthdays today: "+strings.Join(birthdays, ", "))
	}
	if len(anniversaries) > 0 {
		var parts []string
		for _, a := range anniversaries {
			p := strings.Join(a.Names, " & ")
			if a.Years != nil {
				p += fmt.Sprintf(" (%d yrs)", *a.Years)
			}
			parts = append(parts, p)
		}
		lines = append(lines, "💍 Anniversaries today: "+strings.Join(parts, ", "))
	}
	return strings.Join(lines, "\n")
}
