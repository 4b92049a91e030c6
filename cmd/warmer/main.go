package main

import (
	"context"
	"errors"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"daily-uplift-bot/internal/adapters/movies"
	"daily-uplift-bot/internal/adapters/people"
	"daily-uplift-bot/internal/adapters/repo"
	"daily-uplift-bot/internal/adapters/telegram"
	"daily-uplift-bot/internal/domain"
	"daily-uplift-bot/internal/infra/cohere"
	"daily-uplift-bot/internal/infra/config"
	applog "daily-uplift-bot/internal/infra/log"
	"daily-uplift-bot/internal/infra/metrics"
	"daily-uplift-bot/internal/infra/queue"
	"daily-uplift-bot/internal/infra/retry"
	"daily-uplift-bot/internal/infra/serp"
	"daily-uplift-bot/internal/infra/store"
	"daily-uplift-bot/internal/usecase/daily"
	"daily-uplift-bot/internal/usecase/generate"
)

// Прогреватель: забирает задачи из очереди, генерирует контент дня
// (заполняя кэш до первого запроса) и, если настроен Telegram,
// рассылает сообщение в чат.
func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv).With().Str("component", "warmer").Logger()

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, closeStore, err := store.Open(ctx, store.Options{
		PGDSN:     cfg.PGDSN,
		RedisAddr: cfg.RedisAddr,
		Dir:       cfg.DataDir,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("warmer: нет хранилища")
	}
	defer closeStore()

	q, closeQueue, err := queue.Open(cfg.RabbitURL, cfg.RedisAddr, cfg.Queues.Warm, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("warmer: нет очереди")
	}
	defer closeQueue()

	policy := retry.Policy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay,
		JitterMax:   cfg.Retry.JitterMax,
	}
	deps := generate.Deps{
		Search: serp.NewClient(cfg.Serp.Key, cfg.Serp.BaseURL, cfg.Serp.Timeout, policy,
			logger.With().Str("component", "serp").Logger()),
		LLM: cohere.NewClient(cfg.Cohere.Key, cfg.Cohere.BaseURL, cfg.Cohere.Model, cfg.Cohere.Timeout, policy,
			logger.With().Str("component", "cohere").Logger()),
		Movies: movies.NewScraper(cfg.Movies.URL, cfg.Movies.MaxTitles, cfg.Movies.Timeout, policy,
			logger.With().Str("component", "movies").Logger()),
		Log: logger.With().Str("component", "generate").Logger(),
	}

	peopleSrc := people.NewLoader(
		filepath.Join(cfg.DataDir, cfg.Files.Birthdays),
		filepath.Join(cfg.DataDir, cfg.Files.Anniversaries),
		logger.With().Str("component", "people").Logger(),
	)
	selector := daily.NewSelector(repo.NewHistory(kv, cfg.History.Limit), cfg.History.Attempts,
		logger.With().Str("component", "selector").Logger())
	svc := daily.NewService(cfg.Version, repo.NewDailyCache(kv), selector, peopleSrc, generate.Registry(deps),
		logger.With().Str("component", "daily").Logger())

	var notifier domain.Notifier
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		notifier, err = telegram.NewNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID,
			logger.With().Str("component", "telegram").Logger())
		if err != nil {
			logger.Fatal().Err(err).Msg("warmer: не удалось подключить Telegram")
		}
	}

	metrics.StartServer(ctx, logger, cfg.MetricsAddr)
	logger.Info().Msg("warmer: старт")

	for {
		job, err := q.Pop(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				logger.Info().Msg("warmer: остановка")
				return
			}
			logger.Error().Err(err).Msg("warmer: не удалось забрать задачу")
			continue
		}
		process(ctx, svc, notifier, job, logger)
	}
}

func process(ctx context.Context, svc *daily.Service, notifier domain.Notifier, job domain.WarmJob, logger zerolog.Logger) {
	log := logger.With().Str("job_id", job.ID).Str("date", job.DateIST).Logger()

	env, err := svc.Daily(ctx)
	if err != nil {
		log.Error().Err(err).Msg("warmer: генерация не удалась")
		return
	}
	log.Info().Bool("cache_hit", env.CacheHit).Str("weekday", env.Weekday).Msg("warmer: кэш прогрет")

	// Рассылаем только свежесгенерированный день: попадание в кэш значит,
	// что контент уже уходил раньше.
	if notifier == nil || env.CacheHit {
		return
	}
	if err := notifier.Broadcast(ctx, env.Message); err != nil {
		log.Error().Err(err).Msg("warmer: рассылка не удалась")
	}
}
