package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"daily-uplift-bot/internal/domain"
	"daily-uplift-bot/internal/infra/config"
	applog "daily-uplift-bot/internal/infra/log"
	"daily-uplift-bot/internal/infra/metrics"
	"daily-uplift-bot/internal/infra/queue"
	"daily-uplift-bot/internal/infra/store"
)

// warmMarkerNS — пространство имён для отметок "прогрев на дату уже поставлен".
const warmMarkerNS = "warm"

// Планировщик прогрева: раз в сутки, в назначенное время IST, ставит в
// очередь задачу сгенерировать контент дня до первого живого запроса.
func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv).With().Str("component", "scheduler").Logger()

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, closeStore, err := store.Open(ctx, store.Options{
		PGDSN:     cfg.PGDSN,
		RedisAddr: cfg.RedisAddr,
		Dir:       cfg.DataDir,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("scheduler: нет хранилища")
	}
	defer closeStore()

	q, closeQueue, err := queue.Open(cfg.RabbitURL, cfg.RedisAddr, cfg.Queues.Warm, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("scheduler: нет очереди")
	}
	defer closeQueue()

	metrics.StartServer(ctx, logger, cfg.MetricsAddr)
	logger.Info().Str("warm_at", cfg.Scheduler.WarmAt).Msg("scheduler: старт")

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("scheduler: остановка")
			return
		case <-ticker.C:
			tick(ctx, cfg.Scheduler.WarmAt, kv, q, logger)
		}
	}
}

// tick ставит задачу прогрева, если наступило назначенное время
// и на сегодняшнюю дату задача ещё не ставилась.
func tick(ctx context.Context, warmAt string, kv domain.KV, q domain.WarmQueue, logger zerolog.Logger) {
	now := domain.NowIST()
	if now.Format("15:04") != warmAt {
		return
	}
	dateKey := domain.DateKey(now)

	if _, ok, err := kv.Get(ctx, warmMarkerNS, dateKey); err != nil {
		logger.Warn().Err(err).Msg("scheduler: не удалось проверить отметку прогрева")
		return
	} else if ok {
		return
	}

	job := domain.WarmJob{
		ID:         uuid.NewString(),
		DateIST:    dateKey,
		Weekday:    domain.WeekdayOf(now).String(),
		EnqueuedAt: now,
	}
	if err := q.Enqueue(ctx, job); err != nil {
		logger.Error().Err(err).Str("date", dateKey).Msg("scheduler: не удалось поставить задачу")
		return
	}
	marker, _ := json.Marshal(job)
	if err := kv.Set(ctx, warmMarkerNS, dateKey, marker); err != nil {
		logger.Warn().Err(err).Msg("scheduler: не удалось записать отметку прогрева")
	}
	logger.Info().Str("job_id", job.ID).Str("date", dateKey).Msg("scheduler: задача прогрева поставлена")
}
