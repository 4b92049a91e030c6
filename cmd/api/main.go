package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"daily-uplift-bot/internal/adapters/api"
	"daily-uplift-bot/internal/adapters/movies"
	"daily-uplift-bot/internal/adapters/people"
	"daily-uplift-bot/internal/adapters/repo"
	"daily-uplift-bot/internal/infra/cohere"
	"daily-uplift-bot/internal/infra/config"
	httpinfra "daily-uplift-bot/internal/infra/http"
	applog "daily-uplift-bot/internal/infra/log"
	"daily-uplift-bot/internal/infra/metrics"
	"daily-uplift-bot/internal/infra/retry"
	"daily-uplift-bot/internal/infra/serp"
	"daily-uplift-bot/internal/infra/store"
	"daily-uplift-bot/internal/usecase/daily"
	"daily-uplift-bot/internal/usecase/generate"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, closeStore, err := store.Open(ctx, store.Options{
		PGDSN:     cfg.PGDSN,
		RedisAddr: cfg.RedisAddr,
		Dir:       cfg.DataDir,
	}, logger.With().Str("component", "store").Logger())
	if err != nil {
		logger.Fatal().Err(err).Msg("api: нет хранилища")
	}
	defer closeStore()

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

	server := httpinfra.NewServer(logger.With().Str("component", "http").Logger())
	api.NewHandler(svc, cfg.Version, cfg.AppToken, logger.With().Str("component", "api").Logger()).
		Register(server.Router)

	metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), cfg.MetricsAddr)

	go func() {
		if err := server.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("api: сервер остановлен")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("api: остановка")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}
