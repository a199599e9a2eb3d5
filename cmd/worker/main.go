package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"nba_model/engine/internal/adjust"
	"nba_model/engine/internal/client"
	"nba_model/engine/internal/config"
	"nba_model/engine/internal/elo"
	"nba_model/engine/internal/engine"
	"nba_model/engine/internal/scheduler"
	"nba_model/engine/internal/store"
	"nba_model/engine/internal/tiers"
)

func main() {
	setupLogger()

	log.Info().Msg("Starting NBA rating engine worker")

	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("store", cfg.StoreBackend).
		Str("log_level", cfg.LogLevel).
		Msg("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	docs, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open document store")
	}
	defer cleanup()

	ratings, err := elo.LoadRatings(ctx, docs)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load ratings")
	}
	schedule, err := elo.LoadScheduleCache(ctx, docs)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load schedule cache")
	}

	providers := client.New(client.Options{
		ScoreboardURL: cfg.ScoreboardBaseURL,
		InjuriesURL:   cfg.InjuriesBaseURL,
		StatsURL:      cfg.StatsBaseURL,
		Timeout:       cfg.ProviderTimeout,
		RateInterval:  cfg.ProviderRateDelay,
		MaxRetries:    cfg.ProviderRetries,
	})
	classifier := tiers.NewClassifier(providers, docs)
	adjuster := adjust.NewInjuryAdjuster(providers, classifier)
	predictor := engine.NewPredictor(ratings, schedule, adjuster, providers)
	processor := engine.NewHistoricalProcessor(providers, docs, ratings, schedule)
	processor.CheckpointEvery = cfg.CheckpointEveryDays

	if cfg.EnableMetrics {
		go startMetricsServer(cfg.MetricsPort)
	}

	sched := scheduler.New(cfg, processor, predictor, classifier)
	if cfg.EnableScheduler {
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	// Catch up on any unprocessed days before the first cron fires.
	log.Info().Msg("Running initial rating catch-up...")
	if err := sched.CatchUp(ctx); err != nil {
		log.Error().Err(err).Msg("Initial catch-up failed, continuing anyway...")
	}

	<-ctx.Done()

	if cfg.EnableScheduler {
		sched.Stop()
	}
	log.Info().Msg("Worker shutdown complete")
}

// openStore builds the configured document store backend.
func openStore(ctx context.Context, cfg *config.Config) (store.DocumentStore, func(), error) {
	switch cfg.StoreBackend {
	case "redis":
		rs, err := store.NewRedisStore(ctx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, nil, err
		}
		return rs, func() { rs.Close() }, nil
	default:
		fs, err := store.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	}
}

// setupLogger configures the zerolog logger
func setupLogger() {
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// startMetricsServer exposes Prometheus metrics
func startMetricsServer(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	log.Info().Str("addr", addr).Msg("Metrics server listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
