// Command backfill replays historical results over a date range to
// train ratings, resuming from the last checkpoint unless -full is set.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"nba_model/engine/internal/client"
	"nba_model/engine/internal/config"
	"nba_model/engine/internal/elo"
	"nba_model/engine/internal/engine"
	"nba_model/engine/internal/models"
	"nba_model/engine/internal/store"
)

func main() {
	var (
		startFlag = flag.String("start", "", "first date to process (YYYY-MM-DD, default REPLAY_START_DATE)")
		endFlag   = flag.String("end", "", "last date to process (YYYY-MM-DD, default yesterday)")
		fullFlag  = flag.Bool("full", false, "wipe ratings and recompute the whole range")
	)
	flag.Parse()

	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	cfg := config.MustLoad()

	start := cfg.ReplayStart()
	if *startFlag != "" {
		parsed, err := time.Parse(models.DateFormat, *startFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid -start date")
		}
		start = parsed
	}
	end := time.Now().UTC().AddDate(0, 0, -1)
	if *endFlag != "" {
		parsed, err := time.Parse(models.DateFormat, *endFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid -end date")
		}
		end = parsed
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("Interrupted, stopping at the next checkpoint boundary...")
		cancel()
	}()

	var docs store.DocumentStore
	switch cfg.StoreBackend {
	case "redis":
		rs, err := store.NewRedisStore(ctx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rs.Close()
		docs = rs
	default:
		fs, err := store.NewFileStore(cfg.DataDir)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open data directory")
		}
		docs = fs
	}

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

	processor := engine.NewHistoricalProcessor(providers, docs, ratings, schedule)
	processor.CheckpointEvery = cfg.CheckpointEveryDays

	log.Info().
		Str("start", start.Format(models.DateFormat)).
		Str("end", end.Format(models.DateFormat)).
		Bool("full", *fullFlag).
		Msg("Starting historical backfill")

	summary, err := processor.Run(ctx, start, end, *fullFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Backfill failed")
	}

	log.Info().
		Int("games", summary.GamesProcessed).
		Float64("avg_margin", summary.AverageMargin()).
		Int("regressions", summary.RegressionsApplied).
		Int("days_skipped", summary.DaysSkipped).
		Int("teams_rated", ratings.Len()).
		Msg("Backfill complete")
}
