package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"nba_model/engine/internal/config"
	"nba_model/engine/internal/engine"
	"nba_model/engine/internal/models"
	"nba_model/engine/internal/tiers"
)

// Scheduler runs the recurring background jobs:
// - daily rating catch-up: replay any unprocessed days through yesterday
// - nightly tier refresh: rebuild the current season's tier table
// - daily evaluation: score yesterday's predictions against finals
type Scheduler struct {
	cfg        *config.Config
	processor  *engine.HistoricalProcessor
	predictor  *engine.Predictor
	classifier *tiers.Classifier
	cron       *cron.Cron
}

// New creates a scheduler instance
func New(cfg *config.Config, processor *engine.HistoricalProcessor, predictor *engine.Predictor, classifier *tiers.Classifier) *Scheduler {
	return &Scheduler{
		cfg:        cfg,
		processor:  processor,
		predictor:  predictor,
		classifier: classifier,
		cron:       cron.New(),
	}
}

// Start registers the cron jobs and starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.CatchUpCron, func() {
		if err := s.CatchUp(ctx); err != nil {
			log.Error().Err(err).Msg("Rating catch-up failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule rating catch-up: %w", err)
	}

	if _, err := s.cron.AddFunc(s.cfg.TierRefreshCron, func() {
		if err := s.RefreshTiers(ctx); err != nil {
			log.Error().Err(err).Msg("Tier refresh failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule tier refresh: %w", err)
	}

	if _, err := s.cron.AddFunc(s.cfg.EvaluateCron, func() {
		if err := s.EvaluateYesterday(ctx); err != nil {
			log.Error().Err(err).Msg("Daily evaluation failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule daily evaluation: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("catchup", s.cfg.CatchUpCron).
		Str("tier_refresh", s.cfg.TierRefreshCron).
		Str("evaluate", s.cfg.EvaluateCron).
		Msg("Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")
	<-s.cron.Stop().Done()
	log.Info().Msg("Scheduler stopped")
}

// CatchUp replays results from the configured start date through
// yesterday. The checkpoint makes this cheap: days already processed
// are not refetched.
func (s *Scheduler) CatchUp(ctx context.Context) error {
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	log.Info().
		Str("through", yesterday.Format(models.DateFormat)).
		Msg("Running rating catch-up")

	summary, err := s.processor.Run(ctx, s.cfg.ReplayStart(), yesterday, false)
	if err != nil {
		return err
	}
	log.Info().
		Int("games", summary.GamesProcessed).
		Bool("resumed", summary.Resumed).
		Msg("Rating catch-up complete")
	return nil
}

// RefreshTiers rebuilds the tier table for the current season.
func (s *Scheduler) RefreshTiers(ctx context.Context) error {
	season := models.SeasonForDate(time.Now().UTC())
	log.Info().Str("season", string(season)).Msg("Refreshing player tiers")
	return s.classifier.Refresh(ctx, season)
}

// EvaluateYesterday scores yesterday's slate.
func (s *Scheduler) EvaluateYesterday(ctx context.Context) error {
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	eval, err := s.predictor.Evaluate(ctx, yesterday)
	if err != nil {
		return err
	}
	if eval.Games == 0 {
		log.Info().
			Str("date", yesterday.Format(models.DateFormat)).
			Msg("No final games to evaluate")
	}
	return nil
}
