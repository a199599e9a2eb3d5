package elo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"nba_model/engine/internal/models"
	"nba_model/engine/internal/store"
)

// RegressionFactor is how far each rating is pulled back toward the
// starting mean at the turn of a season. Carrying two thirds of last
// season's signal keeps strong teams strong without letting stale
// ratings dominate October.
const RegressionFactor = 1.0 / 3.0

// RegressionDue reports whether the date is on or after the season
// boundary (October 1st) of its calendar year, meaning that year's
// regression may still be owed.
func RegressionDue(date time.Time) bool {
	return date.Month() >= time.October
}

// ApplySeasonRegression pulls every rating partway toward StartRating,
// at most once per season start year. The guard is a persisted history
// document keyed by year and recording the processed date the
// regression ran on, so replays and restarts never regress the same
// season twice and a rebuilt history reads the same as the original.
func ApplySeasonRegression(ctx context.Context, s store.DocumentStore, ratings *Ratings, date time.Time) (bool, error) {
	history := make(map[string]string)
	if _, err := s.Load(ctx, store.DocRegressionHistory, &history); err != nil {
		return false, fmt.Errorf("failed to load regression history: %w", err)
	}

	key := fmt.Sprintf("last_regression_%d", date.Year())
	if _, done := history[key]; done {
		return false, nil
	}

	for team, rating := range ratings.Snapshot() {
		ratings.Set(team, rating+(StartRating-rating)*RegressionFactor)
	}

	history[key] = date.Format(models.DateFormat)
	if err := s.Save(ctx, store.DocRegressionHistory, history); err != nil {
		return false, fmt.Errorf("failed to save regression history: %w", err)
	}
	if err := ratings.Save(ctx); err != nil {
		return false, err
	}

	log.Info().
		Int("year", date.Year()).
		Str("date", date.Format(models.DateFormat)).
		Int("teams", ratings.Len()).
		Msg("Applied season regression toward the mean")
	return true, nil
}
