package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"nba_model/engine/internal/elo"
	"nba_model/engine/internal/metrics"
	"nba_model/engine/internal/models"
	"nba_model/engine/internal/store"
)

// DefaultCheckpointEvery is how many calendar days the replay advances
// between checkpoint writes. A crash loses at most this much progress.
const DefaultCheckpointEvery = 7

// ReplaySummary reports what a historical replay run did.
type ReplaySummary struct {
	Start              time.Time
	End                time.Time
	Resumed            bool
	GamesProcessed     int
	TotalMargin        int
	BackToBacks        int
	EarlySeasonGames   int
	MidSeasonGames     int
	LateSeasonGames    int
	RegressionsApplied int
	DaysSkipped        int
}

// AverageMargin is the mean point differential of processed games.
func (s *ReplaySummary) AverageMargin() float64 {
	if s.GamesProcessed == 0 {
		return 0
	}
	return float64(s.TotalMargin) / float64(s.GamesProcessed)
}

// HistoricalProcessor replays past results day by day to train the
// rating model. Runs are resumable through a persisted checkpoint and
// idempotent when forced from scratch.
type HistoricalProcessor struct {
	games    GameSource
	docs     store.DocumentStore
	ratings  *elo.Ratings
	schedule *elo.ScheduleCache

	// CheckpointEvery controls how often mid-run progress is persisted,
	// in days. Zero means DefaultCheckpointEvery.
	CheckpointEvery int
}

func NewHistoricalProcessor(games GameSource, docs store.DocumentStore, ratings *elo.Ratings, schedule *elo.ScheduleCache) *HistoricalProcessor {
	return &HistoricalProcessor{
		games:    games,
		docs:     docs,
		ratings:  ratings,
		schedule: schedule,
	}
}

// Run replays [start, end] in ascending date order. With forceFull the
// ratings, schedule cache, and checkpoint are wiped and the whole range
// is recomputed; otherwise the run resumes from the day after the
// persisted checkpoint, and a checkpoint at or past end is a no-op
// success. Days whose slate cannot be fetched are skipped, not fatal.
func (p *HistoricalProcessor) Run(ctx context.Context, start, end time.Time, forceFull bool) (*ReplaySummary, error) {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return nil, fmt.Errorf("invalid range: end %s before start %s",
			end.Format(models.DateFormat), start.Format(models.DateFormat))
	}

	began := time.Now()
	mode := "incremental"
	if forceFull {
		mode = "full"
	}

	summary := &ReplaySummary{Start: start, End: end}

	if forceFull {
		log.Info().Msg("Force full replay: wiping ratings and schedule cache")
		if err := p.ratings.Reset(ctx); err != nil {
			return nil, err
		}
		if err := p.schedule.Reset(ctx); err != nil {
			return nil, err
		}
		if err := elo.ClearCheckpoint(ctx, p.docs); err != nil {
			return nil, err
		}
	} else {
		cp, found, err := elo.LoadCheckpoint(ctx, p.docs)
		if err != nil {
			return nil, err
		}
		if found {
			cpDate, err := cp.Date()
			if err != nil {
				return nil, fmt.Errorf("corrupt checkpoint %q: %w", cp.LastProcessedDate, err)
			}
			if !cpDate.Before(end) {
				log.Info().
					Str("checkpoint", cp.LastProcessedDate).
					Msg("Ratings already up to date")
				return summary, nil
			}
			start = cpDate.AddDate(0, 0, 1)
			summary.Start = start
			summary.Resumed = true
			log.Info().
				Str("checkpoint", cp.LastProcessedDate).
				Str("resume_from", start.Format(models.DateFormat)).
				Msg("Resuming replay from checkpoint")
		}
	}

	checkpointEvery := p.CheckpointEvery
	if checkpointEvery <= 0 {
		checkpointEvery = DefaultCheckpointEvery
	}

	totalDays := int(end.Sub(start).Hours()/24) + 1
	daysProcessed := 0

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			metrics.RecordReplay(mode, "cancelled", time.Since(began).Seconds())
			return summary, err
		}

		if daysProcessed > 0 && daysProcessed%30 == 0 {
			log.Info().
				Int("days_done", daysProcessed).
				Int("days_total", totalDays).
				Int("games", summary.GamesProcessed).
				Msg("Replay progress")
		}

		if elo.RegressionDue(day) {
			applied, err := elo.ApplySeasonRegression(ctx, p.docs, p.ratings, day)
			if err != nil {
				metrics.RecordReplay(mode, "error", time.Since(began).Seconds())
				return summary, err
			}
			if applied {
				summary.RegressionsApplied++
				metrics.RecordRegression()
			}
		}

		games, err := p.games.DayGames(ctx, day)
		if err != nil {
			log.Warn().Err(err).
				Str("date", day.Format(models.DateFormat)).
				Msg("Skipping day, slate unavailable")
			metrics.RecordError("processor", "day_fetch")
			summary.DaysSkipped++
			daysProcessed++
			continue
		}

		for i := range games {
			p.processGame(&games[i], day, summary)
		}

		daysProcessed++
		if daysProcessed%checkpointEvery == 0 {
			if err := p.persistProgress(ctx, day, summary.GamesProcessed); err != nil {
				metrics.RecordReplay(mode, "error", time.Since(began).Seconds())
				return summary, err
			}
		}
	}

	if err := p.persistProgress(ctx, end, summary.GamesProcessed); err != nil {
		metrics.RecordReplay(mode, "error", time.Since(began).Seconds())
		return summary, err
	}

	metrics.RecordReplay(mode, "success", time.Since(began).Seconds())
	metrics.UpdateTeamsRated(p.ratings.Len())
	log.Info().
		Int("games", summary.GamesProcessed).
		Float64("avg_margin", summary.AverageMargin()).
		Int("back_to_backs", summary.BackToBacks).
		Int("early_season", summary.EarlySeasonGames).
		Int("mid_season", summary.MidSeasonGames).
		Int("late_season", summary.LateSeasonGames).
		Int("regressions", summary.RegressionsApplied).
		Int("days_skipped", summary.DaysSkipped).
		Bool("resumed", summary.Resumed).
		Msg("Historical replay complete")
	return summary, nil
}

// processGame applies one final result to the ratings. Non-final
// records carry no rating information and are skipped silently.
func (p *HistoricalProcessor) processGame(game *models.Game, day time.Time, summary *ReplaySummary) {
	if game.Home == "" || game.Away == "" || !game.IsFinal() {
		return
	}
	if *game.HomeScore == *game.AwayScore {
		log.Warn().
			Str("home", game.Home).
			Str("away", game.Away).
			Str("date", day.Format(models.DateFormat)).
			Msg("Dropping tied final score, treated as data error")
		metrics.RecordError("processor", "tied_score")
		return
	}

	// Rest bookkeeping reads the cache before this game moves it.
	if d, ok := p.schedule.DaysSince(game.Home, day); ok && d == 1 {
		summary.BackToBacks++
	}
	if d, ok := p.schedule.DaysSince(game.Away, day); ok && d == 1 {
		summary.BackToBacks++
	}

	k := elo.KFactorForMonth(day.Month())
	switch k {
	case elo.KEarly:
		summary.EarlySeasonGames++
	case elo.KLate:
		summary.LateSeasonGames++
	default:
		summary.MidSeasonGames++
	}

	winner, loser := game.Home, game.Away
	if !game.HomeWon() {
		winner, loser = game.Away, game.Home
	}
	newWinner, newLoser := elo.Update(p.ratings.Get(winner), p.ratings.Get(loser), game.PointDiff(), k)
	p.ratings.Set(winner, newWinner)
	p.ratings.Set(loser, newLoser)

	p.schedule.Record(game.Home, day)
	p.schedule.Record(game.Away, day)

	summary.GamesProcessed++
	summary.TotalMargin += game.PointDiff()
	metrics.RecordGameProcessed()
}

// persistProgress writes ratings, schedule cache, and checkpoint in
// that order, so a persisted checkpoint always refers to fully saved
// state.
func (p *HistoricalProcessor) persistProgress(ctx context.Context, day time.Time, gamesProcessed int) error {
	if err := p.ratings.Save(ctx); err != nil {
		return err
	}
	if err := p.schedule.Save(ctx); err != nil {
		return err
	}
	if err := elo.SaveCheckpoint(ctx, p.docs, day, gamesProcessed); err != nil {
		return err
	}
	metrics.RecordCheckpoint(float64(day.Unix()))
	return nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
