// Package engine orchestrates the rating model: read-only matchup
// predictions, rating settlement after finals, day-level evaluation,
// and the resumable historical replay that trains ratings from a
// result stream.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"nba_model/engine/internal/adjust"
	"nba_model/engine/internal/elo"
	"nba_model/engine/internal/metrics"
	"nba_model/engine/internal/models"
)

// GameSource supplies one day's slate of games, finals included, with
// team codes already normalized to the internal vocabulary.
type GameSource interface {
	DayGames(ctx context.Context, date time.Time) ([]models.Game, error)
}

// Predictor produces matchup predictions and settles final results
// against the rating store. Predictions never mutate ratings.
type Predictor struct {
	ratings  *elo.Ratings
	schedule *elo.ScheduleCache
	injuries *adjust.InjuryAdjuster
	games    GameSource
}

func NewPredictor(ratings *elo.Ratings, schedule *elo.ScheduleCache, injuries *adjust.InjuryAdjuster, games GameSource) *Predictor {
	return &Predictor{
		ratings:  ratings,
		schedule: schedule,
		injuries: injuries,
		games:    games,
	}
}

// Predict builds a fresh prediction for a single matchup. Ratings,
// schedule cache, and tier tables are read but never written.
func (p *Predictor) Predict(ctx context.Context, home, away string, date time.Time) *models.MatchupPrediction {
	season := models.SeasonForDate(date)

	homeRating := p.ratings.Get(home)
	awayRating := p.ratings.Get(away)

	var homeDays, awayDays *int
	if d, ok := p.schedule.DaysSince(home, date); ok {
		homeDays = &d
	}
	if d, ok := p.schedule.DaysSince(away, date); ok {
		awayDays = &d
	}
	homeRest, awayRest := adjust.RestAdjustments(homeDays, awayDays)

	homeInjury, homeInjured := p.injuries.TeamAdjustment(ctx, home, date, season)
	awayInjury, awayInjured := p.injuries.TeamAdjustment(ctx, away, date, season)

	effHome := homeRating + elo.HomeCourtBonus + homeRest + homeInjury
	effAway := awayRating + awayRest + awayInjury
	probHome := elo.ExpectedProbability(effHome - effAway)

	winner := home
	if probHome < 0.5 {
		winner = away
	}

	metrics.RecordPrediction()
	return &models.MatchupPrediction{
		Date:            date,
		Home:            home,
		Away:            away,
		HomeRating:      homeRating,
		AwayRating:      awayRating,
		HomeRestAdj:     homeRest,
		AwayRestAdj:     awayRest,
		HomeInjuryAdj:   homeInjury,
		AwayInjuryAdj:   awayInjury,
		HomeDaysRest:    homeDays,
		AwayDaysRest:    awayDays,
		HomeInjured:     homeInjured,
		AwayInjured:     awayInjured,
		ProbHome:        probHome,
		ProbAway:        1 - probHome,
		PredictedWinner: winner,
		KFactor:         elo.KFactorForMonth(date.Month()),
	}
}

// PredictDay predicts every game on the date's slate. Before
// predicting, yesterday's slate is folded into the schedule cache so
// back-to-back detection works even without a full historical replay.
func (p *Predictor) PredictDay(ctx context.Context, date time.Time) ([]models.MatchupPrediction, error) {
	p.refreshYesterday(ctx, date)

	games, err := p.games.DayGames(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch games for %s: %w", date.Format(models.DateFormat), err)
	}

	predictions := make([]models.MatchupPrediction, 0, len(games))
	for i := range games {
		predictions = append(predictions, *p.Predict(ctx, games[i].Home, games[i].Away, date))
	}
	return predictions, nil
}

// refreshYesterday records yesterday's slate in the schedule cache.
// Failures are non-fatal: a missing slate just means rest data stays
// as-is for those teams.
func (p *Predictor) refreshYesterday(ctx context.Context, date time.Time) {
	yesterday := date.AddDate(0, 0, -1)
	games, err := p.games.DayGames(ctx, yesterday)
	if err != nil {
		log.Debug().Err(err).
			Str("date", yesterday.Format(models.DateFormat)).
			Msg("Could not refresh schedule cache from yesterday's slate")
		return
	}
	for i := range games {
		p.schedule.Record(games[i].Home, yesterday)
		p.schedule.Record(games[i].Away, yesterday)
	}
	if len(games) > 0 {
		if err := p.schedule.Save(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to persist schedule cache")
		}
	}
}

// ApplyFinalResult settles a final score: the winner takes rating from
// the loser by the margin-scaled update rule, and both teams' last
// game dates advance. Situational bonuses are prediction-time only and
// are not re-applied here.
func (p *Predictor) ApplyFinalResult(ctx context.Context, home, away string, homeScore, awayScore int, date time.Time) error {
	if homeScore == awayScore {
		return fmt.Errorf("tie score %d-%d for %s vs %s: not a valid final", homeScore, awayScore, home, away)
	}

	homeRating := p.ratings.Get(home)
	awayRating := p.ratings.Get(away)
	pointDiff := homeScore - awayScore
	if pointDiff < 0 {
		pointDiff = -pointDiff
	}
	k := elo.KFactorForMonth(date.Month())

	if homeScore > awayScore {
		newHome, newAway := elo.Update(homeRating, awayRating, pointDiff, k)
		p.ratings.Set(home, newHome)
		p.ratings.Set(away, newAway)
	} else {
		newAway, newHome := elo.Update(awayRating, homeRating, pointDiff, k)
		p.ratings.Set(home, newHome)
		p.ratings.Set(away, newAway)
	}

	p.schedule.Record(home, date)
	p.schedule.Record(away, date)

	if err := p.ratings.Save(ctx); err != nil {
		return err
	}
	if err := p.schedule.Save(ctx); err != nil {
		return err
	}

	metrics.RecordGameProcessed()
	metrics.UpdateTeamsRated(p.ratings.Len())
	return nil
}
