package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"nba_model/engine/internal/elo"
	"nba_model/engine/internal/metrics"
	"nba_model/engine/internal/models"
)

// Evaluate scores the model's predictions against a date's final
// results: winner accuracy and Brier score over final games only. A
// date with no final games returns an explicit zero-game result with
// nil accuracy and Brier, never a division by zero.
func (p *Predictor) Evaluate(ctx context.Context, date time.Time) (*models.DayEvaluation, error) {
	eval := &models.DayEvaluation{
		Date:    date,
		KFactor: elo.KFactorForMonth(date.Month()),
	}

	games, err := p.games.DayGames(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch games for %s: %w", date.Format(models.DateFormat), err)
	}
	if len(games) == 0 {
		return eval, nil
	}

	p.refreshYesterday(ctx, date)

	var correct int
	var brierSum float64
	for i := range games {
		game := &games[i]
		if !game.IsFinal() {
			continue
		}

		pred := p.Predict(ctx, game.Home, game.Away, date)
		eval.Games++

		outcome := 0.0
		if game.HomeWon() {
			outcome = 1.0
		}
		predictedHome := pred.PredictedWinner == game.Home
		if (predictedHome && outcome == 1) || (!predictedHome && outcome == 0) {
			correct++
		}
		brierSum += (pred.ProbHome - outcome) * (pred.ProbHome - outcome)

		if (pred.HomeDaysRest != nil && *pred.HomeDaysRest == 1) ||
			(pred.AwayDaysRest != nil && *pred.AwayDaysRest == 1) {
			eval.BackToBacks++
		}
		if pred.HomeInjuryAdj != 0 || pred.AwayInjuryAdj != 0 {
			eval.InjuryImpacted++
		}
	}

	if eval.Games == 0 {
		return eval, nil
	}

	accuracy := float64(correct) / float64(eval.Games)
	brier := brierSum / float64(eval.Games)
	eval.Accuracy = &accuracy
	eval.Brier = &brier

	metrics.RecordEvaluation(accuracy, brier)
	log.Info().
		Str("date", date.Format(models.DateFormat)).
		Int("games", eval.Games).
		Float64("accuracy", accuracy).
		Float64("brier", brier).
		Msg("Evaluated day")
	return eval, nil
}
