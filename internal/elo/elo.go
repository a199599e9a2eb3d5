// Package elo implements the team rating model: logistic expected
// probabilities, schedule-phase K-factors, margin-of-victory scaling,
// and zero-sum rating updates, plus the persistence around them
// (checkpoints and annual season regression).
package elo

import (
	"math"
	"time"
)

const (
	// StartRating is assigned to any team seen for the first time.
	StartRating = 1500.0

	// K-factors by schedule phase. Early-season results move ratings
	// the most while the field is still unsettled.
	KEarly = 30.0
	KMid   = 20.0
	KLate  = 15.0

	// HomeCourtBonus is added to the home side's effective rating.
	HomeCourtBonus = 60.0
)

// ExpectedProbability returns the win probability for the side whose
// effective rating advantage is diff (own minus opponent).
func ExpectedProbability(diff float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, -diff/400.0))
}

// KFactorForMonth picks the update magnitude by schedule phase:
// October-December early season, January-March mid season, April-June
// playoffs and late season. Out-of-season months fall back to mid.
func KFactorForMonth(month time.Month) float64 {
	switch {
	case month >= time.October && month <= time.December:
		return KEarly
	case month >= time.April && month <= time.June:
		return KLate
	default:
		return KMid
	}
}

// MOVMultiplier scales an update by margin of victory, damped when the
// winner was already rated well above the loser so expected blowouts
// move ratings less than upsets. winnerDiff is the winner's rating
// minus the loser's, signed.
func MOVMultiplier(pointDiff int, winnerDiff float64) float64 {
	margin := math.Abs(float64(pointDiff))
	return math.Log(margin+1.0) * (2.2 / (winnerDiff*0.001 + 2.2))
}

// Update computes new ratings after a final game. Ratings are exchanged
// zero-sum: the winner gains exactly what the loser drops.
func Update(winner, loser float64, pointDiff int, k float64) (newWinner, newLoser float64) {
	expected := ExpectedProbability(winner - loser)
	shift := k * MOVMultiplier(pointDiff, winner-loser) * (1.0 - expected)
	return winner + shift, loser - shift
}
