package tiers

import "nba_model/engine/internal/models"

// Composite score weights. They sum to 1.0 and each component draws on
// a disjoint slice of the stat line.
const (
	weightScoring   = 0.30
	weightEff       = 0.25
	weightImpact    = 0.20
	weightAdvanced  = 0.15
	weightAllAround = 0.10
)

// scoreInput carries the blended per-game values the composite score is
// computed from. Efficiency and true shooting are blended as derived
// values, not re-derived from blended components, so two-season
// averaging matches what each season actually produced.
type scoreInput struct {
	pts       float64
	eff       float64
	plusMinus float64
	minutes   float64
	reb       float64
	ast       float64
	stl       float64
	blk       float64
	ts        float64
	usg       float64
}

func inputFor(line *models.PlayerStatLine) scoreInput {
	return scoreInput{
		pts:       line.Points,
		eff:       line.Efficiency(),
		plusMinus: line.PlusMinus,
		minutes:   line.Minutes,
		reb:       line.Rebounds,
		ast:       line.Assists,
		stl:       line.Steals,
		blk:       line.Blocks,
		ts:        line.TrueShooting(),
		usg:       line.UsageApprox(),
	}
}

// blendWeight is the share the current season carries when a prior
// season is available for the same player.
const blendWeight = 0.7

// blend averages the current season against the prior one, 70/30.
// Usage stays current-season only: it is a per-minute rate whose prior
// value tracks a different role on a possibly different team.
func blend(cur, prev scoreInput) scoreInput {
	mix := func(c, p float64) float64 { return blendWeight*c + (1-blendWeight)*p }
	return scoreInput{
		pts:       mix(cur.pts, prev.pts),
		eff:       mix(cur.eff, prev.eff),
		plusMinus: mix(cur.plusMinus, prev.plusMinus),
		minutes:   mix(cur.minutes, prev.minutes),
		reb:       mix(cur.reb, prev.reb),
		ast:       mix(cur.ast, prev.ast),
		stl:       mix(cur.stl, prev.stl),
		blk:       mix(cur.blk, prev.blk),
		ts:        mix(cur.ts, prev.ts),
		usg:       cur.usg,
	}
}

func compositeScore(in scoreInput) float64 {
	score := weightScoring * in.pts
	score += weightEff * (in.eff / 2.0)
	score += weightImpact * in.plusMinus * (in.minutes / 36.0)
	score += weightAdvanced * (in.ts*100 + in.usg*50)
	score += weightAllAround * (in.reb + in.ast + 2*in.stl + 2*in.blk)
	return score
}

// Score computes the composite importance score for a single season
// stat line, without multi-season blending.
func Score(line *models.PlayerStatLine) float64 {
	return compositeScore(inputFor(line))
}
