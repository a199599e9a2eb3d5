package models

// Tier is the discrete importance bucket a player is assigned to.
// A tier's elo impact is the rating penalty applied to a team when the
// player is confirmed out.
type Tier string

const (
	TierSuperstar Tier = "SUPERSTAR"
	TierStar      Tier = "STAR"
	TierStarter   Tier = "STARTER"
	TierRotation  Tier = "ROTATION"
	TierBench     Tier = "BENCH"
)

// Rank cutoffs for tier assignment. Boundaries are contiguous and
// non-overlapping: every ranked player lands in exactly one tier.
const (
	superstarCutoff = 15
	starCutoff      = 40
	starterCutoff   = 100
	rotationCutoff  = 200
)

// Elo impact per tier, most negative for the most important players.
const (
	ImpactSuperstar = -60
	ImpactStar      = -40
	ImpactStarter   = -25
	ImpactRotation  = -12
	ImpactBench     = -5
)

// TierForRank maps a 1-based rank position to its tier.
func TierForRank(rank int) Tier {
	switch {
	case rank <= superstarCutoff:
		return TierSuperstar
	case rank <= starCutoff:
		return TierStar
	case rank <= starterCutoff:
		return TierStarter
	case rank <= rotationCutoff:
		return TierRotation
	default:
		return TierBench
	}
}

// Impact returns the elo impact constant for the tier.
func (t Tier) Impact() int {
	switch t {
	case TierSuperstar:
		return ImpactSuperstar
	case TierStar:
		return ImpactStar
	case TierStarter:
		return ImpactStarter
	case TierRotation:
		return ImpactRotation
	default:
		return ImpactBench
	}
}

// TierRecord is the persisted classification of a single player for a
// season, keyed by identity-normalized name in the tier document.
type TierRecord struct {
	Tier      Tier    `json:"tier"`
	EloImpact int     `json:"elo_impact"`
	Score     float64 `json:"score"`
	Team      string  `json:"team"`
	PPG       float64 `json:"ppg"`
}
