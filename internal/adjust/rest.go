// Package adjust computes the situational rating deltas layered on top
// of raw team ratings: rest/fatigue and confirmed-absence impact. The
// two signals are computed from disjoint inputs so they compose by
// simple addition without double-counting.
package adjust

// Rest adjustment constants, in rating points.
const (
	// BackToBackPenalty applies to a team playing on zero days of rest.
	BackToBackPenalty = -50.0

	// RestAdvantage applies to a well-rested team (3+ days) facing an
	// opponent on short rest, and only when both sides' rest is known.
	RestAdvantage = 25.0

	restedDays = 3
)

// RestAdjustments returns the home and away rest deltas. A nil day
// count means the team's previous game is unknown (start of a replay);
// the back-to-back penalty still applies to whichever side is known to
// be on a back-to-back, but the rest advantage needs both sides. The
// penalty and the advantage are mutually exclusive for one team: one
// day of rest can never also be three.
func RestAdjustments(homeDays, awayDays *int) (home, away float64) {
	if homeDays != nil && *homeDays == 1 {
		home += BackToBackPenalty
	}
	if awayDays != nil && *awayDays == 1 {
		away += BackToBackPenalty
	}

	if homeDays == nil || awayDays == nil {
		return home, away
	}
	if *homeDays >= restedDays && *awayDays < restedDays {
		home += RestAdvantage
	} else if *awayDays >= restedDays && *homeDays < restedDays {
		away += RestAdvantage
	}
	return home, away
}
