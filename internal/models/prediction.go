package models

import "time"

// PlayerImpact pairs a confirmed-out player with the rating impact of
// that absence. Impact is negative; more negative means more severe.
type PlayerImpact struct {
	Player string `json:"player"`
	Impact int    `json:"impact"`
}

// MatchupPrediction is the full read-only output of a single matchup
// query. It is derived fresh on every call and never persisted.
type MatchupPrediction struct {
	Date time.Time `json:"date"`
	Home string    `json:"home"`
	Away string    `json:"away"`

	HomeRating float64 `json:"elo_home"`
	AwayRating float64 `json:"elo_away"`

	HomeRestAdj   float64 `json:"home_rest_adj"`
	AwayRestAdj   float64 `json:"away_rest_adj"`
	HomeInjuryAdj float64 `json:"home_injury_adj"`
	AwayInjuryAdj float64 `json:"away_injury_adj"`

	// Days of rest; nil when the side has no recorded prior game.
	HomeDaysRest *int `json:"home_days_rest,omitempty"`
	AwayDaysRest *int `json:"away_days_rest,omitempty"`

	HomeInjured []PlayerImpact `json:"home_injured_detail,omitempty"`
	AwayInjured []PlayerImpact `json:"away_injured_detail,omitempty"`

	ProbHome        float64 `json:"prob_home"`
	ProbAway        float64 `json:"prob_away"`
	PredictedWinner string  `json:"predicted_winner"`
	KFactor         float64 `json:"k_factor"`
}

// DayEvaluation summarizes prediction accuracy for one slate of games.
// Accuracy and Brier are nil when the date had no final games, so a
// "no games" day is distinguishable from a 0% day.
type DayEvaluation struct {
	Date  time.Time `json:"date"`
	Games int       `json:"games"`

	Accuracy *float64 `json:"accuracy,omitempty"`
	Brier    *float64 `json:"brier,omitempty"`

	BackToBacks    int     `json:"back_to_backs"`
	InjuryImpacted int     `json:"injuries_impact"`
	KFactor        float64 `json:"k_factor"`
}
