package models

import (
	"strings"
	"time"
)

// DateFormat is the ISO calendar date layout used everywhere a date is
// persisted or exchanged with a collaborator.
const DateFormat = "2006-01-02"

// Game represents a single scheduled or played NBA game.
// Home and Away carry internal entity codes (e.g. "BOS", "GSW"),
// pre-normalized by the client layer.
type Game struct {
	Date     time.Time `json:"date"`
	Home     string    `json:"home"`
	Away     string    `json:"away"`
	StartISO string    `json:"start_iso,omitempty"`
	Venue    string    `json:"venue,omitempty"`
	Status   string    `json:"status"`

	// Scores are optional: absent until the provider reports them.
	HomeScore *int `json:"home_score,omitempty"`
	AwayScore *int `json:"away_score,omitempty"`
}

// IsFinal reports whether the game carries rating information: the
// status must indicate completion and both scores must be present.
// Anything else (scheduled, in progress, postponed, missing scores)
// is skipped by the rating engine without error.
func (g *Game) IsFinal() bool {
	return strings.Contains(strings.ToLower(g.Status), "final") &&
		g.HomeScore != nil && g.AwayScore != nil
}

// HomeWon reports whether the home side won. Only meaningful for
// final games.
func (g *Game) HomeWon() bool {
	return g.HomeScore != nil && g.AwayScore != nil && *g.HomeScore > *g.AwayScore
}

// PointDiff returns the absolute margin of victory. Zero is impossible
// for a final NBA game; callers treat it as a data error.
func (g *Game) PointDiff() int {
	if g.HomeScore == nil || g.AwayScore == nil {
		return 0
	}
	diff := *g.HomeScore - *g.AwayScore
	if diff < 0 {
		diff = -diff
	}
	return diff
}
