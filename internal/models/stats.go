package models

// PlayerStatLine holds one player's per-game averages for a season,
// as returned by the league stats collaborator.
type PlayerStatLine struct {
	Name string `json:"PLAYER_NAME"`
	Team string `json:"TEAM_ABBREVIATION"`

	GamesPlayed int     `json:"GP"`
	Minutes     float64 `json:"MIN"`
	Points      float64 `json:"PTS"`
	Rebounds    float64 `json:"REB"`
	Assists     float64 `json:"AST"`
	Steals      float64 `json:"STL"`
	Blocks      float64 `json:"BLK"`
	Turnovers   float64 `json:"TOV"`
	PlusMinus   float64 `json:"PLUS_MINUS"`

	FGMade      float64 `json:"FGM"`
	FGAttempted float64 `json:"FGA"`
	FTMade      float64 `json:"FTM"`
	FTAttempted float64 `json:"FTA"`
}

// TrueShooting returns the true shooting percentage: points per two
// true shot attempts (field goals plus 0.44 weighted free throws).
func (p *PlayerStatLine) TrueShooting() float64 {
	tsa := 2 * (p.FGAttempted + 0.44*p.FTAttempted)
	if tsa == 0 {
		return 0
	}
	return p.Points / tsa
}

// Efficiency returns the classic NBA efficiency rating: positive box
// score contributions minus missed shots and turnovers.
func (p *PlayerStatLine) Efficiency() float64 {
	return p.Points + p.Rebounds + p.Assists + p.Steals + p.Blocks -
		(p.FGAttempted - p.FGMade) -
		(p.FTAttempted - p.FTMade) -
		p.Turnovers
}

// UsageApprox returns a simplified usage proxy: true shot attempts plus
// turnovers per minute played.
func (p *PlayerStatLine) UsageApprox() float64 {
	if p.Minutes == 0 {
		return 0
	}
	return (p.FGAttempted + 0.44*p.FTAttempted + p.Turnovers) / p.Minutes
}
