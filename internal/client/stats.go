package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"nba_model/engine/internal/models"
)

// DefaultStatsURL is the NBA stats league-wide player dashboard.
const DefaultStatsURL = "https://stats.nba.com/stats/leaguedashplayerstats"

// statsHeaders are required by the NBA stats API; requests without a
// browser-like identity are rejected.
var statsHeaders = map[string]string{
	"User-Agent":         "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	"Referer":            "https://www.nba.com/",
	"Origin":             "https://www.nba.com",
	"x-nba-stats-origin": "stats",
	"x-nba-stats-token":  "true",
}

type statsResponse struct {
	ResultSets []struct {
		Name    string   `json:"name"`
		Headers []string `json:"headers"`
		RowSet  [][]any  `json:"rowSet"`
	} `json:"resultSets"`
}

// PlayerStats fetches league-wide per-game averages for a season,
// filtered to players meeting the games and minutes floors.
func (c *Client) PlayerStats(ctx context.Context, season models.Season, minGames int, minMinutes float64) ([]models.PlayerStatLine, error) {
	baseURL := c.statsURL
	if baseURL == "" {
		baseURL = DefaultStatsURL
	}
	url := fmt.Sprintf(
		"%s?Season=%s&SeasonType=Regular%%20Season&PerMode=PerGame&MeasureType=Base&LeagueID=00",
		baseURL, season)

	var resp statsResponse
	if err := c.getJSON(ctx, "player_stats", url, statsHeaders, &resp); err != nil {
		return nil, err
	}
	if len(resp.ResultSets) == 0 {
		return nil, fmt.Errorf("player stats response for %s has no result sets", season)
	}

	set := resp.ResultSets[0]
	col := make(map[string]int, len(set.Headers))
	for i, header := range set.Headers {
		col[header] = i
	}
	for _, required := range []string{"PLAYER_NAME", "GP", "MIN", "PTS"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("player stats response missing column %s", required)
		}
	}

	lines := make([]models.PlayerStatLine, 0, len(set.RowSet))
	for _, row := range set.RowSet {
		line := models.PlayerStatLine{
			Name:        cellString(row, col, "PLAYER_NAME"),
			Team:        cellString(row, col, "TEAM_ABBREVIATION"),
			GamesPlayed: int(cellFloat(row, col, "GP")),
			Minutes:     cellFloat(row, col, "MIN"),
			Points:      cellFloat(row, col, "PTS"),
			Rebounds:    cellFloat(row, col, "REB"),
			Assists:     cellFloat(row, col, "AST"),
			Steals:      cellFloat(row, col, "STL"),
			Blocks:      cellFloat(row, col, "BLK"),
			Turnovers:   cellFloat(row, col, "TOV"),
			PlusMinus:   cellFloat(row, col, "PLUS_MINUS"),
			FGMade:      cellFloat(row, col, "FGM"),
			FGAttempted: cellFloat(row, col, "FGA"),
			FTMade:      cellFloat(row, col, "FTM"),
			FTAttempted: cellFloat(row, col, "FTA"),
		}
		if line.Name == "" || line.GamesPlayed < minGames || line.Minutes < minMinutes {
			continue
		}
		lines = append(lines, line)
	}

	log.Debug().
		Str("season", string(season)).
		Int("players", len(lines)).
		Msg("Fetched player stats")
	return lines, nil
}

func cellString(row []any, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	s, _ := row[i].(string)
	return s
}

func cellFloat(row []any, col map[string]int, name string) float64 {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return 0
	}
	switch v := row[i].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
