package client

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"nba_model/engine/internal/models"
)

// DefaultInjuriesURL is ESPN's league-wide NBA injury report endpoint.
const DefaultInjuriesURL = "https://site.api.espn.com/apis/site/v2/sports/basketball/nba/injuries"

// espnTeamName maps ESPN display names to internal codes. The injury
// feed keys teams by display name because ESPN's team IDs are
// inconsistent across endpoints.
var espnTeamName = map[string]string{
	"Atlanta Hawks":          "ATL",
	"Boston Celtics":         "BOS",
	"Brooklyn Nets":          "BKN",
	"Charlotte Hornets":      "CHA",
	"Chicago Bulls":          "CHI",
	"Cleveland Cavaliers":    "CLE",
	"Dallas Mavericks":       "DAL",
	"Denver Nuggets":         "DEN",
	"Detroit Pistons":        "DET",
	"Golden State Warriors":  "GSW",
	"Houston Rockets":        "HOU",
	"Indiana Pacers":         "IND",
	"LA Clippers":            "LAC",
	"Los Angeles Lakers":     "LAL",
	"Memphis Grizzlies":      "MEM",
	"Miami Heat":             "MIA",
	"Milwaukee Bucks":        "MIL",
	"Minnesota Timberwolves": "MIN",
	"New Orleans Pelicans":   "NOP",
	"New York Knicks":        "NYK",
	"Oklahoma City Thunder":  "OKC",
	"Orlando Magic":          "ORL",
	"Philadelphia 76ers":     "PHI",
	"Phoenix Suns":           "PHX",
	"Portland Trail Blazers": "POR",
	"Sacramento Kings":       "SAC",
	"San Antonio Spurs":      "SAS",
	"Toronto Raptors":        "TOR",
	"Utah Jazz":              "UTA",
	"Washington Wizards":     "WAS",
}

func teamCodeForName(name string) string {
	if code, ok := espnTeamName[name]; ok {
		return code
	}
	// Partial match fallback for renamed or relocated franchises.
	lower := strings.ToLower(name)
	for fullName, code := range espnTeamName {
		full := strings.ToLower(fullName)
		if strings.Contains(full, lower) || strings.Contains(lower, full) {
			return code
		}
	}
	return name
}

type injuriesResponse struct {
	Injuries []struct {
		DisplayName string `json:"displayName"`
		Injuries    []struct {
			Status  string `json:"status"`
			Athlete struct {
				DisplayName string `json:"displayName"`
			} `json:"athlete"`
			ShortComment string `json:"shortComment"`
			LongComment  string `json:"longComment"`
		} `json:"injuries"`
	} `json:"injuries"`
}

// DayInjuries returns the injury report filtered to teams playing on
// the given date. The ESPN feed is league-wide and current-only, so
// the date scopes which teams matter, not the report's content.
func (c *Client) DayInjuries(ctx context.Context, date time.Time) ([]models.InjuryEntry, error) {
	games, err := c.DayGames(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, nil
	}
	playing := make(map[string]struct{}, len(games)*2)
	for i := range games {
		playing[games[i].Home] = struct{}{}
		playing[games[i].Away] = struct{}{}
	}

	baseURL := c.injuriesURL
	if baseURL == "" {
		baseURL = DefaultInjuriesURL
	}
	var resp injuriesResponse
	if err := c.getJSON(ctx, "injuries", baseURL, nil, &resp); err != nil {
		return nil, err
	}

	var entries []models.InjuryEntry
	for _, teamBloc := range resp.Injuries {
		code := teamCodeForName(teamBloc.DisplayName)
		if _, ok := playing[code]; !ok {
			continue
		}
		for _, injury := range teamBloc.Injuries {
			note := injury.ShortComment
			if note == "" {
				note = injury.LongComment
			}
			entries = append(entries, models.InjuryEntry{
				Team:   code,
				Player: injury.Athlete.DisplayName,
				Status: injury.Status,
				Note:   note,
			})
		}
	}

	log.Debug().
		Str("date", date.Format(models.DateFormat)).
		Int("teams_playing", len(playing)).
		Int("entries", len(entries)).
		Msg("Fetched injury report")
	return entries, nil
}
