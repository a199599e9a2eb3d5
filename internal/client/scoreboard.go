package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"nba_model/engine/internal/models"
)

// DefaultScoreboardURL is ESPN's public NBA scoreboard endpoint.
const DefaultScoreboardURL = "https://site.api.espn.com/apis/site/v2/sports/basketball/nba/scoreboard"

// espnAbbr maps the ESPN abbreviations that differ from the internal
// vocabulary. Anything not listed passes through unchanged.
var espnAbbr = map[string]string{
	"SA":   "SAS",
	"GS":   "GSW",
	"NO":   "NOP",
	"NY":   "NYK",
	"UTAH": "UTA",
	"WSH":  "WAS",
}

func normalizeAbbr(abbr string) string {
	if internal, ok := espnAbbr[abbr]; ok {
		return internal
	}
	return abbr
}

type scoreboardResponse struct {
	Events []struct {
		Date         string `json:"date"`
		Competitions []struct {
			Competitors []struct {
				HomeAway string `json:"homeAway"`
				Score    string `json:"score"`
				Team     struct {
					Abbreviation string `json:"abbreviation"`
				} `json:"team"`
			} `json:"competitors"`
			Status struct {
				Type struct {
					Description string `json:"description"`
				} `json:"type"`
			} `json:"status"`
			Venue struct {
				FullName string `json:"fullName"`
			} `json:"venue"`
		} `json:"competitions"`
	} `json:"events"`
}

// DayGames fetches the slate for a calendar date, with team codes
// normalized to the internal vocabulary and scores present only when
// the provider reports them.
func (c *Client) DayGames(ctx context.Context, date time.Time) ([]models.Game, error) {
	baseURL := c.scoreboardURL
	if baseURL == "" {
		baseURL = DefaultScoreboardURL
	}
	url := fmt.Sprintf("%s?dates=%s", baseURL, date.Format("20060102"))

	var resp scoreboardResponse
	if err := c.getJSON(ctx, "scoreboard", url, nil, &resp); err != nil {
		return nil, err
	}

	games := make([]models.Game, 0, len(resp.Events))
	for _, event := range resp.Events {
		if len(event.Competitions) == 0 {
			continue
		}
		comp := event.Competitions[0]
		if len(comp.Competitors) != 2 {
			continue
		}

		game := models.Game{
			Date:     date,
			StartISO: event.Date,
			Status:   comp.Status.Type.Description,
			Venue:    comp.Venue.FullName,
		}
		for _, side := range comp.Competitors {
			abbr := normalizeAbbr(side.Team.Abbreviation)
			score := parseScore(side.Score)
			if side.HomeAway == "home" {
				game.Home = abbr
				game.HomeScore = score
			} else {
				game.Away = abbr
				game.AwayScore = score
			}
		}
		if game.Home == "" || game.Away == "" {
			continue
		}
		games = append(games, game)
	}
	return games, nil
}

// parseScore converts the provider's string score. ESPN sends "0" for
// unplayed games; that still parses, and the status check in
// Game.IsFinal is what gates rating updates.
func parseScore(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	score, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &score
}
