package adjust

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"nba_model/engine/internal/models"
	"nba_model/engine/internal/tiers"
)

// InjurySource supplies the league-wide injury report for a date.
type InjurySource interface {
	DayInjuries(ctx context.Context, date time.Time) ([]models.InjuryEntry, error)
}

// ImpactLookup resolves a player's elo impact for a season. Satisfied
// by *tiers.Classifier.
type ImpactLookup interface {
	ImpactFor(ctx context.Context, player string, season models.Season) int
}

var _ ImpactLookup = (*tiers.Classifier)(nil)

// InjuryAdjuster prices a team's confirmed absences in rating points.
type InjuryAdjuster struct {
	injuries InjurySource
	impacts  ImpactLookup
}

func NewInjuryAdjuster(injuries InjurySource, impacts ImpactLookup) *InjuryAdjuster {
	return &InjuryAdjuster{injuries: injuries, impacts: impacts}
}

// TeamAdjustment sums the elo impact of every player on the team's
// injury report whose status is a confirmed absence. Probable,
// questionable, and day-to-day entries do not move the model. The
// detail list is sorted most severe first. Missing injury data is not
// an error: the adjustment is simply zero.
func (a *InjuryAdjuster) TeamAdjustment(ctx context.Context, team string, date time.Time, season models.Season) (float64, []models.PlayerImpact) {
	entries, err := a.injuries.DayInjuries(ctx, date)
	if err != nil {
		log.Warn().Err(err).
			Str("team", team).
			Str("date", date.Format(models.DateFormat)).
			Msg("Injury report unavailable, assuming no absences")
		return 0, nil
	}

	var total float64
	var detail []models.PlayerImpact
	for i := range entries {
		entry := &entries[i]
		if entry.Team != team || !entry.IsConfirmedOut() {
			continue
		}
		name := tiers.NormalizeName(entry.Player)
		impact := a.impacts.ImpactFor(ctx, name, season)
		total += float64(impact)
		detail = append(detail, models.PlayerImpact{Player: name, Impact: impact})
	}

	sort.SliceStable(detail, func(i, j int) bool {
		return detail[i].Impact < detail[j].Impact
	})
	return total, detail
}
