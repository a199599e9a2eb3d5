package adjust

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"nba_model/engine/internal/models"
)

func days(n int) *int { return &n }

func TestRestAdjustments(t *testing.T) {
	tests := []struct {
		name       string
		home, away *int
		wantHome   float64
		wantAway   float64
	}{
		{"both rested normally", days(2), days(2), 0, 0},
		{"home back to back", days(1), days(2), BackToBackPenalty, 0},
		{"away back to back", days(2), days(1), 0, BackToBackPenalty},
		{"both back to back", days(1), days(1), BackToBackPenalty, BackToBackPenalty},
		{"home rest advantage", days(4), days(2), RestAdvantage, 0},
		{"away rest advantage", days(2), days(3), 0, RestAdvantage},
		{"both well rested", days(3), days(5), 0, 0},
		{"b2b plus opponent advantage", days(1), days(3), BackToBackPenalty, RestAdvantage},
		{"unknown home", nil, days(4), 0, 0},
		{"unknown away with home b2b", days(1), nil, BackToBackPenalty, 0},
		{"both unknown", nil, nil, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			home, away := RestAdjustments(tc.home, tc.away)
			assert.Equal(t, tc.wantHome, home)
			assert.Equal(t, tc.wantAway, away)
		})
	}
}

func TestRestNeverBothPenalizedAndAdvantaged(t *testing.T) {
	// One day of rest triggers the penalty and can never also qualify
	// for the advantage.
	for opp := 1; opp <= 6; opp++ {
		home, _ := RestAdjustments(days(1), days(opp))
		assert.Equal(t, BackToBackPenalty, home, "opp days %d", opp)
	}
}

type fakeInjuries struct {
	entries []models.InjuryEntry
	err     error
}

func (f *fakeInjuries) DayInjuries(context.Context, time.Time) ([]models.InjuryEntry, error) {
	return f.entries, f.err
}

type fixedImpacts map[string]int

func (f fixedImpacts) ImpactFor(_ context.Context, player string, _ models.Season) int {
	if impact, ok := f[player]; ok {
		return impact
	}
	return models.ImpactBench
}

func TestTeamAdjustmentSumsConfirmedOut(t *testing.T) {
	adjuster := NewInjuryAdjuster(&fakeInjuries{entries: []models.InjuryEntry{
		{Team: "DAL", Player: "Luka Dončić", Status: "Out"},
		{Team: "DAL", Player: "Role Player", Status: "Out"},
		{Team: "DAL", Player: "Day To Day Guy", Status: "Day-To-Day"},
		{Team: "BOS", Player: "Jayson Tatum", Status: "Out"},
	}}, fixedImpacts{
		"Luka Doncic": models.ImpactSuperstar,
		"Role Player": models.ImpactRotation,
	})

	total, detail := adjuster.TeamAdjustment(context.Background(), "DAL", time.Now(), "2025-26")
	assert.Equal(t, float64(models.ImpactSuperstar+models.ImpactRotation), total)
	assert.Len(t, detail, 2)

	// Most severe first, identity-normalized names.
	assert.Equal(t, "Luka Doncic", detail[0].Player)
	assert.Equal(t, models.ImpactSuperstar, detail[0].Impact)
	assert.Equal(t, "Role Player", detail[1].Player)
}

func TestTeamAdjustmentNoData(t *testing.T) {
	adjuster := NewInjuryAdjuster(&fakeInjuries{}, fixedImpacts{})
	total, detail := adjuster.TeamAdjustment(context.Background(), "BOS", time.Now(), "2025-26")
	assert.Zero(t, total)
	assert.Empty(t, detail)
}

func TestTeamAdjustmentFetchErrorIsZero(t *testing.T) {
	adjuster := NewInjuryAdjuster(&fakeInjuries{err: errors.New("provider down")}, fixedImpacts{})
	total, detail := adjuster.TeamAdjustment(context.Background(), "BOS", time.Now(), "2025-26")
	assert.Zero(t, total)
	assert.Empty(t, detail)
}
