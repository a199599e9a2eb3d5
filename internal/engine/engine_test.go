package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba_model/engine/internal/adjust"
	"nba_model/engine/internal/elo"
	"nba_model/engine/internal/models"
	"nba_model/engine/internal/store"
)

type fakeGames struct {
	byDay   map[string][]models.Game
	errDays map[string]error
}

func (f *fakeGames) DayGames(_ context.Context, date time.Time) ([]models.Game, error) {
	key := date.Format(models.DateFormat)
	if err, ok := f.errDays[key]; ok {
		return nil, err
	}
	return f.byDay[key], nil
}

type fakeInjuries struct {
	entries []models.InjuryEntry
}

func (f *fakeInjuries) DayInjuries(context.Context, time.Time) ([]models.InjuryEntry, error) {
	return f.entries, nil
}

type fixedImpacts map[string]int

func (f fixedImpacts) ImpactFor(_ context.Context, player string, _ models.Season) int {
	if impact, ok := f[player]; ok {
		return impact
	}
	return models.ImpactBench
}

func day(s string) time.Time {
	d, err := time.Parse(models.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

func final(home, away string, hs, as int) models.Game {
	return models.Game{Home: home, Away: away, Status: "Final", HomeScore: &hs, AwayScore: &as}
}

type harness struct {
	docs      store.DocumentStore
	ratings   *elo.Ratings
	schedule  *elo.ScheduleCache
	predictor *Predictor
	processor *HistoricalProcessor
}

func newHarness(t *testing.T, docs store.DocumentStore, games GameSource, injuries adjust.InjurySource, impacts adjust.ImpactLookup) *harness {
	t.Helper()
	ctx := context.Background()

	ratings, err := elo.LoadRatings(ctx, docs)
	require.NoError(t, err)
	schedule, err := elo.LoadScheduleCache(ctx, docs)
	require.NoError(t, err)

	if injuries == nil {
		injuries = &fakeInjuries{}
	}
	if impacts == nil {
		impacts = fixedImpacts{}
	}
	adjuster := adjust.NewInjuryAdjuster(injuries, impacts)

	return &harness{
		docs:      docs,
		ratings:   ratings,
		schedule:  schedule,
		predictor: NewPredictor(ratings, schedule, adjuster, games),
		processor: NewHistoricalProcessor(games, docs, ratings, schedule),
	}
}

func newFileDocs(t *testing.T) store.DocumentStore {
	t.Helper()
	docs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return docs
}

func TestPredictEvenMatchupFavorsHomeCourt(t *testing.T) {
	h := newHarness(t, newFileDocs(t), &fakeGames{}, nil, nil)

	pred := h.predictor.Predict(context.Background(), "BOS", "LAL", day("2025-01-15"))
	assert.InDelta(t, elo.ExpectedProbability(elo.HomeCourtBonus), pred.ProbHome, 1e-9)
	assert.Equal(t, "BOS", pred.PredictedWinner)
	assert.InDelta(t, 1.0, pred.ProbHome+pred.ProbAway, 1e-9)
	assert.Equal(t, elo.KMid, pred.KFactor)
	assert.Zero(t, pred.HomeRestAdj)
	assert.Nil(t, pred.HomeDaysRest)
}

func TestPredictAppliesRestAndInjuries(t *testing.T) {
	h := newHarness(t, newFileDocs(t), &fakeGames{},
		&fakeInjuries{entries: []models.InjuryEntry{
			{Team: "BOS", Player: "Jayson Tatum", Status: "Out"},
		}},
		fixedImpacts{"Jayson Tatum": models.ImpactSuperstar},
	)

	// Home on a back-to-back, away rested four days.
	h.schedule.Record("BOS", day("2025-01-14"))
	h.schedule.Record("LAL", day("2025-01-11"))

	pred := h.predictor.Predict(context.Background(), "BOS", "LAL", day("2025-01-15"))
	assert.Equal(t, adjust.BackToBackPenalty, pred.HomeRestAdj)
	assert.Equal(t, adjust.RestAdvantage, pred.AwayRestAdj)
	assert.Equal(t, float64(models.ImpactSuperstar), pred.HomeInjuryAdj)
	assert.Zero(t, pred.AwayInjuryAdj)
	require.NotNil(t, pred.HomeDaysRest)
	assert.Equal(t, 1, *pred.HomeDaysRest)
	require.Len(t, pred.HomeInjured, 1)
	assert.Equal(t, "Jayson Tatum", pred.HomeInjured[0].Player)

	// Stacked penalties flip an otherwise home-favored matchup.
	assert.Less(t, pred.ProbHome, 0.5)
	assert.Equal(t, "LAL", pred.PredictedWinner)
}

func TestPredictDayRefreshesYesterday(t *testing.T) {
	games := &fakeGames{byDay: map[string][]models.Game{
		"2025-01-14": {final("BOS", "NYK", 100, 90)},
		"2025-01-15": {{Home: "BOS", Away: "LAL", Status: "7:00 PM ET"}},
	}}
	h := newHarness(t, newFileDocs(t), games, nil, nil)

	preds, err := h.predictor.PredictDay(context.Background(), day("2025-01-15"))
	require.NoError(t, err)
	require.Len(t, preds, 1)

	// Yesterday's slate put BOS on a back-to-back.
	require.NotNil(t, preds[0].HomeDaysRest)
	assert.Equal(t, 1, *preds[0].HomeDaysRest)
	assert.Equal(t, adjust.BackToBackPenalty, preds[0].HomeRestAdj)
}

func TestApplyFinalResultZeroSumAndPersisted(t *testing.T) {
	docs := newFileDocs(t)
	h := newHarness(t, docs, &fakeGames{}, nil, nil)
	ctx := context.Background()

	require.NoError(t, h.predictor.ApplyFinalResult(ctx, "BOS", "LAL", 110, 90, day("2025-01-15")))

	bos := h.ratings.Get("BOS")
	lal := h.ratings.Get("LAL")
	assert.Greater(t, bos, elo.StartRating)
	assert.Less(t, lal, elo.StartRating)
	assert.InDelta(t, 2*elo.StartRating, bos+lal, 1e-9)

	// Both rating table and schedule cache were saved.
	reloaded := newHarness(t, docs, &fakeGames{}, nil, nil)
	assert.InDelta(t, bos, reloaded.ratings.Get("BOS"), 1e-9)
	days, known := reloaded.schedule.DaysSince("LAL", day("2025-01-16"))
	assert.True(t, known)
	assert.Equal(t, 1, days)
}

func TestApplyFinalResultRejectsTie(t *testing.T) {
	h := newHarness(t, newFileDocs(t), &fakeGames{}, nil, nil)
	err := h.predictor.ApplyFinalResult(context.Background(), "BOS", "LAL", 100, 100, day("2025-01-15"))
	assert.Error(t, err)
	assert.Equal(t, elo.StartRating, h.ratings.Get("BOS"))
}

func replayGames() *fakeGames {
	return &fakeGames{byDay: map[string][]models.Game{
		"2025-01-10": {final("BOS", "NYK", 112, 98), final("LAL", "GSW", 105, 110)},
		"2025-01-11": {final("BOS", "LAL", 101, 99)},
		"2025-01-13": {final("GSW", "NYK", 120, 100), {Home: "BOS", Away: "LAL", Status: "Postponed"}},
		"2025-01-15": {final("NYK", "LAL", 95, 102)},
	}}
}

func TestRunFullReplayIdempotent(t *testing.T) {
	ctx := context.Background()
	docs := newFileDocs(t)
	h := newHarness(t, docs, replayGames(), nil, nil)

	first, err := h.processor.Run(ctx, day("2025-01-10"), day("2025-01-15"), true)
	require.NoError(t, err)
	assert.Equal(t, 5, first.GamesProcessed)
	ratingsAfterFirst := h.ratings.Snapshot()

	second, err := h.processor.Run(ctx, day("2025-01-10"), day("2025-01-15"), true)
	require.NoError(t, err)
	assert.Equal(t, first.GamesProcessed, second.GamesProcessed)
	assert.Equal(t, ratingsAfterFirst, h.ratings.Snapshot())
}

func TestRunResumable(t *testing.T) {
	ctx := context.Background()

	// One uninterrupted full run.
	fullDocs := newFileDocs(t)
	full := newHarness(t, fullDocs, replayGames(), nil, nil)
	_, err := full.processor.Run(ctx, day("2025-01-10"), day("2025-01-15"), true)
	require.NoError(t, err)

	// Same range split across an interruption, with fresh components
	// reloaded from the store as a restart would.
	splitDocs := newFileDocs(t)
	part1 := newHarness(t, splitDocs, replayGames(), nil, nil)
	_, err = part1.processor.Run(ctx, day("2025-01-10"), day("2025-01-12"), true)
	require.NoError(t, err)

	part2 := newHarness(t, splitDocs, replayGames(), nil, nil)
	summary, err := part2.processor.Run(ctx, day("2025-01-10"), day("2025-01-15"), false)
	require.NoError(t, err)
	assert.True(t, summary.Resumed)
	assert.Equal(t, "2025-01-13", summary.Start.Format(models.DateFormat))

	assert.Equal(t, full.ratings.Snapshot(), part2.ratings.Snapshot())
}

func TestRunCheckpointAtEndIsNoOp(t *testing.T) {
	ctx := context.Background()
	docs := newFileDocs(t)
	h := newHarness(t, docs, replayGames(), nil, nil)

	_, err := h.processor.Run(ctx, day("2025-01-10"), day("2025-01-15"), true)
	require.NoError(t, err)
	before := h.ratings.Snapshot()

	summary, err := h.processor.Run(ctx, day("2025-01-10"), day("2025-01-15"), false)
	require.NoError(t, err)
	assert.Zero(t, summary.GamesProcessed)
	assert.Equal(t, before, h.ratings.Snapshot())
}

func TestRunRejectsInvertedRange(t *testing.T) {
	h := newHarness(t, newFileDocs(t), replayGames(), nil, nil)
	_, err := h.processor.Run(context.Background(), day("2025-01-15"), day("2025-01-10"), true)
	assert.Error(t, err)
	// Fatal before any mutation.
	assert.Equal(t, 0, h.ratings.Len())
}

func TestRunSkipsUnfetchableDays(t *testing.T) {
	games := replayGames()
	games.errDays = map[string]error{"2025-01-11": errors.New("provider timeout")}
	h := newHarness(t, newFileDocs(t), games, nil, nil)

	summary, err := h.processor.Run(context.Background(), day("2025-01-10"), day("2025-01-15"), true)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.DaysSkipped)
	assert.Equal(t, 4, summary.GamesProcessed)
}

func TestRunAppliesRegressionOnceAtSeasonStart(t *testing.T) {
	ctx := context.Background()
	docs := newFileDocs(t)
	games := &fakeGames{byDay: map[string][]models.Game{
		"2025-09-30": {final("BOS", "NYK", 130, 100)},
		"2025-10-02": {final("BOS", "NYK", 100, 101)},
	}}
	h := newHarness(t, docs, games, nil, nil)

	summary, err := h.processor.Run(ctx, day("2025-09-29"), day("2025-10-03"), true)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.RegressionsApplied)

	// A forced rerun across the same boundary must not regress again:
	// the regression history outlives the rating wipe.
	h2 := newHarness(t, docs, games, nil, nil)
	summary, err = h2.processor.Run(ctx, day("2025-09-29"), day("2025-10-03"), true)
	require.NoError(t, err)
	assert.Zero(t, summary.RegressionsApplied)
}

func TestRunAppliesRegressionStartingMidOctober(t *testing.T) {
	// A replay that begins after October 1st still owes that season's
	// regression.
	games := &fakeGames{byDay: map[string][]models.Game{
		"2025-10-20": {final("BOS", "NYK", 110, 100)},
	}}
	h := newHarness(t, newFileDocs(t), games, nil, nil)

	summary, err := h.processor.Run(context.Background(), day("2025-10-18"), day("2025-10-21"), true)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.RegressionsApplied)
}

func TestRunCountsScheduleBands(t *testing.T) {
	games := &fakeGames{byDay: map[string][]models.Game{
		"2025-10-25": {final("BOS", "NYK", 110, 100)},
		"2025-10-26": {final("BOS", "GSW", 99, 104)},
	}}
	h := newHarness(t, newFileDocs(t), games, nil, nil)

	summary, err := h.processor.Run(context.Background(), day("2025-10-25"), day("2025-10-26"), true)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.EarlySeasonGames)
	assert.Equal(t, 1, summary.BackToBacks, "BOS played consecutive days")
}

func TestEvaluateNoGames(t *testing.T) {
	h := newHarness(t, newFileDocs(t), &fakeGames{}, nil, nil)
	eval, err := h.predictor.Evaluate(context.Background(), day("2025-07-04"))
	require.NoError(t, err)
	assert.Zero(t, eval.Games)
	assert.Nil(t, eval.Accuracy)
	assert.Nil(t, eval.Brier)
}

func TestEvaluateScoresFinals(t *testing.T) {
	games := &fakeGames{byDay: map[string][]models.Game{
		"2025-01-15": {
			final("BOS", "LAL", 120, 100),
			final("NYK", "GSW", 90, 95),
			{Home: "DEN", Away: "OKC", Status: "7:00 PM ET"},
		},
	}}
	h := newHarness(t, newFileDocs(t), games, nil, nil)

	eval, err := h.predictor.Evaluate(context.Background(), day("2025-01-15"))
	require.NoError(t, err)
	assert.Equal(t, 2, eval.Games, "scheduled game is not evaluated")
	require.NotNil(t, eval.Accuracy)
	require.NotNil(t, eval.Brier)

	// Even ratings predict both home sides; one home side won.
	assert.InDelta(t, 0.5, *eval.Accuracy, 1e-9)
	assert.Greater(t, *eval.Brier, 0.0)
	assert.LessOrEqual(t, *eval.Brier, 1.0)
	assert.Equal(t, elo.KMid, eval.KFactor)
}
