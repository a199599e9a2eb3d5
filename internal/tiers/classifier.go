package tiers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"nba_model/engine/internal/metrics"
	"nba_model/engine/internal/models"
	"nba_model/engine/internal/store"
)

// StatsSource supplies per-player per-game season averages, already
// filtered to the given games and minutes floors.
type StatsSource interface {
	PlayerStats(ctx context.Context, season models.Season, minGames int, minMinutes float64) ([]models.PlayerStatLine, error)
}

// Default qualification floors for the current season. The prior season
// uses stricter floors since its data is complete.
const (
	DefaultMinGames   = 5
	DefaultMinMinutes = 10.0

	priorMinGames   = 10
	priorMinMinutes = 15.0
)

// DefaultImpact is returned for any player absent from all tier data.
// Unknown players are assumed bench-level, never an error.
const DefaultImpact = models.ImpactBench

// RankedPlayer is one row of a classification result, in descending
// score order.
type RankedPlayer struct {
	Name  string
	Team  string
	PPG   float64
	Score float64
	Rank  int
	Tier  models.Tier
}

// Classifier builds, persists, and serves per-season tier tables.
// Tables are built lazily: a lookup for a season with no persisted
// table triggers one classify+persist cycle, then reads are served from
// the loaded table until Refresh.
type Classifier struct {
	stats StatsSource
	store store.DocumentStore

	mu     sync.Mutex
	tables map[models.Season]map[string]models.TierRecord
}

func NewClassifier(stats StatsSource, docs store.DocumentStore) *Classifier {
	return &Classifier{
		stats:  stats,
		store:  docs,
		tables: make(map[models.Season]map[string]models.TierRecord),
	}
}

// Classify pulls season stats, optionally blends with the preceding
// season, and returns all qualifying players ranked by composite score.
func (c *Classifier) Classify(ctx context.Context, season models.Season, minGames int, minMinutes float64, blendPrior bool) ([]RankedPlayer, error) {
	current, err := c.stats.PlayerStats(ctx, season, minGames, minMinutes)
	if err != nil {
		metrics.RecordTierBuild("error", 0)
		return nil, fmt.Errorf("failed to fetch stats for %s: %w", season, err)
	}
	if len(current) == 0 {
		metrics.RecordTierBuild("error", 0)
		return nil, fmt.Errorf("no player stats available for %s", season)
	}

	inputs := make(map[string]scoreInput, len(current))
	lines := make(map[string]*models.PlayerStatLine, len(current))
	for i := range current {
		line := &current[i]
		inputs[line.Name] = inputFor(line)
		lines[line.Name] = line
	}

	if blendPrior {
		if err := c.blendPriorSeason(ctx, season, inputs, lines); err != nil {
			log.Warn().Err(err).Str("season", string(season)).
				Msg("Prior season unavailable, classifying on current season only")
		}
	}

	ranked := make([]RankedPlayer, 0, len(inputs))
	for name, in := range inputs {
		line := lines[name]
		ranked = append(ranked, RankedPlayer{
			Name:  name,
			Team:  line.Team,
			PPG:   in.pts,
			Score: compositeScore(in),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Name < ranked[j].Name
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
		ranked[i].Tier = models.TierForRank(i + 1)
	}

	log.Info().
		Str("season", string(season)).
		Int("players", len(ranked)).
		Bool("blended", blendPrior).
		Msg("Classified players into tiers")
	metrics.RecordTierBuild("success", len(ranked))
	return ranked, nil
}

// blendPriorSeason folds the preceding season into the score inputs:
// matched players get a 70/30 weighted average, and players with no
// current-season games yet are carried forward at full prior value.
func (c *Classifier) blendPriorSeason(ctx context.Context, season models.Season, inputs map[string]scoreInput, lines map[string]*models.PlayerStatLine) error {
	prevSeason, err := season.Prev()
	if err != nil {
		return err
	}
	prev, err := c.stats.PlayerStats(ctx, prevSeason, priorMinGames, priorMinMinutes)
	if err != nil {
		return err
	}
	if len(prev) == 0 {
		return fmt.Errorf("no player stats available for %s", prevSeason)
	}

	carried := 0
	for i := range prev {
		line := &prev[i]
		if cur, ok := inputs[line.Name]; ok {
			inputs[line.Name] = blend(cur, inputFor(line))
			continue
		}
		inputs[line.Name] = inputFor(line)
		lines[line.Name] = line
		carried++
	}
	if carried > 0 {
		log.Debug().
			Int("players", carried).
			Str("prev_season", string(prevSeason)).
			Msg("Carried forward players with no current season games")
	}
	return nil
}

// Persist writes the ranked table as the season's tier document, keyed
// by normalized name. When two raw names normalize to the same key the
// higher-scoring record wins; losing a trade-induced duplicate silently
// would misprice injuries, so collisions are logged.
func (c *Classifier) Persist(ctx context.Context, season models.Season, ranked []RankedPlayer) error {
	table := make(map[string]models.TierRecord, len(ranked))
	for _, p := range ranked {
		key := NormalizeName(p.Name)
		if existing, ok := table[key]; ok {
			if p.Score <= existing.Score {
				continue
			}
			log.Warn().
				Str("player", p.Name).
				Float64("kept_score", p.Score).
				Float64("dropped_score", existing.Score).
				Msg("Duplicate normalized name, keeping higher score")
		}
		table[key] = models.TierRecord{
			Tier:      p.Tier,
			EloImpact: p.Tier.Impact(),
			Score:     p.Score,
			Team:      p.Team,
			PPG:       p.PPG,
		}
	}

	if err := c.store.Save(ctx, store.TierDoc(season.Key()), table); err != nil {
		return fmt.Errorf("failed to persist tiers for %s: %w", season, err)
	}

	c.mu.Lock()
	c.tables[season] = table
	c.mu.Unlock()
	return nil
}

// table returns the season's tier table, building it lazily when no
// persisted document exists yet.
func (c *Classifier) table(ctx context.Context, season models.Season) (map[string]models.TierRecord, error) {
	c.mu.Lock()
	if t, ok := c.tables[season]; ok {
		c.mu.Unlock()
		return t, nil
	}
	c.mu.Unlock()

	loaded := make(map[string]models.TierRecord)
	found, err := c.store.Load(ctx, store.TierDoc(season.Key()), &loaded)
	if err != nil {
		return nil, err
	}
	if found {
		// Persisted keys may predate a normalization change; re-key on load.
		normalized := make(map[string]models.TierRecord, len(loaded))
		for name, rec := range loaded {
			key := NormalizeName(name)
			if existing, ok := normalized[key]; ok && rec.Score <= existing.Score {
				continue
			}
			normalized[key] = rec
		}
		c.mu.Lock()
		c.tables[season] = normalized
		c.mu.Unlock()
		return normalized, nil
	}

	log.Info().Str("season", string(season)).Msg("No tier table found, building")
	ranked, err := c.Classify(ctx, season, DefaultMinGames, DefaultMinMinutes, true)
	if err != nil {
		return nil, err
	}
	if err := c.Persist(ctx, season, ranked); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tables[season], nil
}

// ImpactFor returns the elo impact of a confirmed-out player: current
// season table first, then the preceding season, then DefaultImpact.
// The fallback chain never returns an error to the caller.
func (c *Classifier) ImpactFor(ctx context.Context, player string, season models.Season) int {
	key := NormalizeName(player)

	if table, err := c.table(ctx, season); err == nil {
		if rec, ok := table[key]; ok {
			return rec.EloImpact
		}
	} else {
		log.Warn().Err(err).Str("season", string(season)).Msg("Tier table unavailable")
	}

	if prevSeason, err := season.Prev(); err == nil {
		if table, err := c.table(ctx, prevSeason); err == nil {
			if rec, ok := table[key]; ok {
				if rec.EloImpact <= models.ImpactStar {
					log.Debug().
						Str("player", player).
						Str("season", string(prevSeason)).
						Int("impact", rec.EloImpact).
						Msg("Using prior season tier")
				}
				return rec.EloImpact
			}
		}
	}

	return DefaultImpact
}

// TierFor returns the player's assigned tier for the season, if any.
func (c *Classifier) TierFor(ctx context.Context, player string, season models.Season) (models.Tier, bool) {
	table, err := c.table(ctx, season)
	if err != nil {
		return "", false
	}
	rec, ok := table[NormalizeName(player)]
	return rec.Tier, ok
}

// Refresh rebuilds and persists the season's tier table, replacing any
// cached copy.
func (c *Classifier) Refresh(ctx context.Context, season models.Season) error {
	ranked, err := c.Classify(ctx, season, DefaultMinGames, DefaultMinMinutes, true)
	if err != nil {
		return err
	}
	return c.Persist(ctx, season, ranked)
}
