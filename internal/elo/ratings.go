package elo

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"nba_model/engine/internal/store"
)

// Ratings holds the current rating for every team seen so far, backed
// by a document store. Safe for concurrent use.
type Ratings struct {
	mu     sync.RWMutex
	store  store.DocumentStore
	byTeam map[string]float64
}

// LoadRatings reads the persisted rating table, starting empty when no
// document exists yet.
func LoadRatings(ctx context.Context, s store.DocumentStore) (*Ratings, error) {
	r := &Ratings{store: s, byTeam: make(map[string]float64)}
	found, err := s.Load(ctx, store.DocRatings, &r.byTeam)
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}
	if found {
		log.Info().Int("teams", len(r.byTeam)).Msg("Loaded Elo ratings")
	} else {
		log.Info().Msg("No saved Elo ratings, starting fresh")
	}
	return r, nil
}

// Get returns the team's rating, assigning StartRating to teams seen
// for the first time.
func (r *Ratings) Get(team string) float64 {
	r.mu.RLock()
	rating, ok := r.byTeam[team]
	r.mu.RUnlock()
	if ok {
		return rating
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if rating, ok := r.byTeam[team]; ok {
		return rating
	}
	r.byTeam[team] = StartRating
	return StartRating
}

// Set overwrites the team's rating.
func (r *Ratings) Set(team string, rating float64) {
	r.mu.Lock()
	r.byTeam[team] = rating
	r.mu.Unlock()
}

// Snapshot returns a copy of the full rating table.
func (r *Ratings) Snapshot() map[string]float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]float64, len(r.byTeam))
	for team, rating := range r.byTeam {
		out[team] = rating
	}
	return out
}

// Len reports how many teams have ratings.
func (r *Ratings) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byTeam)
}

// Reset discards all ratings, in memory and in the store.
func (r *Ratings) Reset(ctx context.Context) error {
	r.mu.Lock()
	r.byTeam = make(map[string]float64)
	r.mu.Unlock()
	if err := r.store.Delete(ctx, store.DocRatings); err != nil {
		return fmt.Errorf("failed to reset ratings: %w", err)
	}
	return nil
}

// Save persists the current rating table.
func (r *Ratings) Save(ctx context.Context) error {
	snapshot := r.Snapshot()
	if err := r.store.Save(ctx, store.DocRatings, snapshot); err != nil {
		return fmt.Errorf("failed to save ratings: %w", err)
	}
	return nil
}
