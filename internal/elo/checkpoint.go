package elo

import (
	"context"
	"fmt"
	"time"

	"nba_model/engine/internal/models"
	"nba_model/engine/internal/store"
)

// Checkpoint records where a historical replay left off so a restart
// resumes from the next unprocessed day instead of the beginning.
type Checkpoint struct {
	LastProcessedDate string `json:"last_processed_date"`
	GamesProcessed    int    `json:"games_processed"`
	UpdatedAt         string `json:"updated_at"`
}

// Date parses the checkpoint's last processed day.
func (c *Checkpoint) Date() (time.Time, error) {
	return time.Parse(models.DateFormat, c.LastProcessedDate)
}

// LoadCheckpoint reads the replay checkpoint. The bool reports whether
// one exists.
func LoadCheckpoint(ctx context.Context, s store.DocumentStore) (*Checkpoint, bool, error) {
	var cp Checkpoint
	found, err := s.Load(ctx, store.DocCheckpoint, &cp)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if !found {
		return nil, false, nil
	}
	return &cp, true, nil
}

// SaveCheckpoint persists replay progress through the given day.
func SaveCheckpoint(ctx context.Context, s store.DocumentStore, date time.Time, gamesProcessed int) error {
	cp := Checkpoint{
		LastProcessedDate: date.Format(models.DateFormat),
		GamesProcessed:    gamesProcessed,
		UpdatedAt:         time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Save(ctx, store.DocCheckpoint, &cp); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

// ClearCheckpoint removes the replay checkpoint, forcing the next run
// to start from scratch.
func ClearCheckpoint(ctx context.Context, s store.DocumentStore) error {
	if err := s.Delete(ctx, store.DocCheckpoint); err != nil {
		return fmt.Errorf("failed to clear checkpoint: %w", err)
	}
	return nil
}
