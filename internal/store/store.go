package store

import "context"

// DocumentStore persists named JSON documents: ratings, checkpoints,
// regression history, and per-season tier files. Writes replace the
// whole document atomically.
type DocumentStore interface {
	// Load unmarshals the named document into the target. The bool
	// reports whether the document existed.
	Load(ctx context.Context, name string, into any) (bool, error)

	// Save marshals and writes the named document, replacing any
	// previous contents.
	Save(ctx context.Context, name string, doc any) error

	// Delete removes the named document. Deleting a document that does
	// not exist is not an error.
	Delete(ctx context.Context, name string) error
}

// Canonical document names.
const (
	DocRatings           = "elo_ratings"
	DocScheduleCache     = "schedule_cache"
	DocCheckpoint        = "elo_checkpoint"
	DocRegressionHistory = "elo_regression_history"
)

// TierDoc names the tier document for a season key ("2025_26").
func TierDoc(seasonKey string) string {
	return "player_tiers_" + seasonKey
}
