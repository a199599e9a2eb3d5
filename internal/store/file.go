package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"nba_model/engine/internal/metrics"
)

// FileStore keeps each document as a pretty-printed JSON file under a
// single data directory. Saves write to a temp file and rename into
// place so a crash mid-write never leaves a partial document.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *FileStore) Load(_ context.Context, name string, into any) (bool, error) {
	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		metrics.RecordStoreOp("file", "load", "miss")
		return false, nil
	}
	if err != nil {
		metrics.RecordStoreOp("file", "load", "error")
		return false, fmt.Errorf("failed to read document %s: %w", name, err)
	}
	if err := json.Unmarshal(data, into); err != nil {
		metrics.RecordStoreOp("file", "load", "error")
		return false, fmt.Errorf("failed to decode document %s: %w", name, err)
	}
	metrics.RecordStoreOp("file", "load", "success")
	return true, nil
}

func (s *FileStore) Save(_ context.Context, name string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write document %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for %s: %w", name, err)
	}
	if err := os.Rename(tmpName, s.path(name)); err != nil {
		os.Remove(tmpName)
		metrics.RecordStoreOp("file", "save", "error")
		return fmt.Errorf("failed to replace document %s: %w", name, err)
	}

	metrics.RecordStoreOp("file", "save", "success")
	log.Debug().
		Str("document", name).
		Int("bytes", len(data)).
		Msg("Saved document")
	return nil
}

func (s *FileStore) Delete(_ context.Context, name string) error {
	err := os.Remove(s.path(name))
	if err != nil && !os.IsNotExist(err) {
		metrics.RecordStoreOp("file", "delete", "error")
		return fmt.Errorf("failed to delete document %s: %w", name, err)
	}
	metrics.RecordStoreOp("file", "delete", "success")
	return nil
}
