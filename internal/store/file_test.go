package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	doc := map[string]float64{"BOS": 1612.5, "LAL": 1498.0}
	require.NoError(t, s.Save(ctx, DocRatings, doc))

	var loaded map[string]float64
	found, err := s.Load(ctx, DocRatings, &loaded)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, doc, loaded)
}

func TestFileStoreLoadMissing(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	var loaded map[string]float64
	found, err := s.Load(context.Background(), "no_such_doc", &loaded)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, loaded)
}

func TestFileStoreSaveReplaces(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, DocCheckpoint, map[string]string{"last_processed_date": "2025-01-10"}))
	require.NoError(t, s.Save(ctx, DocCheckpoint, map[string]string{"last_processed_date": "2025-01-17"}))

	var loaded map[string]string
	found, err := s.Load(ctx, DocCheckpoint, &loaded)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "2025-01-17", loaded["last_processed_date"])
}

func TestFileStoreDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, DocRatings, map[string]float64{"BOS": 1500}))
	require.NoError(t, s.Delete(ctx, DocRatings))
	require.NoError(t, s.Delete(ctx, DocRatings), "deleting a missing document should not error")

	var loaded map[string]float64
	found, err := s.Load(ctx, DocRatings, &loaded)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), DocRatings, map[string]float64{"BOS": 1500}))

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, DocRatings+".json", entries[0].Name())
}

func TestTierDoc(t *testing.T) {
	assert.Equal(t, "player_tiers_2025_26", TierDoc("2025_26"))
}
