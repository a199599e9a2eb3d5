package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.StoreBackend)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, 600*time.Millisecond, cfg.ProviderRateDelay)
	assert.Equal(t, 7, cfg.CheckpointEveryDays)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("REPLAY_START_DATE", "2023-10-01")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.StoreBackend)
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC), cfg.ReplayStart())
}

func TestValidateRejectsBadBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "sqlite")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRejectsBadStartDate(t *testing.T) {
	t.Setenv("REPLAY_START_DATE", "October 1st")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRejectsZeroCheckpointInterval(t *testing.T) {
	t.Setenv("CHECKPOINT_EVERY_DAYS", "0")
	_, err := Load()
	assert.Error(t, err)
}
