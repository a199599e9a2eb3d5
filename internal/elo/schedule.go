package elo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"nba_model/engine/internal/models"
	"nba_model/engine/internal/store"
)

// ScheduleCache remembers the most recent game date per team so rest
// days can be computed without re-walking the schedule. Persisted as a
// team-to-ISO-date document.
type ScheduleCache struct {
	mu       sync.Mutex
	store    store.DocumentStore
	lastGame map[string]time.Time
}

// LoadScheduleCache reads the persisted cache, starting empty when no
// document exists yet.
func LoadScheduleCache(ctx context.Context, s store.DocumentStore) (*ScheduleCache, error) {
	raw := make(map[string]string)
	if _, err := s.Load(ctx, store.DocScheduleCache, &raw); err != nil {
		return nil, fmt.Errorf("failed to load schedule cache: %w", err)
	}

	c := &ScheduleCache{store: s, lastGame: make(map[string]time.Time, len(raw))}
	for team, dateStr := range raw {
		date, err := time.Parse(models.DateFormat, dateStr)
		if err != nil {
			log.Warn().Str("team", team).Str("date", dateStr).Msg("Dropping malformed schedule cache entry")
			continue
		}
		c.lastGame[team] = date
	}
	return c, nil
}

// DaysSince returns the number of calendar days since the team last
// played. The bool is false when the team has no recorded prior game,
// which happens at the start of a replay or after a reset.
func (c *ScheduleCache) DaysSince(team string, date time.Time) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	last, ok := c.lastGame[team]
	if !ok {
		return 0, false
	}
	return int(calendarDay(date).Sub(calendarDay(last)).Hours() / 24), true
}

// Record marks the team as having played on the given date. Dates
// already at or past the recorded one win; replaying an older day must
// not move a team's last game backward.
func (c *ScheduleCache) Record(team string, date time.Time) {
	date = calendarDay(date)
	c.mu.Lock()
	defer c.mu.Unlock()
	if last, ok := c.lastGame[team]; ok && last.After(date) {
		return
	}
	c.lastGame[team] = date
}

// calendarDay drops the time-of-day component. Rest arithmetic works
// on calendar days like the persisted ISO-date document, not on hours
// between wall-clock timestamps.
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Save persists the cache.
func (c *ScheduleCache) Save(ctx context.Context) error {
	c.mu.Lock()
	raw := make(map[string]string, len(c.lastGame))
	for team, date := range c.lastGame {
		raw[team] = date.Format(models.DateFormat)
	}
	c.mu.Unlock()

	if err := c.store.Save(ctx, store.DocScheduleCache, raw); err != nil {
		return fmt.Errorf("failed to save schedule cache: %w", err)
	}
	return nil
}

// Reset clears all recorded game dates, in memory and in the store.
func (c *ScheduleCache) Reset(ctx context.Context) error {
	c.mu.Lock()
	c.lastGame = make(map[string]time.Time)
	c.mu.Unlock()
	if err := c.store.Delete(ctx, store.DocScheduleCache); err != nil {
		return fmt.Errorf("failed to reset schedule cache: %w", err)
	}
	return nil
}
