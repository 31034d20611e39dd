package repository

import (
	"sync"
	"tarc-profile-bot/internal/domain"
	"time"

	"github.com/rs/zerolog"
)

// StatsCache holds the latest telemetry snapshot per player for the lifetime
// of the process. Records are stored by value and replaced whole, so a reader
// racing a writer sees either the old record or the new one.
type StatsCache struct {
	mu      sync.RWMutex
	records map[domain.PlayerID]domain.StatsRecord
	logger  zerolog.Logger
}

func NewStatsCache(logger zerolog.Logger) *StatsCache {
	return &StatsCache{
		records: make(map[domain.PlayerID]domain.StatsRecord),
		logger:  logger,
	}
}

// Upsert replaces the numeric fields for id and stamps lastUpdated with now.
// FirstSeen is taken from the existing record when there is one.
func (c *StatsCache) Upsert(id domain.PlayerID, xp, kills, playTimeSeconds int64, now time.Time) domain.StatsRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, exists := c.records[id]

	record := domain.StatsRecord{
		PlayerID:        id,
		XP:              clamp(xp),
		Kills:           clamp(kills),
		PlayTimeSeconds: clamp(playTimeSeconds),
		FirstSeen:       now,
		LastUpdated:     now,
	}
	if exists {
		record.FirstSeen = existing.FirstSeen
		// keep firstSeen <= lastUpdated if the caller's clock stepped backwards
		if record.LastUpdated.Before(record.FirstSeen) {
			record.LastUpdated = record.FirstSeen
		}
	}

	c.records[id] = record

	c.logger.Debug().
		Stringer("user_id", id).
		Bool("new", !exists).
		Int64("xp", record.XP).
		Int64("kills", record.Kills).
		Int64("play_time_seconds", record.PlayTimeSeconds).
		Msg("stats upserted")

	return record
}

func (c *StatsCache) Get(id domain.PlayerID) (domain.StatsRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	record, ok := c.records[id]
	return record, ok
}

func (c *StatsCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

func clamp(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
