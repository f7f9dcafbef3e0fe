package storage

import (
	"encoding/json"
	"fmt"

	"github.com/thanhnp/chain-explorer/internal/models"
)

var latestStatsKey = []byte("latest")

// StatsStore keeps the most recent network stats snapshot
type StatsStore struct {
	db *PebbleDB
}

// NewStatsStore creates a new StatsStore
func NewStatsStore(db *PebbleDB) *StatsStore {
	return &StatsStore{db: db}
}

// Save replaces the stored snapshot
func (s *StatsStore) Save(stats *models.NetworkStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	return s.db.Put(CFStats, latestStatsKey, data)
}

// Latest returns the stored snapshot, or nil if none was saved
func (s *StatsStore) Latest() (*models.NetworkStats, error) {
	data, err := s.db.Get(CFStats, latestStatsKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var stats models.NetworkStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
	}
	return &stats, nil
}
