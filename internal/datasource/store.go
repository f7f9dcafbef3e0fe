package datasource

import (
	"context"

	"github.com/thanhnp/chain-explorer/internal/models"
	"github.com/thanhnp/chain-explorer/internal/storage"
)

// Store serves the dashboard from what a Recorder has persisted to pebble
type Store struct {
	stores *storage.Stores
}

// NewStore creates a new Store source
func NewStore(stores *storage.Stores) *Store {
	return &Store{stores: stores}
}

// NetworkStats returns the last recorded stats, or storage.ErrNotFound if none were recorded
func (s *Store) NetworkStats(ctx context.Context) (*models.NetworkStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stats, err := s.stores.Stats.Latest()
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return nil, storage.ErrNotFound
	}
	return stats, nil
}

func (s *Store) LatestBlocks(ctx context.Context, limit int) ([]models.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []models.Block{}, nil
	}
	return s.stores.Blocks.Latest(limit)
}

func (s *Store) LatestTransactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []models.Transaction{}, nil
	}
	return s.stores.Txs.Latest(limit)
}
