// Package explorer assembles the dashboard snapshot and address profiles
// served by the API.
package explorer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/thanhnp/chain-explorer/internal/config"
	"github.com/thanhnp/chain-explorer/internal/datasource"
	"github.com/thanhnp/chain-explorer/internal/models"
)

// Number of blocks and transactions on the dashboard
const (
	LatestBlocksLimit       = 20
	LatestTransactionsLimit = 20
)

// Service builds explorer responses on top of a data source
type Service struct {
	source  datasource.Source
	timeout time.Duration
	now     func() time.Time
}

// NewService creates a new Service
func NewService(source datasource.Source, cfg config.ExplorerConfig) *Service {
	return &Service{
		source:  source,
		timeout: cfg.FetchTimeout,
		now:     time.Now,
	}
}

// WithClock replaces the wall clock, for tests
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Snapshot fetches stats, latest blocks and latest transactions concurrently.
// The first failure cancels the remaining fetches and is returned as is;
// no partial snapshot is ever produced.
func (s *Service) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var (
		stats  *models.NetworkStats
		blocks []models.Block
		txs    []models.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.source.NetworkStats(gctx)
		if err != nil {
			return fmt.Errorf("fetch network stats: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		blocks, err = s.source.LatestBlocks(gctx, LatestBlocksLimit)
		if err != nil {
			return fmt.Errorf("fetch latest blocks: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		txs, err = s.source.LatestTransactions(gctx, LatestTransactionsLimit)
		if err != nil {
			return fmt.Errorf("fetch latest transactions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if stats == nil {
		return nil, errors.New("fetch network stats: source returned no stats")
	}

	if blocks == nil {
		blocks = []models.Block{}
	}
	if txs == nil {
		txs = []models.Transaction{}
	}

	return &models.Snapshot{
		Stats:        *stats,
		Blocks:       blocks,
		Transactions: txs,
		Timestamp:    s.now().UnixMilli(),
	}, nil
}

// FallbackSnapshot is served when a snapshot cannot be built
func (s *Service) FallbackSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Stats:        FallbackStats(),
		Blocks:       []models.Block{},
		Transactions: []models.Transaction{},
		Timestamp:    s.now().UnixMilli(),
	}
}

// FallbackStats are the placeholder numbers shown when the data source fails
func FallbackStats() models.NetworkStats {
	return models.NetworkStats{
		TotalBlocks:       0,
		TotalTransactions: 0,
		GasTracker:        decimal.RequireFromString("0.08"),
		AvgBlockTime:      3,
		TotalAddresses:    0,
		TotalStaked:       decimal.Zero,
		TotalRewards:      decimal.Zero,
	}
}
