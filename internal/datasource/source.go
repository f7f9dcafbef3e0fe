// Package datasource provides the chain data behind the explorer dashboard.
//
// Sources answer "latest N" questions only; none of them indexes a chain.
package datasource

import (
	"context"
	"time"

	"github.com/thanhnp/chain-explorer/internal/metrics"
	"github.com/thanhnp/chain-explorer/internal/models"
)

// Source is the data layer behind the dashboard endpoint.
// Each call may fail independently.
type Source interface {
	NetworkStats(ctx context.Context) (*models.NetworkStats, error)
	LatestBlocks(ctx context.Context, limit int) ([]models.Block, error)
	LatestTransactions(ctx context.Context, limit int) ([]models.Transaction, error)
}

// Instrument wraps src so every call is observed in the source latency histogram
func Instrument(name string, src Source) Source {
	return &instrumented{name: name, inner: src}
}

type instrumented struct {
	name  string
	inner Source
}

func (s *instrumented) NetworkStats(ctx context.Context) (*models.NetworkStats, error) {
	start := time.Now()
	stats, err := s.inner.NetworkStats(ctx)
	s.observeSince("network_stats", start, err)
	return stats, err
}

func (s *instrumented) LatestBlocks(ctx context.Context, limit int) ([]models.Block, error) {
	start := time.Now()
	blocks, err := s.inner.LatestBlocks(ctx, limit)
	s.observeSince("latest_blocks", start, err)
	return blocks, err
}

func (s *instrumented) LatestTransactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	start := time.Now()
	txs, err := s.inner.LatestTransactions(ctx, limit)
	s.observeSince("latest_transactions", start, err)
	return txs, err
}

func (s *instrumented) observeSince(call string, start time.Time, err error) {
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.SourceCallDuration.WithLabelValues(s.name, call, outcome).Observe(time.Since(start).Seconds())
}
