package datasource

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/thanhnp/chain-explorer/internal/metrics"
	"github.com/thanhnp/chain-explorer/internal/models"
	"github.com/thanhnp/chain-explorer/internal/storage"
)

// Recorder passes calls through to an inner source and persists every
// successful result. A failed write is logged and never fails the call.
type Recorder struct {
	logger *logrus.Logger
	inner  Source
	stores *storage.Stores
}

// NewRecorder creates a Recorder around inner
func NewRecorder(logger *logrus.Logger, inner Source, stores *storage.Stores) *Recorder {
	return &Recorder{
		logger: logger,
		inner:  inner,
		stores: stores,
	}
}

func (r *Recorder) NetworkStats(ctx context.Context) (*models.NetworkStats, error) {
	stats, err := r.inner.NetworkStats(ctx)
	if err != nil {
		return nil, err
	}
	r.check("stats", r.stores.Stats.Save(stats))
	return stats, nil
}

func (r *Recorder) LatestBlocks(ctx context.Context, limit int) ([]models.Block, error) {
	blocks, err := r.inner.LatestBlocks(ctx, limit)
	if err != nil {
		return nil, err
	}
	r.check("blocks", r.stores.Blocks.SaveBatch(blocks))
	return blocks, nil
}

func (r *Recorder) LatestTransactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	txs, err := r.inner.LatestTransactions(ctx, limit)
	if err != nil {
		return nil, err
	}
	r.check("transactions", r.stores.Txs.SaveBatch(txs))
	return txs, nil
}

func (r *Recorder) check(kind string, err error) {
	if err == nil {
		return
	}
	metrics.RecorderWriteFailures.Inc()
	r.logger.WithField("kind", kind).WithError(err).Error("Failed to record fetched data")
}
