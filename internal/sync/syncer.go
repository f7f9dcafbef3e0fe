package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/thanhnp/chain-explorer/internal/datasource"
	"github.com/thanhnp/chain-explorer/internal/metrics"
	"github.com/thanhnp/chain-explorer/internal/models"
	"github.com/thanhnp/chain-explorer/internal/storage"
)

// Syncer periodically copies the head of an upstream source into the local
// store, so the store source has data without live traffic
type Syncer struct {
	logger   *logrus.Logger
	source   datasource.Source
	stores   *storage.Stores
	interval time.Duration
	depth    int

	mu       sync.Mutex
	syncing  bool
	lastHead uint64
	haveHead bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewSyncer creates a new Syncer. depth is the number of latest blocks and
// transactions copied per round.
func NewSyncer(logger *logrus.Logger, source datasource.Source, stores *storage.Stores, interval time.Duration, depth int) *Syncer {
	return &Syncer{
		logger:   logger,
		source:   source,
		stores:   stores,
		interval: interval,
		depth:    depth,
	}
}

// Start runs a first round right away, then one per interval in the background
func (s *Syncer) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.syncing {
		s.mu.Unlock()
		return nil
	}
	s.syncing = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"interval": s.interval,
		"depth":    s.depth,
	}).Info("[sync] Starting chain data sync")

	go s.pollBlocks(ctx, s.done)

	return nil
}

// Stop stops the background loop and flushes the store
func (s *Syncer) Stop() error {
	s.mu.Lock()
	if !s.syncing {
		s.mu.Unlock()
		return nil
	}
	s.cancel()
	done := s.done
	s.syncing = false
	s.mu.Unlock()

	<-done

	s.logger.Info("[sync] Sync stopped, flushing to disk...")
	return s.stores.DB.Flush()
}

func (s *Syncer) pollBlocks(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if err := s.SyncOnce(ctx); err != nil && ctx.Err() == nil {
			s.logger.WithError(err).Warn("[sync] Sync round failed")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// SyncOnce fetches stats, blocks and transactions from upstream and saves them.
// Nothing is written unless all three fetches succeed.
func (s *Syncer) SyncOnce(ctx context.Context) error {
	var (
		stats  *models.NetworkStats
		blocks []models.Block
		txs    []models.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.source.NetworkStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		blocks, err = s.source.LatestBlocks(gctx, s.depth)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = s.source.LatestTransactions(gctx, s.depth)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.SyncRounds.WithLabelValues(metrics.OutcomeError).Inc()
		return fmt.Errorf("fetch from upstream: %w", err)
	}

	if err := s.save(stats, blocks, txs); err != nil {
		metrics.SyncRounds.WithLabelValues(metrics.OutcomeError).Inc()
		return err
	}
	metrics.SyncRounds.WithLabelValues(metrics.OutcomeSuccess).Inc()

	var head uint64
	if len(blocks) > 0 {
		head = blocks[0].Number
	}

	s.mu.Lock()
	advanced := !s.haveHead || head != s.lastHead
	s.lastHead, s.haveHead = head, true
	s.mu.Unlock()

	if advanced {
		s.logger.WithFields(logrus.Fields{
			"head":         head,
			"blocks":       len(blocks),
			"transactions": len(txs),
		}).Debug("[sync] Synced to head")
	}
	return nil
}

func (s *Syncer) save(stats *models.NetworkStats, blocks []models.Block, txs []models.Transaction) error {
	if err := s.stores.Blocks.SaveBatch(blocks); err != nil {
		return fmt.Errorf("failed to save blocks: %w", err)
	}
	if err := s.stores.Txs.SaveBatch(txs); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}
	// stats last, so the store source never serves stats without their blocks
	if stats != nil {
		if err := s.stores.Stats.Save(stats); err != nil {
			return fmt.Errorf("failed to save stats: %w", err)
		}
	}
	return nil
}

// LastHead returns the head height of the last successful round
func (s *Syncer) LastHead() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastHead, s.haveHead
}
