package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhnp/chain-explorer/internal/config"
	"github.com/thanhnp/chain-explorer/internal/datasource"
	"github.com/thanhnp/chain-explorer/internal/models"
)

// fakeSource answers with its func fields; nil fields succeed with empty data
type fakeSource struct {
	stats  func(ctx context.Context) (*models.NetworkStats, error)
	blocks func(ctx context.Context, limit int) ([]models.Block, error)
	txs    func(ctx context.Context, limit int) ([]models.Transaction, error)
}

func (f *fakeSource) NetworkStats(ctx context.Context) (*models.NetworkStats, error) {
	if f.stats == nil {
		return &models.NetworkStats{}, nil
	}
	return f.stats(ctx)
}

func (f *fakeSource) LatestBlocks(ctx context.Context, limit int) ([]models.Block, error) {
	if f.blocks == nil {
		return nil, nil
	}
	return f.blocks(ctx, limit)
}

func (f *fakeSource) LatestTransactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	if f.txs == nil {
		return nil, nil
	}
	return f.txs(ctx, limit)
}

var testNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTestService(src datasource.Source, cfg config.ExplorerConfig) *Service {
	return NewService(src, cfg).WithClock(func() time.Time { return testNow })
}

func TestSnapshotSuccess(t *testing.T) {
	var gotBlockLimit, gotTxLimit int
	src := &fakeSource{
		stats: func(context.Context) (*models.NetworkStats, error) {
			return &models.NetworkStats{TotalBlocks: 7}, nil
		},
		blocks: func(_ context.Context, limit int) ([]models.Block, error) {
			gotBlockLimit = limit
			return []models.Block{{Number: 6}, {Number: 5}}, nil
		},
		txs: func(_ context.Context, limit int) ([]models.Transaction, error) {
			gotTxLimit = limit
			return []models.Transaction{{Hash: "0x1"}}, nil
		},
	}

	snap, err := newTestService(src, config.ExplorerConfig{}).Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, gotBlockLimit)
	assert.Equal(t, 20, gotTxLimit)
	assert.Equal(t, int64(7), snap.Stats.TotalBlocks)
	assert.Len(t, snap.Blocks, 2)
	assert.Len(t, snap.Transactions, 1)
	assert.Equal(t, testNow.UnixMilli(), snap.Timestamp)
}

func TestSnapshotEmptyListsAreNotNull(t *testing.T) {
	snap, err := newTestService(&fakeSource{}, config.ExplorerConfig{}).Snapshot(context.Background())
	require.NoError(t, err)

	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"blocks":[]`)
	assert.Contains(t, string(raw), `"transactions":[]`)
}

func TestSnapshotFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := map[string]struct {
		src *fakeSource
	}{
		"stats fail": {
			src: &fakeSource{stats: func(context.Context) (*models.NetworkStats, error) { return nil, boom }},
		},
		"blocks fail": {
			src: &fakeSource{blocks: func(context.Context, int) ([]models.Block, error) { return nil, boom }},
		},
		"transactions fail": {
			src: &fakeSource{txs: func(context.Context, int) ([]models.Transaction, error) { return nil, boom }},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			snap, err := newTestService(tt.src, config.ExplorerConfig{}).Snapshot(context.Background())
			assert.ErrorIs(t, err, boom)
			assert.Nil(t, snap)
		})
	}
}

func TestSnapshotFailureCancelsOtherFetches(t *testing.T) {
	boom := errors.New("boom")
	cancelled := make(chan struct{})
	src := &fakeSource{
		stats: func(ctx context.Context) (*models.NetworkStats, error) {
			<-ctx.Done()
			close(cancelled)
			return nil, ctx.Err()
		},
		blocks: func(context.Context, int) ([]models.Block, error) { return nil, boom },
	}

	_, err := newTestService(src, config.ExplorerConfig{}).Snapshot(context.Background())
	assert.ErrorIs(t, err, boom)

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("stats fetch was not cancelled")
	}
}

func TestSnapshotTimeout(t *testing.T) {
	src := &fakeSource{
		stats: func(ctx context.Context) (*models.NetworkStats, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	svc := newTestService(src, config.ExplorerConfig{FetchTimeout: 20 * time.Millisecond})
	_, err := svc.Snapshot(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFallbackSnapshot(t *testing.T) {
	snap := newTestService(&fakeSource{}, config.ExplorerConfig{}).FallbackSnapshot()

	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"stats": {
			"totalBlocks": 0,
			"totalTransactions": 0,
			"gasTracker": "0.08",
			"avgBlockTime": 3,
			"totalAddresses": 0,
			"totalStaked": "0",
			"totalRewards": "0"
		},
		"blocks": [],
		"transactions": [],
		"timestamp": 1741608000000
	}`, string(raw))
}

func TestAddressProfile(t *testing.T) {
	svc := newTestService(&fakeSource{}, config.ExplorerConfig{})

	for _, address := range []string{"0xABC", "", `"},{"x":1`, "a/b/c"} {
		profile, err := svc.AddressProfile(context.Background(), address)
		require.NoError(t, err)
		assert.Equal(t, address, profile.Address)
		assert.Equal(t, "Contract", profile.Type)
		assert.Equal(t, "1250.75", profile.Balance["ETH"].String())
		assert.Equal(t, "2501500", profile.USDValue["ETH"].String())
		assert.Equal(t, int64(1247), profile.Statistics.TotalTransactions)
		assert.True(t, profile.ContractInfo.Verified)
		assert.Equal(t, "Solidity 0.8.19", profile.ContractInfo.Compiler)
		assert.Equal(t, testNow.Add(-30*24*time.Hour).Unix(), profile.Activity.FirstSeen)
		assert.Equal(t, testNow.Add(-time.Hour).Unix(), profile.Activity.LastActivity)
		assert.Less(t, profile.Activity.FirstSeen, profile.Activity.LastActivity)
	}
}

func TestAddressProfileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestService(&fakeSource{}, config.ExplorerConfig{}).AddressProfile(ctx, "0xABC")
	assert.ErrorIs(t, err, context.Canceled)
}
