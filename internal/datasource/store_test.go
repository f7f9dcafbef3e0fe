package datasource

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhnp/chain-explorer/internal/models"
	"github.com/thanhnp/chain-explorer/internal/storage"
)

func openTestStores(t *testing.T) *storage.Stores {
	t.Helper()
	stores, err := storage.Open(t.TempDir(), 1<<20)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = stores.Close()
	})
	return stores
}

func TestStoreEmpty(t *testing.T) {
	src := NewStore(openTestStores(t))

	_, err := src.NetworkStats(context.Background())
	assert.ErrorIs(t, err, storage.ErrNotFound)

	blocks, err := src.LatestBlocks(context.Background(), 20)
	require.NoError(t, err)
	assert.Empty(t, blocks)

	txs, err := src.LatestTransactions(context.Background(), 20)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestRecorderPersistsForStore(t *testing.T) {
	stores := openTestStores(t)
	logger, hook := test.NewNullLogger()
	mock := NewMockWithClock(fixedClock(mockGenesis.Add(200 * mockBlockTime)))
	rec := NewRecorder(logger, mock, stores)
	ctx := context.Background()

	wantStats, err := rec.NetworkStats(ctx)
	require.NoError(t, err)
	wantBlocks, err := rec.LatestBlocks(ctx, 10)
	require.NoError(t, err)
	wantTxs, err := rec.LatestTransactions(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, hook.AllEntries())

	src := NewStore(stores)

	gotStats, err := src.NetworkStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, wantStats.TotalBlocks, gotStats.TotalBlocks)
	assert.True(t, wantStats.TotalRewards.Equal(gotStats.TotalRewards))

	gotBlocks, err := src.LatestBlocks(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, wantBlocks, gotBlocks)

	gotTxs, err := src.LatestTransactions(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, wantTxs, gotTxs)
}

type failingSource struct{ err error }

func (f failingSource) NetworkStats(context.Context) (*models.NetworkStats, error) {
	return nil, f.err
}

func (f failingSource) LatestBlocks(context.Context, int) ([]models.Block, error) {
	return nil, f.err
}

func (f failingSource) LatestTransactions(context.Context, int) ([]models.Transaction, error) {
	return nil, f.err
}

func TestRecorderPassesErrorsThrough(t *testing.T) {
	stores := openTestStores(t)
	logger, _ := test.NewNullLogger()
	boom := errors.New("boom")
	rec := NewRecorder(logger, Instrument("failing", failingSource{err: boom}), stores)

	_, err := rec.NetworkStats(context.Background())
	assert.ErrorIs(t, err, boom)
	_, err = rec.LatestBlocks(context.Background(), 5)
	assert.ErrorIs(t, err, boom)

	stats, err := stores.Stats.Latest()
	require.NoError(t, err)
	assert.Nil(t, stats)
}
