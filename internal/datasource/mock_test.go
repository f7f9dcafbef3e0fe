package datasource

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestMockNetworkStats(t *testing.T) {
	m := NewMockWithClock(fixedClock(mockGenesis.Add(100 * mockBlockTime)))

	stats, err := m.NetworkStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(101), stats.TotalBlocks)
	assert.True(t, stats.GasTracker.Equal(decimal.RequireFromString("0.08")), stats.GasTracker.String())
	assert.Equal(t, float64(3), stats.AvgBlockTime)
	assert.True(t, stats.TotalStaked.IsPositive())
	assert.True(t, stats.TotalRewards.Equal(decimal.RequireFromString("50.5")))
}

func TestMockLatestBlocks(t *testing.T) {
	tests := map[string]struct {
		now      time.Time
		limit    int
		wantLen  int
		wantHead uint64
	}{
		"full page": {
			now:      mockGenesis.Add(100 * mockBlockTime),
			limit:    20,
			wantLen:  20,
			wantHead: 100,
		},
		"short chain": {
			now:      mockGenesis.Add(4 * mockBlockTime),
			limit:    20,
			wantLen:  5,
			wantHead: 4,
		},
		"before genesis": {
			now:      mockGenesis.Add(-time.Hour),
			limit:    20,
			wantLen:  1,
			wantHead: 0,
		},
		"zero limit": {
			now:     mockGenesis.Add(100 * mockBlockTime),
			limit:   0,
			wantLen: 0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := NewMockWithClock(fixedClock(tt.now))
			blocks, err := m.LatestBlocks(context.Background(), tt.limit)
			require.NoError(t, err)
			require.NotNil(t, blocks)
			require.Len(t, blocks, tt.wantLen)
			if tt.wantLen == 0 {
				return
			}

			assert.Equal(t, tt.wantHead, blocks[0].Number)
			for i := 1; i < len(blocks); i++ {
				assert.Equal(t, blocks[i-1].Number-1, blocks[i].Number)
				assert.Equal(t, blocks[i].Hash, blocks[i-1].ParentHash)
				assert.Less(t, blocks[i].Timestamp, blocks[i-1].Timestamp)
			}
		})
	}
}

func TestMockIsDeterministic(t *testing.T) {
	now := mockGenesis.Add(500 * mockBlockTime)
	a := NewMockWithClock(fixedClock(now))
	b := NewMockWithClock(fixedClock(now))

	blocksA, err := a.LatestBlocks(context.Background(), 10)
	require.NoError(t, err)
	blocksB, err := b.LatestBlocks(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, blocksA, blocksB)

	txsA, err := a.LatestTransactions(context.Background(), 10)
	require.NoError(t, err)
	txsB, err := b.LatestTransactions(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, txsA, txsB)
}

func TestMockLatestTransactions(t *testing.T) {
	m := NewMockWithClock(fixedClock(mockGenesis.Add(1000 * mockBlockTime)))

	txs, err := m.LatestTransactions(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, txs, 20)

	for i := 1; i < len(txs); i++ {
		prev, cur := txs[i-1], txs[i]
		newer := prev.BlockNumber > cur.BlockNumber ||
			(prev.BlockNumber == cur.BlockNumber && prev.Index > cur.Index)
		assert.True(t, newer, "transactions out of order at %d", i)
	}
	for _, tx := range txs {
		assert.Len(t, tx.Hash, 66)
		assert.Len(t, tx.From, 42)
		assert.Len(t, tx.To, 42)
		assert.Less(t, int(tx.Index), mockTxCount(tx.BlockNumber))
	}
}

func TestMockCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMock()
	_, err := m.NetworkStats(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = m.LatestBlocks(ctx, 5)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = m.LatestTransactions(ctx, 5)
	assert.ErrorIs(t, err, context.Canceled)
}
