package datasource

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhnp/chain-explorer/internal/config"
)

var (
	testChainID   = big.NewInt(31337)
	testRecipient = common.HexToAddress("0x00000000000000000000000000000000000000aa")
)

// fakeChain serves a fixed set of blocks
type fakeChain struct {
	blocks   []*types.Block
	gasPrice *big.Int
}

func (f *fakeChain) ChainID(ctx context.Context) (*big.Int, error) {
	return testChainID, nil
}

func (f *fakeChain) lookup(number *big.Int) (*types.Block, error) {
	if len(f.blocks) == 0 {
		return nil, ethereum.NotFound
	}
	if number == nil {
		return f.blocks[len(f.blocks)-1], nil
	}
	if !number.IsUint64() || number.Uint64() >= uint64(len(f.blocks)) {
		return nil, ethereum.NotFound
	}
	return f.blocks[number.Uint64()], nil
}

func (f *fakeChain) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	b, err := f.lookup(number)
	if err != nil {
		return nil, err
	}
	return b.Header(), nil
}

func (f *fakeChain) BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error) {
	return f.lookup(number)
}

func (f *fakeChain) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return f.gasPrice, nil
}

// newFakeChain builds height+1 blocks, 2 seconds apart, with txPerBlock
// signed transfers each
func newFakeChain(t *testing.T, height uint64, txPerBlock int) (*fakeChain, common.Address) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sender := crypto.PubkeyToAddress(key.PublicKey)
	signer := types.LatestSignerForChainID(testChainID)
	to := testRecipient

	chain := &fakeChain{gasPrice: big.NewInt(1_500_000_000)}
	var nonce uint64
	for n := uint64(0); n <= height; n++ {
		var txs []*types.Transaction
		for i := 0; i < txPerBlock; i++ {
			tx := types.MustSignNewTx(key, signer, &types.LegacyTx{
				Nonce:    nonce,
				To:       &to,
				Value:    big.NewInt(int64(n*100) + int64(i)),
				Gas:      21_000,
				GasPrice: big.NewInt(1_000_000_000),
			})
			txs = append(txs, tx)
			nonce++
		}
		header := &types.Header{
			Number:   new(big.Int).SetUint64(n),
			Time:     1_700_000_000 + n*2,
			GasLimit: 30_000_000,
			GasUsed:  uint64(len(txs)) * 21_000,
			BaseFee:  big.NewInt(7),
		}
		if n > 0 {
			header.ParentHash = chain.blocks[n-1].Hash()
		}
		chain.blocks = append(chain.blocks, types.NewBlockWithHeader(header).WithBody(types.Body{Transactions: txs}))
	}
	return chain, sender
}

func newTestNode(chain ChainReader) *Node {
	logger, _ := test.NewNullLogger()
	return NewNode(logger, chain, config.NodeConfig{ScanDepth: 10})
}

func TestNodeNetworkStats(t *testing.T) {
	chain, _ := newFakeChain(t, 30, 0)
	node := newTestNode(chain)

	stats, err := node.NetworkStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(31), stats.TotalBlocks)
	assert.True(t, stats.GasTracker.Equal(decimal.RequireFromString("1.5")), stats.GasTracker.String())
	assert.Equal(t, float64(2), stats.AvgBlockTime)
	assert.True(t, stats.TotalStaked.IsZero())
	assert.True(t, stats.TotalRewards.IsZero())
}

func TestNodeNetworkStatsGenesisOnly(t *testing.T) {
	chain, _ := newFakeChain(t, 0, 0)
	node := newTestNode(chain)

	stats, err := node.NetworkStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalBlocks)
	assert.Zero(t, stats.AvgBlockTime)
}

func TestNodeLatestBlocks(t *testing.T) {
	tests := map[string]struct {
		height  uint64
		limit   int
		wantLen int
	}{
		"long chain":  {height: 40, limit: 20, wantLen: 20},
		"short chain": {height: 3, limit: 20, wantLen: 4},
		"zero limit":  {height: 3, limit: 0, wantLen: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			chain, _ := newFakeChain(t, tt.height, 1)
			node := newTestNode(chain)

			blocks, err := node.LatestBlocks(context.Background(), tt.limit)
			require.NoError(t, err)
			require.NotNil(t, blocks)
			require.Len(t, blocks, tt.wantLen)

			for i, b := range blocks {
				want := chain.blocks[tt.height-uint64(i)]
				assert.Equal(t, want.NumberU64(), b.Number)
				assert.Equal(t, want.Hash().Hex(), b.Hash)
				assert.Equal(t, 1, b.TxCount)
				assert.Equal(t, "7", b.BaseFee)
			}
		})
	}
}

func TestNodeLatestTransactions(t *testing.T) {
	chain, sender := newFakeChain(t, 20, 3)
	node := newTestNode(chain)

	txs, err := node.LatestTransactions(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, txs, 7)

	head := chain.blocks[20]
	assert.Equal(t, head.Transactions()[2].Hash().Hex(), txs[0].Hash)
	assert.Equal(t, uint64(20), txs[0].BlockNumber)
	assert.Equal(t, uint(2), txs[0].Index)
	assert.Equal(t, uint64(18), txs[6].BlockNumber)
	for _, tx := range txs {
		assert.Equal(t, sender.Hex(), tx.From)
		assert.Equal(t, testRecipient.Hex(), tx.To)
		assert.Equal(t, "1000000000", tx.GasPrice)
	}
}

func TestNodeLatestTransactionsScanDepth(t *testing.T) {
	// no block within the scan depth carries transactions
	chain, _ := newFakeChain(t, 30, 0)
	node := newTestNode(chain)

	txs, err := node.LatestTransactions(context.Background(), 20)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestNodeEmptyChain(t *testing.T) {
	node := newTestNode(&fakeChain{gasPrice: big.NewInt(1)})

	_, err := node.NetworkStats(context.Background())
	assert.ErrorIs(t, err, ethereum.NotFound)
	_, err = node.LatestBlocks(context.Background(), 5)
	assert.ErrorIs(t, err, ethereum.NotFound)
}
