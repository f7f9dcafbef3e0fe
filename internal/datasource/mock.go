package datasource

import (
	"context"
	"encoding/binary"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"

	"github.com/thanhnp/chain-explorer/internal/models"
)

const (
	mockBlockTime   = 3 * time.Second
	mockGasLimit    = 30_000_000
	mockBaseFee     = 80_000_000 // wei, 0.08 gwei
	mockMaxTxs      = 8          // per block, exclusive
	mockValidators  = 4
	mockAccounts    = 64
	mockStakePerVal = 800_000
)

// mockGenesis anchors the synthesized chain so heights grow with wall time
var mockGenesis = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

var (
	mockRewardPerBlock = decimal.RequireFromString("0.5")
	weiPerGwei         = decimal.New(1, 9)
)

// Mock synthesizes a deterministic chain in process. The same height always
// yields the same block and transactions; only the head moves with the clock.
type Mock struct {
	now func() time.Time
}

// NewMock returns a Mock driven by the wall clock
func NewMock() *Mock {
	return &Mock{now: time.Now}
}

// NewMockWithClock returns a Mock driven by now
func NewMockWithClock(now func() time.Time) *Mock {
	return &Mock{now: now}
}

func (m *Mock) head() uint64 {
	elapsed := m.now().Sub(mockGenesis)
	if elapsed < 0 {
		return 0
	}
	return uint64(elapsed / mockBlockTime)
}

// NetworkStats derives dashboard totals from the current head
func (m *Mock) NetworkStats(ctx context.Context) (*models.NetworkStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	head := m.head()
	blocks := head + 1

	return &models.NetworkStats{
		TotalBlocks:       int64(blocks),
		TotalTransactions: int64(blocks) * (mockMaxTxs - 1) / 2,
		GasTracker:        decimal.NewFromInt(mockBaseFee).Div(weiPerGwei),
		AvgBlockTime:      mockBlockTime.Seconds(),
		TotalAddresses:    mockAccounts + int64(blocks)/100,
		TotalStaked:       decimal.NewFromInt(mockValidators * mockStakePerVal),
		TotalRewards:      mockRewardPerBlock.Mul(decimal.NewFromInt(int64(blocks))),
	}, nil
}

// LatestBlocks returns up to limit blocks, head first
func (m *Mock) LatestBlocks(ctx context.Context, limit int) ([]models.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []models.Block{}, nil
	}
	head := m.head()

	blocks := make([]models.Block, 0, limit)
	for n := head; len(blocks) < limit; n-- {
		blocks = append(blocks, mockBlock(n))
		if n == 0 {
			break
		}
	}
	return blocks, nil
}

// LatestTransactions returns up to limit transactions, newest first
func (m *Mock) LatestTransactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []models.Transaction{}, nil
	}
	head := m.head()

	txs := make([]models.Transaction, 0, limit)
	for n := head; len(txs) < limit; n-- {
		count := mockTxCount(n)
		for i := count - 1; i >= 0 && len(txs) < limit; i-- {
			txs = append(txs, mockTx(n, uint(i)))
		}
		if n == 0 {
			break
		}
	}
	return txs, nil
}

func mockHash(kind string, parts ...uint64) common.Hash {
	buf := make([]byte, len(kind), len(kind)+8*len(parts))
	copy(buf, kind)
	for _, p := range parts {
		buf = binary.BigEndian.AppendUint64(buf, p)
	}
	return crypto.Keccak256Hash(buf)
}

func mockAddress(kind string, i uint64) common.Address {
	return common.BytesToAddress(mockHash(kind, i).Bytes())
}

func mockBlockHash(n uint64) common.Hash {
	return mockHash("block", n)
}

func mockTxCount(n uint64) int {
	return int(mockBlockHash(n).Bytes()[0] % mockMaxTxs)
}

func mockBlock(n uint64) models.Block {
	var parent common.Hash
	if n > 0 {
		parent = mockBlockHash(n - 1)
	}
	txCount := mockTxCount(n)

	return models.Block{
		Number:     n,
		Hash:       mockBlockHash(n).Hex(),
		ParentHash: parent.Hex(),
		Timestamp:  uint64(mockGenesis.Add(time.Duration(n) * mockBlockTime).Unix()),
		Miner:      mockAddress("validator", n%mockValidators).Hex(),
		GasUsed:    uint64(txCount) * 21_000,
		GasLimit:   mockGasLimit,
		BaseFee:    big.NewInt(mockBaseFee).String(),
		TxCount:    txCount,
	}
}

func mockTx(n uint64, index uint) models.Transaction {
	hash := mockHash("tx", n, uint64(index))
	seed := binary.BigEndian.Uint64(hash.Bytes()[:8])

	// value in milli-ether
	value := new(big.Int).Mul(big.NewInt(int64(seed%5000)), big.NewInt(1_000_000_000_000_000))

	return models.Transaction{
		Hash:        hash.Hex(),
		BlockNumber: n,
		Index:       index,
		From:        mockAddress("account", seed%mockAccounts).Hex(),
		To:          mockAddress("account", (seed>>8)%mockAccounts).Hex(),
		Value:       value.String(),
		GasPrice:    big.NewInt(mockBaseFee + 1_000_000_000).String(),
		Gas:         21_000,
		Nonce:       seed % 1000,
		Timestamp:   uint64(mockGenesis.Add(time.Duration(n) * mockBlockTime).Unix()),
	}
}
