package datasource

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/thanhnp/chain-explorer/internal/config"
	"github.com/thanhnp/chain-explorer/internal/models"
	"github.com/thanhnp/chain-explorer/pkg/semver"
)

const (
	// headers spanned when averaging the block interval
	blockTimeWindow = 20
	// concurrent block fetches per request
	blockFetchConcurrency = 4
)

// ChainReader is the subset of ethclient.Client the node source uses
type ChainReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
}

// Node reads dashboard data from an EVM JSON-RPC endpoint
type Node struct {
	logger    *logrus.Logger
	client    ChainReader
	limiter   *rate.Limiter
	scanDepth int

	mu     sync.Mutex
	signer types.Signer
}

// DialNode connects to the configured RPC endpoint
func DialNode(ctx context.Context, logger *logrus.Logger, cfg config.NodeConfig) (*Node, error) {
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial node %s: %w", cfg.RPCURL, err)
	}

	var clientVersion string
	if err := client.Client().CallContext(ctx, &clientVersion, "web3_clientVersion"); err != nil {
		logger.WithError(err).Warn("Could not query node client version")
	} else {
		fields := logrus.Fields{"rpc_url": cfg.RPCURL, "client": clientVersion}
		if v, err := semver.Extract(clientVersion); err == nil {
			fields["version"] = v.String()
		}
		logger.WithFields(fields).Info("Connected to node")
	}

	return NewNode(logger, client, cfg), nil
}

// NewNode creates a node source on top of an existing client
func NewNode(logger *logrus.Logger, client ChainReader, cfg config.NodeConfig) *Node {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	scanDepth := cfg.ScanDepth
	if scanDepth <= 0 {
		scanDepth = 50
	}

	return &Node{
		logger:    logger,
		client:    client,
		limiter:   rate.NewLimiter(limit, burst),
		scanDepth: scanDepth,
	}
}

// Close releases the underlying client if it holds a connection
func (n *Node) Close() {
	if c, ok := n.client.(interface{ Close() }); ok {
		c.Close()
	}
}

// NetworkStats reads the head, the suggested gas price and the recent block interval.
// Counters a node cannot answer without an index are left at zero.
func (n *Node) NetworkStats(ctx context.Context) (*models.NetworkStats, error) {
	head, err := n.header(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("get head header: %w", err)
	}

	gasPrice, err := retry(ctx, n, "eth_gasPrice", func(ctx context.Context) (*big.Int, error) {
		return n.client.SuggestGasPrice(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("get gas price: %w", err)
	}

	avgBlockTime, err := n.avgBlockTime(ctx, head)
	if err != nil {
		return nil, err
	}

	return &models.NetworkStats{
		TotalBlocks:  int64(head.Number.Uint64() + 1),
		GasTracker:   decimal.NewFromBigInt(gasPrice, -9),
		AvgBlockTime: avgBlockTime,
		TotalStaked:  decimal.Zero,
		TotalRewards: decimal.Zero,
	}, nil
}

func (n *Node) avgBlockTime(ctx context.Context, head *types.Header) (float64, error) {
	headNum := head.Number.Uint64()
	if headNum == 0 {
		return 0, nil
	}
	span := uint64(blockTimeWindow)
	if headNum < span {
		span = headNum
	}

	older, err := n.header(ctx, new(big.Int).SetUint64(headNum-span))
	if err != nil {
		return 0, fmt.Errorf("get header %d: %w", headNum-span, err)
	}

	avg := float64(head.Time-older.Time) / float64(span)
	return math.Round(avg*100) / 100, nil
}

// LatestBlocks fetches up to limit blocks from the head down, a few at a time
func (n *Node) LatestBlocks(ctx context.Context, limit int) ([]models.Block, error) {
	if limit <= 0 {
		return []models.Block{}, nil
	}
	head, err := n.header(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("get head header: %w", err)
	}

	headNum := head.Number.Uint64()
	count := uint64(limit)
	if headNum+1 < count {
		count = headNum + 1
	}

	blocks := make([]models.Block, count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(blockFetchConcurrency)
	for i := uint64(0); i < count; i++ {
		i := i
		g.Go(func() error {
			block, err := n.block(gctx, headNum-i)
			if err != nil {
				return fmt.Errorf("get block %d: %w", headNum-i, err)
			}
			blocks[i] = toBlock(block)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return blocks, nil
}

// LatestTransactions walks back from the head until limit transactions are
// collected or the scan depth is exhausted
func (n *Node) LatestTransactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		return []models.Transaction{}, nil
	}
	signer, err := n.chainSigner(ctx)
	if err != nil {
		return nil, err
	}
	head, err := n.header(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("get head header: %w", err)
	}

	txs := make([]models.Transaction, 0, limit)
	num := head.Number.Uint64()
	for scanned := 0; scanned < n.scanDepth && len(txs) < limit; scanned++ {
		block, err := n.block(ctx, num)
		if err != nil {
			return nil, fmt.Errorf("get block %d: %w", num, err)
		}

		blockTxs := block.Transactions()
		for i := len(blockTxs) - 1; i >= 0 && len(txs) < limit; i-- {
			txs = append(txs, toTransaction(signer, block, uint(i), blockTxs[i]))
		}

		if num == 0 {
			break
		}
		num--
	}

	return txs, nil
}

func (n *Node) header(ctx context.Context, number *big.Int) (*types.Header, error) {
	return retry(ctx, n, "eth_getBlockByNumber", func(ctx context.Context) (*types.Header, error) {
		return n.client.HeaderByNumber(ctx, number)
	})
}

func (n *Node) block(ctx context.Context, number uint64) (*types.Block, error) {
	return retry(ctx, n, "eth_getBlockByNumber", func(ctx context.Context) (*types.Block, error) {
		return n.client.BlockByNumber(ctx, new(big.Int).SetUint64(number))
	})
}

// chainSigner resolves the chain ID once and caches the matching signer
func (n *Node) chainSigner(ctx context.Context) (types.Signer, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.signer != nil {
		return n.signer, nil
	}

	chainID, err := retry(ctx, n, "eth_chainId", func(ctx context.Context) (*big.Int, error) {
		return n.client.ChainID(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("get chain id: %w", err)
	}
	n.signer = types.LatestSignerForChainID(chainID)
	return n.signer, nil
}

// retry runs one rate-limited RPC call with exponential backoff.
// Missing objects and cancelled contexts are not retried.
func retry[T any](ctx context.Context, n *Node, method string, call func(context.Context) (T, error)) (T, error) {
	bk := backoff.WithContext(newExponentialBackoffConfig(), ctx)
	return backoff.RetryWithData(func() (T, error) {
		var zero T
		if err := n.limiter.Wait(ctx); err != nil {
			return zero, backoff.Permanent(fmt.Errorf("rate limiter: %w", err))
		}
		v, err := call(ctx)
		if err != nil {
			if errors.Is(err, ethereum.NotFound) || ctx.Err() != nil {
				return zero, backoff.Permanent(err)
			}
			n.logger.WithField("method", method).WithError(err).Warn("Node call failed, retrying...")
			return zero, err
		}
		return v, nil
	}, bk)
}

func newExponentialBackoffConfig() *backoff.ExponentialBackOff {
	return backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(time.Second*3),
		backoff.WithMaxInterval(time.Second),
		backoff.WithInitialInterval(time.Millisecond*100),
		backoff.WithMultiplier(2),
		backoff.WithRandomizationFactor(0.2),
	)
}

func toBlock(b *types.Block) models.Block {
	block := models.Block{
		Number:     b.NumberU64(),
		Hash:       b.Hash().Hex(),
		ParentHash: b.ParentHash().Hex(),
		Timestamp:  b.Time(),
		Miner:      b.Coinbase().Hex(),
		GasUsed:    b.GasUsed(),
		GasLimit:   b.GasLimit(),
		TxCount:    len(b.Transactions()),
	}
	if baseFee := b.BaseFee(); baseFee != nil {
		block.BaseFee = baseFee.String()
	}
	return block
}

func toTransaction(signer types.Signer, b *types.Block, index uint, tx *types.Transaction) models.Transaction {
	out := models.Transaction{
		Hash:        tx.Hash().Hex(),
		BlockNumber: b.NumberU64(),
		Index:       index,
		Value:       tx.Value().String(),
		GasPrice:    tx.GasPrice().String(),
		Gas:         tx.Gas(),
		Nonce:       tx.Nonce(),
		Timestamp:   b.Time(),
	}
	if from, err := types.Sender(signer, tx); err == nil {
		out.From = from.Hex()
	}
	if to := tx.To(); to != nil {
		out.To = to.Hex()
	}
	return out
}
