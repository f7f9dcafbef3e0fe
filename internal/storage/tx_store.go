package storage

import (
	"encoding/json"
	"fmt"

	"github.com/thanhnp/chain-explorer/internal/models"
)

// TxStore handles transaction storage operations
type TxStore struct {
	db *PebbleDB
}

// NewTxStore creates a new TxStore
func NewTxStore(db *PebbleDB) *TxStore {
	return &TxStore{db: db}
}

// txKey orders transactions by block number, then position in the block
func txKey(blockNumber uint64, index uint) []byte {
	return []byte(fmt.Sprintf("%020d:%06d", blockNumber, index))
}

// blockTxsEnd bounds a block's transaction keys from above; ';' sorts right after ':'
func blockTxsEnd(blockNumber uint64) []byte {
	return []byte(fmt.Sprintf("%020d;", blockNumber))
}

// SaveBatch saves multiple transactions in a single batch.
// A block's transactions are listed from the highest index down, so any stored
// index above the highest one saved here belongs to a reorged version of the
// block and is deleted in the same batch.
func (s *TxStore) SaveBatch(txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	batch := s.db.NewBatch()
	defer batch.Destroy()

	top := make(map[uint64]uint)
	for _, tx := range txs {
		if index, ok := top[tx.BlockNumber]; !ok || tx.Index > index {
			top[tx.BlockNumber] = tx.Index
		}
	}
	for number, index := range top {
		if err := batch.DeleteRange(CFTransactions, txKey(number, index+1), blockTxsEnd(number)); err != nil {
			return err
		}
	}

	for _, tx := range txs {
		data, err := json.Marshal(tx)
		if err != nil {
			return fmt.Errorf("failed to marshal transaction: %w", err)
		}
		if err := batch.Put(CFTransactions, txKey(tx.BlockNumber, tx.Index), data); err != nil {
			return err
		}
	}

	return s.db.WriteBatch(batch)
}

// Latest returns up to limit transactions, newest first
func (s *TxStore) Latest(limit int) ([]models.Transaction, error) {
	iter, err := s.db.NewReverseIterator(CFTransactions)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	txs := make([]models.Transaction, 0, limit)
	for ; iter.Valid() && len(txs) < limit; iter.Prev() {
		var tx models.Transaction
		if err := json.Unmarshal(iter.Value(), &tx); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
		}
		txs = append(txs, tx)
	}

	return txs, nil
}
