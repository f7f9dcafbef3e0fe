package storage

import (
	"encoding/json"
	"fmt"

	"github.com/thanhnp/chain-explorer/internal/models"
)

// BlockStore handles block storage operations
type BlockStore struct {
	db *PebbleDB
}

// NewBlockStore creates a new BlockStore
func NewBlockStore(db *PebbleDB) *BlockStore {
	return &BlockStore{db: db}
}

// blockKey zero-pads the number so keys sort by height
func blockKey(number uint64) []byte {
	return []byte(fmt.Sprintf("%020d", number))
}

// SaveBatch saves multiple blocks in a single batch operation.
// Saving a number again overwrites it. Stored transactions of that number at
// or above the block's TxCount are deleted with it.
func (s *BlockStore) SaveBatch(blocks []models.Block) error {
	if len(blocks) == 0 {
		return nil
	}

	batch := s.db.NewBatch()
	defer batch.Destroy()

	for _, block := range blocks {
		data, err := json.Marshal(block)
		if err != nil {
			return fmt.Errorf("failed to marshal block: %w", err)
		}
		if err := batch.Put(CFBlocks, blockKey(block.Number), data); err != nil {
			return err
		}
		if err := batch.DeleteRange(CFTransactions, txKey(block.Number, uint(block.TxCount)), blockTxsEnd(block.Number)); err != nil {
			return err
		}
	}

	return s.db.WriteBatch(batch)
}

// Latest returns up to limit blocks, highest number first
func (s *BlockStore) Latest(limit int) ([]models.Block, error) {
	iter, err := s.db.NewReverseIterator(CFBlocks)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	blocks := make([]models.Block, 0, limit)
	for ; iter.Valid() && len(blocks) < limit; iter.Prev() {
		var block models.Block
		if err := json.Unmarshal(iter.Value(), &block); err != nil {
			return nil, fmt.Errorf("failed to unmarshal block: %w", err)
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}
