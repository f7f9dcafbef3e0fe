package storage

import (
	"errors"
	"fmt"
	"os"

	"github.com/cockroachdb/pebble"
)

// ErrNotFound is returned when nothing has been recorded yet
var ErrNotFound = errors.New("not found")

// Key prefixes (simulating column families)
const (
	PrefixBlocks       = "blk:"
	PrefixTransactions = "txn:"
	PrefixStats        = "sts:"
)

// Column family names
const (
	CFBlocks       = "blocks"
	CFTransactions = "transactions"
	CFStats        = "stats"
)

// Column family name to prefix mapping
var cfPrefixes = map[string]string{
	CFBlocks:       PrefixBlocks,
	CFTransactions: PrefixTransactions,
	CFStats:        PrefixStats,
}

// PebbleDB wraps the Pebble database
type PebbleDB struct {
	db *pebble.DB
}

// WriteBatch wraps Pebble's batch for atomic writes
type WriteBatch struct {
	batch *pebble.Batch
}

// Iterator wraps Pebble's iterator
type Iterator struct {
	iter *pebble.Iterator
}

// NewPebbleDB creates a new PebbleDB instance
func NewPebbleDB(path string, cacheSize int64) (*PebbleDB, error) {
	// Ensure directory exists
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	cache := pebble.NewCache(cacheSize)
	defer cache.Unref()

	opts := &pebble.Options{
		Cache:        cache,
		MaxOpenFiles: 256,
	}

	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &PebbleDB{db: db}, nil
}

// Close closes the database
func (p *PebbleDB) Close() error {
	return p.db.Close()
}

// Flush forces memtables to disk
func (p *PebbleDB) Flush() error {
	return p.db.Flush()
}

// prefixKey creates a prefixed key for the given column family
func prefixKey(cf string, key []byte) ([]byte, error) {
	prefix, ok := cfPrefixes[cf]
	if !ok {
		return nil, fmt.Errorf("column family not found: %s", cf)
	}
	return append([]byte(prefix), key...), nil
}

// Put stores a key-value pair in the specified column family
func (p *PebbleDB) Put(cf string, key, value []byte) error {
	prefixedKey, err := prefixKey(cf, key)
	if err != nil {
		return err
	}
	return p.db.Set(prefixedKey, value, pebble.Sync)
}

// Get retrieves a value from the specified column family.
// A missing key yields (nil, nil).
func (p *PebbleDB) Get(cf string, key []byte) ([]byte, error) {
	prefixedKey, err := prefixKey(cf, key)
	if err != nil {
		return nil, err
	}

	value, closer, err := p.db.Get(prefixedKey)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	defer closer.Close()

	// Copy the value since it's only valid until closer.Close()
	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

// NewBatch creates a new write batch
func (p *PebbleDB) NewBatch() *WriteBatch {
	return &WriteBatch{batch: p.db.NewBatch()}
}

// WriteBatch writes a batch to the database
func (p *PebbleDB) WriteBatch(batch *WriteBatch) error {
	return batch.batch.Commit(pebble.Sync)
}

// Put adds a put operation to the batch
func (b *WriteBatch) Put(cf string, key, value []byte) error {
	prefixedKey, err := prefixKey(cf, key)
	if err != nil {
		return err
	}
	return b.batch.Set(prefixedKey, value, nil)
}

// DeleteRange adds a deletion of [start, end) to the batch
func (b *WriteBatch) DeleteRange(cf string, start, end []byte) error {
	prefixedStart, err := prefixKey(cf, start)
	if err != nil {
		return err
	}
	prefixedEnd, err := prefixKey(cf, end)
	if err != nil {
		return err
	}
	return b.batch.DeleteRange(prefixedStart, prefixedEnd, nil)
}

// Destroy closes the batch and releases resources
func (b *WriteBatch) Destroy() {
	b.batch.Close()
}

// NewReverseIterator creates an iterator positioned at the last key of the
// column family. Walk it with Prev.
func (p *PebbleDB) NewReverseIterator(cf string) (*Iterator, error) {
	prefix, ok := cfPrefixes[cf]
	if !ok {
		return nil, fmt.Errorf("column family not found: %s", cf)
	}

	prefixBytes := []byte(prefix)
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: prefixBytes,
		UpperBound: prefixUpperBound(prefixBytes),
	})
	if err != nil {
		return nil, err
	}
	iter.Last()
	return &Iterator{iter: iter}, nil
}

// prefixUpperBound returns the upper bound for prefix iteration
func prefixUpperBound(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}
	upper := make([]byte, len(prefix))
	copy(upper, prefix)
	for i := len(upper) - 1; i >= 0; i-- {
		if upper[i] < 0xff {
			upper[i]++
			return upper[:i+1]
		}
	}
	return nil
}

// Iterator methods

// Valid returns true if the iterator is positioned at a valid key
func (i *Iterator) Valid() bool {
	return i.iter.Valid()
}

// Prev moves the iterator to the previous key
func (i *Iterator) Prev() bool {
	return i.iter.Prev()
}

// Value returns the current value. Only valid until the iterator moves.
func (i *Iterator) Value() []byte {
	return i.iter.Value()
}

// Close closes the iterator
func (i *Iterator) Close() error {
	return i.iter.Close()
}
