package storage

// Stores holds all stores backed by one database
type Stores struct {
	DB     *PebbleDB
	Blocks *BlockStore
	Txs    *TxStore
	Stats  *StatsStore
}

// Open opens the database at path and builds the stores on top of it
func Open(path string, cacheSize int64) (*Stores, error) {
	db, err := NewPebbleDB(path, cacheSize)
	if err != nil {
		return nil, err
	}
	return NewStores(db), nil
}

// NewStores creates all stores using the given database
func NewStores(db *PebbleDB) *Stores {
	return &Stores{
		DB:     db,
		Blocks: NewBlockStore(db),
		Txs:    NewTxStore(db),
		Stats:  NewStatsStore(db),
	}
}

// Close closes the database
func (s *Stores) Close() error {
	return s.DB.Close()
}
