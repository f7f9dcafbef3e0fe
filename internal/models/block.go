package models

// Block represents a block as listed by the explorer
type Block struct {
	Number     uint64 `json:"number"`
	Hash       string `json:"hash"`
	ParentHash string `json:"parentHash"`
	Timestamp  uint64 `json:"timestamp"` // unix seconds
	Miner      string `json:"miner"`
	GasUsed    uint64 `json:"gasUsed"`
	GasLimit   uint64 `json:"gasLimit"`
	BaseFee    string `json:"baseFee,omitempty"` // in wei
	TxCount    int    `json:"txCount"`
}
