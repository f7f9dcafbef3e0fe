package models

// Transaction represents a transaction as listed by the explorer
type Transaction struct {
	Hash        string `json:"hash"`
	BlockNumber uint64 `json:"blockNumber"`
	Index       uint   `json:"index"`
	From        string `json:"from"`
	To          string `json:"to"`       // empty for contract creation
	Value       string `json:"value"`    // in wei
	GasPrice    string `json:"gasPrice"` // in wei
	Gas         uint64 `json:"gas"`
	Nonce       uint64 `json:"nonce"`
	Timestamp   uint64 `json:"timestamp"` // unix seconds
}
