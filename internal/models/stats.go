package models

import "github.com/shopspring/decimal"

// NetworkStats represents the headline numbers shown on the explorer dashboard
type NetworkStats struct {
	TotalBlocks       int64           `json:"totalBlocks"`
	TotalTransactions int64           `json:"totalTransactions"`
	GasTracker        decimal.Decimal `json:"gasTracker"`   // in gwei
	AvgBlockTime      float64         `json:"avgBlockTime"` // in seconds
	TotalAddresses    int64           `json:"totalAddresses"`
	TotalStaked       decimal.Decimal `json:"totalStaked"`
	TotalRewards      decimal.Decimal `json:"totalRewards"`
}
