package models

import "github.com/shopspring/decimal"

// AddressProfile is the detail view of a single address
type AddressProfile struct {
	Address      string                     `json:"address"`
	Type         string                     `json:"type"`
	Balance      map[string]decimal.Decimal `json:"balance"`
	USDValue     map[string]decimal.Decimal `json:"usdValue"`
	Statistics   AddressStatistics          `json:"statistics"`
	Activity     AddressActivity            `json:"activity"`
	ContractInfo ContractInfo               `json:"contractInfo"`
}

// AddressStatistics holds transaction counters for an address
type AddressStatistics struct {
	TotalTransactions    int64 `json:"totalTransactions"`
	SentTransactions     int64 `json:"sentTransactions"`
	ReceivedTransactions int64 `json:"receivedTransactions"`
	ContractCalls        int64 `json:"contractCalls"`
}

// AddressActivity holds first/last seen times in unix seconds
type AddressActivity struct {
	FirstSeen    int64 `json:"firstSeen"`
	LastActivity int64 `json:"lastActivity"`
}

// ContractInfo describes the contract deployed at an address
type ContractInfo struct {
	Name     string `json:"name"`
	Compiler string `json:"compiler"`
	Verified bool   `json:"verified"`
}
