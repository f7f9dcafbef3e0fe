package explorer

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thanhnp/chain-explorer/internal/models"
)

const (
	firstSeenAge    = 30 * 24 * time.Hour
	lastActivityAge = time.Hour
)

// AddressProfile returns the detail view for address. The address is echoed
// verbatim and is not validated; every other field is sample data.
func (s *Service) AddressProfile(ctx context.Context, address string) (*models.AddressProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := s.now()

	return &models.AddressProfile{
		Address: address,
		Type:    "Contract",
		Balance: map[string]decimal.Decimal{
			"ETH":  decimal.RequireFromString("1250.75"),
			"USDC": decimal.NewFromInt(50000),
		},
		USDValue: map[string]decimal.Decimal{
			"ETH":  decimal.NewFromInt(2501500),
			"USDC": decimal.NewFromInt(50000),
		},
		Statistics: models.AddressStatistics{
			TotalTransactions:    1247,
			SentTransactions:     523,
			ReceivedTransactions: 724,
			ContractCalls:        892,
		},
		Activity: models.AddressActivity{
			FirstSeen:    now.Add(-firstSeenAge).Unix(),
			LastActivity: now.Add(-lastActivityAge).Unix(),
		},
		ContractInfo: models.ContractInfo{
			Name:     "ExplorerToken",
			Compiler: "Solidity 0.8.19",
			Verified: true,
		},
	}, nil
}
