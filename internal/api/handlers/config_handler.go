package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thanhnp/chain-explorer/internal/config"
)

// ConfigHandler exposes the client-facing configuration read-only
type ConfigHandler struct {
	wallet    config.WalletConfig
	contracts config.ContractsConfig
}

// NewConfigHandler creates a new ConfigHandler
func NewConfigHandler(wallet config.WalletConfig, contracts config.ContractsConfig) *ConfigHandler {
	return &ConfigHandler{
		wallet:    wallet,
		contracts: contracts,
	}
}

// GetWallet returns the wallet connector registry
// GET /api/config/wallet
func (h *ConfigHandler) GetWallet(c *gin.Context) {
	c.JSON(http.StatusOK, h.wallet)
}

// GetContracts returns the compiler and network configuration
// GET /api/config/contracts
func (h *ConfigHandler) GetContracts(c *gin.Context) {
	c.JSON(http.StatusOK, h.contracts)
}
