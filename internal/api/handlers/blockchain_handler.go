package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/thanhnp/chain-explorer/internal/explorer"
	"github.com/thanhnp/chain-explorer/internal/metrics"
	"github.com/thanhnp/chain-explorer/internal/models"
)

const snapshotFailedMessage = "Failed to fetch blockchain data"

// SnapshotResponse is the envelope of the dashboard endpoint
type SnapshotResponse struct {
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`
	Data    *models.Snapshot `json:"data"`
}

// BlockchainHandler serves the dashboard snapshot
type BlockchainHandler struct {
	logger  *logrus.Logger
	service *explorer.Service
}

// NewBlockchainHandler creates a new BlockchainHandler
func NewBlockchainHandler(logger *logrus.Logger, service *explorer.Service) *BlockchainHandler {
	return &BlockchainHandler{
		logger:  logger,
		service: service,
	}
}

// Get returns network stats with the latest blocks and transactions.
// A failed fetch still answers 200, with success false and placeholder data.
// GET /api/blockchain
func (h *BlockchainHandler) Get(c *gin.Context) {
	snapshot, err := h.service.Snapshot(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Error fetching blockchain data")
		metrics.SnapshotRequests.WithLabelValues(metrics.OutcomeFallback).Inc()
		c.JSON(http.StatusOK, SnapshotResponse{
			Success: false,
			Error:   snapshotFailedMessage,
			Data:    h.service.FallbackSnapshot(),
		})
		return
	}

	metrics.SnapshotRequests.WithLabelValues(metrics.OutcomeSuccess).Inc()
	c.JSON(http.StatusOK, SnapshotResponse{
		Success: true,
		Data:    snapshot,
	})
}
