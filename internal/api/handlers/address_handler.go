package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/thanhnp/chain-explorer/internal/explorer"
	"github.com/thanhnp/chain-explorer/internal/metrics"
)

// AddressHandler handles address-related API requests
type AddressHandler struct {
	logger  *logrus.Logger
	service *explorer.Service
}

// NewAddressHandler creates a new AddressHandler
func NewAddressHandler(logger *logrus.Logger, service *explorer.Service) *AddressHandler {
	return &AddressHandler{
		logger:  logger,
		service: service,
	}
}

// Get returns address details. The path value is echoed back as is,
// including empty values and values containing slashes.
// GET /api/explorer/address/*address
func (h *AddressHandler) Get(c *gin.Context) {
	address := strings.TrimPrefix(c.Param("address"), "/")

	profile, err := h.service.AddressProfile(c.Request.Context(), address)
	if err != nil {
		h.logger.WithError(err).WithField("address", address).Error("Error fetching address")
		metrics.AddressRequests.WithLabelValues(metrics.OutcomeError).Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch address"})
		return
	}

	metrics.AddressRequests.WithLabelValues(metrics.OutcomeSuccess).Inc()
	c.JSON(http.StatusOK, profile)
}
