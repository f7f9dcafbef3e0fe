package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/thanhnp/chain-explorer/internal/api/handlers"
	"github.com/thanhnp/chain-explorer/internal/api/middleware"
	"github.com/thanhnp/chain-explorer/internal/config"
	"github.com/thanhnp/chain-explorer/internal/explorer"
	"github.com/thanhnp/chain-explorer/internal/metrics"
)

// Router wraps the Gin router with handlers
type Router struct {
	engine            *gin.Engine
	logger            *logrus.Logger
	corsOrigins       []string
	blockchainHandler *handlers.BlockchainHandler
	addressHandler    *handlers.AddressHandler
	configHandler     *handlers.ConfigHandler
}

// NewRouter creates a new Router with all handlers
func NewRouter(logger *logrus.Logger, cfg *config.Config, service *explorer.Service) *Router {
	gin.SetMode(gin.ReleaseMode)

	r := &Router{
		engine:            gin.New(),
		logger:            logger,
		corsOrigins:       cfg.Server.CORSOrigins,
		blockchainHandler: handlers.NewBlockchainHandler(logger, service),
		addressHandler:    handlers.NewAddressHandler(logger, service),
		configHandler:     handlers.NewConfigHandler(cfg.Wallet, cfg.Contracts),
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// setupMiddleware configures middleware
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery(r.logger))
	r.engine.Use(middleware.Logger(r.logger))
}

// setupRoutes configures API routes
func (r *Router) setupRoutes() {
	// Health check
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.engine.Group("/api")
	{
		api.GET("/blockchain", r.blockchainHandler.Get)

		// catch-all so empty and slash-containing addresses still reach the handler
		api.GET("/explorer/address/*address", r.addressHandler.Get)

		cfg := api.Group("/config")
		{
			cfg.GET("/wallet", r.configHandler.GetWallet)
			cfg.GET("/contracts", r.configHandler.GetContracts)
		}
	}
}

// Engine returns the underlying Gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Handler returns the engine wrapped with CORS handling
func (r *Router) Handler() http.Handler {
	return middleware.CORS(r.corsOrigins, r.engine)
}
