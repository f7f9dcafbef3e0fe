package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/thanhnp/chain-explorer/internal/api"
	"github.com/thanhnp/chain-explorer/internal/config"
	"github.com/thanhnp/chain-explorer/internal/datasource"
	"github.com/thanhnp/chain-explorer/internal/explorer"
	"github.com/thanhnp/chain-explorer/internal/logging"
	"github.com/thanhnp/chain-explorer/internal/storage"
	"github.com/thanhnp/chain-explorer/internal/sync"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	logger.Info("Starting chain explorer server...")

	// Create context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var stores *storage.Stores
	if cfg.Explorer.Source == config.SourceStore || cfg.Explorer.Record || cfg.Sync.Enabled {
		logger.WithField("path", cfg.Pebble.Path).Info("Opening Pebble database")
		stores, err = storage.Open(cfg.Pebble.Path, cfg.Pebble.CacheSizeMB<<20)
		if err != nil {
			return fmt.Errorf("failed to open pebble database: %w", err)
		}
		defer func() {
			if err := stores.Close(); err != nil {
				logger.WithError(err).Error("Error closing database")
			}
		}()
	}

	source, closeSource, err := buildSource(ctx, logger, cfg, stores)
	if err != nil {
		return err
	}
	defer closeSource()

	if cfg.Sync.Enabled {
		upstream, closeUpstream, err := openSource(ctx, logger, cfg.Sync.Source, cfg, stores)
		if err != nil {
			return fmt.Errorf("sync upstream: %w", err)
		}
		defer closeUpstream()

		syncer := sync.NewSyncer(logger, datasource.Instrument("sync_"+cfg.Sync.Source, upstream), stores, cfg.Sync.Interval, cfg.Sync.Depth)
		if err := syncer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start syncer: %w", err)
		}
		defer func() {
			if err := syncer.Stop(); err != nil {
				logger.WithError(err).Error("Error stopping syncer")
			}
		}()
	}

	service := explorer.NewService(source, cfg.Explorer)
	router := api.NewRouter(logger, cfg, service)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", addr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	logger.Info("Shutting down...")

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("HTTP server shutdown error")
	}

	logger.Info("Server stopped")
	return nil
}

// buildSource opens the served data source and layers instrumentation and
// recording on top of it
func buildSource(ctx context.Context, logger *logrus.Logger, cfg *config.Config, stores *storage.Stores) (datasource.Source, func(), error) {
	source, closeFn, err := openSource(ctx, logger, cfg.Explorer.Source, cfg, stores)
	if err != nil {
		return nil, nil, err
	}
	logger.WithField("source", cfg.Explorer.Source).Info("Data source ready")

	source = datasource.Instrument(cfg.Explorer.Source, source)

	// A store source already reads what is recorded
	if cfg.Explorer.Record && cfg.Explorer.Source != config.SourceStore {
		logger.Info("Recording fetched chain data into Pebble")
		source = datasource.NewRecorder(logger, source, stores)
	}

	return source, closeFn, nil
}

func openSource(ctx context.Context, logger *logrus.Logger, kind string, cfg *config.Config, stores *storage.Stores) (datasource.Source, func(), error) {
	switch kind {
	case config.SourceMock:
		return datasource.NewMock(), func() {}, nil
	case config.SourceNode:
		node, err := datasource.DialNode(ctx, logger, cfg.Node)
		if err != nil {
			return nil, nil, err
		}
		return node, node.Close, nil
	case config.SourceStore:
		return datasource.NewStore(stores), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown explorer source %q", kind)
	}
}
