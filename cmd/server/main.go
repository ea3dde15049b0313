// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/unisearch/internal/api"
	"github.com/tomtom215/unisearch/internal/config"
	"github.com/tomtom215/unisearch/internal/database"
	"github.com/tomtom215/unisearch/internal/ingest"
	"github.com/tomtom215/unisearch/internal/logging"
	"github.com/tomtom215/unisearch/internal/metrics"
	"github.com/tomtom215/unisearch/internal/recommend"
	"github.com/tomtom215/unisearch/internal/supervisor"
	"github.com/tomtom215/unisearch/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	checkpointInterval = 15 * time.Minute
	shutdownTimeout    = 10 * time.Second
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	watchLogLevel()

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // sequential setup steps
func run(cfg *config.Config) error {
	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Str("environment", cfg.Server.Environment).
		Msg("Starting UniSearch with supervisor tree")
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	state, closeState, err := openSyncState(cfg.Sync.StateDir)
	if err != nil {
		return err
	}
	defer closeState()

	syncer := ingest.NewFromConfig(cfg, db, state)

	engine, err := recommend.NewEngine(cfg.Recommend.EngineConfig(), logging.WithComponent("recommend"))
	if err != nil {
		return fmt.Errorf("initialize recommendation engine: %w", err)
	}

	// Context for graceful shutdown; manual syncs started over HTTP run on it
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := api.NewHandler(db, engine, syncer, cfg)
	defer handler.Close()
	handler.SetBackgroundContext(ctx)
	syncer.SetOnComplete(handler.OnSyncCompleted)

	if n, err := db.CountUniversities(ctx); err == nil {
		metrics.DBUniversities.Set(float64(n))
		logging.Info().Int("universities", n).Msg("Catalog loaded")
	}

	mw := api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security))
	router := api.NewRouter(handler, mw)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  shutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	tree.AddDataService(services.NewCheckpointService(db, checkpointInterval, logging.WithComponent("checkpoint")))

	tree.AddIngestService(services.NewSyncSchedulerService(syncer, services.SyncSchedulerConfig{
		OnStartup: cfg.Sync.OnStartup,
		Interval:  cfg.Sync.Interval,
		MaxAge:    cfg.Sync.MaxAge,
	}, logging.WithComponent("sync-scheduler")))

	tree.AddAPIService(services.NewHTTPServerService(server, shutdownTimeout, logging.WithComponent("http")))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// The channel receives exactly one value and is never closed
	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		treeErr = <-errCh
	case treeErr = <-errCh:
		cancel()
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	var runErr error
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		runErr = fmt.Errorf("supervisor tree: %w", treeErr)
	}
	return runErr
}

// watchLogLevel reapplies the log level whenever the config file changes.
// Every other setting needs a restart.
func watchLogLevel() {
	path := config.FindConfigFile()
	if path == "" {
		return
	}
	err := config.WatchConfigFile(path, func() {
		next, err := config.Load()
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Ignoring invalid config change")
			return
		}
		logging.SetLevelString(next.Logging.Level)
		logging.Info().Str("level", next.Logging.Level).Msg("Log level reloaded")
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watch disabled")
	}
}

// openSyncState opens the Badger sync state under dir, or an in-memory
// store when dir is empty.
func openSyncState(dir string) (ingest.StateStore, func(), error) {
	if dir == "" {
		logging.Warn().Msg("SYNC_STATE_DIR not set, sync history will not survive restarts")
		return ingest.NewInMemoryState(), func() {}, nil
	}
	state, err := ingest.OpenBadgerState(dir)
	if err != nil {
		return nil, nil, err
	}
	return state, func() {
		if err := state.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing sync state")
		}
	}, nil
}
