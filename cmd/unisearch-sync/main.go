// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

// Command unisearch-sync runs one ingestion pass and exits.
//
// It reads the same configuration as the server, so a cron job or container
// init step can refresh the catalog without starting the API:
//
//	unisearch-sync            # sync only when the catalog is empty or stale
//	unisearch-sync -force     # always sync
//	unisearch-sync -dry-run   # report whether a sync is due
//
// The run summary is written to stdout as JSON. The exit status is 1 when
// the run fails.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"

	"github.com/tomtom215/unisearch/internal/config"
	"github.com/tomtom215/unisearch/internal/database"
	"github.com/tomtom215/unisearch/internal/ingest"
	"github.com/tomtom215/unisearch/internal/logging"
)

func main() {
	force := flag.Bool("force", false, "sync even when the catalog is fresh")
	dryRun := flag.Bool("dry-run", false, "only report whether a sync is due")
	flag.Parse()

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *force, *dryRun); err != nil {
		logging.Error().Err(err).Msg("Sync failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, force, dryRun bool) error {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	var state ingest.StateStore = ingest.NewInMemoryState()
	if cfg.Sync.StateDir != "" {
		badgerState, err := ingest.OpenBadgerState(cfg.Sync.StateDir)
		if err != nil {
			return err
		}
		defer func() {
			if err := badgerState.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing sync state")
			}
		}()
		state = badgerState
	}

	syncer := ingest.NewFromConfig(cfg, db, state)

	reason, err := syncer.NeedsSync(ctx, force, cfg.Sync.MaxAge)
	if err != nil {
		return err
	}
	if dryRun || reason == "" {
		return writeJSON(map[string]interface{}{
			"due":    reason != "",
			"reason": reason,
		})
	}

	stats, err := syncer.Sync(ctx, reason)
	if stats != nil {
		if werr := writeJSON(stats.ToSummary(false)); werr != nil {
			logging.Warn().Err(werr).Msg("Failed to write summary")
		}
	}
	if err != nil {
		return err
	}
	return db.Checkpoint(ctx)
}

func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
