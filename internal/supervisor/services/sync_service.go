// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/unisearch/internal/ingest"
)

// SyncRunner is the part of *ingest.Syncer the scheduler drives.
type SyncRunner interface {
	NeedsSync(ctx context.Context, force bool, maxAge time.Duration) (string, error)
	Sync(ctx context.Context, reason string) (*ingest.SyncStats, error)
}

// SyncSchedulerConfig holds configuration for the sync scheduler.
type SyncSchedulerConfig struct {
	// OnStartup checks for a due sync when the service starts.
	OnStartup bool

	// Interval is how often to check. Default: 1h
	Interval time.Duration

	// MaxAge is the staleness bound passed to NeedsSync. Default: 24h
	MaxAge time.Duration
}

// SyncSchedulerService periodically refreshes the canonical store.
// A failed run is logged and retried on the next tick; it never stops
// the service.
type SyncSchedulerService struct {
	runner SyncRunner
	config SyncSchedulerConfig
	logger zerolog.Logger
	name   string
}

// NewSyncSchedulerService creates a new sync scheduler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSyncSchedulerService(runner SyncRunner, cfg SyncSchedulerConfig, logger zerolog.Logger) *SyncSchedulerService {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 24 * time.Hour
	}
	return &SyncSchedulerService{
		runner: runner,
		config: cfg,
		logger: logger.With().Str("service", "sync-scheduler").Logger(),
		name:   "sync-scheduler",
	}
}

// Serve implements suture.Service.
func (s *SyncSchedulerService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("on_startup", s.config.OnStartup).
		Dur("interval", s.config.Interval).
		Dur("max_age", s.config.MaxAge).
		Msg("sync scheduler starting")

	if s.config.OnStartup {
		s.tick(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("sync scheduler shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs one sync if the store is due for one.
func (s *SyncSchedulerService) tick(ctx context.Context) {
	reason, err := s.runner.NeedsSync(ctx, false, s.config.MaxAge)
	if err != nil {
		s.logger.Warn().Err(err).Msg("could not decide whether a sync is due")
		return
	}
	if reason == "" {
		s.logger.Debug().Msg("store is fresh, no sync needed")
		return
	}

	stats, err := s.runner.Sync(ctx, reason)
	switch {
	case errors.Is(err, ingest.ErrSyncInProgress):
		s.logger.Debug().Msg("sync already running, skipping scheduled run")
	case err != nil:
		s.logger.Warn().Err(err).Str("reason", reason).Msg("scheduled sync failed (will retry on schedule)")
	default:
		s.logger.Info().
			Str("reason", reason).
			Str("run_id", stats.RunID).
			Dur("duration", stats.Duration()).
			Msg("scheduled sync complete")
	}
}

// String returns the service name for logging.
func (s *SyncSchedulerService) String() string {
	return s.name
}
