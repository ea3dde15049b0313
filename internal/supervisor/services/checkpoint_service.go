// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Checkpointer flushes the store's write-ahead log. Satisfied by *database.DB.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// CheckpointService periodically checkpoints the DuckDB store so that a
// crash after a large import replays little WAL on the next start.
type CheckpointService struct {
	store    Checkpointer
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCheckpointService creates a checkpoint service. Interval defaults to 15m.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCheckpointService(store Checkpointer, interval time.Duration, logger zerolog.Logger) *CheckpointService {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &CheckpointService{
		store:    store,
		interval: interval,
		logger:   logger.With().Str("service", "checkpoint").Logger(),
		name:     "duckdb-checkpoint",
	}
}

// Serve implements suture.Service. A final checkpoint runs on shutdown.
func (s *CheckpointService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			if err := s.store.Checkpoint(flushCtx); err != nil {
				s.logger.Warn().Err(err).Msg("final checkpoint failed")
			}
			cancel()
			return ctx.Err()

		case <-ticker.C:
			if err := s.store.Checkpoint(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("checkpoint failed")
			}
		}
	}
}

// String returns the service name for logging.
func (s *CheckpointService) String() string {
	return s.name
}
