// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

/*
Package logging provides the process-wide zerolog logger used by every
UniSearch component.

The global logger is usable before Init is called (JSON at info level on
stderr). cmd/server and cmd/unisearch-sync call Init with the logging section
of the loaded configuration.

Usage:

	logging.Init(logging.Config{Level: "debug", Format: "console"})

	logging.Info().Int("records", n).Msg("QS rankings loaded")
	logging.Err(err).Str("source", "feedback").Msg("Source load failed")

	// Request-scoped logging carries request_id and sync_run_id fields
	logging.Ctx(ctx).Warn().Int("dropped", d).Msg("Unmatched feedback records")

Libraries that expect a *slog.Logger (sutureslog in the supervisor tree)
receive one backed by the same zerolog output through NewSlogLogger.

Always terminate an event chain with Msg or Send; an unterminated event is
never written.
*/
package logging
