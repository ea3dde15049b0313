// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

// Package services provides suture.Service wrappers for UniSearch components.
//
//   - HTTPServerService runs the API server and drains it on shutdown.
//   - SyncSchedulerService asks the syncer whether the store is due for a
//     refresh (empty or stale) on a fixed interval and runs a sync if so.
//   - CheckpointService periodically checkpoints DuckDB.
//
// Every wrapper returns ctx.Err() on cancellation and logs with a
// "service" field.
package services
