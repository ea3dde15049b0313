// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

// Command server runs the UniSearch HTTP API.
//
// UniSearch merges university ranking tables with student feedback into one
// canonical catalog stored in DuckDB, and serves search, statistics and
// profile-based recommendations over a JSON API.
//
// # Startup
//
//  1. Configuration: defaults, then config.yaml, then environment (Koanf v2)
//  2. Database: DuckDB with schema and indexes
//  3. Sync state: Badger directory, or in memory when SYNC_STATE_DIR is empty
//  4. Syncer: one reader per configured source
//  5. Recommendation engine and HTTP handlers
//  6. Supervisor tree: checkpoint, sync scheduler and HTTP services
//
// # Configuration
//
// Common environment variables:
//
//	DUCKDB_PATH           database file (default /data/unisearch.duckdb)
//	HTTP_PORT             listen port (default 8000)
//	QS_CSV_PATH           QS rankings export, the primary source
//	FEEDBACK_CSV_PATH     student feedback export (optional)
//	HTML_TABLE_PATH       saved ranking page (optional)
//	LEGACY_SQLITE_PATH    catalog of an earlier deployment (optional)
//	SYNC_INTERVAL         how often to check whether a sync is due (default 1h)
//	SYNC_MAX_AGE          catalog age that triggers a sync (default 24h)
//	LOG_LEVEL, LOG_FORMAT logging (default info, json)
//
// # Signal Handling
//
// SIGINT and SIGTERM stop the supervisor tree: the HTTP server drains
// in-flight requests, a running sync is canceled and a final checkpoint is
// written before the database closes.
package main
