// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

// Package database is the canonical university store, backed by DuckDB.
//
// # Overview
//
// The store holds one row per institution in the universities table. Rows
// are written only by ImportUniversities at the end of a sync and are read
// by the query API and the recommendation engine.
//
// # Architecture
//
//   - database.go: connection lifecycle (open, initialize, checkpoint on close)
//   - database_connection.go: pool configuration and connection error detection
//   - database_schema.go: universities table and lookup indexes
//   - database_utils.go: profiling, context timeouts, query metrics
//   - crud_universities.go: insert, get, list, advanced search, snapshot
//   - crud_stats.go: countries, languages, country and platform statistics
//   - import.go: transactional create-or-update import
//   - query/: parameterized WHERE and ORDER BY construction
//
// # Import Semantics
//
// An incoming record is matched to a stored record in the same normalized
// country by equal canonical name or a Levenshtein ratio above 90. Matched
// records are updated field by field: ranks only get better, ranking scores
// and the rigor, diversity and student life metrics only rise, and other
// fields take any incoming value. Unmatched records are created.
//
// # Usage Example
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	stats, err := db.ImportUniversities(ctx, records, database.ImportOptions{UpdateExisting: true})
//	page, total, err := db.ListUniversities(ctx, models.DefaultListParams())
//
// # Thread Safety
//
// DB is safe for concurrent use. Imports are serialized with a mutex; reads
// run on the connection pool.
//
// # Error Handling
//
// GetUniversity returns ErrNotFound for unknown IDs. Every other error is
// wrapped with the failing operation.
package database
