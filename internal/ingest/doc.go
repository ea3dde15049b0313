// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

/*
Package ingest loads the ranking and feedback sources into the canonical store.

# Sources

Every source implements Reader and yields models.RawRecord rows keyed by the
Field constants:

  - QSCSVReader: QS World University Rankings CSV export (fixed column layout
    after a preamble of DefaultQSSkipRows lines)
  - HTMLTableReader: a saved ranking page, parsed with goquery
  - LegacySQLiteReader: the universities table of a previous deployment's
    SQLite database, read with the pure-Go modernc.org/sqlite driver
  - FeedbackCSVReader: the student survey spreadsheet export

Each reader is wrapped in a gobreaker circuit breaker. A source that fails
several runs in a row is skipped without being opened until the breaker's
timeout elapses.

# Pipeline

A run performed by Syncer.Sync:

 1. Reads every ranking source and passes it through the Cleaner: names,
    countries and cities are normalized, ranks and scores parsed, survey
    metrics clamped to 0-10, invalid rows dropped, and same-country
    duplicates merged.
 2. Merges the ranking sources with the duplicate resolver.
 3. Aggregates survey responses per canonical name.
 4. Attaches the aggregated feedback with the integrator.
 5. Imports the result with database.DB.ImportUniversities.

A failing ranking source is skipped unless every one fails. A failing
feedback source only removes feedback from the run.

# State

Run statistics are saved to a StateStore after every run. BadgerState keeps
them across restarts; InMemoryState is used when no state directory is
configured and in tests.

# Scheduling

NeedsSync reports whether a run is due: when forced, when the store is
empty, or when its newest record is older than the configured maximum age.
The periodic loop lives in the supervisor's sync service.
*/
package ingest
