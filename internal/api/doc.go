// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

/*
Package api exposes the university catalog and the recommendation engine
over HTTP using the Chi router.

# Endpoints

All routes live under /api/v1:

	GET  /universities                  list with search, country, sort and paging
	GET  /universities/search/advanced  multi-criteria search
	GET  /universities/{id}             one record
	GET  /filters/countries             distinct countries
	GET  /filters/countries/stats       per-country aggregates
	GET  /filters/languages             instruction languages with counts
	GET  /filters/stats                 catalog-wide aggregates
	POST /recommendations               score the catalog against a user profile
	GET  /recommendations/similar/{id}  same-country universities of close rank
	GET  /recommendations/trending      strong student life, diversity and rigor
	POST /sync                          start an ingestion run (202, or 409 when busy)
	GET  /sync/status                   running, last or never_run
	GET  /health                        database and sync status
	GET  /health/detailed               runtime, cache and per-endpoint latency

Prometheus metrics are served at /metrics.

# Responses

Every response uses one envelope:

	{
	  "success": true,
	  "data": {...},
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}
	}

Failures set success to false and carry an error object with a code such as
VALIDATION_FAILED, NOT_FOUND or CONFLICT. Validation failures list every
offending field in error.details.

# Caching

Whole-catalog reads (filter lists, statistics and the record snapshot the
recommendation endpoints score) are cached for five minutes. The cache is
cleared whenever a sync completes; see Handler.OnSyncCompleted.

# Middleware

Request IDs, real IP extraction, panic recovery, CORS, Prometheus metrics,
per-endpoint latency tracking and gzip compression apply to every route.
Rate limits are per client IP, with separate budgets for health probes,
recommendation scoring and sync triggers.
*/
package api
