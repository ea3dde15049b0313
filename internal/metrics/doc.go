// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed by the API server at /metrics in Prometheus text format:

	curl http://localhost:8000/metrics

# Available Metrics

Database Metrics:
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation, table
  - duckdb_query_errors_total: Failed queries (counter)
    Labels: operation, table, error_type
  - unisearch_universities: Canonical records in the store (gauge)

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Sync and Ingestion Metrics:
  - sync_duration_seconds: Sync run duration (histogram)
  - sync_records_processed_total: Canonical records written (counter)
  - sync_errors_total: Failed syncs (counter)
    Labels: error_type (source, structural, database, canceled, other)
  - sync_last_success_timestamp: Unix timestamp of last successful sync (gauge)
  - ingest_records_total: Source rows (counter)
    Labels: source, outcome (read, dropped, invalid)
  - integrate_match_results_total: Feedback matching outcome (counter)
    Labels: result (matched, unmatched)
  - resolve_duplicates_merged_total: Records folded by duplicate resolution (counter)

Recommendation Metrics:
  - recommendation_duration_seconds: Engine latency (histogram)
    Labels: kind (profile, similar, trending)
  - recommendations_returned: Results per profile request (histogram)

Cache Metrics:
  - cache_hits, cache_misses, cache_entries (gauges)
    Labels: cache

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Labels name, result (counter)
  - circuit_breaker_consecutive_failures (gauge)
  - circuit_breaker_transitions_total: Labels name, from, to (counter)

# Example Queries

Sync failure rate over the last day:

	sum(increase(sync_errors_total[24h])) by (error_type)

Share of feedback rows that found no ranking-table match:

	rate(integrate_match_results_total{result="unmatched"}[1h])
	  / ignoring(result) sum(rate(integrate_match_results_total[1h]))

95th percentile recommendation latency:

	histogram_quantile(0.95, rate(recommendation_duration_seconds_bucket[5m]))

# Thread Safety

All recording functions are safe for concurrent use.
*/
package metrics
