// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

/*
Package config provides centralized configuration management for UniSearch.

Configuration is layered with koanf. Later layers override earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml,
    /etc/unisearch/config.yaml or /etc/unisearch/config.yml
 3. Environment variables

# Configuration Structure

  - DatabaseConfig: DuckDB store location and tuning
  - ServerConfig: HTTP listener and environment
  - APIConfig: pagination bounds
  - SecurityConfig: CORS and per-IP rate limiting
  - LoggingConfig: zerolog level and output format
  - MatchingConfig: fuzzy matcher weights and duplicate resolution
  - SourcesConfig: input dataset paths
  - SyncConfig: ingestion schedule and state directory
  - RecommendConfig: recommendation engine tuning

# Environment Variables

Database:
  - DUCKDB_PATH: Database file path (default: /data/unisearch.duckdb)
  - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 1GB)
  - DUCKDB_THREADS: DuckDB worker threads (default: 0, all CPUs)

Server:
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 8000)
  - HTTP_TIMEOUT: Request timeout (default: 30s)
  - ENVIRONMENT: development, staging or production

Security:
  - RATE_LIMIT_REQS: Requests per window per IP (default: 100)
  - RATE_LIMIT_WINDOW: Window length (default: 1m)
  - DISABLE_RATE_LIMIT: Turn rate limiting off
  - CORS_ORIGINS: Comma-separated allowed origins (default: *)
  - TRUSTED_PROXIES: Comma-separated proxy IPs

Matching:
  - MATCH_THRESHOLD: Composite score needed for a match (default: 80)
  - MATCH_EXACT_WEIGHT, MATCH_PARTIAL_WEIGHT, MATCH_TOKEN_SORT_WEIGHT,
    MATCH_TOKEN_SET_WEIGHT: Composite weights (must sum to 1)
  - DUPLICATE_THRESHOLD: Same-country duplicate ratio (default: 85)
  - DUPLICATE_STRATEGY: greedy or union_find (default: greedy)
  - MATCH_SCOPE_BY_COUNTRY: Only match feedback within its country (default: true)
  - NORMALIZER_CACHE_SIZE: Memoized normalizations (default: 10000)

Sources:
  - QS_CSV_PATH: QS rankings CSV (required)
  - QS_SKIP_ROWS: Preamble rows before the header (default: 4)
  - FEEDBACK_CSV_PATH: Student feedback CSV (optional)
  - HTML_TABLE_PATH: Saved ranking page (optional)
  - LEGACY_SQLITE_PATH: Previous universities.db (optional)

Sync:
  - SYNC_INTERVAL: How often staleness is checked (default: 1h)
  - SYNC_MAX_AGE: Age after which data is refreshed (default: 24h)
  - SYNC_ON_STARTUP: Check on startup (default: true)
  - SYNC_TIMEOUT: Bound on one run (default: 10m)
  - SYNC_STATE_DIR: Badger state directory, empty for in-memory

Recommendations:
  - RECOMMEND_MIN_SCORE: Scores at or below are dropped (default: 20)
  - RECOMMEND_BUDGET_TOLERANCE: Tuition may exceed budget by this factor (default: 1.2)
  - RECOMMEND_DEFAULT_LIMIT, RECOMMEND_MAX_LIMIT: Result limits (default: 10, 50)
  - RECOMMEND_WORKERS: Scoring goroutines (default: 0, GOMAXPROCS)

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error, off (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: Include file:line (default: false)

# Usage Example

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	engine, err := recommend.NewEngine(cfg.Recommend.EngineConfig(), logger)

# Thread Safety

A loaded *Config is read-only and safe to share. WatchConfigFile callers
must synchronize their own reloads.
*/
package config
