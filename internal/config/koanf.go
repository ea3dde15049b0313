// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/unisearch/internal/match"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/unisearch/config.yaml",
	"/etc/unisearch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:      "/data/unisearch.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Server: ServerConfig{
			Port:        8000,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		API: APIConfig{
			DefaultPageSize: 50,
			MaxPageSize:     500,
		},
		Security: SecurityConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Matching: MatchingConfig{
			ExactWeight:        match.DefaultExactWeight,
			PartialWeight:      match.DefaultPartialWeight,
			TokenSortWeight:    match.DefaultTokenSortWeight,
			TokenSetWeight:     match.DefaultTokenSetWeight,
			Threshold:          match.DefaultThreshold,
			DuplicateThreshold: match.DuplicateThreshold,
			Strategy:           "greedy",
			ScopeByCountry:     true,
			CacheSize:          10000,
		},
		Sources: SourcesConfig{
			QSCSVPath:       "/data/qs_rankings.csv",
			QSSkipRows:      4,
			FeedbackCSVPath: "",
		},
		Sync: SyncConfig{
			Interval:  time.Hour,
			MaxAge:    24 * time.Hour,
			OnStartup: true,
			Timeout:   10 * time.Minute,
			StateDir:  "/data/sync-state",
		},
		Recommend: RecommendConfig{
			MinScore:        20,
			BudgetTolerance: 1.2,
			DefaultLimit:    10,
			MaxLimit:        50,
			Workers:         0,
		},
	}
}

// Default returns the built-in defaults without reading any file or
// environment variable.
func Default() *Config {
	return defaultConfig()
}

// Load loads configuration using koanf with layered sources:
//  1. Defaults (from defaultConfig())
//  2. Config file (optional, from CONFIG_PATH or default paths)
//  3. Environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := FindConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// FindConfigFile returns CONFIG_PATH when it exists, else the first existing
// default path, or "" when there is no config file.
func FindConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Server
	"http_host":    "server.host",
	"http_port":    "server.port",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// API
	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",

	// Security
	"rate_limit_reqs":    "security.rate_limit_reqs",
	"rate_limit_window":  "security.rate_limit_window",
	"disable_rate_limit": "security.rate_limit_disabled",
	"cors_origins":       "security.cors_origins",
	"trusted_proxies":    "security.trusted_proxies",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Matching
	"match_exact_weight":      "matching.exact_weight",
	"match_partial_weight":    "matching.partial_weight",
	"match_token_sort_weight": "matching.token_sort_weight",
	"match_token_set_weight":  "matching.token_set_weight",
	"match_threshold":         "matching.threshold",
	"duplicate_threshold":     "matching.duplicate_threshold",
	"duplicate_strategy":      "matching.strategy",
	"match_scope_by_country":  "matching.scope_by_country",
	"normalizer_cache_size":   "matching.cache_size",

	// Sources
	"qs_csv_path":        "sources.qs_csv_path",
	"qs_skip_rows":       "sources.qs_skip_rows",
	"feedback_csv_path":  "sources.feedback_csv_path",
	"html_table_path":    "sources.html_table_path",
	"legacy_sqlite_path": "sources.legacy_sqlite_path",

	// Sync
	"sync_interval":   "sync.interval",
	"sync_max_age":    "sync.max_age",
	"sync_on_startup": "sync.on_startup",
	"sync_timeout":    "sync.timeout",
	"sync_state_dir":  "sync.state_dir",

	// Recommendations
	"recommend_min_score":        "recommend.min_score",
	"recommend_budget_tolerance": "recommend.budget_tolerance",
	"recommend_default_limit":    "recommend.default_limit",
	"recommend_max_limit":        "recommend.max_limit",
	"recommend_workers":          "recommend.workers",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DUCKDB_PATH -> database.path
//   - HTTP_PORT -> server.port
//   - QS_CSV_PATH -> sources.qs_csv_path
//   - SYNC_MAX_AGE -> sync.max_age
//
// Unknown variables map to "" and are skipped by koanf.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// The caller is responsible for synchronizing access to the reloaded config.
func WatchConfigFile(path string, callback func()) error {
	return file.Provider(path).Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
