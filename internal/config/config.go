// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package config

import (
	"time"

	"github.com/tomtom215/unisearch/internal/match"
	"github.com/tomtom215/unisearch/internal/recommend"
	"github.com/tomtom215/unisearch/internal/resolve"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Matching  MatchingConfig  `koanf:"matching"`
	Sources   SourcesConfig   `koanf:"sources"`
	Sync      SyncConfig      `koanf:"sync"`
	Recommend RecommendConfig `koanf:"recommend"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // Number of DuckDB threads (0 = use NumCPU)
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development", "staging", "production"
}

// APIConfig holds API pagination settings
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds CORS and rate limiting settings. The API is read-only
// and unauthenticated; only POST /sync mutates state.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error, off.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// MatchingConfig tunes entity matching and duplicate resolution.
type MatchingConfig struct {
	ExactWeight     float64 `koanf:"exact_weight"`
	PartialWeight   float64 `koanf:"partial_weight"`
	TokenSortWeight float64 `koanf:"token_sort_weight"`
	TokenSetWeight  float64 `koanf:"token_set_weight"`

	// Threshold is the inclusive composite score a feedback record needs
	// to match a ranking record.
	Threshold float64 `koanf:"threshold"`

	// DuplicateThreshold is the exclusive ratio two same-country records
	// need to be treated as duplicates.
	DuplicateThreshold float64 `koanf:"duplicate_threshold"`

	// Strategy is "greedy" or "union_find".
	Strategy string `koanf:"strategy"`

	// ScopeByCountry restricts feedback matching to the same country.
	ScopeByCountry bool `koanf:"scope_by_country"`

	// CacheSize bounds the normalizer memo cache (0 disables it).
	CacheSize int `koanf:"cache_size"`
}

// MatcherConfig returns the matcher settings.
func (m MatchingConfig) MatcherConfig() match.Config {
	return match.Config{
		ExactWeight:     m.ExactWeight,
		PartialWeight:   m.PartialWeight,
		TokenSortWeight: m.TokenSortWeight,
		TokenSetWeight:  m.TokenSetWeight,
		Threshold:       m.Threshold,
	}
}

// ResolveStrategy returns the configured duplicate clustering strategy.
func (m MatchingConfig) ResolveStrategy() resolve.Strategy {
	return resolve.Strategy(m.Strategy)
}

// SourcesConfig locates the input datasets. Empty paths are skipped,
// except QSCSVPath which anchors every sync.
type SourcesConfig struct {
	// QSCSVPath is the QS World University Rankings CSV export.
	QSCSVPath string `koanf:"qs_csv_path"`

	// QSSkipRows is the number of preamble rows before the QS header.
	QSSkipRows int `koanf:"qs_skip_rows"`

	// FeedbackCSVPath is the student feedback spreadsheet exported as CSV.
	FeedbackCSVPath string `koanf:"feedback_csv_path"`

	// HTMLTablePath is a saved ranking page containing a ranking table.
	HTMLTablePath string `koanf:"html_table_path"`

	// LegacySQLitePath is a universities.db written by the previous system.
	LegacySQLitePath string `koanf:"legacy_sqlite_path"`
}

// SyncConfig holds data synchronization settings
type SyncConfig struct {
	// Interval is how often the scheduler checks whether a sync is due.
	Interval time.Duration `koanf:"interval"`

	// MaxAge is how old the store may get before a sync is due.
	MaxAge time.Duration `koanf:"max_age"`

	// OnStartup checks for a due sync when the scheduler starts.
	OnStartup bool `koanf:"on_startup"`

	// Timeout bounds one sync run.
	Timeout time.Duration `koanf:"timeout"`

	// StateDir holds the Badger sync state. Empty keeps state in memory.
	StateDir string `koanf:"state_dir"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	MinScore        float64 `koanf:"min_score"`
	BudgetTolerance float64 `koanf:"budget_tolerance"`
	DefaultLimit    int     `koanf:"default_limit"`
	MaxLimit        int     `koanf:"max_limit"`
	Workers         int     `koanf:"workers"`
}

// EngineConfig returns the engine configuration, keeping engine defaults
// for settings that are not exposed here.
func (r RecommendConfig) EngineConfig() *recommend.Config {
	cfg := recommend.DefaultConfig()
	cfg.MinScore = r.MinScore
	cfg.BudgetTolerance = r.BudgetTolerance
	cfg.Limits.DefaultRecommendations = r.DefaultLimit
	cfg.Limits.MaxRecommendations = r.MaxLimit
	cfg.Workers = r.Workers
	return cfg
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
