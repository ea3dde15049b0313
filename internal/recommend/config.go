// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package recommend

import (
	"errors"
	"fmt"
	"runtime"
)

// Config holds engine parameters.
type Config struct {
	// MinScore drops candidates scoring at or below it.
	MinScore float64 `json:"min_score" koanf:"min_score"`

	// BudgetTolerance lets tuition exceed the budget by this factor
	// before a candidate is filtered out.
	BudgetTolerance float64 `json:"budget_tolerance" koanf:"budget_tolerance"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits" koanf:"limits"`

	// SimilarRankWindow bounds the QS rank distance for similar universities.
	SimilarRankWindow int `json:"similar_rank_window" koanf:"similar_rank_window"`

	// Trending thresholds.
	Trending TrendingConfig `json:"trending" koanf:"trending"`

	// Workers bounds concurrent scoring goroutines (0 = GOMAXPROCS).
	Workers int `json:"workers" koanf:"workers"`
}

// LimitsConfig contains default and maximum result counts.
type LimitsConfig struct {
	DefaultRecommendations int `json:"default_recommendations" koanf:"default_recommendations"`
	MaxRecommendations     int `json:"max_recommendations" koanf:"max_recommendations"`
	DefaultSimilar         int `json:"default_similar" koanf:"default_similar"`
	MaxSimilar             int `json:"max_similar" koanf:"max_similar"`
	DefaultTrending        int `json:"default_trending" koanf:"default_trending"`
	MaxTrending            int `json:"max_trending" koanf:"max_trending"`
}

// TrendingConfig holds the minimum metrics of a trending destination.
type TrendingConfig struct {
	MinStudentLife       float64 `json:"min_student_life" koanf:"min_student_life"`
	MinCulturalDiversity float64 `json:"min_cultural_diversity" koanf:"min_cultural_diversity"`
	MinAcademicRigor     float64 `json:"min_academic_rigor" koanf:"min_academic_rigor"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		MinScore:        20,
		BudgetTolerance: 1.2,
		Limits: LimitsConfig{
			DefaultRecommendations: 10,
			MaxRecommendations:     50,
			DefaultSimilar:         5,
			MaxSimilar:             20,
			DefaultTrending:        10,
			MaxTrending:            20,
		},
		SimilarRankWindow: 200,
		Trending: TrendingConfig{
			MinStudentLife:       7,
			MinCulturalDiversity: 7,
			MinAcademicRigor:     6,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.MinScore < 0 || c.MinScore >= 100 {
		errs = append(errs, fmt.Errorf("min_score must be in [0,100), got %v", c.MinScore))
	}
	if c.BudgetTolerance < 1 {
		errs = append(errs, fmt.Errorf("budget_tolerance must be >= 1, got %v", c.BudgetTolerance))
	}
	if c.SimilarRankWindow < 0 {
		errs = append(errs, fmt.Errorf("similar_rank_window must be non-negative, got %d", c.SimilarRankWindow))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be non-negative, got %d", c.Workers))
	}

	limits := []struct {
		name        string
		def, maxVal int
	}{
		{"recommendations", c.Limits.DefaultRecommendations, c.Limits.MaxRecommendations},
		{"similar", c.Limits.DefaultSimilar, c.Limits.MaxSimilar},
		{"trending", c.Limits.DefaultTrending, c.Limits.MaxTrending},
	}
	for _, l := range limits {
		if l.def < 1 || l.def > l.maxVal {
			errs = append(errs, fmt.Errorf("default %s limit must be in [1,%d], got %d", l.name, l.maxVal, l.def))
		}
	}

	return errors.Join(errs...)
}

func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}
