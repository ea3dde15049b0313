// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package match

import (
	"fmt"
	"math"
)

// Default tuning for cross-source matching.
const (
	DefaultExactWeight     = 0.30
	DefaultPartialWeight   = 0.20
	DefaultTokenSortWeight = 0.25
	DefaultTokenSetWeight  = 0.25
	DefaultThreshold       = 80.0

	// DuplicateThreshold is the stricter exact-order ratio used for
	// same-source collisions. Pairs must score strictly above it.
	DuplicateThreshold = 85.0
)

// Config holds the combination weights and acceptance threshold.
type Config struct {
	ExactWeight     float64 `koanf:"exact_weight"`
	PartialWeight   float64 `koanf:"partial_weight"`
	TokenSortWeight float64 `koanf:"token_sort_weight"`
	TokenSetWeight  float64 `koanf:"token_set_weight"`

	// Threshold is inclusive: a combined score equal to it is accepted.
	Threshold float64 `koanf:"threshold"`
}

// DefaultConfig returns the standard weights (0.30/0.20/0.25/0.25) and a
// threshold of 80.
func DefaultConfig() Config {
	return Config{
		ExactWeight:     DefaultExactWeight,
		PartialWeight:   DefaultPartialWeight,
		TokenSortWeight: DefaultTokenSortWeight,
		TokenSetWeight:  DefaultTokenSetWeight,
		Threshold:       DefaultThreshold,
	}
}

// Validate checks that weights are non-negative and sum to 1, and that the
// threshold lies in [0,100].
func (c Config) Validate() error {
	weights := []float64{c.ExactWeight, c.PartialWeight, c.TokenSortWeight, c.TokenSetWeight}
	sum := 0.0
	for _, w := range weights {
		if w < 0 || math.IsNaN(w) {
			return fmt.Errorf("match weights must be non-negative, got %v", weights)
		}
		sum += w
	}
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("match weights must sum to 1, got %.4f", sum)
	}
	if c.Threshold < 0 || c.Threshold > 100 {
		return fmt.Errorf("match threshold must be within [0,100], got %v", c.Threshold)
	}
	return nil
}

// Composite returns the weighted similarity for this configuration.
func (c Config) Composite() Composite {
	return Composite{
		Exact:     c.ExactWeight,
		Partial:   c.PartialWeight,
		TokenSort: c.TokenSortWeight,
		TokenSet:  c.TokenSetWeight,
	}
}
