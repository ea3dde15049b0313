// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package recommend

import (
	"errors"

	"github.com/tomtom215/unisearch/internal/models"
)

// ErrInvalidLimit is returned when a requested limit is outside its range.
var ErrInvalidLimit = errors.New("limit out of range")

// Recommendation is one scored university.
type Recommendation struct {
	University models.UniversityRecord `json:"university"`

	// MatchScore is the profile fit in [0,100], rounded to one decimal.
	MatchScore float64 `json:"match_score"`

	// Reasons lists the criteria that stood out.
	Reasons []string `json:"reasons"`

	// Confidence is min(0.95, MatchScore/100 + 0.1).
	Confidence float64 `json:"confidence"`
}

// Response is the result of one recommendation request.
type Response struct {
	Recommendations []Recommendation `json:"recommendations"`

	// TotalMatches counts candidates above MinScore before the limit applied.
	TotalMatches int `json:"total_matches"`

	// Filtered counts records removed by hard constraints.
	Filtered int `json:"filtered"`

	LatencyMS int64 `json:"latency_ms"`
}

// Metrics tracks engine performance.
type Metrics struct {
	RequestCount int64 `json:"request_count"`

	// ScoredCount is the number of records scored across all requests.
	ScoredCount int64 `json:"scored_count"`

	ErrorCount int64 `json:"error_count"`

	// AverageLatencyMS is the mean Recommend latency.
	AverageLatencyMS float64 `json:"average_latency_ms"`
}
