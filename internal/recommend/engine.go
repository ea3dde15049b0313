// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/unisearch/internal/models"
	"github.com/tomtom215/unisearch/internal/parse"
)

const maxConfidence = 0.95

// Engine filters, scores and ranks universities for a profile.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	requestCount atomic.Int64
	scoredCount  atomic.Int64
	errorCount   atomic.Int64
	latencyTotal atomic.Int64 // microseconds
}

// NewEngine creates an engine. A nil cfg selects DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Recommend returns up to limit records that pass the hard constraints of
// profile, ordered by match score descending. Equal scores keep input order.
// A limit of 0 selects the configured default. Unset importance weights
// default to 3; any other invalid profile is rejected.
//
//nolint:gocritic // profile is a request value
func (e *Engine) Recommend(ctx context.Context, records []models.UniversityRecord, profile models.UserProfile, limit int) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	limit, err := resolveLimit(limit, e.config.Limits.DefaultRecommendations, e.config.Limits.MaxRecommendations)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}
	profile = profile.WithDefaults()
	if err := profile.Validate(); err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	candidates := make([]int, 0, len(records))
	for i := range records {
		if passesHardFilters(records[i], profile, e.config.BudgetTolerance) {
			candidates = append(candidates, i)
		}
	}

	scored, err := e.scoreAll(ctx, records, candidates, profile)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})

	resp := &Response{
		TotalMatches: len(scored),
		Filtered:     len(records) - len(candidates),
	}
	if len(scored) > limit {
		scored = scored[:limit]
	}
	resp.Recommendations = scored

	elapsed := time.Since(start)
	resp.LatencyMS = elapsed.Milliseconds()
	e.latencyTotal.Add(elapsed.Microseconds())

	e.logger.Debug().
		Int("records", len(records)).
		Int("candidates", len(candidates)).
		Int("matches", resp.TotalMatches).
		Int("returned", len(resp.Recommendations)).
		Dur("duration", elapsed).
		Msg("Recommendations generated")

	return resp, nil
}

// scoreAll scores the candidate indexes on a bounded worker pool and keeps
// those above MinScore, in candidate order.
//
//nolint:gocritic // profile is a request value
func (e *Engine) scoreAll(ctx context.Context, records []models.UniversityRecord, candidates []int, profile models.UserProfile) ([]Recommendation, error) {
	results := make([]*Recommendation, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.workers())
	for slot, idx := range candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			score, reasons := Score(records[idx], profile)
			e.scoredCount.Add(1)
			if score <= e.config.MinScore {
				return nil
			}
			rounded := parse.RoundTo(score, 1)
			if reasons == nil {
				reasons = []string{}
			}
			results[slot] = &Recommendation{
				University: records[idx],
				MatchScore: rounded,
				Reasons:    reasons,
				Confidence: math.Min(maxConfidence, parse.RoundTo(rounded/100+0.1, 3)),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Recommendation, 0, len(candidates))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

// Similar returns records in the same country as base, excluding base,
// within SimilarRankWindow QS places when base is ranked. Results keep
// input order.
//
//nolint:gocritic // base is a read-only record
func (e *Engine) Similar(records []models.UniversityRecord, base models.UniversityRecord, limit int) ([]models.UniversityRecord, error) {
	limit, err := resolveLimit(limit, e.config.Limits.DefaultSimilar, e.config.Limits.MaxSimilar)
	if err != nil {
		return nil, err
	}
	out := make([]models.UniversityRecord, 0, limit)
	for i := range records {
		if len(out) == limit {
			break
		}
		if isSimilar(base, records[i], e.config.SimilarRankWindow) {
			out = append(out, records[i])
		}
	}
	return out, nil
}

// Trending returns records with strong student life, diversity and rigor,
// best QS rank first (unranked last), then by student life descending.
func (e *Engine) Trending(records []models.UniversityRecord, limit int) ([]models.UniversityRecord, error) {
	limit, err := resolveLimit(limit, e.config.Limits.DefaultTrending, e.config.Limits.MaxTrending)
	if err != nil {
		return nil, err
	}
	var out []models.UniversityRecord
	for i := range records {
		if isTrending(records[i], e.config.Trending) {
			out = append(out, records[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		less, equal := rankLess(out[i].QSRank, out[j].QSRank)
		if !equal {
			return less
		}
		return *out[i].StudentLife > *out[j].StudentLife
	})
	if len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []models.UniversityRecord{}
	}
	return out, nil
}

// GetMetrics returns a snapshot of the engine counters.
func (e *Engine) GetMetrics() Metrics {
	m := Metrics{
		RequestCount: e.requestCount.Load(),
		ScoredCount:  e.scoredCount.Load(),
		ErrorCount:   e.errorCount.Load(),
	}
	if m.RequestCount > 0 {
		m.AverageLatencyMS = float64(e.latencyTotal.Load()) / float64(m.RequestCount) / 1000
	}
	return m
}

// GetConfig returns the engine configuration.
func (e *Engine) GetConfig() *Config {
	return e.config
}

func resolveLimit(limit, def, maxVal int) (int, error) {
	if limit == 0 {
		return def, nil
	}
	if limit < 1 || limit > maxVal {
		return 0, fmt.Errorf("%w: %d not in [1,%d]", ErrInvalidLimit, limit, maxVal)
	}
	return limit, nil
}
