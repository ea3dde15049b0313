// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package match

import (
	"github.com/tomtom215/unisearch/internal/models"
	"github.com/tomtom215/unisearch/internal/normalize"
)

// Matcher maps names from one set onto their best counterpart in another.
// It holds no mutable state beyond the normalizer's memo and is safe for
// concurrent use.
type Matcher struct {
	cfg        Config
	similarity Similarity
	normalizer *normalize.Normalizer
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithSimilarity replaces the composite similarity.
func WithSimilarity(s Similarity) Option {
	return func(m *Matcher) { m.similarity = s }
}

// WithNormalizer sets the normalizer applied to both sides before scoring.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(m *Matcher) { m.normalizer = n }
}

// New creates a Matcher. The similarity defaults to the weighted composite
// of cfg and the normalizer to an uncached one.
func New(cfg Config, opts ...Option) *Matcher {
	m := &Matcher{cfg: cfg}
	for _, opt := range opts {
		opt(m)
	}
	if m.similarity == nil {
		m.similarity = cfg.Composite()
	}
	if m.normalizer == nil {
		m.normalizer = normalize.New(0)
	}
	return m
}

// Threshold returns the inclusive acceptance threshold.
func (m *Matcher) Threshold() float64 { return m.cfg.Threshold }

// Score returns the similarity of two raw names after normalization.
func (m *Matcher) Score(a, b string) float64 {
	return m.similarity.Score(m.normalizer.Name(a), m.normalizer.Name(b))
}

// FindMatches maps each element of setA to its best element of setB when the
// combined score reaches the threshold. Unmatched names are absent.
// Ties go to the earliest candidate in setB.
func (m *Matcher) FindMatches(setA, setB []string) map[string]string {
	results := m.FindMatchResults(setA, setB)
	out := make(map[string]string, len(results))
	for _, r := range results {
		out[r.A] = r.B
	}
	return out
}

// FindMatchResults is FindMatches with scores, in setA order.
// A name repeated in setA is reported once.
func (m *Matcher) FindMatchResults(setA, setB []string) []models.MatchResult {
	if len(setA) == 0 || len(setB) == 0 {
		return nil
	}

	candidates := m.Prepare(setB)

	seen := make(map[string]bool, len(setA))
	var results []models.MatchResult
	for _, a := range setA {
		if seen[a] {
			continue
		}
		seen[a] = true

		idx, score, ok := m.BestIn(a, candidates)
		if !ok {
			continue
		}
		results = append(results, models.MatchResult{A: a, B: setB[idx], Score: score})
	}
	return results
}

// Best returns the index and score of the best candidate for name, and
// whether it reached the threshold.
func (m *Matcher) Best(name string, candidates []string) (int, float64, bool) {
	return m.BestIn(name, m.Prepare(candidates))
}

// Candidates is a normalized candidate set, reusable across many lookups.
type Candidates struct {
	normalized []string
}

// Len returns the number of candidates.
func (c Candidates) Len() int { return len(c.normalized) }

// Prepare normalizes candidate names once for repeated BestIn calls.
func (m *Matcher) Prepare(names []string) Candidates {
	normalized := make([]string, len(names))
	for i, n := range names {
		normalized[i] = m.normalizer.Name(n)
	}
	return Candidates{normalized: normalized}
}

// BestIn is Best against a prepared candidate set.
func (m *Matcher) BestIn(name string, candidates Candidates) (int, float64, bool) {
	return m.best(m.normalizer.Name(name), candidates.normalized)
}

func (m *Matcher) best(name string, normalizedCandidates []string) (int, float64, bool) {
	if name == "" {
		return -1, 0, false
	}
	bestIdx, bestScore := -1, -1.0
	for i, candidate := range normalizedCandidates {
		if candidate == "" {
			continue
		}
		score := m.similarity.Score(name, candidate)
		// Strictly greater keeps the first candidate on ties
		if score > bestScore {
			bestIdx, bestScore = i, score
		}
	}
	if bestIdx < 0 || bestScore < m.cfg.Threshold {
		return -1, 0, false
	}
	return bestIdx, bestScore, true
}
