// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

// Package resolve collapses same-source duplicate records into one record per
// institution.
//
// Two records are duplicate candidates when their normalized countries are
// equal and the exact-order ratio of their lowercased canonical names is
// strictly above the duplicate threshold (85).
//
// The default Greedy strategy walks records in input order and groups each
// unprocessed record with every later unprocessed candidate of it; grouped
// records are not compared again. The UnionFind strategy instead takes the
// connected components of the candidate graph, which also merges transitive
// chains (A~B, B~C, A not~ C). It is a behavior change and must be opted into.
package resolve

import (
	"sort"
	"strings"

	"github.com/tomtom215/unisearch/internal/logging"
	"github.com/tomtom215/unisearch/internal/match"
	"github.com/tomtom215/unisearch/internal/models"
	"github.com/tomtom215/unisearch/internal/normalize"
)

// Strategy selects the clustering algorithm.
type Strategy string

const (
	// Greedy is single-pass clustering without transitive closure.
	Greedy Strategy = "greedy"

	// UnionFind clusters by connected components of the candidate graph.
	UnionFind Strategy = "union_find"
)

// Resolver detects and merges duplicate records.
type Resolver struct {
	normalizer *normalize.Normalizer
	strategy   Strategy
	threshold  float64
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStrategy selects the clustering strategy. Unknown values fall back to Greedy.
func WithStrategy(s Strategy) Option {
	return func(r *Resolver) { r.strategy = s }
}

// WithNormalizer shares a normalizer (and its memo) with the resolver.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(r *Resolver) { r.normalizer = n }
}

// WithThreshold overrides the duplicate ratio threshold (exclusive).
func WithThreshold(t float64) Option {
	return func(r *Resolver) { r.threshold = t }
}

// New creates a Resolver using the Greedy strategy by default.
func New(opts ...Option) *Resolver {
	r := &Resolver{strategy: Greedy, threshold: match.DuplicateThreshold}
	for _, opt := range opts {
		opt(r)
	}
	if r.normalizer == nil {
		r.normalizer = normalize.New(0)
	}
	if r.strategy != UnionFind {
		r.strategy = Greedy
	}
	return r
}

// ResolveDuplicates is Resolve with default options.
func ResolveDuplicates(records []models.UniversityRecord) ([]models.UniversityRecord, error) {
	return New().Resolve(records)
}

type recordKey struct {
	country string
	name    string
}

// Resolve returns one merged record per cluster, ordered by the first-seen
// position of each cluster's earliest member. The input is not modified.
// A cluster without any country fails the whole call with a
// *models.StructuralError.
func (r *Resolver) Resolve(records []models.UniversityRecord) ([]models.UniversityRecord, error) {
	if len(records) == 0 {
		return nil, nil
	}

	keys := make([]recordKey, len(records))
	for i := range records {
		keys[i] = recordKey{
			country: r.normalizer.Country(records[i].Country),
			name:    strings.ToLower(r.normalizer.Name(records[i].Name)),
		}
	}

	var clusters [][]int
	if r.strategy == UnionFind {
		clusters = r.componentClusters(keys)
	} else {
		clusters = r.greedyClusters(keys)
	}

	out := make([]models.UniversityRecord, 0, len(clusters))
	merged := 0
	for _, idx := range clusters {
		group := make([]models.UniversityRecord, len(idx))
		for i, j := range idx {
			group[i] = records[j]
		}
		rec, err := Merge(group)
		if err != nil {
			return nil, err
		}
		if rec.CanonicalName == "" || len(idx) > 1 {
			rec.CanonicalName = r.normalizer.Name(rec.Name)
		}
		if len(idx) > 1 {
			merged += len(idx) - 1
		}
		out = append(out, rec)
	}

	if merged > 0 {
		logging.Debug().
			Int("input", len(records)).
			Int("output", len(out)).
			Int("merged", merged).
			Str("strategy", string(r.strategy)).
			Msg("Resolved duplicate records")
	}
	return out, nil
}

func (r *Resolver) duplicates(a, b recordKey) bool {
	if a.country == "" || a.country != b.country {
		return false
	}
	return match.Ratio(a.name, b.name) > r.threshold
}

// byCountry buckets indices by country, preserving input order within each bucket.
func byCountry(keys []recordKey) map[string][]int {
	buckets := make(map[string][]int)
	for i, k := range keys {
		buckets[k.country] = append(buckets[k.country], i)
	}
	return buckets
}

func (r *Resolver) greedyClusters(keys []recordKey) [][]int {
	var clusters [][]int
	for _, bucket := range byCountry(keys) {
		processed := make([]bool, len(bucket))
		for bi, i := range bucket {
			if processed[bi] {
				continue
			}
			processed[bi] = true
			cluster := []int{i}
			for bj := bi + 1; bj < len(bucket); bj++ {
				if processed[bj] {
					continue
				}
				if j := bucket[bj]; r.duplicates(keys[i], keys[j]) {
					processed[bj] = true
					cluster = append(cluster, j)
				}
			}
			clusters = append(clusters, cluster)
		}
	}
	sortClusters(clusters)
	return clusters
}

func (r *Resolver) componentClusters(keys []recordKey) [][]int {
	uf := newUnionFind(len(keys))
	for _, bucket := range byCountry(keys) {
		for bi, i := range bucket {
			for _, j := range bucket[bi+1:] {
				if r.duplicates(keys[i], keys[j]) {
					uf.union(i, j)
				}
			}
		}
	}

	byRoot := make(map[int][]int)
	var clusters [][]int
	for i := range keys {
		root := uf.find(i)
		byRoot[root] = append(byRoot[root], i)
	}
	for _, c := range byRoot {
		clusters = append(clusters, c)
	}
	sortClusters(clusters)
	return clusters
}

// sortClusters orders clusters by their earliest member. Members are already
// in ascending index order.
func sortClusters(clusters [][]int) {
	sort.Slice(clusters, func(a, b int) bool { return clusters[a][0] < clusters[b][0] })
}
