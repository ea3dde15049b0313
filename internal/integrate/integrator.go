// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

// Package integrate merges a secondary (student feedback) source into a
// primary (ranking table) source.
//
// Every secondary record is matched to its best primary record by canonical
// name, optionally only among primaries of the same normalized country.
// Secondary records that match nothing are dropped and reported: without a
// ranking-table anchor they cannot be placed in the canonical store. The
// output therefore always has exactly one record per primary record.
package integrate

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/unisearch/internal/logging"
	"github.com/tomtom215/unisearch/internal/match"
	"github.com/tomtom215/unisearch/internal/models"
	"github.com/tomtom215/unisearch/internal/normalize"
	"github.com/tomtom215/unisearch/internal/resolve"
)

// Report summarizes one integration pass.
type Report struct {
	Primary          int           `json:"primary"`
	Secondary        int           `json:"secondary"`
	MatchedPrimary   int           `json:"matched_primary"`
	MatchedSecondary int           `json:"matched_secondary"`
	Dropped          []string      `json:"dropped,omitempty"`
	Duration         time.Duration `json:"duration"`
}

// Integrator merges sources. It is safe for concurrent use.
type Integrator struct {
	matcher    *match.Matcher
	normalizer *normalize.Normalizer
	policy     Policy
	byCountry  bool
	workers    int
}

// Option configures an Integrator.
type Option func(*Integrator)

// WithPolicy overrides the precedence policy.
func WithPolicy(p Policy) Option {
	return func(i *Integrator) { i.policy = p }
}

// WithCountryScope restricts matching to primaries of the same normalized
// country. Secondaries without a country are matched against all primaries.
func WithCountryScope(enabled bool) Option {
	return func(i *Integrator) { i.byCountry = enabled }
}

// WithWorkers bounds how many country buckets are matched concurrently.
func WithWorkers(n int) Option {
	return func(i *Integrator) { i.workers = n }
}

// New creates an Integrator around a matcher and normalizer.
func New(matcher *match.Matcher, normalizer *normalize.Normalizer, opts ...Option) *Integrator {
	i := &Integrator{
		matcher:    matcher,
		normalizer: normalizer,
		policy:     DefaultPolicy(),
		byCountry:  true,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.normalizer == nil {
		i.normalizer = normalize.New(0)
	}
	if i.matcher == nil {
		i.matcher = match.New(match.DefaultConfig(), match.WithNormalizer(i.normalizer))
	}
	if i.workers <= 0 {
		i.workers = runtime.GOMAXPROCS(0)
	}
	return i
}

// MergeSources integrates with default settings.
func MergeSources(primary, secondary []models.UniversityRecord) ([]models.UniversityRecord, error) {
	out, _, err := New(nil, nil).Merge(context.Background(), primary, secondary)
	return out, err
}

// Merge returns one record per primary record, in primary order. Inputs are
// not modified. A primary without a country borrows one from its matched
// feedback; when none has a country either, Merge fails with a
// *models.StructuralError. The only other error is ctx cancellation.
func (in *Integrator) Merge(ctx context.Context, primary, secondary []models.UniversityRecord) ([]models.UniversityRecord, Report, error) {
	start := time.Now()
	report := Report{Primary: len(primary), Secondary: len(secondary)}

	assigned, err := in.assign(ctx, primary, secondary)
	if err != nil {
		return nil, report, err
	}

	// primary index -> matched secondary indices, in secondary order
	matches := make(map[int][]int)
	for si, pi := range assigned {
		if pi < 0 {
			report.Dropped = append(report.Dropped, secondary[si].Name)
			continue
		}
		matches[pi] = append(matches[pi], si)
		report.MatchedSecondary++
	}

	out := make([]models.UniversityRecord, len(primary))
	for pi := range primary {
		rec := primary[pi].Clone()
		rec.ResponseCount = 0

		group, ok := matches[pi]
		if rec.Country == "" {
			rec.Country = firstCountry(secondary, group)
			if rec.Country == "" {
				return nil, report, &models.StructuralError{
					Key:     "country",
					Members: memberNames(&primary[pi], secondary, group),
				}
			}
		}
		if ok {
			feedback, err := in.mergeFeedback(&rec, secondary, group)
			if err != nil {
				return nil, report, err
			}
			in.policy.Apply(&rec, &feedback)
			for _, si := range group {
				rec.ResponseCount += max(secondary[si].ResponseCount, 1)
			}
			rec.AddSource(feedback.DataSources...)
			if feedback.LastUpdated.After(rec.LastUpdated) {
				rec.LastUpdated = feedback.LastUpdated
			}
			report.MatchedPrimary++
		}
		if rec.CanonicalName == "" {
			rec.CanonicalName = in.normalizer.Name(rec.Name)
		}
		out[pi] = rec
	}

	report.Duration = time.Since(start)
	if len(report.Dropped) > 0 {
		logging.Ctx(ctx).Warn().
			Int("dropped", len(report.Dropped)).
			Int("secondary", report.Secondary).
			Strs("examples", firstN(report.Dropped, 5)).
			Msg("Secondary records without a primary match were dropped")
	}
	logging.Ctx(ctx).Info().
		Int("primary", report.Primary).
		Int("matched_primary", report.MatchedPrimary).
		Int("matched_secondary", report.MatchedSecondary).
		Dur("duration", report.Duration).
		Msg("Sources integrated")

	return out, report, nil
}

// mergeFeedback collapses all feedback rows matched to one primary record.
// The primary country anchors rows that carry none.
func (in *Integrator) mergeFeedback(anchor *models.UniversityRecord, secondary []models.UniversityRecord, group []int) (models.UniversityRecord, error) {
	cluster := make([]models.UniversityRecord, len(group))
	for i, si := range group {
		cluster[i] = secondary[si]
		if cluster[i].Country == "" {
			cluster[i].Country = anchor.Country
		}
	}
	if len(cluster) == 1 {
		return cluster[0], nil
	}
	return resolve.Merge(cluster)
}

// assign returns, for each secondary record, the index of its matched
// primary record or -1.
func (in *Integrator) assign(ctx context.Context, primary, secondary []models.UniversityRecord) ([]int, error) {
	assigned := make([]int, len(secondary))
	for i := range assigned {
		assigned[i] = -1
	}
	if len(primary) == 0 || len(secondary) == 0 {
		return assigned, nil
	}

	buckets := in.bucket(primary, secondary)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(in.workers)
	for _, b := range buckets {
		if len(b.secondary) == 0 {
			continue
		}
		g.Go(func() error {
			names := make([]string, len(b.primary))
			for i, pi := range b.primary {
				names[i] = primary[pi].Name
			}
			candidates := in.matcher.Prepare(names)

			for _, si := range b.secondary {
				if err := gctx.Err(); err != nil {
					return err
				}
				if idx, _, ok := in.matcher.BestIn(secondary[si].Name, candidates); ok {
					// Each secondary index belongs to exactly one bucket
					assigned[si] = b.primary[idx]
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return assigned, nil
}

type bucket struct {
	primary   []int
	secondary []int
}

func (in *Integrator) bucket(primary, secondary []models.UniversityRecord) []*bucket {
	all := make([]int, len(primary))
	for i := range primary {
		all[i] = i
	}
	if !in.byCountry {
		b := &bucket{primary: all}
		for si := range secondary {
			b.secondary = append(b.secondary, si)
		}
		return []*bucket{b}
	}

	byCountry := make(map[string]*bucket)
	var order []*bucket
	for pi := range primary {
		country := in.normalizer.Country(primary[pi].Country)
		b, ok := byCountry[country]
		if !ok {
			b = &bucket{}
			byCountry[country] = b
			order = append(order, b)
		}
		b.primary = append(b.primary, pi)
	}

	var unscoped *bucket
	for si := range secondary {
		country := in.normalizer.Country(secondary[si].Country)
		if country == "" {
			if unscoped == nil {
				unscoped = &bucket{primary: all}
				order = append(order, unscoped)
			}
			unscoped.secondary = append(unscoped.secondary, si)
			continue
		}
		if b, ok := byCountry[country]; ok {
			b.secondary = append(b.secondary, si)
		}
		// No primary in that country: the record stays unassigned
	}
	return order
}

func firstCountry(secondary []models.UniversityRecord, group []int) string {
	for _, si := range group {
		if secondary[si].Country != "" {
			return secondary[si].Country
		}
	}
	return ""
}

func memberNames(primary *models.UniversityRecord, secondary []models.UniversityRecord, group []int) []string {
	names := []string{primary.Name}
	for _, si := range group {
		names = append(names, secondary[si].Name)
	}
	return names
}

func firstN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
