// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/unisearch/internal/config"
	"github.com/tomtom215/unisearch/internal/database"
	"github.com/tomtom215/unisearch/internal/integrate"
	"github.com/tomtom215/unisearch/internal/logging"
	"github.com/tomtom215/unisearch/internal/match"
	"github.com/tomtom215/unisearch/internal/metrics"
	"github.com/tomtom215/unisearch/internal/models"
	"github.com/tomtom215/unisearch/internal/normalize"
	"github.com/tomtom215/unisearch/internal/resolve"
)

// Sync reasons.
const (
	ReasonForced     = "forced"
	ReasonEmptyStore = "empty_store"
	ReasonStale      = "stale"
)

var (
	// ErrSyncInProgress is returned when a run is requested while one is running.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrNoPrimarySource is returned when no ranking source could be read.
	ErrNoPrimarySource = errors.New("no ranking source could be read")
)

// Store is the part of the canonical store a sync writes to.
type Store interface {
	ImportUniversities(ctx context.Context, records []models.UniversityRecord, opts database.ImportOptions) (*database.ImportStats, error)
	CountUniversities(ctx context.Context) (int, error)
	LastUpdated(ctx context.Context) (time.Time, bool, error)
}

// Syncer runs the ingestion pipeline: read every ranking source, clean and
// de-duplicate it, merge the sources, attach aggregated feedback and import
// the result into the store. One run at a time.
type Syncer struct {
	store      Store
	state      StateStore
	primary    []*guardedReader
	feedback   *guardedReader
	cleaner    *Cleaner
	integrator *integrate.Integrator
	timeout    time.Duration
	breaker    BreakerSettings

	mu         sync.RWMutex
	running    bool
	stats      *SyncStats
	onComplete func(*SyncStats)
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithState persists run statistics.
func WithState(state StateStore) Option {
	return func(s *Syncer) { s.state = state }
}

// WithCleaner overrides the cleaner.
func WithCleaner(c *Cleaner) Option {
	return func(s *Syncer) { s.cleaner = c }
}

// WithIntegrator overrides the integrator.
func WithIntegrator(in *integrate.Integrator) Option {
	return func(s *Syncer) { s.integrator = in }
}

// WithTimeout bounds a single run. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Syncer) { s.timeout = d }
}

// WithBreakerSettings tunes source circuit breakers. Must precede the reader options.
func WithBreakerSettings(b BreakerSettings) Option {
	return func(s *Syncer) { s.breaker = b }
}

// WithPrimary adds ranking sources, merged in the given order.
func WithPrimary(readers ...Reader) Option {
	return func(s *Syncer) {
		for _, r := range readers {
			s.primary = append(s.primary, newGuardedReader(r, s.breaker))
		}
	}
}

// WithFeedback sets the survey source.
func WithFeedback(r Reader) Option {
	return func(s *Syncer) { s.feedback = newGuardedReader(r, s.breaker) }
}

// NewSyncer creates a Syncer writing to store.
func NewSyncer(store Store, opts ...Option) *Syncer {
	s := &Syncer{store: store, breaker: DefaultBreakerSettings()}
	for _, opt := range opts {
		opt(s)
	}
	if s.state == nil {
		s.state = NewInMemoryState()
	}
	if s.cleaner == nil {
		s.cleaner = NewCleaner(nil, nil)
	}
	if s.integrator == nil {
		s.integrator = integrate.New(nil, s.cleaner.normalizer)
	}
	return s
}

// NewFromConfig wires readers for every configured source path and builds
// the matcher, resolver and integrator from the matching section.
func NewFromConfig(cfg *config.Config, store Store, state StateStore) *Syncer {
	n := normalize.New(cfg.Matching.CacheSize)
	matcher := match.New(cfg.Matching.MatcherConfig(), match.WithNormalizer(n))
	resolver := resolve.New(
		resolve.WithStrategy(cfg.Matching.ResolveStrategy()),
		resolve.WithNormalizer(n),
		resolve.WithThreshold(cfg.Matching.DuplicateThreshold),
	)

	opts := []Option{
		WithState(state),
		WithTimeout(cfg.Sync.Timeout),
		WithCleaner(NewCleaner(n, resolver)),
		WithIntegrator(integrate.New(matcher, n, integrate.WithCountryScope(cfg.Matching.ScopeByCountry))),
	}
	var primary []Reader
	if cfg.Sources.QSCSVPath != "" {
		primary = append(primary, NewQSCSVReader(cfg.Sources.QSCSVPath, cfg.Sources.QSSkipRows))
	}
	if cfg.Sources.HTMLTablePath != "" {
		primary = append(primary, NewHTMLTableReader(cfg.Sources.HTMLTablePath))
	}
	if cfg.Sources.LegacySQLitePath != "" {
		primary = append(primary, NewLegacySQLiteReader(cfg.Sources.LegacySQLitePath))
	}
	opts = append(opts, WithPrimary(primary...))
	if cfg.Sources.FeedbackCSVPath != "" {
		opts = append(opts, WithFeedback(NewFeedbackCSVReader(cfg.Sources.FeedbackCSVPath)))
	}
	return NewSyncer(store, opts...)
}

// SetOnComplete registers a callback invoked after every successful run,
// whether scheduled or triggered through the API.
func (s *Syncer) SetOnComplete(fn func(*SyncStats)) {
	s.mu.Lock()
	s.onComplete = fn
	s.mu.Unlock()
}

// Sync performs one run. The returned stats are also saved to the state
// store, failed runs included.
func (s *Syncer) Sync(ctx context.Context, reason string) (*SyncStats, error) {
	runID := logging.NewSyncRunID()

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrSyncInProgress
	}
	s.running = true
	s.stats = newSyncStats(runID, reason)
	s.mu.Unlock()

	ctx = logging.ContextWithSyncRunID(ctx, runID)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	logging.Ctx(ctx).Info().Str("reason", reason).Int("primary_sources", len(s.primary)).
		Bool("feedback", s.feedback != nil).Msg("Starting sync")

	err := s.run(ctx)

	s.mu.Lock()
	s.running = false
	s.stats.EndTime = time.Now()
	if err != nil {
		s.stats.Error = err.Error()
	}
	stats := s.stats.Clone()
	onComplete := s.onComplete
	s.mu.Unlock()

	metrics.RecordSyncOperation(stats.Duration(), stats.RecordsRead(), err)

	// A canceled context must not prevent the state write
	saveCtx := context.WithoutCancel(ctx)
	if saveErr := s.state.Save(saveCtx, stats); saveErr != nil {
		logging.Ctx(ctx).Warn().Err(saveErr).Msg("Failed to save sync state")
	}

	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Dur("duration", stats.Duration()).Msg("Sync failed")
		return stats, err
	}

	event := logging.Ctx(ctx).Info().
		Int("records_read", stats.RecordsRead()).
		Int("primary", stats.Primary).
		Int("matched", stats.Matched).
		Int("unmatched", stats.Unmatched)
	if stats.Import != nil {
		event = event.Int("created", stats.Import.Created).
			Int("updated", stats.Import.Updated).
			Int("errors", stats.Import.Errors)
	}
	event.Dur("duration", stats.Duration()).Msg("Sync completed")

	if onComplete != nil {
		onComplete(stats.Clone())
	}
	return stats, nil
}

func (s *Syncer) run(ctx context.Context) error {
	primary, err := s.loadPrimary(ctx)
	if err != nil {
		return err
	}

	var feedback []models.UniversityRecord
	if s.feedback != nil {
		feedback = s.loadFeedback(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	merged, report, err := s.integrator.Merge(ctx, primary, feedback)
	if err != nil {
		return fmt.Errorf("integrate sources: %w", err)
	}
	metrics.RecordMatches(report.MatchedSecondary, len(report.Dropped))
	s.update(func(st *SyncStats) {
		st.Matched = report.MatchedSecondary
		st.Unmatched = len(report.Dropped)
	})

	imported, err := s.store.ImportUniversities(ctx, merged, database.ImportOptions{UpdateExisting: true})
	if err != nil {
		return fmt.Errorf("import into database: %w", err)
	}
	s.update(func(st *SyncStats) { st.Import = imported })
	return nil
}

// loadPrimary reads, cleans and merges every ranking source. A failing
// source is skipped; the run fails only when every source failed.
func (s *Syncer) loadPrimary(ctx context.Context) ([]models.UniversityRecord, error) {
	if len(s.primary) == 0 {
		return nil, fmt.Errorf("%w: none configured", ErrNoPrimarySource)
	}

	var all []models.UniversityRecord
	readOK := 0
	for _, r := range s.primary {
		rows, err := r.Read(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logging.Ctx(ctx).Warn().Err(err).Str("source", r.Source()).Str("breaker", r.State()).
				Msg("Failed to read source, skipping")
			s.setSource(r.Source(), &SourceStats{Error: err.Error()})
			continue
		}
		readOK++

		records, stats, err := s.cleaner.Clean(ctx, r.Source(), rows)
		if err != nil {
			return nil, err
		}
		s.setSource(r.Source(), stats)
		all = append(all, records...)
	}
	if readOK == 0 {
		return nil, ErrNoPrimarySource
	}

	// The same institution listed by several tables
	if readOK > 1 {
		before := len(all)
		resolved, err := s.cleaner.resolver.Resolve(all)
		if err != nil {
			return nil, fmt.Errorf("resolve cross-source duplicates: %w", err)
		}
		all = resolved
		metrics.DuplicatesMerged.Add(float64(before - len(all)))
	}

	s.update(func(st *SyncStats) { st.Primary = len(all) })
	return all, nil
}

// loadFeedback reads and aggregates the survey. Failures are logged and
// the run continues without feedback.
func (s *Syncer) loadFeedback(ctx context.Context) []models.UniversityRecord {
	rows, err := s.feedback.Read(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("breaker", s.feedback.State()).
			Msg("Failed to read feedback source, continuing without feedback")
		s.setSource(s.feedback.Source(), &SourceStats{Error: err.Error()})
		return nil
	}
	records, stats := s.cleaner.AggregateFeedback(ctx, rows)
	s.setSource(s.feedback.Source(), stats)
	return records
}

func (s *Syncer) setSource(source string, stats *SourceStats) {
	s.update(func(st *SyncStats) { st.Sources[source] = stats })
}

func (s *Syncer) update(fn func(*SyncStats)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.stats)
}

// GetStats returns a copy of the current or most recent run in this
// process, or empty stats when none ran.
func (s *Syncer) GetStats() *SyncStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stats == nil {
		return &SyncStats{Sources: map[string]*SourceStats{}}
	}
	return s.stats.Clone()
}

// IsRunning returns whether a run is in progress.
func (s *Syncer) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// LastRun returns the most recent run, preferring this process's stats and
// falling back to the state store. Nil when no run is known.
func (s *Syncer) LastRun(ctx context.Context) (*SyncStats, error) {
	s.mu.RLock()
	if s.stats != nil {
		defer s.mu.RUnlock()
		return s.stats.Clone(), nil
	}
	s.mu.RUnlock()
	return s.state.Load(ctx)
}

// NeedsSync decides whether a run is due: always when forced, when the store
// is empty, or when its newest record is older than maxAge. The returned
// reason is "" when no run is due.
func (s *Syncer) NeedsSync(ctx context.Context, force bool, maxAge time.Duration) (string, error) {
	if force {
		return ReasonForced, nil
	}
	n, err := s.store.CountUniversities(ctx)
	if err != nil {
		return "", fmt.Errorf("count universities: %w", err)
	}
	if n == 0 {
		return ReasonEmptyStore, nil
	}
	last, ok, err := s.store.LastUpdated(ctx)
	if err != nil {
		return "", fmt.Errorf("read last update: %w", err)
	}
	if !ok || time.Since(last) > maxAge {
		return ReasonStale, nil
	}
	return "", nil
}
