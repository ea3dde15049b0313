// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package api

import (
	"context"
	"time"

	"github.com/tomtom215/unisearch/internal/cache"
	"github.com/tomtom215/unisearch/internal/config"
	"github.com/tomtom215/unisearch/internal/database"
	"github.com/tomtom215/unisearch/internal/ingest"
	"github.com/tomtom215/unisearch/internal/logging"
	"github.com/tomtom215/unisearch/internal/metrics"
	"github.com/tomtom215/unisearch/internal/middleware"
	"github.com/tomtom215/unisearch/internal/models"
	"github.com/tomtom215/unisearch/internal/recommend"
)

// Store is the read side of the university database.
type Store interface {
	ListUniversities(ctx context.Context, p models.ListParams) ([]models.UniversityRecord, int, error)
	GetUniversity(ctx context.Context, id int64) (*models.UniversityRecord, error)
	SearchUniversities(ctx context.Context, f *models.SearchFilters) ([]models.UniversityRecord, error)
	AllUniversities(ctx context.Context) ([]models.UniversityRecord, error)
	CountUniversities(ctx context.Context) (int, error)
	Countries(ctx context.Context) ([]string, error)
	Languages(ctx context.Context) ([]database.LanguageCount, error)
	CountryStats(ctx context.Context) ([]models.CountryStats, error)
	PlatformStats(ctx context.Context) (*models.PlatformStats, error)
	Ping(ctx context.Context) error
}

// SyncController triggers and reports ingestion runs.
type SyncController interface {
	Sync(ctx context.Context, reason string) (*ingest.SyncStats, error)
	IsRunning() bool
	GetStats() *ingest.SyncStats
	LastRun(ctx context.Context) (*ingest.SyncStats, error)
}

// Cache keys for whole-catalog reads
const (
	cacheKeyAll       = "universities:all"
	cacheKeyCountries = "filters:countries"
	cacheKeyLanguages = "filters:languages"
	cacheKeyStats     = "filters:stats"
	cacheKeyByCountry = "filters:country_stats"
)

// Handler holds the dependencies of the API handlers.
//
// Handler methods are split across files:
//   - handlers_universities.go: listing, detail and advanced search
//   - handlers_filters.go: filter options and aggregate statistics
//   - handlers_recommend.go: profile, similar and trending recommendations
//   - handlers_health.go: health and performance
//   - handlers_sync.go: manual sync trigger and status
type Handler struct {
	store     Store
	engine    *recommend.Engine
	syncer    SyncController
	config    *config.Config
	cache     *cache.Cache
	perfMon   *middleware.PerformanceMonitor
	startTime time.Time

	// bgCtx outlives requests; manual syncs run on it
	bgCtx context.Context
}

// NewHandler creates a handler with a 5 minute response cache. syncer may
// be nil, in which case the sync endpoints report 503.
func NewHandler(store Store, engine *recommend.Engine, syncer SyncController, cfg *config.Config) *Handler {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Handler{
		store:     store,
		engine:    engine,
		syncer:    syncer,
		config:    cfg,
		cache:     cache.New(5 * time.Minute),
		perfMon:   middleware.NewPerformanceMonitor(1000),
		startTime: time.Now(),
		bgCtx:     context.Background(),
	}
}

// SetBackgroundContext sets the context manual syncs run on. Cancel it at
// shutdown to abort a running sync.
func (h *Handler) SetBackgroundContext(ctx context.Context) {
	h.bgCtx = ctx
}

// PerformanceMonitor returns the monitor fed by the router middleware.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor {
	return h.perfMon
}

// ClearCache drops every cached response.
func (h *Handler) ClearCache() {
	h.cache.Clear()
	logging.Debug().Msg("API response cache cleared")
}

// Close stops the cache sweeper.
func (h *Handler) Close() {
	h.cache.Close()
}

// OnSyncCompleted is registered with the syncer. It drops cached reads so
// clients see the new catalog and refreshes the catalog size gauge.
func (h *Handler) OnSyncCompleted(stats *ingest.SyncStats) {
	h.ClearCache()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	n, err := h.store.CountUniversities(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to count universities after sync")
		return
	}
	metrics.DBUniversities.Set(float64(n))
	logging.Info().
		Str("run_id", stats.RunID).
		Int("universities", n).
		Msg("API cache refreshed after sync")
}

// cached returns the value under key, loading and storing it on a miss.
func cached[T any](h *Handler, key string, load func() (T, error)) (T, error) {
	if v, ok := h.cache.Get(key); ok {
		if t, ok := v.(T); ok {
			h.reportCache()
			return t, nil
		}
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	h.cache.Set(key, v)
	h.reportCache()
	return v, nil
}

func (h *Handler) reportCache() {
	s := h.cache.GetStats()
	metrics.UpdateCacheStats("api", s.Hits, s.Misses, int(s.TotalKeys))
}

// catalog returns every stored record. The slice is shared between
// requests and must not be modified.
func (h *Handler) catalog(ctx context.Context) ([]models.UniversityRecord, error) {
	return cached(h, cacheKeyAll, func() ([]models.UniversityRecord, error) {
		return h.store.AllUniversities(ctx)
	})
}
