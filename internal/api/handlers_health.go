// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/tomtom215/unisearch/internal/cache"
	"github.com/tomtom215/unisearch/internal/metrics"
	"github.com/tomtom215/unisearch/internal/middleware"
	"github.com/tomtom215/unisearch/internal/recommend"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status            string     `json:"status"`
	DatabaseConnected bool       `json:"database_connected"`
	Universities      int        `json:"universities"`
	SyncRunning       bool       `json:"sync_running"`
	LastSyncTime      *time.Time `json:"last_sync_time,omitempty"`
	Uptime            float64    `json:"uptime_seconds"`
}

// DetailedHealth adds runtime, cache and endpoint statistics.
type DetailedHealth struct {
	HealthStatus
	GoVersion  string                     `json:"go_version"`
	Goroutines int                        `json:"goroutines"`
	HeapMB     float64                    `json:"heap_mb"`
	Cache      cache.Stats                `json:"cache"`
	Engine     *recommend.Metrics         `json:"engine,omitempty"`
	Endpoints  []middleware.EndpointStats `json:"endpoints"`
}

// Health handles GET /api/v1/health. The service is "healthy" when the
// database answers and "degraded" otherwise; the status code is 200 in both
// cases so that probes can read the body.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.health(r))
}

// HealthDetailed handles GET /api/v1/health/detailed.
func (h *Handler) HealthDetailed(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	detailed := DetailedHealth{
		HealthStatus: h.health(r),
		GoVersion:    runtime.Version(),
		Goroutines:   runtime.NumGoroutine(),
		HeapMB:       float64(mem.HeapAlloc) / (1 << 20),
		Cache:        h.cache.GetStats(),
		Endpoints:    h.perfMon.GetStats(),
	}
	if h.engine != nil {
		m := h.engine.GetMetrics()
		detailed.Engine = &m
	}
	if detailed.Endpoints == nil {
		detailed.Endpoints = []middleware.EndpointStats{}
	}
	NewResponseWriter(w, r).Success(detailed)
}

func (h *Handler) health(r *http.Request) HealthStatus {
	ctx := r.Context()
	status := HealthStatus{
		Status: "healthy",
		Uptime: time.Since(h.startTime).Seconds(),
	}
	metrics.AppUptime.Set(status.Uptime)

	status.DatabaseConnected = h.store != nil && h.store.Ping(ctx) == nil
	if !status.DatabaseConnected {
		status.Status = "degraded"
	} else if n, err := h.store.CountUniversities(ctx); err == nil {
		status.Universities = n
	}

	if h.syncer != nil {
		status.SyncRunning = h.syncer.IsRunning()
		if last, err := h.syncer.LastRun(ctx); err == nil && last != nil && !last.EndTime.IsZero() {
			t := last.EndTime
			status.LastSyncTime = &t
		}
	}
	return status
}
