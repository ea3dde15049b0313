// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/unisearch/internal/middleware"
)

// Router binds handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil mw selects the default middleware config.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi builds the HTTP handler with every route and middleware.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // must be global to answer OPTIONS preflight
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.handler.perfMon.Middleware)
	r.Use(middleware.Compression)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())

		// ========================
		// Health
		// ========================
		r.Route("/health", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitHealth())
			r.Get("/", router.handler.Health)
			r.Get("/detailed", router.handler.HealthDetailed)
		})

		// ========================
		// Catalog
		// ========================
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())

			r.Get("/universities", router.handler.ListUniversities)
			r.Get("/universities/search/advanced", router.handler.AdvancedSearch)
			r.Get("/universities/{id}", router.handler.GetUniversity)

			r.Get("/filters/countries", router.handler.Countries)
			r.Get("/filters/countries/stats", router.handler.CountryStats)
			r.Get("/filters/languages", router.handler.Languages)
			r.Get("/filters/stats", router.handler.PlatformStats)
		})

		// ========================
		// Recommendations
		// ========================
		r.Route("/recommendations", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitRecommend())
			r.Post("/", router.handler.Recommend)
			r.Get("/similar/{id}", router.handler.Similar)
			r.Get("/trending", router.handler.Trending)
		})

		// ========================
		// Sync
		// ========================
		r.Route("/sync", func(r chi.Router) {
			r.With(router.chiMiddleware.RateLimitSync()).Post("/", router.handler.TriggerSync)
			r.With(router.chiMiddleware.RateLimit()).Get("/status", router.handler.SyncStatus)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
