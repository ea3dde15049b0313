// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/unisearch/internal/logging"
	"github.com/tomtom215/unisearch/internal/metrics"
	"github.com/tomtom215/unisearch/internal/models"
)

// Recommend handles POST /api/v1/recommendations.
//
// The body is a user profile; the optional limit query parameter bounds the
// result count. Responds with scored recommendations, best match first, or
// 404 when the hard constraints exclude every university.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	start := time.Now()

	var profile models.UserProfile
	if err := decodeJSON(w, r, &profile); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	records, err := h.catalog(r.Context())
	if err != nil {
		writeError(rw, err)
		return
	}
	resp, err := h.engine.Recommend(r.Context(), records, profile, limit)
	if err != nil {
		writeError(rw, err)
		return
	}

	metrics.RecordRecommendation("profile", time.Since(start), len(resp.Recommendations))
	if resp.Filtered == len(records) {
		rw.NotFound("No universities found matching your requirements")
		return
	}
	logging.Ctx(r.Context()).Debug().
		Int("returned", len(resp.Recommendations)).
		Int("total_matches", resp.TotalMatches).
		Int("filtered", resp.Filtered).
		Msg("Recommendations generated")
	rw.Success(resp)
}

// Similar handles GET /api/v1/recommendations/similar/{id}: other
// universities in the same country, ranked near the base when it is ranked.
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	start := time.Now()

	id, err := parseID(r)
	if err != nil {
		writeError(rw, err)
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		writeError(rw, err)
		return
	}
	base, err := h.store.GetUniversity(r.Context(), id)
	if err != nil {
		writeError(rw, err)
		return
	}
	records, err := h.catalog(r.Context())
	if err != nil {
		writeError(rw, err)
		return
	}

	similar, err := h.engine.Similar(records, *base, limit)
	if err != nil {
		writeError(rw, err)
		return
	}
	if similar == nil {
		similar = []models.UniversityRecord{}
	}
	metrics.RecordRecommendation("similar", time.Since(start), len(similar))
	rw.Success(map[string]interface{}{
		"base":    base,
		"similar": similar,
	})
}

// Trending handles GET /api/v1/recommendations/trending: universities strong
// on student life, diversity and rigor, best ranked first.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	start := time.Now()

	limit, err := parseLimit(r)
	if err != nil {
		writeError(rw, err)
		return
	}
	records, err := h.catalog(r.Context())
	if err != nil {
		writeError(rw, err)
		return
	}
	trending, err := h.engine.Trending(records, limit)
	if err != nil {
		writeError(rw, err)
		return
	}
	if trending == nil {
		trending = []models.UniversityRecord{}
	}
	metrics.RecordRecommendation("trending", time.Since(start), len(trending))
	rw.Success(trending)
}
