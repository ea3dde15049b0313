// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package api

import (
	"net/http"

	"github.com/tomtom215/unisearch/internal/models"
)

// ListUniversities handles GET /api/v1/universities.
//
// Query parameters: search, country, sort_by, sort_order, limit, offset.
// Responds with one page of records and pagination metadata.
func (h *Handler) ListUniversities(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	params, err := parseListParams(r, &h.config.API)
	if err != nil {
		writeError(rw, err)
		return
	}

	records, total, err := h.store.ListUniversities(r.Context(), params)
	if err != nil {
		writeError(rw, err)
		return
	}
	if records == nil {
		records = []models.UniversityRecord{}
	}

	rw.SuccessWithPagination(records, &PaginationMeta{
		Total:   total,
		Count:   len(records),
		Offset:  params.Offset,
		Limit:   params.Limit,
		HasMore: params.Offset+len(records) < total,
	})
}

// GetUniversity handles GET /api/v1/universities/{id}.
func (h *Handler) GetUniversity(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := parseID(r)
	if err != nil {
		writeError(rw, err)
		return
	}
	rec, err := h.store.GetUniversity(r.Context(), id)
	if err != nil {
		writeError(rw, err)
		return
	}
	rw.Success(rec)
}

// AdvancedSearch handles GET /api/v1/universities/search/advanced.
//
// All filters are optional and combined with AND. Score minimums exclude
// records without that score; the three boolean filters require "yes".
func (h *Handler) AdvancedSearch(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	filters, err := parseSearchFilters(r, &h.config.API)
	if err != nil {
		writeError(rw, err)
		return
	}
	records, err := h.store.SearchUniversities(r.Context(), filters)
	if err != nil {
		writeError(rw, err)
		return
	}
	if records == nil {
		records = []models.UniversityRecord{}
	}
	rw.SuccessWithPagination(records, &PaginationMeta{
		Total:   len(records),
		Count:   len(records),
		Offset:  filters.Offset,
		Limit:   filters.Limit,
		HasMore: len(records) == filters.Limit,
	})
}
