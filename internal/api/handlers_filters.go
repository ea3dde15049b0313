// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package api

import (
	"net/http"

	"github.com/tomtom215/unisearch/internal/database"
	"github.com/tomtom215/unisearch/internal/models"
)

// Countries handles GET /api/v1/filters/countries: the distinct countries
// in alphabetical order.
func (h *Handler) Countries(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	countries, err := cached(h, cacheKeyCountries, func() ([]string, error) {
		out, err := h.store.Countries(r.Context())
		if out == nil {
			out = []string{}
		}
		return out, err
	})
	if err != nil {
		writeError(rw, err)
		return
	}
	rw.Success(countries)
}

// Languages handles GET /api/v1/filters/languages: every language of
// instruction with the number of universities offering it.
func (h *Handler) Languages(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	langs, err := cached(h, cacheKeyLanguages, func() ([]database.LanguageCount, error) {
		out, err := h.store.Languages(r.Context())
		if out == nil {
			out = []database.LanguageCount{}
		}
		return out, err
	})
	if err != nil {
		writeError(rw, err)
		return
	}
	rw.Success(langs)
}

// PlatformStats handles GET /api/v1/filters/stats.
func (h *Handler) PlatformStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	stats, err := cached(h, cacheKeyStats, func() (*models.PlatformStats, error) {
		return h.store.PlatformStats(r.Context())
	})
	if err != nil {
		writeError(rw, err)
		return
	}
	rw.Success(stats)
}

// CountryStats handles GET /api/v1/filters/countries/stats.
func (h *Handler) CountryStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	stats, err := cached(h, cacheKeyByCountry, func() ([]models.CountryStats, error) {
		out, err := h.store.CountryStats(r.Context())
		if out == nil {
			out = []models.CountryStats{}
		}
		return out, err
	})
	if err != nil {
		writeError(rw, err)
		return
	}
	rw.Success(stats)
}
