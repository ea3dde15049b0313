// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package api

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/unisearch/internal/config"
	"github.com/tomtom215/unisearch/internal/models"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// queryParser reads typed query parameters and collects every malformed
// value so one response can report all of them.
type queryParser struct {
	q    url.Values
	errs []models.FieldError
}

func newQueryParser(r *http.Request) *queryParser {
	return &queryParser{q: r.URL.Query()}
}

func (p *queryParser) str(key string) string {
	return strings.TrimSpace(p.q.Get(key))
}

func (p *queryParser) fail(key, tag, msg string) {
	p.errs = append(p.errs, models.FieldError{Field: key, Tag: tag, Message: key + " " + msg})
}

func (p *queryParser) int(key string, def int) int {
	raw := p.str(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, "int", "must be an integer")
		return def
	}
	return v
}

func (p *queryParser) optInt(key string) *int {
	raw := p.str(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, "int", "must be an integer")
		return nil
	}
	return &v
}

func (p *queryParser) optFloat(key string) *float64 {
	raw := p.str(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, "number", "must be a number")
		return nil
	}
	return &v
}

func (p *queryParser) bool(key string) bool {
	raw := p.str(key)
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, "boolean", "must be true or false")
		return false
	}
	return v
}

func (p *queryParser) err(subject string) error {
	if len(p.errs) == 0 {
		return nil
	}
	return &models.ValidationError{Subject: subject, Fields: p.errs}
}

// parseListParams reads GET /universities parameters. Missing values take
// the list defaults with the configured page size.
func parseListParams(r *http.Request, apiCfg *config.APIConfig) (models.ListParams, error) {
	params := models.DefaultListParams()
	if apiCfg != nil && apiCfg.DefaultPageSize > 0 {
		params.Limit = apiCfg.DefaultPageSize
	}

	p := newQueryParser(r)
	params.Search = p.str("search")
	params.Country = p.str("country")
	if v := p.str("sort_by"); v != "" {
		params.SortBy = v
	}
	if v := p.str("sort_order"); v != "" {
		params.SortOrder = strings.ToLower(v)
	}
	params.Limit = p.int("limit", params.Limit)
	params.Offset = p.int("offset", 0)
	if err := p.err("list parameters"); err != nil {
		return params, err
	}
	if err := checkPageSize(params.Limit, apiCfg); err != nil {
		return params, err
	}
	return params, params.Validate()
}

// parseSearchFilters reads GET /universities/search/advanced parameters.
func parseSearchFilters(r *http.Request, apiCfg *config.APIConfig) (*models.SearchFilters, error) {
	f := &models.SearchFilters{Limit: models.DefaultListParams().Limit}
	if apiCfg != nil && apiCfg.DefaultPageSize > 0 {
		f.Limit = apiCfg.DefaultPageSize
	}

	p := newQueryParser(r)
	f.Search = p.str("search")
	f.Country = p.str("country")
	f.MinRanking = p.optInt("min_ranking")
	f.MaxRanking = p.optInt("max_ranking")
	f.MinAcademicRigor = p.optFloat("min_academic_rigor")
	f.MinCulturalDiversity = p.optFloat("min_cultural_diversity")
	f.MinStudentLife = p.optFloat("min_student_life")
	f.MinCampusSafety = p.optFloat("min_campus_safety")
	f.Language = p.str("language")
	f.AccommodationRequired = p.bool("accommodation_required")
	f.LanguageClassesRequired = p.bool("language_classes_required")
	f.AccessibilityRequired = p.bool("accessibility_required")
	f.Limit = p.int("limit", f.Limit)
	f.Offset = p.int("offset", 0)
	if err := p.err("search filters"); err != nil {
		return nil, err
	}
	if err := checkPageSize(f.Limit, apiCfg); err != nil {
		return nil, err
	}
	if f.MinRanking != nil && f.MaxRanking != nil && *f.MinRanking > *f.MaxRanking {
		return nil, &models.ValidationError{
			Subject: "search filters",
			Fields: []models.FieldError{{
				Field:   "min_ranking",
				Tag:     "ltefield",
				Message: "min_ranking must not exceed max_ranking",
			}},
		}
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func checkPageSize(limit int, apiCfg *config.APIConfig) error {
	if apiCfg == nil || apiCfg.MaxPageSize <= 0 || limit <= apiCfg.MaxPageSize {
		return nil
	}
	return &models.ValidationError{
		Subject: "paging",
		Fields: []models.FieldError{{
			Field:   "limit",
			Tag:     "lte",
			Message: fmt.Sprintf("limit must be at most %d", apiCfg.MaxPageSize),
		}},
	}
}

// parseLimit reads an optional result count. 0 means "use the default";
// range checks are left to the caller.
func parseLimit(r *http.Request) (int, error) {
	p := newQueryParser(r)
	limit := p.int("limit", 0)
	return limit, p.err("limit")
}

// parseID reads the {id} path parameter.
func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, &models.ValidationError{
			Subject: "path",
			Fields: []models.FieldError{{
				Field:   "id",
				Tag:     "gte",
				Message: "id must be a positive integer",
			}},
		}
	}
	return id, nil
}

// decodeJSON decodes a bounded request body into v, rejecting unknown
// fields and trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return fmt.Errorf("request body is empty")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}
