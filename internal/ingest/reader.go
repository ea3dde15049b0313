// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package ingest

import (
	"context"
	"strings"

	"github.com/tomtom215/unisearch/internal/models"
)

// Reader loads the raw rows of one source. Column names of the returned
// rows are the field keys below, whatever the source calls them.
type Reader interface {
	// Source is the identifier recorded in UniversityRecord.DataSources.
	Source() string

	// Read returns every row of the source.
	Read(ctx context.Context) ([]models.RawRecord, error)
}

// Field keys shared by all readers.
const (
	FieldName              = "name"
	FieldCity              = "city"
	FieldCountry           = "country"
	FieldWebsiteURL        = "website_url"
	FieldQSRank            = "qs_rank"
	FieldTHERank           = "the_rank"
	FieldARWURank          = "arwu_rank"
	FieldUSNewsRank        = "us_news_rank"
	FieldQSScore           = "qs_score"
	FieldTHEScore          = "the_score"
	FieldOverallQuality    = "overall_quality"
	FieldAcademicRigor     = "academic_rigor"
	FieldOpenness          = "openness"
	FieldCulturalDiversity = "cultural_diversity"
	FieldStudentLife       = "student_life"
	FieldCampusSafety      = "campus_safety"
	FieldResearchQuality   = "research_quality"
	FieldAccommodation     = "accommodation"
	FieldLanguage          = "language"
	FieldLanguageClasses   = "language_classes"
	FieldAccessibility     = "accessibility"
	FieldTuitionIntl       = "tuition_international"
	FieldTuitionLocal      = "tuition_local"
	FieldClimateType       = "climate_type"
	FieldResponseCount     = "response_count"
)

// knownFields accepts headers that already use the field keys.
var knownFields = map[string]bool{
	FieldName: true, FieldCity: true, FieldCountry: true, FieldWebsiteURL: true,
	FieldQSRank: true, FieldTHERank: true, FieldARWURank: true, FieldUSNewsRank: true,
	FieldQSScore: true, FieldTHEScore: true,
	FieldOverallQuality: true, FieldAcademicRigor: true, FieldOpenness: true,
	FieldCulturalDiversity: true, FieldStudentLife: true, FieldCampusSafety: true,
	FieldResearchQuality: true,
	FieldAccommodation:   true, FieldLanguage: true, FieldLanguageClasses: true, FieldAccessibility: true,
	FieldTuitionIntl: true, FieldTuitionLocal: true, FieldClimateType: true, FieldResponseCount: true,
}

// headerKey folds a header cell for alias lookup.
func headerKey(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

// mapHeader resolves each header cell to a field key, or "" to ignore the column.
func mapHeader(header []string, aliases map[string]string) []string {
	fields := make([]string, len(header))
	for i, h := range header {
		key := headerKey(h)
		if f, ok := aliases[key]; ok {
			fields[i] = f
			continue
		}
		snake := strings.ReplaceAll(key, " ", "_")
		if knownFields[snake] {
			fields[i] = snake
		}
	}
	return fields
}

// rowToRaw builds a RawRecord from positional cells. Empty cells are omitted.
func rowToRaw(fields, cells []string) models.RawRecord {
	raw := make(models.RawRecord, len(fields))
	for i, f := range fields {
		if f == "" || i >= len(cells) {
			continue
		}
		v := strings.TrimSpace(cells[i])
		if v == "" {
			continue
		}
		if _, dup := raw[f]; dup {
			continue
		}
		raw[f] = v
	}
	return raw
}
