// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package ingest

import (
	"context"
	"testing"

	"github.com/tomtom215/unisearch/internal/models"
)

func TestCleaner_ToRecord(t *testing.T) {
	t.Parallel()

	c := NewCleaner(nil, nil)
	rec := c.ToRecord(models.RawRecord{
		FieldName:            "univ. of toronto",
		FieldCity:            "Toronto (ON)",
		FieldCountry:         "CA",
		FieldQSRank:          "=21",
		FieldTHERank:         int64(18),
		FieldQSScore:         "85.3",
		FieldAcademicRigor:   "12",
		FieldStudentLife:     "75%",
		FieldOverallQuality:  8.4,
		FieldAccommodation:   "yes",
		FieldLanguageClasses: "partially",
		FieldTuitionIntl:     "$45,000",
		FieldResponseCount:   int64(4),
	}, models.SourceLegacyDB)

	if rec.Name != "University of Toronto" || rec.CanonicalName != rec.Name {
		t.Errorf("Name = %q, CanonicalName = %q", rec.Name, rec.CanonicalName)
	}
	if rec.Country != "Canada" || rec.City != "Toronto" {
		t.Errorf("Country = %q, City = %q", rec.Country, rec.City)
	}
	if rec.QSRank == nil || *rec.QSRank != 21 || rec.THERank == nil || *rec.THERank != 18 {
		t.Errorf("ranks = %v, %v", rec.QSRank, rec.THERank)
	}
	if rec.QSScore == nil || *rec.QSScore != 85.3 {
		t.Errorf("QSScore = %v (ranking scores are never clamped)", rec.QSScore)
	}
	if rec.AcademicRigor == nil || *rec.AcademicRigor != 10 {
		t.Errorf("AcademicRigor = %v, want clamped 10", rec.AcademicRigor)
	}
	if rec.StudentLife == nil || *rec.StudentLife != 7.5 {
		t.Errorf("StudentLife = %v, want 7.5 from percentage", rec.StudentLife)
	}
	if rec.OverallQuality == nil || *rec.OverallQuality != 8.4 {
		t.Errorf("OverallQuality = %v", rec.OverallQuality)
	}
	if rec.Accommodation != models.FacilityYes || rec.LanguageClasses != models.FacilityYes {
		t.Errorf("facilities = %q, %q", rec.Accommodation, rec.LanguageClasses)
	}
	if rec.TuitionInternational == nil || *rec.TuitionInternational != 45000 {
		t.Errorf("TuitionInternational = %v", rec.TuitionInternational)
	}
	if rec.ResponseCount != 4 {
		t.Errorf("ResponseCount = %d", rec.ResponseCount)
	}
	if !rec.HasSource(models.SourceLegacyDB) || rec.LastUpdated.IsZero() {
		t.Errorf("DataSources = %v, LastUpdated = %v", rec.DataSources, rec.LastUpdated)
	}
}

func TestCleaner_CleanDropsInvalidRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    models.RawRecord
		reason string
	}{
		{"missing name", models.RawRecord{FieldCountry: "US"}, DropMissingName},
		{"missing country", models.RawRecord{FieldName: "Some University"}, DropMissingCountry},
		{"short name", models.RawRecord{FieldName: "AB", FieldCountry: "US"}, DropInvalidName},
		{"numeric name", models.RawRecord{FieldName: "12345", FieldCountry: "US"}, DropInvalidName},
		{"zero rank", models.RawRecord{FieldName: "Zero Rank University", FieldCountry: "US", FieldQSRank: "0"}, DropInvalidRank},
		{"negative rank", models.RawRecord{FieldName: "Negative Rank University", FieldCountry: "US", FieldTHERank: int64(-3)}, DropInvalidRank},
		{"metric out of range", models.RawRecord{FieldName: "Metric University", FieldCountry: "US", FieldOverallQuality: "15"}, DropInvalidRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, stats, err := NewCleaner(nil, nil).Clean(context.Background(), "test", []models.RawRecord{tt.raw})
			if err != nil {
				t.Fatalf("Clean() error = %v", err)
			}
			if len(out) != 0 {
				t.Errorf("Clean() kept %v", out)
			}
			if stats.Invalid != 1 || stats.Reasons[tt.reason] != 1 {
				t.Errorf("stats = %+v, want one %s drop", stats, tt.reason)
			}
		})
	}
}

func TestCleaner_CleanMergesDuplicates(t *testing.T) {
	t.Parallel()

	rows := []models.RawRecord{
		{FieldName: "University of Tokyo", FieldCountry: "Japan", FieldQSRank: "28", FieldQSScore: "80"},
		{FieldName: "Kyoto University", FieldCountry: "JP", FieldQSRank: "46"},
		{FieldName: "Univ. of Tokyo", FieldCountry: "JP", FieldQSRank: "=25", FieldQSScore: "90"},
		// Same name, other country: kept apart
		{FieldName: "University of Tokyo", FieldCountry: "France"},
		{FieldName: "", FieldCountry: "Japan"},
	}

	out, stats, err := NewCleaner(nil, nil).Clean(context.Background(), models.SourceQSRankings, rows)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if stats.Read != 5 || stats.Invalid != 1 || stats.Duplicates != 1 || stats.Kept != 3 {
		t.Errorf("stats = %+v, want read 5 invalid 1 duplicates 1 kept 3", stats)
	}
	if stats.Dropped() != 2 {
		t.Errorf("Dropped() = %d, want 2", stats.Dropped())
	}
	if len(out) != 3 {
		t.Fatalf("Clean() returned %d records", len(out))
	}

	tokyo := out[0]
	if tokyo.Name != "University of Tokyo" || tokyo.Country != "Japan" {
		t.Errorf("first record = %q / %q", tokyo.Name, tokyo.Country)
	}
	if tokyo.QSRank == nil || *tokyo.QSRank != 25 {
		t.Errorf("merged QSRank = %v, want best rank 25", tokyo.QSRank)
	}
	if tokyo.QSScore == nil || *tokyo.QSScore != 85 {
		t.Errorf("merged QSScore = %v, want mean 85", tokyo.QSScore)
	}
}

func TestCleaner_AggregateFeedback(t *testing.T) {
	t.Parallel()

	rows := []models.RawRecord{
		{FieldName: "McGill University", FieldAcademicRigor: "8", FieldCity: "Montreal"},
		{FieldName: "mcgill university", FieldAcademicRigor: "9", FieldStudentLife: "6", FieldAccommodation: "Yes", FieldCountry: "Canada"},
		{FieldName: "University of Toronto", FieldAcademicRigor: "7"},
		{FieldName: "McGill University", FieldAcademicRigor: "7.5", FieldAccommodation: "No", FieldLanguage: "English, French"},
		{FieldName: "", FieldAcademicRigor: "1"},
		{FieldName: "Broken Survey College", FieldOverallQuality: "42"},
	}

	out, stats := NewCleaner(nil, nil).AggregateFeedback(context.Background(), rows)
	if len(out) != 2 {
		t.Fatalf("AggregateFeedback() returned %d records, want 2", len(out))
	}
	if stats.Read != 6 || stats.Invalid != 2 || stats.Kept != 2 || stats.Duplicates != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Reasons[DropMissingName] != 1 || stats.Reasons[DropInvalidRecord] != 1 {
		t.Errorf("reasons = %v", stats.Reasons)
	}

	mcgill := out[0]
	if mcgill.Name != "McGill University" && mcgill.Name != "Mcgill University" {
		t.Errorf("first record = %q, want first-seen McGill", mcgill.Name)
	}
	if mcgill.ResponseCount != 3 {
		t.Errorf("ResponseCount = %d, want 3", mcgill.ResponseCount)
	}
	// (8 + 9 + 7.5) / 3 = 8.1666...
	if mcgill.AcademicRigor == nil || *mcgill.AcademicRigor != 8.17 {
		t.Errorf("AcademicRigor = %v, want 8.17", mcgill.AcademicRigor)
	}
	if mcgill.StudentLife == nil || *mcgill.StudentLife != 6 {
		t.Errorf("StudentLife = %v, want mean of the one answer", mcgill.StudentLife)
	}
	if mcgill.Openness != nil {
		t.Errorf("Openness = %v, want nil when nobody answered", mcgill.Openness)
	}
	if mcgill.City != "Montreal" || mcgill.Country != "Canada" || mcgill.Accommodation != models.FacilityYes || mcgill.Language != "English, French" {
		t.Errorf("categoricals = %q %q %q %q, want first non-empty answers",
			mcgill.City, mcgill.Country, mcgill.Accommodation, mcgill.Language)
	}
	if !mcgill.HasSource(models.SourceFeedback) {
		t.Errorf("DataSources = %v", mcgill.DataSources)
	}

	if out[1].ResponseCount != 1 || out[1].Country != "" {
		t.Errorf("Toronto = %+v, want one response and no country", out[1])
	}
}
