// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package integrate

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/tomtom215/unisearch/internal/models"
	"github.com/tomtom215/unisearch/internal/normalize"
)

func ptrEq(p *float64, want float64) bool {
	return p != nil && math.Abs(*p-want) < 1e-9
}

// ========================================
// End-to-end
// ========================================

func TestMerge_TorontoScenario(t *testing.T) {
	primary := []models.UniversityRecord{{
		Name:          "Univ. of Toronto",
		Country:       "CA",
		QSRank:        models.IntPtr(21),
		AcademicRigor: nil,
		DataSources:   []string{models.SourceQSRankings},
	}}
	secondary := []models.UniversityRecord{{
		Name:          "University of Toronto",
		Country:       "Canada",
		AcademicRigor: models.FloatPtr(8.5),
		ResponseCount: 4,
		DataSources:   []string{models.SourceFeedback},
	}}

	n := normalize.New(0)
	if n.Country(primary[0].Country) != n.Country(secondary[0].Country) {
		t.Fatal("countries should normalize identically")
	}
	if n.Name(primary[0].Name) != n.Name(secondary[0].Name) {
		t.Fatal("names should normalize identically")
	}

	out, report, err := New(nil, n).Merge(context.Background(), primary, secondary)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	got := out[0]
	if !ptrEq(got.AcademicRigor, 8.5) {
		t.Errorf("AcademicRigor = %v, want 8.5", got.AcademicRigor)
	}
	if got.ResponseCount != 4 {
		t.Errorf("ResponseCount = %d, want 4", got.ResponseCount)
	}
	if got.QSRank == nil || *got.QSRank != 21 {
		t.Errorf("QSRank = %v, want primary value 21", got.QSRank)
	}
	if got.CanonicalName != "University of Toronto" {
		t.Errorf("CanonicalName = %q", got.CanonicalName)
	}
	if !got.HasSource(models.SourceFeedback) || !got.HasSource(models.SourceQSRankings) {
		t.Errorf("DataSources = %v", got.DataSources)
	}
	if report.MatchedPrimary != 1 || report.MatchedSecondary != 1 || len(report.Dropped) != 0 {
		t.Errorf("unexpected report %+v", report)
	}
}

// ========================================
// Cardinality
// ========================================

func TestMerge_PreservesPrimaryCountAndDropsUnmatched(t *testing.T) {
	primary := []models.UniversityRecord{
		{Name: "University of Oxford", Country: "United Kingdom", ResponseCount: 5},
		{Name: "University of Tokyo", Country: "Japan"},
		{Name: "ETH Zurich", Country: "Switzerland"},
	}
	secondary := []models.UniversityRecord{
		{Name: "Univ. of Tokyo", Country: "Japan", StudentLife: models.FloatPtr(6)},
		{Name: "Completely Unknown College", Country: "Japan", StudentLife: models.FloatPtr(9)},
	}

	out, report, err := New(nil, nil).Merge(context.Background(), primary, secondary)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(primary) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(primary))
	}
	for i := range primary {
		if out[i].Name != primary[i].Name {
			t.Errorf("out[%d] = %q, primary order not preserved", i, out[i].Name)
		}
	}
	if out[0].ResponseCount != 0 {
		t.Errorf("unmatched primary ResponseCount = %d, want 0", out[0].ResponseCount)
	}
	if out[1].ResponseCount != 1 {
		t.Errorf("matched primary with zero-count feedback: ResponseCount = %d, want 1", out[1].ResponseCount)
	}
	if len(report.Dropped) != 1 || report.Dropped[0] != "Completely Unknown College" {
		t.Errorf("Dropped = %v", report.Dropped)
	}
	if primary[0].ResponseCount != 5 {
		t.Error("input was modified")
	}
}

func TestMerge_EmptyInputs(t *testing.T) {
	out, err := MergeSources(nil, []models.UniversityRecord{{Name: "X", Country: "Y"}})
	if err != nil || len(out) != 0 {
		t.Errorf("MergeSources(nil, ...) = (%v, %v)", out, err)
	}

	primary := []models.UniversityRecord{{Name: "X University", Country: "Peru", ResponseCount: 3}}
	out, err = MergeSources(primary, nil)
	if err != nil || len(out) != 1 || out[0].ResponseCount != 0 {
		t.Errorf("MergeSources(primary, nil) = (%+v, %v)", out, err)
	}
}

// ========================================
// Precedence
// ========================================

func TestMerge_FieldPrecedence(t *testing.T) {
	primary := []models.UniversityRecord{{
		Name:           "University of Melbourne",
		Country:        "Australia",
		City:           "Melbourne",
		QSRank:         models.IntPtr(14),
		CampusSafety:   models.FloatPtr(5),
		StudentLife:    models.FloatPtr(6),
		OverallQuality: models.FloatPtr(6),
	}}
	secondary := []models.UniversityRecord{{
		Name:            "The University of Melbourne",
		Country:         "Australia",
		City:            "Parkville",
		QSRank:          models.IntPtr(1),
		CampusSafety:    models.FloatPtr(9),
		StudentLife:     nil,
		OverallQuality:  models.FloatPtr(8),
		ResearchQuality: models.FloatPtr(7),
		Accommodation:   models.FacilityYes,
		Language:        "English",
		ResponseCount:   2,
	}}

	out, err := MergeSources(primary, secondary)
	if err != nil {
		t.Fatal(err)
	}
	got := out[0]

	if !ptrEq(got.CampusSafety, 9) {
		t.Errorf("CampusSafety = %v, want secondary 9", got.CampusSafety)
	}
	if !ptrEq(got.StudentLife, 6) {
		t.Errorf("StudentLife = %v, nil secondary must not clear primary", got.StudentLife)
	}
	if !ptrEq(got.OverallQuality, 6) {
		t.Errorf("OverallQuality = %v, want primary 6 (fill only)", got.OverallQuality)
	}
	if !ptrEq(got.ResearchQuality, 7) {
		t.Errorf("ResearchQuality = %v, want filled 7", got.ResearchQuality)
	}
	if got.Accommodation != models.FacilityYes || got.Language != "English" {
		t.Errorf("facility/language not filled: %q %q", got.Accommodation, got.Language)
	}
	if *got.QSRank != 14 || got.City != "Melbourne" || got.Name != "University of Melbourne" {
		t.Errorf("rankings and identity must come from primary: %+v", got)
	}
}

func TestMerge_FillOnlyPolicy(t *testing.T) {
	primary := []models.UniversityRecord{{Name: "Kyoto University", Country: "Japan", CampusSafety: models.FloatPtr(5)}}
	secondary := []models.UniversityRecord{{Name: "Kyoto University", Country: "Japan", CampusSafety: models.FloatPtr(9), Openness: models.FloatPtr(4)}}

	in := New(nil, nil, WithPolicy(Policy{SubjectiveFromSecondary: false}))
	out, _, err := in.Merge(context.Background(), primary, secondary)
	if err != nil {
		t.Fatal(err)
	}
	if !ptrEq(out[0].CampusSafety, 5) {
		t.Errorf("CampusSafety = %v, fill-only policy must keep primary", out[0].CampusSafety)
	}
	if !ptrEq(out[0].Openness, 4) {
		t.Errorf("Openness = %v, want filled 4", out[0].Openness)
	}
}

func TestMerge_MultipleFeedbackRowsAreMerged(t *testing.T) {
	primary := []models.UniversityRecord{{Name: "McGill University", Country: "Canada"}}
	secondary := []models.UniversityRecord{
		{Name: "McGill University", Country: "Canada", AcademicRigor: models.FloatPtr(8), ResponseCount: 0},
		{Name: "Mcgill Univ.", Country: "", AcademicRigor: models.FloatPtr(6), ResponseCount: 3},
	}

	out, report, err := New(nil, nil).Merge(context.Background(), primary, secondary)
	if err != nil {
		t.Fatal(err)
	}
	if !ptrEq(out[0].AcademicRigor, 7) {
		t.Errorf("AcademicRigor = %v, want mean 7", out[0].AcademicRigor)
	}
	if out[0].ResponseCount != 4 {
		t.Errorf("ResponseCount = %d, want 1+3", out[0].ResponseCount)
	}
	if report.MatchedSecondary != 2 {
		t.Errorf("MatchedSecondary = %d, want 2", report.MatchedSecondary)
	}
}

// ========================================
// Country scope
// ========================================

func TestMerge_CountryScope(t *testing.T) {
	primary := []models.UniversityRecord{{Name: "University of Georgia", Country: "United States"}}
	secondary := []models.UniversityRecord{{Name: "University of Georgia", Country: "Georgia", StudentLife: models.FloatPtr(8)}}

	out, report, err := New(nil, nil).Merge(context.Background(), primary, secondary)
	if err != nil {
		t.Fatal(err)
	}
	if out[0].StudentLife != nil || len(report.Dropped) != 1 {
		t.Error("country-scoped matching must not cross countries")
	}

	out, _, err = New(nil, nil, WithCountryScope(false)).Merge(context.Background(), primary, secondary)
	if err != nil {
		t.Fatal(err)
	}
	if !ptrEq(out[0].StudentLife, 8) {
		t.Error("unscoped matching should match across countries")
	}
}

func TestMerge_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	primary := []models.UniversityRecord{{Name: "A University", Country: "Peru"}}
	secondary := []models.UniversityRecord{{Name: "A University", Country: "Peru"}}

	_, _, err := New(nil, nil).Merge(ctx, primary, secondary)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// ========================================
// Entity anchor
// ========================================

func TestMerge_CountryAnchor(t *testing.T) {
	t.Run("borrowed from feedback", func(t *testing.T) {
		primary := []models.UniversityRecord{{Name: "University of Otago", QSRank: models.IntPtr(206)}}
		secondary := []models.UniversityRecord{{Name: "University of Otago", Country: "New Zealand"}}

		out, _, err := New(nil, nil, WithCountryScope(false)).Merge(context.Background(), primary, secondary)
		if err != nil {
			t.Fatalf("Merge() error = %v", err)
		}
		if out[0].Country != "New Zealand" {
			t.Errorf("Country = %q, want New Zealand", out[0].Country)
		}
	})

	t.Run("absent everywhere", func(t *testing.T) {
		primary := []models.UniversityRecord{{Name: "Nowhere University"}}
		secondary := []models.UniversityRecord{{Name: "Nowhere University"}}

		_, _, err := New(nil, nil).Merge(context.Background(), primary, secondary)
		if !errors.Is(err, models.ErrStructural) {
			t.Fatalf("error = %v, want ErrStructural", err)
		}
		var serr *models.StructuralError
		if !errors.As(err, &serr) || serr.Key != "country" || len(serr.Members) != 2 {
			t.Errorf("StructuralError = %+v, want key country with 2 members", serr)
		}
	})
}
