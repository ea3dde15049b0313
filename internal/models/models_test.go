// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestParseFacilityFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want FacilityFlag
	}{
		{"Yes", FacilityYes},
		{" y ", FacilityYes},
		{"TRUE", FacilityYes},
		{"no", FacilityNo},
		{"None.", FacilityNo},
		{"partially", FacilityPartial},
		{"Limited!", FacilityPartial},
		{"", ""},
		{"maybe", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseFacilityFlag(tt.in); got != tt.want {
				t.Errorf("ParseFacilityFlag(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if !FacilityPartial.Available() || FacilityNo.Available() || FacilityFlag("").Available() {
		t.Error("Available() mismatch")
	}
}

func TestRawRecord_String(t *testing.T) {
	t.Parallel()
	r := RawRecord{"name": "EPFL", "rank": 26, "city": nil}

	if got := r.String("name"); got != "EPFL" {
		t.Errorf("name = %q", got)
	}
	for _, col := range []string{"rank", "city", "missing"} {
		if got := r.String(col); got != "" {
			t.Errorf("String(%q) = %q, want empty", col, got)
		}
	}
}

func TestUniversityRecord_AddSource(t *testing.T) {
	t.Parallel()
	var u UniversityRecord

	u.AddSource(SourceQSRankings, SourceFeedback, "", SourceQSRankings)
	u.AddSource(SourceHTMLRanking)

	want := []string{SourceFeedback, SourceHTMLRanking, SourceQSRankings}
	if !reflect.DeepEqual(u.DataSources, want) {
		t.Errorf("DataSources = %v, want %v", u.DataSources, want)
	}
	if !u.HasSource(SourceFeedback) || u.HasSource(SourceLegacyDB) {
		t.Error("HasSource mismatch")
	}
}

func TestUniversityRecord_CloneIsDeep(t *testing.T) {
	t.Parallel()
	orig := UniversityRecord{
		Name:          "MIT",
		Country:       "United States",
		QSRank:        IntPtr(1),
		AcademicRigor: FloatPtr(9.5),
		DataSources:   []string{SourceQSRankings},
	}

	c := orig.Clone()
	*c.QSRank = 2
	*c.AcademicRigor = 1
	c.DataSources[0] = "changed"

	if *orig.QSRank != 1 || *orig.AcademicRigor != 9.5 || orig.DataSources[0] != SourceQSRankings {
		t.Errorf("original modified through clone: %+v", orig)
	}
}

func TestUniversityRecord_Validate(t *testing.T) {
	t.Parallel()

	valid := func() UniversityRecord {
		return UniversityRecord{Name: "University of Toronto", Country: "Canada", QSRank: IntPtr(25), StudentLife: FloatPtr(7)}
	}

	tests := []struct {
		name      string
		mutate    func(*UniversityRecord)
		wantField string
	}{
		{"valid", func(*UniversityRecord) {}, ""},
		{"blank name", func(u *UniversityRecord) { u.Name = "   " }, "name"},
		{"missing country", func(u *UniversityRecord) { u.Country = "" }, "country"},
		{"rank zero", func(u *UniversityRecord) { u.QSRank = IntPtr(0) }, "qs_rank"},
		{"score above scale", func(u *UniversityRecord) { u.StudentLife = FloatPtr(10.5) }, "student_life"},
		{"negative responses", func(u *UniversityRecord) { u.ResponseCount = -1 }, "response_count"},
		{"bad facility", func(u *UniversityRecord) { u.Accommodation = "Sometimes" }, "accommodation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			u := valid()
			tt.mutate(&u)
			err := u.Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Validate() = %v, want ErrValidation", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error type %T", err)
			}
			found := false
			for _, f := range verr.Fields {
				if f.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("fields = %+v, want %s", verr.Fields, tt.wantField)
			}
		})
	}
}

func TestUserProfile_WithDefaults(t *testing.T) {
	t.Parallel()
	p := UserProfile{AcademicImportance: 5}.WithDefaults()

	if p.AcademicImportance != 5 {
		t.Errorf("set weight changed to %d", p.AcademicImportance)
	}
	if p.CostImportance != DefaultImportance || p.ClimateImportance != DefaultImportance {
		t.Errorf("unset weights = %d/%d, want %d", p.CostImportance, p.ClimateImportance, DefaultImportance)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("defaulted profile invalid: %v", err)
	}
}

func TestUserProfile_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*UserProfile)
		wantErr bool
	}{
		{"defaults", func(*UserProfile) {}, false},
		{"weight 6", func(p *UserProfile) { p.SafetyImportance = 6 }, true},
		{"zero budget", func(p *UserProfile) { p.MaxTuitionBudget = FloatPtr(0) }, true},
		{"rank zero", func(p *UserProfile) { p.MinAcceptableRank = IntPtr(0) }, true},
		{"too many countries", func(p *UserProfile) {
			for i := 0; i < 11; i++ {
				p.PreferredCountries = append(p.PreferredCountries, fmt.Sprintf("C%d", i))
			}
		}, true},
		{"constraints", func(p *UserProfile) {
			p.MaxTuitionBudget = FloatPtr(20000)
			p.PreferredCountries = []string{"Germany"}
			p.LanguageRequirements = []string{"English"}
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := UserProfile{}.WithDefaults()
			tt.mutate(&p)
			if err := p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestListParams_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*ListParams)
		wantErr bool
	}{
		{"defaults", func(*ListParams) {}, false},
		{"sort by name desc", func(p *ListParams) { p.SortBy, p.SortOrder = "name", "desc" }, false},
		{"sort injection", func(p *ListParams) { p.SortBy = "name; DROP TABLE universities" }, true},
		{"bad order", func(p *ListParams) { p.SortOrder = "sideways" }, true},
		{"limit zero", func(p *ListParams) { p.Limit = 0 }, true},
		{"limit 500", func(p *ListParams) { p.Limit = 500 }, false},
		{"limit 501", func(p *ListParams) { p.Limit = 501 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := DefaultListParams()
			tt.mutate(&p)
			if err := p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSearchFilters_Validate(t *testing.T) {
	t.Parallel()

	f := SearchFilters{Limit: 50, MinCampusSafety: FloatPtr(7)}
	if err := f.Validate(); err != nil {
		t.Errorf("valid filters: %v", err)
	}
	f.MinCampusSafety = FloatPtr(-1)
	if err := f.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("negative minimum: %v", err)
	}
}

func TestErrorKinds(t *testing.T) {
	t.Parallel()

	verr := &ValidationError{Subject: "user profile", Fields: []FieldError{{Field: "a", Message: "a too high"}}}
	if !errors.Is(fmt.Errorf("wrap: %w", verr), ErrValidation) || errors.Is(verr, ErrStructural) {
		t.Error("ValidationError kind mismatch")
	}
	if !strings.Contains(verr.Error(), "a too high") {
		t.Errorf("message = %q", verr.Error())
	}

	serr := &StructuralError{Key: "country", Members: []string{"A", "B"}}
	if !errors.Is(serr, ErrStructural) || errors.Is(serr, ErrValidation) {
		t.Error("StructuralError kind mismatch")
	}
	if !strings.Contains(serr.Error(), "[A, B]") {
		t.Errorf("message = %q", serr.Error())
	}
}
