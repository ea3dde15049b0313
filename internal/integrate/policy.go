// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package integrate

import "github.com/tomtom215/unisearch/internal/models"

// Policy decides how a matched secondary (feedback) record updates its
// primary (ranking) record. Rankings and identity always stay with primary.
type Policy struct {
	// SubjectiveFromSecondary lets non-nil secondary values of the subjective
	// metrics (academic rigor, cultural diversity, student life, campus safety,
	// openness) replace primary values. When false they only fill gaps.
	SubjectiveFromSecondary bool
}

// DefaultPolicy treats the feedback source as authoritative for experience.
func DefaultPolicy() Policy {
	return Policy{SubjectiveFromSecondary: true}
}

// Apply updates dst from the merged secondary record src.
func (p Policy) Apply(dst *models.UniversityRecord, src *models.UniversityRecord) {
	subjective := []struct {
		dst **float64
		src *float64
	}{
		{&dst.AcademicRigor, src.AcademicRigor},
		{&dst.CulturalDiversity, src.CulturalDiversity},
		{&dst.StudentLife, src.StudentLife},
		{&dst.CampusSafety, src.CampusSafety},
		{&dst.Openness, src.Openness},
	}
	for _, f := range subjective {
		if f.src == nil {
			continue
		}
		if p.SubjectiveFromSecondary || *f.dst == nil {
			*f.dst = models.FloatPtr(*f.src)
		}
	}

	fillFloat(&dst.OverallQuality, src.OverallQuality)
	fillFloat(&dst.ResearchQuality, src.ResearchQuality)
	fillFloat(&dst.TuitionInternational, src.TuitionInternational)
	fillFloat(&dst.TuitionLocal, src.TuitionLocal)

	fillFlag(&dst.Accommodation, src.Accommodation)
	fillFlag(&dst.LanguageClasses, src.LanguageClasses)
	fillFlag(&dst.Accessibility, src.Accessibility)

	fillString(&dst.Language, src.Language)
	fillString(&dst.ClimateType, src.ClimateType)
}

func fillFloat(dst **float64, src *float64) {
	if *dst == nil && src != nil {
		*dst = models.FloatPtr(*src)
	}
}

func fillFlag(dst *models.FacilityFlag, src models.FacilityFlag) {
	if *dst == "" {
		*dst = src
	}
}

func fillString(dst *string, src string) {
	if *dst == "" {
		*dst = src
	}
}
