// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package recommend

import (
	"github.com/tomtom215/unisearch/internal/models"
)

// passesHardFilters applies the non-negotiable constraints of a profile.
// A record with unknown tuition fails a stated budget and a record with an
// unknown rank fails a stated worst acceptable rank.
//
//nolint:gocritic // read-only record and profile
func passesHardFilters(record models.UniversityRecord, profile models.UserProfile, tolerance float64) bool {
	if budget := profile.MaxTuitionBudget; budget != nil {
		if record.TuitionInternational == nil || *record.TuitionInternational > *budget*tolerance {
			return false
		}
	}
	if len(profile.PreferredCountries) > 0 && !InPreferredCountry(record.Country, profile.PreferredCountries) {
		return false
	}
	if maxRank := profile.MinAcceptableRank; maxRank != nil {
		if record.QSRank == nil || *record.QSRank > *maxRank {
			return false
		}
	}
	if profile.AccommodationRequired && !record.Accommodation.Available() {
		return false
	}
	return true
}

// isSimilar reports whether candidate resembles base: same country, and
// within window QS places when base is ranked.
//
//nolint:gocritic // read-only records
func isSimilar(base, candidate models.UniversityRecord, window int) bool {
	if candidate.ID == base.ID && candidate.Name == base.Name {
		return false
	}
	if !sameCountry(base.Country, candidate.Country) {
		return false
	}
	if base.QSRank == nil {
		return true
	}
	if candidate.QSRank == nil {
		return false
	}
	d := *candidate.QSRank - *base.QSRank
	return d >= -window && d <= window
}

//nolint:gocritic // read-only record
func isTrending(record models.UniversityRecord, cfg TrendingConfig) bool {
	return atLeast(record.StudentLife, cfg.MinStudentLife) &&
		atLeast(record.CulturalDiversity, cfg.MinCulturalDiversity) &&
		atLeast(record.AcademicRigor, cfg.MinAcademicRigor)
}

func atLeast(v *float64, threshold float64) bool {
	return v != nil && *v >= threshold
}

func sameCountry(a, b string) bool {
	return a != "" && InPreferredCountry(b, []string{a})
}

// rankLess orders by QS rank ascending with unranked records last.
func rankLess(a, b *int) (less, equal bool) {
	switch {
	case a == nil && b == nil:
		return false, true
	case a == nil:
		return false, false
	case b == nil:
		return true, false
	default:
		return *a < *b, *a == *b
	}
}
