// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package resolve

import (
	"strings"
	"unicode/utf8"

	"github.com/tomtom215/unisearch/internal/models"
)

// Merge folds a cluster into one record:
//   - name, city, country, website: longest non-empty value, first seen on ties
//   - bounded metrics and raw table scores: mean of non-nil values
//   - ranks: minimum non-nil value
//   - response_count: sum
//   - data sources: union
//   - facilities, language, climate, tuition: first non-nil value
//
// A field that is nil in every member stays nil. Merge returns a
// *models.StructuralError when no member carries a country.
func Merge(cluster []models.UniversityRecord) (models.UniversityRecord, error) {
	if len(cluster) == 0 {
		return models.UniversityRecord{}, &models.StructuralError{Key: "records"}
	}

	members := make([]string, len(cluster))
	for i := range cluster {
		members[i] = cluster[i].Name
	}

	out := cluster[0].Clone()
	out.DataSources = nil

	out.Name = longest(cluster, func(r *models.UniversityRecord) string { return r.Name })
	out.City = longest(cluster, func(r *models.UniversityRecord) string { return r.City })
	out.Country = longest(cluster, func(r *models.UniversityRecord) string { return r.Country })
	out.WebsiteURL = longest(cluster, func(r *models.UniversityRecord) string { return r.WebsiteURL })
	if strings.TrimSpace(out.Country) == "" {
		return models.UniversityRecord{}, &models.StructuralError{Key: "country", Members: members}
	}

	out.OverallQuality = mean(cluster, func(r *models.UniversityRecord) *float64 { return r.OverallQuality })
	out.AcademicRigor = mean(cluster, func(r *models.UniversityRecord) *float64 { return r.AcademicRigor })
	out.Openness = mean(cluster, func(r *models.UniversityRecord) *float64 { return r.Openness })
	out.CulturalDiversity = mean(cluster, func(r *models.UniversityRecord) *float64 { return r.CulturalDiversity })
	out.StudentLife = mean(cluster, func(r *models.UniversityRecord) *float64 { return r.StudentLife })
	out.CampusSafety = mean(cluster, func(r *models.UniversityRecord) *float64 { return r.CampusSafety })
	out.ResearchQuality = mean(cluster, func(r *models.UniversityRecord) *float64 { return r.ResearchQuality })
	out.QSScore = mean(cluster, func(r *models.UniversityRecord) *float64 { return r.QSScore })
	out.THEScore = mean(cluster, func(r *models.UniversityRecord) *float64 { return r.THEScore })

	out.QSRank = minRank(cluster, func(r *models.UniversityRecord) *int { return r.QSRank })
	out.THERank = minRank(cluster, func(r *models.UniversityRecord) *int { return r.THERank })
	out.ARWURank = minRank(cluster, func(r *models.UniversityRecord) *int { return r.ARWURank })
	out.USNewsRank = minRank(cluster, func(r *models.UniversityRecord) *int { return r.USNewsRank })

	out.TuitionInternational = firstFloat(cluster, func(r *models.UniversityRecord) *float64 { return r.TuitionInternational })
	out.TuitionLocal = firstFloat(cluster, func(r *models.UniversityRecord) *float64 { return r.TuitionLocal })

	out.ResponseCount = 0
	for i := range cluster {
		r := &cluster[i]
		out.ResponseCount += r.ResponseCount
		out.AddSource(r.DataSources...)

		if out.Accommodation == "" {
			out.Accommodation = r.Accommodation
		}
		if out.LanguageClasses == "" {
			out.LanguageClasses = r.LanguageClasses
		}
		if out.Accessibility == "" {
			out.Accessibility = r.Accessibility
		}
		if out.Language == "" {
			out.Language = r.Language
		}
		if out.ClimateType == "" {
			out.ClimateType = r.ClimateType
		}
		if out.ID == 0 {
			out.ID = r.ID
		}
		if r.LastUpdated.After(out.LastUpdated) {
			out.LastUpdated = r.LastUpdated
		}
	}

	return out, nil
}

func longest(cluster []models.UniversityRecord, get func(*models.UniversityRecord) string) string {
	best, bestLen := "", 0
	for i := range cluster {
		v := strings.TrimSpace(get(&cluster[i]))
		if n := utf8.RuneCountInString(v); n > bestLen {
			best, bestLen = v, n
		}
	}
	return best
}

func mean(cluster []models.UniversityRecord, get func(*models.UniversityRecord) *float64) *float64 {
	sum, n := 0.0, 0
	for i := range cluster {
		if v := get(&cluster[i]); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

func minRank(cluster []models.UniversityRecord, get func(*models.UniversityRecord) *int) *int {
	var best *int
	for i := range cluster {
		if v := get(&cluster[i]); v != nil && (best == nil || *v < *best) {
			best = models.IntPtr(*v)
		}
	}
	return best
}

func firstFloat(cluster []models.UniversityRecord, get func(*models.UniversityRecord) *float64) *float64 {
	for i := range cluster {
		if v := get(&cluster[i]); v != nil {
			return models.FloatPtr(*v)
		}
	}
	return nil
}
