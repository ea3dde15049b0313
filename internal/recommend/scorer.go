// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package recommend

import (
	"fmt"
	"math"
	"strings"

	"github.com/tomtom215/unisearch/internal/models"
	"github.com/tomtom215/unisearch/internal/normalize"
)

// Criterion shares of the achievable score, in percent.
const (
	WeightAcademic      = 25.0
	WeightResearch      = 15.0
	WeightDiversity     = 15.0
	WeightStudentLife   = 15.0
	WeightSafety        = 10.0
	WeightCost          = 10.0
	WeightRanking       = 5.0
	WeightLocation      = 5.0
	WeightLanguage      = 5.0
	WeightClimate       = 5.0
	WeightAccommodation = 5.0
)

// Reason texts.
const (
	ReasonExcellentAcademics = "Excellent academic rigor match"
	ReasonGoodAcademics      = "Good academic standards"
	ReasonStrongResearch     = "Strong research opportunities"
	ReasonDiverse            = "Highly diverse international environment"
	ReasonStudentLife        = "Excellent student life and activities"
	ReasonSafe               = "Very safe campus environment"
	ReasonWithinBudget       = "Within your budget"
	ReasonTop100             = "Top 100 global ranking"
	ReasonHighlyRanked       = "Highly ranked university"
	ReasonLanguage           = "Offers programs in your preferred language"
	ReasonAccommodation      = "University accommodation available"

	reasonCountryFmt = "Located in preferred country: %s"
	reasonClimateFmt = "Perfect climate match: %s"
)

// Reason thresholds.
const (
	excellentMetric     = 8.0
	goodAcademics       = 6.0
	highImportance      = 4
	top100Rank          = 100
	highlyRankedMaxRank = 500
)

// tally accumulates the weighted numerator and denominator.
type tally struct {
	num, den float64
	reasons  []string
}

func (t *tally) add(earned, weight float64) {
	t.num += earned
	t.den += weight
}

func (t *tally) reason(r string) {
	t.reasons = append(t.reasons, r)
}

func weight(importance int, share float64) float64 {
	return float64(importance) / 5.0 * share
}

// Score rates record against profile on [0,100] and lists the reasons that
// cleared a notable threshold, in criterion order. It never fails: a
// criterion without data is simply left out.
//
//nolint:gocritic // records are passed by value to keep Score obviously pure
func Score(record models.UniversityRecord, profile models.UserProfile) (float64, []string) {
	var t tally

	if v := record.AcademicRigor; v != nil {
		w := weight(profile.AcademicImportance, WeightAcademic)
		t.add(*v/10*w, w)
		switch {
		case *v >= excellentMetric && profile.AcademicImportance >= highImportance:
			t.reason(ReasonExcellentAcademics)
		case *v >= goodAcademics:
			t.reason(ReasonGoodAcademics)
		}
	}

	if v := record.ResearchQuality; v != nil {
		w := weight(profile.ResearchImportance, WeightResearch)
		t.add(*v/10*w, w)
		if *v >= excellentMetric && profile.ResearchImportance >= highImportance {
			t.reason(ReasonStrongResearch)
		}
	}

	if v := record.CulturalDiversity; v != nil {
		w := weight(profile.DiversityImportance, WeightDiversity)
		t.add(*v/10*w, w)
		if *v >= excellentMetric && profile.DiversityImportance >= highImportance {
			t.reason(ReasonDiverse)
		}
	}

	if v := record.StudentLife; v != nil {
		w := weight(profile.StudentLifeImportance, WeightStudentLife)
		t.add(*v/10*w, w)
		if *v >= excellentMetric && profile.StudentLifeImportance >= highImportance {
			t.reason(ReasonStudentLife)
		}
	}

	if v := record.CampusSafety; v != nil {
		w := weight(profile.SafetyImportance, WeightSafety)
		t.add(*v/10*w, w)
		if *v >= excellentMetric {
			t.reason(ReasonSafe)
		}
	}

	scoreCost(&t, record, profile)
	scoreRanking(&t, record, profile)
	scorePreferences(&t, record, profile)

	if t.den <= 0 {
		return 0, t.reasons
	}
	return math.Min(100, 100*t.num/t.den), t.reasons
}

// scoreCost awards full weight within budget, otherwise budget/tuition of it.
//
//nolint:gocritic // see Score
func scoreCost(t *tally, record models.UniversityRecord, profile models.UserProfile) {
	tuition, budget := record.TuitionInternational, profile.MaxTuitionBudget
	if tuition == nil || budget == nil || *budget <= 0 {
		return
	}
	w := weight(profile.CostImportance, WeightCost)
	if *tuition <= *budget {
		t.add(w, w)
		t.reason(ReasonWithinBudget)
		return
	}
	ratio := math.Max(0, math.Min(1, *budget / *tuition))
	t.add(w*ratio, w)
}

//nolint:gocritic // see Score
func scoreRanking(t *tally, record models.UniversityRecord, profile models.UserProfile) {
	if record.QSRank == nil {
		return
	}
	rank := *record.QSRank
	w := weight(profile.RankingImportance, WeightRanking)
	if profile.MinAcceptableRank == nil || rank > *profile.MinAcceptableRank {
		t.add(0, w)
		return
	}
	t.add(w, w)
	switch {
	case rank <= top100Rank:
		t.reason(ReasonTop100)
	case rank <= highlyRankedMaxRank:
		t.reason(ReasonHighlyRanked)
	}
}

//nolint:gocritic // see Score
func scorePreferences(t *tally, record models.UniversityRecord, profile models.UserProfile) {
	if len(profile.PreferredCountries) > 0 {
		w := weight(profile.LocationImportance, WeightLocation)
		if InPreferredCountry(record.Country, profile.PreferredCountries) {
			t.add(w, w)
			t.reason(fmt.Sprintf(reasonCountryFmt, record.Country))
		} else {
			t.add(0, w)
		}
	}

	if len(profile.LanguageRequirements) > 0 {
		w := weight(profile.LanguageImportance, WeightLanguage)
		if OffersLanguage(record.Language, profile.LanguageRequirements) {
			t.add(w, w)
			t.reason(ReasonLanguage)
		} else {
			t.add(0, w)
		}
	}

	if climate := strings.TrimSpace(profile.PreferredClimate); climate != "" {
		w := weight(profile.ClimateImportance, WeightClimate)
		if strings.EqualFold(strings.TrimSpace(record.ClimateType), climate) {
			t.add(w, w)
			t.reason(fmt.Sprintf(reasonClimateFmt, climate))
		} else {
			t.add(0, w)
		}
	}

	if profile.AccommodationRequired {
		w := weight(profile.AccommodationImportance, WeightAccommodation)
		if record.Accommodation.Available() {
			t.add(w, w)
			t.reason(ReasonAccommodation)
		} else {
			t.add(0, w)
		}
	}
}

// InPreferredCountry compares normalized country names.
func InPreferredCountry(country string, preferred []string) bool {
	c := normalize.NormalizeCountry(country)
	if c == "" {
		return false
	}
	for _, p := range preferred {
		if strings.EqualFold(normalize.NormalizeCountry(p), c) {
			return true
		}
	}
	return false
}

// OffersLanguage reports whether any required language appears in the
// record's instruction languages, ignoring case.
func OffersLanguage(languages string, required []string) bool {
	offered := strings.ToLower(languages)
	if strings.TrimSpace(offered) == "" {
		return false
	}
	for _, lang := range required {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang != "" && strings.Contains(offered, lang) {
			return true
		}
	}
	return false
}
