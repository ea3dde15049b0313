// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package models

import "time"

// DefaultImportance is applied to importance weights the caller left unset.
const DefaultImportance = 3

// UserProfile holds per-criterion importance weights (1-5) and optional
// hard constraints for one recommendation request. It is never persisted.
type UserProfile struct {
	AcademicImportance      int `json:"academic_importance" validate:"gte=1,lte=5"`
	ResearchImportance      int `json:"research_importance" validate:"gte=1,lte=5"`
	DiversityImportance     int `json:"cultural_diversity_importance" validate:"gte=1,lte=5"`
	StudentLifeImportance   int `json:"student_life_importance" validate:"gte=1,lte=5"`
	SafetyImportance        int `json:"campus_safety_importance" validate:"gte=1,lte=5"`
	CostImportance          int `json:"cost_importance" validate:"gte=1,lte=5"`
	RankingImportance       int `json:"ranking_importance" validate:"gte=1,lte=5"`
	LocationImportance      int `json:"location_importance" validate:"gte=1,lte=5"`
	LanguageImportance      int `json:"language_importance" validate:"gte=1,lte=5"`
	ClimateImportance       int `json:"climate_importance" validate:"gte=1,lte=5"`
	AccommodationImportance int `json:"accommodation_importance" validate:"gte=1,lte=5"`

	// MaxTuitionBudget is the yearly international tuition the user can afford
	MaxTuitionBudget *float64 `json:"max_tuition_budget,omitempty" validate:"omitempty,gt=0"`

	// MinAcceptableRank is the worst QS rank the user still accepts
	MinAcceptableRank *int `json:"min_acceptable_rank,omitempty" validate:"omitempty,gte=1"`

	PreferredCountries    []string `json:"preferred_countries,omitempty" validate:"max=10,dive,max=100"`
	LanguageRequirements  []string `json:"language_requirements,omitempty" validate:"max=10,dive,max=50"`
	PreferredClimate      string   `json:"preferred_climate,omitempty" validate:"max=50"`
	AccommodationRequired bool     `json:"accommodation_required,omitempty"`
}

// WithDefaults returns a copy with every unset importance set to DefaultImportance.
func (p UserProfile) WithDefaults() UserProfile {
	for _, w := range []*int{
		&p.AcademicImportance, &p.ResearchImportance, &p.DiversityImportance,
		&p.StudentLifeImportance, &p.SafetyImportance, &p.CostImportance,
		&p.RankingImportance, &p.LocationImportance, &p.LanguageImportance,
		&p.ClimateImportance, &p.AccommodationImportance,
	} {
		if *w == 0 {
			*w = DefaultImportance
		}
	}
	return p
}

// SearchFilters are the advanced search constraints of the query layer.
type SearchFilters struct {
	Search                  string   `json:"search,omitempty" validate:"max=100"`
	Country                 string   `json:"country,omitempty" validate:"max=100"`
	MinRanking              *int     `json:"min_ranking,omitempty" validate:"omitempty,gte=1"`
	MaxRanking              *int     `json:"max_ranking,omitempty" validate:"omitempty,gte=1"`
	MinAcademicRigor        *float64 `json:"min_academic_rigor,omitempty" validate:"omitempty,gte=0,lte=10"`
	MinCulturalDiversity    *float64 `json:"min_cultural_diversity,omitempty" validate:"omitempty,gte=0,lte=10"`
	MinStudentLife          *float64 `json:"min_student_life,omitempty" validate:"omitempty,gte=0,lte=10"`
	MinCampusSafety         *float64 `json:"min_campus_safety,omitempty" validate:"omitempty,gte=0,lte=10"`
	Language                string   `json:"language,omitempty" validate:"max=50"`
	AccommodationRequired   bool     `json:"accommodation_required,omitempty"`
	LanguageClassesRequired bool     `json:"language_classes_required,omitempty"`
	AccessibilityRequired   bool     `json:"accessibility_required,omitempty"`
	Limit                   int      `json:"limit" validate:"gte=1,lte=500"`
	Offset                  int      `json:"offset" validate:"gte=0"`
}

// ListParams are the plain list query parameters.
type ListParams struct {
	Search    string `validate:"max=100"`
	Country   string `validate:"max=100"`
	SortBy    string `validate:"oneof=name city country qs_rank overall_quality academic_rigor cultural_diversity student_life campus_safety"`
	SortOrder string `validate:"oneof=asc desc"`
	Limit     int    `validate:"gte=1,lte=500"`
	Offset    int    `validate:"gte=0"`
}

// DefaultListParams returns the defaults used when a query omits a parameter.
func DefaultListParams() ListParams {
	return ListParams{SortBy: "qs_rank", SortOrder: "asc", Limit: 50}
}

// CountryStats summarizes the records of one country.
type CountryStats struct {
	Name                 string   `json:"name"`
	UniversityCount      int      `json:"university_count"`
	AvgAcademicRigor     *float64 `json:"avg_academic_rigor,omitempty"`
	AvgCulturalDiversity *float64 `json:"avg_cultural_diversity,omitempty"`
	AvgStudentLife       *float64 `json:"avg_student_life,omitempty"`
	TopUniversity        string   `json:"top_university,omitempty"`
}

// PlatformStats summarizes the whole canonical store.
type PlatformStats struct {
	TotalUniversities        int       `json:"total_universities"`
	RankedUniversities       int       `json:"ranked_universities"`
	TotalCountries           int       `json:"total_countries"`
	UniversitiesWithFeedback int       `json:"universities_with_feedback"`
	AverageAcademicRigor     *float64  `json:"average_academic_rigor,omitempty"`
	AverageCulturalDiversity *float64  `json:"average_cultural_diversity,omitempty"`
	AverageStudentLife       *float64  `json:"average_student_life,omitempty"`
	LastUpdated              time.Time `json:"last_updated"`
}
