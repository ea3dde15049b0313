// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package models

import (
	"sort"
	"time"
)

// RawRecord is one untyped source row: column name to string, number or nil.
// It is discarded once the row has been normalized into a UniversityRecord.
type RawRecord map[string]any

// String returns a string column, or "" when the column is absent or not a string.
func (r RawRecord) String(column string) string {
	v, ok := r[column]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// FacilityFlag is the tri-state availability of a facility (yes/no/partial).
type FacilityFlag string

const (
	FacilityYes     FacilityFlag = "Yes"
	FacilityNo      FacilityFlag = "No"
	FacilityPartial FacilityFlag = "Partial"
)

// ParseFacilityFlag maps free text such as "yes", "Y", "partially" to a flag.
// Unknown text yields "".
func ParseFacilityFlag(s string) FacilityFlag {
	switch normalizeFlagText(s) {
	case "yes", "y", "true", "available":
		return FacilityYes
	case "no", "n", "false", "none", "unavailable":
		return FacilityNo
	case "partial", "partially", "some", "limited":
		return FacilityPartial
	default:
		return ""
	}
}

// Available reports whether the facility is offered at least partially.
func (f FacilityFlag) Available() bool {
	return f == FacilityYes || f == FacilityPartial
}

// Source identifiers recorded in UniversityRecord.DataSources.
const (
	SourceQSRankings  = "qs_rankings"
	SourceFeedback    = "feedback_survey"
	SourceHTMLRanking = "html_ranking"
	SourceLegacyDB    = "legacy_sqlite"
)

// UniversityRecord is the canonical institution entity.
//
// Optional values are pointers so that "absent" is distinguishable from zero.
// Scores lie in [0,10], ranks are positive, ResponseCount is never negative.
type UniversityRecord struct {
	// ID is the store identifier (0 until persisted)
	ID int64 `json:"id"`

	// Name is the display name
	Name string `json:"name" validate:"required,notblank,max=200"`

	// CanonicalName is the normalized matching key derived from Name
	CanonicalName string `json:"canonical_name"`

	City       string `json:"city,omitempty" validate:"max=100"`
	Country    string `json:"country" validate:"required,notblank,max=100"`
	WebsiteURL string `json:"website_url,omitempty"`

	// Rankings (positive integers)
	QSRank     *int `json:"qs_rank,omitempty" validate:"omitempty,gte=1"`
	THERank    *int `json:"the_rank,omitempty" validate:"omitempty,gte=1"`
	ARWURank   *int `json:"arwu_rank,omitempty" validate:"omitempty,gte=1"`
	USNewsRank *int `json:"us_news_rank,omitempty" validate:"omitempty,gte=1"`

	// Raw ranking-table scores of unknown scale; never clamped
	QSScore  *float64 `json:"qs_score,omitempty"`
	THEScore *float64 `json:"the_score,omitempty"`

	// Bounded metrics on a 0-10 scale
	OverallQuality    *float64 `json:"overall_quality,omitempty" validate:"omitempty,gte=0,lte=10"`
	AcademicRigor     *float64 `json:"academic_rigor,omitempty" validate:"omitempty,gte=0,lte=10"`
	Openness          *float64 `json:"openness,omitempty" validate:"omitempty,gte=0,lte=10"`
	CulturalDiversity *float64 `json:"cultural_diversity,omitempty" validate:"omitempty,gte=0,lte=10"`
	StudentLife       *float64 `json:"student_life,omitempty" validate:"omitempty,gte=0,lte=10"`
	CampusSafety      *float64 `json:"campus_safety,omitempty" validate:"omitempty,gte=0,lte=10"`
	ResearchQuality   *float64 `json:"research_quality,omitempty" validate:"omitempty,gte=0,lte=10"`

	// Facilities
	Accommodation   FacilityFlag `json:"accommodation,omitempty" validate:"omitempty,oneof=Yes No Partial"`
	LanguageClasses FacilityFlag `json:"language_classes,omitempty" validate:"omitempty,oneof=Yes No"`
	Accessibility   FacilityFlag `json:"accessibility,omitempty" validate:"omitempty,oneof=Yes No Partial"`

	// Language is the free-text list of instruction languages ("English, French")
	Language string `json:"language,omitempty" validate:"max=200"`

	// Cost and climate, used by the recommendation scorer
	TuitionInternational *float64 `json:"tuition_international,omitempty" validate:"omitempty,gte=0"`
	TuitionLocal         *float64 `json:"tuition_local,omitempty" validate:"omitempty,gte=0"`
	ClimateType          string   `json:"climate_type,omitempty"`

	// ResponseCount is the number of feedback entries folded into the record
	ResponseCount int `json:"response_count" validate:"gte=0"`

	// DataSources is the sorted set of contributing source identifiers
	DataSources []string `json:"data_sources,omitempty"`

	LastUpdated time.Time `json:"last_updated"`
}

// AddSource adds a source identifier, keeping DataSources sorted and unique.
func (u *UniversityRecord) AddSource(sources ...string) {
	for _, s := range sources {
		if s == "" {
			continue
		}
		i := sort.SearchStrings(u.DataSources, s)
		if i < len(u.DataSources) && u.DataSources[i] == s {
			continue
		}
		u.DataSources = append(u.DataSources, "")
		copy(u.DataSources[i+1:], u.DataSources[i:])
		u.DataSources[i] = s
	}
}

// HasSource reports whether the record carries the given source identifier.
func (u *UniversityRecord) HasSource(source string) bool {
	i := sort.SearchStrings(u.DataSources, source)
	return i < len(u.DataSources) && u.DataSources[i] == source
}

// Clone returns a deep copy of the record.
func (u UniversityRecord) Clone() UniversityRecord {
	c := u
	c.QSRank = cloneInt(u.QSRank)
	c.THERank = cloneInt(u.THERank)
	c.ARWURank = cloneInt(u.ARWURank)
	c.USNewsRank = cloneInt(u.USNewsRank)
	c.QSScore = cloneFloat(u.QSScore)
	c.THEScore = cloneFloat(u.THEScore)
	c.OverallQuality = cloneFloat(u.OverallQuality)
	c.AcademicRigor = cloneFloat(u.AcademicRigor)
	c.Openness = cloneFloat(u.Openness)
	c.CulturalDiversity = cloneFloat(u.CulturalDiversity)
	c.StudentLife = cloneFloat(u.StudentLife)
	c.CampusSafety = cloneFloat(u.CampusSafety)
	c.ResearchQuality = cloneFloat(u.ResearchQuality)
	c.TuitionInternational = cloneFloat(u.TuitionInternational)
	c.TuitionLocal = cloneFloat(u.TuitionLocal)
	if u.DataSources != nil {
		c.DataSources = append([]string(nil), u.DataSources...)
	}
	return c
}

// MatchResult is one accepted correspondence produced by the matcher.
type MatchResult struct {
	A     string  `json:"a"`
	B     string  `json:"b"`
	Score float64 `json:"score"`
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// FloatPtr returns a pointer to v.
func FloatPtr(v float64) *float64 { return &v }

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
