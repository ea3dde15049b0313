// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/tomtom215/unisearch/internal/models"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanUniversity reads one row selected with universityColumns.
func scanUniversity(row rowScanner) (models.UniversityRecord, error) {
	var (
		u                                           models.UniversityRecord
		city, website, accommodation, langClasses   sql.NullString
		accessibility, language, climate, sources   sql.NullString
		qsRank, theRank, arwuRank, usNewsRank       sql.NullInt64
		qsScore, theScore                           sql.NullFloat64
		overall, rigor, openness, diversity, life   sql.NullFloat64
		safety, research, tuitionIntl, tuitionLocal sql.NullFloat64
	)

	err := row.Scan(
		&u.ID, &u.Name, &u.CanonicalName, &city, &u.Country, &website,
		&qsRank, &theRank, &arwuRank, &usNewsRank, &qsScore, &theScore,
		&overall, &rigor, &openness, &diversity, &life,
		&safety, &research, &accommodation, &langClasses, &accessibility,
		&language, &tuitionIntl, &tuitionLocal, &climate,
		&u.ResponseCount, &sources, &u.LastUpdated,
	)
	if err != nil {
		return u, err
	}

	u.City = city.String
	u.WebsiteURL = website.String
	u.QSRank = nullInt(qsRank)
	u.THERank = nullInt(theRank)
	u.ARWURank = nullInt(arwuRank)
	u.USNewsRank = nullInt(usNewsRank)
	u.QSScore = nullFloat(qsScore)
	u.THEScore = nullFloat(theScore)
	u.OverallQuality = nullFloat(overall)
	u.AcademicRigor = nullFloat(rigor)
	u.Openness = nullFloat(openness)
	u.CulturalDiversity = nullFloat(diversity)
	u.StudentLife = nullFloat(life)
	u.CampusSafety = nullFloat(safety)
	u.ResearchQuality = nullFloat(research)
	u.Accommodation = models.FacilityFlag(accommodation.String)
	u.LanguageClasses = models.FacilityFlag(langClasses.String)
	u.Accessibility = models.FacilityFlag(accessibility.String)
	u.Language = language.String
	u.TuitionInternational = nullFloat(tuitionIntl)
	u.TuitionLocal = nullFloat(tuitionLocal)
	u.ClimateType = climate.String
	u.DataSources = splitSources(sources.String)
	return u, nil
}

// scanUniversities drains rows into records.
func scanUniversities(rows *sql.Rows) ([]models.UniversityRecord, error) {
	defer closeWithLog(rows, "rows")

	out := []models.UniversityRecord{}
	for rows.Next() {
		u, err := scanUniversity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan university: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate universities: %w", err)
	}
	return out, nil
}

// universityArgs returns the insert arguments for every column after id.
func universityArgs(u *models.UniversityRecord) []any {
	return []any{
		u.Name, u.CanonicalName, nullString(u.City), u.Country, nullString(u.WebsiteURL),
		intArg(u.QSRank), intArg(u.THERank), intArg(u.ARWURank), intArg(u.USNewsRank),
		floatArg(u.QSScore), floatArg(u.THEScore),
		floatArg(u.OverallQuality), floatArg(u.AcademicRigor), floatArg(u.Openness),
		floatArg(u.CulturalDiversity), floatArg(u.StudentLife),
		floatArg(u.CampusSafety), floatArg(u.ResearchQuality),
		nullString(string(u.Accommodation)), nullString(string(u.LanguageClasses)), nullString(string(u.Accessibility)),
		nullString(u.Language), floatArg(u.TuitionInternational), floatArg(u.TuitionLocal), nullString(u.ClimateType),
		u.ResponseCount, nullString(strings.Join(u.DataSources, ",")), u.LastUpdated,
	}
}

// intArg converts an optional value to a driver argument (nil for NULL).
func intArg(p *int) any {
	if p == nil {
		return nil
	}
	return int64(*p)
}

func floatArg(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func splitSources(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
