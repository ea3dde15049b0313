// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/unisearch/internal/models"
)

// LanguageCount is one language of instruction and how many records list it.
type LanguageCount struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// Countries returns the distinct non-empty countries, alphabetically.
func (db *DB) Countries(ctx context.Context) (out []string, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("select", "universities", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `
		SELECT DISTINCT country FROM universities
		WHERE country IS NOT NULL AND country != ''
		ORDER BY country`)
	if err != nil {
		return nil, fmt.Errorf("failed to query countries: %w", err)
	}
	defer closeWithLog(rows, "rows")

	out = []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountryStats returns per-country counts, metric averages rounded to two
// decimals and the best-ranked university, largest countries first.
func (db *DB) CountryStats(ctx context.Context) (out []models.CountryStats, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("aggregate", "universities", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `
		SELECT
			country,
			COUNT(*) AS university_count,
			ROUND(AVG(academic_rigor), 2),
			ROUND(AVG(cultural_diversity), 2),
			ROUND(AVG(student_life), 2),
			arg_min(name, qs_rank) FILTER (WHERE qs_rank IS NOT NULL)
		FROM universities
		WHERE country IS NOT NULL AND country != ''
		GROUP BY country
		ORDER BY university_count DESC, country ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query country stats: %w", err)
	}
	defer closeWithLog(rows, "rows")

	out = []models.CountryStats{}
	for rows.Next() {
		var (
			cs                     models.CountryStats
			rigor, diversity, life sql.NullFloat64
			top                    sql.NullString
		)
		if err := rows.Scan(&cs.Name, &cs.UniversityCount, &rigor, &diversity, &life, &top); err != nil {
			return nil, fmt.Errorf("failed to scan country stats: %w", err)
		}
		cs.AvgAcademicRigor = nullFloat(rigor)
		cs.AvgCulturalDiversity = nullFloat(diversity)
		cs.AvgStudentLife = nullFloat(life)
		cs.TopUniversity = top.String
		out = append(out, cs)
	}
	return out, rows.Err()
}

// Languages returns every language of instruction with the number of records
// listing it, most common first. Multi-language values are split on ',' and ';'.
func (db *DB) Languages(ctx context.Context) (out []LanguageCount, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("aggregate", "universities", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `
		SELECT language, COUNT(*) FROM universities
		WHERE language IS NOT NULL AND language != ''
		GROUP BY language`)
	if err != nil {
		return nil, fmt.Errorf("failed to query languages: %w", err)
	}
	defer closeWithLog(rows, "rows")

	counts := make(map[string]int)
	for rows.Next() {
		var (
			raw string
			n   int
		)
		if err := rows.Scan(&raw, &n); err != nil {
			return nil, fmt.Errorf("failed to scan language: %w", err)
		}
		for _, lang := range SplitLanguages(raw) {
			counts[lang] += n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out = make([]LanguageCount, 0, len(counts))
	for lang, n := range counts {
		out = append(out, LanguageCount{Language: lang, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Language < out[j].Language
	})
	return out, nil
}

// SplitLanguages splits a language-of-instruction value on ',' and ';'.
func SplitLanguages(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' })
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// PlatformStats summarizes the whole store. Metric averages consider only
// records that have all three of academic rigor, diversity and student life.
func (db *DB) PlatformStats(ctx context.Context) (ps *models.PlatformStats, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("aggregate", "universities", time.Now(), &err)

	ps = &models.PlatformStats{}
	var last sql.NullTime
	err = db.conn.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(qs_rank),
			COUNT(DISTINCT country) FILTER (WHERE country != ''),
			COUNT(*) FILTER (WHERE response_count > 0),
			MAX(last_updated)
		FROM universities`).Scan(
		&ps.TotalUniversities, &ps.RankedUniversities, &ps.TotalCountries,
		&ps.UniversitiesWithFeedback, &last)
	if err != nil {
		return nil, fmt.Errorf("failed to query platform counts: %w", err)
	}
	ps.LastUpdated = last.Time

	var rigor, diversity, life sql.NullFloat64
	err = db.conn.QueryRowContext(ctx, `
		SELECT
			ROUND(AVG(academic_rigor), 2),
			ROUND(AVG(cultural_diversity), 2),
			ROUND(AVG(student_life), 2)
		FROM universities
		WHERE academic_rigor IS NOT NULL
		  AND cultural_diversity IS NOT NULL
		  AND student_life IS NOT NULL`).Scan(&rigor, &diversity, &life)
	if err != nil {
		return nil, fmt.Errorf("failed to query platform averages: %w", err)
	}
	ps.AverageAcademicRigor = nullFloat(rigor)
	ps.AverageCulturalDiversity = nullFloat(diversity)
	ps.AverageStudentLife = nullFloat(life)

	return ps, nil
}
