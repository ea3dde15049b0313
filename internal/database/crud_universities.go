// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/unisearch/internal/database/query"
	"github.com/tomtom215/unisearch/internal/models"
)

// SortableColumns are the columns ListUniversities may sort by.
var SortableColumns = []string{
	"name", "city", "country", "qs_rank", "overall_quality",
	"academic_rigor", "cultural_diversity", "student_life", "campus_safety",
}

// advancedSearchCap bounds advanced search results when no limit is given.
const advancedSearchCap = 200

// InsertUniversity stores a new record and returns its ID. CanonicalName and
// LastUpdated are derived when unset.
func (db *DB) InsertUniversity(ctx context.Context, u *models.UniversityRecord) (id int64, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("insert", "universities", time.Now(), &err)

	return db.insertUniversity(ctx, db.conn, u)
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (db *DB) insertUniversity(ctx context.Context, ex execer, u *models.UniversityRecord) (int64, error) {
	if u.CanonicalName == "" {
		u.CanonicalName = db.normalizer.Name(u.Name)
	}
	if u.LastUpdated.IsZero() {
		u.LastUpdated = time.Now().UTC()
	}

	cols := strings.TrimPrefix(universityColumns, "id, ")
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", strings.Count(cols, ",")+1), ", ")
	q := fmt.Sprintf("INSERT INTO universities (%s) VALUES (%s) RETURNING id", cols, placeholders)

	var id int64
	if err := ex.QueryRowContext(ctx, q, universityArgs(u)...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert university %q: %w", u.Name, err)
	}
	u.ID = id
	return id, nil
}

// GetUniversity returns one record by ID, or ErrNotFound.
func (db *DB) GetUniversity(ctx context.Context, id int64) (u *models.UniversityRecord, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("select", "universities", time.Now(), &err)

	row := db.conn.QueryRowContext(ctx, "SELECT "+universityColumns+" FROM universities WHERE id = ?", id)
	rec, err := scanUniversity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get university %d: %w", id, err)
	}
	return &rec, nil
}

// ListUniversities returns one page of records matching the search term
// (name or city) and country, plus the total number of matches.
//
//nolint:gocritic // ListParams is a small value type
func (db *DB) ListUniversities(ctx context.Context, p models.ListParams) (out []models.UniversityRecord, total int, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("select", "universities", time.Now(), &err)

	wb := query.NewWhereBuilder().
		AddSearch(p.Search, "name", "city").
		AddEquals("country", p.Country)
	where, args := wb.BuildWithPrefix()

	if err = db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM universities "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count universities: %w", err)
	}

	order := query.OrderBy(p.SortBy, p.SortOrder, SortableColumns, "qs_rank")
	q := fmt.Sprintf("SELECT %s FROM universities %s %s, id LIMIT ? OFFSET ?", universityColumns, where, order)
	rows, err := db.conn.QueryContext(ctx, q, append(args, p.Limit, p.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list universities: %w", err)
	}
	out, err = scanUniversities(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// SearchUniversities applies the advanced search filters, best QS rank first.
// Facility requirements match only "Yes".
func (db *DB) SearchUniversities(ctx context.Context, f *models.SearchFilters) (out []models.UniversityRecord, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("search", "universities", time.Now(), &err)

	wb := query.NewWhereBuilder().
		AddSearch(f.Search, "name", "city").
		AddEquals("country", f.Country).
		AddIntRange("qs_rank", f.MinRanking, f.MaxRanking).
		AddMinFloat("academic_rigor", f.MinAcademicRigor).
		AddMinFloat("cultural_diversity", f.MinCulturalDiversity).
		AddMinFloat("student_life", f.MinStudentLife).
		AddMinFloat("campus_safety", f.MinCampusSafety).
		AddSearch(f.Language, "language")
	if f.AccommodationRequired {
		wb.AddEquals("accommodation", string(models.FacilityYes))
	}
	if f.LanguageClassesRequired {
		wb.AddEquals("language_classes", string(models.FacilityYes))
	}
	if f.AccessibilityRequired {
		wb.AddEquals("accessibility", string(models.FacilityYes))
	}
	where, args := wb.BuildWithPrefix()

	limit := f.Limit
	if limit <= 0 {
		limit = advancedSearchCap
	}
	q := fmt.Sprintf("SELECT %s FROM universities %s ORDER BY qs_rank ASC NULLS LAST, id LIMIT ? OFFSET ?", universityColumns, where)
	rows, err := db.conn.QueryContext(ctx, q, append(args, limit, f.Offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to search universities: %w", err)
	}
	return scanUniversities(rows)
}

// AllUniversities returns every record ordered by ID. The recommendation
// engine scores against this snapshot.
func (db *DB) AllUniversities(ctx context.Context) (out []models.UniversityRecord, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("select", "universities", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, "SELECT "+universityColumns+" FROM universities ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to load universities: %w", err)
	}
	return scanUniversities(rows)
}

// CountUniversities returns the number of stored records.
func (db *DB) CountUniversities(ctx context.Context) (n int, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("count", "universities", time.Now(), &err)

	if err = db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM universities").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count universities: %w", err)
	}
	return n, nil
}

// LastUpdated returns the newest last_updated timestamp. ok is false when
// the store is empty.
func (db *DB) LastUpdated(ctx context.Context) (ts time.Time, ok bool, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer db.observe("select", "universities", time.Now(), &err)

	var last sql.NullTime
	if err = db.conn.QueryRowContext(ctx, "SELECT MAX(last_updated) FROM universities").Scan(&last); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read last update: %w", err)
	}
	return last.Time, last.Valid, nil
}
