// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	// Pure-Go SQLite driver for the legacy universities.db export
	_ "modernc.org/sqlite"

	"github.com/tomtom215/unisearch/internal/logging"
	"github.com/tomtom215/unisearch/internal/models"
)

// legacyTable is the table written by the previous deployment.
const legacyTable = "universities"

// LegacySQLiteReader reads the universities table of a legacy SQLite
// database. Only columns whose names are field keys are read, so older
// exports with fewer columns are accepted.
type LegacySQLiteReader struct {
	path string
}

// NewLegacySQLiteReader creates a reader for the database file at path.
func NewLegacySQLiteReader(path string) *LegacySQLiteReader {
	return &LegacySQLiteReader{path: path}
}

// Source implements Reader.
func (r *LegacySQLiteReader) Source() string { return models.SourceLegacyDB }

// Read opens the database read-only and returns every row of the universities table.
func (r *LegacySQLiteReader) Read(ctx context.Context) ([]models.RawRecord, error) {
	if _, err := os.Stat(r.path); err != nil {
		return nil, fmt.Errorf("open legacy database: %w", err)
	}

	dsn := "file:" + (&url.URL{Path: r.path}).EscapedPath() + "?mode=ro"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open legacy database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Error closing legacy database")
		}
	}()

	columns, err := legacyColumns(ctx, db)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(columns, FieldName) {
		return nil, fmt.Errorf("legacy table %q has no name column", legacyTable)
	}

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	//nolint:gosec // column names come from PRAGMA table_info filtered by knownFields
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", strings.Join(quoted, ", "), legacyTable)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query legacy universities: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Error closing legacy rows")
		}
	}()

	var out []models.RawRecord
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan legacy row: %w", err)
		}

		raw := make(models.RawRecord, len(columns))
		for i, c := range columns {
			if v := sqliteValue(values[i]); v != nil {
				raw[c] = v
			}
		}
		out = append(out, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate legacy rows: %w", err)
	}
	return out, nil
}

// legacyColumns lists the field-key columns present in the legacy table.
func legacyColumns(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", legacyTable))
	if err != nil {
		return nil, fmt.Errorf("inspect legacy table: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Error closing legacy rows")
		}
	}()

	var columns []string
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("inspect legacy table: %w", err)
		}
		if knownFields[strings.ToLower(name)] {
			columns = append(columns, strings.ToLower(name))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inspect legacy table: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("legacy table %q not found or has no known columns", legacyTable)
	}
	return columns, nil
}

// sqliteValue converts driver values into the types the parsers accept.
func sqliteValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(x)
	case string:
		if strings.TrimSpace(x) == "" {
			return nil
		}
		return x
	default:
		return x
	}
}
