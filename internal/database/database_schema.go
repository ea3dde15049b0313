// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

/*
database_schema.go - Database Schema Management

Tables:
  - universities: the canonical store, one row per institution, written only
    by ImportUniversities and read by the query API and recommendation engine

Index Strategy:
Indexes cover the columns imports look records up by (country,
canonical_name). Columns rewritten by create-or-update imports are left
unindexed because DuckDB rewrites indexed rows as delete+insert.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// universityColumns lists the universities columns in scan order.
const universityColumns = `id, name, canonical_name, city, country, website_url,
	qs_rank, the_rank, arwu_rank, us_news_rank, qs_score, the_score,
	overall_quality, academic_rigor, openness, cultural_diversity, student_life,
	campus_safety, research_quality, accommodation, language_classes, accessibility,
	language, tuition_international, tuition_local, climate_type,
	response_count, data_sources, last_updated`

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// getTableCreationQueries returns the table creation SQL statements
func getTableCreationQueries() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS universities_id_seq START 1`,

		`CREATE TABLE IF NOT EXISTS universities (
			id BIGINT PRIMARY KEY DEFAULT nextval('universities_id_seq'),
			name TEXT NOT NULL,
			canonical_name TEXT NOT NULL,
			city TEXT,
			country TEXT NOT NULL,
			website_url TEXT,

			-- Rankings (lower is better)
			qs_rank INTEGER,
			the_rank INTEGER,
			arwu_rank INTEGER,
			us_news_rank INTEGER,
			qs_score DOUBLE,
			the_score DOUBLE,

			-- Student feedback metrics, 0-10
			overall_quality DOUBLE,
			academic_rigor DOUBLE,
			openness DOUBLE,
			cultural_diversity DOUBLE,
			student_life DOUBLE,
			campus_safety DOUBLE,
			research_quality DOUBLE,

			-- Facilities: Yes, No or Partial
			accommodation TEXT,
			language_classes TEXT,
			accessibility TEXT,

			language TEXT,
			tuition_international DOUBLE,
			tuition_local DOUBLE,
			climate_type TEXT,

			response_count INTEGER NOT NULL DEFAULT 0,
			data_sources TEXT,
			last_updated TIMESTAMP NOT NULL
		)`,
	}
}

// createIndexes creates lookup indexes
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_universities_country ON universities(country)`,
		`CREATE INDEX IF NOT EXISTS idx_universities_canonical ON universities(canonical_name)`,
	}
	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}
