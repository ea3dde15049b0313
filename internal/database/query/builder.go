// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

// Package query provides SQL query building utilities for the database package.
// It reduces code duplication and provides type-safe query construction.
package query

import (
	"fmt"
	"strings"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
// It ensures consistent parameter handling and reduces SQL injection risks.
//
// Example usage:
//
//	wb := query.NewWhereBuilder()
//	wb.AddSearch("toronto", "name", "city")
//	wb.AddEquals("country", "Canada")
//	wb.AddMinFloat("academic_rigor", minRigor)
//	whereClause, args := wb.Build()
//	// (name ILIKE ? OR city ILIKE ?) AND country = ? AND academic_rigor >= ?
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw WHERE clause with its arguments.
// This is useful for custom conditions not covered by helper methods.
//
// Parameters:
//   - clause: SQL condition fragment (e.g., "qs_rank IS NOT NULL")
//   - args: Arguments to bind to placeholders in the clause
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddSearch adds a case-insensitive substring match across columns.
// Generates "(col1 ILIKE ? OR col2 ILIKE ?)". Empty terms are skipped.
func (wb *WhereBuilder) AddSearch(term string, columns ...string) *WhereBuilder {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return wb
	}
	pattern := "%" + escapeLike(term) + "%"
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = col + ` ILIKE ? ESCAPE '\'`
		wb.args = append(wb.args, pattern)
	}
	wb.clauses = append(wb.clauses, "("+strings.Join(parts, " OR ")+")")
	return wb
}

// AddEquals adds "column = ?" when value is non-empty.
func (wb *WhereBuilder) AddEquals(column, value string) *WhereBuilder {
	if value == "" {
		return wb
	}
	return wb.AddClause(column+" = ?", value)
}

// AddIntRange adds inclusive bounds on an integer column.
// Nil bounds are skipped, allowing open ranges.
func (wb *WhereBuilder) AddIntRange(column string, minVal, maxVal *int) *WhereBuilder {
	if minVal != nil {
		wb.AddClause(column+" >= ?", *minVal)
	}
	if maxVal != nil {
		wb.AddClause(column+" <= ?", *maxVal)
	}
	return wb
}

// AddMinFloat adds "column >= ?" when minVal is set.
func (wb *WhereBuilder) AddMinFloat(column string, minVal *float64) *WhereBuilder {
	if minVal == nil {
		return wb
	}
	return wb.AddClause(column+" >= ?", *minVal)
}

// AddIn adds a filter using IN clause.
// Generates "column IN (?, ?, ...)". Empty slices are skipped.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		wb.args = append(wb.args, v)
	}
	wb.clauses = append(wb.clauses, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
	return wb
}

// Build constructs the final WHERE clause and returns it with arguments.
// Clauses are joined with "AND". Returns ("1=1", []) if no clauses were added.
//
// Example:
//
//	whereClause, args := wb.Build()
//	query := fmt.Sprintf("SELECT * FROM universities WHERE %s", whereClause)
//	db.Query(query, args...)
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the WHERE clause with "WHERE " prefix.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

// OrderBy returns an ORDER BY clause for column, which must be one of
// allowed. Unknown columns fall back to fallback. Nulls always sort last.
func OrderBy(column, order string, allowed []string, fallback string) string {
	valid := false
	for _, a := range allowed {
		if a == column {
			valid = true
			break
		}
	}
	if !valid {
		column = fallback
	}
	dir := "ASC"
	if strings.EqualFold(order, "desc") {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s NULLS LAST", column, dir)
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
