// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator caches struct information and carries
// the custom rules needed by university records, user profiles and query
// parameters. Callers in internal/models wrap failures into
// models.ValidationError.
//
// # Custom Rules
//
//   - notblank: string must contain a non-whitespace character
//
// # Field Names
//
// Fields are reported by their json tag name ("qs_rank", not "QSRank") so
// that API clients see the names they sent. Fields without a json tag keep
// the Go name.
//
// # Messages
//
//	required   -> "name is required"
//	notblank   -> "country must not be blank"
//	gte=1      -> "qs_rank must be greater than or equal to 1"
//	lte=10     -> "student_life must be less than or equal to 10"
//	oneof=a b  -> "accommodation must be one of: Yes No Partial"
//	max=10     -> "preferred_countries must be at most 10 items"
//
// # Thread Safety
//
// GetValidator and ValidateStruct are safe for concurrent use.
package validation
