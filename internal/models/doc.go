// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

/*
Package models defines the data structures shared by every UniSearch layer.

# Key Types

  - RawRecord: one untyped source row, before normalization
  - UniversityRecord: the canonical institution entity stored in DuckDB
  - UserProfile: importance weights and hard constraints of one recommendation request
  - SearchFilters, ListParams: query-layer parameters
  - CountryStats, PlatformStats: aggregate views

Optional values are pointers so that "absent" differs from zero. Scores lie
in [0,10] and ranks are positive; Validate methods check these bounds with
go-playground/validator and report a *ValidationError listing every failed
field.

# Errors

	errors.Is(err, models.ErrValidation)  // invalid record, profile or filter
	errors.Is(err, models.ErrStructural)  // merge group without a country
	errors.Is(err, models.ErrNotFound)    // unknown record

# Thread Safety

Models are plain values and are not synchronized. Records returned by the
catalog snapshot are shared between requests; use Clone before modifying.
*/
package models
