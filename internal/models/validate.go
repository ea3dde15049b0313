// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package models

import (
	"github.com/tomtom215/unisearch/internal/validation"
)

// Validate checks the record invariants: non-blank name and country, scores
// within [0,10], positive ranks and a non-negative response count.
// It signals with a *ValidationError and never modifies the record.
func (u *UniversityRecord) Validate() error {
	if verr := validation.ValidateStruct(u); verr != nil {
		return newValidationError("university "+quoteOrEmpty(u.Name), verr)
	}
	return nil
}

// Validate checks importance bounds and constraint sizes of the profile.
func (p *UserProfile) Validate() error {
	if verr := validation.ValidateStruct(p); verr != nil {
		return newValidationError("user profile", verr)
	}
	return nil
}

// Validate checks the advanced search filters.
func (f *SearchFilters) Validate() error {
	if verr := validation.ValidateStruct(f); verr != nil {
		return newValidationError("search filters", verr)
	}
	return nil
}

// Validate checks the list parameters against the sort whitelist and paging bounds.
func (p *ListParams) Validate() error {
	if verr := validation.ValidateStruct(p); verr != nil {
		return newValidationError("list parameters", verr)
	}
	return nil
}

func newValidationError(subject string, verr *validation.RequestValidationError) *ValidationError {
	out := &ValidationError{Subject: subject}
	for _, fe := range verr.Errors() {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: fe.Error(),
		})
	}
	return out
}

func quoteOrEmpty(s string) string {
	if s == "" {
		return "<unnamed>"
	}
	return `"` + s + `"`
}
