// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation is the kind of every record or profile validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrStructural is the kind raised when a merge group has no entity anchor.
	ErrStructural = errors.New("structural error")

	// ErrNotFound is returned by stores when a record does not exist.
	ErrNotFound = errors.New("not found")
)

// FieldError describes one failed field constraint.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationError carries the field errors for one record or profile.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Subject string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Subject)
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Subject, strings.Join(msgs, "; "))
}

// Is reports kind equality with ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StructuralError reports a required key missing from every member of a merge group.
type StructuralError struct {
	Key     string
	Members []string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %q absent from every record in group [%s]",
		ErrStructural, e.Key, strings.Join(e.Members, ", "))
}

// Is reports kind equality with ErrStructural.
func (e *StructuralError) Is(target error) bool {
	return target == ErrStructural
}

func normalizeFlagText(s string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(s)), ".!")
}
