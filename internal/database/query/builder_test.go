// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package query

import (
	"reflect"
	"testing"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestWhereBuilder_Empty(t *testing.T) {
	wb := NewWhereBuilder()
	clause, args := wb.Build()
	if clause != "1=1" {
		t.Errorf("Build() clause = %q, want 1=1", clause)
	}
	if len(args) != 0 {
		t.Errorf("Build() args = %v, want empty", args)
	}
	if !wb.IsEmpty() {
		t.Error("IsEmpty() = false, want true")
	}
}

func TestWhereBuilder_Combined(t *testing.T) {
	wb := NewWhereBuilder().
		AddSearch("toronto", "name", "city").
		AddEquals("country", "Canada").
		AddIntRange("qs_rank", intPtr(1), intPtr(100)).
		AddMinFloat("academic_rigor", floatPtr(7.5)).
		AddEquals("language", "")

	clause, args := wb.BuildWithPrefix()

	wantClause := `WHERE (name ILIKE ? ESCAPE '\' OR city ILIKE ? ESCAPE '\') AND country = ? AND qs_rank >= ? AND qs_rank <= ? AND academic_rigor >= ?`
	if clause != wantClause {
		t.Errorf("clause =\n  %s\nwant\n  %s", clause, wantClause)
	}
	wantArgs := []interface{}{"%toronto%", "%toronto%", "Canada", 1, 100, 7.5}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("args = %v, want %v", args, wantArgs)
	}
	if wb.Count() != 5 {
		t.Errorf("Count() = %d, want 5", wb.Count())
	}
}

func TestWhereBuilder_SearchEscapesWildcards(t *testing.T) {
	_, args := NewWhereBuilder().AddSearch("100%_sure", "name").Build()
	if got := args[0]; got != `%100\%\_sure%` {
		t.Errorf("pattern = %v, want escaped wildcards", got)
	}
}

func TestWhereBuilder_AddIn(t *testing.T) {
	clause, args := NewWhereBuilder().AddIn("country", []string{"Canada", "Japan"}).Build()
	if clause != "country IN (?, ?)" {
		t.Errorf("clause = %q", clause)
	}
	if len(args) != 2 {
		t.Errorf("args = %v, want 2 values", args)
	}

	clause, _ = NewWhereBuilder().AddIn("country", nil).Build()
	if clause != "1=1" {
		t.Errorf("empty IN should be skipped, got %q", clause)
	}
}

func TestOrderBy(t *testing.T) {
	allowed := []string{"name", "qs_rank"}
	tests := []struct {
		column, order, want string
	}{
		{"name", "asc", "ORDER BY name ASC NULLS LAST"},
		{"qs_rank", "DESC", "ORDER BY qs_rank DESC NULLS LAST"},
		{"id; DROP TABLE universities", "asc", "ORDER BY qs_rank ASC NULLS LAST"},
		{"name", "sideways", "ORDER BY name ASC NULLS LAST"},
	}
	for _, tt := range tests {
		t.Run(tt.column+"_"+tt.order, func(t *testing.T) {
			if got := OrderBy(tt.column, tt.order, allowed, "qs_rank"); got != tt.want {
				t.Errorf("OrderBy() = %q, want %q", got, tt.want)
			}
		})
	}
}
