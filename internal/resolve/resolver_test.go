// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package resolve

import (
	"errors"
	"testing"

	"github.com/tomtom215/unisearch/internal/models"
	"github.com/tomtom215/unisearch/internal/normalize"
)

func rec(name, country string) models.UniversityRecord {
	return models.UniversityRecord{Name: name, Country: country}
}

// ========================================
// Clustering
// ========================================

func TestResolve_TUMunichCollapses(t *testing.T) {
	records := []models.UniversityRecord{
		rec("TU Munich", "Germany"),
		rec("Technical University Munich", "Germany"),
		rec("Technische Universitat Munchen", "Germany"),
	}

	out, err := ResolveDuplicates(records)
	if err != nil {
		t.Fatalf("ResolveDuplicates() error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d: %+v", len(out), out)
	}
	if out[0].Country != "Germany" {
		t.Errorf("Country = %q, want Germany", out[0].Country)
	}
	if out[0].Name != "Technische Universitat Munchen" {
		t.Errorf("Name = %q, want the longest variant", out[0].Name)
	}
	if out[0].CanonicalName != "Technical University Munchen" {
		t.Errorf("CanonicalName = %q", out[0].CanonicalName)
	}
}

func TestResolve_DifferentCountriesNotMerged(t *testing.T) {
	records := []models.UniversityRecord{
		rec("University of Toronto", "Canada"),
		rec("University of Toronto", "United States"),
	}
	out, err := ResolveDuplicates(records)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Errorf("expected 2 records, got %d", len(out))
	}
}

func TestResolve_CountryAliasesCompareEqual(t *testing.T) {
	records := []models.UniversityRecord{
		rec("Univ. of Toronto", "CA"),
		rec("University of Toronto", "Canada"),
	}
	out, err := ResolveDuplicates(records)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	if out[0].Country != "Canada" {
		t.Errorf("Country = %q, want the longer value Canada", out[0].Country)
	}
}

func TestResolve_OrderFollowsFirstSeen(t *testing.T) {
	records := []models.UniversityRecord{
		rec("University of Oslo", "Norway"),
		rec("Aalto University", "Finland"),
		rec("Univ. of Oslo", "Norway"),
		rec("Lund University", "Sweden"),
	}
	out, err := ResolveDuplicates(records)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"University of Oslo", "Aalto University", "Lund University"}
	if len(out) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(out))
	}
	for i, name := range want {
		if out[i].Name != name {
			t.Errorf("out[%d].Name = %q, want %q", i, out[i].Name, name)
		}
	}
}

// A~B and B~C, but A and C are too far apart to match directly.
func transitiveChain() []models.UniversityRecord {
	return []models.UniversityRecord{
		rec("Aaaaaaaaaa Bbbbbbbbbb", "Chile"),
		rec("Aaaaaaaaxx Bbbbbbbbbb", "Chile"),
		rec("Aaaaaaaaxx Bbbbbbbbyy", "Chile"),
	}
}

func TestResolve_GreedyIsNotTransitive(t *testing.T) {
	out, err := New(WithStrategy(Greedy)).Resolve(transitiveChain())
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Errorf("greedy should produce 2 clusters, got %d", len(out))
	}
}

func TestResolve_UnionFindMergesChains(t *testing.T) {
	out, err := New(WithStrategy(UnionFind)).Resolve(transitiveChain())
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Errorf("union-find should produce 1 cluster, got %d", len(out))
	}
}

func TestResolve_UnionFindAgreesWithGreedyOnSimpleClusters(t *testing.T) {
	records := []models.UniversityRecord{
		rec("TU Munich", "Germany"),
		rec("Heidelberg University", "Germany"),
		rec("Technical University Munich", "Germany"),
	}
	greedy, err := New().Resolve(records)
	if err != nil {
		t.Fatal(err)
	}
	uf, err := New(WithStrategy(UnionFind), WithNormalizer(normalize.New(64))).Resolve(records)
	if err != nil {
		t.Fatal(err)
	}
	if len(greedy) != len(uf) {
		t.Fatalf("greedy=%d union-find=%d", len(greedy), len(uf))
	}
	for i := range greedy {
		if greedy[i].Name != uf[i].Name {
			t.Errorf("cluster %d: greedy %q vs union-find %q", i, greedy[i].Name, uf[i].Name)
		}
	}
}

func TestResolve_ThresholdIsExclusive(t *testing.T) {
	records := []models.UniversityRecord{
		rec("Abcdefghij", "Peru"),
		rec("Abcdefghix", "Peru"),
	}
	// Ratio is exactly 90
	out, err := New(WithThreshold(90)).Resolve(records)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Errorf("ratio equal to threshold must not merge, got %d records", len(out))
	}
}

func TestResolve_EmptyInput(t *testing.T) {
	out, err := ResolveDuplicates(nil)
	if err != nil || len(out) != 0 {
		t.Errorf("ResolveDuplicates(nil) = (%v, %v)", out, err)
	}
}

func TestResolve_DoesNotModifyInput(t *testing.T) {
	records := []models.UniversityRecord{
		{Name: "TU Munich", Country: "Germany", ResponseCount: 2, QSRank: models.IntPtr(37)},
		{Name: "Technical University Munich", Country: "Germany", ResponseCount: 3, QSRank: models.IntPtr(30)},
	}
	if _, err := ResolveDuplicates(records); err != nil {
		t.Fatal(err)
	}
	if records[0].ResponseCount != 2 || *records[0].QSRank != 37 {
		t.Error("input record was modified")
	}
}

// ========================================
// Errors
// ========================================

func TestResolve_StructuralErrorWithoutCountry(t *testing.T) {
	records := []models.UniversityRecord{
		rec("Nowhere University", ""),
		rec("Nowhere University", "  "),
	}
	_, err := ResolveDuplicates(records)
	if !errors.Is(err, models.ErrStructural) {
		t.Fatalf("expected structural error, got %v", err)
	}
	var serr *models.StructuralError
	if !errors.As(err, &serr) || serr.Key != "country" {
		t.Errorf("expected StructuralError on country, got %#v", err)
	}
}
