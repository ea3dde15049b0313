// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/unisearch/internal/models"
)

func newTestEngine(t *testing.T, cfg *Config) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func uni(id int64, name, country string, rigor float64) models.UniversityRecord {
	return models.UniversityRecord{ID: id, Name: name, Country: country, AcademicRigor: f(rigor)}
}

func names(recs []models.UniversityRecord) []string {
	out := make([]string, len(recs))
	for i := range recs {
		out[i] = recs[i].Name
	}
	return out
}

func recNames(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i := range recs {
		out[i] = recs[i].University.Name
	}
	return out
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ========================================
// Construction
// ========================================

func TestNewEngine(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		e := newTestEngine(t, nil)
		if e.GetConfig().MinScore != 20 {
			t.Errorf("MinScore = %v, want 20", e.GetConfig().MinScore)
		}
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.BudgetTolerance = 0.5
		if _, err := NewEngine(cfg, zerolog.Nop()); err == nil {
			t.Error("NewEngine() should reject budget tolerance below 1")
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"negative min score", func(c *Config) { c.MinScore = -1 }, true},
		{"min score 100", func(c *Config) { c.MinScore = 100 }, true},
		{"negative window", func(c *Config) { c.SimilarRankWindow = -1 }, true},
		{"negative workers", func(c *Config) { c.Workers = -2 }, true},
		{"default above max", func(c *Config) { c.Limits.DefaultSimilar = 30 }, true},
		{"zero default", func(c *Config) { c.Limits.DefaultTrending = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// ========================================
// Recommend
// ========================================

func TestEngine_Recommend_OrdersAndLimits(t *testing.T) {
	e := newTestEngine(t, nil)
	records := []models.UniversityRecord{
		uni(1, "Middle", "Canada", 6),
		uni(2, "Best", "Canada", 9),
		uni(3, "Tied", "Canada", 6),
		uni(4, "Worst", "Canada", 3),
	}

	resp, err := e.Recommend(context.Background(), records, models.UserProfile{}, 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	want := []string{"Best", "Middle", "Tied"}
	if got := recNames(resp.Recommendations); !equalNames(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if resp.TotalMatches != 4 {
		t.Errorf("TotalMatches = %d, want 4", resp.TotalMatches)
	}

	best := resp.Recommendations[0]
	if best.MatchScore != 90 {
		t.Errorf("MatchScore = %v, want 90", best.MatchScore)
	}
	if best.Confidence != 0.95 {
		t.Errorf("Confidence = %v, want 0.95 (capped)", best.Confidence)
	}
	if mid := resp.Recommendations[1]; mid.Confidence != 0.7 {
		t.Errorf("Confidence = %v, want 0.7", mid.Confidence)
	}
}

func TestEngine_Recommend_DropsWeakMatches(t *testing.T) {
	e := newTestEngine(t, nil)
	records := []models.UniversityRecord{
		uni(1, "Boundary", "Chile", 2), // scores exactly 20
		uni(2, "Weak", "Chile", 1),
		uni(3, "Fine", "Chile", 2.1),
		{ID: 4, Name: "Empty", Country: "Chile"},
	}

	resp, err := e.Recommend(context.Background(), records, models.UserProfile{}, 0)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got := recNames(resp.Recommendations); !equalNames(got, []string{"Fine"}) {
		t.Errorf("recommendations = %v, want [Fine]", got)
	}
}

func TestEngine_Recommend_HardFilters(t *testing.T) {
	e := newTestEngine(t, nil)

	tests := []struct {
		name    string
		record  models.UniversityRecord
		profile models.UserProfile
		want    bool
	}{
		{
			name:    "tuition within tolerance",
			record:  models.UniversityRecord{Name: "A", Country: "Chile", AcademicRigor: f(8), TuitionInternational: f(12000)},
			profile: models.UserProfile{MaxTuitionBudget: f(10000)},
			want:    true,
		},
		{
			name:    "tuition beyond tolerance",
			record:  models.UniversityRecord{Name: "A", Country: "Chile", AcademicRigor: f(8), TuitionInternational: f(12001)},
			profile: models.UserProfile{MaxTuitionBudget: f(10000)},
			want:    false,
		},
		{
			name:    "unknown tuition with budget",
			record:  models.UniversityRecord{Name: "A", Country: "Chile", AcademicRigor: f(8)},
			profile: models.UserProfile{MaxTuitionBudget: f(10000)},
			want:    false,
		},
		{
			name:    "preferred country alias",
			record:  models.UniversityRecord{Name: "A", Country: "United Kingdom", AcademicRigor: f(8)},
			profile: models.UserProfile{PreferredCountries: []string{"UK"}},
			want:    true,
		},
		{
			name:    "other country",
			record:  models.UniversityRecord{Name: "A", Country: "France", AcademicRigor: f(8)},
			profile: models.UserProfile{PreferredCountries: []string{"UK"}},
			want:    false,
		},
		{
			name:    "rank within acceptable",
			record:  models.UniversityRecord{Name: "A", Country: "Chile", AcademicRigor: f(8), QSRank: n(200)},
			profile: models.UserProfile{MinAcceptableRank: n(200)},
			want:    true,
		},
		{
			name:    "unranked with acceptable rank",
			record:  models.UniversityRecord{Name: "A", Country: "Chile", AcademicRigor: f(8)},
			profile: models.UserProfile{MinAcceptableRank: n(200)},
			want:    false,
		},
		{
			name:    "accommodation required but absent",
			record:  models.UniversityRecord{Name: "A", Country: "Chile", AcademicRigor: f(8), Accommodation: models.FacilityNo},
			profile: models.UserProfile{AccommodationRequired: true},
			want:    false,
		},
		{
			name:    "accommodation partial",
			record:  models.UniversityRecord{Name: "A", Country: "Chile", AcademicRigor: f(8), Accommodation: models.FacilityPartial},
			profile: models.UserProfile{AccommodationRequired: true},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := e.Recommend(context.Background(), []models.UniversityRecord{tt.record}, tt.profile, 0)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if got := len(resp.Recommendations) == 1; got != tt.want {
				t.Errorf("included = %v, want %v", got, tt.want)
			}
			if !tt.want && resp.Filtered != 1 {
				t.Errorf("Filtered = %d, want 1", resp.Filtered)
			}
		})
	}
}

func TestEngine_Recommend_InvalidInput(t *testing.T) {
	e := newTestEngine(t, nil)
	records := []models.UniversityRecord{uni(1, "A", "Chile", 8)}

	t.Run("limit above max", func(t *testing.T) {
		_, err := e.Recommend(context.Background(), records, models.UserProfile{}, 51)
		if !errors.Is(err, ErrInvalidLimit) {
			t.Errorf("error = %v, want ErrInvalidLimit", err)
		}
	})

	t.Run("negative limit", func(t *testing.T) {
		_, err := e.Recommend(context.Background(), records, models.UserProfile{}, -1)
		if !errors.Is(err, ErrInvalidLimit) {
			t.Errorf("error = %v, want ErrInvalidLimit", err)
		}
	})

	t.Run("importance out of range", func(t *testing.T) {
		_, err := e.Recommend(context.Background(), records, models.UserProfile{AcademicImportance: 6}, 10)
		if !errors.Is(err, models.ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})

	if m := e.GetMetrics(); m.ErrorCount != 3 || m.RequestCount != 3 {
		t.Errorf("metrics = %+v, want 3 requests and 3 errors", m)
	}
}

func TestEngine_Recommend_Canceled(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Recommend(ctx, []models.UniversityRecord{uni(1, "A", "Chile", 8)}, models.UserProfile{}, 0)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestEngine_Recommend_Concurrent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 4
	e := newTestEngine(t, cfg)

	records := make([]models.UniversityRecord, 200)
	for i := range records {
		records[i] = uni(int64(i), "U", "Chile", float64(i%10))
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.Recommend(context.Background(), records, models.UserProfile{}, 50); err != nil {
				t.Errorf("Recommend() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if m := e.GetMetrics(); m.RequestCount != 8 || m.ScoredCount != 8*200 {
		t.Errorf("metrics = %+v, want 8 requests and 1600 scored", m)
	}
}

// ========================================
// Similar
// ========================================

func TestEngine_Similar(t *testing.T) {
	e := newTestEngine(t, nil)
	base := models.UniversityRecord{ID: 1, Name: "Base", Country: "Canada", QSRank: n(100)}
	records := []models.UniversityRecord{
		base,
		{ID: 2, Name: "Near", Country: "Canada", QSRank: n(250)},
		{ID: 3, Name: "Far", Country: "Canada", QSRank: n(301)},
		{ID: 4, Name: "Unranked", Country: "Canada"},
		{ID: 5, Name: "Abroad", Country: "United States", QSRank: n(120)},
		{ID: 6, Name: "Alias", Country: "CA", QSRank: n(1)},
	}

	t.Run("ranked base uses window", func(t *testing.T) {
		got, err := e.Similar(records, base, 0)
		if err != nil {
			t.Fatalf("Similar() error = %v", err)
		}
		if want := []string{"Near", "Alias"}; !equalNames(names(got), want) {
			t.Errorf("Similar() = %v, want %v", names(got), want)
		}
	})

	t.Run("unranked base matches country only", func(t *testing.T) {
		unranked := records[3]
		got, err := e.Similar(records, unranked, 20)
		if err != nil {
			t.Fatalf("Similar() error = %v", err)
		}
		if want := []string{"Base", "Near", "Far", "Alias"}; !equalNames(names(got), want) {
			t.Errorf("Similar() = %v, want %v", names(got), want)
		}
	})

	t.Run("limit", func(t *testing.T) {
		got, err := e.Similar(records, records[3], 1)
		if err != nil {
			t.Fatalf("Similar() error = %v", err)
		}
		if len(got) != 1 {
			t.Errorf("len = %d, want 1", len(got))
		}
		if _, err := e.Similar(records, base, 21); !errors.Is(err, ErrInvalidLimit) {
			t.Errorf("error = %v, want ErrInvalidLimit", err)
		}
	})
}

// ========================================
// Trending
// ========================================

func TestEngine_Trending(t *testing.T) {
	e := newTestEngine(t, nil)
	trend := func(name string, rank *int, life float64) models.UniversityRecord {
		return models.UniversityRecord{
			Name: name, Country: "Chile", QSRank: rank,
			StudentLife: f(life), CulturalDiversity: f(7), AcademicRigor: f(6),
		}
	}
	records := []models.UniversityRecord{
		trend("Unranked lively", nil, 9),
		trend("Rank 50", n(50), 7),
		trend("Rank 10", n(10), 7),
		trend("Unranked calm", nil, 7.5),
		trend("Rank 10 livelier", n(10), 8),
		{Name: "Dull", Country: "Chile", QSRank: n(1), StudentLife: f(6.9), CulturalDiversity: f(9), AcademicRigor: f(9)},
		{Name: "No rigor data", Country: "Chile", QSRank: n(2), StudentLife: f(9), CulturalDiversity: f(9)},
	}

	got, err := e.Trending(records, 0)
	if err != nil {
		t.Fatalf("Trending() error = %v", err)
	}
	want := []string{"Rank 10 livelier", "Rank 10", "Rank 50", "Unranked lively", "Unranked calm"}
	if !equalNames(names(got), want) {
		t.Errorf("Trending() = %v, want %v", names(got), want)
	}

	got, err = e.Trending(nil, 5)
	if err != nil {
		t.Fatalf("Trending() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Trending(nil) = %v, want empty non-nil slice", got)
	}
}
