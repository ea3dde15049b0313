// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package metrics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/unisearch/internal/models"
)

// TestRecordDBQuery tests database query metric recording
func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		err       error
		wantErrs  float64
	}{
		{"successful select", "select", "universities_q1", nil, 0},
		{"failed insert", "insert", "universities_q2", errors.New("constraint violation"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordDBQuery(tt.operation, tt.table, 10*time.Millisecond, tt.err)

			if tt.err == nil {
				return
			}
			got := testutil.ToFloat64(DBQueryErrors.WithLabelValues(tt.operation, tt.table, tt.err.Error()))
			if got != tt.wantErrs {
				t.Errorf("DBQueryErrors = %v, want %v", got, tt.wantErrs)
			}
		})
	}
}

func TestRecordDBQuery_ErrorTruncation(t *testing.T) {
	long := errors.New("this is a very long error message that exceeds fifty characters and should be truncated")
	RecordDBQuery("select", "truncation_test", time.Millisecond, long)

	got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("select", "truncation_test", long.Error()[:50]))
	if got != 1 {
		t.Errorf("truncated error label count = %v, want 1", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/test-endpoint", "200"))
	RecordAPIRequest("GET", "/api/v1/test-endpoint", "200", 25*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/test-endpoint", "200"))

	if after-before != 1 {
		t.Errorf("APIRequestsTotal delta = %v, want 1", after-before)
	}
}

// ========================================
// Sync
// ========================================

func TestSyncErrorType(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{context.Canceled, "canceled"},
		{fmt.Errorf("sync: %w", context.DeadlineExceeded), "canceled"},
		{&models.StructuralError{Key: "country"}, "structural"},
		{errors.New("import into database: disk full"), "database"},
		{errors.New("read source qs_rankings: no such file"), "source"},
		{errors.New("boom"), "other"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := syncErrorType(tt.err); got != tt.want {
				t.Errorf("syncErrorType(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestRecordSyncOperation(t *testing.T) {
	t.Run("success updates last success", func(t *testing.T) {
		SyncLastSuccess.Set(0)
		RecordSyncOperation(time.Second, 10, nil)
		if testutil.ToFloat64(SyncLastSuccess) == 0 {
			t.Error("SyncLastSuccess not updated")
		}
	})

	t.Run("failure counts by type", func(t *testing.T) {
		before := testutil.ToFloat64(SyncErrors.WithLabelValues("structural"))
		RecordSyncOperation(time.Second, 0, &models.StructuralError{Key: "country"})
		after := testutil.ToFloat64(SyncErrors.WithLabelValues("structural"))
		if after-before != 1 {
			t.Errorf("SyncErrors{structural} delta = %v, want 1", after-before)
		}
	})
}

func TestRecordIngest(t *testing.T) {
	RecordIngest("test_source", 10, 2, 1)

	tests := []struct {
		outcome string
		want    float64
	}{
		{"read", 10},
		{"dropped", 2},
		{"invalid", 1},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(IngestRecords.WithLabelValues("test_source", tt.outcome)); got != tt.want {
			t.Errorf("IngestRecords{%s} = %v, want %v", tt.outcome, got, tt.want)
		}
	}
}

func TestRecordMatches(t *testing.T) {
	before := testutil.ToFloat64(MatchResults.WithLabelValues("unmatched"))
	RecordMatches(5, 3)
	if got := testutil.ToFloat64(MatchResults.WithLabelValues("unmatched")) - before; got != 3 {
		t.Errorf("unmatched delta = %v, want 3", got)
	}
}

// ========================================
// Recommendation and cache
// ========================================

func TestRecordRecommendation(t *testing.T) {
	before := testutil.CollectAndCount(RecommendationDuration)
	RecordRecommendation("similar", time.Millisecond, 3)
	RecordRecommendation("profile", time.Millisecond, 10)
	if after := testutil.CollectAndCount(RecommendationDuration); after < before {
		t.Errorf("RecommendationDuration series shrank: %d -> %d", before, after)
	}
}

func TestUpdateCacheStats(t *testing.T) {
	UpdateCacheStats("normalizer", 7, 3, 5)

	if got := testutil.ToFloat64(CacheHits.WithLabelValues("normalizer")); got != 7 {
		t.Errorf("CacheHits = %v, want 7", got)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("normalizer")); got != 3 {
		t.Errorf("CacheMisses = %v, want 3", got)
	}
	if got := testutil.ToFloat64(CacheSize.WithLabelValues("normalizer")); got != 5 {
		t.Errorf("CacheSize = %v, want 5", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests) - start; got != 1 {
		t.Errorf("active delta = %v, want 1", got)
	}
	TrackActiveRequest(false)
}

func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			RecordAPIRequest("GET", "/api/v1/concurrent", "200", time.Duration(i)*time.Millisecond)
			RecordIngest("concurrent", 1, 0, 0)
		}(i)
	}
	wg.Wait()

	if got := testutil.ToFloat64(IngestRecords.WithLabelValues("concurrent", "read")); got != 50 {
		t.Errorf("IngestRecords{concurrent,read} = %v, want 50", got)
	}
}

func TestMetricsRegistration(t *testing.T) {
	collectors := []prometheus.Collector{
		DBQueryDuration, DBQueryErrors, DBUniversities,
		APIRequestsTotal, APIRequestDuration, APIActiveRequests, APIRateLimitHits,
		SyncDuration, SyncRecordsProcessed, SyncErrors, SyncLastSuccess,
		IngestRecords, MatchResults, DuplicatesMerged,
		RecommendationDuration, RecommendationsReturned,
		CacheHits, CacheMisses, CacheSize,
		CircuitBreakerState, CircuitBreakerRequests,
		CircuitBreakerConsecutiveFailures, CircuitBreakerTransitions,
		AppInfo, AppUptime,
	}
	for i, c := range collectors {
		err := prometheus.DefaultRegisterer.Register(c)
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			t.Errorf("collector %d: Register() error = %v, want AlreadyRegisteredError", i, err)
		}
	}
}
