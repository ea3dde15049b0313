// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/unisearch/internal/database"
	"github.com/tomtom215/unisearch/internal/ingest"
	"github.com/tomtom215/unisearch/internal/logging"
	"github.com/tomtom215/unisearch/internal/models"
	"github.com/tomtom215/unisearch/internal/recommend"
)

func newRecorded(t *testing.T) (*ResponseWriter, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/test", nil)
	req = req.WithContext(logging.ContextWithRequestID(req.Context(), "req-1"))
	rec := httptest.NewRecorder()
	return NewResponseWriter(rec, req), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestResponseWriter_Success(t *testing.T) {
	t.Parallel()
	rw, rec := newRecorded(t)

	rw.SuccessWithPagination([]int{1, 2}, &PaginationMeta{Total: 10, Count: 2, Limit: 2, HasMore: true})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	env := decodeEnvelope(t, rec)
	if !env.Success || env.Error != nil {
		t.Errorf("envelope = %+v", env)
	}
	if env.Meta == nil || env.Meta.RequestID != "req-1" || env.Meta.Timestamp.IsZero() {
		t.Errorf("meta = %+v", env.Meta)
	}
	if p := env.Meta.Pagination; p == nil || p.Total != 10 || !p.HasMore {
		t.Errorf("pagination = %+v", p)
	}
}

func TestResponseWriter_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		write      func(*ResponseWriter)
		wantStatus int
		wantCode   string
	}{
		{"bad request", func(rw *ResponseWriter) { rw.BadRequest("x") }, http.StatusBadRequest, ErrCodeBadRequest},
		{"not found", func(rw *ResponseWriter) { rw.NotFound("x") }, http.StatusNotFound, ErrCodeNotFound},
		{"conflict", func(rw *ResponseWriter) { rw.Conflict("x") }, http.StatusConflict, ErrCodeConflict},
		{"internal", func(rw *ResponseWriter) { rw.InternalError("x") }, http.StatusInternalServerError, ErrCodeInternalError},
		{"unavailable", func(rw *ResponseWriter) { rw.ServiceUnavailable("x") }, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"database", func(rw *ResponseWriter) { rw.DatabaseError(errors.New("boom")) }, http.StatusInternalServerError, ErrCodeDatabaseError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rw, rec := newRecorded(t)
			tt.write(rw)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			env := decodeEnvelope(t, rec)
			if env.Success || env.Error == nil {
				t.Fatalf("envelope = %+v", env)
			}
			if env.Error.Code != tt.wantCode || env.Error.RequestID != "req-1" {
				t.Errorf("error = %+v", env.Error)
			}
		})
	}
}

func TestWriteError_Mapping(t *testing.T) {
	t.Parallel()

	validation := &models.ValidationError{
		Subject: "user profile",
		Fields:  []models.FieldError{{Field: "academic_importance", Tag: "lte", Message: "too high"}},
	}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", validation, http.StatusBadRequest, ErrCodeValidationFailed},
		{"wrapped validation", fmt.Errorf("recommend: %w", validation), http.StatusBadRequest, ErrCodeValidationFailed},
		{"store not found", database.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"model not found", models.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"bad limit", fmt.Errorf("%w: 0", recommend.ErrInvalidLimit), http.StatusBadRequest, ErrCodeBadRequest},
		{"sync busy", ingest.ErrSyncInProgress, http.StatusConflict, ErrCodeConflict},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, ErrCodeServiceUnavailable},
		{"other", errors.New("duckdb: io error"), http.StatusInternalServerError, ErrCodeDatabaseError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rw, rec := newRecorded(t)
			writeError(rw, tt.err)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			env := decodeEnvelope(t, rec)
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want %s", env.Error, tt.wantCode)
			}
		})
	}
}

func TestWriteError_ValidationDetails(t *testing.T) {
	t.Parallel()
	rw, rec := newRecorded(t)

	writeError(rw, &models.ValidationError{
		Subject: "list parameters",
		Fields:  []models.FieldError{{Field: "limit", Tag: "lte", Message: "limit too large"}},
	})

	var body struct {
		Error struct {
			Details []models.FieldError `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Error.Details) != 1 || body.Error.Details[0].Field != "limit" {
		t.Errorf("details = %+v", body.Error.Details)
	}
}

func TestWriteError_CanceledWritesNothing(t *testing.T) {
	t.Parallel()
	rw, rec := newRecorded(t)
	writeError(rw, context.Canceled)
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
}
