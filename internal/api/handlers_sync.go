// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/unisearch/internal/ingest"
	"github.com/tomtom215/unisearch/internal/logging"
)

// TriggerSync handles POST /api/v1/sync.
//
// The run starts in the background and the request returns 202 at once.
// A run already in progress yields 409.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.syncer == nil {
		rw.ServiceUnavailable("Sync is not configured")
		return
	}
	if h.syncer.IsRunning() {
		rw.Conflict("A sync is already in progress")
		return
	}

	requestID := logging.RequestIDFromContext(r.Context())
	ctx := logging.ContextWithRequestID(h.bgCtx, requestID)
	go func() {
		_, err := h.syncer.Sync(ctx, ingest.ReasonForced)
		switch {
		case err == nil:
		case errors.Is(err, ingest.ErrSyncInProgress):
			logging.Ctx(ctx).Info().Msg("Manual sync skipped, another run started first")
		default:
			logging.Ctx(ctx).Error().Err(err).Msg("Manual sync failed")
		}
	}()

	logging.Ctx(r.Context()).Info().Msg("Manual sync triggered")
	rw.Accepted(map[string]string{
		"status":  "started",
		"message": "Sync started in the background; poll /api/v1/sync/status for progress",
	})
}

// SyncStatus handles GET /api/v1/sync/status: the run in progress, or the
// last finished run, or "never_run".
func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.syncer == nil {
		rw.ServiceUnavailable("Sync is not configured")
		return
	}

	if h.syncer.IsRunning() {
		if stats := h.syncer.GetStats(); stats != nil {
			rw.Success(stats.ToSummary(true))
			return
		}
	}

	last, err := h.syncer.LastRun(r.Context())
	if err != nil {
		writeError(rw, err)
		return
	}
	if last == nil {
		last = &ingest.SyncStats{}
	}
	rw.Success(last.ToSummary(false))
}
