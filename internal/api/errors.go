// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/unisearch/internal/database"
	"github.com/tomtom215/unisearch/internal/ingest"
	"github.com/tomtom215/unisearch/internal/logging"
	"github.com/tomtom215/unisearch/internal/models"
	"github.com/tomtom215/unisearch/internal/recommend"
)

// writeError maps a domain error to its status and error code.
// Errors that match no known kind are logged and reported as 500.
func writeError(rw *ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		rw.ValidationError(err.Error(), verr.Fields)
	case errors.Is(err, models.ErrValidation):
		rw.ValidationError(err.Error(), nil)
	case errors.Is(err, database.ErrNotFound), errors.Is(err, models.ErrNotFound):
		rw.NotFound("University not found")
	case errors.Is(err, recommend.ErrInvalidLimit):
		rw.BadRequest(err.Error())
	case errors.Is(err, ingest.ErrSyncInProgress):
		rw.Conflict("A sync is already in progress")
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful can be written
		logging.Ctx(rw.r.Context()).Debug().Str("path", rw.r.URL.Path).Msg("Request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		rw.Error(http.StatusGatewayTimeout, ErrCodeServiceUnavailable, "Request timed out")
	default:
		rw.DatabaseError(err)
	}
}
