// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package database

import (
	"errors"
	"runtime"
	"strings"
	"time"
)

// configureConnectionPool sets connection pool parameters
func (db *DB) configureConnectionPool() error {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
	return nil
}

// IsConnectionError checks if an error indicates database connection loss.
// Health checks use it to tell an unavailable store from a failing query.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var connErr interface{ Timeout() bool }
	if errors.As(err, &connErr) && connErr.Timeout() {
		return true
	}
	errMsg := err.Error()
	for _, marker := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"bad connection",
		"database is closed",
	} {
		if strings.Contains(errMsg, marker) {
			return true
		}
	}
	return false
}
