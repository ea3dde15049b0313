// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package ingest

import (
	"time"

	"github.com/tomtom215/unisearch/internal/database"
)

// SourceStats counts what happened to the rows of one source.
type SourceStats struct {
	// Read is the number of raw rows returned by the reader.
	Read int `json:"read"`

	// Invalid is the number of rows dropped by validation.
	Invalid int `json:"invalid"`

	// Duplicates is the number of rows folded into another row.
	Duplicates int `json:"duplicates"`

	// Kept is the number of records that left the cleaner.
	Kept int `json:"kept"`

	// Reasons breaks Invalid down by drop reason.
	Reasons map[string]int `json:"reasons,omitempty"`

	// Error is set when the source could not be read at all.
	Error string `json:"error,omitempty"`
}

// Dropped is Invalid plus Duplicates.
func (s *SourceStats) Dropped() int {
	return s.Invalid + s.Duplicates
}

// SyncStats holds statistics about one sync run.
type SyncStats struct {
	// RunID correlates log lines of the run.
	RunID string `json:"run_id"`

	// Reason is why the run was started ("forced", "empty_store", "stale").
	Reason string `json:"reason"`

	// Sources is keyed by source identifier.
	Sources map[string]*SourceStats `json:"sources"`

	// Primary is the number of ranking records after cross-source resolution.
	Primary int `json:"primary"`

	// Matched is the number of feedback records attached to a ranking record.
	Matched int `json:"matched"`

	// Unmatched is the number of feedback records dropped for lack of a match.
	Unmatched int `json:"unmatched"`

	// Import is the store outcome, nil until the import step has run.
	Import *database.ImportStats `json:"import,omitempty"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time,omitempty"`

	// Error is the failure message of a failed run.
	Error string `json:"error,omitempty"`
}

func newSyncStats(runID, reason string) *SyncStats {
	return &SyncStats{
		RunID:     runID,
		Reason:    reason,
		Sources:   make(map[string]*SourceStats),
		StartTime: time.Now(),
	}
}

// Duration returns the duration of the run.
func (s *SyncStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// RecordsRead sums raw rows over all sources.
func (s *SyncStats) RecordsRead() int {
	total := 0
	for _, src := range s.Sources {
		total += src.Read
	}
	return total
}

// Clone returns a deep copy.
func (s *SyncStats) Clone() *SyncStats {
	c := *s
	c.Sources = make(map[string]*SourceStats, len(s.Sources))
	for k, v := range s.Sources {
		src := *v
		if v.Reasons != nil {
			src.Reasons = make(map[string]int, len(v.Reasons))
			for r, n := range v.Reasons {
				src.Reasons[r] = n
			}
		}
		c.Sources[k] = &src
	}
	if s.Import != nil {
		imp := *s.Import
		c.Import = &imp
	}
	return &c
}

// SyncSummary is the API view of a sync run.
type SyncSummary struct {
	Status         string                  `json:"status"`
	RunID          string                  `json:"run_id,omitempty"`
	Reason         string                  `json:"reason,omitempty"`
	RecordsRead    int                     `json:"records_read"`
	Primary        int                     `json:"primary"`
	Matched        int                     `json:"matched"`
	Unmatched      int                     `json:"unmatched"`
	Created        int                     `json:"created"`
	Updated        int                     `json:"updated"`
	Skipped        int                     `json:"skipped"`
	Errors         int                     `json:"errors"`
	Sources        map[string]*SourceStats `json:"sources,omitempty"`
	ElapsedSeconds float64                 `json:"elapsed_seconds"`
	StartTime      time.Time               `json:"start_time"`
	EndTime        time.Time               `json:"end_time,omitempty"`
	Error          string                  `json:"error,omitempty"`
}

// ToSummary converts SyncStats to a SyncSummary.
func (s *SyncStats) ToSummary(running bool) *SyncSummary {
	summary := &SyncSummary{
		RunID:          s.RunID,
		Reason:         s.Reason,
		RecordsRead:    s.RecordsRead(),
		Primary:        s.Primary,
		Matched:        s.Matched,
		Unmatched:      s.Unmatched,
		Sources:        s.Sources,
		ElapsedSeconds: s.Duration().Seconds(),
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		Error:          s.Error,
	}
	if s.Import != nil {
		summary.Created = s.Import.Created
		summary.Updated = s.Import.Updated
		summary.Skipped = s.Import.Skipped
		summary.Errors = s.Import.Errors
	}

	switch {
	case running:
		summary.Status = "running"
	case s.StartTime.IsZero():
		summary.Status = "never_run"
		summary.ElapsedSeconds = 0
	case s.Error != "":
		summary.Status = "failed"
	default:
		summary.Status = "completed"
	}
	return summary
}
