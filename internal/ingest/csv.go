// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package ingest

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tomtom215/unisearch/internal/logging"
	"github.com/tomtom215/unisearch/internal/models"
)

// ErrEmptySource is returned when a source file holds no header row.
var ErrEmptySource = errors.New("source is empty")

// readCSV returns all rows after skipping skip preamble lines. TSV files are
// detected by extension. Rows may have differing widths; blank lines after
// the preamble are ignored.
func readCSV(ctx context.Context, path string, skip int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Str("path", path).Msg("Error closing source file")
		}
	}()

	// Preamble lines are skipped raw, blank ones included
	br := bufio.NewReader(f)
	for i := 0; i < skip; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
	}

	reader := csv.NewReader(br)
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		reader.Comma = '\t'
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		if len(rows)%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrEmptySource)
	}
	return rows, nil
}

// qsColumns is the fixed column layout of the QS export, which ships with
// a header row that is not usable as field names.
var qsColumns = []string{
	"rank_2024", "rank_2023", "institution_name", "location_code", "location",
	"size", "focus", "research", "age_band", "status", "ar_score", "ar_rank",
	"er_score", "er_rank", "fsr_score", "fsr_rank", "cpf_score", "cpf_rank",
	"ifr_score", "ifr_rank", "isr_score", "isr_rank", "irn_score", "irn_rank",
	"ger_score", "ger_rank", "sus_score", "sus_rank", "overall_score",
}

// qsFields maps the QS layout to field keys.
var qsFields = map[string]string{
	"rank_2024":        FieldQSRank,
	"institution_name": FieldName,
	"location":         FieldCountry,
	"overall_score":    FieldQSScore,
}

// DefaultQSSkipRows is the number of preamble lines before the QS header row.
const DefaultQSSkipRows = 4

// QSCSVReader reads the QS World University Rankings CSV export.
type QSCSVReader struct {
	path     string
	skipRows int
}

// NewQSCSVReader creates a reader for the QS export at path.
func NewQSCSVReader(path string, skipRows int) *QSCSVReader {
	if skipRows < 0 {
		skipRows = DefaultQSSkipRows
	}
	return &QSCSVReader{path: path, skipRows: skipRows}
}

// Source implements Reader.
func (r *QSCSVReader) Source() string { return models.SourceQSRankings }

// Read returns one row per ranked institution. The first row after the
// preamble is the export's own header and is discarded. The location column
// names the country; the two-letter location code stands in when it is blank.
func (r *QSCSVReader) Read(ctx context.Context) ([]models.RawRecord, error) {
	rows, err := readCSV(ctx, r.path, r.skipRows)
	if err != nil {
		return nil, err
	}

	out := make([]models.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		raw := make(models.RawRecord, len(qsFields))
		var code string
		for i, col := range qsColumns {
			if i >= len(row) {
				break
			}
			v := strings.TrimSpace(row[i])
			if v == "" {
				continue
			}
			if col == "location_code" {
				code = v
				continue
			}
			if f, ok := qsFields[col]; ok {
				raw[f] = v
			}
		}
		if _, ok := raw[FieldCountry]; !ok && code != "" {
			raw[FieldCountry] = code
		}
		if len(raw) == 0 {
			continue
		}
		out = append(out, raw)
	}
	return out, nil
}

// feedbackAliases maps the survey spreadsheet headers to field keys.
var feedbackAliases = map[string]string{
	"name of university":                  FieldName,
	"university":                          FieldName,
	"university name":                     FieldName,
	"city":                                FieldCity,
	"country":                             FieldCountry,
	"overall quality of education":        FieldOverallQuality,
	"academic rigor":                      FieldAcademicRigor,
	"openness*":                           FieldOpenness,
	"openness":                            FieldOpenness,
	"cultural diversity":                  FieldCulturalDiversity,
	"overall student life":                FieldStudentLife,
	"sense of campus safety/security":     FieldCampusSafety,
	"university provided accommodation":   FieldAccommodation,
	"language of instruction":             FieldLanguage,
	"local language classes for students": FieldLanguageClasses,
	"accessibility/disability support services available": FieldAccessibility,
}

// FeedbackCSVReader reads the student feedback survey export. Each row is
// one response; rows are aggregated per institution by AggregateFeedback.
type FeedbackCSVReader struct {
	path string
}

// NewFeedbackCSVReader creates a reader for the survey export at path.
func NewFeedbackCSVReader(path string) *FeedbackCSVReader {
	return &FeedbackCSVReader{path: path}
}

// Source implements Reader.
func (r *FeedbackCSVReader) Source() string { return models.SourceFeedback }

// Read returns one row per survey response that names a university.
func (r *FeedbackCSVReader) Read(ctx context.Context) ([]models.RawRecord, error) {
	rows, err := readCSV(ctx, r.path, 0)
	if err != nil {
		return nil, err
	}

	fields := mapHeader(rows[0], feedbackAliases)
	if !slices.Contains(fields, FieldName) {
		return nil, fmt.Errorf("%s: no university name column", filepath.Base(r.path))
	}

	out := make([]models.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		raw := rowToRaw(fields, row)
		if raw.String(FieldName) == "" {
			continue
		}
		out = append(out, raw)
	}
	return out, nil
}
