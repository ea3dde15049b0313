// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/unisearch/internal/logging"
	"github.com/tomtom215/unisearch/internal/match"
	"github.com/tomtom215/unisearch/internal/metrics"
	"github.com/tomtom215/unisearch/internal/models"
)

// ImportMatchRatio is the exclusive similarity a stored name needs, within
// the same country, to be treated as the incoming record.
const ImportMatchRatio = 90.0

// ImportOptions controls ImportUniversities.
type ImportOptions struct {
	// UpdateExisting merges into matched records; otherwise they are skipped.
	UpdateExisting bool
}

// ImportStats counts the outcome of one import.
type ImportStats struct {
	TotalProcessed int           `json:"total_processed"`
	Created        int           `json:"created"`
	Updated        int           `json:"updated"`
	Skipped        int           `json:"skipped"`
	Errors         int           `json:"errors"`
	Duration       time.Duration `json:"duration"`
}

// storedKey is an existing record indexed for matching.
type storedKey struct {
	rec *models.UniversityRecord
	key string
}

// ImportUniversities creates or updates records in one transaction. An
// incoming record matches a stored one in the same normalized country when
// their canonical names are equal or their ratio exceeds ImportMatchRatio.
// Records that fail validation are counted as errors and skipped; any
// database failure rolls the whole import back.
func (db *DB) ImportUniversities(ctx context.Context, records []models.UniversityRecord, opts ImportOptions) (stats *ImportStats, err error) {
	start := time.Now()
	defer db.observe("import", "universities", start, &err)

	db.importMu.Lock()
	defer db.importMu.Unlock()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() {
		if err != nil {
			closeQuietly(rollbacker{tx})
		}
	}()

	index, err := db.loadIndex(ctx, tx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stats = &ImportStats{}
	log := logging.Ctx(ctx)

	for i := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stats.TotalProcessed++

		in := records[i].Clone()
		if verr := in.Validate(); verr != nil {
			stats.Errors++
			log.Debug().Err(verr).Int("row", i).Msg("Skipping invalid record")
			continue
		}
		in.CanonicalName = db.normalizer.Name(in.Name)
		country := db.normalizer.Country(in.Country)
		key := strings.ToLower(in.CanonicalName)

		existing := findStored(index[country], key)
		if existing == nil {
			in.LastUpdated = now
			if _, err := db.insertUniversity(ctx, tx, &in); err != nil {
				return nil, err
			}
			index[country] = append(index[country], storedKey{rec: &in, key: key})
			stats.Created++
			continue
		}

		if !opts.UpdateExisting {
			stats.Skipped++
			continue
		}
		if existing.Name != in.Name {
			log.Debug().Str("incoming", in.Name).Str("stored", existing.Name).Msg("Matched existing university")
		}
		mergeForUpdate(existing, &in)
		existing.LastUpdated = now
		if err := updateUniversity(ctx, tx, existing); err != nil {
			return nil, err
		}
		stats.Updated++
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}

	stats.Duration = time.Since(start)
	if n, cerr := db.CountUniversities(ctx); cerr == nil {
		metrics.DBUniversities.Set(float64(n))
	}
	log.Info().
		Int("total_processed", stats.TotalProcessed).
		Int("created", stats.Created).
		Int("updated", stats.Updated).
		Int("skipped", stats.Skipped).
		Int("errors", stats.Errors).
		Dur("duration", stats.Duration).
		Msg("Universities imported")

	return stats, nil
}

// loadIndex reads every stored record grouped by normalized country.
func (db *DB) loadIndex(ctx context.Context, ex execer) (map[string][]storedKey, error) {
	rows, err := ex.QueryContext(ctx, "SELECT "+universityColumns+" FROM universities ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to load stored universities: %w", err)
	}
	stored, err := scanUniversities(rows)
	if err != nil {
		return nil, err
	}

	index := make(map[string][]storedKey)
	for i := range stored {
		rec := &stored[i]
		country := db.normalizer.Country(rec.Country)
		index[country] = append(index[country], storedKey{rec: rec, key: strings.ToLower(rec.CanonicalName)})
	}
	return index, nil
}

// findStored returns the exact canonical match, else the most similar
// candidate above ImportMatchRatio (earliest wins ties), else nil.
func findStored(candidates []storedKey, key string) *models.UniversityRecord {
	var (
		best      *models.UniversityRecord
		bestScore = ImportMatchRatio
	)
	for _, c := range candidates {
		if c.key == key {
			return c.rec
		}
		if s := match.Ratio(key, c.key); s > bestScore {
			best, bestScore = c.rec, s
		}
	}
	return best
}

// mergeForUpdate folds in into cur. Identity fields never change. Ranks
// only improve (lower), ranking scores and the rigor, diversity and student
// life metrics only rise; every other field takes the incoming value when
// it has one. Data sources are unioned.
func mergeForUpdate(cur, in *models.UniversityRecord) {
	lowerRank(&cur.QSRank, in.QSRank)
	lowerRank(&cur.THERank, in.THERank)
	lowerRank(&cur.ARWURank, in.ARWURank)
	lowerRank(&cur.USNewsRank, in.USNewsRank)

	higherScore(&cur.QSScore, in.QSScore)
	higherScore(&cur.THEScore, in.THEScore)
	higherScore(&cur.AcademicRigor, in.AcademicRigor)
	higherScore(&cur.CulturalDiversity, in.CulturalDiversity)
	higherScore(&cur.StudentLife, in.StudentLife)

	replaceFloat(&cur.OverallQuality, in.OverallQuality)
	replaceFloat(&cur.Openness, in.Openness)
	replaceFloat(&cur.CampusSafety, in.CampusSafety)
	replaceFloat(&cur.ResearchQuality, in.ResearchQuality)
	replaceFloat(&cur.TuitionInternational, in.TuitionInternational)
	replaceFloat(&cur.TuitionLocal, in.TuitionLocal)

	replaceString(&cur.City, in.City)
	replaceString(&cur.WebsiteURL, in.WebsiteURL)
	replaceString(&cur.Language, in.Language)
	replaceString(&cur.ClimateType, in.ClimateType)
	if in.Accommodation != "" {
		cur.Accommodation = in.Accommodation
	}
	if in.LanguageClasses != "" {
		cur.LanguageClasses = in.LanguageClasses
	}
	if in.Accessibility != "" {
		cur.Accessibility = in.Accessibility
	}
	if in.ResponseCount > 0 {
		cur.ResponseCount = in.ResponseCount
	}
	cur.AddSource(in.DataSources...)
}

func lowerRank(cur **int, in *int) {
	if in != nil && (*cur == nil || *in < **cur) {
		v := *in
		*cur = &v
	}
}

func higherScore(cur **float64, in *float64) {
	if in != nil && (*cur == nil || *in > **cur) {
		v := *in
		*cur = &v
	}
}

func replaceFloat(cur **float64, in *float64) {
	if in != nil {
		v := *in
		*cur = &v
	}
}

func replaceString(cur *string, in string) {
	if in != "" {
		*cur = in
	}
}

// updateUniversity rewrites every mutable column of u.
func updateUniversity(ctx context.Context, ex execer, u *models.UniversityRecord) error {
	args := universityArgs(u)
	// Drop name, canonical_name (0, 1) and country (3): identity is immutable
	mutable := append([]any{args[2]}, args[4:]...)
	mutable = append(mutable, u.ID)

	_, err := ex.ExecContext(ctx, `
		UPDATE universities SET
			city = ?, website_url = ?,
			qs_rank = ?, the_rank = ?, arwu_rank = ?, us_news_rank = ?, qs_score = ?, the_score = ?,
			overall_quality = ?, academic_rigor = ?, openness = ?, cultural_diversity = ?, student_life = ?,
			campus_safety = ?, research_quality = ?, accommodation = ?, language_classes = ?, accessibility = ?,
			language = ?, tuition_international = ?, tuition_local = ?, climate_type = ?,
			response_count = ?, data_sources = ?, last_updated = ?
		WHERE id = ?`, mutable...)
	if err != nil {
		return fmt.Errorf("failed to update university %d: %w", u.ID, err)
	}
	return nil
}

// rollbacker adapts a transaction to io.Closer for closeQuietly.
type rollbacker struct {
	tx interface{ Rollback() error }
}

func (r rollbacker) Close() error { return r.tx.Rollback() }
