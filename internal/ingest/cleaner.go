// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package ingest

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tomtom215/unisearch/internal/logging"
	"github.com/tomtom215/unisearch/internal/metrics"
	"github.com/tomtom215/unisearch/internal/models"
	"github.com/tomtom215/unisearch/internal/normalize"
	"github.com/tomtom215/unisearch/internal/parse"
	"github.com/tomtom215/unisearch/internal/resolve"
)

// Drop reasons reported in SourceStats.Reasons.
const (
	DropMissingName    = "missing_name"
	DropMissingCountry = "missing_country"
	DropInvalidName    = "invalid_name"
	DropInvalidRank    = "invalid_rank"
	DropInvalidRecord  = "invalid_record"
)

// minNameLength is the shortest name accepted, in characters.
const minNameLength = 3

var digitsOnlyRe = regexp.MustCompile(`^\d+$`)

// Cleaner turns raw ranking rows into validated, de-duplicated records.
type Cleaner struct {
	normalizer *normalize.Normalizer
	resolver   *resolve.Resolver
}

// NewCleaner creates a Cleaner. A nil resolver uses resolve defaults.
func NewCleaner(normalizer *normalize.Normalizer, resolver *resolve.Resolver) *Cleaner {
	if normalizer == nil {
		normalizer = normalize.New(0)
	}
	if resolver == nil {
		resolver = resolve.New(resolve.WithNormalizer(normalizer))
	}
	return &Cleaner{normalizer: normalizer, resolver: resolver}
}

// Clean normalizes and parses every row, drops invalid ones, then merges
// duplicates within the same country. Only a *models.StructuralError from
// the resolver or ctx cancellation fail the call.
func (c *Cleaner) Clean(ctx context.Context, source string, rows []models.RawRecord) ([]models.UniversityRecord, *SourceStats, error) {
	stats := &SourceStats{Read: len(rows), Reasons: make(map[string]int)}

	valid := make([]models.UniversityRecord, 0, len(rows))
	for i, raw := range rows {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}
		rec := c.ToRecord(raw, source)
		if reason := dropReason(raw, &rec); reason != "" {
			stats.Invalid++
			stats.Reasons[reason]++
			continue
		}
		valid = append(valid, rec)
	}

	resolved, err := c.resolver.Resolve(valid)
	if err != nil {
		return nil, stats, fmt.Errorf("resolve %s duplicates: %w", source, err)
	}
	stats.Duplicates = len(valid) - len(resolved)
	stats.Kept = len(resolved)

	metrics.RecordIngest(source, stats.Read, stats.Duplicates, stats.Invalid)
	metrics.DuplicatesMerged.Add(float64(stats.Duplicates))

	logging.Ctx(ctx).Info().
		Str("source", source).
		Int("read", stats.Read).
		Int("invalid", stats.Invalid).
		Int("duplicates", stats.Duplicates).
		Int("kept", stats.Kept).
		Msg("Source cleaned")

	return resolved, stats, nil
}

// ToRecord converts one raw row into a record tagged with source. Name,
// country and city are normalized; ranks and scores go through the parsers
// and the survey metrics are clamped to the 0-10 scale.
func (c *Cleaner) ToRecord(raw models.RawRecord, source string) models.UniversityRecord {
	name := c.normalizer.Name(raw.String(FieldName))
	rec := models.UniversityRecord{
		Name:          name,
		CanonicalName: name,
		City:          c.normalizer.City(raw.String(FieldCity)),
		Country:       c.normalizer.Country(raw.String(FieldCountry)),
		WebsiteURL:    strings.TrimSpace(raw.String(FieldWebsiteURL)),

		QSRank:     parse.ParseRank(raw[FieldQSRank]),
		THERank:    parse.ParseRank(raw[FieldTHERank]),
		ARWURank:   parse.ParseRank(raw[FieldARWURank]),
		USNewsRank: parse.ParseRank(raw[FieldUSNewsRank]),
		QSScore:    parse.ParseScore(raw[FieldQSScore]),
		THEScore:   parse.ParseScore(raw[FieldTHEScore]),

		OverallQuality:    parse.ParseScore(raw[FieldOverallQuality]),
		AcademicRigor:     parse.ClampMetric(parse.ParseScore(raw[FieldAcademicRigor])),
		Openness:          parse.ParseScore(raw[FieldOpenness]),
		CulturalDiversity: parse.ClampMetric(parse.ParseScore(raw[FieldCulturalDiversity])),
		StudentLife:       parse.ClampMetric(parse.ParseScore(raw[FieldStudentLife])),
		CampusSafety:      parse.ClampMetric(parse.ParseScore(raw[FieldCampusSafety])),
		ResearchQuality:   parse.ParseScore(raw[FieldResearchQuality]),

		Accommodation:   models.ParseFacilityFlag(raw.String(FieldAccommodation)),
		LanguageClasses: models.ParseFacilityFlag(raw.String(FieldLanguageClasses)),
		Accessibility:   models.ParseFacilityFlag(raw.String(FieldAccessibility)),
		Language:        strings.TrimSpace(raw.String(FieldLanguage)),

		TuitionInternational: parse.ParseAmount(raw[FieldTuitionIntl]),
		TuitionLocal:         parse.ParseAmount(raw[FieldTuitionLocal]),
		ClimateType:          strings.TrimSpace(raw.String(FieldClimateType)),

		ResponseCount: responseCount(raw[FieldResponseCount]),
		LastUpdated:   time.Now().UTC(),
	}
	// Language classes are yes/no only
	if rec.LanguageClasses == models.FacilityPartial {
		rec.LanguageClasses = models.FacilityYes
	}
	rec.AddSource(source)
	return rec
}

// dropReason returns why a record must be dropped, or "".
func dropReason(raw models.RawRecord, rec *models.UniversityRecord) string {
	switch {
	case rec.Name == "":
		return DropMissingName
	case rec.Country == "":
		return DropMissingCountry
	case utf8.RuneCountInString(rec.Name) < minNameLength || digitsOnlyRe.MatchString(rec.Name):
		return DropInvalidName
	}
	for _, f := range []string{FieldQSRank, FieldTHERank, FieldARWURank, FieldUSNewsRank} {
		if nonPositiveRank(raw[f]) {
			return DropInvalidRank
		}
	}
	if err := rec.Validate(); err != nil {
		return DropInvalidRecord
	}
	return ""
}

// nonPositiveRank reports a rank value that is explicitly zero or negative.
// Missing and unparseable values are not invalid; they parse to nil.
func nonPositiveRank(v any) bool {
	switch x := v.(type) {
	case int:
		return x <= 0
	case int64:
		return x <= 0
	case float64:
		return x <= 0
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return err == nil && n <= 0
	default:
		return false
	}
}

func responseCount(v any) int {
	switch x := v.(type) {
	case int:
		return max(x, 0)
	case int64:
		return max(int(x), 0)
	case float64:
		return max(int(x), 0)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0
		}
		return max(n, 0)
	default:
		return 0
	}
}

// feedbackMetrics are averaged when survey responses are aggregated.
var feedbackMetrics = []func(*models.UniversityRecord) **float64{
	func(u *models.UniversityRecord) **float64 { return &u.OverallQuality },
	func(u *models.UniversityRecord) **float64 { return &u.AcademicRigor },
	func(u *models.UniversityRecord) **float64 { return &u.Openness },
	func(u *models.UniversityRecord) **float64 { return &u.CulturalDiversity },
	func(u *models.UniversityRecord) **float64 { return &u.StudentLife },
	func(u *models.UniversityRecord) **float64 { return &u.CampusSafety },
}

// AggregateFeedback folds survey responses into one record per canonical
// name, in order of first appearance. Metrics are the mean of the non-null
// responses rounded to two decimals; categorical fields take the first
// non-empty response; ResponseCount is the number of responses. Responses
// without a usable name are counted as invalid. Country is optional here:
// the integrator anchors feedback to a ranking record.
func (c *Cleaner) AggregateFeedback(ctx context.Context, rows []models.RawRecord) ([]models.UniversityRecord, *SourceStats) {
	stats := &SourceStats{Read: len(rows), Reasons: make(map[string]int)}

	type group struct {
		rec   models.UniversityRecord
		sums  []float64
		count []int
		n     int
	}
	index := make(map[string]int)
	var groups []*group

	for _, raw := range rows {
		rec := c.ToRecord(raw, models.SourceFeedback)
		if rec.Name == "" {
			stats.Invalid++
			stats.Reasons[DropMissingName]++
			continue
		}
		if !validFeedback(rec) {
			stats.Invalid++
			stats.Reasons[DropInvalidRecord]++
			continue
		}

		key := strings.ToLower(rec.CanonicalName)
		gi, ok := index[key]
		if !ok {
			gi = len(groups)
			index[key] = gi
			groups = append(groups, &group{
				rec:   rec,
				sums:  make([]float64, len(feedbackMetrics)),
				count: make([]int, len(feedbackMetrics)),
			})
		}
		g := groups[gi]
		g.n++
		for i, field := range feedbackMetrics {
			if v := *field(&rec); v != nil {
				g.sums[i] += *v
				g.count[i]++
			}
		}
		if ok {
			fillFirst(&g.rec, &rec)
		}
	}

	out := make([]models.UniversityRecord, 0, len(groups))
	for _, g := range groups {
		for i, field := range feedbackMetrics {
			if g.count[i] == 0 {
				*field(&g.rec) = nil
				continue
			}
			mean := parse.RoundTo(g.sums[i]/float64(g.count[i]), 2)
			*field(&g.rec) = &mean
		}
		g.rec.ResponseCount = g.n
		out = append(out, g.rec)
	}
	stats.Duplicates = stats.Read - stats.Invalid - len(out)
	stats.Kept = len(out)

	metrics.RecordIngest(models.SourceFeedback, stats.Read, stats.Duplicates, stats.Invalid)
	logging.Ctx(ctx).Info().
		Int("responses", stats.Read).
		Int("invalid", stats.Invalid).
		Int("universities", stats.Kept).
		Msg("Feedback aggregated")

	return out, stats
}

// validFeedback validates a response whose country may still be unknown.
func validFeedback(rec models.UniversityRecord) bool {
	if rec.Country == "" {
		rec.Country = "-"
	}
	return rec.Validate() == nil
}

// fillFirst copies categorical values from rec into agg where agg has none.
func fillFirst(agg, rec *models.UniversityRecord) {
	if agg.City == "" {
		agg.City = rec.City
	}
	if agg.Country == "" {
		agg.Country = rec.Country
	}
	if agg.Accommodation == "" {
		agg.Accommodation = rec.Accommodation
	}
	if agg.Language == "" {
		agg.Language = rec.Language
	}
	if agg.LanguageClasses == "" {
		agg.LanguageClasses = rec.LanguageClasses
	}
	if agg.Accessibility == "" {
		agg.Accessibility = rec.Accessibility
	}
}
