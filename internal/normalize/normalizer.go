// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package normalize

import (
	"strings"

	"github.com/tomtom215/unisearch/internal/cache"
)

// maxPasses bounds the fixed-point loop in Name. Two passes always suffice
// for realistic input; the extra headroom covers pathological punctuation.
const maxPasses = 4

// Normalizer canonicalizes institution names, countries and cities.
// All methods are pure; the optional cache only memoizes results.
// A Normalizer is safe for concurrent use.
type Normalizer struct {
	memo *cache.LRU[string]
}

// New creates a Normalizer. A positive cacheSize enables an LRU memo of that
// many entries shared by Name, Country and City.
func New(cacheSize int) *Normalizer {
	n := &Normalizer{}
	if cacheSize > 0 {
		n.memo = cache.NewLRU[string](cacheSize, 0)
	}
	return n
}

// Name returns the canonical display form of an institution name.
// Name(Name(x)) == Name(x) for every x, and empty input yields "".
func (n *Normalizer) Name(raw string) string {
	return n.memoize("name:", raw, normalizeName)
}

// Key returns the lowercase matching key derived from Name.
func (n *Normalizer) Key(raw string) string {
	return strings.ToLower(n.Name(raw))
}

// Country maps aliases and ISO codes to one canonical country name.
func (n *Normalizer) Country(raw string) string {
	return n.memoize("country:", raw, normalizeCountry)
}

// City strips trailing state codes and parentheticals and title-cases the rest.
func (n *Normalizer) City(raw string) string {
	return n.memoize("city:", raw, normalizeCity)
}

// CacheStats reports memo hits, misses and size. All zero without a cache.
func (n *Normalizer) CacheStats() (hits, misses int64, size int) {
	if n == nil || n.memo == nil {
		return 0, 0, 0
	}
	return n.memo.Stats()
}

func (n *Normalizer) memoize(prefix, raw string, fn func(string) string) string {
	if n == nil || n.memo == nil {
		return fn(raw)
	}
	return n.memo.GetOrCompute(prefix+raw, func() string { return fn(raw) })
}

var defaultNormalizer = New(0)

// NormalizeName is Name on an uncached Normalizer.
func NormalizeName(raw string) string { return defaultNormalizer.Name(raw) }

// NormalizeCountry is Country on an uncached Normalizer.
func NormalizeCountry(raw string) string { return defaultNormalizer.Country(raw) }

// NormalizeCity is City on an uncached Normalizer.
func NormalizeCity(raw string) string { return defaultNormalizer.City(raw) }

func normalizeName(raw string) string {
	s := raw
	for i := 0; i < maxPasses; i++ {
		next := normalizeNameOnce(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func normalizeNameOnce(raw string) string {
	s := collapseSpace(foldAccents(raw))
	if s == "" {
		return ""
	}

	for _, rule := range expansionRules {
		s = rule.pattern.ReplaceAllLiteralString(s, rule.replacement)
	}
	s = collapseSpace(s)

	s = stripNameNoise(s)

	for leadingTheRe.MatchString(s) {
		s = leadingTheRe.ReplaceAllString(s, "")
	}

	return titleCase(s)
}

// stripNameNoise removes trailing parentheticals, dash or comma suffixes and
// trailing country codes until none remain. A step that would empty the
// name is skipped.
func stripNameNoise(s string) string {
	for {
		prev := s
		s = stripIfNonEmpty(s, func(v string) string { return trailingParenRe.ReplaceAllString(v, "") })
		s = stripIfNonEmpty(s, func(v string) string { return trailingDashRe.ReplaceAllString(v, "") })
		s = stripIfNonEmpty(s, func(v string) string { return trailingCommaRe.ReplaceAllString(v, "") })
		s = stripIfNonEmpty(s, stripTrailingCode)
		if s == prev {
			return s
		}
	}
}

func stripIfNonEmpty(s string, strip func(string) string) string {
	out := collapseSpace(strip(s))
	if out == "" {
		return s
	}
	return out
}

// stripTrailingCode drops a final "CA" or "-CA" style country code. Only
// uppercase codes count, so title-cased output is never stripped twice.
func stripTrailingCode(s string) string {
	idx := strings.LastIndexByte(s, ' ')
	if idx < 0 {
		return s
	}
	last := s[idx+1:]
	if countryCodes[strings.TrimPrefix(last, "-")] {
		return s[:idx]
	}
	if dash := strings.LastIndexByte(last, '-'); dash > 0 && countryCodes[last[dash+1:]] {
		return s[:idx+1+dash]
	}
	return s
}

func normalizeCity(raw string) string {
	s := collapseSpace(foldAccents(raw))
	for {
		prev := s
		s = collapseSpace(cityParenRe.ReplaceAllString(s, ""))
		s = collapseSpace(cityStateRe.ReplaceAllString(s, ""))
		if s == prev {
			break
		}
	}
	return titleCase(s)
}
