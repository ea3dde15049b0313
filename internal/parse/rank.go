// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package parse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var digitsRe = regexp.MustCompile(`\d+`)

// nullTokens are textual encodings of "no value" in ranking tables.
var nullTokens = map[string]bool{
	"":           true,
	"-":          true,
	"--":         true,
	"–":          true,
	"—":          true,
	"n/a":        true,
	"na":         true,
	"nr":         true,
	"none":       true,
	"null":       true,
	"nan":        true,
	"unranked":   true,
	"not ranked": true,
	"not listed": true,
}

// ParseRank returns a positive rank, or nil when v carries none.
func ParseRank(v any) *int {
	switch x := v.(type) {
	case nil:
		return nil
	case int:
		return positiveInt(int64(x))
	case int32:
		return positiveInt(int64(x))
	case int64:
		return positiveInt(x)
	case float32:
		return rankFromFloat(float64(x))
	case float64:
		return rankFromFloat(x)
	case string:
		return parseRankString(x)
	default:
		return nil
	}
}

func parseRankString(raw string) *int {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	if nullTokens[lower] || strings.Contains(lower, "not ranked") || strings.Contains(lower, "unranked") {
		return nil
	}

	s = strings.TrimLeft(s, "=#+ ")
	s = strings.ReplaceAll(s, ",", "")

	// Range: keep the lower bound
	if idx := strings.IndexAny(s, "-–—"); idx > 0 {
		s = s[:idx]
	}
	// Open-ended "501+"
	if idx := strings.IndexByte(s, '+'); idx >= 0 {
		s = s[:idx]
	}

	digits := digitsRe.FindString(s)
	if digits == "" {
		return nil
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil
	}
	return positiveInt(n)
}

func rankFromFloat(f float64) *int {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt32 {
		return nil
	}
	return positiveInt(int64(f))
}

func positiveInt(n int64) *int {
	if n <= 0 || n > math.MaxInt32 {
		return nil
	}
	v := int(n)
	return &v
}
