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

var numberRe = regexp.MustCompile(`\d+\.?\d*`)

// Metric bounds for the 0-10 scale.
const (
	MetricMin = 0.0
	MetricMax = 10.0
)

// ParseScore returns the numeric score carried by v, or nil.
// A string containing "%" is read as a percentage and divided by 10.
func ParseScore(v any) *float64 {
	switch x := v.(type) {
	case nil:
		return nil
	case int:
		return finite(float64(x))
	case int32:
		return finite(float64(x))
	case int64:
		return finite(float64(x))
	case float32:
		return finite(float64(x))
	case float64:
		return finite(x)
	case string:
		return parseScoreString(x)
	default:
		return nil
	}
}

func parseScoreString(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if nullTokens[strings.ToLower(s)] {
		return nil
	}
	match := numberRe.FindString(s)
	if match == "" {
		return nil
	}
	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	if strings.Contains(s, "%") {
		f /= 10
	}
	return finite(f)
}

// ParseAmount reads a monetary amount such as "$45,000" or "USD 32000".
// Thousands separators are dropped before parsing.
func ParseAmount(v any) *float64 {
	if s, ok := v.(string); ok {
		s = strings.ReplaceAll(s, ",", "")
		return parseScoreString(s)
	}
	return ParseScore(v)
}

// ClampMetric bounds a 0-10 metric. Nil stays nil.
func ClampMetric(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := math.Max(MetricMin, math.Min(MetricMax, *p))
	return &v
}

// RoundTo rounds f to the given number of decimal places.
func RoundTo(f float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(f*pow) / pow
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
