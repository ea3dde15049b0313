// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

/*
Package parse converts the inconsistent numeric encodings found in ranking
tables and survey exports into typed optional values.

Every function is total: any input, including nil, non-string types and
malformed text, yields either a value in the documented range or nil.
Unparseable data is information loss, not failure, so nothing here returns
an error.

Rank encodings:

	"15", "=15", "#15"   -> 15
	"51-100", "51–100"   -> 51   (lower bound of a range)
	"501+", "1,201+"     -> 501, 1201
	"Not ranked", "N/A"  -> nil

Score encodings:

	"7.3"                -> 7.3
	"85%"                -> 8.5  (percentage projected onto 0-10)
	"score: 64.2 pts"    -> 64.2 (first numeric substring)

ClampMetric is applied only to the designated 0-10 metrics; raw ranking
table scores of unknown scale are never clamped.
*/
package parse
