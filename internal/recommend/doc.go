// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

// Package recommend scores universities against a user profile and selects
// the best matches.
//
// # Scoring
//
// Score is a pure function. Each criterion carries a fixed share of the
// achievable score, scaled by the user's importance (1-5) divided by 5:
//
//	academic rigor 25   research quality 15   cultural diversity 15
//	student life   15   campus safety    10   cost fit           10
//	ranking         5   location          5   language            5
//	climate         5   accommodation     5
//
// A criterion enters both the numerator and the denominator only when its
// data is present (numeric metrics, tuition with a budget, a QS rank) or when
// the profile states the preference (location, language, climate,
// accommodation). Numerator and denominator are therefore tracked separately
// and the result is 100*num/den, capped at 100, or 0 when nothing applied.
// Weights are never pre-normalized.
//
// # Engine
//
// Engine applies the hard constraints of a profile (budget with a 20%
// tolerance, preferred countries, worst acceptable rank, accommodation),
// scores the remaining records concurrently, drops weak matches (score at or
// below MinScore) and returns the top K by score. It also answers the
// "similar universities" and "trending destinations" queries.
//
// # Thread Safety
//
// Score and the filter helpers are pure. Engine is safe for concurrent use.
package recommend
