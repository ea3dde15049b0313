// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

/*
Package cache provides the two in-memory caches UniSearch uses.

LRU is a bounded, generic least-recently-used cache with optional TTL. The
normalizer memoizes canonical names in one, since the same institution
names recur across every source of a sync.

Cache is an unbounded TTL map for API responses (filter lists, platform
stats, the full record snapshot the recommendation endpoints score). The
API handler clears it after each completed sync.

	c := cache.New(5 * time.Minute)
	defer c.Close()

	key := cache.GenerateKey("countries", nil)
	if v, ok := c.Get(key); ok {
	    return v.([]string), nil
	}

Both are safe for concurrent use.
*/
package cache
