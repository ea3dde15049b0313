// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package cache

import (
	"strconv"
	"sync"
	"testing"
	"time"
)

func TestLRU_BasicOperations(t *testing.T) {
	c := NewLRU[string](3, 0)

	c.Add("a", "A")
	c.Add("b", "B")
	c.Add("c", "C")

	for key, want := range map[string]string{"a": "A", "b": "B", "c": "C"} {
		got, found := c.Get(key)
		if !found {
			t.Errorf("Expected to find key %q", key)
		}
		if got != want {
			t.Errorf("Get(%q) = %q, want %q", key, got, want)
		}
	}

	if c.Len() != 3 {
		t.Errorf("Expected len 3, got %d", c.Len())
	}
}

func TestLRU_Eviction(t *testing.T) {
	c := NewLRU[int](3, 0)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	// 'a' becomes most recently used, 'b' is now the eviction candidate
	c.Get("a")
	c.Add("d", 4)

	if _, found := c.Get("b"); found {
		t.Error("Expected 'b' to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, found := c.Get(key); !found {
			t.Errorf("Expected %q to be present", key)
		}
	}
}

func TestLRU_UpdateExisting(t *testing.T) {
	c := NewLRU[string](2, 0)
	c.Add("k", "old")
	c.Add("k", "new")

	if got, _ := c.Get("k"); got != "new" {
		t.Errorf("Get(k) = %q, want new", got)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestLRU_TTLExpiry(t *testing.T) {
	c := NewLRU[string](10, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Add("k", "v")
	if _, found := c.Get("k"); !found {
		t.Fatal("Expected fresh entry to be found")
	}

	now = now.Add(2 * time.Minute)
	if _, found := c.Get("k"); found {
		t.Error("Expected entry to expire after TTL")
	}
	if c.Len() != 0 {
		t.Errorf("Expired entry should be removed, len = %d", c.Len())
	}
}

func TestLRU_NoTTLNeverExpires(t *testing.T) {
	c := NewLRU[string](10, 0)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Add("k", "v")
	now = now.Add(1000 * time.Hour)
	if _, found := c.Get("k"); !found {
		t.Error("Entry without TTL should never expire")
	}
}

func TestLRU_GetOrCompute(t *testing.T) {
	c := NewLRU[string](10, 0)
	calls := 0
	compute := func() string {
		calls++
		return "computed"
	}

	if got := c.GetOrCompute("k", compute); got != "computed" {
		t.Errorf("GetOrCompute = %q, want computed", got)
	}
	if got := c.GetOrCompute("k", compute); got != "computed" {
		t.Errorf("GetOrCompute = %q, want computed", got)
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}

	hits, misses, size := c.Stats()
	if hits != 1 || misses != 1 || size != 1 {
		t.Errorf("Stats() = (%d, %d, %d), want (1, 1, 1)", hits, misses, size)
	}
}

func TestLRU_RemoveAndClear(t *testing.T) {
	c := NewLRU[int](5, 0)
	c.Add("a", 1)
	c.Add("b", 2)

	if !c.Remove("a") {
		t.Error("Remove(a) should report true")
	}
	if c.Remove("a") {
		t.Error("Second Remove(a) should report false")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", c.Len())
	}
	c.Add("c", 3)
	if _, found := c.Get("c"); !found {
		t.Error("Cache should be usable after Clear")
	}
}

func TestLRU_ConcurrentAccess(t *testing.T) {
	c := NewLRU[int](100, 0)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := strconv.Itoa((g * 500) + i)
				c.Add(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 100 {
		t.Errorf("Len() = %d exceeds capacity 100", c.Len())
	}
}
