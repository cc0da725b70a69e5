// Prefsim - Memory-Based Collaborative Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/prefsim

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests advance time without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestLRU[K comparable, V any](capacity int, ttl time.Duration) (*LRU[K, V], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRU[K, V](capacity, ttl)
	c.now = clock.Now
	return c, clock
}

func TestLRU_BasicOperations(t *testing.T) {
	cache := NewLRU[string, int](3, time.Minute)

	cache.Add("a", 1)
	cache.Add("b", 2)
	cache.Add("c", 3)

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		got, found := cache.Get(key)
		if !found {
			t.Errorf("Expected to find key %q", key)
			continue
		}
		if got != want {
			t.Errorf("Get(%q) = %d, want %d", key, got, want)
		}
	}

	if cache.Len() != 3 {
		t.Errorf("Expected len 3, got %d", cache.Len())
	}
}

func TestLRU_Defaults(t *testing.T) {
	cache := NewLRU[string, int](0, 0)
	if cache.capacity != DefaultCapacity {
		t.Errorf("capacity = %d, want %d", cache.capacity, DefaultCapacity)
	}
	if cache.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", cache.ttl, DefaultTTL)
	}
}

func TestLRU_Eviction(t *testing.T) {
	cache := NewLRU[string, int](3, time.Minute)

	cache.Add("a", 1)
	cache.Add("b", 2)
	cache.Add("c", 3)

	// Access 'a' to make it most recently used
	cache.Get("a")

	// 'b' is now least recently used
	cache.Add("d", 4)

	if _, found := cache.Get("b"); found {
		t.Error("Expected 'b' to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, found := cache.Get(key); !found {
			t.Errorf("Expected %q to be present", key)
		}
	}
}

func TestLRU_TTLExpiration(t *testing.T) {
	cache, clock := newTestLRU[string, int](10, time.Minute)

	cache.Add("a", 1)

	if _, found := cache.Get("a"); !found {
		t.Error("Expected to find key 'a' immediately")
	}

	clock.Advance(time.Minute + time.Second)

	if _, found := cache.Get("a"); found {
		t.Error("Expected key 'a' to be expired")
	}
	if cache.Len() != 0 {
		t.Errorf("Expected expired entry to be removed on Get, len = %d", cache.Len())
	}
}

func TestLRU_AddResetsTTL(t *testing.T) {
	cache, clock := newTestLRU[string, int](10, time.Minute)

	cache.Add("a", 1)
	clock.Advance(45 * time.Second)
	cache.Add("a", 2)
	clock.Advance(45 * time.Second)

	got, found := cache.Get("a")
	if !found || got != 2 {
		t.Errorf("Get(a) = (%d, %v), want (2, true)", got, found)
	}
}

func TestLRU_Remove(t *testing.T) {
	cache := NewLRU[string, int](10, time.Minute)

	cache.Add("a", 1)
	cache.Add("b", 2)

	if !cache.Remove("a") {
		t.Error("Expected Remove to return true for existing key")
	}
	if cache.Remove("a") {
		t.Error("Expected Remove to return false for non-existing key")
	}
	if _, found := cache.Get("a"); found {
		t.Error("Expected key 'a' to be removed")
	}
	if _, found := cache.Get("b"); !found {
		t.Error("Expected key 'b' to still be present")
	}
}

func TestLRU_Purge(t *testing.T) {
	cache := NewLRU[string, int](10, time.Minute)

	cache.Add("a", 1)
	cache.Add("b", 2)
	cache.Get("a")

	cache.Purge()

	if cache.Len() != 0 {
		t.Errorf("Expected empty cache after Purge, got len %d", cache.Len())
	}
	if _, found := cache.Get("a"); found {
		t.Error("Expected no items after Purge")
	}

	hits, _, _ := cache.Stats()
	if hits != 1 {
		t.Errorf("Purge reset hits to %d, want 1", hits)
	}

	// Cache keeps working after purge
	cache.Add("c", 3)
	if _, found := cache.Get("c"); !found {
		t.Error("Expected 'c' after Purge")
	}
}

func TestLRU_CleanupExpired(t *testing.T) {
	cache, clock := newTestLRU[string, int](10, time.Minute)

	cache.Add("a", 1)
	cache.Add("b", 2)
	cache.Add("c", 3)

	clock.Advance(2 * time.Minute)
	cache.Add("d", 4)

	if removed := cache.CleanupExpired(); removed != 3 {
		t.Errorf("Expected 3 expired items removed, got %d", removed)
	}
	if cache.Len() != 1 {
		t.Errorf("Expected 1 item remaining, got %d", cache.Len())
	}
	if _, found := cache.Get("d"); !found {
		t.Error("Expected 'd' to still be present")
	}
}

func TestLRU_Stats(t *testing.T) {
	cache := NewLRU[string, int](10, time.Minute)

	cache.Add("a", 1)
	cache.Get("a")        // hit
	cache.Get("a")        // hit
	cache.Get("nonexist") // miss

	hits, misses, size := cache.Stats()
	if hits != 2 {
		t.Errorf("Expected 2 hits, got %d", hits)
	}
	if misses != 1 {
		t.Errorf("Expected 1 miss, got %d", misses)
	}
	if size != 1 {
		t.Errorf("Expected size 1, got %d", size)
	}
}

func TestLRU_StructKeys(t *testing.T) {
	type key struct {
		op     string
		entity int
	}
	cache := NewLRU[key, []string](4, time.Minute)

	cache.Add(key{"top", 1}, []string{"x"})
	if _, found := cache.Get(key{"top", 2}); found {
		t.Error("Expected different struct key to miss")
	}
	if got, found := cache.Get(key{"top", 1}); !found || len(got) != 1 {
		t.Errorf("Get(top,1) = (%v, %v)", got, found)
	}
}

func TestLRU_Concurrent(t *testing.T) {
	cache := NewLRU[string, int](64, time.Minute)

	var wg sync.WaitGroup
	numGoroutines := 50
	numOperations := 100

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOperations; j++ {
				key := fmt.Sprintf("k%d", (id+j)%100)
				cache.Add(key, j)
				cache.Get(key)
				if j%10 == 0 {
					cache.Remove(key)
				}
			}
		}(i)
	}

	wg.Wait()

	if cache.Len() > 64 {
		t.Errorf("Len() = %d exceeds capacity 64", cache.Len())
	}

	cache.Add("test", 1)
	if _, found := cache.Get("test"); !found {
		t.Error("Cache should still work after concurrent access")
	}
}

func BenchmarkLRU_Add(b *testing.B) {
	cache := NewLRU[int, int](10000, time.Minute)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Add(i%20000, i)
	}
}

func BenchmarkLRU_Get(b *testing.B) {
	cache := NewLRU[int, int](10000, time.Minute)
	for i := 0; i < 1000; i++ {
		cache.Add(i, i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Get(i % 1000)
	}
}
