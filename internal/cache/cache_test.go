// SurveyShield - Survey Response Quality and Fraud Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/surveyshield

package cache

import (
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestCacheBasicOperations(t *testing.T) {
	c := New[string](time.Minute)

	c.Set("key1", "value1")
	value, ok := c.Get("key1")
	if !ok {
		t.Fatal("expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Get(key1) = %q, want value1", value)
	}

	if _, ok := c.Get("key2"); ok {
		t.Error("expected key2 to not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	clock := newFakeClock()
	c := New[int](time.Minute, WithClock(clock.Now))

	c.Set("k", 1)
	clock.Advance(59 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Error("entry should still be live before its TTL")
	}

	clock.Advance(time.Second)
	if _, ok := c.Get("k"); ok {
		t.Error("entry should expire exactly at its TTL")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after lazy expiry, want 0", c.Len())
	}
}

func TestCacheSetWithTTL(t *testing.T) {
	clock := newFakeClock()
	c := New[string](time.Hour, WithClock(clock.Now))

	c.SetWithTTL("short", "v", time.Second)
	c.Set("long", "v")

	clock.Advance(2 * time.Second)
	if _, ok := c.Get("short"); ok {
		t.Error("short-lived entry should be expired")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("default-TTL entry should still be live")
	}
}

func TestCacheExpiredGetEvicts(t *testing.T) {
	clock := newFakeClock()
	c := New[int](time.Minute, WithClock(clock.Now))

	c.Set("a", 1)
	c.Set("b", 2)
	clock.Advance(time.Minute)

	if _, ok := c.Get("a"); ok {
		t.Error("entry at exactly its TTL should be expired")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1 (only the read entry is evicted)", c.Len())
	}
	if s := c.GetStats(); s.Evictions != 1 || s.Misses != 1 {
		t.Errorf("Evictions/Misses = %d/%d, want 1/1", s.Evictions, s.Misses)
	}
}

func TestCacheStats(t *testing.T) {
	c := New[string](time.Minute)

	c.Set("key1", "value1")
	c.Get("key1") // hit
	c.Get("key2") // miss
	c.Get("key1") // hit

	stats := c.GetStats()
	if stats.Hits != 2 {
		t.Errorf("Hits = %d, want 2", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
	if stats.Keys != 1 {
		t.Errorf("Keys = %d, want 1", stats.Keys)
	}

	hitRate := stats.HitRate()
	expected := 66.66666666666667
	if hitRate < expected-0.01 || hitRate > expected+0.01 {
		t.Errorf("HitRate = %.2f, want about %.2f", hitRate, expected)
	}
}

func TestStatsHitRateEmpty(t *testing.T) {
	if rate := (Stats{}).HitRate(); rate != 0 {
		t.Errorf("HitRate() = %v, want 0", rate)
	}
}

func TestCacheConcurrency(t *testing.T) {
	c := New[int](time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set("key", id)
				c.Get("key")
				if j%10 == 0 {
					c.SetWithTTL("key", id, 0)
				}
			}
		}(i)
	}
	wg.Wait()

	stats := c.GetStats()
	if stats.Hits == 0 && stats.Misses == 0 {
		t.Error("expected some cache activity from concurrent operations")
	}
}
