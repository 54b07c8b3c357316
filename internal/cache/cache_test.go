package cache

import (
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestShardedGetOrCreate(t *testing.T) {
	c := NewSharded[string, int](StringHasher)

	calls := 0
	create := func() int {
		calls++
		return 42
	}
	if got := c.GetOrCreate("a", create); got != 42 {
		t.Errorf("GetOrCreate() = %d, want 42", got)
	}
	if got := c.GetOrCreate("a", create); got != 42 {
		t.Errorf("second GetOrCreate() = %d, want 42", got)
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}

	stats := c.Stats()
	if stats.Len != 1 || stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Stats() = %+v", stats)
	}
	if stats.HitRate != 0.5 {
		t.Errorf("HitRate = %v, want 0.5", stats.HitRate)
	}
}

func TestShardedGet(t *testing.T) {
	c := NewSharded[uint16, string](Uint16Hasher)
	if _, ok := c.Get(7); ok {
		t.Error("Get on empty cache should miss")
	}
	c.GetOrCreate(7, func() string { return "seven" })
	if v, ok := c.Get(7); !ok || v != "seven" {
		t.Errorf("Get(7) = %q, %v", v, ok)
	}
	if (Stats{}).HitRate != 0 {
		t.Error("zero stats should have zero hit rate")
	}
}

func TestShardedConcurrentCreateOnce(t *testing.T) {
	c := NewSharded[uint16, int](Uint16Hasher)

	var calls [64]atomic.Int32
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 64 {
				key := uint16((i + g) % 64)
				got := c.GetOrCreate(key, func() int {
					calls[key].Add(1)
					return int(key) * 2
				})
				if got != int(key)*2 {
					t.Errorf("GetOrCreate(%d) = %d", key, got)
				}
			}
		}()
	}
	wg.Wait()

	for i := range calls {
		if n := calls[i].Load(); n != 1 {
			t.Errorf("key %d created %d times", i, n)
		}
	}
	if c.Len() != 64 {
		t.Errorf("Len() = %d, want 64", c.Len())
	}
}

func TestShardedCreatePanics(t *testing.T) {
	c := NewSharded[string, int](StringHasher)

	started := make(chan struct{})
	release := make(chan struct{})
	panicked := make(chan bool)
	go func() {
		defer func() { panicked <- recover() != nil }()
		c.GetOrCreate("k", func() int {
			close(started)
			<-release
			panic("create failed")
		})
	}()
	<-started

	result := make(chan int)
	go func() { result <- c.GetOrCreate("k", func() int { return 7 }) }()
	close(release)
	if !<-panicked {
		t.Fatal("create panic was not propagated")
	}

	select {
	case got := <-result:
		if got != 7 {
			t.Errorf("GetOrCreate() after panic = %d, want 7", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("waiter blocked after create panicked")
	}
	if got, ok := c.Get("k"); !ok || got != 7 {
		t.Errorf("Get() = %d, %v; want 7, true", got, ok)
	}
}

func TestHashersSpreadKeys(t *testing.T) {
	used := make(map[uint64]bool)
	for i := range uint16(64) {
		used[Uint16Hasher(i)&shardMask] = true
	}
	if len(used) < ShardCount/2 {
		t.Errorf("glyph ids hit only %d shards", len(used))
	}

	used = make(map[uint64]bool)
	for i := range 64 {
		used[StringHasher(strconv.Itoa(i))&shardMask] = true
	}
	if len(used) < ShardCount/2 {
		t.Errorf("strings hit only %d shards", len(used))
	}
}

func BenchmarkShardedHit(b *testing.B) {
	c := NewSharded[uint16, int](Uint16Hasher)
	c.GetOrCreate(1, func() int { return 1 })
	b.ResetTimer()
	for b.Loop() {
		c.GetOrCreate(1, func() int { return 1 })
	}
}
