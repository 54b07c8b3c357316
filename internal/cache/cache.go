package cache

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
)

// ShardCount is the number of shards. Must be a power of 2.
const ShardCount = 16

const shardMask = ShardCount - 1

// Hasher computes the hash used to select a shard.
type Hasher[K any] func(K) uint64

// StringHasher computes the FNV-1a hash of s.
func StringHasher(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // fnv.Write never returns an error
	return h.Sum64()
}

// Uint16Hasher spreads small integer keys such as glyph ids over the shards.
func Uint16Hasher(v uint16) uint64 {
	return uint64(v) * 0x9E3779B97F4A7C15
}

// Sharded is a concurrent memo table.
//
// Sharded must not be copied after creation.
type Sharded[K comparable, V any] struct {
	shards [ShardCount]shard[K, V]
	hasher Hasher[K]

	hits   atomic.Uint64
	misses atomic.Uint64
}

type shard[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*entry[V]
}

// entry is filled at most once. Readers wait for ready before using value;
// ok is false when create panicked.
type entry[V any] struct {
	ready chan struct{}
	value V
	ok    bool
}

// NewSharded creates an empty cache using hasher for shard selection.
func NewSharded[K comparable, V any](hasher Hasher[K]) *Sharded[K, V] {
	c := &Sharded[K, V]{hasher: hasher}
	for i := range c.shards {
		c.shards[i].entries = make(map[K]*entry[V])
	}
	return c
}

func (c *Sharded[K, V]) shardOf(key K) *shard[K, V] {
	return &c.shards[c.hasher(key)&shardMask]
}

// GetOrCreate returns the value for key, calling create if there is none.
// create runs without any lock held and at most once per key; concurrent
// callers for the same key block until it returns. If create panics, the
// key is left absent and waiting callers try again.
func (c *Sharded[K, V]) GetOrCreate(key K, create func() V) V {
	s := c.shardOf(key)

	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		e = &entry[V]{ready: make(chan struct{})}
		s.entries[key] = e
	}
	s.mu.Unlock()

	if ok {
		c.hits.Add(1)
		<-e.ready
		if e.ok {
			return e.value
		}
		return c.GetOrCreate(key, create)
	}

	c.misses.Add(1)
	defer func() {
		if !e.ok {
			s.mu.Lock()
			if s.entries[key] == e {
				delete(s.entries, key)
			}
			s.mu.Unlock()
		}
		close(e.ready)
	}()
	e.value = create()
	e.ok = true
	return e.value
}

// Get returns the value for key if it has been created.
// A value still being created by another goroutine is waited for.
func (c *Sharded[K, V]) Get(key K) (V, bool) {
	s := c.shardOf(key)

	s.mu.Lock()
	e, ok := s.entries[key]
	s.mu.Unlock()

	if !ok {
		var zero V
		return zero, false
	}
	<-e.ready
	return e.value, e.ok
}

// Len returns the number of keys in the cache.
func (c *Sharded[K, V]) Len() int {
	total := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		total += len(s.entries)
		s.mu.Unlock()
	}
	return total
}

// Stats returns hit and miss counters.
func (c *Sharded[K, V]) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return Stats{Len: c.Len(), Hits: hits, Misses: misses, HitRate: rate}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Hits counts lookups that found an existing entry.
	Hits uint64
	// Misses counts lookups that created an entry.
	Misses uint64
	// HitRate is Hits / (Hits + Misses), or 0 before any lookup.
	HitRate float64
}
