// Package cache provides a concurrency-safe memo table for expensive pure
// functions.
package cache

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"sync"
	"sync/atomic"
)

// ShardCount is the number of shards for reduced lock contention.
// Must be a power of 2 for fast modulo via bitwise AND.
const ShardCount = 16

const shardMask = ShardCount - 1

// Hasher is a function that computes a hash for a key.
// Used by Memo for shard selection.
type Hasher[K any] func(K) uint64

// StringHasher computes FNV-1a hash of a string key.
func StringHasher(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // fnv.Write never returns an error
	return h.Sum64()
}

// Float64sHasher computes FNV-1a over the IEEE-754 bits of the values.
// Distinct bit patterns hash independently, so 0.1 and 0.1000000001 never
// share an entry by accident.
func Float64sHasher(vals ...float64) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, v := range vals {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// Memo is a thread-safe, sharded memo table. Entries are never evicted: it
// is meant for functions whose input domain, as used by a caller, is finite.
//
// GetOrCreate computes each missing key at most once; concurrent callers of
// the same key wait on the shard lock and receive the stored value.
type Memo[K comparable, V any] struct {
	shards [ShardCount]*memoShard[K, V]
	hasher Hasher[K]

	hits   atomic.Uint64
	misses atomic.Uint64
}

type memoShard[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// NewMemo creates an empty memo table using hasher for shard selection.
func NewMemo[K comparable, V any](hasher Hasher[K]) *Memo[K, V] {
	m := &Memo[K, V]{hasher: hasher}
	for i := range m.shards {
		m.shards[i] = &memoShard[K, V]{entries: make(map[K]V)}
	}
	return m
}

func (m *Memo[K, V]) shard(key K) *memoShard[K, V] {
	return m.shards[m.hasher(key)&shardMask]
}

// Get retrieves a stored value by key.
// Returns (value, true) if found, (zero, false) otherwise.
func (m *Memo[K, V]) Get(key K) (V, bool) {
	s := m.shard(key)
	s.mu.RLock()
	v, ok := s.entries[key]
	s.mu.RUnlock()

	if ok {
		m.hits.Add(1)
	} else {
		m.misses.Add(1)
	}
	return v, ok
}

// Contains reports whether key has an entry without touching statistics.
func (m *Memo[K, V]) Contains(key K) bool {
	s := m.shard(key)
	s.mu.RLock()
	_, ok := s.entries[key]
	s.mu.RUnlock()
	return ok
}

// GetOrCreate returns the stored value for key or computes it with create.
//
// The create function is called with the shard lock held, so two goroutines
// resolving the same key never both run it. Keep create free of calls back
// into the same Memo.
func (m *Memo[K, V]) GetOrCreate(key K, create func() V) V {
	s := m.shard(key)

	// Fast path: read lock
	s.mu.RLock()
	v, ok := s.entries[key]
	s.mu.RUnlock()
	if ok {
		m.hits.Add(1)
		return v
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check after acquiring write lock
	if v, ok := s.entries[key]; ok {
		m.hits.Add(1)
		return v
	}

	m.misses.Add(1)
	v = create()
	s.entries[key] = v
	return v
}

// Clear removes all entries.
func (m *Memo[K, V]) Clear() {
	for _, s := range m.shards {
		s.mu.Lock()
		s.entries = make(map[K]V)
		s.mu.Unlock()
	}
}

// Len returns the total number of entries across all shards.
func (m *Memo[K, V]) Len() int {
	total := 0
	for _, s := range m.shards {
		s.mu.RLock()
		total += len(s.entries)
		s.mu.RUnlock()
	}
	return total
}

// Stats holds memo statistics.
type Stats struct {
	Len     int
	Hits    uint64
	Misses  uint64
	HitRate float64
}

// Stats returns current statistics.
func (m *Memo[K, V]) Stats() Stats {
	hits := m.hits.Load()
	misses := m.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Len:     m.Len(),
		Hits:    hits,
		Misses:  misses,
		HitRate: hitRate,
	}
}
