// Package cache provides the bounded, time-to-live verdict cache shared by
// all concurrent classification calls.
package cache

import (
	"sync"
	"time"

	"github.com/doeshing/cmdgate/internal/domain"
	"github.com/doeshing/cmdgate/internal/ports"
)

const (
	// DefaultMaxEntries bounds the classifier's verdict cache.
	DefaultMaxEntries = 100
	// DefaultTTL is how long a verdict stays reusable.
	DefaultTTL = 5 * time.Minute
)

type entry struct {
	verdict   domain.Verdict
	createdAt time.Time
}

// Memory is an in-process verdict cache keyed by the exact command string.
// No normalization is applied to keys: semantically identical commands with
// different formatting miss independently.
//
// A coarse mutex guards every operation; none of them blocks, so holding the
// lock is always brief and the reasoning call never happens under it.
type Memory struct {
	mu       sync.Mutex
	entries  map[string]entry
	capacity int
	ttl      time.Duration
}

// NewMemory builds a cache with the given bounds, substituting defaults for
// non-positive values.
func NewMemory(capacity int, ttl time.Duration) *Memory {
	if capacity <= 0 {
		capacity = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		entries:  make(map[string]entry),
		capacity: capacity,
		ttl:      ttl,
	}
}

// Get returns the cached verdict for key. Entries at or past the TTL are
// treated as absent and removed (lazy expiry); validity is re-checked on
// every read, never only at write time.
func (c *Memory) Get(key string) (domain.Verdict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return domain.Verdict{}, false
	}
	if time.Since(e.createdAt) >= c.ttl {
		delete(c.entries, key)
		return domain.Verdict{}, false
	}
	return e.verdict, true
}

// Put stores a verdict under key with createdAt = now. Inserting a new key at
// capacity first evicts exactly one entry, the globally oldest by createdAt.
// Overwriting an existing key resets its age and never evicts.
func (c *Memory) Put(key string, verdict domain.Verdict) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictOldestLocked()
	}
	c.entries[key] = entry{verdict: verdict, createdAt: time.Now()}
}

// Clear removes all entries.
func (c *Memory) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// SweepExpired removes every entry at or past the TTL and reports how many
// were dropped. Get self-expires, so this is maintenance, not correctness.
func (c *Memory) SweepExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for key, e := range c.entries {
		if time.Since(e.createdAt) >= c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Stats reports entry counts and the configured bounds.
func (c *Memory) Stats() domain.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	expired := 0
	for _, e := range c.entries {
		if time.Since(e.createdAt) >= c.ttl {
			expired++
		}
	}
	return domain.CacheStats{
		Total:    len(c.entries),
		Expired:  expired,
		Active:   len(c.entries) - expired,
		Capacity: c.capacity,
		TTL:      c.ttl,
	}
}

// evictOldestLocked drops the entry with the smallest createdAt. Ties break on
// whichever is found first in iteration.
func (c *Memory) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for key, e := range c.entries {
		if first || e.createdAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = e.createdAt
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}

var _ ports.VerdictCache = (*Memory)(nil)
