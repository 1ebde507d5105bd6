// Package output buffers full command output so the agent can page through
// long results later without re-running the command. Same TTL/eviction
// mechanism as the verdict cache, different bounds and keys; no safety logic.
package output

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/cmdgate/internal/domain"
	"github.com/doeshing/cmdgate/internal/ports"
)

const (
	// DefaultMaxEntries bounds the output store.
	DefaultMaxEntries = 50
	// DefaultTTL is how long buffered output stays retrievable.
	DefaultTTL = 30 * time.Minute
	// DefaultLineCount is returned by LastLines when the caller asks for
	// a non-positive count.
	DefaultLineCount = 100
)

// Store is an in-process, id-keyed output buffer.
type Store struct {
	mu       sync.Mutex
	records  map[string]domain.OutputRecord
	capacity int
	ttl      time.Duration
}

// NewStore builds an output store, substituting defaults for non-positive
// bounds.
func NewStore(capacity int, ttl time.Duration) *Store {
	if capacity <= 0 {
		capacity = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		records:  make(map[string]domain.OutputRecord),
		capacity: capacity,
		ttl:      ttl,
	}
}

// Store buffers output and returns the generated record id.
func (s *Store) Store(command, output, connectionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) >= s.capacity {
		s.evictOldestLocked()
	}
	id := uuid.NewString()
	s.records[id] = domain.OutputRecord{
		ID:           id,
		Command:      command,
		FullOutput:   output,
		ConnectionID: connectionID,
		CreatedAt:    time.Now(),
	}
	return id
}

// Get returns the record for id, expiring it lazily like the verdict cache.
func (s *Store) Get(id string) (domain.OutputRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return domain.OutputRecord{}, false
	}
	if time.Since(rec.CreatedAt) >= s.ttl {
		delete(s.records, id)
		return domain.OutputRecord{}, false
	}
	return rec, true
}

// LastLines returns the trailing count lines of the buffered output.
func (s *Store) LastLines(id string, count int) (string, bool) {
	rec, ok := s.Get(id)
	if !ok {
		return "", false
	}
	if count <= 0 {
		count = DefaultLineCount
	}
	lines := strings.Split(rec.FullOutput, "\n")
	if len(lines) > count {
		lines = lines[len(lines)-count:]
	}
	return strings.Join(lines, "\n"), true
}

// Full returns the complete buffered output.
func (s *Store) Full(id string) (string, bool) {
	rec, ok := s.Get(id)
	if !ok {
		return "", false
	}
	return rec.FullOutput, true
}

// Remove deletes a record, reporting whether it existed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[id]
	delete(s.records, id)
	return ok
}

// CleanupExpired removes every record at or past the TTL.
func (s *Store) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, rec := range s.records {
		if time.Since(rec.CreatedAt) >= s.ttl {
			delete(s.records, id)
			removed++
		}
	}
	return removed
}

// Clear removes all records.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]domain.OutputRecord)
}

// Stats reports record counts and the configured bounds.
func (s *Store) Stats() domain.CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	expired := 0
	for _, rec := range s.records {
		if time.Since(rec.CreatedAt) >= s.ttl {
			expired++
		}
	}
	return domain.CacheStats{
		Total:    len(s.records),
		Expired:  expired,
		Active:   len(s.records) - expired,
		Capacity: s.capacity,
		TTL:      s.ttl,
	}
}

func (s *Store) evictOldestLocked() {
	var oldestID string
	var oldestAt time.Time
	first := true
	for id, rec := range s.records {
		if first || rec.CreatedAt.Before(oldestAt) {
			oldestID = id
			oldestAt = rec.CreatedAt
			first = false
		}
	}
	if !first {
		delete(s.records, oldestID)
	}
}

var _ ports.OutputStore = (*Store)(nil)
