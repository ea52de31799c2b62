package history

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps records in memory. It is used when no database path
// is configured and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records []*Record
	closed  bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

var errClosed = errors.New("store is closed")

// Store implements Store.
func (s *MemoryStore) Store(ctx context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return newStorageError("memory", "store", errClosed)
	}
	s.records = append(s.records, copyRecord(record))
	return nil
}

// Query implements Store.
func (s *MemoryStore) Query(ctx context.Context, query *Query) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, newStorageError("memory", "query", errClosed)
	}

	// Newest insert first, so equal start times keep that order after the
	// stable sort.
	results := []*Record{}
	for i := len(s.records) - 1; i >= 0; i-- {
		if matches(s.records[i], query) {
			results = append(results, copyRecord(s.records[i]))
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Started.After(results[j].Started)
	})

	if limit := query.limit(); len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Count implements Store.
func (s *MemoryStore) Count(ctx context.Context, query *Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, newStorageError("memory", "count", errClosed)
	}

	var n int64
	for _, r := range s.records {
		if matches(r, query) {
			n++
		}
	}
	return n, nil
}

// DeleteBefore implements Store.
func (s *MemoryStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, newStorageError("memory", "delete", errClosed)
	}

	kept := s.records[:0]
	var deleted int64
	for _, r := range s.records {
		if r.Started.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return deleted, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.records = nil
	return nil
}

func matches(r *Record, q *Query) bool {
	if q == nil {
		return true
	}
	if !q.Since.IsZero() && r.Started.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && !r.Started.Before(q.Until) {
		return false
	}
	if q.FailuresOnly && !r.Failed() {
		return false
	}
	return true
}

func copyRecord(r *Record) *Record {
	c := *r
	c.Paths = append([]string(nil), r.Paths...)
	return &c
}
