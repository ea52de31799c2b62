package history

import (
	"context"
	"fmt"
	"time"
)

// Record is one configuration reload attempt.
type Record struct {
	ID       string        `json:"id" yaml:"id"`
	Trigger  string        `json:"trigger" yaml:"trigger"`
	Paths    []string      `json:"paths" yaml:"paths"`
	Started  time.Time     `json:"started" yaml:"started"`
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Format, Stations and Generation are empty for failed reloads
	Format     string `json:"format,omitempty" yaml:"format,omitempty"`
	Stations   int    `json:"stations" yaml:"stations"`
	Generation int    `json:"generation" yaml:"generation"`

	// Error is the reload error message, empty on success
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the reload failed.
func (r *Record) Failed() bool {
	return r.Error != ""
}

// Query filters records. Zero fields do not filter.
type Query struct {
	// Since and Until bound Started, Since inclusive and Until exclusive
	Since time.Time
	Until time.Time

	FailuresOnly bool

	// Limit caps the result, DefaultLimit when zero
	Limit int
}

// DefaultLimit is the number of records a query returns when no limit is
// given.
const DefaultLimit = 100

func (q *Query) limit() int {
	if q == nil || q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}

// Store persists reload records. Implementations are safe for concurrent
// use. Query results are ordered newest first.
type Store interface {
	Store(ctx context.Context, record *Record) error
	Query(ctx context.Context, query *Query) ([]*Record, error)
	Count(ctx context.Context, query *Query) (int64, error)

	// DeleteBefore removes records started before cutoff and returns how
	// many were removed.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	Close() error
}

// StorageError is a failure of a storage backend.
type StorageError struct {
	Backend   string // "sqlite" or "memory"
	Operation string // "store", "query", "delete", ...
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

func newStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}
