package history

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"pytroll-hq/schedconf/pkg/telemetry/logging"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newRecord(id string, offset time.Duration, errMsg string) *Record {
	r := &Record{
		ID:       id,
		Trigger:  "file",
		Paths:    []string{"base.yaml", "site.yaml"},
		Started:  base.Add(offset),
		Duration: 3 * time.Millisecond,
		Error:    errMsg,
	}
	if errMsg == "" {
		r.Format = "hierarchical"
		r.Stations = 2
		r.Generation = 1
	}
	return r
}

func backends(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"sqlite": func(t *testing.T) Store {
			path := filepath.Join(t.TempDir(), "reloads.db")
			s, err := NewSQLiteStore(DefaultSQLiteConfig(path), logging.NewForTest())
			if err != nil {
				t.Fatalf("NewSQLiteStore() error = %v", err)
			}
			return s
		},
	}
}

func TestStore_RoundTrip(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			ctx := context.Background()

			want := newRecord("r1", 0, "")
			if err := s.Store(ctx, want); err != nil {
				t.Fatalf("Store() error = %v", err)
			}

			got, err := s.Query(ctx, nil)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("Query() returned %d records, want 1", len(got))
			}
			r := got[0]
			if r.ID != want.ID || r.Trigger != want.Trigger || r.Format != want.Format {
				t.Errorf("record = %+v, want %+v", r, want)
			}
			if !r.Started.Equal(want.Started) || r.Duration != want.Duration {
				t.Errorf("timing = %v/%v, want %v/%v", r.Started, r.Duration, want.Started, want.Duration)
			}
			if len(r.Paths) != 2 || r.Paths[1] != "site.yaml" {
				t.Errorf("Paths = %v, want %v", r.Paths, want.Paths)
			}
			if r.Stations != 2 || r.Generation != 1 || r.Failed() {
				t.Errorf("stations/generation/failed = %d/%d/%v", r.Stations, r.Generation, r.Failed())
			}
		})
	}
}

func TestStore_Query(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			ctx := context.Background()

			records := []*Record{
				newRecord("a", 0, ""),
				newRecord("b", time.Minute, "missing key day"),
				newRecord("c", 2*time.Minute, ""),
				newRecord("d", 3*time.Minute, "file not found"),
				newRecord("e", 3*time.Minute, ""),
			}
			for _, r := range records {
				if err := s.Store(ctx, r); err != nil {
					t.Fatalf("Store() error = %v", err)
				}
			}

			tests := []struct {
				name  string
				query *Query
				want  string
			}{
				{name: "all newest first", query: &Query{}, want: "e,d,c,b,a"},
				{name: "limit", query: &Query{Limit: 2}, want: "e,d"},
				{name: "failures", query: &Query{FailuresOnly: true}, want: "d,b"},
				{name: "since", query: &Query{Since: base.Add(2 * time.Minute)}, want: "e,d,c"},
				{name: "until", query: &Query{Until: base.Add(2 * time.Minute)}, want: "b,a"},
				{name: "window", query: &Query{Since: base.Add(time.Minute), Until: base.Add(3 * time.Minute)}, want: "c,b"},
			}
			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					got, err := s.Query(ctx, tt.query)
					if err != nil {
						t.Fatalf("Query() error = %v", err)
					}
					if ids := joinIDs(got); ids != tt.want {
						t.Errorf("Query() = %s, want %s", ids, tt.want)
					}

					n, err := s.Count(ctx, &Query{Since: tt.query.Since, Until: tt.query.Until, FailuresOnly: tt.query.FailuresOnly})
					if err != nil {
						t.Fatalf("Count() error = %v", err)
					}
					if tt.query.Limit == 0 && n != int64(len(got)) {
						t.Errorf("Count() = %d, want %d", n, len(got))
					}
				})
			}
		})
	}
}

func TestStore_DeleteBefore(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			ctx := context.Background()

			for i := 0; i < 5; i++ {
				if err := s.Store(ctx, newRecord(fmt.Sprintf("r%d", i), time.Duration(i)*time.Hour, "")); err != nil {
					t.Fatalf("Store() error = %v", err)
				}
			}

			deleted, err := s.DeleteBefore(ctx, base.Add(2*time.Hour))
			if err != nil {
				t.Fatalf("DeleteBefore() error = %v", err)
			}
			if deleted != 2 {
				t.Errorf("DeleteBefore() = %d, want 2", deleted)
			}

			got, _ := s.Query(ctx, nil)
			if ids := joinIDs(got); ids != "r4,r3,r2" {
				t.Errorf("remaining = %s, want r4,r3,r2", ids)
			}
		})
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reloads.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(DefaultSQLiteConfig(path), nil)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	if err := s.Store(ctx, newRecord("kept", 0, "")); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = NewSQLiteStore(DefaultSQLiteConfig(path), nil)
	if err != nil {
		t.Fatalf("reopening failed: %v", err)
	}
	defer s.Close()

	n, err := s.Count(ctx, nil)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Count() after reopen = %d, want 1", n)
	}
}

func TestSQLiteStore_DuplicateID(t *testing.T) {
	s, err := NewSQLiteStore(DefaultSQLiteConfig(filepath.Join(t.TempDir(), "reloads.db")), nil)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Store(ctx, newRecord("same", 0, "")); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	err = s.Store(ctx, newRecord("same", time.Minute, ""))
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("error = %v (%T), want *StorageError", err, err)
	}
	if storageErr.Backend != "sqlite" || storageErr.Operation != "store" {
		t.Errorf("StorageError = %+v", storageErr)
	}
}

func TestNewSQLiteStore_EmptyPath(t *testing.T) {
	if _, err := NewSQLiteStore(SQLiteConfig{}, nil); err == nil {
		t.Error("NewSQLiteStore() with an empty path should return error")
	}
}

func TestMemoryStore_Closed(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	err := s.Store(context.Background(), newRecord("late", 0, ""))
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Errorf("Store() after Close = %v, want *StorageError", err)
	}
}

func TestMemoryStore_CopiesRecords(t *testing.T) {
	s := NewMemoryStore()
	r := newRecord("r", 0, "")
	if err := s.Store(context.Background(), r); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	r.Paths[0] = "changed.yaml"

	got, _ := s.Query(context.Background(), nil)
	if got[0].Paths[0] != "base.yaml" {
		t.Error("stored record shares its paths with the caller")
	}
}

func joinIDs(records []*Record) string {
	ids := ""
	for i, r := range records {
		if i > 0 {
			ids += ","
		}
		ids += r.ID
	}
	return ids
}
