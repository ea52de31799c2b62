package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	// Path is the database file path
	Path string

	// WALMode enables write-ahead logging
	WALMode bool

	// BusyTimeout is how long to wait for locks before failing
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default configuration for path.
func DefaultSQLiteConfig(path string) SQLiteConfig {
	return SQLiteConfig{
		Path:        path,
		WALMode:     true,
		BusyTimeout: 5 * time.Second,
	}
}

// SQLiteStore persists records in an SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	config SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens or creates the database at cfg.Path.
func NewSQLiteStore(cfg SQLiteConfig, logger *slog.Logger) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, newStorageError("sqlite", "open", errors.New("database path is empty"))
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, newStorageError("sqlite", "open", err)
	}

	// One connection keeps the pragmas below in effect for every statement.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{
		db:     db,
		config: cfg,
		logger: logger.With("component", "history.sqlite"),
	}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Debug("reload history opened", "path", cfg.Path, "wal_mode", cfg.WALMode)
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return newStorageError("sqlite", "enable_wal", err)
		}
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return newStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(schema); err != nil {
		return newStorageError("sqlite", "create_schema", err)
	}
	if _, err := s.db.Exec(insertSchemaVersion, SchemaVersion, time.Now().UnixNano()); err != nil {
		return newStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(getSchemaVersion).Scan(&version); err != nil {
		return newStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return newStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	return nil
}

// Store implements Store.
func (s *SQLiteStore) Store(ctx context.Context, record *Record) error {
	paths, err := json.Marshal(record.Paths)
	if err != nil {
		return newStorageError("sqlite", "store", err)
	}

	_, err = s.db.ExecContext(ctx, insertRecord,
		record.ID, record.Trigger, string(paths),
		record.Started.UnixNano(), int64(record.Duration),
		record.Format, record.Stations, record.Generation, record.Error,
	)
	if err != nil {
		return newStorageError("sqlite", "store", err)
	}
	return nil
}

// Query implements Store.
func (s *SQLiteStore) Query(ctx context.Context, query *Query) ([]*Record, error) {
	where, args := buildWhereClause(query)

	sqlQuery := selectColumns
	if where != "" {
		sqlQuery += " WHERE " + where
	}
	sqlQuery += fmt.Sprintf(" ORDER BY started_ns DESC, rowid DESC LIMIT %d", query.limit())

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, newStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, newStorageError("sqlite", "scan", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, newStorageError("sqlite", "query", err)
	}
	return records, nil
}

// Count implements Store.
func (s *SQLiteStore) Count(ctx context.Context, query *Query) (int64, error) {
	where, args := buildWhereClause(query)

	sqlQuery := "SELECT COUNT(*) FROM reloads"
	if where != "" {
		sqlQuery += " WHERE " + where
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, newStorageError("sqlite", "count", err)
	}
	return count, nil
}

// DeleteBefore implements Store.
func (s *SQLiteStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM reloads WHERE started_ns < ?", cutoff.UnixNano())
	if err != nil {
		return 0, newStorageError("sqlite", "delete", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, newStorageError("sqlite", "delete", err)
	}
	return count, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return newStorageError("sqlite", "close", err)
	}
	return nil
}

func buildWhereClause(query *Query) (string, []any) {
	if query == nil {
		return "", nil
	}

	var conditions []string
	var args []any
	if !query.Since.IsZero() {
		conditions = append(conditions, "started_ns >= ?")
		args = append(args, query.Since.UnixNano())
	}
	if !query.Until.IsZero() {
		conditions = append(conditions, "started_ns < ?")
		args = append(args, query.Until.UnixNano())
	}
	if query.FailuresOnly {
		conditions = append(conditions, "error != ''")
	}
	return strings.Join(conditions, " AND "), args
}

func scanRecord(rows *sql.Rows) (*Record, error) {
	var (
		r          Record
		paths      string
		startedNs  int64
		durationNs int64
	)
	if err := rows.Scan(
		&r.ID, &r.Trigger, &paths, &startedNs, &durationNs,
		&r.Format, &r.Stations, &r.Generation, &r.Error,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(paths), &r.Paths); err != nil {
		return nil, fmt.Errorf("record %s has malformed paths: %w", r.ID, err)
	}
	r.Started = time.Unix(0, startedNs)
	r.Duration = time.Duration(durationNs)
	return &r, nil
}
