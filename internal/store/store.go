// Package store is the storage layer of the registry: one long-lived
// SQLite connection, serialized through a single mutex, shared by every
// component. Concurrent callers are safe but never parallel — a deliberate
// tradeoff that keeps single-writer latency low and the code simple.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("not found")

// Store wraps the shared connection. All reads and writes funnel through
// its mutex; Transaction holds the mutex for the whole scope so a
// background scan cannot interleave with a user-initiated delete.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the registry database and applies the
// performance pragmas. The pool is capped at one connection — the mutex
// is the real serialization point, the cap just keeps database/sql from
// opening more.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA cache_size=-2000",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	return &Store{db: db}, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Execute runs a single INSERT/UPDATE/DELETE and returns the last
// inserted row id.
func (s *Store) Execute(query string, args ...any) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("exec: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// ExecMany runs one statement for every argument set inside a single
// transaction and returns the number of affected rows. Used for batch
// inserts during scanning and for number-set replacement.
func (s *Store) ExecMany(query string, argSets [][]any) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // safe to ignore

	stmt, err := tx.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }() // safe to ignore

	var affected int64
	for _, args := range argSets {
		res, err := stmt.Exec(args...)
		if err != nil {
			return 0, fmt.Errorf("exec batch row: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		affected += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return affected, nil
}

// Query runs a SELECT and invokes scan once per row. The mutex is held
// for the full iteration so rows never outlive the lock.
func (s *Store) Query(query string, scan func(*sql.Rows) error, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// QueryRow runs a SELECT expected to return at most one row. Returns
// ErrNotFound when the query matches nothing.
func (s *Store) QueryRow(query string, scan func(*sql.Row) error, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := scan(s.db.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Transaction runs fn inside a transaction, committing on nil and rolling
// back on error. A store fault inside fn rolls back and is re-raised to
// the caller; nothing is swallowed here.
func (s *Store) Transaction(fn func(tx *sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback() // safe to ignore
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
