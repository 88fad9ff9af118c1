// Package journal keeps an append-only SQLite log of coordinator outcomes.
//
// The journal is an audit trail for operators (`hrmslite history`). Nothing in
// it is ever read back into the coordinator caches.
package journal

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/hrmslite/internal/coordinator"
	ferrors "git.home.luguber.info/inful/hrmslite/internal/foundation/errors"
	"git.home.luguber.info/inful/hrmslite/internal/logfields"
)

// Entry is one journaled outcome.
type Entry struct {
	ID         int64
	Operation  string
	EmployeeID string
	Result     string
	Text       string
	Error      string
	At         time.Time
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	EmployeeID string
	Operation  string
	Limit      int
}

// Store is the SQLite-backed journal.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger *slog.Logger
}

// Open opens or creates the journal at path. Use ":memory:" for a throwaway journal.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, ferrors.StorageError("failed to open journal").WithCause(err).WithContext("path", path).Build()
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: slog.Default()}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, ferrors.StorageError("failed to initialize journal schema").WithCause(err).WithContext("path", path).Build()
	}
	return s, nil
}

// SetLogger replaces the logger used when Observe cannot write.
func (s *Store) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

func (s *Store) initialize() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS outcomes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		operation TEXT NOT NULL,
		employee_id TEXT NOT NULL DEFAULT '',
		result TEXT NOT NULL,
		text TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_outcomes_employee ON outcomes(employee_id);
	CREATE INDEX IF NOT EXISTS idx_outcomes_at ON outcomes(at);
	`)
	return err
}

// Append writes e. ID is assigned by the store.
func (s *Store) Append(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.At.IsZero() {
		e.At = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO outcomes (operation, employee_id, result, text, error, at) VALUES (?, ?, ?, ?, ?, ?)",
		e.Operation, e.EmployeeID, e.Result, e.Text, e.Error, e.At.UnixMilli(),
	)
	if err != nil {
		return ferrors.StorageError("failed to append journal entry").
			WithCause(err).
			WithContext("operation", e.Operation).
			Build()
	}
	return nil
}

// List returns matching entries, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, operation, employee_id, result, text, error, at FROM outcomes WHERE 1=1"
	var args []any
	if f.EmployeeID != "" {
		query += " AND employee_id = ?"
		args = append(args, f.EmployeeID)
	}
	if f.Operation != "" {
		query += " AND operation = ?"
		args = append(args, f.Operation)
	}
	query += " ORDER BY id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ferrors.StorageError("failed to query journal").WithCause(err).Build()
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var e Entry
		var at int64
		if err := rows.Scan(&e.ID, &e.Operation, &e.EmployeeID, &e.Result, &e.Text, &e.Error, &at); err != nil {
			return nil, ferrors.StorageError("failed to scan journal entry").WithCause(err).Build()
		}
		e.At = time.UnixMilli(at)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, ferrors.StorageError("failed to read journal").WithCause(err).Build()
	}
	return out, nil
}

// Observe journals a coordinator outcome. Write failures are logged only.
func (s *Store) Observe(ctx context.Context, o coordinator.Outcome) {
	e := Entry{
		Operation:  o.Operation,
		EmployeeID: o.EmployeeID,
		Result:     string(o.Result),
		Text:       o.Text,
		At:         o.At,
	}
	if o.Err != nil {
		e.Error = o.Err.Error()
	}
	if err := s.Append(context.WithoutCancel(ctx), e); err != nil {
		s.logger.Warn("Journal write failed", logfields.Operation(o.Operation), logfields.Error(err))
	}
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
