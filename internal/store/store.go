// Package store implements the Store component (spec §4.1): durable,
// transactional persistence over a single SQLite file, the database
// discovery protocol, and the fixed schema. Grounded on the teacher's
// internal/storage/sqlite package (connection handling, wrapDBError idiom)
// and its registration of github.com/ncruces/go-sqlite3 as a pure-Go,
// cgo-free "sqlite3" driver (cmd/bd/doctor.go, cmd/bd/repair.go).
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/nit-tools/nit/internal/nit/errs"
)

// Store wraps a single SQLite connection pool for one .nit.db file, opened
// and closed once per command invocation (§5: no daemon, no held-open
// handle between invocations).
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the database at path, applies the fixed schema,
// and sets WAL mode plus foreign-key enforcement (§4.1 Pragmas).
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errs.DbErrorf(err, "open database")
	}
	db.SetMaxOpenConns(1) // single-writer, single-process (§5)

	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode=WAL`); err != nil {
		_ = db.Close()
		return nil, errs.DbErrorf(err, "enable WAL mode")
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		_ = db.Close()
		return nil, errs.DbErrorf(err, "apply schema")
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the absolute path the store was opened against.
func (s *Store) Path() string {
	return s.path
}

// Close releases the underlying connection. Called on every exit path
// (success, error, panic) by the command dispatcher (§5).
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Tx is the subset of Store operations available inside a transaction.
// Every mutating Engine command runs through exactly one Tx (§4.1
// Transactional discipline); read-only commands may use Store directly.
type Tx struct {
	tx *sql.Tx
}

// RunInTransaction runs fn inside a single write transaction. On any
// returned error (including a panic, which is converted to an error and
// re-panicked after rollback) the transaction is rolled back and no
// partial state is observable (§4.1, §7 propagation policy).
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx *Tx) error) (err error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.DbErrorf(err, "begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Tx{tx: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return errs.DbErrorf(err, "commit transaction")
	}
	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx, letting read/write
// helpers in this package run identically inside or outside a transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (s *Store) execer() execer { return s.db }
func (t *Tx) execer() execer    { return t.tx }
