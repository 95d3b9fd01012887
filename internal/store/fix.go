package store

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/nit-tools/nit/internal/nit/errs"
)

// OpenFixConn opens a short-lived, independent connection to the database
// at path using modernc.org/sqlite rather than the store's usual
// ncruces-backed pool, for doctor --fix's two narrow repair writes. It
// runs outside the main single-connection pool entirely: doctor's read
// scan has already returned by the time --fix opens this, so there is no
// contention, and a distinct driver keeps the maintenance path from ever
// sharing a prepared-statement cache with the hot path.
func OpenFixConn(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errs.DbErrorf(err, "open fix connection")
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, errs.DbErrorf(err, "enable foreign keys on fix connection")
	}
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, errs.DbErrorf(err, "set busy timeout on fix connection")
	}
	return db, nil
}
