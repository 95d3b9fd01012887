package store

import "context"

// Schema is the full, fixed DDL for a nit database (spec §4.1). It is
// applied verbatim by Open on a fresh file, and returned as-is by the
// `schema` command (§4.4). There is no migration system: schema changes
// between major versions are explicitly out of scope (§1).
const Schema = `
CREATE TABLE IF NOT EXISTS issues (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT NOT NULL CHECK (title <> ''),
	status      TEXT NOT NULL CHECK (status IN ('open','in-progress','done','wontfix')),
	priority    TEXT NOT NULL CHECK (priority IN ('critical','high','medium','low')),
	kind        TEXT NOT NULL CHECK (kind IN ('bug','feature','task','epic')),
	context     TEXT NOT NULL DEFAULT '',
	files       TEXT NOT NULL DEFAULT '[]',
	tags        TEXT NOT NULL DEFAULT '[]',
	acceptance  TEXT NOT NULL DEFAULT '',
	parent_id   INTEGER REFERENCES issues(id) ON DELETE SET NULL,
	close_reason TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS dependencies (
	blocker_id  INTEGER NOT NULL REFERENCES issues(id) ON DELETE CASCADE,
	blocked_id  INTEGER NOT NULL REFERENCES issues(id) ON DELETE CASCADE,
	created_at  TEXT NOT NULL,
	PRIMARY KEY (blocker_id, blocked_id),
	CHECK (blocker_id <> blocked_id)
);

CREATE TABLE IF NOT EXISTS notes (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	issue_id    INTEGER NOT NULL REFERENCES issues(id) ON DELETE CASCADE,
	content     TEXT NOT NULL CHECK (content <> ''),
	agent       TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS config (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_issues_status     ON issues(status);
CREATE INDEX IF NOT EXISTS idx_issues_priority   ON issues(priority);
CREATE INDEX IF NOT EXISTS idx_issues_kind       ON issues(kind);
CREATE INDEX IF NOT EXISTS idx_issues_parent_id  ON issues(parent_id);
CREATE INDEX IF NOT EXISTS idx_deps_blocked_id   ON dependencies(blocked_id);
CREATE INDEX IF NOT EXISTS idx_deps_blocker_id   ON dependencies(blocker_id);
CREATE INDEX IF NOT EXISTS idx_notes_issue_id    ON notes(issue_id);

-- Refreshes updated_at whenever an issue row changes and the caller did not
-- already bump it itself. Guarded by the WHEN clause so the nested UPDATE
-- does not recurse: on the inner firing OLD.updated_at is the value just
-- written by the outer UPDATE and NEW.updated_at is the freshly computed
-- instant, so the guard is false and the trigger stops.
CREATE TRIGGER IF NOT EXISTS trg_issues_updated_at
AFTER UPDATE ON issues
FOR EACH ROW
WHEN NEW.updated_at = OLD.updated_at
BEGIN
	UPDATE issues SET updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now') WHERE id = NEW.id;
END;
`

// LiveSchemaSQL returns the name -> CREATE-statement text of every table,
// index and trigger actually present in the database, used by `schema
// --verify` to detect drift against the fixed Schema constant (SPEC_FULL
// supplement; §4.1 notes the schema never migrates, so divergence is
// always either external tampering or a stale binary).
func (s *Store) LiveSchemaSQL(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, sql FROM sqlite_master
		WHERE type IN ('table','index','trigger') AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, wrapDBError("query live schema", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]string)
	for rows.Next() {
		var name, sql string
		if err := rows.Scan(&name, &sql); err != nil {
			return nil, wrapDBError("scan schema object", err)
		}
		out[name] = sql
	}
	return out, wrapDBError("iterate live schema", rows.Err())
}
