package store

import (
	"context"
	"database/sql"

	"github.com/nit-tools/nit/internal/nit/types"
)

func insertNote(ctx context.Context, e execer, issueID int64, content, agent, now string) (int64, error) {
	res, err := e.ExecContext(ctx, `
		INSERT INTO notes (issue_id, content, agent, created_at) VALUES (?, ?, ?, ?)
	`, issueID, content, agent, now)
	if err != nil {
		return 0, wrapDBError("insert note", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrapDBError("get inserted note id", err)
	}
	return id, nil
}

func (s *Store) InsertNote(ctx context.Context, issueID int64, content, agent, now string) (int64, error) {
	return insertNote(ctx, s.execer(), issueID, content, agent, now)
}

func (t *Tx) InsertNote(ctx context.Context, issueID int64, content, agent, now string) (int64, error) {
	return insertNote(ctx, t.execer(), issueID, content, agent, now)
}

// InsertNoteWithID inserts a note preserving its original id, used by
// import to reproduce an exported snapshot exactly.
func (t *Tx) InsertNoteWithID(ctx context.Context, n types.Note) error {
	_, err := t.execer().ExecContext(ctx, `
		INSERT INTO notes (id, issue_id, content, agent, created_at) VALUES (?, ?, ?, ?, ?)
	`, n.ID, n.IssueID, n.Content, n.Agent, types.FormatTime(n.CreatedAt))
	return wrapDBError("insert note with id", err)
}

func notesByIssue(ctx context.Context, e execer, issueID int64) ([]types.Note, error) {
	rows, err := e.QueryContext(ctx, `
		SELECT id, issue_id, content, agent, created_at FROM notes
		WHERE issue_id = ? ORDER BY created_at ASC, id ASC
	`, issueID)
	if err != nil {
		return nil, wrapDBError("query notes", err)
	}
	defer func() { _ = rows.Close() }()

	out := []types.Note{}
	for rows.Next() {
		var n types.Note
		var createdAtRaw string
		if err := rows.Scan(&n.ID, &n.IssueID, &n.Content, &n.Agent, &createdAtRaw); err != nil {
			return nil, wrapDBError("scan note", err)
		}
		if n.CreatedAt, err = types.ParseTime(createdAtRaw); err != nil {
			return nil, wrapDBError("parse note timestamp", err)
		}
		out = append(out, n)
	}
	return out, wrapDBError("iterate notes", rows.Err())
}

func (s *Store) NotesByIssue(ctx context.Context, issueID int64) ([]types.Note, error) {
	return notesByIssue(ctx, s.execer(), issueID)
}

func (t *Tx) NotesByIssue(ctx context.Context, issueID int64) ([]types.Note, error) {
	return notesByIssue(ctx, t.execer(), issueID)
}

func noteExists(ctx context.Context, e execer, id int64) (bool, error) {
	var one int
	err := e.QueryRowContext(ctx, `SELECT 1 FROM notes WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, wrapDBError("check note exists", err)
	}
	return true, nil
}

func (s *Store) NoteExists(ctx context.Context, id int64) (bool, error) {
	return noteExists(ctx, s.execer(), id)
}

func (t *Tx) NoteExists(ctx context.Context, id int64) (bool, error) {
	return noteExists(ctx, t.execer(), id)
}

func noteCount(ctx context.Context, e execer, issueID int64) (int, error) {
	var n int
	err := e.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes WHERE issue_id = ?`, issueID).Scan(&n)
	return n, wrapDBError("count notes", err)
}

func (s *Store) NoteCount(ctx context.Context, issueID int64) (int, error) {
	return noteCount(ctx, s.execer(), issueID)
}

func (t *Tx) NoteCount(ctx context.Context, issueID int64) (int, error) {
	return noteCount(ctx, t.execer(), issueID)
}

// AllNotes returns every note row, ordered, for export (§4.4).
func (s *Store) AllNotes(ctx context.Context) ([]types.Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, issue_id, content, agent, created_at FROM notes ORDER BY id ASC
	`)
	if err != nil {
		return nil, wrapDBError("query all notes", err)
	}
	defer func() { _ = rows.Close() }()
	var out []types.Note
	for rows.Next() {
		var n types.Note
		var createdAtRaw string
		if err := rows.Scan(&n.ID, &n.IssueID, &n.Content, &n.Agent, &createdAtRaw); err != nil {
			return nil, wrapDBError("scan note", err)
		}
		if n.CreatedAt, err = types.ParseTime(createdAtRaw); err != nil {
			return nil, wrapDBError("parse note timestamp", err)
		}
		out = append(out, n)
	}
	return out, wrapDBError("iterate all notes", rows.Err())
}
