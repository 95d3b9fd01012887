package store

import (
	"context"
	"database/sql"

	"github.com/nit-tools/nit/internal/nit/types"
)

func dependencyExists(ctx context.Context, e execer, blockerID, blockedID int64) (bool, error) {
	var one int
	err := e.QueryRowContext(ctx, `
		SELECT 1 FROM dependencies WHERE blocker_id = ? AND blocked_id = ?
	`, blockerID, blockedID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, wrapDBError("check dependency exists", err)
	}
	return true, nil
}

func (s *Store) DependencyExists(ctx context.Context, blockerID, blockedID int64) (bool, error) {
	return dependencyExists(ctx, s.execer(), blockerID, blockedID)
}

func (t *Tx) DependencyExists(ctx context.Context, blockerID, blockedID int64) (bool, error) {
	return dependencyExists(ctx, t.execer(), blockerID, blockedID)
}

func insertDependency(ctx context.Context, e execer, blockerID, blockedID int64, now string) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO dependencies (blocker_id, blocked_id, created_at) VALUES (?, ?, ?)
	`, blockerID, blockedID, now)
	return wrapDBError("insert dependency", err)
}

func (s *Store) InsertDependency(ctx context.Context, blockerID, blockedID int64, now string) error {
	return insertDependency(ctx, s.execer(), blockerID, blockedID, now)
}

func (t *Tx) InsertDependency(ctx context.Context, blockerID, blockedID int64, now string) error {
	return insertDependency(ctx, t.execer(), blockerID, blockedID, now)
}

func deleteDependency(ctx context.Context, e execer, blockerID, blockedID int64) error {
	_, err := e.ExecContext(ctx, `
		DELETE FROM dependencies WHERE blocker_id = ? AND blocked_id = ?
	`, blockerID, blockedID)
	return wrapDBError("delete dependency", err)
}

func (s *Store) DeleteDependency(ctx context.Context, blockerID, blockedID int64) error {
	return deleteDependency(ctx, s.execer(), blockerID, blockedID)
}

func (t *Tx) DeleteDependency(ctx context.Context, blockerID, blockedID int64) error {
	return deleteDependency(ctx, t.execer(), blockerID, blockedID)
}

// successorIDs returns the ids this issue directly blocks (edges where
// blocker_id = id), the traversal direction Graph's cycle check walks.
func successorIDs(ctx context.Context, e execer, id int64) ([]int64, error) {
	rows, err := e.QueryContext(ctx, `SELECT blocked_id FROM dependencies WHERE blocker_id = ?`, id)
	if err != nil {
		return nil, wrapDBError("query successors", err)
	}
	defer func() { _ = rows.Close() }()
	var out []int64
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, wrapDBError("scan successor", err)
		}
		out = append(out, v)
	}
	return out, wrapDBError("iterate successors", rows.Err())
}

func (s *Store) SuccessorIDs(ctx context.Context, id int64) ([]int64, error) {
	return successorIDs(ctx, s.execer(), id)
}

func (t *Tx) SuccessorIDs(ctx context.Context, id int64) ([]int64, error) {
	return successorIDs(ctx, t.execer(), id)
}

// BlockerIDs returns the ordered list of ids that block issueID (edges
// where blocked_id = issueID), used by get's blocked_by list (§4.4).
func blockerIDs(ctx context.Context, e execer, issueID int64) ([]int64, error) {
	rows, err := e.QueryContext(ctx, `
		SELECT blocker_id FROM dependencies WHERE blocked_id = ? ORDER BY blocker_id
	`, issueID)
	if err != nil {
		return nil, wrapDBError("query blockers", err)
	}
	defer func() { _ = rows.Close() }()
	out := []int64{}
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, wrapDBError("scan blocker", err)
		}
		out = append(out, v)
	}
	return out, wrapDBError("iterate blockers", rows.Err())
}

func (s *Store) BlockerIDs(ctx context.Context, issueID int64) ([]int64, error) {
	return blockerIDs(ctx, s.execer(), issueID)
}

func (t *Tx) BlockerIDs(ctx context.Context, issueID int64) ([]int64, error) {
	return blockerIDs(ctx, t.execer(), issueID)
}

// BlocksIDs returns the ordered list of ids issueID blocks, used by get's
// blocks list (§4.4).
func blocksIDs(ctx context.Context, e execer, issueID int64) ([]int64, error) {
	rows, err := e.QueryContext(ctx, `
		SELECT blocked_id FROM dependencies WHERE blocker_id = ? ORDER BY blocked_id
	`, issueID)
	if err != nil {
		return nil, wrapDBError("query blocks", err)
	}
	defer func() { _ = rows.Close() }()
	out := []int64{}
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, wrapDBError("scan blocks", err)
		}
		out = append(out, v)
	}
	return out, wrapDBError("iterate blocks", rows.Err())
}

func (s *Store) BlocksIDs(ctx context.Context, issueID int64) ([]int64, error) {
	return blocksIDs(ctx, s.execer(), issueID)
}

func (t *Tx) BlocksIDs(ctx context.Context, issueID int64) ([]int64, error) {
	return blocksIDs(ctx, t.execer(), issueID)
}

// ActiveBlockerCount counts blockers of issueID whose status is active
// (§4.2 Is-blocked predicate).
func activeBlockerCount(ctx context.Context, e execer, issueID int64) (int, error) {
	var n int
	err := e.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM dependencies d
		JOIN issues i ON i.id = d.blocker_id
		WHERE d.blocked_id = ? AND i.status IN ('open','in-progress')
	`, issueID).Scan(&n)
	return n, wrapDBError("count active blockers", err)
}

func (s *Store) ActiveBlockerCount(ctx context.Context, issueID int64) (int, error) {
	return activeBlockerCount(ctx, s.execer(), issueID)
}

func (t *Tx) ActiveBlockerCount(ctx context.Context, issueID int64) (int, error) {
	return activeBlockerCount(ctx, t.execer(), issueID)
}

// ActiveBlocksCount counts issues blocked by issueID that are themselves
// still active (§4.2 Blocks-active predicate).
func activeBlocksCount(ctx context.Context, e execer, issueID int64) (int, error) {
	var n int
	err := e.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM dependencies d
		JOIN issues i ON i.id = d.blocked_id
		WHERE d.blocker_id = ? AND i.status IN ('open','in-progress')
	`, issueID).Scan(&n)
	return n, wrapDBError("count active blocks", err)
}

func (s *Store) ActiveBlocksCount(ctx context.Context, issueID int64) (int, error) {
	return activeBlocksCount(ctx, s.execer(), issueID)
}

func (t *Tx) ActiveBlocksCount(ctx context.Context, issueID int64) (int, error) {
	return activeBlocksCount(ctx, t.execer(), issueID)
}

// ActiveBlockedDependents returns the ids of issues that issueID blocks
// (only those still open or in-progress), used to enumerate candidates for
// unblock propagation when issueID transitions to terminal (§4.2).
func activeBlockedDependents(ctx context.Context, e execer, issueID int64) ([]int64, error) {
	rows, err := e.QueryContext(ctx, `
		SELECT d.blocked_id FROM dependencies d
		JOIN issues i ON i.id = d.blocked_id
		WHERE d.blocker_id = ? AND i.status IN ('open','in-progress')
		ORDER BY d.blocked_id
	`, issueID)
	if err != nil {
		return nil, wrapDBError("query active dependents", err)
	}
	defer func() { _ = rows.Close() }()
	out := []int64{}
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, wrapDBError("scan dependent", err)
		}
		out = append(out, v)
	}
	return out, wrapDBError("iterate dependents", rows.Err())
}

func (s *Store) ActiveBlockedDependents(ctx context.Context, issueID int64) ([]int64, error) {
	return activeBlockedDependents(ctx, s.execer(), issueID)
}

func (t *Tx) ActiveBlockedDependents(ctx context.Context, issueID int64) ([]int64, error) {
	return activeBlockedDependents(ctx, t.execer(), issueID)
}

// AllDependencies returns every dependency row, ordered, for export (§4.4).
func (s *Store) AllDependencies(ctx context.Context) ([]types.Dependency, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT blocker_id, blocked_id, created_at FROM dependencies ORDER BY blocker_id, blocked_id
	`)
	if err != nil {
		return nil, wrapDBError("query all dependencies", err)
	}
	defer func() { _ = rows.Close() }()
	var out []types.Dependency
	for rows.Next() {
		var d types.Dependency
		var createdAtRaw string
		if err := rows.Scan(&d.BlockerID, &d.BlockedID, &createdAtRaw); err != nil {
			return nil, wrapDBError("scan dependency", err)
		}
		if d.CreatedAt, err = types.ParseTime(createdAtRaw); err != nil {
			return nil, wrapDBError("parse dependency timestamp", err)
		}
		out = append(out, d)
	}
	return out, wrapDBError("iterate dependencies", rows.Err())
}
