// Listing/filtering queries, grounded on internal/storage/sqlite/ready.go's
// dynamic WHERE-clause builder (GetReadyWork) — the same incremental
// whereClauses/args accumulation idiom, generalized to the filter set list
// needs (§4.4).
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/nit-tools/nit/internal/nit/types"
)

// ListFilter narrows the issue set list/ready/graph query against (§4.4).
type ListFilter struct {
	Statuses       []types.Status
	Priorities     []types.Priority
	Kinds          []types.Kind
	Tags           []string // conjunctive: an issue must have all of these
	ParentID       *int64
	BlockedOnly    bool
	IncludeBlocked bool // when false, active+blocked issues are excluded
	ActiveOnly     bool // when true, terminal issues are excluded regardless of Statuses
}

// IssueRow is a fetched issue plus its computed is_blocked flag, the unit
// list/ready/graph operate on before urgency scoring and sorting (done in
// Go, since urgency is never persisted — §3 invariant 6, §4.3).
type IssueRow struct {
	Issue     *types.Issue
	IsBlocked bool
}

func (s *Store) ListIssues(ctx context.Context, f ListFilter) ([]IssueRow, error) {
	return listIssues(ctx, s.execer(), f)
}

// ListIssues (tx variant). Commands that need a filtered read inside a
// transaction already holding the store's single connection (§5) must use
// this rather than the Store receiver, which would otherwise deadlock
// against the open transaction under SetMaxOpenConns(1).
func (t *Tx) ListIssues(ctx context.Context, f ListFilter) ([]IssueRow, error) {
	return listIssues(ctx, t.execer(), f)
}

func listIssues(ctx context.Context, e execer, f ListFilter) ([]IssueRow, error) {
	where := []string{}
	args := []interface{}{}

	if len(f.Statuses) > 0 {
		placeholders := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			placeholders[i] = "?"
			args = append(args, st)
		}
		where = append(where, fmt.Sprintf("i.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if f.ActiveOnly {
		where = append(where, "i.status IN ('open','in-progress')")
	}
	if len(f.Priorities) > 0 {
		placeholders := make([]string, len(f.Priorities))
		for i, p := range f.Priorities {
			placeholders[i] = "?"
			args = append(args, p)
		}
		where = append(where, fmt.Sprintf("i.priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(f.Kinds) > 0 {
		placeholders := make([]string, len(f.Kinds))
		for i, k := range f.Kinds {
			placeholders[i] = "?"
			args = append(args, k)
		}
		where = append(where, fmt.Sprintf("i.kind IN (%s)", strings.Join(placeholders, ",")))
	}
	for _, tag := range f.Tags {
		where = append(where, `EXISTS (
			SELECT 1 FROM json_each(i.tags) WHERE json_each.value = ?
		)`)
		args = append(args, tag)
	}
	if f.ParentID != nil {
		where = append(where, "i.parent_id = ?")
		args = append(args, *f.ParentID)
	}

	blockedExpr := `EXISTS (
		SELECT 1 FROM dependencies d JOIN issues b ON b.id = d.blocker_id
		WHERE d.blocked_id = i.id AND b.status IN ('open','in-progress')
	)`
	switch {
	case f.BlockedOnly:
		where = append(where, blockedExpr)
	case !f.IncludeBlocked:
		where = append(where, "NOT "+blockedExpr)
	}

	query := "SELECT " + issueColumns + ", " + blockedExpr + " AS is_blocked FROM issues i"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	rows, err := e.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError("list issues", err)
	}
	defer func() { _ = rows.Close() }()

	var out []IssueRow
	for rows.Next() {
		iss, isBlocked, err := scanIssueRow(rows)
		if err != nil {
			return nil, wrapDBError("scan issue row", err)
		}
		out = append(out, IssueRow{Issue: iss, IsBlocked: isBlocked})
	}
	return out, wrapDBError("iterate issue rows", rows.Err())
}

// rowsScanner is satisfied by *sql.Rows.
type rowsScanner interface {
	Scan(dest ...interface{}) error
}

// scanIssueRow scans the fixed issueColumns projection followed by one
// trailing is_blocked column.
func scanIssueRow(rows rowsScanner) (*types.Issue, bool, error) {
	var (
		iss                        types.Issue
		filesRaw, tagsRaw          string
		parentID                   sql.NullInt64
		createdAtRaw, updatedAtRaw string
		isBlocked                  bool
	)
	err := rows.Scan(&iss.ID, &iss.Title, &iss.Status, &iss.Priority, &iss.Kind,
		&iss.Context, &filesRaw, &tagsRaw, &iss.Acceptance, &parentID,
		&iss.CloseReason, &createdAtRaw, &updatedAtRaw, &isBlocked)
	if err != nil {
		return nil, false, err
	}
	iss.Files = decodeStrings(filesRaw)
	iss.Tags = decodeStrings(tagsRaw)
	if parentID.Valid {
		v := parentID.Int64
		iss.ParentID = &v
	}
	if iss.CreatedAt, err = types.ParseTime(createdAtRaw); err != nil {
		return nil, false, err
	}
	if iss.UpdatedAt, err = types.ParseTime(updatedAtRaw); err != nil {
		return nil, false, err
	}
	return &iss, isBlocked, nil
}
