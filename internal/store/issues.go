package store

import (
	"context"
	"database/sql"

	"github.com/nit-tools/nit/internal/nit/errs"
	"github.com/nit-tools/nit/internal/nit/types"
)

const issueColumns = `id, title, status, priority, kind, context, files, tags,
	acceptance, parent_id, close_reason, created_at, updated_at`

// NewIssue are the caller-supplied fields for InsertIssue; id is assigned
// by the database, and created_at/updated_at are both InsertIssue's now
// argument.
type NewIssue struct {
	Title      string
	Status     types.Status
	Priority   types.Priority
	Kind       types.Kind
	Context    string
	Files      []string
	Tags       []string
	Acceptance string
	ParentID   *int64
	Now        int64 // not read by InsertIssue, whose now argument sets the timestamps
}

func insertIssue(ctx context.Context, e execer, in NewIssue, now string) (int64, error) {
	files := dedupPreserveOrder(in.Files)
	tags := dedupPreserveOrder(in.Tags)

	res, err := e.ExecContext(ctx, `
		INSERT INTO issues (title, status, priority, kind, context, files, tags,
			acceptance, parent_id, close_reason, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, '', ?, ?)
	`, in.Title, in.Status, in.Priority, in.Kind, in.Context,
		encodeStrings(files), encodeStrings(tags), in.Acceptance, in.ParentID, now, now)
	if err != nil {
		return 0, wrapDBError("insert issue", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrapDBError("get inserted issue id", err)
	}
	return id, nil
}

// InsertIssue inserts a single issue and returns its assigned id.
func (s *Store) InsertIssue(ctx context.Context, in NewIssue, now string) (int64, error) {
	return insertIssue(ctx, s.execer(), in, now)
}

// InsertIssue (tx variant).
func (t *Tx) InsertIssue(ctx context.Context, in NewIssue, now string) (int64, error) {
	return insertIssue(ctx, t.execer(), in, now)
}

// InsertIssueWithID inserts iss preserving its original id and timestamps,
// used by import to reproduce an exported snapshot exactly. Only available
// on Tx: import always runs inside a transaction so a mid-batch id
// collision rolls back cleanly.
func (t *Tx) InsertIssueWithID(ctx context.Context, iss types.Issue) error {
	files := dedupPreserveOrder(iss.Files)
	tags := dedupPreserveOrder(iss.Tags)
	_, err := t.execer().ExecContext(ctx, `
		INSERT INTO issues (id, title, status, priority, kind, context, files, tags,
			acceptance, parent_id, close_reason, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, iss.ID, iss.Title, iss.Status, iss.Priority, iss.Kind, iss.Context,
		encodeStrings(files), encodeStrings(tags), iss.Acceptance, iss.ParentID,
		iss.CloseReason, types.FormatTime(iss.CreatedAt), types.FormatTime(iss.UpdatedAt))
	return wrapDBError("insert issue with id", err)
}

func scanIssue(row interface {
	Scan(dest ...interface{}) error
}) (*types.Issue, error) {
	var (
		iss                      types.Issue
		filesRaw, tagsRaw        string
		parentID                 sql.NullInt64
		createdAtRaw, updatedAtRaw string
	)
	err := row.Scan(&iss.ID, &iss.Title, &iss.Status, &iss.Priority, &iss.Kind,
		&iss.Context, &filesRaw, &tagsRaw, &iss.Acceptance, &parentID,
		&iss.CloseReason, &createdAtRaw, &updatedAtRaw)
	if err != nil {
		return nil, err
	}
	iss.Files = decodeStrings(filesRaw)
	iss.Tags = decodeStrings(tagsRaw)
	if parentID.Valid {
		v := parentID.Int64
		iss.ParentID = &v
	}
	if iss.CreatedAt, err = types.ParseTime(createdAtRaw); err != nil {
		return nil, err
	}
	if iss.UpdatedAt, err = types.ParseTime(updatedAtRaw); err != nil {
		return nil, err
	}
	return &iss, nil
}

func getIssue(ctx context.Context, e execer, id int64) (*types.Issue, error) {
	row := e.QueryRowContext(ctx, `SELECT `+issueColumns+` FROM issues WHERE id = ?`, id)
	iss, err := scanIssue(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFoundf("issue %d not found", id)
	}
	if err != nil {
		return nil, wrapDBError("get issue", err)
	}
	return iss, nil
}

func (s *Store) GetIssue(ctx context.Context, id int64) (*types.Issue, error) {
	return getIssue(ctx, s.execer(), id)
}

func (t *Tx) GetIssue(ctx context.Context, id int64) (*types.Issue, error) {
	return getIssue(ctx, t.execer(), id)
}

func issueExists(ctx context.Context, e execer, id int64) (bool, error) {
	var one int
	err := e.QueryRowContext(ctx, `SELECT 1 FROM issues WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, wrapDBError("check issue exists", err)
	}
	return true, nil
}

func (s *Store) IssueExists(ctx context.Context, id int64) (bool, error) {
	return issueExists(ctx, s.execer(), id)
}

func (t *Tx) IssueExists(ctx context.Context, id int64) (bool, error) {
	return issueExists(ctx, t.execer(), id)
}

// IssueUpdate is a sparse set of column updates. Nil fields are left
// unchanged. Files/Tags, when non-nil, fully replace the stored value
// (§4.4: "Replacement fields overwrite").
type IssueUpdate struct {
	Title       *string
	Status      *types.Status
	Priority    *types.Priority
	Kind        *types.Kind
	Context     *string
	Files       *[]string
	Tags        *[]string
	Acceptance  *string
	ParentID    **int64 // double pointer: nil means "don't touch", *ParentID==nil means "clear"
	CloseReason *string
}

func updateIssue(ctx context.Context, e execer, id int64, upd IssueUpdate, now string) error {
	sets := []string{}
	args := []interface{}{}

	add := func(col string, val interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}

	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.Priority != nil {
		add("priority", *upd.Priority)
	}
	if upd.Kind != nil {
		add("kind", *upd.Kind)
	}
	if upd.Context != nil {
		add("context", *upd.Context)
	}
	if upd.Files != nil {
		add("files", encodeStrings(dedupPreserveOrder(*upd.Files)))
	}
	if upd.Tags != nil {
		add("tags", encodeStrings(dedupPreserveOrder(*upd.Tags)))
	}
	if upd.Acceptance != nil {
		add("acceptance", *upd.Acceptance)
	}
	if upd.ParentID != nil {
		add("parent_id", *upd.ParentID)
	}
	if upd.CloseReason != nil {
		add("close_reason", *upd.CloseReason)
	}

	if len(sets) == 0 {
		return nil
	}

	add("updated_at", now)

	query := "UPDATE issues SET "
	for i, s := range sets {
		if i > 0 {
			query += ", "
		}
		query += s
	}
	query += " WHERE id = ?"
	args = append(args, id)

	res, err := e.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapDBError("update issue", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapDBError("update issue rows affected", err)
	}
	if n == 0 {
		return errs.NotFoundf("issue %d not found", id)
	}
	return nil
}

func (s *Store) UpdateIssue(ctx context.Context, id int64, upd IssueUpdate, now string) error {
	return updateIssue(ctx, s.execer(), id, upd, now)
}

func (t *Tx) UpdateIssue(ctx context.Context, id int64, upd IssueUpdate, now string) error {
	return updateIssue(ctx, t.execer(), id, upd, now)
}

// TouchIssue bumps updated_at without changing any other column, used by
// note insertion (§3 Lifecycle: note "adds children without modifying the
// issue row except for updated_at"). It sets updated_at with its own
// explicit UPDATE rather than depending on the backstop trigger's WHEN
// guard.
func touchIssue(ctx context.Context, e execer, id int64, now string) error {
	res, err := e.ExecContext(ctx, `UPDATE issues SET updated_at = ? WHERE id = ?`, now, id)
	if err != nil {
		return wrapDBError("touch issue", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapDBError("touch issue rows affected", err)
	}
	if n == 0 {
		return errs.NotFoundf("issue %d not found", id)
	}
	return nil
}

func (s *Store) TouchIssue(ctx context.Context, id int64, now string) error {
	return touchIssue(ctx, s.execer(), id, now)
}

func (t *Tx) TouchIssue(ctx context.Context, id int64, now string) error {
	return touchIssue(ctx, t.execer(), id, now)
}

// ClearParent sets parent_id to NULL on every issue that references
// parentID, mirroring §3 invariant 4 ("on target deletion it becomes
// null"). nit does not expose issue deletion through the core command
// surface, and nothing in the tree calls it; the cascade exists for
// completeness.
func clearParent(ctx context.Context, e execer, parentID int64) error {
	_, err := e.ExecContext(ctx, `UPDATE issues SET parent_id = NULL WHERE parent_id = ?`, parentID)
	return wrapDBError("clear parent references", err)
}

func (s *Store) ClearParent(ctx context.Context, parentID int64) error {
	return clearParent(ctx, s.execer(), parentID)
}

func (t *Tx) ClearParent(ctx context.Context, parentID int64) error {
	return clearParent(ctx, t.execer(), parentID)
}
