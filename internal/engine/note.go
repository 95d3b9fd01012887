package engine

import (
	"context"

	"github.com/nit-tools/nit/internal/nit/errs"
	"github.com/nit-tools/nit/internal/store"
)

// AddNote appends a note row to issueID and bumps its updated_at (§3
// Lifecycle, §4.4 note). Note insertion never changes any other issue
// column.
func (e *Engine) AddNote(ctx context.Context, issueID int64, content, agent string) error {
	if content == "" {
		return errs.InvalidValuef("note content is required")
	}
	return e.Store.RunInTransaction(ctx, func(tx *store.Tx) error {
		now := e.nowString()
		ok, err := tx.IssueExists(ctx, issueID)
		if err != nil {
			return err
		}
		if !ok {
			return errs.NotFoundf("issue %d not found", issueID)
		}
		if _, err := tx.InsertNote(ctx, issueID, content, agent, now); err != nil {
			return err
		}
		return tx.TouchIssue(ctx, issueID, now)
	})
}
