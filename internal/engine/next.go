package engine

import (
	"context"

	"github.com/nit-tools/nit/internal/nit/types"
	"github.com/nit-tools/nit/internal/store"
)

// NextInput is the request shape for `next` (§4.4).
type NextInput struct {
	Claim bool
}

// Next selects the highest-urgency open, unblocked issue. With Claim set,
// it atomically transitions the selected issue to in-progress within the
// same transaction and returns the post-transition detail. Returns
// ErrEmptyResult if no issue qualifies.
func (e *Engine) Next(ctx context.Context, in NextInput) (*types.IssueDetail, error) {
	var detail *types.IssueDetail
	err := e.Store.RunInTransaction(ctx, func(tx *store.Tx) error {
		rows, err := tx.ListIssues(ctx, store.ListFilter{
			Statuses: []types.Status{types.StatusOpen},
		})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return ErrEmptyResult
		}

		coeffs, err := e.coefficients(ctx, tx)
		if err != nil {
			return err
		}
		now := e.now()

		var best *store.IssueRow
		var bestScore float64
		for i := range rows {
			_, score, err := scoreIssue(ctx, tx, rows[i].Issue, coeffs, now)
			if err != nil {
				return err
			}
			if best == nil || score > bestScore || (score == bestScore && rows[i].Issue.ID < best.Issue.ID) {
				r := rows[i]
				best = &r
				bestScore = score
			}
		}
		if best == nil {
			return ErrEmptyResult
		}

		id := best.Issue.ID
		if in.Claim {
			inProgress := types.StatusInProgress
			if err := tx.UpdateIssue(ctx, id, store.IssueUpdate{Status: &inProgress}, e.nowString()); err != nil {
				return err
			}
		}

		iss, err := tx.GetIssue(ctx, id)
		if err != nil {
			return err
		}
		detail, err = detailFor(ctx, tx, iss, coeffs, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}
