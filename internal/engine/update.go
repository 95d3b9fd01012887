package engine

import (
	"context"

	"github.com/nit-tools/nit/internal/graph"
	"github.com/nit-tools/nit/internal/nit/errs"
	"github.com/nit-tools/nit/internal/nit/types"
	"github.com/nit-tools/nit/internal/store"
)

// UpdateInput is the sparse set of mutable fields `update` may change, plus
// the incremental tag/file operations (§4.4 update).
type UpdateInput struct {
	Title      *string
	Status     *types.Status
	Priority   *types.Priority
	Kind       *types.Kind
	Context    *string
	Files      *[]string // replacement
	Tags       *[]string // replacement
	Acceptance  *string
	ParentID    **int64
	CloseReason *string

	AddTags     []string
	RemoveTags  []string
	AddFiles    []string
	RemoveFiles []string
}

// UpdateResult carries the post-update detail plus any issues newly
// unblocked by a transition to terminal status (§4.2, §4.4).
type UpdateResult struct {
	Detail    *types.IssueDetail `json:"detail"`
	Unblocked []int64            `json:"unblocked"`
}

// Update applies the requested field changes to id inside one transaction.
// Replacement fields (Files, Tags) overwrite; incremental ops apply on top
// of whichever base (explicit replacement, or the stored value) in the
// order add-then-remove, deduplicated. A transition into a terminal status
// triggers unblock propagation (§4.2).
func (e *Engine) Update(ctx context.Context, id int64, in UpdateInput) (*UpdateResult, error) {
	if in.Priority != nil {
		if err := validatePriority(*in.Priority); err != nil {
			return nil, err
		}
	}
	if in.Kind != nil {
		if err := validateKind(*in.Kind); err != nil {
			return nil, err
		}
	}
	if in.Status != nil {
		if err := validateStatus(*in.Status); err != nil {
			return nil, err
		}
	}

	var result *UpdateResult
	err := e.Store.RunInTransaction(ctx, func(tx *store.Tx) error {
		now := e.nowString()

		before, err := tx.GetIssue(ctx, id)
		if err != nil {
			return err
		}

		if in.ParentID != nil && *in.ParentID != nil {
			ok, err := tx.IssueExists(ctx, **in.ParentID)
			if err != nil {
				return err
			}
			if !ok {
				return errs.NotFoundf("parent issue %d not found", **in.ParentID)
			}
		}

		upd := store.IssueUpdate{
			Title:       in.Title,
			Status:      in.Status,
			Priority:    in.Priority,
			Kind:        in.Kind,
			Context:     in.Context,
			Acceptance:  in.Acceptance,
			ParentID:    in.ParentID,
			CloseReason: in.CloseReason,
		}

		files := before.Files
		if in.Files != nil {
			files = *in.Files
		}
		files = applyIncrementalOps(files, in.AddFiles, in.RemoveFiles)
		if in.Files != nil || len(in.AddFiles) > 0 || len(in.RemoveFiles) > 0 {
			upd.Files = &files
		}

		tags := before.Tags
		if in.Tags != nil {
			tags = *in.Tags
		}
		tags = applyIncrementalOps(tags, in.AddTags, in.RemoveTags)
		if in.Tags != nil || len(in.AddTags) > 0 || len(in.RemoveTags) > 0 {
			upd.Tags = &tags
		}

		if err := tx.UpdateIssue(ctx, id, upd, now); err != nil {
			return err
		}

		var unblocked []int64
		if in.Status != nil && before.Status.Active() && in.Status.Terminal() {
			unblocked, err = graph.PropagateUnblock(ctx, tx, id)
			if err != nil {
				return err
			}
		}

		after, err := tx.GetIssue(ctx, id)
		if err != nil {
			return err
		}
		coeffs, err := e.coefficients(ctx, tx)
		if err != nil {
			return err
		}
		detail, err := detailFor(ctx, tx, after, coeffs, e.now())
		if err != nil {
			return err
		}
		result = &UpdateResult{Detail: detail, Unblocked: unblocked}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// applyIncrementalOps adds then removes elements from base, deduplicating
// and preserving the first-occurrence order (§3 invariant 5).
func applyIncrementalOps(base []string, add, remove []string) []string {
	out := append([]string{}, base...)
	out = append(out, add...)

	removeSet := make(map[string]bool, len(remove))
	for _, r := range remove {
		removeSet[r] = true
	}

	seen := make(map[string]bool, len(out))
	deduped := make([]string, 0, len(out))
	for _, v := range out {
		if removeSet[v] || seen[v] {
			continue
		}
		seen[v] = true
		deduped = append(deduped, v)
	}
	return deduped
}
