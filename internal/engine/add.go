package engine

import (
	"context"

	"github.com/nit-tools/nit/internal/nit/errs"
	"github.com/nit-tools/nit/internal/nit/types"
	"github.com/nit-tools/nit/internal/store"
)

// AddInput is the request shape for `add`, built either from CLI flags or
// from a single --stdin-json object (§4.4).
type AddInput struct {
	Title      string         `json:"title"`
	Priority   types.Priority `json:"priority"`
	Kind       types.Kind     `json:"kind"`
	Context    string         `json:"context"`
	Files      []string       `json:"files"`
	Tags       []string       `json:"tags"`
	Acceptance string         `json:"acceptance"`
	BlockedBy  []int64        `json:"blocked_by"`
	ParentID   *int64         `json:"parent_id"`
}

// normalize fills in defaults and validates enumerations for Add; BatchAdd
// validates its items through validateBatchItem instead.
func (in *AddInput) normalize() error {
	if in.Title == "" {
		return errs.InvalidValuef("title is required")
	}
	if in.Priority == "" {
		in.Priority = types.PriorityMedium
	}
	if in.Kind == "" {
		in.Kind = types.KindTask
	}
	if err := validatePriority(in.Priority); err != nil {
		return err
	}
	if err := validateKind(in.Kind); err != nil {
		return err
	}
	return nil
}

// Add creates a new issue and its blocker edges inside one transaction,
// returning the materialized detail with computed urgency (§4.4 add).
func (e *Engine) Add(ctx context.Context, in AddInput) (*types.IssueDetail, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	var detail *types.IssueDetail
	err := e.Store.RunInTransaction(ctx, func(tx *store.Tx) error {
		now := e.nowString()

		if in.ParentID != nil {
			ok, err := tx.IssueExists(ctx, *in.ParentID)
			if err != nil {
				return err
			}
			if !ok {
				return errs.NotFoundf("parent issue %d not found", *in.ParentID)
			}
		}
		for _, blockerID := range in.BlockedBy {
			ok, err := tx.IssueExists(ctx, blockerID)
			if err != nil {
				return err
			}
			if !ok {
				return errs.NotFoundf("blocker issue %d not found", blockerID)
			}
		}

		id, err := tx.InsertIssue(ctx, store.NewIssue{
			Title:      in.Title,
			Status:     types.StatusOpen,
			Priority:   in.Priority,
			Kind:       in.Kind,
			Context:    in.Context,
			Files:      in.Files,
			Tags:       in.Tags,
			Acceptance: in.Acceptance,
			ParentID:   in.ParentID,
		}, now)
		if err != nil {
			return err
		}

		// A freshly inserted issue has no outgoing edges yet, so a blocker
		// edge into it can never close a cycle; no Graph.AddEdge check needed.
		for _, blockerID := range in.BlockedBy {
			if err := tx.InsertDependency(ctx, blockerID, id, now); err != nil {
				return err
			}
		}

		iss, err := tx.GetIssue(ctx, id)
		if err != nil {
			return err
		}
		coeffs, err := e.coefficients(ctx, tx)
		if err != nil {
			return err
		}
		detail, err = detailFor(ctx, tx, iss, coeffs, e.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}
