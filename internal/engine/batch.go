package engine

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nit-tools/nit/internal/graph"
	"github.com/nit-tools/nit/internal/nit/errs"
	"github.com/nit-tools/nit/internal/nit/types"
	"github.com/nit-tools/nit/internal/store"
)

// BatchItem is one element of a `batch add` array (§4.4). BlockedBy mixes
// existing issue ids and `@N` batch-local references.
type BatchItem struct {
	Title      string         `json:"title"`
	Priority   types.Priority `json:"priority"`
	Kind       types.Kind     `json:"kind"`
	Context    string         `json:"context"`
	Files      []string       `json:"files"`
	Tags       []string       `json:"tags"`
	Acceptance string         `json:"acceptance"`
	BlockedBy  []string       `json:"blocked_by"` // "123" or "@N"
	ParentID   *int64         `json:"parent_id"`
}

// BatchAddResult reports the assigned id of every created issue, in the
// same order as the input array.
type BatchAddResult struct {
	IDs []int64 `json:"ids"`
}

// BatchAdd inserts every item in one transaction (§4.4 batch add). Items
// are validated concurrently (errgroup) before any write, then inserted in
// array order, then their blocked_by references are resolved and inserted,
// each edge running the usual cycle check. Any failure rolls the whole
// batch back.
func (e *Engine) BatchAdd(ctx context.Context, items []BatchItem) (*BatchAddResult, error) {
	if len(items) == 0 {
		return &BatchAddResult{}, nil
	}

	// Step 1: validate every item's enumerations and referenced ids
	// concurrently. Existing-id references are checked here too; @N
	// references are purely syntactic at this stage and checked against
	// the batch's own length.
	g, gctx := errgroup.WithContext(ctx)
	for i := range items {
		i := i
		g.Go(func() error {
			return validateBatchItem(gctx, e.Store, items[i], len(items))
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var result *BatchAddResult
	err := e.Store.RunInTransaction(ctx, func(tx *store.Tx) error {
		now := e.nowString()
		ids := make([]int64, len(items))

		// Step 2: insert every issue in order, recording assigned ids.
		for i, item := range items {
			priority := item.Priority
			if priority == "" {
				priority = types.PriorityMedium
			}
			kind := item.Kind
			if kind == "" {
				kind = types.KindTask
			}
			id, err := tx.InsertIssue(ctx, store.NewIssue{
				Title:      item.Title,
				Status:     types.StatusOpen,
				Priority:   priority,
				Kind:       kind,
				Context:    item.Context,
				Files:      item.Files,
				Tags:       item.Tags,
				Acceptance: item.Acceptance,
				ParentID:   item.ParentID,
			}, now)
			if err != nil {
				return err
			}
			ids[i] = id
		}

		// Step 3 + 4: resolve blocked_by references and insert dependency
		// rows, each running the normal cycle check. Unlike Add, a @N
		// reference can point forward in the array as well as backward, so
		// two items can name each other as blockers; AddEdge's BFS check is
		// what actually catches that 2-cycle (§4.4 batch add step 4).
		for i, item := range items {
			for _, ref := range item.BlockedBy {
				blockerID, err := resolveBatchRef(ref, ids)
				if err != nil {
					return err
				}
				if err := graph.AddEdge(ctx, tx, blockerID, ids[i], now); err != nil {
					return err
				}
			}
		}

		result = &BatchAddResult{IDs: ids}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// validateBatchItem checks one item's enumerations, parent existence and
// non-reference blocker ids. @N references are checked against batchLen
// only; they cannot be resolved to a row until insertion (step 2).
func validateBatchItem(ctx context.Context, s *store.Store, item BatchItem, batchLen int) error {
	if item.Title == "" {
		return errs.InvalidValuef("title is required")
	}
	if item.Priority != "" {
		if err := validatePriority(item.Priority); err != nil {
			return err
		}
	}
	if item.Kind != "" {
		if err := validateKind(item.Kind); err != nil {
			return err
		}
	}
	if item.ParentID != nil {
		ok, err := s.IssueExists(ctx, *item.ParentID)
		if err != nil {
			return err
		}
		if !ok {
			return errs.NotFoundf("parent issue %d not found", *item.ParentID)
		}
	}
	for _, ref := range item.BlockedBy {
		if strings.HasPrefix(ref, "@") {
			n, err := strconv.Atoi(strings.TrimPrefix(ref, "@"))
			if err != nil || n < 0 || n >= batchLen {
				return errs.InvalidValuef("invalid batch reference %q", ref)
			}
			continue
		}
		id, err := strconv.ParseInt(ref, 10, 64)
		if err != nil {
			return errs.InvalidValuef("invalid blocked_by reference %q", ref)
		}
		ok, err := s.IssueExists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return errs.NotFoundf("blocker issue %d not found", id)
		}
	}
	return nil
}

// resolveBatchRef turns a "123" or "@N" reference into the blocker's
// assigned id, given the ids already recorded for this batch in array
// order.
func resolveBatchRef(ref string, ids []int64) (int64, error) {
	if strings.HasPrefix(ref, "@") {
		n, err := strconv.Atoi(strings.TrimPrefix(ref, "@"))
		if err != nil || n < 0 || n >= len(ids) {
			return 0, errs.InvalidValuef("invalid batch reference %q", ref)
		}
		return ids[n], nil
	}
	return strconv.ParseInt(ref, 10, 64)
}
