package engine

import (
	"context"

	"github.com/nit-tools/nit/internal/nit/errs"
	"github.com/nit-tools/nit/internal/nit/types"
)

// ErrEmptyResult signals a successful query with zero rows, mapped by
// Surface to exit code 2 (§6, §7) rather than treated as a failure.
var ErrEmptyResult = errs.New(errs.NotFound, "empty result")

// ReadyInput is the filter/limit request for `ready` (§4.4).
type ReadyInput struct {
	Statuses []types.Status // defaults to {open} when empty
	Limit    int
}

// Ready returns all active, unblocked issues sorted by urgency descending.
func (e *Engine) Ready(ctx context.Context, in ReadyInput) ([]types.IssueSummary, error) {
	statuses := in.Statuses
	if len(statuses) == 0 {
		statuses = []types.Status{types.StatusOpen}
	}
	return e.List(ctx, ListInput{
		Statuses: statuses,
		Sort:     types.SortUrgency,
		Limit:    in.Limit,
	})
}
