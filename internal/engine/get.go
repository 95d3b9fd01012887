package engine

import (
	"context"

	"github.com/nit-tools/nit/internal/nit/types"
)

// Get returns the full detail object for id (§4.4 get).
func (e *Engine) Get(ctx context.Context, id int64) (*types.IssueDetail, error) {
	iss, err := e.Store.GetIssue(ctx, id)
	if err != nil {
		return nil, err
	}
	coeffs, err := e.coefficients(ctx, e.Store)
	if err != nil {
		return nil, err
	}
	return detailFor(ctx, e.Store, iss, coeffs, e.now())
}
