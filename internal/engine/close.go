package engine

import (
	"context"

	"github.com/nit-tools/nit/internal/nit/types"
)

// CloseInput is the request shape for `close`, sugar over Update to a
// terminal status with close_reason set (§4.4).
type CloseInput struct {
	Reason  string
	Wontfix bool
}

// Close transitions id to done (or wontfix with --wontfix) and records the
// reason, returning the same shape as Update.
func (e *Engine) Close(ctx context.Context, id int64, in CloseInput) (*UpdateResult, error) {
	status := types.StatusDone
	if in.Wontfix {
		status = types.StatusWontfix
	}
	reason := in.Reason
	return e.Update(ctx, id, UpdateInput{
		Status:      &status,
		CloseReason: &reason,
	})
}
