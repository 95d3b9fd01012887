package engine

import (
	"context"

	"github.com/nit-tools/nit/internal/graph"
	"github.com/nit-tools/nit/internal/store"
)

// Depend records that blockerID blocks blockedID (§4.2, §4.4 depend). Thin
// wrapper over Graph.AddEdge, transactional.
func (e *Engine) Depend(ctx context.Context, blockerID, blockedID int64) error {
	return e.Store.RunInTransaction(ctx, func(tx *store.Tx) error {
		return graph.AddEdge(ctx, tx, blockerID, blockedID, e.nowString())
	})
}

// Undepend removes the blockerID -> blockedID edge, returning any issues
// newly unblocked as a result (§4.2, §4.4 undepend).
func (e *Engine) Undepend(ctx context.Context, blockerID, blockedID int64) ([]int64, error) {
	var unblocked []int64
	err := e.Store.RunInTransaction(ctx, func(tx *store.Tx) error {
		var err error
		unblocked, err = graph.RemoveEdge(ctx, tx, blockerID, blockedID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return unblocked, nil
}
