// Package graph implements the dependency-graph operations of §4.2: adding
// and removing blocker/blocked edges with cycle prevention, the is-blocked
// and blocks-active predicates, and unblock propagation when an issue
// reaches a terminal status. It is grounded on internal/deps/deps.go's BFS
// cycle check, generalized from beads' single global dependency table to
// nit's store-backed transaction.
package graph

import (
	"context"
	"fmt"

	"github.com/nit-tools/nit/internal/nit/errs"
)

// edgeStore is the subset of *store.Store / *store.Tx the graph needs,
// satisfied identically by both so AddEdge/RemoveEdge run inside or outside
// a transaction.
type edgeStore interface {
	IssueExists(ctx context.Context, id int64) (bool, error)
	DependencyExists(ctx context.Context, blockerID, blockedID int64) (bool, error)
	InsertDependency(ctx context.Context, blockerID, blockedID int64, now string) error
	DeleteDependency(ctx context.Context, blockerID, blockedID int64) error
	SuccessorIDs(ctx context.Context, id int64) ([]int64, error)
	ActiveBlockerCount(ctx context.Context, issueID int64) (int, error)
	ActiveBlockedDependents(ctx context.Context, issueID int64) ([]int64, error)
}

// AddEdge records that blockerID blocks blockedID (§4.2 depend). It is
// idempotent when the edge already exists, rejects self-edges, and rejects
// edges that would close a cycle, reporting the cycle path.
func AddEdge(ctx context.Context, s edgeStore, blockerID, blockedID int64, now string) error {
	if blockerID == blockedID {
		return errs.InvalidValuef("an issue cannot block itself")
	}

	blockerOK, err := s.IssueExists(ctx, blockerID)
	if err != nil {
		return err
	}
	if !blockerOK {
		return errs.NotFoundf("issue %d not found", blockerID)
	}
	blockedOK, err := s.IssueExists(ctx, blockedID)
	if err != nil {
		return err
	}
	if !blockedOK {
		return errs.NotFoundf("issue %d not found", blockedID)
	}

	exists, err := s.DependencyExists(ctx, blockerID, blockedID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	path, err := findPath(ctx, s, blockedID, blockerID)
	if err != nil {
		return err
	}
	if path != nil {
		return errs.CycleDetectedf("adding %d -> %d would create a cycle: %s",
			blockerID, blockedID, formatPath(append(path, blockedID)))
	}

	return s.InsertDependency(ctx, blockerID, blockedID, now)
}

// findPath runs a BFS from start over the blocks-edges (SuccessorIDs),
// returning the first path found to target, or nil if target is
// unreachable. Adding blockerID -> blockedID closes a cycle exactly when
// blockerID is already reachable from blockedID, so AddEdge calls this with
// start=blockedID, target=blockerID.
func findPath(ctx context.Context, s edgeStore, start, target int64) ([]int64, error) {
	type frame struct {
		id   int64
		path []int64
	}
	visited := map[int64]bool{start: true}
	queue := []frame{{id: start, path: []int64{start}}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.id == target {
			return cur.path, nil
		}

		next, err := s.SuccessorIDs(ctx, cur.id)
		if err != nil {
			return nil, err
		}
		for _, n := range next {
			if visited[n] {
				continue
			}
			visited[n] = true
			path := make([]int64, len(cur.path), len(cur.path)+1)
			copy(path, cur.path)
			path = append(path, n)
			queue = append(queue, frame{id: n, path: path})
		}
	}
	return nil, nil
}

func formatPath(ids []int64) string {
	s := ""
	for i, id := range ids {
		if i > 0 {
			s += " -> "
		}
		s += fmt.Sprintf("%d", id)
	}
	return s
}

// RemoveEdge deletes the blockerID -> blockedID edge (§4.2 undepend). It is
// idempotent when the edge is absent, and returns the ids (if any) that
// become unblocked as a result — blockedID itself, when no active blocker
// of it remains.
func RemoveEdge(ctx context.Context, s edgeStore, blockerID, blockedID int64) (unblocked []int64, err error) {
	exists, err := s.DependencyExists(ctx, blockerID, blockedID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	if err := s.DeleteDependency(ctx, blockerID, blockedID); err != nil {
		return nil, err
	}

	count, err := s.ActiveBlockerCount(ctx, blockedID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return []int64{blockedID}, nil
	}
	return nil, nil
}

// IsBlocked reports whether issueID has at least one active blocker
// (§4.2 is-blocked predicate).
func IsBlocked(ctx context.Context, s edgeStore, issueID int64) (bool, error) {
	n, err := s.ActiveBlockerCount(ctx, issueID)
	return n > 0, err
}

// PropagateUnblock enumerates the issues issueID directly blocks that are
// still active, and returns those among them whose only remaining active
// blocker was issueID — i.e. the set that becomes unblocked now that
// issueID has reached a terminal status (§4.2, used by close/update).
func PropagateUnblock(ctx context.Context, s edgeStore, issueID int64) ([]int64, error) {
	dependents, err := s.ActiveBlockedDependents(ctx, issueID)
	if err != nil {
		return nil, err
	}
	var newlyUnblocked []int64
	for _, d := range dependents {
		n, err := s.ActiveBlockerCount(ctx, d)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			newlyUnblocked = append(newlyUnblocked, d)
		}
	}
	return newlyUnblocked, nil
}
