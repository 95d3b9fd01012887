package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory edgeStore stand-in, letting graph logic be
// tested without a real database.
type fakeStore struct {
	issues      map[int64]bool
	edges       map[[2]int64]bool
	activeDeps  map[int64]bool // issue id -> is active
	successors  map[int64][]int64
	blockedDeps map[int64][]int64 // issue id -> ids it blocks
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		issues:      map[int64]bool{},
		edges:       map[[2]int64]bool{},
		activeDeps:  map[int64]bool{},
		successors:  map[int64][]int64{},
		blockedDeps: map[int64][]int64{},
	}
}

func (f *fakeStore) addIssue(id int64, active bool) {
	f.issues[id] = true
	f.activeDeps[id] = active
}

func (f *fakeStore) IssueExists(ctx context.Context, id int64) (bool, error) {
	return f.issues[id], nil
}

func (f *fakeStore) DependencyExists(ctx context.Context, blockerID, blockedID int64) (bool, error) {
	return f.edges[[2]int64{blockerID, blockedID}], nil
}

func (f *fakeStore) InsertDependency(ctx context.Context, blockerID, blockedID int64, now string) error {
	f.edges[[2]int64{blockerID, blockedID}] = true
	f.successors[blockerID] = append(f.successors[blockerID], blockedID)
	f.blockedDeps[blockerID] = append(f.blockedDeps[blockerID], blockedID)
	return nil
}

func (f *fakeStore) DeleteDependency(ctx context.Context, blockerID, blockedID int64) error {
	delete(f.edges, [2]int64{blockerID, blockedID})
	return nil
}

func (f *fakeStore) SuccessorIDs(ctx context.Context, id int64) ([]int64, error) {
	return f.successors[id], nil
}

func (f *fakeStore) ActiveBlockerCount(ctx context.Context, issueID int64) (int, error) {
	n := 0
	for edge := range f.edges {
		if edge[1] == issueID && f.activeDeps[edge[0]] {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) ActiveBlockedDependents(ctx context.Context, issueID int64) ([]int64, error) {
	var out []int64
	for _, d := range f.blockedDeps[issueID] {
		if f.activeDeps[d] {
			out = append(out, d)
		}
	}
	return out, nil
}

func TestAddEdgeRejectsSelfEdge(t *testing.T) {
	f := newFakeStore()
	f.addIssue(1, true)
	err := AddEdge(context.Background(), f, 1, 1, "now")
	require.Error(t, err)
}

func TestAddEdgeIdempotent(t *testing.T) {
	f := newFakeStore()
	f.addIssue(1, true)
	f.addIssue(2, true)
	require.NoError(t, AddEdge(context.Background(), f, 1, 2, "now"))
	require.NoError(t, AddEdge(context.Background(), f, 1, 2, "now"))
	assert.True(t, f.edges[[2]int64{1, 2}])
}

func TestAddEdgeRejectsCycle(t *testing.T) {
	f := newFakeStore()
	f.addIssue(1, true)
	f.addIssue(2, true)
	f.addIssue(3, true)
	require.NoError(t, AddEdge(context.Background(), f, 1, 2, "now"))
	require.NoError(t, AddEdge(context.Background(), f, 2, 3, "now"))

	err := AddEdge(context.Background(), f, 3, 1, "now")
	require.Error(t, err)
}

func TestRemoveEdgeReportsUnblocked(t *testing.T) {
	f := newFakeStore()
	f.addIssue(1, true)
	f.addIssue(2, true)
	require.NoError(t, AddEdge(context.Background(), f, 1, 2, "now"))

	unblocked, err := RemoveEdge(context.Background(), f, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, unblocked)
}

func TestRemoveEdgeIdempotent(t *testing.T) {
	f := newFakeStore()
	f.addIssue(1, true)
	f.addIssue(2, true)

	unblocked, err := RemoveEdge(context.Background(), f, 1, 2)
	require.NoError(t, err)
	assert.Nil(t, unblocked)
}

func TestPropagateUnblock(t *testing.T) {
	f := newFakeStore()
	f.addIssue(1, true)
	f.addIssue(2, true)
	f.addIssue(3, true)
	require.NoError(t, AddEdge(context.Background(), f, 1, 3, "now"))
	require.NoError(t, AddEdge(context.Background(), f, 2, 3, "now"))

	// 1 closes; 3 still has 2 as an active blocker.
	f.activeDeps[1] = false
	unblocked, err := PropagateUnblock(context.Background(), f, 1)
	require.NoError(t, err)
	assert.Empty(t, unblocked)

	// 2 closes too; 3 is now unblocked.
	f.activeDeps[2] = false
	unblocked, err = PropagateUnblock(context.Background(), f, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, unblocked)
}
