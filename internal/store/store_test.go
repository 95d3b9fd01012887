package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nit-tools/nit/internal/nit/errs"
	"github.com/nit-tools/nit/internal/nit/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.nit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestInsertAndGetIssue(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.InsertIssue(ctx, NewIssue{
		Title:    "first",
		Status:   types.StatusOpen,
		Priority: types.PriorityMedium,
		Kind:     types.KindTask,
		Tags:     []string{"x", "x", "y"},
	}, "2026-01-01T00:00:00Z")
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := s.GetIssue(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "first", got.Title)
	require.Equal(t, []string{"x", "y"}, got.Tags, "tags are deduplicated preserving first occurrence")

	t.Run("missing issue is NotFound", func(t *testing.T) {
		_, err := s.GetIssue(ctx, 99999)
		require.Error(t, err)
		require.Equal(t, errs.NotFound, errs.KindOf(err))
	})

	t.Run("IssueExists", func(t *testing.T) {
		ok, err := s.IssueExists(ctx, id)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = s.IssueExists(ctx, 99999)
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestDependencyEdges(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	blocker, err := s.InsertIssue(ctx, NewIssue{Title: "blocker", Status: types.StatusOpen, Priority: types.PriorityMedium, Kind: types.KindTask}, "2026-01-01T00:00:00Z")
	require.NoError(t, err)
	blocked, err := s.InsertIssue(ctx, NewIssue{Title: "blocked", Status: types.StatusOpen, Priority: types.PriorityMedium, Kind: types.KindTask}, "2026-01-01T00:00:00Z")
	require.NoError(t, err)

	require.NoError(t, s.InsertDependency(ctx, blocker, blocked, "2026-01-01T00:00:00Z"))

	exists, err := s.DependencyExists(ctx, blocker, blocked)
	require.NoError(t, err)
	require.True(t, exists)

	count, err := s.ActiveBlockerCount(ctx, blocked)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.NoError(t, s.DeleteDependency(ctx, blocker, blocked))
	exists, err = s.DependencyExists(ctx, blocker, blocked)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestConfigCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, ok, err := s.GetConfig(ctx, "nope")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.SetConfig(ctx, "k", "v"))
	value, ok, err := s.GetConfig(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", value)

	require.NoError(t, s.ResetConfig(ctx))
	_, ok, err = s.GetConfig(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRunInTransactionRollsBackOnError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sentinel := errs.InvalidValuef("boom")
	err := s.RunInTransaction(ctx, func(tx *Tx) error {
		_, err := tx.InsertIssue(ctx, NewIssue{Title: "rolled back", Status: types.StatusOpen, Priority: types.PriorityMedium, Kind: types.KindTask}, "2026-01-01T00:00:00Z")
		require.NoError(t, err)
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	rows, err := s.ListIssues(ctx, ListFilter{Statuses: []types.Status{types.StatusOpen}})
	require.NoError(t, err)
	require.Empty(t, rows, "transaction should have rolled back the insert")
}

func TestDiscoveryResolve(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, err := Resolve(filepath.Join(dir, "explicit.db"), false)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "explicit.db"), path)

	t.Run("requireExisting with nothing found is an error", func(t *testing.T) {
		old, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(nested))
		defer func() { _ = os.Chdir(old) }()

		_, err = Resolve("", true)
		require.Error(t, err)
	})
}
