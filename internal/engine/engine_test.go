package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nit-tools/nit/internal/nit/errs"
	"github.com/nit-tools/nit/internal/nit/types"
	"github.com/nit-tools/nit/internal/store"
)

// newTestEngine opens a fresh on-disk database under t.TempDir() (sqlite's
// :memory: DSN doesn't survive the pooling/pragma setup store.Open relies
// on) and returns an Engine with a fixed clock, so timestamp-derived
// urgency terms are deterministic across runs.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.nit.db")
	s, err := store.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	fixedNow := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	return &Engine{Store: s, Now: func() time.Time { return fixedNow }}
}

func mustAdd(t *testing.T, e *Engine, title string) *types.IssueDetail {
	t.Helper()
	d, err := e.Add(context.Background(), AddInput{Title: title})
	require.NoError(t, err)
	return d
}

func TestAdd(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	d, err := e.Add(ctx, AddInput{Title: "fix the thing", Priority: types.PriorityHigh, Kind: types.KindBug})
	require.NoError(t, err)
	require.Equal(t, "fix the thing", d.Title)
	require.Equal(t, types.StatusOpen, d.Status)
	require.Equal(t, types.PriorityHigh, d.Priority)
	require.False(t, d.IsBlocked)

	t.Run("defaults priority and kind", func(t *testing.T) {
		d, err := e.Add(ctx, AddInput{Title: "untyped"})
		require.NoError(t, err)
		require.Equal(t, types.PriorityMedium, d.Priority)
		require.Equal(t, types.KindTask, d.Kind)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := e.Add(ctx, AddInput{Title: ""})
		require.Error(t, err)
		require.Equal(t, errs.InvalidValue, errs.KindOf(err))
	})

	t.Run("rejects invalid priority", func(t *testing.T) {
		_, err := e.Add(ctx, AddInput{Title: "x", Priority: types.Priority("urgent-ish")})
		require.Error(t, err)
		require.Equal(t, errs.InvalidValue, errs.KindOf(err))
	})

	t.Run("blocked_by wires a dependency edge", func(t *testing.T) {
		blocker := mustAdd(t, e, "blocker")
		blocked, err := e.Add(ctx, AddInput{Title: "blocked", BlockedBy: []int64{blocker.ID}})
		require.NoError(t, err)
		require.True(t, blocked.IsBlocked)
		require.Equal(t, []int64{blocker.ID}, blocked.BlockedBy)
	})

	t.Run("unknown parent is NotFound", func(t *testing.T) {
		missing := int64(999999)
		_, err := e.Add(ctx, AddInput{Title: "orphan", ParentID: &missing})
		require.Error(t, err)
		require.Equal(t, errs.NotFound, errs.KindOf(err))
	})
}

func TestGetAndList(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	a := mustAdd(t, e, "alpha")
	_ = mustAdd(t, e, "beta")

	got, err := e.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "alpha", got.Title)

	t.Run("unknown id is NotFound", func(t *testing.T) {
		_, err := e.Get(ctx, 404)
		require.Error(t, err)
		require.Equal(t, errs.NotFound, errs.KindOf(err))
	})

	t.Run("list defaults to open/in-progress", func(t *testing.T) {
		summaries, err := e.List(ctx, ListInput{})
		require.NoError(t, err)
		require.Len(t, summaries, 2)
	})

	t.Run("list filters by priority", func(t *testing.T) {
		_, err := e.Add(ctx, AddInput{Title: "critical one", Priority: types.PriorityCritical})
		require.NoError(t, err)
		summaries, err := e.List(ctx, ListInput{Priorities: []types.Priority{types.PriorityCritical}})
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		require.Equal(t, "critical one", summaries[0].Title)
	})
}

func TestUpdateAndClose(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	a := mustAdd(t, e, "to update")

	newTitle := "renamed"
	res, err := e.Update(ctx, a.ID, UpdateInput{Title: &newTitle})
	require.NoError(t, err)
	require.Equal(t, "renamed", res.Detail.Title)

	t.Run("close sets done and reason", func(t *testing.T) {
		res, err := e.Close(ctx, a.ID, CloseInput{Reason: "shipped"})
		require.NoError(t, err)
		require.Equal(t, types.StatusDone, res.Detail.Status)
	})

	t.Run("closing unblocks dependents", func(t *testing.T) {
		blocker := mustAdd(t, e, "blocker2")
		blocked, err := e.Add(ctx, AddInput{Title: "blocked2", BlockedBy: []int64{blocker.ID}})
		require.NoError(t, err)
		require.True(t, blocked.IsBlocked)

		res, err := e.Close(ctx, blocker.ID, CloseInput{})
		require.NoError(t, err)
		require.Contains(t, res.Unblocked, blocked.ID)

		after, err := e.Get(ctx, blocked.ID)
		require.NoError(t, err)
		require.False(t, after.IsBlocked)
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		bad := types.Status("nope")
		_, err := e.Update(ctx, a.ID, UpdateInput{Status: &bad})
		require.Error(t, err)
		require.Equal(t, errs.InvalidValue, errs.KindOf(err))
	})
}

func TestNoteAppendsWithoutChangingStatus(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	a := mustAdd(t, e, "noted")

	require.NoError(t, e.AddNote(ctx, a.ID, "investigating", "agent-1"))

	got, err := e.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, types.StatusOpen, got.Status)
	require.Len(t, got.Notes, 1)
	require.Equal(t, "investigating", got.Notes[0].Content)

	t.Run("rejects empty content", func(t *testing.T) {
		err := e.AddNote(ctx, a.ID, "", "agent-1")
		require.Error(t, err)
		require.Equal(t, errs.InvalidValue, errs.KindOf(err))
	})
}

func TestDependCycleRejection(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	a := mustAdd(t, e, "a")
	b := mustAdd(t, e, "b")

	require.NoError(t, e.Depend(ctx, a.ID, b.ID))

	t.Run("reverse edge would close a cycle", func(t *testing.T) {
		err := e.Depend(ctx, b.ID, a.ID)
		require.Error(t, err)
		require.Equal(t, errs.CycleDetected, errs.KindOf(err))
	})

	t.Run("self edge rejected", func(t *testing.T) {
		err := e.Depend(ctx, a.ID, a.ID)
		require.Error(t, err)
	})

	t.Run("undepend unblocks", func(t *testing.T) {
		unblocked, err := e.Undepend(ctx, a.ID, b.ID)
		require.NoError(t, err)
		require.Contains(t, unblocked, b.ID)
	})
}

func TestNextAndReady(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Next(ctx, NextInput{})
	require.ErrorIs(t, err, ErrEmptyResult)

	low := mustAdd(t, e, "low priority")
	_, err = e.Update(ctx, low.ID, UpdateInput{})
	require.NoError(t, err)
	high, err := e.Add(ctx, AddInput{Title: "high priority", Priority: types.PriorityCritical})
	require.NoError(t, err)

	ready, err := e.Ready(ctx, ReadyInput{})
	require.NoError(t, err)
	require.Len(t, ready, 2)
	require.Equal(t, high.ID, ready[0].ID)

	t.Run("next claims highest urgency and flips to in-progress", func(t *testing.T) {
		picked, err := e.Next(ctx, NextInput{Claim: true})
		require.NoError(t, err)
		require.Equal(t, high.ID, picked.ID)
		require.Equal(t, types.StatusInProgress, picked.Status)

		again, err := e.Next(ctx, NextInput{})
		require.NoError(t, err)
		require.Equal(t, low.ID, again.ID)
	})
}

func TestBatchAdd(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	result, err := e.BatchAdd(ctx, []BatchItem{
		{Title: "root"},
		{Title: "child", BlockedBy: []string{"@0"}},
	})
	require.NoError(t, err)
	require.Len(t, result.IDs, 2)

	child, err := e.Get(ctx, result.IDs[1])
	require.NoError(t, err)
	require.True(t, child.IsBlocked)

	t.Run("rejects invalid batch reference", func(t *testing.T) {
		_, err := e.BatchAdd(ctx, []BatchItem{{Title: "x", BlockedBy: []string{"@5"}}})
		require.Error(t, err)
	})

	t.Run("rejects a bidirectional @N reference pair as a cycle", func(t *testing.T) {
		_, err := e.BatchAdd(ctx, []BatchItem{
			{Title: "A", BlockedBy: []string{"@1"}},
			{Title: "B", BlockedBy: []string{"@0"}},
		})
		require.Error(t, err)
		require.Equal(t, errs.CycleDetected, errs.KindOf(err))
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		result, err := e.BatchAdd(ctx, nil)
		require.NoError(t, err)
		require.Empty(t, result.IDs)
	})
}

func TestConfigRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, ok, err := e.ConfigGet(ctx, "urgency.priority.critical")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, e.ConfigSet(ctx, "urgency.priority.critical", "5.0"))
	value, ok, err := e.ConfigGet(ctx, "urgency.priority.critical")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "5.0", value)

	list, err := e.ConfigList(ctx)
	require.NoError(t, err)
	require.Equal(t, "5.0", list["urgency.priority.critical"])

	require.NoError(t, e.ConfigReset(ctx))
	list, err = e.ConfigList(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	e := &Engine{}

	result, err := e.Init(context.Background(), dir)
	require.NoError(t, err)
	require.True(t, result.Created)
	require.FileExists(t, filepath.Join(dir, "config.toml"))

	t.Run("second init reports Created=false", func(t *testing.T) {
		result, err := e.Init(context.Background(), dir)
		require.NoError(t, err)
		require.False(t, result.Created)
	})

	t.Run("agents-md appends a reference block", func(t *testing.T) {
		require.NoError(t, AppendAgentsMD(dir))
		require.FileExists(t, filepath.Join(dir, "AGENTS.md"))
	})
}
