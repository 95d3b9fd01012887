package engine

import (
	"context"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nit-tools/nit/internal/nit/errs"
	"github.com/nit-tools/nit/internal/nit/types"
	"github.com/nit-tools/nit/internal/store"
)

// defaultStuckDays is the in-progress age threshold doctor flags when
// `urgency.doctor.stuck_days` has no override (§4.4 doctor).
const defaultStuckDays = 3

// DoctorReport is the read-only integrity scan result (§4.4 doctor).
type DoctorReport struct {
	OrphanDependencies    []types.Dependency `json:"orphan_dependencies"`
	Cycles                [][]int64          `json:"cycles"`
	StuckInProgress       []int64            `json:"stuck_in_progress"`
	ChildlessEpics        []int64            `json:"childless_epics"`
	DanglingTerminalEdges []types.Dependency `json:"dangling_terminal_edges"`
}

// Anomalies reports whether the report found anything worth surfacing.
func (r *DoctorReport) Anomalies() bool {
	return len(r.OrphanDependencies) > 0 || len(r.Cycles) > 0 ||
		len(r.StuckInProgress) > 0 || len(r.ChildlessEpics) > 0 ||
		len(r.DanglingTerminalEdges) > 0
}

// DoctorFixResult reports what --fix actually removed.
type DoctorFixResult struct {
	OrphanEdgesRemoved   int `json:"orphan_edges_removed"`
	TerminalEdgesRemoved int `json:"terminal_edges_removed"`
}

// Doctor runs the full integrity scan (§4.4 doctor). It never mutates the
// database; see Fix for the narrow --fix repair path.
func (e *Engine) Doctor(ctx context.Context) (*DoctorReport, error) {
	issues, err := e.Store.ListIssues(ctx, store.ListFilter{
		Statuses:       []types.Status{types.StatusOpen, types.StatusInProgress, types.StatusDone, types.StatusWontfix},
		IncludeBlocked: true,
	})
	if err != nil {
		return nil, err
	}
	deps, err := e.Store.AllDependencies(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*types.Issue, len(issues))
	for _, row := range issues {
		byID[row.Issue.ID] = row.Issue
	}

	stuckDays := e.stuckThresholdDays(ctx)
	now := e.now()

	report := &DoctorReport{}
	adj := make(map[int64][]int64)

	for _, d := range deps {
		blocker, blockerOK := byID[d.BlockerID]
		blocked, blockedOK := byID[d.BlockedID]
		if !blockerOK || !blockedOK {
			report.OrphanDependencies = append(report.OrphanDependencies, d)
			continue
		}
		adj[d.BlockerID] = append(adj[d.BlockerID], d.BlockedID)
		if blocker.Status.Terminal() && blocked.Status.Active() {
			report.DanglingTerminalEdges = append(report.DanglingTerminalEdges, d)
		}
	}

	report.Cycles = tarjanCycles(byID, adj)

	childCount := make(map[int64]int)
	for _, row := range issues {
		if row.Issue.ParentID != nil {
			childCount[*row.Issue.ParentID]++
		}
	}
	for _, row := range issues {
		iss := row.Issue
		if iss.Kind == types.KindEpic && childCount[iss.ID] == 0 {
			report.ChildlessEpics = append(report.ChildlessEpics, iss.ID)
		}
		if iss.Status == types.StatusInProgress && now.Sub(iss.UpdatedAt) >= time.Duration(stuckDays)*24*time.Hour {
			report.StuckInProgress = append(report.StuckInProgress, iss.ID)
		}
	}

	return report, nil
}

func (e *Engine) stuckThresholdDays(ctx context.Context) int {
	raw, ok, err := e.Store.GetConfig(ctx, "urgency.doctor.stuck_days")
	if err != nil || !ok {
		return defaultStuckDays
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return defaultStuckDays
	}
	return days
}

// fixPlan is the YAML shape of doctor --fix's -v dry-run log: what would be
// deleted, never issue status changes (those never happen).
type fixPlan struct {
	OrphanEdges   []fixPlanEdge `yaml:"orphan_edges"`
	TerminalEdges []fixPlanEdge `yaml:"terminal_blocker_edges"`
}

type fixPlanEdge struct {
	Blocker int64 `yaml:"blocker"`
	Blocked int64 `yaml:"blocked"`
}

// FixPlanYAML renders the repair plan a Fix call against this report would
// execute, without running it. Intended for `doctor --fix -v`'s preview
// log.
func (r *DoctorReport) FixPlanYAML() (string, error) {
	plan := fixPlan{}
	for _, d := range r.OrphanDependencies {
		plan.OrphanEdges = append(plan.OrphanEdges, fixPlanEdge{Blocker: d.BlockerID, Blocked: d.BlockedID})
	}
	for _, d := range r.DanglingTerminalEdges {
		plan.TerminalEdges = append(plan.TerminalEdges, fixPlanEdge{Blocker: d.BlockerID, Blocked: d.BlockedID})
	}
	out, err := yaml.Marshal(plan)
	if err != nil {
		return "", errs.IoErrorf(err, "render fix plan")
	}
	return string(out), nil
}

// Fix removes orphan dependency edges and dangling terminal-blocker edges
// found by a fresh Doctor scan. It never changes an issue's status (§4.4:
// "never mutates issue statuses"). The deletes run over a short-lived
// modernc.org/sqlite connection opened outside the store's main pool.
func (e *Engine) Fix(ctx context.Context) (*DoctorFixResult, error) {
	report, err := e.Doctor(ctx)
	if err != nil {
		return nil, err
	}
	if len(report.OrphanDependencies) == 0 && len(report.DanglingTerminalEdges) == 0 {
		return &DoctorFixResult{}, nil
	}

	conn, err := store.OpenFixConn(ctx, e.Store.Path())
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	result := &DoctorFixResult{}
	for _, d := range report.OrphanDependencies {
		if _, err := conn.ExecContext(ctx, `DELETE FROM dependencies WHERE blocker_id = ? AND blocked_id = ?`,
			d.BlockerID, d.BlockedID); err != nil {
			return nil, err
		}
		result.OrphanEdgesRemoved++
	}
	for _, d := range report.DanglingTerminalEdges {
		if _, err := conn.ExecContext(ctx, `DELETE FROM dependencies WHERE blocker_id = ? AND blocked_id = ?`,
			d.BlockerID, d.BlockedID); err != nil {
			return nil, err
		}
		result.TerminalEdgesRemoved++
	}
	return result, nil
}

// tarjanCycles finds every strongly connected component of size > 1 in the
// blocker -> blocked adjacency (a single-node SCC with a self-loop cannot
// occur: the schema forbids blocker_id = blocked_id). Grounded on the
// standard iterative-free recursive formulation; the graphs this operates
// on are small (one user's issue backlog), so recursion depth is not a
// practical concern.
func tarjanCycles(byID map[int64]*types.Issue, adj map[int64][]int64) [][]int64 {
	index := make(map[int64]int)
	lowlink := make(map[int64]int)
	onStack := make(map[int64]bool)
	var stack []int64
	counter := 0
	var sccs [][]int64

	var ids []int64
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var strongconnect func(v int64)
	strongconnect = func(v int64) {
		index[v] = counter
		lowlink[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adj[v] {
			if _, seen := index[w]; !seen {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if index[w] < lowlink[v] {
					lowlink[v] = index[w]
				}
			}
		}

		if lowlink[v] == index[v] {
			var scc []int64
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			if len(scc) > 1 {
				sccs = append(sccs, scc)
			}
		}
	}

	for _, id := range ids {
		if _, seen := index[id]; !seen {
			strongconnect(id)
		}
	}
	return sccs
}
