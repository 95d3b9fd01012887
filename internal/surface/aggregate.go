package surface

import (
	"fmt"
	"io"
	"sort"

	"github.com/nit-tools/nit/internal/engine"
)

// RenderStats writes a stats aggregate (§4.4 stats).
func RenderStats(w io.Writer, format Format, s *engine.Stats) error {
	if format == JSON {
		return writeJSON(w, s)
	}

	fmt.Fprintf(w, "TOTAL: %d\n", s.Total)
	for _, k := range sortedKeys(s.ByStatus) {
		fmt.Fprintf(w, "STATUS.%s: %d\n", k, s.ByStatus[k])
	}
	for _, k := range sortedKeys(s.ByPriority) {
		fmt.Fprintf(w, "PRIORITY.%s: %d\n", k, s.ByPriority[k])
	}
	for _, k := range sortedKeys(s.ByKind) {
		fmt.Fprintf(w, "KIND.%s: %d\n", k, s.ByKind[k])
	}
	fmt.Fprintf(w, "BLOCKED: %d\n", s.Blocked)
	fmt.Fprintf(w, "READY: %d\n", s.Ready)
	fmt.Fprintf(w, "MEAN_URGENCY: %.2f\n", s.MeanUrgency)
	if s.OldestOpenID != nil {
		fmt.Fprintf(w, "OLDEST_OPEN_ID: %d\n", *s.OldestOpenID)
		fmt.Fprintf(w, "OLDEST_OPEN_DAYS: %d\n", s.OldestOpenDays)
	}
	return nil
}

// RenderGraph writes the dependency subgraph (§4.4 graph). Pretty format
// is the labeled directed-graph text form the spec names (§4.5): one
// "id -> id" line per edge, preceded by node annotations.
func RenderGraph(w io.Writer, format Format, g *engine.GraphView) error {
	switch format {
	case JSON:
		return writeJSON(w, g)
	case Pretty:
		for _, n := range g.Nodes {
			blocked := ""
			if n.IsBlocked {
				blocked = " (blocked)"
			}
			fmt.Fprintf(w, "%d [%s, urgency %.2f]%s %s\n", n.ID, n.Status, n.Urgency, blocked, n.Title)
		}
		fmt.Fprintln(w)
		for _, e := range g.Edges {
			fmt.Fprintf(w, "%d -> %d\n", e.From, e.To)
		}
		return nil
	default:
		for _, n := range g.Nodes {
			fmt.Fprintf(w, "NODE: %d status=%s urgency=%.2f blocked=%t title=%q\n",
				n.ID, n.Status, n.Urgency, n.IsBlocked, n.Title)
		}
		for _, e := range g.Edges {
			fmt.Fprintf(w, "EDGE: %d -> %d (%s)\n", e.From, e.To, e.Type)
		}
		return nil
	}
}

// RenderDoctor writes an integrity scan report (§4.4 doctor).
func RenderDoctor(w io.Writer, format Format, r *engine.DoctorReport) error {
	if format == JSON {
		return writeJSON(w, r)
	}

	if !r.Anomalies() {
		fmt.Fprintln(w, "no anomalies found")
		return nil
	}
	for _, d := range r.OrphanDependencies {
		fmt.Fprintf(w, "ORPHAN_DEPENDENCY: %d -> %d\n", d.BlockerID, d.BlockedID)
	}
	for _, c := range r.Cycles {
		fmt.Fprintf(w, "CYCLE: %s\n", formatCycle(c))
	}
	for _, id := range r.StuckInProgress {
		fmt.Fprintf(w, "STUCK_IN_PROGRESS: %d\n", id)
	}
	for _, id := range r.ChildlessEpics {
		fmt.Fprintf(w, "CHILDLESS_EPIC: %d\n", id)
	}
	for _, d := range r.DanglingTerminalEdges {
		fmt.Fprintf(w, "DANGLING_TERMINAL_EDGE: %d -> %d\n", d.BlockerID, d.BlockedID)
	}
	return nil
}

func formatCycle(ids []int64) string {
	s := ""
	for i, id := range ids {
		if i > 0 {
			s += " -> "
		}
		s += fmt.Sprintf("%d", id)
	}
	return s
}

func sortedKeys[K ~string](m map[K]int) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
