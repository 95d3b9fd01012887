package engine

import (
	"context"

	"github.com/nit-tools/nit/internal/nit/types"
)

// GraphNode is one node record of `graph` output (§4.4).
type GraphNode struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Status    types.Status `json:"status"`
	Urgency   float64      `json:"urgency"`
	IsBlocked bool         `json:"is_blocked"`
}

// GraphEdge is one edge record of `graph` output (§4.4).
type GraphEdge struct {
	From int64  `json:"from"`
	To   int64  `json:"to"`
	Type string `json:"type"`
}

// GraphView is the full dependency subgraph returned by `graph`.
type GraphView struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Graph emits the current dependency subgraph. By default only active
// nodes are included; all=true includes terminals too (§4.4).
func (e *Engine) Graph(ctx context.Context, all bool) (*GraphView, error) {
	filter := ListInput{IncludeBlocked: true}
	if !all {
		filter.Statuses = []types.Status{types.StatusOpen, types.StatusInProgress}
	} else {
		filter.Statuses = []types.Status{
			types.StatusOpen, types.StatusInProgress, types.StatusDone, types.StatusWontfix,
		}
	}

	summaries, err := e.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	included := make(map[int64]bool, len(summaries))
	nodes := make([]GraphNode, len(summaries))
	for i, s := range summaries {
		nodes[i] = GraphNode{
			ID: s.ID, Title: s.Title, Status: s.Status,
			Urgency: s.Urgency, IsBlocked: s.IsBlocked,
		}
		included[s.ID] = true
	}

	deps, err := e.Store.AllDependencies(ctx)
	if err != nil {
		return nil, err
	}
	var edges []GraphEdge
	for _, d := range deps {
		if !included[d.BlockerID] || !included[d.BlockedID] {
			continue
		}
		edges = append(edges, GraphEdge{From: d.BlockerID, To: d.BlockedID, Type: "blocks"})
	}

	return &GraphView{Nodes: nodes, Edges: edges}, nil
}
