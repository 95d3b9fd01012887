package engine

import (
	"context"
	"sort"

	"github.com/nit-tools/nit/internal/nit/types"
	"github.com/nit-tools/nit/internal/store"
)

// ListInput is the filter/sort/limit request for `list` (§4.4).
type ListInput struct {
	Statuses       []types.Status
	Priorities     []types.Priority
	Kinds          []types.Kind
	Tags           []string
	ParentID       *int64
	BlockedOnly    bool
	IncludeBlocked bool
	Sort           types.SortField
	Limit          int
}

// scoredRow pairs a fetched issue with its computed blocked/urgency state,
// the unit List sorts before trimming to summaries.
type scoredRow struct {
	row     store.IssueRow
	urgency float64
}

// List returns a sorted slice of issue summaries honoring in's filters.
// Sorting happens against the full row (which still carries created_at/
// updated_at) rather than the trimmed IssueSummary, since `updated`
// ordering is not a monotonic function of id the way `created` is.
func (e *Engine) List(ctx context.Context, in ListInput) ([]types.IssueSummary, error) {
	filter := store.ListFilter{
		Statuses:       in.Statuses,
		Priorities:     in.Priorities,
		Kinds:          in.Kinds,
		Tags:           in.Tags,
		ParentID:       in.ParentID,
		BlockedOnly:    in.BlockedOnly,
		IncludeBlocked: in.IncludeBlocked,
	}
	if len(filter.Statuses) == 0 {
		filter.Statuses = []types.Status{types.StatusOpen, types.StatusInProgress}
	}

	rows, err := e.Store.ListIssues(ctx, filter)
	if err != nil {
		return nil, err
	}

	coeffs, err := e.coefficients(ctx, e.Store)
	if err != nil {
		return nil, err
	}
	now := e.now()

	scored := make([]scoredRow, 0, len(rows))
	for _, row := range rows {
		_, score, err := scoreIssue(ctx, e.Store, row.Issue, coeffs, now)
		if err != nil {
			return nil, err
		}
		scored = append(scored, scoredRow{row: row, urgency: score})
	}

	sortField := in.Sort
	if sortField == "" {
		sortField = types.SortUrgency
	}
	sortRows(scored, sortField)

	if in.Limit > 0 && len(scored) > in.Limit {
		scored = scored[:in.Limit]
	}

	summaries := make([]types.IssueSummary, len(scored))
	for i, s := range scored {
		iss := s.row.Issue
		summaries[i] = types.IssueSummary{
			ID:        iss.ID,
			Title:     iss.Title,
			Status:    iss.Status,
			Priority:  iss.Priority,
			Kind:      iss.Kind,
			Tags:      iss.Tags,
			ParentID:  iss.ParentID,
			IsBlocked: s.row.IsBlocked,
			Urgency:   s.urgency,
		}
	}
	return summaries, nil
}

// sortRows sorts in place by field, ties broken by ascending id (§4.4).
func sortRows(rows []scoredRow, field types.SortField) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch field {
		case types.SortPriority:
			pa, pb := priorityRank(a.row.Issue.Priority), priorityRank(b.row.Issue.Priority)
			if pa != pb {
				return pa > pb
			}
		case types.SortCreated:
			if !a.row.Issue.CreatedAt.Equal(b.row.Issue.CreatedAt) {
				return a.row.Issue.CreatedAt.After(b.row.Issue.CreatedAt)
			}
		case types.SortUpdated:
			if !a.row.Issue.UpdatedAt.Equal(b.row.Issue.UpdatedAt) {
				return a.row.Issue.UpdatedAt.After(b.row.Issue.UpdatedAt)
			}
		case types.SortID:
			// fall through to id tie-break below
		default: // urgency
			if a.urgency != b.urgency {
				return a.urgency > b.urgency
			}
		}
		return a.row.Issue.ID < b.row.Issue.ID
	})
}

func priorityRank(p types.Priority) int {
	switch p {
	case types.PriorityCritical:
		return 4
	case types.PriorityHigh:
		return 3
	case types.PriorityMedium:
		return 2
	case types.PriorityLow:
		return 1
	default:
		return 0
	}
}
