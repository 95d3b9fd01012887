package engine

import (
	"context"
	"time"

	"github.com/nit-tools/nit/internal/nit/types"
	"github.com/nit-tools/nit/internal/store"
)

// Stats is the aggregate counts object returned by `stats` (§4.4).
type Stats struct {
	Total          int                    `json:"total"`
	ByStatus       map[types.Status]int   `json:"by_status"`
	ByPriority     map[types.Priority]int `json:"by_priority"`
	ByKind         map[types.Kind]int     `json:"by_kind"`
	Blocked        int                    `json:"blocked"`
	Ready          int                    `json:"ready"`
	MeanUrgency    float64                `json:"mean_urgency"`
	OldestOpenID   *int64                 `json:"oldest_open_id"`
	OldestOpenDays int                    `json:"oldest_open_days"`
}

// Stats computes the aggregate counts across the whole issue set (§4.4).
func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	return e.statsSince(ctx, time.Time{})
}

// StatsSince restricts every figure to issues created at or after now minus
// since (SPEC_FULL `stats --since` supplement). A zero since applies no
// restriction, matching the base `stats` command.
func (e *Engine) StatsSince(ctx context.Context, since time.Duration) (*Stats, error) {
	if since == 0 {
		return e.statsSince(ctx, time.Time{})
	}
	cutoff := e.now().Add(-since)
	return e.statsSince(ctx, cutoff)
}

func (e *Engine) statsSince(ctx context.Context, cutoff time.Time) (*Stats, error) {
	all, err := e.Store.ListIssues(ctx, store.ListFilter{
		Statuses:       []types.Status{types.StatusOpen, types.StatusInProgress, types.StatusDone, types.StatusWontfix},
		IncludeBlocked: true,
	})
	if err != nil {
		return nil, err
	}

	s := &Stats{
		ByStatus:   map[types.Status]int{},
		ByPriority: map[types.Priority]int{},
		ByKind:     map[types.Kind]int{},
	}

	coeffs, err := e.coefficients(ctx, e.Store)
	if err != nil {
		return nil, err
	}
	now := e.now()

	var urgencySum float64
	var activeCount int
	var oldestOpen *types.Issue

	for _, row := range all {
		iss := row.Issue
		if !cutoff.IsZero() && iss.CreatedAt.Before(cutoff) {
			continue
		}
		s.Total++
		s.ByStatus[iss.Status]++
		s.ByPriority[iss.Priority]++
		s.ByKind[iss.Kind]++
		if row.IsBlocked {
			s.Blocked++
		}
		if iss.Status == types.StatusOpen && !row.IsBlocked {
			s.Ready++
		}
		if iss.Status.Active() {
			_, score, err := scoreIssue(ctx, e.Store, iss, coeffs, now)
			if err != nil {
				return nil, err
			}
			urgencySum += score
			activeCount++
		}
		if iss.Status == types.StatusOpen {
			if oldestOpen == nil || iss.CreatedAt.Before(oldestOpen.CreatedAt) {
				oldestOpen = iss
			}
		}
	}

	if activeCount > 0 {
		s.MeanUrgency = urgencySum / float64(activeCount)
	}
	if oldestOpen != nil {
		id := oldestOpen.ID
		s.OldestOpenID = &id
		s.OldestOpenDays = int(now.Sub(oldestOpen.CreatedAt).Hours() / 24)
	}
	return s, nil
}
