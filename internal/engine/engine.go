// Package engine implements the command semantics of nit (§4.4): the
// business logic that sits between Surface (input parsing, rendering) and
// Store (persistence). Every method that changes issues, dependencies or
// notes does so inside exactly one store transaction, mirroring the
// single-writer, transaction-per-command model of §5; Fix instead uses its
// own maintenance connection, and read-only methods query the Store
// directly.
package engine

import (
	"context"
	"time"

	"github.com/nit-tools/nit/internal/nit/errs"
	"github.com/nit-tools/nit/internal/nit/types"
	"github.com/nit-tools/nit/internal/store"
	"github.com/nit-tools/nit/internal/urgency"
)

// Engine wires Store, Graph and Urgency together for one invocation.
type Engine struct {
	Store *store.Store
	// Now is overridable in tests for deterministic timestamps; production
	// code leaves it nil and Engine falls back to time.Now.
	Now func() time.Time
}

// New constructs an Engine over an already-open Store.
func New(s *store.Store) *Engine {
	return &Engine{Store: s}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) nowString() string {
	return types.FormatTime(e.now())
}

// configReader is satisfied by both *store.Store and *store.Tx.
type configReader interface {
	GetAllConfig(ctx context.Context) (map[string]string, error)
}

// coefficients loads the urgency coefficient table, applying any config
// table overrides on top of the shipped defaults (§4.3). Callers already
// holding a transaction must pass tx, not e.Store, to avoid contending for
// the store's single connection (§5).
func (e *Engine) coefficients(ctx context.Context, r configReader) (urgency.Coefficients, error) {
	cfg, err := r.GetAllConfig(ctx)
	if err != nil {
		return urgency.Coefficients{}, err
	}
	return urgency.LoadCoefficients(cfg), nil
}

// txReader is the set of store reads needed to score one issue, gathered
// inside the same transaction as the rest of a command (or straight from
// the Store for read-only commands) so the snapshot is consistent (§4.3: urgency is a pure function of a single snapshot).
type txReader interface {
	ActiveBlockerCount(ctx context.Context, issueID int64) (int, error)
	ActiveBlocksCount(ctx context.Context, issueID int64) (int, error)
	NoteCount(ctx context.Context, issueID int64) (int, error)
	BlockerIDs(ctx context.Context, issueID int64) ([]int64, error)
	BlocksIDs(ctx context.Context, issueID int64) ([]int64, error)
	NotesByIssue(ctx context.Context, issueID int64) ([]types.Note, error)
}

// scoreIssue computes the urgency Input and score for iss against r, at
// instant now.
func scoreIssue(ctx context.Context, r txReader, iss *types.Issue, c urgency.Coefficients, now time.Time) (urgency.Input, float64, error) {
	blockerCount, err := r.ActiveBlockerCount(ctx, iss.ID)
	if err != nil {
		return urgency.Input{}, 0, err
	}
	blocksCount, err := r.ActiveBlocksCount(ctx, iss.ID)
	if err != nil {
		return urgency.Input{}, 0, err
	}
	notes, err := r.NoteCount(ctx, iss.ID)
	if err != nil {
		return urgency.Input{}, 0, err
	}
	in := urgency.Input{
		Priority:      iss.Priority,
		Kind:          iss.Kind,
		Status:        iss.Status,
		BlocksActive:  blocksCount > 0,
		IsBlocked:     blockerCount > 0,
		HasAcceptance: iss.Acceptance != "",
		NoteCount:     notes,
		CreatedAt:     iss.CreatedAt,
		Now:           now,
	}
	return in, urgency.Score(c, in), nil
}

func toUrgencyTerms(terms []urgency.Breakdown) []types.UrgencyTerm {
	out := make([]types.UrgencyTerm, len(terms))
	for i, t := range terms {
		out[i] = types.UrgencyTerm{
			Term:         t.Term,
			Coefficient:  t.Coefficient,
			Factor:       t.Factor,
			Contribution: t.Contribution,
		}
	}
	return out
}

// detailFor builds the full IssueDetail for iss (§4.4 get), reading
// dependency and note state through r within the caller's transaction.
func detailFor(ctx context.Context, r txReader, iss *types.Issue, c urgency.Coefficients, now time.Time) (*types.IssueDetail, error) {
	in, score, err := scoreIssue(ctx, r, iss, c, now)
	if err != nil {
		return nil, err
	}
	blockedBy, err := r.BlockerIDs(ctx, iss.ID)
	if err != nil {
		return nil, err
	}
	blocks, err := r.BlocksIDs(ctx, iss.ID)
	if err != nil {
		return nil, err
	}
	notes, err := r.NotesByIssue(ctx, iss.ID)
	if err != nil {
		return nil, err
	}
	return &types.IssueDetail{
		Issue:     *iss,
		BlockedBy: blockedBy,
		Blocks:    blocks,
		IsBlocked: in.IsBlocked,
		Notes:     notes,
		Urgency:   score,
		Breakdown: toUrgencyTerms(urgency.Terms(c, in)),
	}, nil
}

// validatePriority, validateKind and validateStatus check that a
// priority/kind/status is a member of its closed set, per §7 InvalidValue.
func validatePriority(p types.Priority) error {
	if !p.Valid() {
		return errs.InvalidValuef("invalid priority %q", p)
	}
	return nil
}

func validateKind(k types.Kind) error {
	if !k.Valid() {
		return errs.InvalidValuef("invalid kind %q", k)
	}
	return nil
}

func validateStatus(s types.Status) error {
	if !s.Valid() {
		return errs.InvalidValuef("invalid status %q", s)
	}
	return nil
}
