package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/nit-tools/nit/internal/nit/errs"
	"github.com/nit-tools/nit/internal/nit/types"
	"github.com/nit-tools/nit/internal/store"
)

// exportRecord is one line of the default JSONL export encoding (§4.4): a
// type-discriminated envelope around exactly one of Issue/Dependency/Note.
type exportRecord struct {
	Type       string              `json:"type"`
	Issue      *types.Issue        `json:"issue,omitempty"`
	Dependency *types.Dependency   `json:"dependency,omitempty"`
	Note       *types.Note         `json:"note,omitempty"`
}

// exportDocument is the alternative single-document encoding (§4.4).
type exportDocument struct {
	Issues       []types.Issue      `json:"issues"`
	Dependencies []types.Dependency `json:"dependencies"`
	Notes        []types.Note       `json:"notes"`
}

// Export writes a complete snapshot of every issue, dependency and note to
// w. singleDoc selects the alternative one-object encoding; the default is
// one JSON object per line.
func (e *Engine) Export(ctx context.Context, w io.Writer, singleDoc bool) error {
	issues, deps, notes, err := e.snapshot(ctx)
	if err != nil {
		return err
	}

	if singleDoc {
		doc := exportDocument{Issues: issues, Dependencies: deps, Notes: notes}
		enc := json.NewEncoder(w)
		if err := enc.Encode(doc); err != nil {
			return errs.IoErrorf(err, "encode export document")
		}
		return nil
	}

	enc := json.NewEncoder(w)
	for i := range issues {
		if err := enc.Encode(exportRecord{Type: "issue", Issue: &issues[i]}); err != nil {
			return errs.IoErrorf(err, "encode issue record")
		}
	}
	for i := range deps {
		if err := enc.Encode(exportRecord{Type: "dependency", Dependency: &deps[i]}); err != nil {
			return errs.IoErrorf(err, "encode dependency record")
		}
	}
	for i := range notes {
		if err := enc.Encode(exportRecord{Type: "note", Note: &notes[i]}); err != nil {
			return errs.IoErrorf(err, "encode note record")
		}
	}
	return nil
}

func (e *Engine) snapshot(ctx context.Context) ([]types.Issue, []types.Dependency, []types.Note, error) {
	rows, err := e.Store.ListIssues(ctx, store.ListFilter{
		Statuses:       []types.Status{types.StatusOpen, types.StatusInProgress, types.StatusDone, types.StatusWontfix},
		IncludeBlocked: true,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	issues := make([]types.Issue, len(rows))
	for i, r := range rows {
		issues[i] = *r.Issue
	}
	deps, err := e.Store.AllDependencies(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	notes, err := e.Store.AllNotes(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return issues, deps, notes, nil
}

// ExportToFile writes the export snapshot to path durably: to a
// uuid-named temp file in the same directory, fsynced, then renamed into
// place (§5: "written then fsynced before rename where durability
// matters"), grounded on internal/export's manifest temp-file+rename
// pattern.
func (e *Engine) ExportToFile(ctx context.Context, path string, singleDoc bool) error {
	dir := filepath.Dir(path)
	tempPath := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%s", filepath.Base(path), uuid.NewString()))

	f, err := os.Create(tempPath)
	if err != nil {
		return errs.IoErrorf(err, "create export temp file")
	}
	defer func() {
		_ = f.Close()
		_ = os.Remove(tempPath)
	}()

	if err := e.Export(ctx, f, singleDoc); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return errs.IoErrorf(err, "sync export temp file")
	}
	if err := f.Close(); err != nil {
		return errs.IoErrorf(err, "close export temp file")
	}
	if err := os.Rename(tempPath, path); err != nil {
		return errs.IoErrorf(err, "rename export temp file into place")
	}
	return nil
}
