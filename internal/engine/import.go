package engine

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/nit-tools/nit/internal/debug"
	"github.com/nit-tools/nit/internal/nit/errs"
	"github.com/nit-tools/nit/internal/nit/types"
	"github.com/nit-tools/nit/internal/store"
)

// ImportMode selects how Import reacts to an id already present in the
// database (§4.4 import).
type ImportMode int

const (
	// ImportReplace aborts the whole import on any id collision, leaving
	// the database untouched (the default).
	ImportReplace ImportMode = iota
	// ImportMerge skips records whose natural key already exists instead
	// of failing, reporting how many were skipped.
	ImportMerge
)

// ImportResult reports what Import actually did.
type ImportResult struct {
	IssuesImported       int `json:"issues_imported"`
	DependenciesImported int `json:"dependencies_imported"`
	NotesImported        int `json:"notes_imported"`
	IssuesSkipped        int `json:"issues_skipped"`
	DependenciesSkipped  int `json:"dependencies_skipped"`
	NotesSkipped         int `json:"notes_skipped"`
}

// Import reads a snapshot produced by Export (either encoding, auto
// detected) from r and loads it in one transaction (§4.4: "always
// transactional"). Records are applied in dependency-safe order: issues,
// then dependencies, then notes, so every foreign key resolves against a
// row already written in this same import.
func (e *Engine) Import(ctx context.Context, r io.Reader, mode ImportMode) (*ImportResult, error) {
	issues, deps, notes, err := decodeImport(r)
	if err != nil {
		return nil, err
	}

	var result *ImportResult
	err = e.Store.RunInTransaction(ctx, func(tx *store.Tx) error {
		res := &ImportResult{}

		for _, iss := range issues {
			exists, err := tx.IssueExists(ctx, iss.ID)
			if err != nil {
				return err
			}
			if exists {
				if mode == ImportMerge {
					res.IssuesSkipped++
					debug.Logf("import: skipping issue %d, already exists", iss.ID)
					continue
				}
				return errs.InvalidValuef("issue %d already exists", iss.ID)
			}
			if err := tx.InsertIssueWithID(ctx, iss); err != nil {
				return err
			}
			res.IssuesImported++
		}

		for _, d := range deps {
			exists, err := tx.DependencyExists(ctx, d.BlockerID, d.BlockedID)
			if err != nil {
				return err
			}
			if exists {
				if mode == ImportMerge {
					res.DependenciesSkipped++
					debug.Logf("import: skipping dependency %d -> %d, already exists", d.BlockerID, d.BlockedID)
					continue
				}
				return errs.InvalidValuef("dependency %d -> %d already exists", d.BlockerID, d.BlockedID)
			}
			if err := tx.InsertDependency(ctx, d.BlockerID, d.BlockedID, types.FormatTime(d.CreatedAt)); err != nil {
				return err
			}
			res.DependenciesImported++
		}

		for _, n := range notes {
			// Notes have no natural key beyond their id, so a note whose id
			// already exists is skipped in merge mode like any other record.
			exists, err := tx.NoteExists(ctx, n.ID)
			if err != nil {
				return err
			}
			if exists {
				if mode == ImportMerge {
					res.NotesSkipped++
					debug.Logf("import: skipping note %d, already exists", n.ID)
					continue
				}
				return errs.InvalidValuef("note %d already exists", n.ID)
			}
			if err := tx.InsertNoteWithID(ctx, n); err != nil {
				return err
			}
			res.NotesImported++
		}

		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// decodeImport auto-detects the export encoding: a single JSON document
// with issues/dependencies/notes arrays, or one type-discriminated record
// per line.
func decodeImport(r io.Reader) ([]types.Issue, []types.Dependency, []types.Note, error) {
	br := bufio.NewReader(r)
	peek, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, nil, nil, errs.IoErrorf(err, "peek import stream")
	}

	if looksLikeDocument(peek) {
		var doc exportDocument
		if err := json.NewDecoder(br).Decode(&doc); err != nil {
			return nil, nil, nil, errs.ParseErrorf(err, "decode import document")
		}
		return doc.Issues, doc.Dependencies, doc.Notes, nil
	}

	var issues []types.Issue
	var deps []types.Dependency
	var notes []types.Note
	dec := json.NewDecoder(br)
	for {
		var rec exportRecord
		if err := dec.Decode(&rec); err != nil {
			if err == io.EOF {
				break
			}
			return nil, nil, nil, errs.ParseErrorf(err, "decode import record")
		}
		switch rec.Type {
		case "issue":
			if rec.Issue != nil {
				issues = append(issues, *rec.Issue)
			}
		case "dependency":
			if rec.Dependency != nil {
				deps = append(deps, *rec.Dependency)
			}
		case "note":
			if rec.Note != nil {
				notes = append(notes, *rec.Note)
			}
		default:
			return nil, nil, nil, errs.InvalidValuef("unknown import record type %q", rec.Type)
		}
	}
	return issues, deps, notes, nil
}

// looksLikeDocument distinguishes the single-document encoding (an object
// keyed by "issues") from the JSONL encoding (an object keyed by "type")
// by sniffing the first non-whitespace bytes.
func looksLikeDocument(peek []byte) bool {
	for _, b := range peek {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{':
			return bytes.Contains(peek, []byte(`"issues"`))
		default:
			return false
		}
	}
	return false
}
