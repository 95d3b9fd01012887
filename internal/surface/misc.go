package surface

import (
	"fmt"
	"io"
	"sort"

	"github.com/nit-tools/nit/internal/engine"
)

// RenderInit writes `init`'s result (§4.4 init).
func RenderInit(w io.Writer, format Format, r *engine.InitResult) error {
	if format == JSON {
		return writeJSON(w, r)
	}
	fmt.Fprintf(w, "PATH: %s\n", r.Path)
	fmt.Fprintf(w, "CREATED: %t\n", r.Created)
	return nil
}

// RenderConfigList writes `config list`'s key/value pairs (§4.4 config).
func RenderConfigList(w io.Writer, format Format, m map[string]string) error {
	if format == JSON {
		return writeJSON(w, m)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s: %s\n", k, m[k])
	}
	return nil
}

// RenderConfigValue writes a single `config get` result. ok=false means
// the key has never been set and its built-in default applies.
func RenderConfigValue(w io.Writer, format Format, key, value string, ok bool) error {
	if format == JSON {
		return writeJSON(w, map[string]interface{}{"key": key, "value": value, "set": ok})
	}
	if !ok {
		fmt.Fprintf(w, "%s: (default)\n", key)
		return nil
	}
	fmt.Fprintf(w, "%s: %s\n", key, value)
	return nil
}

// RenderSchema writes the schema dump (§4.4 schema). The DDL text is
// identical across all three formats: there is no structured shape to a
// CREATE statement worth reformatting, so json/pretty report it as a
// single string field / raw text respectively.
func RenderSchema(w io.Writer, format Format, ddl string) error {
	if format == JSON {
		return writeJSON(w, map[string]string{"schema": ddl})
	}
	fmt.Fprintln(w, ddl)
	return nil
}

// RenderSchemaDrift writes `schema --verify`'s drift report.
func RenderSchemaDrift(w io.Writer, format Format, drift []engine.SchemaDrift) error {
	if format == JSON {
		return writeJSON(w, drift)
	}
	if len(drift) == 0 {
		fmt.Fprintln(w, "schema matches")
		return nil
	}
	for _, d := range drift {
		switch {
		case d.Live == "":
			fmt.Fprintf(w, "MISSING: %s\n", d.Name)
		case d.Expected == "":
			fmt.Fprintf(w, "UNEXPECTED: %s\n", d.Name)
		default:
			fmt.Fprintf(w, "CHANGED: %s\n", d.Name)
		}
	}
	return nil
}

// RenderBatchAdd writes `batch add`'s assigned ids (§4.4 batch add).
func RenderBatchAdd(w io.Writer, format Format, r *engine.BatchAddResult) error {
	if format == JSON {
		return writeJSON(w, r)
	}
	fmt.Fprintf(w, "IDS: %s\n", joinIDs(r.IDs))
	return nil
}

// RenderUpdateResult writes `update`/`close`'s result, including any
// issues newly unblocked (§4.2, §4.4).
func RenderUpdateResult(w io.Writer, format Format, r *engine.UpdateResult) error {
	if format == JSON {
		return writeJSON(w, r)
	}
	if err := renderDetailCompact(w, r.Detail); err != nil {
		return err
	}
	if len(r.Unblocked) > 0 {
		fmt.Fprintf(w, "UNBLOCKED: %s\n", joinIDs(r.Unblocked))
	}
	return nil
}

// RenderImportResult writes `import`'s summary counts (§4.4 import).
func RenderImportResult(w io.Writer, format Format, r *engine.ImportResult) error {
	if format == JSON {
		return writeJSON(w, r)
	}
	fmt.Fprintf(w, "ISSUES_IMPORTED: %d\n", r.IssuesImported)
	fmt.Fprintf(w, "DEPENDENCIES_IMPORTED: %d\n", r.DependenciesImported)
	fmt.Fprintf(w, "NOTES_IMPORTED: %d\n", r.NotesImported)
	if r.IssuesSkipped+r.DependenciesSkipped+r.NotesSkipped > 0 {
		fmt.Fprintf(w, "ISSUES_SKIPPED: %d\n", r.IssuesSkipped)
		fmt.Fprintf(w, "DEPENDENCIES_SKIPPED: %d\n", r.DependenciesSkipped)
		fmt.Fprintf(w, "NOTES_SKIPPED: %d\n", r.NotesSkipped)
	}
	return nil
}

// RenderDepend writes `depend`'s confirmation (§4.4 depend).
func RenderDepend(w io.Writer, format Format, blockerID, blockedID int64) error {
	if format == JSON {
		return writeJSON(w, map[string]int64{"blocker_id": blockerID, "blocked_id": blockedID})
	}
	fmt.Fprintf(w, "%d -> %d\n", blockerID, blockedID)
	return nil
}

// RenderUndepend writes `undepend`'s result, including any issues newly
// unblocked (§4.2, §4.4 undepend).
func RenderUndepend(w io.Writer, format Format, unblocked []int64) error {
	if format == JSON {
		return writeJSON(w, map[string][]int64{"unblocked": unblocked})
	}
	fmt.Fprintf(w, "UNBLOCKED: %s\n", joinIDs(unblocked))
	return nil
}

// RenderFixResult writes `doctor --fix`'s summary counts (§4.4 doctor).
func RenderFixResult(w io.Writer, format Format, r *engine.DoctorFixResult) error {
	if format == JSON {
		return writeJSON(w, r)
	}
	fmt.Fprintf(w, "ORPHAN_EDGES_REMOVED: %d\n", r.OrphanEdgesRemoved)
	fmt.Fprintf(w, "TERMINAL_EDGES_REMOVED: %d\n", r.TerminalEdgesRemoved)
	return nil
}
