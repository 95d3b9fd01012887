package surface

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nit-tools/nit/internal/nit/errs"
)

// jsonError is the wire shape of a JSON-mode diagnostic (§6 Streams):
// "themselves valid JSON objects with error and code fields."
type jsonError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// WriteError renders err to w (standard error) in the given format and
// returns the process exit code to use (§7: every Kind maps to exit 1).
func WriteError(w io.Writer, format Format, err error) int {
	kind := errs.KindOf(err)

	if format == JSON {
		enc := json.NewEncoder(w)
		_ = enc.Encode(jsonError{Error: err.Error(), Code: kind.Code()})
		return kind.ExitCode()
	}

	fmt.Fprintf(w, "error: %s\n", err.Error())
	return kind.ExitCode()
}

// EmptyResultExitCode is the exit code for a successful query that
// produced zero rows (§6: used by list, ready, next only).
const EmptyResultExitCode = 2
