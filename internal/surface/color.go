package surface

import (
	"encoding/json"
	"io"

	"github.com/fatih/color"

	"github.com/nit-tools/nit/internal/nit/types"
)

// writeJSON encodes v as a single compact JSON value (§4.5: "a single
// valid JSON value per invocation").
func writeJSON(w io.Writer, v interface{}) error {
	return json.NewEncoder(w).Encode(v)
}

// color.NoColor auto-detects a non-TTY stdout and disables escapes (§4.5:
// "no colorization on non-TTY outputs"); these SprintFunc wrappers are
// therefore plain passthroughs whenever output is piped or redirected.
var (
	criticalColor = color.New(color.FgRed, color.Bold).SprintFunc()
	doneColor     = color.New(color.FgHiBlack).SprintFunc()
	blockedColor  = color.New(color.FgYellow).SprintFunc()
	idColor       = color.New(color.FgCyan).SprintFunc()
)

func statusColor(status types.Status, text string) string {
	if status.Terminal() {
		return doneColor(text)
	}
	return text
}

func idStyle(id int64) string {
	return idColor(id)
}

func blockedGlyph() string {
	return blockedColor("blocked")
}
