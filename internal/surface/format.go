// Package surface implements input parsing glue, output rendering and
// error-to-exit-code mapping (spec §4.5): the thin shell around Engine.
// The renderer is pure given (data, format); it never touches Store or
// Engine directly.
package surface

import "github.com/nit-tools/nit/internal/nit/errs"

// Format is one of the three wire output formats (§6 -f/--format).
type Format string

const (
	Compact Format = "compact"
	JSON    Format = "json"
	Pretty  Format = "pretty"
)

// ParseFormat validates a --format flag value, defaulting to Compact for
// the empty string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "":
		return Compact, nil
	case Compact, JSON, Pretty:
		return Format(s), nil
	default:
		return "", errs.InvalidValuef("invalid format %q (want compact, json or pretty)", s)
	}
}
