// Package debug gates diagnostic and quiet-mode output, adapted from
// beads' package-level enabled/verboseMode/quietMode switches. nit drops
// the event-log file (events.log, .beads-rooted) since nothing in the
// core command surface reads it back; Logf/quiet gating is the part the
// rest of the tree actually depends on.
package debug

import (
	"fmt"
	"os"
)

var (
	enabled     = os.Getenv("NIT_DEBUG") != ""
	verboseMode = false
	quietMode   = false
)

// Enabled reports whether diagnostic output is active, via NIT_DEBUG or
// SetVerbose.
func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose switches diagnostic output on or off independently of
// NIT_DEBUG. No command-line flag calls it.
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// SetQuiet is wired to the root command's -q/--quiet flag (§6).
func SetQuiet(quiet bool) {
	quietMode = quiet
}

// IsQuiet reports whether quiet mode is enabled.
func IsQuiet() bool {
	return quietMode
}

// Logf writes a formatted diagnostic line to stderr, never stdout, only
// when debug output is enabled.
func Logf(format string, args ...interface{}) {
	if Enabled() {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// Warnf writes a warning line to stderr unless quiet mode suppresses it.
// Used for non-fatal conditions a scripted caller may not want cluttering
// its stderr (e.g. a doctor anomaly surfaced during an unrelated command).
func Warnf(format string, args ...interface{}) {
	if !quietMode {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
