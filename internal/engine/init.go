package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nit-tools/nit/internal/nit/errs"
	"github.com/nit-tools/nit/internal/store"
)

// InitResult reports what `init` did (§4.4 init).
type InitResult struct {
	Path    string `json:"path"`
	Created bool   `json:"created"`
}

// agentsMDBlock is the fixed documentation block `init --agents-md`
// appends, describing the command surface to a coding agent reading it
// for the first time.
const agentsMDBlock = `
## Issue tracking with nit

This project tracks work with ` + "`nit`" + `, a local SQLite-backed issue tracker.
Common commands:

- ` + "`nit add \"title\" -p high -k bug`" + ` — create an issue
- ` + "`nit ready`" + ` — list unblocked open issues by urgency
- ` + "`nit next --claim`" + ` — claim the single highest-urgency ready issue
- ` + "`nit update <id> --status in-progress`" + ` — change an issue's status
- ` + "`nit note <id> \"...\"`" + ` — append a note without changing status
- ` + "`nit depend <blocker> <blocked>`" + ` — record that one issue blocks another
- ` + "`nit close <id> --reason \"...\"`" + ` — mark an issue done

Run ` + "`nit <command> --help`" + ` for full flag documentation. Pass
` + "`-f json`" + ` to any read command for machine-parseable output.
`

// configTomlSeedHeader heads the commented starter config written alongside
// a freshly created .nit.db (SPEC_FULL supplement, §4.4 discussion note 3).
// writeConfigSeed follows it with every recognized urgency coefficient key,
// commented out with a placeholder value of 0.0 (not the key's built-in
// default), so an agent or human can see which keys are overridable.
const configTomlSeedHeader = `# nit configuration.
#
# Every key below is an urgency coefficient override (see ` + "`nit config list`" + `
# for currently active overrides). Uncomment and change a value, then run
# ` + "`nit config set <key> <value>`" + ` to apply it — this file is not read
# automatically; it exists as a reference starting point.
`

// Init creates dir/.nit.db if absent, applying the schema, and reports
// its absolute path (§4.4 init). An existing database is left untouched
// and reported with Created=false.
func (e *Engine) Init(ctx context.Context, dir string) (*InitResult, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errs.IoErrorf(err, "resolve init directory")
	}
	path := filepath.Join(abs, store.DBFileName)

	created := !store.Exists(path)
	if created {
		s, err := store.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		if err := s.Close(); err != nil {
			return nil, errs.IoErrorf(err, "close freshly initialized database")
		}
		if err := writeConfigSeed(abs); err != nil {
			return nil, err
		}
	}

	return &InitResult{Path: path, Created: created}, nil
}

// AppendAgentsMD appends the fixed documentation block to AGENTS.md in
// dir, creating the file if absent (§4.4 init --agents-md). Re-running is
// safe but not idempotent at the text level: a second call appends the
// block again, matching the teacher's own AGENTS.md append behavior.
func AppendAgentsMD(dir string) error {
	path := filepath.Join(dir, "AGENTS.md")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errs.IoErrorf(err, "open AGENTS.md")
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(agentsMDBlock); err != nil {
		return errs.IoErrorf(err, "append AGENTS.md")
	}
	return nil
}

func writeConfigSeed(dir string) error {
	path := filepath.Join(dir, "config.toml")
	if store.Exists(path) {
		return nil
	}

	var body string
	body += configTomlSeedHeader
	for _, key := range ConfigKeys() {
		body += fmt.Sprintf("# %s = 0.0\n", key)
	}

	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return errs.IoErrorf(err, "write config.toml seed")
	}
	return nil
}
