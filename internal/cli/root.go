// Package cli wires cobra commands to Engine and Surface (§4.5, §6): one
// command per verb, global persistent flags for format/db/quiet, withEngine
// to resolve the database and build an Engine, and Execute to map the
// returned error to an exit code.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/nit-tools/nit/internal/debug"
	"github.com/nit-tools/nit/internal/engine"
	"github.com/nit-tools/nit/internal/nit/errs"
	"github.com/nit-tools/nit/internal/store"
	"github.com/nit-tools/nit/internal/surface"
)

// globalFlags holds the persistent flag values shared by every subcommand
// (§6 Global options).
type globalFlags struct {
	format string
	dbPath string
	quiet  bool
}

var flags globalFlags

// NewRootCommand builds the nit command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "nit",
		Short:         "A local, single-user issue tracker for coding agents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debug.SetQuiet(flags.quiet)
		},
	}

	root.PersistentFlags().StringVarP(&flags.format, "format", "f", "compact", "output format: compact, json, pretty")
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "database path (overrides discovery)")
	root.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress non-essential output")

	root.AddCommand(
		newInitCmd(),
		newAddCmd(),
		newListCmd(),
		newGetCmd(),
		newUpdateCmd(),
		newCloseCmd(),
		newNoteCmd(),
		newDependCmd(),
		newUndependCmd(),
		newNextCmd(),
		newReadyCmd(),
		newBatchCmd(),
		newGraphCmd(),
		newStatsCmd(),
		newExportCmd(),
		newImportCmd(),
		newDoctorCmd(),
		newConfigCmd(),
		newSchemaCmd(),
	)

	return root
}

// Execute runs the command tree and returns the process exit code,
// already having written any diagnostic to stderr (§7 propagation
// policy).
func Execute() int {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		if err == engine.ErrEmptyResult {
			return surface.EmptyResultExitCode
		}
		format, _ := surface.ParseFormat(flags.format)
		return surface.WriteError(os.Stderr, format, toErrsError(err))
	}
	return 0
}

func toErrsError(err error) error {
	if _, ok := errs.As(err); ok {
		return err
	}
	return errs.InvalidValuef("%v", err)
}

// withEngine resolves the database (requireExisting controls whether a
// miss is itself an error, per §4.1 Discovery) and runs fn against a
// freshly opened Engine, closing the Store on every exit path (§5).
func withEngine(requireExisting bool, fn func(ctx context.Context, e *engine.Engine) error) error {
	path, err := store.Resolve(flags.dbPath, requireExisting)
	if err != nil {
		return err
	}
	s, err := store.Open(context.Background(), path)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	return fn(context.Background(), engine.New(s))
}

func parseFormat() surface.Format {
	f, err := surface.ParseFormat(flags.format)
	if err != nil {
		return surface.Compact
	}
	return f
}
