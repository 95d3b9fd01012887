package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nit-tools/nit/internal/engine"
	"github.com/nit-tools/nit/internal/surface"
)

func newImportCmd() *cobra.Command {
	var in string
	var merge bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a snapshot produced by export",
		Long: `Load a snapshot produced by export, reading from standard input by
default (or --in). Encoding (JSONL vs single-document) is auto detected.

Default mode aborts the whole import on any id collision, leaving the
database untouched. --merge instead skips colliding issues, dependencies
and notes (notes collide by id) and reports how many were skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, closeFn, err := readStdinOrFile(in)
			if err != nil {
				return err
			}
			defer closeFn()

			mode := engine.ImportReplace
			if merge {
				mode = engine.ImportMerge
			}

			var result *engine.ImportResult
			runErr := withEngine(true, func(ctx context.Context, e *engine.Engine) error {
				var err error
				result, err = e.Import(ctx, f, mode)
				return err
			})
			if runErr != nil {
				return runErr
			}
			return surface.RenderImportResult(cmd.OutOrStdout(), parseFormat(), result)
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "read the snapshot from this path instead of standard input")
	cmd.Flags().BoolVar(&merge, "merge", false, "skip colliding issues/dependencies/notes instead of aborting")
	return cmd
}
