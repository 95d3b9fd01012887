package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nit-tools/nit/internal/engine"
)

func newExportCmd() *cobra.Command {
	var out string
	var singleDoc bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Emit a complete snapshot of every issue, dependency and note",
		Long: `Emit a complete, self-contained snapshot. Default encoding is one
JSON object per line with a "type" discriminator; --single-doc groups
issues/dependencies/notes under one object instead.

With --out, the snapshot is written durably (temp file, fsync, rename)
instead of to standard output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(true, func(ctx context.Context, e *engine.Engine) error {
				if out != "" {
					return e.ExportToFile(ctx, out, singleDoc)
				}
				return e.Export(ctx, cmd.OutOrStdout(), singleDoc)
			})
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "write the snapshot to this path instead of standard output")
	cmd.Flags().BoolVar(&singleDoc, "single-doc", false, "use the single-document encoding instead of JSONL")
	return cmd
}
