package cli

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/nit-tools/nit/internal/engine"
	"github.com/nit-tools/nit/internal/nit/errs"
	"github.com/nit-tools/nit/internal/surface"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Batch operations",
	}
	cmd.AddCommand(newBatchAddCmd())
	return cmd
}

func newBatchAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create many issues in one transaction from a JSON array on stdin",
		Long: `Read a JSON array of issue objects from standard input and create
them all in one transaction. Each object's blocked_by may reference
existing issue ids or "@N" batch-local indices into this same array.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, closeFn, err := readStdinOrFile("-")
			if err != nil {
				return err
			}
			defer closeFn()

			var items []engine.BatchItem
			if err := json.NewDecoder(f).Decode(&items); err != nil {
				return errs.ParseErrorf(err, "decode batch add input")
			}

			var result *engine.BatchAddResult
			runErr := withEngine(true, func(ctx context.Context, e *engine.Engine) error {
				var err error
				result, err = e.BatchAdd(ctx, items)
				return err
			})
			if runErr != nil {
				return runErr
			}
			return surface.RenderBatchAdd(cmd.OutOrStdout(), parseFormat(), result)
		},
	}
	return cmd
}
