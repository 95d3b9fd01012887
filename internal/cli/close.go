package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nit-tools/nit/internal/engine"
	"github.com/nit-tools/nit/internal/surface"
)

func newCloseCmd() *cobra.Command {
	var reason string
	var wontfix bool

	cmd := &cobra.Command{
		Use:   "close <id> [reason]",
		Short: "Mark an issue done (or wontfix)",
		Long: `Mark an issue done (or wontfix with --wontfix).

A reason may be given positionally or via --reason; the positional form
takes precedence when both are given.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if len(args) == 2 {
				reason = args[1]
			}

			var result *engine.UpdateResult
			runErr := withEngine(true, func(ctx context.Context, e *engine.Engine) error {
				var err error
				result, err = e.Close(ctx, id, engine.CloseInput{Reason: reason, Wontfix: wontfix})
				return err
			})
			if runErr != nil {
				return runErr
			}
			return surface.RenderUpdateResult(cmd.OutOrStdout(), parseFormat(), result)
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "close reason text")
	cmd.Flags().BoolVar(&wontfix, "wontfix", false, "close as wontfix instead of done")
	return cmd
}
