package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nit-tools/nit/internal/engine"
	"github.com/nit-tools/nit/internal/nit/types"
	"github.com/nit-tools/nit/internal/surface"
)

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show the full detail of one issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var detail *types.IssueDetail
			runErr := withEngine(true, func(ctx context.Context, e *engine.Engine) error {
				var err error
				detail, err = e.Get(ctx, id)
				return err
			})
			if runErr != nil {
				return runErr
			}
			return surface.RenderDetail(cmd.OutOrStdout(), parseFormat(), detail)
		},
	}
	return cmd
}
