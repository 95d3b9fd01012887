package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nit-tools/nit/internal/engine"
	"github.com/nit-tools/nit/internal/surface"
)

func newGraphCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Emit the current dependency subgraph",
		Long:  `Emit the current dependency subgraph. By default only active issues are included; --all includes done/wontfix issues too.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var view *engine.GraphView
			runErr := withEngine(true, func(ctx context.Context, e *engine.Engine) error {
				var err error
				view, err = e.Graph(ctx, all)
				return err
			})
			if runErr != nil {
				return runErr
			}
			return surface.RenderGraph(cmd.OutOrStdout(), parseFormat(), view)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include done and wontfix issues")
	return cmd
}
