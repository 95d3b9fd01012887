package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nit-tools/nit/internal/engine"
	"github.com/nit-tools/nit/internal/surface"
)

func newDependCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "depend <blocker-id> <blocked-id>",
		Short: "Record that one issue blocks another",
		Long:  `Record that blocker-id blocks blocked-id, rejecting edges that would close a cycle.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			blockerID, err := parseID(args[0])
			if err != nil {
				return err
			}
			blockedID, err := parseID(args[1])
			if err != nil {
				return err
			}

			runErr := withEngine(true, func(ctx context.Context, e *engine.Engine) error {
				return e.Depend(ctx, blockerID, blockedID)
			})
			if runErr != nil {
				return runErr
			}
			return surface.RenderDepend(cmd.OutOrStdout(), parseFormat(), blockerID, blockedID)
		},
	}
	return cmd
}

func newUndependCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undepend <blocker-id> <blocked-id>",
		Short: "Remove a blocker edge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			blockerID, err := parseID(args[0])
			if err != nil {
				return err
			}
			blockedID, err := parseID(args[1])
			if err != nil {
				return err
			}

			var unblocked []int64
			runErr := withEngine(true, func(ctx context.Context, e *engine.Engine) error {
				var err error
				unblocked, err = e.Undepend(ctx, blockerID, blockedID)
				return err
			})
			if runErr != nil {
				return runErr
			}
			return surface.RenderUndepend(cmd.OutOrStdout(), parseFormat(), unblocked)
		},
	}
	return cmd
}
