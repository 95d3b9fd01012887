package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nit-tools/nit/internal/engine"
	"github.com/nit-tools/nit/internal/nit/types"
	"github.com/nit-tools/nit/internal/surface"
)

func newNextCmd() *cobra.Command {
	var claim bool

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the single highest-urgency ready issue",
		Long: `Select the highest-urgency open, unblocked issue.

--claim atomically transitions it to in-progress in the same transaction
that selects it. An empty result (nothing ready) exits 2 (§6).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var detail *types.IssueDetail
			runErr := withEngine(true, func(ctx context.Context, e *engine.Engine) error {
				var err error
				detail, err = e.Next(ctx, engine.NextInput{Claim: claim})
				return err
			})
			if runErr != nil {
				return runErr
			}
			return surface.RenderDetail(cmd.OutOrStdout(), parseFormat(), detail)
		},
	}

	cmd.Flags().BoolVar(&claim, "claim", false, "transition the selected issue to in-progress")
	return cmd
}

func newReadyCmd() *cobra.Command {
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "ready",
		Short: "List unblocked issues sorted by urgency",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := parseStatuses(status)
			if err != nil {
				return err
			}

			var summaries []types.IssueSummary
			runErr := withEngine(true, func(ctx context.Context, e *engine.Engine) error {
				var err error
				summaries, err = e.Ready(ctx, engine.ReadyInput{Statuses: statuses, Limit: limit})
				return err
			})
			if runErr != nil {
				return runErr
			}
			if len(summaries) == 0 {
				return engine.ErrEmptyResult
			}
			return surface.RenderSummaries(cmd.OutOrStdout(), parseFormat(), summaries)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "comma-separated statuses (default open)")
	cmd.Flags().IntVar(&limit, "limit", 0, "limit the number of rows returned")
	return cmd
}
