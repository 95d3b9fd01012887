package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nit-tools/nit/internal/engine"
	"github.com/nit-tools/nit/internal/nit/types"
	"github.com/nit-tools/nit/internal/surface"
)

func newListCmd() *cobra.Command {
	var status, priority, kind, tags, sortField string
	var parentID int64
	var hasParent bool
	var blockedOnly, includeBlocked bool
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List issues matching a filter",
		Long: `List issues, defaulting to open and in-progress ones sorted by
urgency. An empty result set exits 2 rather than 0 (§6).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := parseStatuses(status)
			if err != nil {
				return err
			}
			priorities, err := parsePriorities(priority)
			if err != nil {
				return err
			}
			kinds, err := parseKinds(kind)
			if err != nil {
				return err
			}

			in := engine.ListInput{
				Statuses:       statuses,
				Priorities:     priorities,
				Kinds:          kinds,
				Tags:           splitCSV(tags),
				BlockedOnly:    blockedOnly,
				IncludeBlocked: includeBlocked,
				Sort:           types.SortField(sortField),
				Limit:          limit,
			}
			if hasParent {
				in.ParentID = &parentID
			}

			var summaries []types.IssueSummary
			runErr := withEngine(true, func(ctx context.Context, e *engine.Engine) error {
				var err error
				summaries, err = e.List(ctx, in)
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

	cmd.Flags().StringVar(&status, "status", "", "comma-separated statuses (default open,in-progress)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "comma-separated priorities")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "comma-separated kinds")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags, all must match")
	cmd.Flags().Int64Var(&parentID, "parent", 0, "restrict to children of this epic")
	cmd.Flags().BoolVar(&blockedOnly, "blocked-only", false, "only currently blocked issues")
	cmd.Flags().BoolVar(&includeBlocked, "include-blocked", false, "include blocked issues in the default view")
	cmd.Flags().StringVar(&sortField, "sort", "", "sort field: urgency, priority, created, updated, id")
	cmd.Flags().IntVar(&limit, "limit", 0, "limit the number of rows returned")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		hasParent = cmd.Flags().Changed("parent")
		return nil
	}

	return cmd
}
