package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nit-tools/nit/internal/engine"
	"github.com/nit-tools/nit/internal/surface"
)

func newDoctorCmd() *cobra.Command {
	var fix bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run a read-only integrity scan over the database",
		Long: `Scan for orphan dependency edges, cycles, issues stuck in-progress,
childless epics, and edges from a terminal blocker to an active issue.

--fix removes orphan edges and dangling terminal-blocker edges (never
issue statuses) using a short-lived maintenance connection. -v previews
the fix plan as YAML before anything runs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fix {
				var report *engine.DoctorReport
				var result *engine.DoctorFixResult
				runErr := withEngine(true, func(ctx context.Context, e *engine.Engine) error {
					var err error
					if verbose {
						report, err = e.Doctor(ctx)
						if err != nil {
							return err
						}
						plan, err := report.FixPlanYAML()
						if err != nil {
							return err
						}
						fmt.Fprint(cmd.ErrOrStderr(), plan)
					}
					result, err = e.Fix(ctx)
					return err
				})
				if runErr != nil {
					return runErr
				}
				return surface.RenderFixResult(cmd.OutOrStdout(), parseFormat(), result)
			}

			var report *engine.DoctorReport
			runErr := withEngine(true, func(ctx context.Context, e *engine.Engine) error {
				var err error
				report, err = e.Doctor(ctx)
				return err
			})
			if runErr != nil {
				return runErr
			}
			return surface.RenderDoctor(cmd.OutOrStdout(), parseFormat(), report)
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "remove orphan and dangling terminal-blocker edges")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "preview the fix plan as YAML before --fix runs")
	return cmd
}
