package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/nit-tools/nit/internal/engine"
	"github.com/nit-tools/nit/internal/nit/errs"
	"github.com/nit-tools/nit/internal/surface"
)

func newStatsCmd() *cobra.Command {
	var since string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Compute aggregate counts across the issue set",
		Long:  `Compute aggregate counts across the issue set. --since restricts every figure to issues created within the given duration (e.g. 72h, 14d).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var s *engine.Stats
			runErr := withEngine(true, func(ctx context.Context, e *engine.Engine) error {
				if since == "" {
					var err error
					s, err = e.Stats(ctx)
					return err
				}
				d, err := parseDuration(since)
				if err != nil {
					return err
				}
				s, err = e.StatsSince(ctx, d)
				return err
			})
			if runErr != nil {
				return runErr
			}
			return surface.RenderStats(cmd.OutOrStdout(), parseFormat(), s)
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "restrict to issues created within this duration, e.g. 72h or 14d")
	return cmd
}

// parseDuration extends time.ParseDuration with a "d" (day) unit, since
// stats --since windows are naturally expressed in days.
func parseDuration(raw string) (time.Duration, error) {
	if len(raw) > 0 && raw[len(raw)-1] == 'd' {
		days, err := time.ParseDuration(raw[:len(raw)-1] + "h")
		if err != nil {
			return 0, errs.InvalidValuef("invalid --since duration %q", raw)
		}
		return days * 24, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errs.InvalidValuef("invalid --since duration %q", raw)
	}
	return d, nil
}
