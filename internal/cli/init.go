package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nit-tools/nit/internal/engine"
	"github.com/nit-tools/nit/internal/surface"
)

func newInitCmd() *cobra.Command {
	var agentsMD bool
	var dir string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new .nit.db in the current (or given) directory",
		Long: `Create a fresh database with the schema applied.

An existing database is left untouched; init reports whether it created
one. --agents-md appends a short command reference to AGENTS.md, creating
the file if absent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := dir
			if target == "" {
				target = "."
			}

			// Init manages its own database lifecycle (it may be the call
			// that creates the file), so it runs on a bare Engine rather
			// than through withEngine's open-existing-or-fail path.
			result, err := (&engine.Engine{}).Init(context.Background(), target)
			if err != nil {
				return err
			}
			if agentsMD {
				if err := engine.AppendAgentsMD(target); err != nil {
					return err
				}
			}
			return surface.RenderInit(cmd.OutOrStdout(), parseFormat(), result)
		},
	}

	cmd.Flags().BoolVar(&agentsMD, "agents-md", false, "also append a command reference to AGENTS.md")
	cmd.Flags().StringVar(&dir, "dir", "", "directory to initialize (default: current directory)")
	return cmd
}
