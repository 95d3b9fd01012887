package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nit-tools/nit/internal/engine"
	"github.com/nit-tools/nit/internal/surface"
)

func newSchemaCmd() *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the fixed DDL nit applies to every database",
		Long:  `Print the schema. --verify instead compares the live database's tables/indexes/triggers against a freshly applied reference and reports any drift.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verify {
				var drift []engine.SchemaDrift
				runErr := withEngine(true, func(ctx context.Context, e *engine.Engine) error {
					var err error
					drift, err = e.VerifySchema(ctx)
					return err
				})
				if runErr != nil {
					return runErr
				}
				return surface.RenderSchemaDrift(cmd.OutOrStdout(), parseFormat(), drift)
			}
			return surface.RenderSchema(cmd.OutOrStdout(), parseFormat(), engine.Schema())
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "compare the live database against a fresh reference schema")
	return cmd
}
