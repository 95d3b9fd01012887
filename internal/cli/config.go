package cli

import (
	"context"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nit-tools/nit/internal/engine"
	"github.com/nit-tools/nit/internal/nit/errs"
	"github.com/nit-tools/nit/internal/surface"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and change urgency coefficient overrides",
	}
	cmd.AddCommand(newConfigListCmd(), newConfigGetCmd(), newConfigSetCmd(), newConfigResetCmd())
	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every stored override key/value pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			var m map[string]string
			runErr := withEngine(true, func(ctx context.Context, e *engine.Engine) error {
				var err error
				m, err = e.ConfigList(ctx)
				return err
			})
			if runErr != nil {
				return runErr
			}
			return surface.RenderConfigList(cmd.OutOrStdout(), parseFormat(), m)
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Show one config key's stored value, or its default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value string
			var ok bool
			runErr := withEngine(true, func(ctx context.Context, e *engine.Engine) error {
				var err error
				value, ok, err = e.ConfigGet(ctx, args[0])
				return err
			})
			if runErr != nil {
				return runErr
			}
			return surface.RenderConfigValue(cmd.OutOrStdout(), parseFormat(), args[0], value, ok)
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Store a config override, or bulk-load overrides from a file",
		Long: `Store one key/value override.

With --from-file, key and value are omitted: the file (TOML or YAML,
detected by extension) is read with viper's multi-format reader and
every leaf key it contains is flattened to a dotted path and written
into the config table, the same way a single "set" would. The file is
only ever read from, never treated as a live config source: the
database remains the single source of truth at lookup time.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if fromFile != "" {
				return cobra.MaximumNArgs(0)(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromFile != "" {
				pairs, err := loadConfigFile(fromFile)
				if err != nil {
					return err
				}
				return withEngine(true, func(ctx context.Context, e *engine.Engine) error {
					for _, kv := range pairs {
						if err := e.ConfigSet(ctx, kv[0], kv[1]); err != nil {
							return err
						}
					}
					return nil
				})
			}
			return withEngine(true, func(ctx context.Context, e *engine.Engine) error {
				return e.ConfigSet(ctx, args[0], args[1])
			})
		},
	}

	cmd.Flags().StringVar(&fromFile, "from-file", "", "bulk-load overrides from a TOML or YAML file")
	return cmd
}

// loadConfigFile reads path with viper (mirroring the labelmutex policy
// loader's viper.New/SetConfigFile/ReadInConfig idiom) and flattens its
// keys into dotted key/value pairs, sorted for deterministic application
// order.
func loadConfigFile(path string) ([][2]string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errs.ParseErrorf(err, "read config file "+path)
	}

	keys := v.AllKeys()
	sort.Strings(keys)
	pairs := make([][2]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, [2]string{k, v.GetString(k)})
	}
	return pairs, nil
}

func newConfigResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every stored override, reverting to built-in defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(true, func(ctx context.Context, e *engine.Engine) error {
				return e.ConfigReset(ctx)
			})
		},
	}
}
