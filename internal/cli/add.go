package cli

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/nit-tools/nit/internal/engine"
	"github.com/nit-tools/nit/internal/nit/errs"
	"github.com/nit-tools/nit/internal/nit/types"
	"github.com/nit-tools/nit/internal/surface"
)

func newAddCmd() *cobra.Command {
	var priority, kind, ctxText, acceptance string
	var files, tags []string
	var blockedBy []int64
	var parentID int64
	var hasParent bool
	var stdinJSON bool

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a new issue",
		Long: `Create a new open issue, optionally with blocker edges to
existing issues.

With --stdin-json, the title and every other field are read from a single
JSON object on stdin instead of flags, allowing a caller to set fields
flags don't expose a shorthand for.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if stdinJSON {
				return nil
			}
			if len(args) != 1 {
				return errs.InvalidValuef("add requires exactly one title argument (or --stdin-json)")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var in engine.AddInput
			if stdinJSON {
				f, closeFn, err := readStdinOrFile("-")
				if err != nil {
					return err
				}
				defer closeFn()
				if err := json.NewDecoder(f).Decode(&in); err != nil {
					return errs.ParseErrorf(err, "decode --stdin-json add input")
				}
			} else {
				in.Title = args[0]
				in.Priority = types.Priority(priority)
				in.Kind = types.Kind(kind)
				in.Context = ctxText
				in.Files = files
				in.Tags = tags
				in.Acceptance = acceptance
				in.BlockedBy = blockedBy
				if hasParent {
					in.ParentID = &parentID
				}
			}

			var detail *types.IssueDetail
			err := withEngine(true, func(ctx context.Context, e *engine.Engine) error {
				var err error
				detail, err = e.Add(ctx, in)
				return err
			})
			if err != nil {
				return err
			}
			return surface.RenderDetail(cmd.OutOrStdout(), parseFormat(), detail)
		},
	}

	cmd.Flags().StringVarP(&priority, "priority", "p", "", "priority: critical, high, medium, low (default medium)")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "kind: bug, feature, task, epic (default task)")
	cmd.Flags().StringVar(&ctxText, "context", "", "free-form context text")
	cmd.Flags().StringSliceVar(&files, "file", nil, "related file path (repeatable)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	cmd.Flags().StringVar(&acceptance, "acceptance", "", "acceptance criteria text")
	cmd.Flags().Int64SliceVar(&blockedBy, "blocked-by", nil, "id of an issue that blocks this one (repeatable)")
	cmd.Flags().Int64Var(&parentID, "parent", 0, "parent epic id")
	cmd.Flags().BoolVar(&stdinJSON, "stdin-json", false, "read the full issue as a JSON object on stdin")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		hasParent = cmd.Flags().Changed("parent")
		return nil
	}

	return cmd
}
