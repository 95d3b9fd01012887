package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nit-tools/nit/internal/engine"
	"github.com/nit-tools/nit/internal/nit/types"
	"github.com/nit-tools/nit/internal/surface"
)

func newUpdateCmd() *cobra.Command {
	var title, status, priority, kind, ctxText, acceptance string
	var files, tags, addTags, removeTags, addFiles, removeFiles []string
	var parentID int64
	var clearParent bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change one or more fields of an issue",
		Long: `Change one or more fields of an issue in a single transaction.

--file/--tag replace the full list; --add-file/--remove-file and
--add-tag/--remove-tag apply incrementally on top of the stored (or
just-replaced) value, add before remove, deduplicated.

A transition into done or wontfix propagates unblocking to any issue
whose last active blocker this was.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			in := engine.UpdateInput{
				AddTags:     addTags,
				RemoveTags:  removeTags,
				AddFiles:    addFiles,
				RemoveFiles: removeFiles,
			}
			if cmd.Flags().Changed("title") {
				in.Title = &title
			}
			if cmd.Flags().Changed("status") {
				s := types.Status(status)
				in.Status = &s
			}
			if cmd.Flags().Changed("priority") {
				p := types.Priority(priority)
				in.Priority = &p
			}
			if cmd.Flags().Changed("kind") {
				k := types.Kind(kind)
				in.Kind = &k
			}
			if cmd.Flags().Changed("context") {
				in.Context = &ctxText
			}
			if cmd.Flags().Changed("acceptance") {
				in.Acceptance = &acceptance
			}
			if cmd.Flags().Changed("file") {
				in.Files = &files
			}
			if cmd.Flags().Changed("tag") {
				in.Tags = &tags
			}
			switch {
			case clearParent:
				var none *int64
				in.ParentID = &none
			case cmd.Flags().Changed("parent"):
				p := parentID
				pp := &p
				in.ParentID = &pp
			}

			var result *engine.UpdateResult
			runErr := withEngine(true, func(ctx context.Context, e *engine.Engine) error {
				var err error
				result, err = e.Update(ctx, id, in)
				return err
			})
			if runErr != nil {
				return runErr
			}
			return surface.RenderUpdateResult(cmd.OutOrStdout(), parseFormat(), result)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&status, "status", "", "new status: open, in-progress, done, wontfix")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "new priority")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "new kind")
	cmd.Flags().StringVar(&ctxText, "context", "", "replace context text")
	cmd.Flags().StringVar(&acceptance, "acceptance", "", "replace acceptance criteria text")
	cmd.Flags().StringSliceVar(&files, "file", nil, "replace the full file list (repeatable)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "replace the full tag list (repeatable)")
	cmd.Flags().StringSliceVar(&addTags, "add-tag", nil, "add a tag (repeatable)")
	cmd.Flags().StringSliceVar(&removeTags, "remove-tag", nil, "remove a tag (repeatable)")
	cmd.Flags().StringSliceVar(&addFiles, "add-file", nil, "add a file (repeatable)")
	cmd.Flags().StringSliceVar(&removeFiles, "remove-file", nil, "remove a file (repeatable)")
	cmd.Flags().Int64Var(&parentID, "parent", 0, "new parent epic id")
	cmd.Flags().BoolVar(&clearParent, "no-parent", false, "clear the parent epic")

	return cmd
}
