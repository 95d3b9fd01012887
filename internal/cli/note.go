package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nit-tools/nit/internal/engine"
	"github.com/nit-tools/nit/internal/nit/errs"
	"github.com/nit-tools/nit/internal/nit/types"
	"github.com/nit-tools/nit/internal/surface"
)

func newNoteCmd() *cobra.Command {
	var agent string

	cmd := &cobra.Command{
		Use:   "note <id> [content]",
		Short: "Append a note to an issue",
		Long: `Append a note to an issue without changing its status.

If content is omitted and standard input is a pipe rather than a
terminal, the note content is read from standard input (§4.4 note).`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			content := ""
			if len(args) == 2 {
				content = args[1]
			} else if isPipe(os.Stdin) {
				raw, err := io.ReadAll(os.Stdin)
				if err != nil {
					return errs.IoErrorf(err, "read note content from stdin")
				}
				content = strings.TrimRight(string(raw), "\n")
			}

			var detail *types.IssueDetail
			runErr := withEngine(true, func(ctx context.Context, e *engine.Engine) error {
				if err := e.AddNote(ctx, id, content, agent); err != nil {
					return err
				}
				var err error
				detail, err = e.Get(ctx, id)
				return err
			})
			if runErr != nil {
				return runErr
			}
			return surface.RenderDetail(cmd.OutOrStdout(), parseFormat(), detail)
		},
	}

	cmd.Flags().StringVar(&agent, "agent", "", "agent name attributed to this note")
	return cmd
}

func isPipe(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) == 0
}
