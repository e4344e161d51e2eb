package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/pagemark/internal/culler"
)

// NewCullCmd creates the cull command.
func NewCullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cull",
		Short: "Find saved pages that no longer load",
		Long:  "Check every saved URL. 404 and 410 responses are reported as dead; network failures and other statuses as unreachable. With --delete, dead pages are removed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			remove, _ := cmd.Flags().GetBool("delete")

			progress := func(completed, total int) {
				if !ctx.JSONMode {
					fmt.Fprintf(cmd.ErrOrStderr(), "\rChecking %d/%d", completed, total)
				}
			}
			results, err := ctx.App.Cull(cmd.Context(), progress)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if !ctx.JSONMode && len(results) > 0 {
				fmt.Fprintln(cmd.ErrOrStderr())
			}

			dead := culler.Filter(results, culler.Dead)
			unreachable := culler.Filter(results, culler.Unreachable)

			if remove {
				for _, r := range dead {
					if err := ctx.App.Delete(r.Record.URL); err != nil {
						return writeCommandError(cmd, err)
					}
				}
			}

			if ctx.JSONMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"checked":     len(results),
					"dead":        cullEntries(dead),
					"unreachable": cullEntries(unreachable),
					"deleted":     remove,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Checked %d bookmarks: %d dead, %d unreachable\n", len(results), len(dead), len(unreachable))
			for _, r := range dead {
				fmt.Fprintf(out, "  dead %d  %s\n", r.StatusCode, r.Record.URL)
			}
			for _, r := range unreachable {
				fmt.Fprintf(out, "  unreachable (%s)  %s\n", r.Error, r.Record.URL)
			}
			if remove && len(dead) > 0 {
				fmt.Fprintf(out, "Deleted %d dead bookmarks\n", len(dead))
			}
			return nil
		},
	}

	cmd.Flags().Bool("delete", false, "delete dead bookmarks")

	return cmd
}

type cullEntry struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
}

func cullEntries(results []culler.Result) []cullEntry {
	entries := make([]cullEntry, len(results))
	for i, r := range results {
		entries[i] = cullEntry{
			URL:        r.Record.URL,
			Title:      r.Record.Title,
			StatusCode: r.StatusCode,
			Error:      r.Error,
		}
	}
	return entries
}
