package command

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/pagemark/internal/app"
	"github.com/nikbrunner/pagemark/internal/model"
	"github.com/nikbrunner/pagemark/internal/picker"
	"github.com/nikbrunner/pagemark/internal/search"
)

// openURL is replaced in tests.
var openURL = app.OpenURL

// NewOpenCmd creates the open command.
func NewOpenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open <query>...",
		Short: "Fuzzy-find a saved page and open it in the browser",
		Long:  "Fuzzy-match the query against titles and URLs. A single match opens directly; several matches open a picker.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			records, err := ctx.App.Records()
			if err != nil {
				return writeCommandError(cmd, err)
			}

			query := strings.Join(args, " ")
			results := search.Fuzzy(records, query)
			if len(results) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No bookmarks found for '%s'\n", query)
				return nil
			}

			var selected model.Record
			if len(results) == 1 {
				selected = results[0].Record
			} else {
				final, err := tea.NewProgram(
					picker.New(results, query),
					tea.WithInput(cmd.InOrStdin()),
					tea.WithOutput(cmd.ErrOrStderr()),
				).Run()
				if err != nil {
					return writeCommandError(cmd, fmt.Errorf("picker: %w", err))
				}
				p := final.(picker.Picker)
				if p.Cancelled() {
					return nil
				}
				var ok bool
				if selected, ok = p.Selected(); !ok {
					return nil
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Opening: %s\n", selected.Title)
			if err := openURL(selected.URL); err != nil {
				return writeCommandError(cmd, err)
			}
			return nil
		},
	}

	return cmd
}
