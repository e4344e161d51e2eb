package command

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nikbrunner/pagemark/internal/tui"
	"github.com/nikbrunner/pagemark/internal/watch"
)

// runTUI runs the full interactive TUI. Edits made by other processes to
// the data file are picked up through a file watcher.
func runTUI(cmd *cobra.Command, args []string) error {
	ctx, err := GetContext(cmd)
	if err != nil {
		return writeCommandError(cmd, err)
	}
	defer ctx.Close()

	var events <-chan watch.Changed
	w, err := watch.New(ctx.App.DataFile(), watch.DefaultDebounce, ctx.Logger)
	if err != nil {
		ctx.Logger.Warn("file watching disabled", zap.Error(err))
	} else {
		defer w.Close()
		events = w.Events()
	}

	model := tui.NewApp(tui.AppParams{
		Controller: ctx.App,
		Context:    cmd.Context(),
		Changes:    ctx.App.Changes(),
		Watch:      events,
	})

	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
		return writeCommandError(cmd, err)
	}
	return nil
}
