package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/pagemark/internal/model"
)

// NewAddCmd creates the add command.
func NewAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <url>...",
		Short: "Capture and save pages",
		Long:  "Render each URL headlessly, save a screenshot, extract the text, generate tags and a description, and store the record. Re-adding a URL refreshes it.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			var saved []model.Record
			for _, raw := range args {
				if !ctx.JSONMode {
					fmt.Fprintf(cmd.ErrOrStderr(), "Capturing %s...\n", model.NormalizeURL(raw))
				}
				rec, err := ctx.App.AddURL(cmd.Context(), raw)
				if err != nil {
					return writeCommandError(cmd, err)
				}
				saved = append(saved, rec)
				if !ctx.JSONMode {
					printRecord(cmd.OutOrStdout(), rec)
				}
			}

			if ctx.JSONMode {
				return writeJSON(cmd.OutOrStdout(), saved)
			}
			return nil
		},
	}

	return cmd
}

// NewRecaptureCmd creates the recapture command.
func NewRecaptureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recapture <url>",
		Short: "Replace the screenshot of a saved page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			rec, err := ctx.App.RecaptureScreenshot(cmd.Context(), args[0])
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Screenshot saved to %s\n", rec.Screenshot)
			return nil
		},
	}

	return cmd
}
