package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewFavCmd creates the fav command.
func NewFavCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav <url>",
		Short: "Toggle the favorite flag of a saved page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			rec, err := ctx.App.ToggleFavorite(args[0])
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			if rec.IsFavorite() {
				fmt.Fprintf(cmd.OutOrStdout(), "Favorited %s\n", rec.URL)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Unfavorited %s\n", rec.URL)
			}
			return nil
		},
	}

	return cmd
}

// NewRmCmd creates the rm command.
func NewRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <url>...",
		Short: "Delete saved pages and their screenshots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			for _, url := range args {
				if err := ctx.App.Delete(url); err != nil {
					return writeCommandError(cmd, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", url)
			}
			return nil
		},
	}

	return cmd
}
