package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/pagemark/internal/app"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved pages",
		Long:    "List saved pages in file order. --search matches URL, title, description and tags; --tag matches whole tags (any of them).",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			query, _ := cmd.Flags().GetString("search")
			tags, _ := cmd.Flags().GetStringSlice("tag")
			favorites, _ := cmd.Flags().GetBool("favorites")

			records, err := ctx.App.Query(app.Filter{
				Query:         query,
				Tags:          tags,
				FavoritesOnly: favorites,
			})
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				return writeJSON(cmd.OutOrStdout(), records)
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No bookmarks found")
				return nil
			}
			for _, r := range records {
				printRecord(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}

	cmd.Flags().StringP("search", "s", "", "case-insensitive text search")
	cmd.Flags().StringSliceP("tag", "t", nil, "filter by tag (repeatable or comma-separated)")
	cmd.Flags().BoolP("favorites", "f", false, "only favorites")

	return cmd
}
