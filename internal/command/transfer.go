package command

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/pagemark/internal/exporter"
)

// NewImportCmd creates the import command.
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge bookmarks from a file",
		Long:  "Merge records from a Netscape bookmark HTML (.html, .htm), JSON (.json) or CSV file. Records are matched by URL; imported fields win.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			n, err := ctx.App.Import(args[0])
			if err != nil {
				return writeCommandError(cmd, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d bookmarks from %s\n", n, args[0])
			return nil
		},
	}

	return cmd
}

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Write all bookmarks to a file",
		Long:  "Write all records to path. The format follows the extension: .html/.htm Netscape bookmarks, .json JSON, anything else CSV. Without a path the file goes to ~/Downloads in the --format format.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			format = strings.ToLower(strings.TrimPrefix(format, "."))
			switch format {
			case "html", "json", "csv":
			default:
				return writeCommandError(cmd, fmt.Errorf("unknown export format %q (want html, json or csv)", format))
			}

			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				var err error
				path, err = exporter.DefaultExportPath(format)
				if err != nil {
					return writeCommandError(cmd, err)
				}
				if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
					return writeCommandError(cmd, err)
				}
			}

			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			if err := ctx.App.Export(path); err != nil {
				return writeCommandError(cmd, err)
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				abs = path
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported bookmarks to %s\n", abs)
			return nil
		},
	}

	cmd.Flags().String("format", "html", "format when no path is given: html, json or csv")

	return cmd
}
