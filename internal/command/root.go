package command

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

const AppName = "pagemark"

// Version is overwritten at build time using -ldflags.
var Version = "dev"

func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           AppName,
		Short:         "pagemark - capture, describe and browse bookmarks",
		Long:          "pagemark renders bookmarked pages headlessly, keeps a screenshot and the page text, asks a language model for tags and a description, and stores everything in a CSV file.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	cmd.Version = version
	cmd.SetVersionTemplate(AppName + " version {{.Version}}\n")
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().String("config-dir", "", "configuration directory (default $PAGEMARK_HOME or ~/.config/pagemark)")
	cmd.PersistentFlags().Bool("json", false, "output in JSON format")

	cmd.AddCommand(
		NewAddCmd(),
		NewRecaptureCmd(),
		NewListCmd(),
		NewFavCmd(),
		NewRmCmd(),
		NewImportCmd(),
		NewExportCmd(),
		NewCheckCmd(),
		NewCullCmd(),
		NewOpenCmd(),
	)

	return cmd
}

// Execute runs the root command. An interrupt cancels the command context
// so running captures tear their browser down.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd(Version).ExecuteContext(ctx)
}
