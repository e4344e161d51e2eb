package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that the LLM endpoint is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			status := ctx.App.CheckLLM(cmd.Context())

			if ctx.JSONMode {
				if err := writeJSON(cmd.OutOrStdout(), status); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Provider: %s\n", status.Provider)
				fmt.Fprintf(out, "Endpoint: %s\n", status.Endpoint)
				fmt.Fprintf(out, "Model:    %s\n", ctx.Config.LLMModel)
				if status.Available {
					fmt.Fprintln(out, "Status:   available")
				} else {
					fmt.Fprintf(out, "Status:   unavailable (%s)\n", status.Error)
				}
				if status.Details != "" {
					fmt.Fprintf(out, "Details:  %s\n", status.Details)
				}
			}

			if !status.Available {
				return errLLMUnavailable
			}
			return nil
		},
	}

	return cmd
}
