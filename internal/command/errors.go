package command

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/pagemark/internal/storage"
)

var errLLMUnavailable = errors.New("LLM service unavailable")

func writeCommandError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())

	if errors.Is(err, storage.ErrRecordNotFound) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Hint: URLs must match exactly. Try: %s list --search <text>\n", AppName)
	}

	return err
}
