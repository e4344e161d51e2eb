package command

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nikbrunner/pagemark/internal/app"
	"github.com/nikbrunner/pagemark/internal/logger"
	"github.com/nikbrunner/pagemark/internal/storage"
)

// CommandContext provides shared command resources.
type CommandContext struct {
	App      *app.App
	Config   *storage.Config
	Logger   *zap.Logger
	JSONMode bool
}

// GetContext loads the configuration and builds the application for a command.
func GetContext(cmd *cobra.Command) (*CommandContext, error) {
	dir, _ := cmd.Flags().GetString("config-dir")
	jsonMode, _ := cmd.Flags().GetBool("json")

	if dir == "" {
		var err error
		dir, err = storage.DefaultConfigDir()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := storage.LoadConfig(dir)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Options{
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
	})
	if err != nil {
		return nil, err
	}

	a, err := app.New(cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	return &CommandContext{
		App:      a,
		Config:   cfg,
		Logger:   log,
		JSONMode: jsonMode,
	}, nil
}

// Close releases the application.
func (c *CommandContext) Close() error {
	return c.App.Close()
}
