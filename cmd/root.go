package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"sales-assistant/internal/config"
	"sales-assistant/internal/infra/logger"
)

var (
	configPath string
	logLevel   string
)

// NewRootCmd builds the sales-assistant command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sales-assistant",
		Short:         "Conversational B2B sales assistant",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.GetEnvDefault("SALES_ASSISTANT_CONFIG", "config.yaml"), "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(GetServeCommand())
	rootCmd.AddCommand(GetIngestCommand())
	rootCmd.AddCommand(GetChatCommand())
	return rootCmd
}

// loadConfig reads the config file and builds the logger the command runs with.
func loadConfig(ctx context.Context) (*config.AppConfig, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, logger.NewLogger(ctx, cfg.Log.Level, cfg.Log.JSON), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
