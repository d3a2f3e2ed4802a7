package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftwiki/internal/config"
	"github.com/chriserin/ftwiki/internal/logging"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:          "ftwiki",
	Short:        "ftwiki — render feature files as wiki markup",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logLevel != "" {
			logging.SetLevel(logLevel)
		}
		cmd.SetContext(logging.WithLogger(cmd.Context(), logging.Default()))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and env overrides. The log level from
// the file applies unless --log-level was given.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel == "" {
		logging.SetLevel(cfg.LogLevel)
	}
	logging.Default().Debug("loaded config", logging.FieldConfig, configPath)
	return cfg, nil
}

func requireInit() error {
	if _, err := os.Stat("fts"); os.IsNotExist(err) {
		return errNotInitialized
	}
	return nil
}
