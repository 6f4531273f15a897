package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/spire/internal/config"
	"github.com/aretw0/spire/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "spire",
	Short: "Spire is a screen-driven agent for a card-battler",
	Long: `Spire watches the game screen, asks a language model what to do and plays through
synthetic mouse input. Configuration is read from spire.yaml, SPIRE_* variables and flags.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default: spire.yaml in . or ~/.config/spire)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
}

// loadConfig layers the file named by --config, the environment and the flags set on cmd.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path, cmd.Flags())
}

// newLogger logs to stderr and, when a log dir is configured, to a per-run file.
func newLogger(cfg config.Config) (*slog.Logger, func() error) {
	level := logging.ParseLevel(cfg.Log.Level)
	if cfg.Log.Dir == "" {
		return logging.New(level), func() error { return nil }
	}
	logger, closeFn, err := logging.NewWithFile(level, cfg.Log.Dir)
	if err != nil {
		fallback := logging.New(level)
		fallback.Warn("run log file disabled", "err", err)
		return fallback, func() error { return nil }
	}
	return logger, closeFn
}
