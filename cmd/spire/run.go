package main

import (
	"context"
	"fmt"

	"github.com/aretw0/spire"
	"github.com/aretw0/spire/internal/cli"
	"github.com/aretw0/spire/internal/presentation/tui"
	"github.com/aretw0/spire/pkg/runner"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play the game on the configured display",
	Long: `Opens the configured display and ticks the agent until interrupted.
With --listen, a status server exposes /healthz, /status, /history/{topic}, /metrics and /events.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ticks, _ := cmd.Flags().GetInt("ticks")

		logger, closeLog := newLogger(cfg)
		defer closeLog()

		tui.PrintBanner(cmd.OutOrStdout(), spire.Version)

		sm := runner.NewSignalManager(context.Background())
		defer sm.Stop()

		stack, err := cli.Build(sm.Context(), cfg, logger)
		if err != nil {
			logger.Error("agent setup failed", "err", err)
			return fmt.Errorf("setup: %w", err)
		}
		defer func() {
			if err := stack.Close(); err != nil {
				logger.Warn("shutdown incomplete", "err", err)
			}
		}()

		err = cli.Run(sm.Context(), stack, cli.RunOptions{
			Interval: cfg.TickInterval,
			Listen:   cfg.HTTP.Listen,
			MaxTicks: ticks,
			Logger:   logger,
		})
		status := stack.Agent.Status()
		logger.Info("agent stopped", "ticks", status.Ticks, "faults", status.Faults, "state", status.State)
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("display", 1, "Display to play on (1-based, see 'spire displays')")
	runCmd.Flags().String("listen", "", "Address of the status server, e.g. :8080")
	runCmd.Flags().String("reasoner", "openai", "Reasoner provider: openai or mock")
	runCmd.Flags().Duration("interval", 0, "Pause between ticks (default from config, 2s)")
	runCmd.Flags().Int("ticks", 0, "Stop after this many ticks (0 runs until interrupted)")
}
