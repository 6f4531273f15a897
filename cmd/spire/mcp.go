package main

import (
	"context"
	"log"
	"os"

	"github.com/aretw0/spire"
	"github.com/aretw0/spire/internal/cli"
	"github.com/aretw0/spire/pkg/adapters/mcp"
	"github.com/aretw0/spire/pkg/runner"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the agent and serve inspection tools over MCP stdio",
	Long: `Starts the agent loop and a Model Context Protocol server on stdin/stdout.
Tools: get_status, get_history(topic), get_scratch(key). Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		// Stdout carries JSON-RPC.
		log.SetOutput(os.Stderr)
		logger, closeLog := newLogger(cfg)
		defer closeLog()

		sm := runner.NewSignalManager(context.Background())
		defer sm.Stop()
		ctx, cancel := context.WithCancel(sm.Context())
		defer cancel()

		stack, err := cli.Build(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer stack.Close()

		done := make(chan error, 1)
		go func() {
			done <- cli.Run(ctx, stack, cli.RunOptions{
				Interval: cfg.TickInterval,
				Listen:   cfg.HTTP.Listen,
				Logger:   logger,
			})
		}()

		logger.Info("mcp server ready on stdio")
		serveErr := mcp.NewServer(stack.Agent, spire.Version).ServeStdio()
		cancel()
		if err := <-done; err != nil {
			return err
		}
		return serveErr
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().Int("display", 1, "Display to play on (1-based)")
	mcpCmd.Flags().String("reasoner", "openai", "Reasoner provider: openai or mock")
}
