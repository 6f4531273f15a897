package main

import (
	"fmt"

	"github.com/aretw0/spire/internal/presentation/tui"
	"github.com/aretw0/spire/pkg/adapters/desktop"
	"github.com/spf13/cobra"
)

var displaysCmd = &cobra.Command{
	Use:   "displays",
	Short: "List the monitors the agent can play on",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		render := tui.NewRenderer(cmd.OutOrStdout())
		out, err := render(tui.DisplayTable(desktop.Displays(), cfg.Display))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(displaysCmd)
	displaysCmd.Flags().Int("display", 1, "Display to mark as selected")
}
