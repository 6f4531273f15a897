package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/spire/internal/cli"
	"github.com/aretw0/spire/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var errNotReady = errors.New("not ready")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the display, data files, OCR, reasoner and memory reader",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		checks := cli.Checks(cmd.Context(), cfg, cli.HostProbes())
		render := tui.NewRenderer(cmd.OutOrStdout())
		out, err := render(tui.CheckReport("Spire readiness", checks))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)

		for _, c := range checks {
			if !c.OK {
				return errNotReady
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Int("display", 1, "Display to check (1-based)")
	checkCmd.Flags().String("reasoner", "openai", "Reasoner provider: openai or mock")
}
