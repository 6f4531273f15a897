package main

import (
	"fmt"

	"github.com/aretw0/spire/internal/cli"
	"github.com/aretw0/spire/pkg/domain"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the agent state machine as a Mermaid flowchart",
	Run: func(cmd *cobra.Command, args []string) {
		current, _ := cmd.Flags().GetString("current")
		fmt.Fprint(cmd.OutOrStdout(), cli.Diagram(domain.StateKind(current)))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("current", "", "State to highlight, e.g. combat")
}
