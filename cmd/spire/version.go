package main

import (
	"fmt"

	"github.com/aretw0/spire"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of spire",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "spire version %s\n", spire.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
