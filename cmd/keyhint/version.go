package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of keyhint",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "keyhint %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "Commit: %s\n", commit)
		fmt.Fprintf(cmd.OutOrStdout(), "Built: %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
