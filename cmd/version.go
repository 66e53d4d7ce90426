package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// HistdbVersion is the current version of histdb
const HistdbVersion = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of histdb",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "histdb version %s\n", HistdbVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
