package cmd

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/chris/histdb/internal/format"
)

var (
	beforeAt      string
	beforeCount   int64
	beforeCmdOnly bool
	beforeFormat  string
)

var beforeCmd = &cobra.Command{
	Use:   "before",
	Short: "List the commands run just before a point in time",
	Args:  cobra.NoArgs,
	RunE:  runBefore,
}

func init() {
	rootCmd.AddCommand(beforeCmd)
	beforeCmd.Flags().StringVar(&beforeAt, "at", "now", "Point in time")
	beforeCmd.Flags().Int64VarP(&beforeCount, "count", "n", 10, "Number of entries")
	beforeCmd.Flags().BoolVar(&beforeCmdOnly, "cmd-only", false, "Print only the command text")
	beforeCmd.Flags().StringVarP(&beforeFormat, "format", "f", format.DefaultTemplate, "Output template")
}

func runBefore(cmd *cobra.Command, args []string) error {
	at, err := parseDate("at", beforeAt)
	if err != nil {
		return err
	}

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	hs, err := e.store.Before(cmd.Context(), at, beforeCount)
	if err != nil {
		return err
	}
	slices.Reverse(hs)
	return printHistories(cmd, hs, beforeFormat, beforeCmdOnly)
}
