package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var countIncludeDeleted bool

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of stored commands",
	Args:  cobra.NoArgs,
	RunE:  runCount,
}

func init() {
	rootCmd.AddCommand(countCmd)
	countCmd.Flags().BoolVar(&countIncludeDeleted, "include-deleted", false, "Count deleted entries too")
}

func runCount(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	n, err := e.store.HistoryCount(cmd.Context(), countIncludeDeleted)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), n)
	return nil
}
