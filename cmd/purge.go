package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var purgeCmd = &cobra.Command{
	Use:   "purge <id...>",
	Short: "Permanently remove history entries",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPurge,
}

func init() {
	rootCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.store.DeleteRows(cmd.Context(), args); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Purged %d %s\n", len(args), plural(len(args), "entry", "entries"))
	return nil
}
