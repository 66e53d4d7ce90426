package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chris/histdb/internal/format"
)

var topLimit int

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the most frequently run commands",
	Args:  cobra.NoArgs,
	RunE:  runTop,
}

func init() {
	rootCmd.AddCommand(topCmd)
	topCmd.Flags().IntVarP(&topLimit, "limit", "n", 10, "Number of commands (0 for all)")
}

func runTop(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	counts, err := e.store.AllWithCount(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), format.Top(counts, topLimit, renderOptions(cmd)))
	return nil
}
