package cmd

import (
	"github.com/spf13/cobra"
)

var deletedFormat string

var deletedCmd = &cobra.Command{
	Use:   "deleted",
	Short: "List deleted entries",
	Args:  cobra.NoArgs,
	RunE:  runDeleted,
}

func init() {
	rootCmd.AddCommand(deletedCmd)
	deletedCmd.Flags().StringVarP(&deletedFormat, "format", "f", `{id}\t{time}`, "Output template")
}

func runDeleted(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	hs, err := e.store.Deleted(cmd.Context())
	if err != nil {
		return err
	}
	return printHistories(cmd, hs, deletedFormat, false)
}
