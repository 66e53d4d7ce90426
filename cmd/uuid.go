package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chris/histdb/pkg/models"
)

var uuidCmd = &cobra.Command{
	Use:    "uuid",
	Short:  "Print a new time-ordered id",
	Long:   "Prints a fresh id in the format used for history entries. The shell hooks use it as the session id.",
	Hidden: true,
	Args:   cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), models.NewHistoryID())
	},
}

func init() {
	rootCmd.AddCommand(uuidCmd)
}
