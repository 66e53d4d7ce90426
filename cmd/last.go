package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chris/histdb/internal/format"
	"github.com/chris/histdb/pkg/models"
)

var (
	lastCmdOnly bool
	lastFormat  string
)

var lastCmd = &cobra.Command{
	Use:   "last",
	Short: "Show the most recent finished command",
	Args:  cobra.NoArgs,
	RunE:  runLast,
}

func init() {
	rootCmd.AddCommand(lastCmd)
	lastCmd.Flags().BoolVar(&lastCmdOnly, "cmd-only", false, "Print only the command text")
	lastCmd.Flags().StringVarP(&lastFormat, "format", "f", format.DefaultTemplate, "Output template")
}

func runLast(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	h, err := e.store.Last(cmd.Context())
	if err != nil || h == nil {
		return err
	}
	return printHistories(cmd, []*models.History{h}, lastFormat, lastCmdOnly)
}
