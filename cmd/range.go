package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chris/histdb/internal/format"
)

var (
	rangeFrom    string
	rangeTo      string
	rangeCmdOnly bool
	rangeFormat  string
)

var rangeCmd = &cobra.Command{
	Use:   "range",
	Short: "List commands run between two dates",
	Long:  `Lists every entry with --from <= timestamp <= --to, oldest first. Dates may be absolute ("2024-01-10 09:00") or relative ("yesterday", "3 hours ago").`,
	Args:  cobra.NoArgs,
	RunE:  runRange,
}

func init() {
	rootCmd.AddCommand(rangeCmd)
	rangeCmd.Flags().StringVar(&rangeFrom, "from", "", "Start of the range")
	rangeCmd.Flags().StringVar(&rangeTo, "to", "now", "End of the range")
	rangeCmd.Flags().BoolVar(&rangeCmdOnly, "cmd-only", false, "Print only the command text")
	rangeCmd.Flags().StringVarP(&rangeFormat, "format", "f", format.DefaultTemplate, "Output template")
	_ = rangeCmd.MarkFlagRequired("from")
}

func runRange(cmd *cobra.Command, args []string) error {
	from, err := parseDate("from", rangeFrom)
	if err != nil {
		return err
	}
	to, err := parseDate("to", rangeTo)
	if err != nil {
		return err
	}

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	hs, err := e.store.Range(cmd.Context(), from, to)
	if err != nil {
		return err
	}
	return printHistories(cmd, hs, rangeFormat, rangeCmdOnly)
}
