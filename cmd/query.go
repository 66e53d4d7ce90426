package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/chris/histdb/internal/format"
)

var queryFormat string

var queryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Run a raw SELECT against the history table",
	Long: `Runs the statement as-is and prints the rows as history entries. Columns are matched by name;
missing columns are left empty.

  histdb query "SELECT * FROM history WHERE exit != 0 ORDER BY timestamp DESC LIMIT 5"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryFormat, "format", "f", format.DefaultTemplate, "Output template")
}

func runQuery(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	hs, err := e.store.QueryHistory(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	return printHistories(cmd, hs, queryFormat, false)
}
