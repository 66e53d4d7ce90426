package cmd

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/chris/histdb/internal/format"
	"github.com/chris/histdb/pkg/models"
)

var (
	listCwd            bool
	listSession        bool
	listUnique         bool
	listIncludeDeleted bool
	listReverse        bool
	listCmdOnly        bool
	listFormat         string
	listLimit          int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded commands",
	Long:  "Lists history oldest first. --cwd and --session restrict the listing to the current directory or shell session.",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listCwd, "cwd", false, "Only commands run in the current directory")
	listCmd.Flags().BoolVar(&listSession, "session", false, "Only commands from the current session")
	listCmd.Flags().BoolVarP(&listUnique, "unique", "u", false, "Show each command once, at its newest run")
	listCmd.Flags().BoolVar(&listIncludeDeleted, "include-deleted", false, "Include deleted entries")
	listCmd.Flags().BoolVarP(&listReverse, "reverse", "r", false, "Newest first")
	listCmd.Flags().BoolVar(&listCmdOnly, "cmd-only", false, "Print only the command text")
	listCmd.Flags().StringVarP(&listFormat, "format", "f", format.DefaultTemplate, "Output template; keys: {id} {time} {duration} {exit} {command} {directory} {session} {host}")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Maximum number of entries (0 for all)")
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	shell, err := detectShell()
	if err != nil {
		return err
	}

	var filters []models.FilterMode
	if listCwd {
		filters = append(filters, models.FilterDirectory)
	}
	if listSession {
		filters = append(filters, models.FilterSession)
	}

	hs, err := e.store.List(cmd.Context(), filters, shell, listLimit, listUnique, listIncludeDeleted)
	if err != nil {
		return err
	}
	if !listReverse {
		slices.Reverse(hs)
	}
	return printHistories(cmd, hs, listFormat, listCmdOnly)
}
