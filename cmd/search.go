package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chris/histdb/internal/format"
	"github.com/chris/histdb/pkg/models"
)

var (
	searchMode        string
	searchFilter      string
	searchExit        int64
	searchExcludeExit int64
	searchCwd         string
	searchExcludeCwd  string
	searchBefore      string
	searchAfter       string
	searchLimit       int64
	searchOffset      int64
	searchReverse     bool
	searchCmdOnly     bool
	searchFormat      string
	searchDelete      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search history",
	Long: `Searches history and prints the newest run of each matching command, best match first.

Query syntax (fulltext and fuzzy modes):
  word     contains word (fuzzy: letters in order)
  ^word    starts with word
  word$    ends with word
  'word    contains word exactly
  !word    does not contain word
  a | b    a or b
  r/re/    matches the regular expression re`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	f := searchCmd.Flags()
	f.StringVarP(&searchMode, "search-mode", "s", "", "prefix, fulltext or fuzzy (default from config)")
	f.StringVarP(&searchFilter, "filter-mode", "m", "", "global, host, session, directory or workspace (default from config)")
	f.Int64VarP(&searchExit, "exit", "e", 0, "Only commands with this exit status")
	f.Int64Var(&searchExcludeExit, "exclude-exit", 0, "Skip commands with this exit status")
	f.StringVarP(&searchCwd, "cwd", "c", "", "Only commands run in this directory")
	f.StringVar(&searchExcludeCwd, "exclude-cwd", "", "Skip commands run in this directory")
	f.StringVarP(&searchBefore, "before", "b", "", "Only commands run before this date")
	f.StringVarP(&searchAfter, "after", "a", "", "Only commands run after this date")
	f.Int64VarP(&searchLimit, "limit", "n", 0, "Maximum number of results")
	f.Int64Var(&searchOffset, "offset", 0, "Skip this many results")
	f.BoolVarP(&searchReverse, "reverse", "r", false, "Oldest first")
	f.BoolVar(&searchCmdOnly, "cmd-only", false, "Print only the command text")
	f.StringVarP(&searchFormat, "format", "f", format.DefaultTemplate, "Output template")
	f.BoolVar(&searchDelete, "delete", false, "Delete every matching entry")
}

func runSearch(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	shell, err := detectShell()
	if err != nil {
		return err
	}

	mode := e.cfg.Search()
	if searchMode != "" {
		if mode, err = models.ParseSearchMode(searchMode); err != nil {
			return err
		}
	}
	filter := e.cfg.Filter(shell)
	if searchFilter != "" {
		if filter, err = models.ParseFilterMode(searchFilter); err != nil {
			return err
		}
	}

	query := strings.Join(args, " ")
	opts := searchOptions(cmd)

	if searchDelete {
		return deleteMatches(cmd, e, mode, filter, shell, query, opts)
	}

	hs, err := e.store.Search(cmd.Context(), mode, filter, shell, query, opts)
	if err != nil {
		return err
	}
	return printHistories(cmd, hs, searchFormat, searchCmdOnly)
}

// searchOptions collects the refinement flags the user actually set
func searchOptions(cmd *cobra.Command) models.OptFilters {
	flags := cmd.Flags()
	opts := models.OptFilters{Reverse: searchReverse}
	if flags.Changed("exit") {
		opts.Exit = &searchExit
	}
	if flags.Changed("exclude-exit") {
		opts.ExcludeExit = &searchExcludeExit
	}
	if searchCwd != "" {
		opts.Cwd = &searchCwd
	}
	if searchExcludeCwd != "" {
		opts.ExcludeCwd = &searchExcludeCwd
	}
	if searchBefore != "" {
		opts.Before = &searchBefore
	}
	if searchAfter != "" {
		opts.After = &searchAfter
	}
	if searchLimit > 0 {
		opts.Limit = &searchLimit
	}
	if searchOffset > 0 {
		opts.Offset = &searchOffset
	}
	return opts
}

// deleteMatches soft-deletes until the search comes back empty. Search
// returns one row per command, so older duplicates surface on the next pass.
func deleteMatches(cmd *cobra.Command, e *env, mode models.SearchMode, filter models.FilterMode, shell models.Context, query string, opts models.OptFilters) error {
	ctx := cmd.Context()
	deleted := 0
	for {
		hs, err := e.store.Search(ctx, mode, filter, shell, query, opts)
		if err != nil {
			return err
		}
		if len(hs) == 0 {
			break
		}
		for _, h := range hs {
			if err := e.store.Delete(ctx, h); err != nil {
				return err
			}
			deleted++
		}
	}
	e.log.Info("deleted matching history", "count", deleted)
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d %s\n", deleted, plural(deleted, "entry", "entries"))
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
