package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chris/histdb/pkg/models"
)

var pruneDryRun bool

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete stored commands that the filters now exclude",
	Long:  "Soft-deletes every entry whose command matches history_filter or whose directory matches cwd_filter. Useful after tightening the filters.",
	Args:  cobra.NoArgs,
	RunE:  runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)
	pruneCmd.Flags().BoolVar(&pruneDryRun, "dry-run", false, "Print what would be deleted")
}

func runPrune(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	hs, err := e.store.List(ctx, nil, models.Context{}, 0, false, false)
	if err != nil {
		return err
	}

	var matched []*models.History
	for _, h := range hs {
		if e.cfg.ShouldIgnore(h.Command, h.Cwd) {
			matched = append(matched, h)
		}
	}

	if pruneDryRun {
		if err := printHistories(cmd, matched, `{id}\t{directory}\t{command}`, false); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Would prune %d %s\n", len(matched), plural(len(matched), "entry", "entries"))
		return nil
	}

	for _, h := range matched {
		if err := e.store.Delete(ctx, h); err != nil {
			return err
		}
	}
	e.log.Info("pruned history", "count", len(matched))
	fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d %s\n", len(matched), plural(len(matched), "entry", "entries"))
	return nil
}
