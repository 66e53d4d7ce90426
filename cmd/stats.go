package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/chris/histdb/internal/format"
	"github.com/chris/histdb/pkg/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats [id]",
	Short: "Show statistics for a command",
	Long:  "Shows how often a command ran, how it exited, on which weekdays and how long it took over time. Without an id the last finished command is used.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	var h *models.History
	if len(args) == 1 {
		if h, err = e.store.Load(ctx, args[0]); err != nil {
			return err
		}
		if h == nil {
			return errors.Newf("no history entry with id %s", args[0])
		}
	} else {
		if h, err = e.store.Last(ctx); err != nil {
			return err
		}
		if h == nil {
			return errors.New("no finished commands in history")
		}
	}

	s, err := e.store.Stats(ctx, h)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), format.Stats(h, s, renderOptions(cmd)))
	return nil
}
