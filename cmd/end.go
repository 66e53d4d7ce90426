package cmd

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var (
	endExit     int64
	endDuration int64
)

var endCmd = &cobra.Command{
	Use:   "end <id>",
	Short: "Finish a recorded command",
	Long:  "Stores the exit status and duration of an entry created by start. The duration defaults to the time elapsed since the entry was captured.",
	Args:  cobra.ExactArgs(1),
	RunE:  runEnd,
}

func init() {
	rootCmd.AddCommand(endCmd)
	endCmd.Flags().Int64Var(&endExit, "exit", 0, "Exit status of the command")
	endCmd.Flags().Int64Var(&endDuration, "duration", 0, "Duration in nanoseconds (default: time since start)")
}

func runEnd(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	h, err := e.store.Load(ctx, args[0])
	if err != nil {
		return err
	}
	if h == nil {
		return errors.Newf("no history entry with id %s", args[0])
	}
	if h.Finished() {
		e.log.Debug("entry already finished", "id", h.ID)
		return nil
	}

	h.Exit = endExit
	if cmd.Flags().Changed("duration") {
		h.Duration = endDuration
	} else {
		h.Duration = max(int64(time.Since(h.Timestamp)), 0)
	}

	if !e.cfg.StoreFailed && h.Exit > 0 {
		e.log.Debug("discarding failed command", "id", h.ID, "exit", h.Exit)
		return e.store.Delete(ctx, h)
	}
	return e.store.Update(ctx, h)
}
