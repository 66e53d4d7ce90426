package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id...>",
	Short: "Delete history entries",
	Long:  "Soft-deletes entries: the command text is scrubbed and the entry is hidden from list and search. Use purge to remove rows entirely.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	var missing error
	deleted := 0
	for _, id := range args {
		h, err := e.store.Load(ctx, id)
		if err != nil {
			return err
		}
		if h == nil {
			missing = errors.CombineErrors(missing, errors.Newf("no history entry with id %s", id))
			continue
		}
		if h.IsDeleted() {
			continue
		}
		if err := e.store.Delete(ctx, h); err != nil {
			return err
		}
		deleted++
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d %s\n", deleted, plural(deleted, "entry", "entries"))
	return missing
}
