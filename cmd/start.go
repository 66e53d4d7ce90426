package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chris/histdb/pkg/models"
)

var startCmd = &cobra.Command{
	Use:   "start -- <command...>",
	Short: "Record a command that is about to run",
	Long:  "Captures a new history entry with unknown duration and exit status and prints its id. Commands matching history_filter or run in a directory matching cwd_filter are skipped.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	shell, err := detectShell()
	if err != nil {
		return err
	}

	command := strings.Join(args, " ")
	if strings.TrimSpace(command) == "" {
		return nil
	}
	if e.cfg.ShouldIgnore(command, shell.Cwd) {
		e.log.Debug("command ignored by filter", "cwd", shell.Cwd)
		return nil
	}

	h := models.NewHistory(command, shell.Cwd, shell.Session, shell.Hostname, time.Now())
	if err := e.store.Save(cmd.Context(), h); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), h.ID)
	return nil
}
