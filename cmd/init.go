package cmd

import (
	_ "embed"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

//go:embed integration_scripts/zsh.sh
var zshScript string

//go:embed integration_scripts/bash.sh
var bashScript string

var initCmd = &cobra.Command{
	Use:       "init <shell>",
	Short:     "Generate shell integration script",
	Long:      "Prints hooks that record every command through histdb start and histdb end. Supported shells: zsh, bash.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"zsh", "bash"},
	RunE:      runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	switch args[0] {
	case "zsh":
		fmt.Fprint(cmd.OutOrStdout(), zshScript)
	case "bash":
		fmt.Fprint(cmd.OutOrStdout(), bashScript)
	default:
		return errors.Newf("unsupported shell: %s (supported: zsh, bash)", args[0])
	}
	return nil
}
