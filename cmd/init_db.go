package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/chris/histdb/internal/db"
	"github.com/chris/histdb/internal/session"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Initialize the database schema",
	Long:  "Creates the histdb database and applies any pending schema migrations. Safe to run multiple times; existing history is kept.",
	Args:  cobra.NoArgs,
	RunE:  runInitDB,
}

func init() {
	rootCmd.AddCommand(initDBCmd)
}

func runInitDB(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path, err := resolveDBPath(cfg)
	if err != nil {
		return err
	}
	if err := session.ValidateDatabasePath(path); err != nil {
		return err
	}

	database, err := db.NewWithOptions(path, db.Options{
		AcquireTimeout:  cfg.AcquireTimeout(),
		MaxConns:        cfg.MaxConnections,
		Logger:          log,
		SkipSchemaCheck: true,
	})
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer database.Close()

	created, err := database.InitSchema()
	if err != nil {
		return errors.Wrap(err, "failed to initialize schema")
	}

	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "Database initialized: %s\n", database.Path())
	}
	// Silent if already initialized (for idempotent shell init)

	return nil
}
