package migrations

import (
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/cockroachdb/errors"
)

//go:embed 001_initial_schema.sql
var initialSchemaSQL string

//go:embed 002_history_indexes.sql
var historyIndexesSQL string

// All contains all migrations in order. Each migration's index+1 is its version number.
var All = []string{
	initialSchemaSQL,  // version 1
	historyIndexesSQL, // version 2
}

// Version is the schema version after every migration has run
func Version() int {
	return len(All)
}

// Migrate runs all pending migrations on the database.
// It reads the current version from PRAGMA user_version and runs every
// migration at or above it, each in its own transaction. A failing
// migration is rolled back and stops the run.
func Migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return errors.Wrap(err, "failed to read schema version")
	}
	if version > len(All) {
		return errors.Newf("schema version %d is newer than this binary supports (%d)", version, len(All))
	}

	for i := version; i < len(All); i++ {
		tx, err := db.Begin()
		if err != nil {
			return errors.Wrapf(err, "failed to begin transaction for migration %d", i+1)
		}

		if _, err := tx.Exec(All[i]); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "migration %d failed", i+1)
		}

		// PRAGMA does not take bound parameters
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "failed to set schema version to %d", i+1)
		}

		if err := tx.Commit(); err != nil {
			return errors.Wrapf(err, "failed to commit migration %d", i+1)
		}
	}

	return nil
}
