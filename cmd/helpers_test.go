package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/chris/histdb/internal/db"
	"github.com/chris/histdb/internal/session"
	"github.com/chris/histdb/pkg/models"
)

const testSession = "test-session"

var epoch = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

// setupEnv points every user directory at a temp dir and returns the path
// of an initialized database inside it
func setupEnv(t *testing.T) string {
	t.Helper()
	t.Cleanup(xdg.Reload)

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("NO_COLOR", "1")
	t.Setenv(session.SessionEnv, testSession)
	t.Setenv("HISTDB_HOST_NAME", "laptop")
	t.Setenv("HISTDB_HOST_USER", "ellie")
	xdg.Reload()

	path := filepath.Join(dir, "history.db")
	database, err := db.NewForTesting(path)
	require.NoError(t, err, "failed to create database")
	require.NoError(t, database.Close())
	return path
}

// writeConfig writes a toml config next to the database and returns its path
func writeConfig(t *testing.T, dbFile, body string) string {
	t.Helper()
	path := filepath.Join(filepath.Dir(dbFile), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

// runCLI executes the root command with args and returns what it printed
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// resetFlags restores every flag to its default so tests do not leak state
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// entry builds a finished history entry minutes after the epoch
func entry(command string, minutes int) *models.History {
	h := models.NewHistory(command, "/home/ellie", testSession, "laptop:ellie", epoch.Add(time.Duration(minutes)*time.Minute))
	h.Duration = int64(time.Second)
	h.Exit = 0
	return h
}

func seed(t *testing.T, path string, hs ...*models.History) {
	t.Helper()
	database, err := db.New(path)
	require.NoError(t, err)
	defer database.Close()
	require.NoError(t, database.SaveBulk(context.Background(), hs))
}

func load(t *testing.T, path, id string) *models.History {
	t.Helper()
	database, err := db.New(path)
	require.NoError(t, err)
	defer database.Close()
	h, err := database.Load(context.Background(), id)
	require.NoError(t, err)
	return h
}

// lines splits output into non-empty lines
func lines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
