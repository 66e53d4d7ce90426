package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/chris/histdb/internal/config"
	"github.com/chris/histdb/internal/dateparse"
	"github.com/chris/histdb/internal/db"
	"github.com/chris/histdb/internal/format"
	"github.com/chris/histdb/internal/logging"
	"github.com/chris/histdb/internal/session"
	"github.com/chris/histdb/pkg/models"
)

// env is what a command needs to talk to the history store
type env struct {
	cfg   *config.Config
	log   *slog.Logger
	store db.Database
}

// loadConfig reads the config named by --config and builds the logger.
// --log-level wins over the configured level.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	return cfg, logging.New(cmd.ErrOrStderr(), level), nil
}

// resolveDBPath returns --db when set, otherwise the configured path
func resolveDBPath(cfg *config.Config) (string, error) {
	path := cfg.DBPath
	if dbPath != "" {
		path = dbPath
	}
	return session.NormalizeDatabasePath(path)
}

// openEnv loads the config and opens the history store.
// Callers must Close the returned env.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	path, err := resolveDBPath(cfg)
	if err != nil {
		return nil, err
	}

	store, err := db.NewWithOptions(path, db.Options{
		AcquireTimeout: cfg.AcquireTimeout(),
		MaxConns:       cfg.MaxConnections,
		Logger:         log,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	return &env{cfg: cfg, log: log, store: store}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.log.Warn("failed to close database", "error", err)
	}
}

// detectShell returns the session, directory and host of the calling shell
func detectShell() (models.Context, error) {
	return session.Detect(session.HostIDPath())
}

// renderOptions disables color unless output goes straight to a terminal
func renderOptions(cmd *cobra.Command) format.Options {
	f, ok := cmd.OutOrStdout().(*os.File)
	noColor := !ok || os.Getenv("NO_COLOR") != ""
	if ok && !noColor {
		if info, err := f.Stat(); err != nil || info.Mode()&os.ModeCharDevice == 0 {
			noColor = true
		}
	}
	return format.Options{NoColor: noColor}
}

// parseDate resolves a natural-language date relative to now
func parseDate(flag, value string) (time.Time, error) {
	t, err := dateparse.Default.Parse(value, time.Now())
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid --%s", flag)
	}
	return t, nil
}

// printHistories writes one rendered line per entry in the order given
func printHistories(cmd *cobra.Command, hs []*models.History, tmpl string, cmdOnly bool) error {
	if cmdOnly {
		tmpl = "{command}"
	}
	t, err := format.ParseTemplate(tmpl)
	if err != nil {
		return errors.Wrap(err, "invalid --format")
	}

	opts := renderOptions(cmd)
	out := cmd.OutOrStdout()
	for _, h := range hs {
		fmt.Fprintln(out, t.Render(h, opts))
	}
	return nil
}
