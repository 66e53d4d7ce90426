// Package config loads histdb settings from the config file and environment.
package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/chris/histdb/pkg/models"
)

// EnvPrefix prefixes every environment override, e.g. HISTDB_DB_PATH
const EnvPrefix = "HISTDB"

// Config represents the application configuration
type Config struct {
	DBPath         string   `mapstructure:"db_path"`
	LocalTimeout   float64  `mapstructure:"local_timeout"`   // seconds to wait for a pooled connection
	MaxConnections int      `mapstructure:"max_connections"` // connection pool size
	SearchMode     string   `mapstructure:"search_mode"`     // prefix, fulltext or fuzzy
	FilterMode     string   `mapstructure:"filter_mode"`     // global, host, session, directory or workspace
	Workspaces     bool     `mapstructure:"workspaces"`      // default to workspace filtering inside a git repo
	HistoryFilter  []string `mapstructure:"history_filter"`  // commands matching any of these are never stored
	CwdFilter      []string `mapstructure:"cwd_filter"`      // directories matching any of these are never stored
	StoreFailed    bool     `mapstructure:"store_failed"`
	LogLevel       string   `mapstructure:"log_level"`

	searchMode    models.SearchMode
	filterMode    models.FilterMode
	historyFilter []*regexp.Regexp
	cwdFilter     []*regexp.Regexp
}

// DefaultPath is where Load looks when no path is given
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "histdb", "config.toml")
}

// DefaultDBPath is the database location when db_path is unset
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, "histdb", "history.db")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db_path", DefaultDBPath())
	v.SetDefault("local_timeout", 2.0)
	v.SetDefault("max_connections", 8)
	v.SetDefault("search_mode", string(models.SearchFuzzy))
	v.SetDefault("filter_mode", string(models.FilterGlobal))
	v.SetDefault("workspaces", false)
	v.SetDefault("history_filter", []string{})
	v.SetDefault("cwd_filter", []string{})
	v.SetDefault("store_failed", true)
	v.SetDefault("log_level", "warn")
}

// Load reads the config file at path, or DefaultPath when path is empty,
// and applies HISTDB_* environment overrides. A missing default file is
// not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := path
	if file == "" {
		file = DefaultPath()
	}
	if _, err := os.Stat(file); err == nil || path != "" {
		v.SetConfigFile(file)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config %s", file)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no file or environment is set
func Default() *Config {
	config := &Config{
		DBPath:         DefaultDBPath(),
		LocalTimeout:   2.0,
		MaxConnections: 8,
		SearchMode:     string(models.SearchFuzzy),
		FilterMode:     string(models.FilterGlobal),
		StoreFailed:    true,
		LogLevel:       "warn",
	}
	if err := config.Validate(); err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "invalid default config"))
	}
	return config
}

// Validate checks every field and caches the parsed forms
func (c *Config) Validate() error {
	var err error
	if c.searchMode, err = models.ParseSearchMode(c.SearchMode); err != nil {
		return errors.Wrap(err, "search_mode")
	}
	if c.filterMode, err = models.ParseFilterMode(c.FilterMode); err != nil {
		return errors.Wrap(err, "filter_mode")
	}
	if c.LocalTimeout <= 0 {
		return errors.Newf("local_timeout: must be positive, got %v", c.LocalTimeout)
	}
	if c.MaxConnections <= 0 {
		return errors.Newf("max_connections: must be positive, got %d", c.MaxConnections)
	}
	if c.historyFilter, err = compileAll(c.HistoryFilter); err != nil {
		return errors.Wrap(err, "history_filter")
	}
	if c.cwdFilter, err = compileAll(c.CwdFilter); err != nil {
		return errors.Wrap(err, "cwd_filter")
	}
	return nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid pattern %q", p)
		}
		out = append(out, re)
	}
	return out, nil
}

// Search returns the configured search mode
func (c *Config) Search() models.SearchMode {
	return c.searchMode
}

// Filter returns the default filter mode. With workspaces enabled it is
// workspace whenever the shell is inside a git repository.
func (c *Config) Filter(shell models.Context) models.FilterMode {
	if c.Workspaces && shell.GitRoot != "" {
		return models.FilterWorkspace
	}
	return c.filterMode
}

// AcquireTimeout is local_timeout as a duration
func (c *Config) AcquireTimeout() time.Duration {
	return time.Duration(c.LocalTimeout * float64(time.Second))
}

// ShouldIgnore reports whether a command run in cwd must not be stored
func (c *Config) ShouldIgnore(command, cwd string) bool {
	for _, re := range c.historyFilter {
		if re.MatchString(command) {
			return true
		}
	}
	for _, re := range c.cwdFilter {
		if re.MatchString(cwd) {
			return true
		}
	}
	return false
}
