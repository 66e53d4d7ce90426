package session

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// DatabaseDir holds databases given by bare name, e.g. --db work
func DatabaseDir() string {
	return filepath.Join(xdg.DataHome, "histdb")
}

// NormalizeDatabasePath resolves a --db or db_path value to an absolute file.
// $VARS and a leading ~ are expanded. A bare name without a directory part
// names a database in DatabaseDir. Paths without an extension get .db.
func NormalizeDatabasePath(path string) (string, error) {
	path = strings.TrimSpace(os.ExpandEnv(path))
	if path == "" {
		return "", errors.New("database path cannot be empty")
	}

	path, err := expandHome(path)
	if err != nil {
		return "", err
	}

	if isBareName(path) {
		path = filepath.Join(DatabaseDir(), path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", path)
	}
	if filepath.Ext(abs) == "" {
		abs += ".db"
	}
	return abs, nil
}

func expandHome(path string) (string, error) {
	if path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user home directory")
	}
	rest := strings.TrimLeft(path[1:], `/\`)
	return filepath.Join(home, rest), nil
}

func isBareName(path string) bool {
	return !strings.ContainsAny(path, `/\`) && !strings.HasPrefix(path, ".")
}

// ValidateDatabasePath checks that init-db can create or open path: an
// existing file must be writable, otherwise its directory is created if
// needed and checked for write access.
func ValidateDatabasePath(path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return errors.Newf("path is a directory, not a database file: %s", path)
	case err == nil:
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
		if err != nil {
			return errors.Wrapf(err, "cannot write to existing database %s", path)
		}
		return f.Close()
	case !errors.Is(err, fs.ErrNotExist):
		return errors.Wrapf(err, "failed to stat %s", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "cannot create database directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".histdb-write-*")
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return errors.Newf("permission denied: cannot write to %s", dir)
		}
		return errors.Wrapf(err, "cannot write to %s", dir)
	}
	tmp.Close()
	return os.Remove(tmp.Name())
}
