package session

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// HostIDPath is where the host identifier is persisted
func HostIDPath() string {
	return filepath.Join(xdg.DataHome, "histdb", "host_id")
}

// HostID returns the identifier stored at path, creating one on first use
func HostID(path string) (string, error) {
	lines, err := readLines(path)
	if err != nil {
		return "", err
	}
	if len(lines) > 0 {
		if id := strings.TrimSpace(lines[0]); id != "" {
			return id, nil
		}
	}

	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	if err := writeLines(path, []string{id}); err != nil {
		return "", errors.Wrap(err, "failed to store host id")
	}
	return id, nil
}

// HostLabel returns "hostname:username". HISTDB_HOST_NAME and
// HISTDB_HOST_USER override either half.
func HostLabel() string {
	host := os.Getenv("HISTDB_HOST_NAME")
	if host == "" {
		host, _ = os.Hostname()
	}
	name := os.Getenv("HISTDB_HOST_USER")
	if name == "" {
		if u, err := user.Current(); err == nil {
			name = u.Username
		} else {
			name = os.Getenv("USER")
		}
	}
	return host + ":" + name
}
