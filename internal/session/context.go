package session

import (
	"os"

	"github.com/cockroachdb/errors"

	"github.com/chris/histdb/internal/git"
	"github.com/chris/histdb/pkg/models"
)

// SessionEnv names the variable the shell hook exports with its session id
const SessionEnv = "HISTDB_SESSION"

// Detect builds the shell context for the current process. The host id is
// read from (or created at) hostIDPath.
func Detect(hostIDPath string) (models.Context, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return models.Context{}, errors.Wrap(err, "failed to get working directory")
	}

	hostID, err := HostID(hostIDPath)
	if err != nil {
		return models.Context{}, err
	}

	return models.Context{
		Session:  CurrentSession(),
		Cwd:      cwd,
		Hostname: HostLabel(),
		HostID:   hostID,
		GitRoot:  git.WorkspaceRoot(cwd),
	}, nil
}

// CurrentSession returns the exported session id. Outside a hooked shell
// every invocation gets a session of its own.
func CurrentSession() string {
	if s := os.Getenv(SessionEnv); s != "" {
		return s
	}
	return models.NewHistoryID()
}
