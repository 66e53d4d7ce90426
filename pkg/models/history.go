package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// History represents one shell command invocation in the history database
type History struct {
	ID        string
	Timestamp time.Time
	Duration  int64 // Duration in nanoseconds, -1 if the command has not finished
	Exit      int64
	Command   string
	Cwd       string
	Session   string
	Hostname  string
	DeletedAt *time.Time // nil while the entry is active
}

// NewHistoryID returns a fresh time-ordered identifier without dashes
func NewHistoryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return strings.ReplaceAll(id.String(), "-", "")
}

// NewHistory creates a captured History entry that has not finished yet
func NewHistory(command, cwd, session, hostname string, timestamp time.Time) *History {
	return &History{
		ID:        NewHistoryID(),
		Timestamp: timestamp,
		Duration:  -1,
		Exit:      -1,
		Command:   command,
		Cwd:       cwd,
		Session:   session,
		Hostname:  hostname,
	}
}

// IsDeleted reports whether the entry has been soft-deleted
func (h *History) IsDeleted() bool {
	return h.DeletedAt != nil
}

// Finished reports whether the entry has a known duration
func (h *History) Finished() bool {
	return h.Duration >= 0
}

// HistoryCount is one (command, exit) group produced by AllWithCount.
// Timestamp and Duration on the embedded History hold the maximum of the group.
type HistoryCount struct {
	History
	Count     int
	Cwds      []string
	Sessions  []string
	Hostnames []string
}
