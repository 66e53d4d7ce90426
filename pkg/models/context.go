package models

// Context is the ambient scope queries are filtered against
type Context struct {
	Session  string
	Cwd      string
	Hostname string // host:user label
	HostID   string
	GitRoot  string // empty when Cwd is not inside a git workspace
}

// WorkspaceRoot returns the directory prefix used by the workspace filter
func (c Context) WorkspaceRoot() string {
	if c.GitRoot != "" {
		return c.GitRoot
	}
	return c.Cwd
}
