package git

import (
	"os/exec"
	"path/filepath"
	"strings"
)

// WorkspaceRoot returns the top-level directory of the git work tree that
// contains dir, or "" when dir is not inside one or git is unavailable.
func WorkspaceRoot(dir string) string {
	if _, err := exec.LookPath("git"); err != nil {
		return ""
	}
	if !isGitRepo(dir) {
		return ""
	}

	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		// bare repositories and .git directories have no work tree
		return ""
	}
	root := strings.TrimSpace(string(output))
	if root == "" {
		return ""
	}
	return filepath.Clean(root)
}

// isGitRepo checks if the directory is within a git repository
func isGitRepo(dir string) bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = dir
	return cmd.Run() == nil
}
