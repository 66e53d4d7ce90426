package format

import (
	"os"
	"strings"
)

// TildePath replaces the home directory prefix of path with ~
func TildePath(path string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return path
	}

	if strings.HasPrefix(path, homeDir+"/") {
		return "~" + path[len(homeDir):]
	}
	if path == homeDir {
		return "~"
	}
	return path
}

// firstLine shortens multi-line commands to their first line
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ↵"
	}
	return s
}
