package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSearch(t *testing.T) string {
	t.Helper()
	path := setupEnv(t)
	failed := entry("git push", 1)
	failed.Exit = 1
	seed(t, path, entry("git status", 0), failed, entry("ls", 2), entry("git status", 3))
	return path
}

func TestSearch(t *testing.T) {
	path := seedSearch(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"everything, one row per command", nil, []string{"git status", "ls", "git push"}},
		{"reverse", []string{"--reverse"}, []string{"git push", "ls", "git status"}},
		{"prefix", []string{"--search-mode", "prefix", "git"}, []string{"git status", "git push"}},
		{"fulltext", []string{"--search-mode", "fulltext", "push"}, []string{"git push"}},
		{"fuzzy", []string{"--search-mode", "fuzzy", "gst"}, []string{"git status"}},
		{"exit", []string{"--exit", "1"}, []string{"git push"}},
		{"exclude exit", []string{"--exclude-exit", "1", "git"}, []string{"git status"}},
		{"limit", []string{"--limit", "1"}, []string{"git status"}},
		{"offset", []string{"--limit", "1", "--offset", "1"}, []string{"ls"}},
		{"cwd", []string{"--cwd", "/nowhere"}, nil},
		{"after", []string{"--after", "2024-01-10T09:01:30Z"}, []string{"git status", "ls"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, append([]string{"search", "--db", path, "--cmd-only"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, lines(out))
		})
	}
}

func TestSearchModeFromConfig(t *testing.T) {
	path := seedSearch(t)
	cfg := writeConfig(t, path, `search_mode = "prefix"`+"\n")

	// "st" is a fuzzy match for "git status" but not a prefix of anything
	out, err := runCLI(t, "search", "--db", path, "--config", cfg, "--cmd-only", "st")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSearchRejectsUnknownModes(t *testing.T) {
	path := seedSearch(t)

	_, err := runCLI(t, "search", "--db", path, "--search-mode", "skim", "git")
	assert.ErrorContains(t, err, "unknown search mode")

	_, err = runCLI(t, "search", "--db", path, "--filter-mode", "planet", "git")
	assert.ErrorContains(t, err, "unknown filter mode")
}

func TestSearchDeleteRemovesEveryDuplicate(t *testing.T) {
	// Given: "git status" was run twice
	path := seedSearch(t)

	// When: every git command is deleted from search
	out, err := runCLI(t, "search", "--db", path, "--search-mode", "prefix", "--delete", "git")

	// Then: both runs of git status and the push are gone
	require.NoError(t, err)
	assert.Equal(t, "Deleted 3 entries\n", out)

	out, err = runCLI(t, "list", "--db", path, "--cmd-only")
	require.NoError(t, err)
	assert.Equal(t, []string{"ls"}, lines(out))
}
