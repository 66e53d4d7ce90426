package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLinesMissingFile(t *testing.T) {
	lines, err := readLines(filepath.Join(t.TempDir(), "missing"))

	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestWriteLinesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "file")

	require.NoError(t, writeLines(path, []string{"one", "", "two"}))

	lines, err := readLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, lines)

	// And: no temporary file is left behind
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriteLinesReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, writeLines(path, []string{"old", "older"}))
	require.NoError(t, writeLines(path, []string{"new"}))

	lines, err := readLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, lines)
}
