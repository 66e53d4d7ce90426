package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartThenEnd(t *testing.T) {
	// Given: an initialized database
	path := setupEnv(t)

	// When: a command is started
	out, err := runCLI(t, "start", "--db", path, "--", "git", "status", "-s")
	require.NoError(t, err, "start should succeed")
	id := strings.TrimSpace(out)
	require.Len(t, id, 32, "start should print the new id")

	// Then: it is stored unfinished with the shell's context
	h := load(t, path, id)
	require.NotNil(t, h)
	assert.Equal(t, "git status -s", h.Command)
	assert.Equal(t, testSession, h.Session)
	assert.Equal(t, "laptop:ellie", h.Hostname)
	assert.Equal(t, int64(-1), h.Duration)
	assert.Equal(t, int64(-1), h.Exit)

	// When: it ends
	_, err = runCLI(t, "end", "--db", path, "--exit", "3", "--duration", "1500", id)
	require.NoError(t, err, "end should succeed")

	// Then: exit and duration are recorded
	h = load(t, path, id)
	assert.Equal(t, int64(3), h.Exit)
	assert.Equal(t, int64(1500), h.Duration)
	assert.False(t, h.IsDeleted(), "failed commands are kept by default")
}

func TestEndDefaultsDurationAndIgnoresFinished(t *testing.T) {
	path := setupEnv(t)
	out, err := runCLI(t, "start", "--db", path, "--", "sleep 1")
	require.NoError(t, err)
	id := strings.TrimSpace(out)

	_, err = runCLI(t, "end", "--db", path, id)
	require.NoError(t, err)
	h := load(t, path, id)
	assert.Equal(t, int64(0), h.Exit)
	assert.GreaterOrEqual(t, h.Duration, int64(0))
	assert.Less(t, h.Duration, int64(time.Minute))

	// a second end must not overwrite the first
	_, err = runCLI(t, "end", "--db", path, "--exit", "9", "--duration", "5", id)
	require.NoError(t, err)
	again := load(t, path, id)
	assert.Equal(t, h.Duration, again.Duration)
	assert.Equal(t, int64(0), again.Exit)
}

func TestEndDiscardsFailuresWhenConfigured(t *testing.T) {
	path := setupEnv(t)
	cfg := writeConfig(t, path, "store_failed = false\n")

	out, err := runCLI(t, "start", "--db", path, "--config", cfg, "--", "make test")
	require.NoError(t, err)
	id := strings.TrimSpace(out)

	_, err = runCLI(t, "end", "--db", path, "--config", cfg, "--exit", "2", id)
	require.NoError(t, err)

	h := load(t, path, id)
	require.NotNil(t, h)
	assert.True(t, h.IsDeleted(), "failed command should be soft-deleted")
	assert.NotEqual(t, "make test", h.Command, "command text should be scrubbed")
	assert.Equal(t, int64(2), h.Exit)
}

func TestEndUnknownID(t *testing.T) {
	path := setupEnv(t)
	_, err := runCLI(t, "end", "--db", path, "--exit", "0", "nope")
	assert.ErrorContains(t, err, "no history entry with id nope")
}

func TestStartHonorsFilters(t *testing.T) {
	// Given: filters for secrets and a scratch directory
	path := setupEnv(t)
	scratch := t.TempDir()
	t.Chdir(scratch)
	cfg := writeConfig(t, path, `history_filter = ["^export .*TOKEN"]
cwd_filter = ["^`+scratch+`"]
`)

	// When: a matching command is started
	out, err := runCLI(t, "start", "--db", path, "--config", cfg, "--", "export GH_TOKEN=abc")

	// Then: nothing is stored or printed
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = runCLI(t, "count", "--db", path)
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestStartRequiresInitializedDatabase(t *testing.T) {
	setupEnv(t)
	_, err := runCLI(t, "start", "--db", t.TempDir()+"/fresh.db", "--", "ls")
	assert.ErrorContains(t, err, "histdb init-db")
}
