package db

import (
	"database/sql/driver"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLRegexp(t *testing.T) {
	tests := []struct {
		name    string
		pattern driver.Value
		value   driver.Value
		want    driver.Value
	}{
		{"match", "^ls", "ls -la", int64(1)},
		{"no match", "^ls", "cd ls", int64(0)},
		{"bytes", "b+", []byte("abbc"), int64(1)},
		{"null value", "x", nil, nil},
		{"null pattern", nil, "x", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sqlRegexp(nil, []driver.Value{tt.pattern, tt.value})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSQLRegexpInvalidPattern(t *testing.T) {
	_, err := sqlRegexp(nil, []driver.Value{"([", "x"})
	assert.ErrorContains(t, err, "invalid regular expression")
}

func TestCompilePatternCaches(t *testing.T) {
	first, err := compilePattern("cache-me")
	require.NoError(t, err)
	second, err := compilePattern("cache-me")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestCompilePatternCacheIsBounded(t *testing.T) {
	// Given more distinct patterns than the cache holds
	for i := range maxCachedPatterns + 50 {
		_, err := compilePattern(fmt.Sprintf("^cmd-%d$", i))
		require.NoError(t, err)
	}

	// Then the cache stays at its cap
	assert.LessOrEqual(t, patterns.Len(), maxCachedPatterns)

	// And the oldest pattern was evicted while the newest is still cached
	assert.False(t, patterns.Contains("^cmd-0$"))
	assert.True(t, patterns.Contains(fmt.Sprintf("^cmd-%d$", maxCachedPatterns+49)))
}
