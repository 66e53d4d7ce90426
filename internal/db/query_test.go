package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compilePred(t *testing.T, p Pred) (string, []any) {
	t.Helper()
	var sb strings.Builder
	var args []any
	require.NoError(t, p.compile(&sb, &args))
	return sb.String(), args
}

func TestPredCompile(t *testing.T) {
	tests := []struct {
		name string
		pred Pred
		sql  string
		args []any
	}{
		{"eq", Eq("session", "s1"), "session = ?", []any{"s1"}},
		{"ne", Ne("exit", int64(0)), "exit != ?", []any{int64(0)}},
		{"glob", Glob("command", "*Ls*"), "command GLOB ?", []any{"*Ls*"}},
		{"regexp", Regexp("command", "^ls"), "command REGEXP ?", []any{"^ls"}},
		{"prefix", HasPrefix("cwd", "/src/my_app"), "substr(cwd, 1, length(?)) = ?", []any{"/src/my_app", "/src/my_app"}},
		{"is null", IsNull("deleted_at"), "deleted_at IS NULL", nil},
		{"is not null", IsNotNull("deleted_at"), "deleted_at IS NOT NULL", nil},
		{"not", Not(Like("command", "%x%")), "NOT (command LIKE ?)", []any{"%x%"}},
		{
			"nested",
			And(Eq("cwd", "/tmp"), Or(Lt("timestamp", int64(1)), Ge("timestamp", int64(9)))),
			"(cwd = ?) AND ((timestamp < ?) OR (timestamp >= ?))",
			[]any{"/tmp", int64(1), int64(9)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := compilePred(t, tt.pred)
			assert.Equal(t, tt.sql, sql)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestPredCompileRejectsMalformedTrees(t *testing.T) {
	tests := []struct {
		name string
		pred Pred
	}{
		{"unknown column", Eq("password", "x")},
		{"empty and", And()},
		{"nil operand", Or(Eq("id", "a"), nil)},
		{"not without operand", Not(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			var args []any
			assert.Error(t, tt.pred.compile(&sb, &args))
		})
	}
}

func TestSelectQueryCompile(t *testing.T) {
	// Given: a base query shared between two refinements
	base := selectQuery{}.Where(IsNull("deleted_at"))
	limited := base.Limit(5).Offset(10)
	unique := base.Unique(true).Ascending(true)

	sql, args, err := limited.compile()
	require.NoError(t, err)
	assert.Equal(t, "SELECT "+historyColumns+" FROM history WHERE (deleted_at IS NULL) ORDER BY timestamp DESC LIMIT ? OFFSET ?", sql)
	assert.Equal(t, []any{int64(5), int64(10)}, args)

	sql, args, err = unique.compile()
	require.NoError(t, err)
	assert.Contains(t, sql, "row_number() OVER (PARTITION BY command ORDER BY timestamp DESC)")
	assert.Contains(t, sql, "WHERE rn = 1 ORDER BY timestamp ASC")
	assert.Empty(t, args)

	// Then: refinements did not leak into the shared base
	sql, _, err = base.compile()
	require.NoError(t, err)
	assert.NotContains(t, sql, "LIMIT")
	assert.NotContains(t, sql, "rn = 1")
}

func TestSelectQueryOffsetWithoutLimit(t *testing.T) {
	sql, args, err := selectQuery{}.Offset(3).compile()

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(sql, "LIMIT -1 OFFSET ?"), sql)
	assert.Equal(t, []any{int64(3)}, args)
}

func TestSelectQueryWhereDoesNotAlias(t *testing.T) {
	base := selectQuery{}.Where(Eq("id", "a"), Eq("cwd", "b"))
	left := base.Where(Eq("session", "left"))
	right := base.Where(Eq("session", "right"))

	_, leftArgs, err := left.compile()
	require.NoError(t, err)
	_, rightArgs, err := right.compile()
	require.NoError(t, err)

	assert.Equal(t, []any{"a", "b", "left"}, leftArgs)
	assert.Equal(t, []any{"a", "b", "right"}, rightArgs)
}

func TestMustCompilePanicsOnBug(t *testing.T) {
	assert.Panics(t, func() {
		selectQuery{}.Limit(-1).mustCompile("broken")
	})
	assert.Panics(t, func() {
		selectQuery{}.Where(Eq("nope", 1)).mustCompile("broken")
	})
}
