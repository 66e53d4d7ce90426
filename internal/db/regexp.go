package db

import (
	"database/sql/driver"
	"regexp"

	"github.com/cockroachdb/errors"
	lru "github.com/hashicorp/golang-lru/v2"
	"modernc.org/sqlite"
)

const maxCachedPatterns = 256

// patterns caches compiled expressions across statements and connections.
// Least recently used expressions are evicted past maxCachedPatterns.
var patterns = mustPatternCache(maxCachedPatterns)

func mustPatternCache(size int) *lru.Cache[string, *regexp.Regexp] {
	c, err := lru.New[string, *regexp.Regexp](size)
	if err != nil {
		panic(err)
	}
	return c
}

func init() {
	// X REGEXP Y is evaluated by sqlite as regexp(Y, X)
	sqlite.MustRegisterDeterministicScalarFunction("regexp", 2, sqlRegexp)
}

func sqlRegexp(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	pattern, ok := textArg(args[0])
	if !ok {
		return nil, nil
	}
	value, ok := textArg(args[1])
	if !ok {
		return nil, nil
	}

	re, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}
	if re.MatchString(value) {
		return int64(1), nil
	}
	return int64(0), nil
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if re, ok := patterns.Get(pattern); ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid regular expression %q", pattern)
	}
	patterns.Add(pattern, re)
	return re, nil
}

func textArg(v driver.Value) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	default:
		return "", false
	}
}
