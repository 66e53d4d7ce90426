package models

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// FilterMode restricts which history entries a query considers
type FilterMode string

const (
	FilterGlobal    FilterMode = "global"
	FilterHost      FilterMode = "host"
	FilterSession   FilterMode = "session"
	FilterDirectory FilterMode = "directory"
	FilterWorkspace FilterMode = "workspace"
)

// ParseFilterMode parses a filter mode name
func ParseFilterMode(s string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "global", "":
		return FilterGlobal, nil
	case "host":
		return FilterHost, nil
	case "session":
		return FilterSession, nil
	case "directory", "dir", "cwd":
		return FilterDirectory, nil
	case "workspace":
		return FilterWorkspace, nil
	}
	return "", errors.Newf("unknown filter mode %q", s)
}

func (f FilterMode) String() string {
	return string(f)
}

// SearchMode selects how a search query is matched against commands
type SearchMode string

const (
	SearchPrefix   SearchMode = "prefix"
	SearchFullText SearchMode = "fulltext"
	SearchFuzzy    SearchMode = "fuzzy"
)

// ParseSearchMode parses a search mode name
func ParseSearchMode(s string) (SearchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prefix":
		return SearchPrefix, nil
	case "fulltext", "full-text", "full_text":
		return SearchFullText, nil
	case "fuzzy", "":
		return SearchFuzzy, nil
	}
	return "", errors.Newf("unknown search mode %q", s)
}

func (s SearchMode) String() string {
	return string(s)
}
