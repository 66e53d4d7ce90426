package db

import (
	"strings"
	"unicode"

	"github.com/chris/histdb/pkg/models"
)

// term is one parsed search token, matched against the command column
type term struct {
	pattern string
	glob    bool // case-sensitive GLOB instead of LIKE
	inverse bool
	or      bool // OR with the previous term instead of AND
}

func (t term) pred() Pred {
	var p Pred
	if t.glob {
		p = Glob("command", t.pattern)
	} else {
		p = Like("command", t.pattern)
	}
	if t.inverse {
		p = Not(p)
	}
	return p
}

// parseQuery splits a search query into wildcard terms and regex literals.
//
// Prefix mode matches the whole query as a left-anchored LIKE. Otherwise the
// query is split on spaces and each token becomes a term:
//
//	^foo   starts with foo
//	foo$   ends with foo
//	'foo   contains foo
//	!foo   does not contain foo
//	a | b  a or b
//	r/re/  matches the regular expression re
//
// A plain token is a substring match in full-text mode and a subsequence
// match in fuzzy mode. Tokens containing an uppercase letter match
// case-sensitively.
func parseQuery(mode models.SearchMode, query string) ([]term, []string) {
	if mode == models.SearchPrefix {
		return []term{{pattern: strings.ReplaceAll(query, "*", "%") + "%"}}, nil
	}

	var (
		terms   []term
		regexes []string
		regex   strings.Builder
		inRegex bool
		isOr    bool
	)

	for _, part := range splitInclusive(query, " ") {
		trimmed := strings.TrimRightFunc(part, unicode.IsSpace)

		if inRegex {
			if strings.HasSuffix(trimmed, "/") {
				regex.WriteString(trimmed[:len(trimmed)-1])
				regexes = append(regexes, regex.String())
				regex.Reset()
				inRegex = false
			} else {
				regex.WriteString(part)
			}
			continue
		}

		if strings.HasPrefix(part, "r/") {
			if strings.HasSuffix(strings.TrimRightFunc(part[2:], unicode.IsSpace), "/") {
				regexes = append(regexes, part[2:len(trimmed)-1])
			} else {
				regex.WriteString(part[2:])
				inRegex = true
			}
			continue
		}

		if trimmed == "" {
			continue
		}

		glob := strings.IndexFunc(trimmed, unicode.IsUpper) >= 0
		wildcard := "%"
		if glob {
			wildcard = "*"
		}
		text := strings.ReplaceAll(trimmed, "*", wildcard)

		inverse := false
		if rest, ok := strings.CutPrefix(text, "!"); ok {
			inverse = true
			text = rest
		}

		var pattern string
		switch {
		case text == "|":
			if !isOr {
				isOr = true
				continue
			}
			pattern = wildcard + "|" + wildcard
		case strings.HasPrefix(text, "^"):
			pattern = text[1:] + wildcard
		case strings.HasSuffix(text, "$"):
			pattern = wildcard + text[:len(text)-1]
		case strings.HasPrefix(text, "'"):
			pattern = wildcard + text[1:] + wildcard
		case inverse, mode == models.SearchFullText:
			pattern = wildcard + text + wildcard
		default:
			pattern = fuzzyPattern(text, wildcard)
		}

		terms = append(terms, term{pattern: pattern, glob: glob, inverse: inverse, or: isOr})
		isOr = false
	}

	// a regex left open runs to the end of the query
	if inRegex {
		regexes = append(regexes, regex.String())
	}

	return terms, regexes
}

// fuzzyPattern puts a wildcard around every character, so "ls" becomes "%l%s%"
func fuzzyPattern(text, wildcard string) string {
	var sb strings.Builder
	sb.WriteString(wildcard)
	for _, r := range text {
		sb.WriteRune(r)
		sb.WriteString(wildcard)
	}
	return sb.String()
}

// splitInclusive splits s after each sep, keeping sep on the preceding chunk
func splitInclusive(s, sep string) []string {
	var parts []string
	for s != "" {
		i := strings.Index(s, sep)
		if i < 0 {
			parts = append(parts, s)
			break
		}
		parts = append(parts, s[:i+len(sep)])
		s = s[i+len(sep):]
	}
	return parts
}

// searchPreds turns parsed terms and regexes into predicates on command
func searchPreds(terms []term, regexes []string) []Pred {
	var preds []Pred
	for _, t := range terms {
		p := t.pred()
		if t.or && len(preds) > 0 {
			preds[len(preds)-1] = Or(preds[len(preds)-1], p)
			continue
		}
		preds = append(preds, p)
	}
	for _, re := range regexes {
		preds = append(preds, Regexp("command", re))
	}
	return preds
}
