// Package dateparse turns free-form before/after strings into instants.
package dateparse

import (
	"strings"
	"time"

	anydate "github.com/araddon/dateparse"
	"github.com/cockroachdb/errors"
	"github.com/tj/go-naturaldate"
)

// Parser resolves s relative to now
type Parser interface {
	Parse(s string, now time.Time) (time.Time, error)
}

// ParserFunc adapts a plain function to Parser
type ParserFunc func(s string, now time.Time) (time.Time, error)

func (f ParserFunc) Parse(s string, now time.Time) (time.Time, error) {
	return f(s, now)
}

// Natural parses absolute dates ("2024-03-01 10:00", "Mar 1 2024") and
// relative expressions ("yesterday", "3 days ago", "last friday").
// Relative expressions always resolve into the past.
type Natural struct{}

// Default is the parser used when none is configured
var Default Parser = Natural{}

func (Natural) Parse(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	switch strings.ToLower(s) {
	case "now", "right now":
		return now, nil
	case "today":
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	}

	if t, err := anydate.ParseIn(s, now.Location()); err == nil {
		return t, nil
	}

	t, err := naturaldate.Parse(s, now, naturaldate.WithDirection(naturaldate.Past))
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "cannot parse date %q", s)
	}
	// naturaldate hands back the reference time for text it does not understand
	if t.Equal(now) {
		return time.Time{}, errors.Newf("cannot parse date %q", s)
	}
	return t, nil
}
