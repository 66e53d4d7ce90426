package format

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/chris/histdb/pkg/models"
)

// DefaultTemplate is the list layout when no --format is given
const DefaultTemplate = `{time}\t{duration}\t{command}`

// TimeLayout is how {time} renders
const TimeLayout = "2006-01-02 15:04:05"

// Keys lists every placeholder a template may use
var Keys = []string{"id", "time", "duration", "exit", "command", "directory", "session", "host"}

type segment struct {
	literal string
	key     string // empty for literal segments
}

// Template is a parsed list layout
type Template struct {
	segments []segment
}

// ParseTemplate parses placeholders like {command}. The escapes \t and \n
// are expanded and {{ writes a literal brace.
func ParseTemplate(s string) (*Template, error) {
	s = strings.NewReplacer(`\t`, "\t", `\n`, "\n").Replace(s)

	var (
		t   Template
		lit strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		if s[i] != '{' {
			lit.WriteByte(s[i])
			continue
		}
		if strings.HasPrefix(s[i:], "{{") {
			lit.WriteByte('{')
			i++
			continue
		}
		end := strings.IndexByte(s[i:], '}')
		if end < 0 {
			return nil, errors.Newf("unterminated placeholder at offset %d in %q", i, s)
		}
		key := s[i+1 : i+end]
		if !knownKey(key) {
			return nil, errors.Newf("unknown placeholder {%s}, expected one of %s", key, strings.Join(Keys, ", "))
		}
		flush()
		t.segments = append(t.segments, segment{key: key})
		i += end
	}
	flush()

	return &t, nil
}

func knownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Render fills the template for one entry
func (t *Template) Render(h *models.History, opts Options) string {
	var sb strings.Builder
	for _, seg := range t.segments {
		if seg.key == "" {
			sb.WriteString(seg.literal)
			continue
		}
		sb.WriteString(field(h, seg.key, opts))
	}
	return sb.String()
}

func field(h *models.History, key string, opts Options) string {
	switch key {
	case "id":
		return h.ID
	case "time":
		return opts.render(timestampStyle, h.Timestamp.In(opts.location()).Format(TimeLayout))
	case "duration":
		return Duration(h.Duration)
	case "exit":
		code := strconv.FormatInt(h.Exit, 10)
		if h.Exit > 0 {
			return opts.render(failedStyle, code)
		}
		return code
	case "command":
		return opts.render(commandStyle, firstLine(h.Command))
	case "directory":
		return TildePath(h.Cwd)
	case "session":
		return h.Session
	case "host":
		return h.Hostname
	}
	return ""
}
