package format

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris/histdb/pkg/models"
)

var plain = Options{NoColor: true, Location: time.UTC}

func sample() *models.History {
	return &models.History{
		ID:        "0190a1b2c3d4",
		Timestamp: time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC),
		Duration:  int64(1500 * time.Millisecond),
		Exit:      1,
		Command:   "make test",
		Cwd:       "/srv/app",
		Session:   "sess-1",
		Hostname:  "laptop:ellie",
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{-1, "-"},
		{0, "0ns"},
		{850 * time.Nanosecond, "850ns"},
		{850 * time.Microsecond, "850µs"},
		{12 * time.Millisecond, "12ms"},
		{3 * time.Second, "3s"},
		{45*time.Minute + 3*time.Second, "45m 3s"},
		{45 * time.Minute, "45m"},
		{8*time.Hour + 12*time.Minute, "8h 12m"},
		{2 * time.Hour, "2h"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Duration(int64(tt.in)))
		})
	}
}

func TestTildePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	assert.Equal(t, "~", TildePath(home))
	assert.Equal(t, "~/src", TildePath(filepath.Join(home, "src")))
	assert.Equal(t, "/definitely/elsewhere", TildePath("/definitely/elsewhere"))
}

func TestDefaultTemplate(t *testing.T) {
	tmpl, err := ParseTemplate(DefaultTemplate)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-05 14:30:00\t1s\tmake test", tmpl.Render(sample(), plain))
}

func TestTemplateKeys(t *testing.T) {
	tmpl, err := ParseTemplate("{id}|{exit}|{directory}|{session}|{host}|{{literal}")
	require.NoError(t, err)

	assert.Equal(t, "0190a1b2c3d4|1|/srv/app|sess-1|laptop:ellie|{literal}", tmpl.Render(sample(), plain))
}

func TestTemplateMultilineCommand(t *testing.T) {
	tmpl, err := ParseTemplate("{command}")
	require.NoError(t, err)
	h := sample()
	h.Command = "for i in 1 2\ndo echo $i\ndone"

	assert.Equal(t, "for i in 1 2 ↵", tmpl.Render(h, plain))
}

func TestTemplateErrors(t *testing.T) {
	_, err := ParseTemplate("{nope}")
	assert.ErrorContains(t, err, "unknown placeholder {nope}")

	_, err = ParseTemplate("{command")
	assert.ErrorContains(t, err, "unterminated")
}

func TestStats(t *testing.T) {
	h := sample()
	prev := sample()
	prev.Command = "make build"
	stats := &models.HistoryStats{
		Previous:         prev,
		Total:            3,
		AverageDuration:  int64(2 * time.Second),
		Exits:            []models.ExitCount{{Exit: 0, Count: 2}, {Exit: 1, Count: 1}},
		DayOfWeek:        []models.DayCount{{Day: 2, Count: 3}},
		DurationOverTime: []models.MonthDuration{{Month: "2024-03-01", Duration: int64(2 * time.Second)}},
	}

	out := Stats(h, stats, plain)

	assert.True(t, strings.HasPrefix(out, "make test\n"))
	assert.Contains(t, out, "Total runs         3")
	assert.Contains(t, out, "Average duration   2s")
	assert.Contains(t, out, "Previous           make build")
	assert.NotContains(t, out, "Next")
	assert.Contains(t, out, "Tue "+strings.Repeat("█", barWidth)+" 3")
	assert.Contains(t, out, "Mar 2024 "+strings.Repeat("█", barWidth)+" 2s")
	assert.Contains(t, out, "     1 "+strings.Repeat("█", barWidth/2)+" 1")
}

func TestTop(t *testing.T) {
	counts := []*models.HistoryCount{
		{History: models.History{Command: "ls", Duration: int64(time.Second)}, Count: 12, Cwds: []string{"/a", "/b", "/a"}},
		{History: models.History{Command: "git push", Exit: 1}, Count: 2, Cwds: []string{"/a", "/a"}},
		{History: models.History{Command: "pwd"}, Count: 1, Cwds: []string{"/a"}},
	}

	out := Top(counts, 2, plain)
	lines := strings.Split(out, "\n")

	require.GreaterOrEqual(t, len(lines), 4)
	assert.Contains(t, lines[0], "Count")
	assert.Contains(t, lines[2], "ls")
	assert.Contains(t, lines[2], " 2  ")
	assert.Contains(t, lines[3], "git push")
	assert.NotContains(t, out, "pwd")
	assert.Contains(t, out, "Total: 14 runs across 2 commands")

	assert.Equal(t, "No commands found.", Top(nil, 0, plain))
}
