// Package format renders history entries, statistics and rankings for the terminal.
package format

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true) // bright-magenta
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))            // bright-blue
	valueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))            // bright-green
	commandStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))            // white
	timestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))             // bright-black
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))             // bright-red
	barStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))            // bright-cyan
)

// Options controls rendering
type Options struct {
	NoColor  bool           // plain text, for pipes and tests
	Location *time.Location // zone for rendered timestamps, nil means local
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

func (o Options) render(style lipgloss.Style, text string) string {
	if o.NoColor {
		return text
	}
	return style.Render(text)
}
