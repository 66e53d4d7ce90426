package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/chris/histdb/pkg/models"
)

const barWidth = 30

var weekdays = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Stats renders the statistics for one command
func Stats(h *models.History, s *models.HistoryStats, opts Options) string {
	var out strings.Builder

	title := firstLine(h.Command)
	out.WriteString(opts.render(headerStyle, title) + "\n")
	out.WriteString(strings.Repeat("=", max(ansi.StringWidth(title), 10)) + "\n\n")

	row := func(label, value string) {
		fmt.Fprintf(&out, "%s %s\n", opts.render(labelStyle, fmt.Sprintf("%-18s", label)), opts.render(valueStyle, value))
	}
	row("Run", h.Timestamp.In(opts.location()).Format(TimeLayout))
	row("Directory", TildePath(h.Cwd))
	row("Exit", fmt.Sprint(h.Exit))
	row("Duration", Duration(h.Duration))
	row("Total runs", fmt.Sprint(s.Total))
	row("Average duration", Duration(s.AverageDuration))
	if s.Previous != nil {
		row("Previous", firstLine(s.Previous.Command))
	}
	if s.Next != nil {
		row("Next", firstLine(s.Next.Command))
	}

	if len(s.Exits) > 0 {
		out.WriteString("\n" + opts.render(headerStyle, "Exit codes") + "\n")
		var peak int64
		for _, e := range s.Exits {
			peak = max(peak, e.Count)
		}
		for _, e := range s.Exits {
			label := fmt.Sprintf("%6d", e.Exit)
			if e.Exit > 0 {
				label = opts.render(failedStyle, label)
			}
			fmt.Fprintf(&out, "%s %s %d\n", label, opts.render(barStyle, bar(e.Count, peak)), e.Count)
		}
	}

	if len(s.DayOfWeek) > 0 {
		out.WriteString("\n" + opts.render(headerStyle, "Day of week") + "\n")
		var peak int64
		for _, d := range s.DayOfWeek {
			peak = max(peak, d.Count)
		}
		for _, d := range s.DayOfWeek {
			fmt.Fprintf(&out, "%6s %s %d\n", weekday(d.Day), opts.render(barStyle, bar(d.Count, peak)), d.Count)
		}
	}

	if len(s.DurationOverTime) > 0 {
		out.WriteString("\n" + opts.render(headerStyle, "Duration over time") + "\n")
		var peak int64
		for _, m := range s.DurationOverTime {
			peak = max(peak, m.Duration)
		}
		for _, m := range s.DurationOverTime {
			fmt.Fprintf(&out, "%s %s %s\n", monthLabel(m.Month), opts.render(barStyle, bar(m.Duration, peak)), Duration(m.Duration))
		}
	}

	return out.String()
}

func weekday(day int) string {
	if day < 0 || day >= len(weekdays) {
		return fmt.Sprint(day)
	}
	return weekdays[day]
}

// monthLabel shows YYYY-MM-01 labels as "Jan 2024"
func monthLabel(month string) string {
	t, err := time.Parse(time.DateOnly, month)
	if err != nil {
		return month
	}
	return t.Format("Jan 2006")
}

// bar scales value against peak into at most barWidth blocks
func bar(value, peak int64) string {
	if peak <= 0 || value <= 0 {
		return ""
	}
	n := int(value * barWidth / peak)
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}
