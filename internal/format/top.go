package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/chris/histdb/pkg/models"
)

// Top renders the most frequent (command, exit) groups as a table
func Top(counts []*models.HistoryCount, limit int, opts Options) string {
	if len(counts) == 0 {
		return "No commands found."
	}
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}

	widths := struct{ count, exit, dirs int }{len("Count"), len("Exit"), len("Dirs")}
	var total int
	for _, c := range counts {
		widths.count = max(widths.count, len(strconv.Itoa(c.Count)))
		widths.exit = max(widths.exit, len(strconv.FormatInt(c.Exit, 10)))
		widths.dirs = max(widths.dirs, len(strconv.Itoa(distinct(c.Cwds))))
		total += c.Count
	}

	var sb strings.Builder
	header := fmt.Sprintf("%*s  %*s  %*s  %-8s  %s",
		widths.count, "Count", widths.exit, "Exit", widths.dirs, "Dirs", "Longest", "Command")
	sb.WriteString(opts.render(headerStyle, header) + "\n")
	sb.WriteString(strings.Repeat("-", ansi.StringWidth(header)) + "\n")

	for _, c := range counts {
		exit := fmt.Sprintf("%*d", widths.exit, c.Exit)
		if c.Exit > 0 {
			exit = opts.render(failedStyle, exit)
		}
		fmt.Fprintf(&sb, "%s  %s  %*d  %-8s  %s\n",
			opts.render(valueStyle, fmt.Sprintf("%*d", widths.count, c.Count)),
			exit,
			widths.dirs, distinct(c.Cwds),
			Duration(c.Duration),
			opts.render(commandStyle, firstLine(c.Command)))
	}

	fmt.Fprintf(&sb, "\nTotal: %d runs across %d commands", total, len(counts))
	return sb.String()
}

func distinct(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}
