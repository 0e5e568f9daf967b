package ui

import (
	"fmt"
	"time"

	"github.com/nvidalperez/cancha/internal/lesson"
)

// statusSymbol returns the status indicator for a lesson.
func statusSymbol(s lesson.Status) string {
	switch s {
	case lesson.StatusScheduled:
		return "○"
	case lesson.StatusCompleted:
		return "●"
	case lesson.StatusCancelled:
		return "✗"
	case lesson.StatusNoShow:
		return "∅"
	default:
		return "?"
	}
}

// FormatPrice formats a cent amount with its currency code.
func FormatPrice(cents int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, currency)
}

// FormatDuration formats a duration as compact hours and minutes.
func FormatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// PrintOpts configures lesson printing behavior.
type PrintOpts struct {
	Currency   string
	ShowPrice  bool
	ShowClient bool
	Clients    map[string]*lesson.Client
}

// PrintLessonRow prints a single lesson row with consistent formatting.
func PrintLessonRow(l *lesson.Lesson, opts PrintOpts) {
	symbol := statusSymbol(l.Status)

	// Leave room for the time range, client name, and price columns.
	maxTitle := termWidth() - 44
	if maxTitle < 12 {
		maxTitle = 12
	}
	title := l.Title
	if len(title) > maxTitle {
		title = title[:maxTitle-3] + "..."
	}

	line := fmt.Sprintf("  %s  %s-%s  %s",
		symbol,
		l.Start.Format("15:04"),
		l.End.Format("15:04"),
		title,
	)

	if opts.ShowClient {
		if c, ok := opts.Clients[l.ClientID]; ok {
			line += formatMuted(fmt.Sprintf("  (%s)", c.Name))
		}
	}
	if l.Recurrence != "" {
		line += formatMuted("  ↻")
	}
	if opts.ShowPrice && l.Price > 0 {
		price := FormatPrice(l.Price, opts.Currency)
		if l.Status == lesson.StatusCompleted && !l.Paid {
			line += "  " + formatWarning(price+" unpaid")
		} else {
			line += "  " + formatMuted(price)
		}
	}

	switch l.Status {
	case lesson.StatusCompleted:
		fmt.Println(formatDone(line))
	case lesson.StatusCancelled, lesson.StatusNoShow:
		fmt.Println(formatMuted(line))
	default:
		fmt.Println(formatLesson(line))
	}
}
