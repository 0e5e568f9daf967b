package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvidalperez/cancha/internal/dateutil"
	"github.com/nvidalperez/cancha/internal/summary"
)

func (a *App) weekCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show a weekly summary",
		Long: `Show the lesson and revenue summary for one week.

Without --date the current week is shown. The week always runs
Monday through Sunday.`,
		Example: `  cancha week
  cancha week --date=2026-03-02`,
		RunE: func(_ *cobra.Command, _ []string) error {
			anchor, err := dateutil.ParseRelativeDate(date, time.Now())
			if err != nil {
				return err
			}

			ws, err := summary.BuildWeekSummary(context.Background(), a.repo, anchor)
			if err != nil {
				return err
			}

			clients, err := a.clientIndex(context.Background())
			if err != nil {
				return err
			}

			fmt.Println(formatHeader(fmt.Sprintf("Week of %s – %s",
				ws.Start.Format("Jan 2"), ws.End.Format("Jan 2, 2006"))))
			fmt.Println()

			opts := PrintOpts{
				Currency:   a.config.Billing.Currency,
				ShowPrice:  true,
				ShowClient: true,
				Clients:    clients,
			}
			var currentDay string
			for _, l := range ws.Lessons {
				day := l.Start.Format("Mon")
				if day != currentDay {
					fmt.Println(formatMuted(l.Start.Format("Monday, January 2")))
					currentDay = day
				}
				PrintLessonRow(l, opts)
			}
			if len(ws.Lessons) > 0 {
				fmt.Println()
			}

			printWeekStats(ws.Stats, a.config.Billing.Currency)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any date inside the week (default: today)")

	return cmd
}

// printWeekStats prints the aggregate line of the weekly summary.
func printWeekStats(stats summary.WeekStats, currency string) {
	fmt.Printf("Lessons: %d  |  Completed: %s  |  Booked: %s\n",
		stats.Total,
		formatDone(fmt.Sprintf("%d", stats.Completed)),
		FormatDuration(stats.BookedTime),
	)

	if stats.Cancelled > 0 || stats.NoShow > 0 {
		fmt.Println(formatMuted(fmt.Sprintf("Cancelled: %d  |  No-shows: %d",
			stats.Cancelled, stats.NoShow)))
	}

	fmt.Printf("Earned: %s", formatDone(FormatPrice(stats.RevenueEarned, currency)))
	if stats.RevenueOutstanding > 0 {
		fmt.Printf("  |  Outstanding: %s", formatWarning(FormatPrice(stats.RevenueOutstanding, currency)))
	}
	fmt.Println()
}
