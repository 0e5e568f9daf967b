package ui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvidalperez/cancha/internal/dateutil"
	"github.com/nvidalperez/cancha/internal/ics"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		out       string
		startDate string
		endDate   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export lessons to an iCalendar file",
		Long: `Export lessons in a date range to an .ics file that any calendar
application can import. Recurring lessons are exported as single
events carrying their recurrence rule, so the calendar expands them.

Without dates, the four weeks starting this Monday are exported.`,
		Example: `  cancha export
  cancha export --out=march.ics --start=2026-03-01 --end=2026-03-31`,
		RunE: func(_ *cobra.Command, _ []string) error {
			from, to, err := exportRange(startDate, endDate)
			if err != nil {
				return err
			}

			ctx := context.Background()
			lessons, err := a.repo.ListLessonsBetween(ctx, from, to)
			if err != nil {
				return fmt.Errorf("listing lessons: %w", err)
			}

			clients, err := a.clientIndex(ctx)
			if err != nil {
				return err
			}
			names := make(map[string]string, len(clients))
			for id, c := range clients {
				names[id] = c.Name
			}

			if out == "" {
				out = fmt.Sprintf("cancha-%s.ics", from.Format("2006-01-02"))
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			defer func() { _ = f.Close() }()

			if err := ics.Export(f, lessons, names); err != nil {
				return fmt.Errorf("writing calendar: %w", err)
			}

			fmt.Printf("Exported %d lessons to %s\n", len(lessons), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output path (default: cancha-<start>.ics)")
	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD, inclusive)")

	return cmd
}

// exportRange resolves the export bounds: explicit dates when given, four
// weeks from this Monday otherwise.
func exportRange(startDate, endDate string) (from, to time.Time, err error) {
	if startDate == "" && endDate == "" {
		from = dateutil.StartOfWeek(time.Now())
		return from, from.AddDate(0, 0, 28), nil
	}

	dateRange, err := dateutil.NewDateRange(startDate, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return dateRange.Start, dateRange.End.AddDate(0, 0, 1), nil
}
