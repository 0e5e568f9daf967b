package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvidalperez/cancha/internal/dateutil"
	"github.com/nvidalperez/cancha/internal/lesson"
	"github.com/nvidalperez/cancha/internal/recur"
)

func (a *App) listCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
		showPrice bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List lessons in a date range",
		Long: `List all lessons scheduled within a date range, with recurring
lessons expanded into their individual occurrences.

If no dates are specified, lists today's lessons.
If only --start is specified, lists lessons for that single day.`,
		Example: `  cancha list
  cancha list --start=2026-03-02
  cancha list --start=2026-03-02 --end=2026-03-08 --price`,
		RunE: func(_ *cobra.Command, _ []string) error {
			dateRange, err := dateutil.NewDateRange(startDate, endDate)
			if err != nil {
				return err
			}

			from := dateRange.Start
			to := dateRange.End.AddDate(0, 0, 1) // inclusive end date

			ctx := context.Background()
			stored, err := a.repo.ListLessonsBetween(ctx, from, to)
			if err != nil {
				return fmt.Errorf("listing lessons: %w", err)
			}
			lessons, err := recur.Expand(stored, from, to)
			if err != nil {
				return fmt.Errorf("expanding recurrences: %w", err)
			}

			if len(lessons) == 0 {
				fmt.Println("No lessons found in the specified date range.")
				return nil
			}

			clients, err := a.clientIndex(ctx)
			if err != nil {
				return err
			}

			opts := PrintOpts{
				Currency:   a.config.Billing.Currency,
				ShowPrice:  showPrice,
				ShowClient: true,
				Clients:    clients,
			}

			var currentDate string
			for _, l := range lessons {
				date := l.Start.Format("2006-01-02")
				if date != currentDate {
					if currentDate != "" {
						fmt.Println()
					}
					fmt.Println(formatHeader(l.Start.Format("=== Monday, January 2 ===")))
					currentDate = date
				}
				PrintLessonRow(l, opts)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD, defaults to start date)")
	cmd.Flags().BoolVar(&showPrice, "price", false, "Show lesson prices")

	return cmd
}

// clientIndex loads the full client directory keyed by ID.
func (a *App) clientIndex(ctx context.Context) (map[string]*lesson.Client, error) {
	clients, err := a.repo.ListClients(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	byID := make(map[string]*lesson.Client, len(clients))
	for _, c := range clients {
		byID[c.ID] = c
	}
	return byID, nil
}
