package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvidalperez/cancha/internal/dateutil"
	"github.com/nvidalperez/cancha/internal/lesson"
	"github.com/nvidalperez/cancha/internal/recur"
	"github.com/nvidalperez/cancha/internal/scheduler"
)

// Coaching hours bound the slot search. Lessons can still be booked
// outside these hours; next just won't suggest them.
const (
	defaultDayStart = "08:00"
	defaultDayEnd   = "20:00"
)

func (a *App) nextCmd() *cobra.Command {
	var (
		date     string
		duration int
		dayStart string
		dayEnd   string
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Find the next open lesson slot",
		Long: `Find free time around existing bookings.

By default the next open slot at or after now is printed. With --all,
every open slot on the given day is listed. Slots respect the
configured workdays and align to the snap interval.`,
		Example: `  cancha next
  cancha next --duration=90
  cancha next --date=tomorrow --all`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()
			now := time.Now()

			from, err := dateutil.ParseRelativeDate(date, now)
			if err != nil {
				return err
			}
			// An explicit date means "search that day from its start";
			// the default starts from this very moment.
			if date == "" {
				from = now
			}

			if duration == 0 {
				duration = a.config.Schedule.DefaultLessonMinutes
			}
			startMin, err := clockMinutes(dayStart)
			if err != nil {
				return err
			}
			endMin, err := clockMinutes(dayEnd)
			if err != nil {
				return err
			}

			busy, err := a.loadBusy(ctx, from)
			if err != nil {
				return err
			}

			s := scheduler.New(a.config.Schedule.Workdays, a.config.Schedule.SnapMinutes, startMin, endMin)
			d := time.Duration(duration) * time.Minute

			if all {
				return printDaySlots(s, from, d, busy)
			}

			slot, ok := s.NextOpenSlot(from, d, busy)
			if !ok {
				fmt.Println(formatWarning(fmt.Sprintf("No open %d min slot in the next two weeks", duration)))
				return nil
			}
			fmt.Printf("%s  %s–%s\n",
				formatHeader(slot.Start.Format("Monday, January 2")),
				formatLesson(slot.Start.Format("15:04")),
				formatLesson(slot.End.Format("15:04")),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to search from (default: now)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Slot length in minutes (default: configured lesson length)")
	cmd.Flags().StringVar(&dayStart, "day-start", defaultDayStart, "Earliest slot start (HH:MM)")
	cmd.Flags().StringVar(&dayEnd, "day-end", defaultDayEnd, "Latest slot end (HH:MM)")
	cmd.Flags().BoolVar(&all, "all", false, "List every open slot on the day")

	return cmd
}

// loadBusy fetches and expands every lesson that could block a slot
// within the search horizon.
func (a *App) loadBusy(ctx context.Context, from time.Time) ([]*lesson.Lesson, error) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	end := start.AddDate(0, 0, 15)

	stored, err := a.repo.ListLessonsBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching lessons: %w", err)
	}
	expanded, err := recur.Expand(stored, start, end)
	if err != nil {
		return nil, fmt.Errorf("expanding recurrences: %w", err)
	}
	return expanded, nil
}

func printDaySlots(s *scheduler.Scheduler, day time.Time, d time.Duration, busy []*lesson.Lesson) error {
	slots := s.OpenSlots(day, d, busy)
	if len(slots) == 0 {
		fmt.Println(formatWarning("No open slots on " + day.Format("Monday, January 2")))
		return nil
	}

	fmt.Println(formatHeader(day.Format("Monday, January 2")))
	for _, slot := range slots {
		fmt.Printf("  %s–%s\n", slot.Start.Format("15:04"), slot.End.Format("15:04"))
	}
	return nil
}

func clockMinutes(clock string) (int, error) {
	t, err := atTime(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), clock)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
