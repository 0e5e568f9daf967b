package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvidalperez/cancha/internal/dateutil"
	"github.com/nvidalperez/cancha/internal/lesson"
	"github.com/nvidalperez/cancha/internal/recur"
)

func (a *App) addCmd() *cobra.Command {
	var (
		client   string
		date     string
		start    string
		duration int
		price    string
		rule     string
		notes    string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a new lesson",
		Long: `Add a new lesson to the schedule.

The client may be referenced by ID or by name. Dates accept YYYY-MM-DD
as well as relative forms like "today", "tomorrow", or a weekday name.`,
		Example: `  cancha add "Backhand drills" --client="Ana García" --start=09:00
  cancha add "Serve practice" --client=ana --date=tomorrow --start=17:00 --duration=45 --price=45.00
  cancha add "Weekly session" --client=ana --start=17:00 --recur="FREQ=WEEKLY;BYDAY=MO"`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()

			c, err := a.resolveClient(ctx, client)
			if err != nil {
				return err
			}

			day, err := dateutil.ParseRelativeDate(date, time.Now())
			if err != nil {
				return err
			}
			startAt, err := atTime(day, start)
			if err != nil {
				return err
			}

			if duration <= 0 {
				duration = a.config.Schedule.DefaultLessonMinutes
			}
			endAt := startAt.Add(time.Duration(duration) * time.Minute)

			cents := a.config.Billing.DefaultPrice
			if price != "" {
				cents, err = ParsePrice(price)
				if err != nil {
					return err
				}
			}

			if err := recur.Validate(rule); err != nil {
				return fmt.Errorf("invalid recurrence rule: %w", err)
			}

			l, err := lesson.New(c.ID, args[0], startAt, endAt, cents)
			if err != nil {
				return err
			}
			l.Recurrence = rule
			l.Notes = notes

			if err := a.repo.CreateLesson(ctx, l); err != nil {
				return fmt.Errorf("creating lesson: %w", err)
			}

			fmt.Printf("Created lesson %s: %s with %s, %s %s-%s\n",
				l.ID,
				l.Title,
				c.Name,
				l.Start.Format("2006-01-02"),
				l.Start.Format("15:04"),
				l.End.Format("15:04"),
			)
			if l.Recurrence != "" {
				fmt.Printf("  repeats: %s\n", l.Recurrence)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&client, "client", "", "Client ID or name (required)")
	cmd.Flags().StringVar(&date, "date", "", "Lesson date (default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in minutes (default: from config)")
	cmd.Flags().StringVar(&price, "price", "", "Price, e.g. 45.00 (default: from config)")
	cmd.Flags().StringVar(&rule, "recur", "", "Recurrence rule (RFC 5545 RRULE)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")

	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

// resolveClient finds a client by exact ID, then by case-insensitive name or
// unique name prefix.
func (a *App) resolveClient(ctx context.Context, ref string) (*lesson.Client, error) {
	if ref == "" {
		return nil, fmt.Errorf("client reference is empty")
	}

	if c, err := a.repo.GetClient(ctx, ref); err == nil {
		return c, nil
	}

	clients, err := a.repo.ListClients(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}

	needle := strings.ToLower(ref)
	var matches []*lesson.Client
	for _, c := range clients {
		name := strings.ToLower(c.Name)
		if name == needle {
			return c, nil
		}
		if strings.HasPrefix(name, needle) {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, fmt.Errorf("no client matches %q", ref)
	default:
		names := make([]string, len(matches))
		for i, c := range matches {
			names[i] = c.Name
		}
		return nil, fmt.Errorf("client %q is ambiguous: %s", ref, strings.Join(names, ", "))
	}
}

// atTime combines a calendar day with an HH:MM clock time.
func atTime(day time.Time, clock string) (time.Time, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid time %q, expected HH:MM", clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("invalid time %q, expected HH:MM", clock)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid time %q, expected HH:MM", clock)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), nil
}

// ParsePrice converts a decimal amount like "45" or "45.50" to cents.
func ParsePrice(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty price")
	}

	whole, frac, found := strings.Cut(s, ".")
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units < 0 {
		return 0, fmt.Errorf("invalid price %q", s)
	}

	var cents int64
	if found {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("invalid price %q", s)
		}
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || cents < 0 {
			return 0, fmt.Errorf("invalid price %q", s)
		}
	}

	return units*100 + cents, nil
}
