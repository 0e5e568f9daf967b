// Package summary provides shared week summary utilities.
package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/nvidalperez/cancha/internal/dateutil"
	"github.com/nvidalperez/cancha/internal/lesson"
	"github.com/nvidalperez/cancha/internal/recur"
)

// WeekStats holds aggregate counts and revenue for one week of lessons.
// Revenue amounts are in cents.
type WeekStats struct {
	Total     int
	Scheduled int
	Completed int
	Cancelled int
	NoShow    int

	BookedTime time.Duration

	// RevenueEarned is the price sum of completed lessons.
	RevenueEarned int64
	// RevenueOutstanding is the unpaid share of completed lessons.
	RevenueOutstanding int64
}

// WeekSummary holds aggregated week data.
type WeekSummary struct {
	Start   time.Time
	End     time.Time
	Lessons []*lesson.Lesson
	Stats   WeekStats
}

// SummarizeWeek builds week summary data from already-expanded lessons and a
// reference date. Cancelled lessons count in the totals but not in booked
// time or revenue.
func SummarizeWeek(weekStart time.Time, lessons []*lesson.Lesson) *WeekSummary {
	start, end := dateutil.WeekRange(weekStart)

	var stats WeekStats
	for _, l := range lessons {
		stats.Total++
		switch l.Status {
		case lesson.StatusScheduled:
			stats.Scheduled++
		case lesson.StatusCompleted:
			stats.Completed++
		case lesson.StatusCancelled:
			stats.Cancelled++
		case lesson.StatusNoShow:
			stats.NoShow++
		}

		if l.Status == lesson.StatusCancelled {
			continue
		}
		stats.BookedTime += l.Duration()

		if l.Status == lesson.StatusCompleted {
			stats.RevenueEarned += l.Price
			if !l.Paid {
				stats.RevenueOutstanding += l.Price
			}
		}
	}

	return &WeekSummary{
		Start:   start,
		End:     end,
		Lessons: lessons,
		Stats:   stats,
	}
}

// BuildWeekSummary loads the requested week from the repository, expands
// recurrences into it, and summarizes.
func BuildWeekSummary(ctx context.Context, repo lesson.Repository, weekStart time.Time) (*WeekSummary, error) {
	if weekStart.IsZero() {
		weekStart = time.Now()
	}

	start, end := dateutil.WeekRange(weekStart)
	to := end.AddDate(0, 0, 1) // WeekRange end is the last day's midnight

	stored, err := repo.ListLessonsBetween(ctx, start, to)
	if err != nil {
		return nil, fmt.Errorf("fetching lessons: %w", err)
	}

	expanded, err := recur.Expand(stored, start, to)
	if err != nil {
		return nil, fmt.Errorf("expanding recurrences: %w", err)
	}

	return SummarizeWeek(start, expanded), nil
}
