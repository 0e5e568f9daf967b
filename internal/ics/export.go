// Package ics exports the lesson book as an iCalendar feed.
package ics

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/nvidalperez/cancha/internal/lesson"
)

const prodID = "-//cancha//lesson scheduler//EN"

// Export writes the given lessons to w as a VCALENDAR. Recurring lessons
// export their anchor with the RRULE attached; expanded occurrences are
// skipped so a consuming calendar does not see them twice. clientNames maps
// client IDs to display names for the event summary and may be nil.
func Export(w io.Writer, lessons []*lesson.Lesson, clientNames map[string]string) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)

	now := time.Now().UTC()

	for _, l := range lessons {
		if l.IsOccurrence {
			continue
		}

		ev := cal.AddEvent(l.ID + "@cancha")
		ev.SetDtStampTime(now)
		ev.SetCreatedTime(l.CreatedAt.UTC())
		ev.SetStartAt(l.Start.UTC())
		ev.SetEndAt(l.End.UTC())
		ev.SetSummary(summaryFor(l, clientNames))

		if l.Notes != "" {
			ev.SetDescription(l.Notes)
		}
		if l.Recurrence != "" {
			ev.AddRrule(l.Recurrence)
		}

		switch l.Status {
		case lesson.StatusCancelled:
			ev.SetStatus(ical.ObjectStatusCancelled)
		case lesson.StatusCompleted, lesson.StatusScheduled, lesson.StatusNoShow:
			ev.SetStatus(ical.ObjectStatusConfirmed)
		}
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("serializing calendar: %w", err)
	}
	return nil
}

func summaryFor(l *lesson.Lesson, clientNames map[string]string) string {
	if name := clientNames[l.ClientID]; name != "" {
		return fmt.Sprintf("%s - %s", l.Title, name)
	}
	return l.Title
}
