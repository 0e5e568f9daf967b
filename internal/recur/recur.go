// Package recur expands recurring lessons into concrete occurrences.
package recur

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/nvidalperez/cancha/internal/lesson"
)

// Safety cap so a malformed rule cannot blow up a range query.
const maxOccurrencesPerLesson = 1000

// Validate checks that a recurrence rule string parses. Empty is valid
// (the lesson is a one-off).
func Validate(rule string) error {
	if rule == "" {
		return nil
	}
	if _, err := rrule.StrToRRule(rule); err != nil {
		return fmt.Errorf("parsing recurrence rule: %w", err)
	}
	return nil
}

// Expand materializes lessons into the half-open range [from, to).
//
// One-off lessons pass through unchanged when they intersect the range.
// Recurring lessons produce one occurrence per rule hit inside the range,
// each a copy of the anchor with shifted times, the anchor's duration, and
// IsOccurrence set. The anchor's own start counts as the first hit. The
// result is sorted by start time.
func Expand(lessons []*lesson.Lesson, from, to time.Time) ([]*lesson.Lesson, error) {
	var out []*lesson.Lesson

	for _, l := range lessons {
		if l.Recurrence == "" {
			if l.Start.Before(to) && l.End.After(from) {
				out = append(out, l)
			}
			continue
		}

		occurrences, err := expandLesson(l, from, to)
		if err != nil {
			return nil, fmt.Errorf("expanding lesson %s: %w", l.ID, err)
		}
		out = append(out, occurrences...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})

	return out, nil
}

func expandLesson(l *lesson.Lesson, from, to time.Time) ([]*lesson.Lesson, error) {
	r, err := rrule.StrToRRule(l.Recurrence)
	if err != nil {
		return nil, fmt.Errorf("parsing recurrence rule: %w", err)
	}
	r.DTStart(l.Start)

	duration := l.End.Sub(l.Start)

	// Query with the range widened by the duration so an occurrence that
	// starts before the range but overlaps into it is still found.
	// Between is inclusive on both ends; the range is half-open, so drop
	// exact hits on "to" afterwards.
	queryFrom := from.Add(-duration).In(l.Start.Location())
	queryTo := to.In(l.Start.Location())

	starts := r.Between(queryFrom, queryTo, true)
	if len(starts) > maxOccurrencesPerLesson {
		starts = starts[:maxOccurrencesPerLesson]
	}

	var out []*lesson.Lesson
	for _, start := range starts {
		end := start.Add(duration)
		if !start.Before(to) || !end.After(from) {
			continue
		}

		occ := *l
		occ.Start = start
		occ.End = end
		occ.IsOccurrence = !start.Equal(l.Start)
		out = append(out, &occ)
	}

	return out, nil
}
