// Package scheduler finds open lesson slots around existing bookings.
package scheduler

import (
	"strings"
	"time"

	"github.com/nvidalperez/cancha/internal/lesson"
)

// How far ahead NextOpenSlot searches before giving up.
const searchHorizonDays = 14

// Slot is an open time range on a single day.
type Slot struct {
	Start time.Time
	End   time.Time
}

// Scheduler suggests free slots constrained to configured workdays and
// coaching hours. Candidate starts are aligned to the snap interval.
type Scheduler struct {
	workdays map[string]bool
	snap     int // minutes
	dayStart int // minutes since midnight
	dayEnd   int
}

// New creates a Scheduler. Workday names match time.Weekday strings,
// case-insensitive. dayStart and dayEnd are minutes since midnight.
func New(workdays []string, snapMinutes, dayStart, dayEnd int) *Scheduler {
	wd := make(map[string]bool, len(workdays))
	for _, d := range workdays {
		wd[strings.ToLower(d)] = true
	}
	if snapMinutes <= 0 {
		snapMinutes = 15
	}
	return &Scheduler{
		workdays: wd,
		snap:     snapMinutes,
		dayStart: dayStart,
		dayEnd:   dayEnd,
	}
}

// IsWorkday reports whether t falls on a configured workday.
func (s *Scheduler) IsWorkday(t time.Time) bool {
	return s.workdays[strings.ToLower(t.Weekday().String())]
}

// NextOpenSlot returns the first slot of the given duration at or after
// from that fits inside coaching hours on a workday and does not overlap
// any busy lesson. Cancelled lessons do not block. The second return is
// false when nothing fits within the search horizon.
func (s *Scheduler) NextOpenSlot(from time.Time, duration time.Duration, busy []*lesson.Lesson) (Slot, bool) {
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	for i := 0; i < searchHorizonDays; i++ {
		earliest := from
		if i > 0 {
			earliest = day
		}
		slots := s.openSlotsFrom(day, earliest, duration, busy)
		if len(slots) > 0 {
			return slots[0], true
		}
		day = day.AddDate(0, 0, 1)
	}
	return Slot{}, false
}

// OpenSlots returns every open slot of the given duration on day, in
// chronological order.
func (s *Scheduler) OpenSlots(day time.Time, duration time.Duration, busy []*lesson.Lesson) []Slot {
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return s.openSlotsFrom(midnight, midnight, duration, busy)
}

func (s *Scheduler) openSlotsFrom(day, earliest time.Time, duration time.Duration, busy []*lesson.Lesson) []Slot {
	if !s.IsWorkday(day) {
		return nil
	}

	var out []Slot
	for m := s.dayStart; m+int(duration.Minutes()) <= s.dayEnd; m += s.snap {
		start := day.Add(time.Duration(m) * time.Minute)
		if start.Before(earliest) {
			continue
		}
		end := start.Add(duration)
		if s.blocked(start, end, busy) {
			continue
		}
		out = append(out, Slot{Start: start, End: end})
	}
	return out
}

func (s *Scheduler) blocked(start, end time.Time, busy []*lesson.Lesson) bool {
	for _, l := range busy {
		if l.IsCancelled() {
			continue
		}
		if start.Before(l.End) && l.Start.Before(end) {
			return true
		}
	}
	return false
}
