// Package grid implements the pure layout core of the scheduling grid:
// visible time windows, event geometry, and overlap column assignment.
// Nothing in this package touches a rendering surface; the terminal front
// end translates pointer coordinates and draws the result.
package grid

import (
	"fmt"
	"time"
)

const (
	// WindowMinutes is the span of a visible window. Always one day's worth
	// of minutes regardless of where the window is anchored.
	WindowMinutes = 24 * 60

	// LeadInHour and LeadInMinute position the window start. The day column
	// opens at 05:30 so early bookings are visible without spending vertical
	// space on the dead hours after midnight.
	LeadInHour   = 5
	LeadInMinute = 30

	// LeadInMinutes is the height of the unlabeled lead-in row before the
	// first full hour row.
	LeadInMinutes = 30

	// HourRows is the number of full-hour rows after the lead-in.
	HourRows = 24

	// DaysPerWeek is the number of day columns in the week view.
	DaysPerWeek = 7
)

// VisibleWindow is the concrete time range rendered by a single day column.
// The range is half-open: [Start, End).
type VisibleWindow struct {
	Start time.Time
	End   time.Time
}

// BuildVisibleWindow computes the visible window for an anchor date.
// The window begins at 05:30 on the anchor's calendar day and spans exactly
// 24 hours, so late-night bookings land at the bottom of the same column.
func BuildVisibleWindow(anchor time.Time) VisibleWindow {
	start := time.Date(anchor.Year(), anchor.Month(), anchor.Day(),
		LeadInHour, LeadInMinute, 0, 0, anchor.Location())
	return VisibleWindow{
		Start: start,
		End:   start.Add(WindowMinutes * time.Minute),
	}
}

// Contains returns true if t falls within the window.
func (w VisibleWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// MinutesFrom returns the offset of t from the window start, in minutes.
// Negative for times before the window.
func (w VisibleWindow) MinutesFrom(t time.Time) float64 {
	return t.Sub(w.Start).Minutes()
}

// TimeAt returns the absolute time at the given minute offset from the
// window start.
func (w VisibleWindow) TimeAt(minutes int) time.Time {
	return w.Start.Add(time.Duration(minutes) * time.Minute)
}

// Row describes one rendered row of the time grid.
type Row struct {
	Label   string // hour label, empty for the lead-in row
	Minutes int    // offset of the row's top edge from the window start
	Span    int    // row height in minutes (30 for the lead-in, 60 otherwise)
}

// Rows returns the row list for a visible window: one half-height unlabeled
// lead-in row, then 24 full-hour rows labeled in 12-hour format starting at
// the nominal day start (06:00).
func (w VisibleWindow) Rows() []Row {
	rows := make([]Row, 0, HourRows+1)
	rows = append(rows, Row{Minutes: 0, Span: LeadInMinutes})

	firstHour := LeadInHour + 1 // 06:00, the nominal day start
	for i := 0; i < HourRows; i++ {
		hour := (firstHour + i) % 24
		rows = append(rows, Row{
			Label:   hourLabel(hour),
			Minutes: LeadInMinutes + i*60,
			Span:    60,
		})
	}
	return rows
}

// hourLabel formats an hour of day in 12-hour display format.
func hourLabel(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	case hour == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}

// WeekWindows returns seven consecutive visible windows anchored at the
// Monday of the week containing anchor.
func WeekWindows(anchor time.Time) [DaysPerWeek]VisibleWindow {
	monday := startOfWeek(anchor)
	var windows [DaysPerWeek]VisibleWindow
	for i := range windows {
		windows[i] = BuildVisibleWindow(monday.AddDate(0, 0, i))
	}
	return windows
}

// startOfWeek returns the Monday of the week containing t.
// Duplicated from dateutil to keep this package dependency-free.
func startOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}
