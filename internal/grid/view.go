package grid

import (
	"time"

	"github.com/nvidalperez/cancha/internal/dateutil"
	"github.com/nvidalperez/cancha/internal/lesson"
)

// ViewMode selects one of the three mutually exclusive calendar renderings.
type ViewMode int

const (
	ViewDay ViewMode = iota
	ViewWeek
	ViewMonth
)

// String returns the lowercase mode name.
func (m ViewMode) String() string {
	switch m {
	case ViewWeek:
		return "week"
	case ViewMonth:
		return "month"
	default:
		return "day"
	}
}

// ParseViewMode converts a mode name to a ViewMode, defaulting to day view.
func ParseViewMode(s string) ViewMode {
	switch s {
	case "week":
		return ViewWeek
	case "month":
		return ViewMonth
	default:
		return ViewDay
	}
}

// Composer tracks the anchor date and active view mode, and derives the
// windows each view renders. Navigation steps by one day, week, or month
// depending on the active mode; switching modes preserves the anchor.
type Composer struct {
	mode   ViewMode
	anchor time.Time
	now    func() time.Time // injectable for testing
}

// NewComposer creates a Composer anchored at the given date.
// A zero anchor defaults to the current date.
func NewComposer(anchor time.Time, mode ViewMode) *Composer {
	c := &Composer{mode: mode, now: time.Now}
	if anchor.IsZero() {
		anchor = c.now()
	}
	c.anchor = dateutil.TruncateToDay(anchor)
	return c
}

// SetNowFunc overrides the clock used by Today and MonthCells.
func (c *Composer) SetNowFunc(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

// Mode returns the active view mode.
func (c *Composer) Mode() ViewMode { return c.mode }

// Anchor returns the current anchor date (midnight).
func (c *Composer) Anchor() time.Time { return c.anchor }

// SetMode switches the view mode, keeping the anchor date.
func (c *Composer) SetMode(mode ViewMode) { c.mode = mode }

// Next advances the anchor by one day, week, or month per the active mode.
func (c *Composer) Next() { c.step(1) }

// Prev moves the anchor back by one day, week, or month per the active mode.
func (c *Composer) Prev() { c.step(-1) }

func (c *Composer) step(direction int) {
	switch c.mode {
	case ViewWeek:
		c.anchor = c.anchor.AddDate(0, 0, 7*direction)
	case ViewMonth:
		c.anchor = c.anchor.AddDate(0, direction, 0)
	default:
		c.anchor = c.anchor.AddDate(0, 0, direction)
	}
}

// Today resets the anchor to the current date, keeping the view mode.
func (c *Composer) Today() {
	c.anchor = dateutil.TruncateToDay(c.now())
}

// FocusDay switches to day view anchored at the given date. Month cells use
// this when clicked: a navigation side effect, not a slot selection.
func (c *Composer) FocusDay(date time.Time) {
	c.anchor = dateutil.TruncateToDay(date)
	c.mode = ViewDay
}

// DayWindow returns the single visible window for the day view.
func (c *Composer) DayWindow() VisibleWindow {
	return BuildVisibleWindow(c.anchor)
}

// WeekWindows returns the seven visible windows for the week view, Monday
// first. Overlap resolution never spans across the returned windows.
func (c *Composer) WeekWindows() [DaysPerWeek]VisibleWindow {
	return WeekWindows(c.anchor)
}

// RangeBounds returns the absolute time range the active view needs lesson
// data for, suitable for a store query.
func (c *Composer) RangeBounds() (from, to time.Time) {
	switch c.mode {
	case ViewWeek:
		ws := c.WeekWindows()
		return ws[0].Start, ws[DaysPerWeek-1].End
	case ViewMonth:
		start := dateutil.MonthGridStart(c.anchor)
		return start, start.AddDate(0, 0, dateutil.MonthGridCells)
	default:
		w := c.DayWindow()
		return w.Start, w.End
	}
}

// MonthCell is one of the 42 cells of the month grid.
type MonthCell struct {
	Date    time.Time
	Count   int  // lessons starting on this calendar day
	InMonth bool // false for leading/trailing cells of adjacent months
	Today   bool
}

// MonthCells buckets lessons into the 6x7 month grid by start day. Month
// view shows counts only; it never computes time geometry.
func (c *Composer) MonthCells(lessons []*lesson.Lesson) []MonthCell {
	dates := dateutil.MonthGrid(c.anchor)
	today := dateutil.TruncateToDay(c.now())

	cells := make([]MonthCell, len(dates))
	for i, d := range dates {
		cells[i] = MonthCell{
			Date:    d,
			InMonth: d.Month() == c.anchor.Month(),
			Today:   dateutil.SameDay(d, today),
		}
	}

	for _, l := range lessons {
		if l == nil {
			continue
		}
		for i := range cells {
			if dateutil.SameDay(l.Start, cells[i].Date) {
				cells[i].Count++
				break
			}
		}
	}

	return cells
}

// NowIndicator returns the pixel offset of the current time within the
// given window, and whether the indicator is visible at all.
func NowIndicator(w VisibleWindow, now time.Time, g Geometry) (float64, bool) {
	if !w.Contains(now) {
		return 0, false
	}
	return g.MinutesToPx(w.MinutesFrom(now)), true
}
