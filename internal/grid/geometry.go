package grid

import (
	"time"

	"github.com/nvidalperez/cancha/internal/lesson"
)

const (
	// DefaultPxPerHour is the single vertical scale factor. The same value
	// is used by every view so lessons keep their apparent size when
	// switching between day and week.
	DefaultPxPerHour = 48.0

	// DefaultMinEventHeightPx keeps zero and near-zero duration lessons
	// visible and tappable. The floor clamps height only, never offset.
	DefaultMinEventHeightPx = 8.0
)

// Geometry converts lesson intervals into vertical pixel placement within a
// visible window.
type Geometry struct {
	PxPerHour        float64
	MinEventHeightPx float64
}

// DefaultGeometry returns a Geometry with the standard scale constants.
func DefaultGeometry() Geometry {
	return Geometry{
		PxPerHour:        DefaultPxPerHour,
		MinEventHeightPx: DefaultMinEventHeightPx,
	}
}

// Rendered is a lesson placed within a visible window. Rendered values are
// rebuilt from scratch on every layout pass and never mutated afterwards.
type Rendered struct {
	Event *lesson.Lesson

	// Clipped interval: the intersection of the lesson with the window.
	ClippedStart time.Time
	ClippedEnd   time.Time

	// Vertical placement in pixels from the window top.
	TopPx    float64
	HeightPx float64

	// Overlap column assignment, populated by AssignColumns.
	Column      int
	ColumnCount int
}

// PxToMinutes converts a pixel offset to minutes from the window start.
func (g Geometry) PxToMinutes(px float64) float64 {
	return px / g.PxPerHour * 60
}

// MinutesToPx converts minutes from the window start to a pixel offset.
func (g Geometry) MinutesToPx(minutes float64) float64 {
	return minutes / 60 * g.PxPerHour
}

// WindowHeightPx returns the total pixel height of a visible window.
func (g Geometry) WindowHeightPx() float64 {
	return g.MinutesToPx(WindowMinutes)
}

// Layout places events within a window. Events that do not intersect the
// window are dropped; surviving events are clipped to the window bounds and
// given pixel offsets. Column fields are left at their defaults for
// AssignColumns to fill in.
//
// A lesson whose end does not come after its start is treated as a
// zero-duration degenerate: it keeps its offset and renders at the minimum
// height rather than being dropped or rejected.
func (g Geometry) Layout(events []*lesson.Lesson, w VisibleWindow) []Rendered {
	var out []Rendered
	for _, ev := range events {
		if ev == nil {
			continue
		}

		start, end := ev.Start, ev.End
		if end.Before(start) {
			end = start
		}

		// Keep only events intersecting the half-open window. Degenerate
		// zero-duration events survive as long as they sit inside it.
		if !start.Before(w.End) {
			continue
		}
		if !end.After(w.Start) && !(end.Equal(start) && w.Contains(start)) {
			continue
		}

		clippedStart := start
		if clippedStart.Before(w.Start) {
			clippedStart = w.Start
		}
		clippedEnd := end
		if clippedEnd.After(w.End) {
			clippedEnd = w.End
		}
		if clippedEnd.Before(clippedStart) {
			clippedEnd = clippedStart
		}

		top := g.MinutesToPx(w.MinutesFrom(clippedStart))
		height := g.MinutesToPx(clippedEnd.Sub(clippedStart).Minutes())
		if height < g.MinEventHeightPx {
			height = g.MinEventHeightPx
		}

		out = append(out, Rendered{
			Event:        ev,
			ClippedStart: clippedStart,
			ClippedEnd:   clippedEnd,
			TopPx:        top,
			HeightPx:     height,
			Column:       0,
			ColumnCount:  1,
		})
	}
	return out
}
