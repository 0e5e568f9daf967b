// Package gesture translates raw pointer input against the scheduling grid
// into user intents: select an empty slot, select an existing lesson, or
// move a lesson. It is a pure state machine; the caller owns the input
// source, the long-press timer, and the hit testing, and feeds results in.
package gesture

import (
	"math"
	"time"

	"github.com/nvidalperez/cancha/internal/grid"
	"github.com/nvidalperez/cancha/internal/lesson"
)

// Modality distinguishes the two input paths. Mouse has no long-press
// requirement for creation; touch requires one so scroll gestures pass
// through untouched.
type Modality int

const (
	ModalityMouse Modality = iota
	ModalityTouch
)

// State is the controller's current position in the gesture state machine.
type State int

const (
	// StateIdle means no gesture is in progress.
	StateIdle State = iota
	// StateArmed tracks a mouse press that may become a click or a drag.
	StateArmed
	// StatePendingLongPress tracks a touch press waiting on its timer.
	StatePendingLongPress
	// StateDragging tracks an active move or place drag.
	StateDragging
)

// DragMode says what a drag commits to on release.
type DragMode int

const (
	// DragMove relocates an existing lesson, preserving its duration.
	DragMove DragMode = iota
	// DragPlace creates a new lesson from empty space.
	DragPlace
)

// Point is a pointer position in grid-relative pixels.
type Point struct {
	X float64
	Y float64
}

// SlotSelection is the "select empty slot" intent payload.
type SlotSelection struct {
	Start    time.Time
	End      time.Time
	DayIndex int
}

// EventSelection is the "select existing lesson" intent payload.
type EventSelection struct {
	Event *lesson.Lesson
}

// EventMove is the "move lesson" intent payload. NewEnd - NewStart always
// equals the source lesson's duration exactly.
type EventMove struct {
	Event    *lesson.Lesson
	NewStart time.Time
	NewEnd   time.Time
}

// Callbacks are the host-supplied intent sinks. Every field is optional;
// a nil callback is a no-op. A nil OnMoveEvent disables drag-to-move
// entirely, falling back to click-only selection.
type Callbacks struct {
	OnSelectSlot  func(SlotSelection)
	OnSelectEvent func(EventSelection)
	OnMoveEvent   func(EventMove)

	// Haptic fires when a long press activates a drag. Optional.
	Haptic func()
}

// Config holds the gesture tuning constants.
type Config struct {
	// MoveThresholdPx is how far the pointer may wander (either axis)
	// before a press stops being a tap.
	MoveThresholdPx float64

	// LongPressDelay is how long a touch press must hold still before a
	// drag activates.
	LongPressDelay time.Duration

	// SnapMinutes is the granularity drag positions round to.
	SnapMinutes int

	// DefaultDuration is the length of a lesson created from a slot
	// selection.
	DefaultDuration time.Duration

	// ClickCooldown suppresses the synthetic click that can follow a drag
	// release, so it does not register as a tap on whatever is underneath.
	ClickCooldown time.Duration
}

// DefaultConfig returns the standard gesture tuning.
func DefaultConfig() Config {
	return Config{
		MoveThresholdPx: 10,
		LongPressDelay:  500 * time.Millisecond,
		SnapMinutes:     15,
		DefaultDuration: 30 * time.Minute,
		ClickCooldown:   300 * time.Millisecond,
	}
}

// Frame freezes the grid geometry a gesture runs against. It is captured at
// press time and never re-queried, so a view change mid-drag cannot shift
// the drop target.
type Frame struct {
	// Windows holds one visible window per day column; day view passes one,
	// week view seven.
	Windows []grid.VisibleWindow

	// Geometry converts between pixels and minutes.
	Geometry grid.Geometry

	// ColWidthPx is the width of one day column, used to derive the target
	// day from pointer X. Ignored when there is a single window.
	ColWidthPx float64
}

// Press describes a pointer-down against the rendered grid. The caller does
// the hit testing: Event is the lesson under the pointer, or nil for empty
// space, and EventTopPx is that lesson's rendered top edge.
type Press struct {
	Modality   Modality
	Point      Point
	DayIndex   int
	Event      *lesson.Lesson
	EventTopPx float64
	Frame      Frame
	Time       time.Time
}

// Ghost is the drag preview position: the snapped target the drag would
// commit to if released now.
type Ghost struct {
	DayIndex     int
	TopPx        float64
	HeightPx     float64
	StartMinutes int // snapped minutes from the target window's start
}

// Controller runs the gesture state machine. At most one gesture is active
// at a time; input arriving while one is in progress is ignored.
type Controller struct {
	cfg Config
	cb  Callbacks

	state    State
	modality Modality
	mode     DragMode

	press        Press
	grabOffsetPx float64
	duration     time.Duration // source event duration in move mode
	ghost        Ghost

	timerSeq      int
	cooldownUntil time.Time
}

// NewController creates a Controller with the given tuning and sinks.
func NewController(cfg Config, cb Callbacks) *Controller {
	return &Controller{cfg: cfg, cb: cb}
}

// State returns the current machine state.
func (c *Controller) State() State { return c.state }

// Dragging returns true while a drag is active.
func (c *Controller) Dragging() bool { return c.state == StateDragging }

// Mode returns the active drag mode. Meaningful only while dragging.
func (c *Controller) Mode() DragMode { return c.mode }

// Ghost returns the current drag preview position and whether one exists.
func (c *Controller) Ghost() (Ghost, bool) {
	if c.state != StateDragging {
		return Ghost{}, false
	}
	return c.ghost, true
}

// DraggedEvent returns the lesson being moved, or nil outside a move drag.
func (c *Controller) DraggedEvent() *lesson.Lesson {
	if c.state != StateDragging || c.mode != DragMove {
		return nil
	}
	return c.press.Event
}

// LongPressDelay exposes the configured long-press timing so the caller
// can arm the timer PointerDown asks for.
func (c *Controller) LongPressDelay() time.Duration { return c.cfg.LongPressDelay }

// InCooldown reports whether a click arriving now should be suppressed as
// the tail of a just-committed drag.
func (c *Controller) InCooldown(now time.Time) bool {
	return now.Before(c.cooldownUntil)
}

// PointerDown begins a gesture. The return value is a long-press timer
// sequence: when it is non-zero the caller must arrange for LongPressFired
// to be called with it after Config.LongPressDelay. Zero means no timer is
// needed (mouse path, or the press was ignored because a gesture is
// already active).
func (c *Controller) PointerDown(p Press) int {
	if c.state != StateIdle {
		// Gesture exclusivity: a second pointer never disturbs the first.
		return 0
	}
	if len(p.Frame.Windows) == 0 {
		return 0
	}
	if p.Time.Before(c.cooldownUntil) {
		// Tail of a drag release; swallow it.
		return 0
	}

	c.press = p
	c.modality = p.Modality

	if p.Modality == ModalityTouch {
		c.state = StatePendingLongPress
		c.timerSeq++
		return c.timerSeq
	}

	c.state = StateArmed
	return 0
}

// PointerMove feeds pointer motion into the active gesture.
func (c *Controller) PointerMove(pt Point, now time.Time) {
	switch c.state {
	case StateArmed:
		if c.press.Event == nil {
			// Empty-space mouse press: plain click semantics, no threshold.
			return
		}
		if c.cb.OnMoveEvent == nil {
			// Moving disabled: stay armed, release will select.
			return
		}
		if c.pastThreshold(pt) {
			c.beginDrag(DragMove, pt)
		}

	case StatePendingLongPress:
		if c.pastThreshold(pt) {
			// The finger is scrolling, not pressing. Void the gesture.
			c.reset()
		}

	case StateDragging:
		c.updateGhost(pt)
	}
}

// LongPressFired activates a pending touch drag. Stale or out-of-order
// firings (the sequence no longer matches) are ignored.
func (c *Controller) LongPressFired(seq int) {
	if c.state != StatePendingLongPress || seq != c.timerSeq {
		return
	}

	mode := DragPlace
	if c.press.Event != nil {
		mode = DragMove
	}
	if mode == DragMove && c.cb.OnMoveEvent == nil {
		// Moving disabled: leave the press to resolve as a tap.
		return
	}

	c.beginDrag(mode, c.press.Point)
	if c.cb.Haptic != nil {
		c.cb.Haptic()
	}
}

// PointerUp completes the gesture, emitting at most one intent.
func (c *Controller) PointerUp(pt Point, now time.Time) {
	switch c.state {
	case StateArmed:
		c.reset()
		if c.press.Event != nil {
			c.selectEvent()
		} else {
			// Mouse click on empty space creates immediately.
			c.selectSlotAt(c.press.Point)
		}

	case StatePendingLongPress:
		// Timer never fired: a plain tap. Taps select lessons on both
		// modalities; empty-space taps create nothing on touch.
		c.reset()
		if c.press.Event != nil {
			c.selectEvent()
		}

	case StateDragging:
		c.updateGhost(pt)
		c.commitDrag(now)
	}
}

// Cancel aborts any gesture in progress without emitting an intent.
func (c *Controller) Cancel() {
	c.reset()
}

func (c *Controller) reset() {
	c.state = StateIdle
	c.timerSeq++ // invalidate any pending long-press timer
}

func (c *Controller) pastThreshold(pt Point) bool {
	return math.Abs(pt.X-c.press.Point.X) > c.cfg.MoveThresholdPx ||
		math.Abs(pt.Y-c.press.Point.Y) > c.cfg.MoveThresholdPx
}

func (c *Controller) beginDrag(mode DragMode, pt Point) {
	c.state = StateDragging
	c.mode = mode

	if mode == DragMove {
		c.grabOffsetPx = c.press.Point.Y - c.press.EventTopPx
		c.duration = c.press.Event.End.Sub(c.press.Event.Start)
		if c.duration < 0 {
			c.duration = 0
		}
	} else {
		c.grabOffsetPx = 0
		c.duration = c.cfg.DefaultDuration
	}

	c.updateGhost(pt)
}

// updateGhost recomputes the snapped drag target from a pointer position.
// Out-of-bounds positions clamp to the nearest valid target so a wild
// release never loses the gesture.
func (c *Controller) updateGhost(pt Point) {
	frame := c.press.Frame
	geo := frame.Geometry

	topPx := pt.Y - c.grabOffsetPx
	snapped := SnapToInterval(geo.PxToMinutes(topPx), c.cfg.SnapMinutes)

	durationMinutes := int(c.duration / time.Minute)
	maxStart := grid.WindowMinutes - durationMinutes
	if maxStart < 0 {
		maxStart = 0
	}
	if snapped < 0 {
		snapped = 0
	}
	if snapped > maxStart {
		snapped = maxStart
	}

	dayIndex := c.press.DayIndex
	if len(frame.Windows) > 1 && frame.ColWidthPx > 0 {
		dayIndex = int(pt.X / frame.ColWidthPx)
		if dayIndex < 0 {
			dayIndex = 0
		}
		if dayIndex > len(frame.Windows)-1 {
			dayIndex = len(frame.Windows) - 1
		}
	}

	heightPx := geo.MinutesToPx(c.duration.Minutes())
	if heightPx < geo.MinEventHeightPx {
		heightPx = geo.MinEventHeightPx
	}

	c.ghost = Ghost{
		DayIndex:     dayIndex,
		TopPx:        geo.MinutesToPx(float64(snapped)),
		HeightPx:     heightPx,
		StartMinutes: snapped,
	}
}

// commitDrag converts the final ghost position into an intent using the
// frame captured at press time.
func (c *Controller) commitDrag(now time.Time) {
	ghost := c.ghost
	mode := c.mode
	press := c.press
	c.reset()
	c.cooldownUntil = now.Add(c.cfg.ClickCooldown)

	window := press.Frame.Windows[ghost.DayIndex]
	newStart := window.TimeAt(ghost.StartMinutes)

	if mode == DragMove {
		if c.cb.OnMoveEvent == nil {
			return
		}
		c.cb.OnMoveEvent(EventMove{
			Event:    press.Event,
			NewStart: newStart,
			NewEnd:   newStart.Add(c.duration),
		})
		return
	}

	if c.cb.OnSelectSlot != nil {
		c.cb.OnSelectSlot(SlotSelection{
			Start:    newStart,
			End:      newStart.Add(c.cfg.DefaultDuration),
			DayIndex: ghost.DayIndex,
		})
	}
}

func (c *Controller) selectEvent() {
	if c.cb.OnSelectEvent != nil {
		c.cb.OnSelectEvent(EventSelection{Event: c.press.Event})
	}
}

// selectSlotAt emits a slot selection for a raw (non-drag) pointer
// position, snapping it like a drag target would be.
func (c *Controller) selectSlotAt(pt Point) {
	if c.cb.OnSelectSlot == nil {
		return
	}

	frame := c.press.Frame
	snapped := SnapToInterval(frame.Geometry.PxToMinutes(pt.Y), c.cfg.SnapMinutes)

	defaultMinutes := int(c.cfg.DefaultDuration / time.Minute)
	maxStart := grid.WindowMinutes - defaultMinutes
	if snapped < 0 {
		snapped = 0
	}
	if snapped > maxStart {
		snapped = maxStart
	}

	dayIndex := c.press.DayIndex
	if dayIndex < 0 || dayIndex >= len(frame.Windows) {
		dayIndex = 0
	}

	start := frame.Windows[dayIndex].TimeAt(snapped)
	c.cb.OnSelectSlot(SlotSelection{
		Start:    start,
		End:      start.Add(c.cfg.DefaultDuration),
		DayIndex: dayIndex,
	})
}

// SnapToInterval rounds a raw minute offset to the nearest multiple of the
// snap interval. Exact halves round up.
func SnapToInterval(minutes float64, interval int) int {
	if interval <= 0 {
		return int(math.Round(minutes))
	}
	return interval * int(math.Floor(minutes/float64(interval)+0.5))
}
