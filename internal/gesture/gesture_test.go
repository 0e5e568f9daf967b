package gesture

import (
	"testing"
	"time"

	"github.com/nvidalperez/cancha/internal/grid"
	"github.com/nvidalperez/cancha/internal/lesson"
)

var testDay = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC) // a Monday

func dayFrame() Frame {
	return Frame{
		Windows:  []grid.VisibleWindow{grid.BuildVisibleWindow(testDay)},
		Geometry: grid.DefaultGeometry(),
	}
}

func weekFrame(colWidth float64) Frame {
	week := grid.WeekWindows(testDay)
	return Frame{
		Windows:    week[:],
		Geometry:   grid.DefaultGeometry(),
		ColWidthPx: colWidth,
	}
}

func mkLesson(t *testing.T, startHour, startMin int, d time.Duration) *lesson.Lesson {
	t.Helper()
	start := time.Date(2026, time.March, 2, startHour, startMin, 0, 0, time.UTC)
	l, err := lesson.New("client-1", "Lesson", start, start.Add(d), 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l
}

// sink collects every intent a controller emits.
type sink struct {
	slots   []SlotSelection
	selects []EventSelection
	moves   []EventMove
	haptics int
}

func (s *sink) callbacks() Callbacks {
	return Callbacks{
		OnSelectSlot:  func(sel SlotSelection) { s.slots = append(s.slots, sel) },
		OnSelectEvent: func(sel EventSelection) { s.selects = append(s.selects, sel) },
		OnMoveEvent:   func(m EventMove) { s.moves = append(s.moves, m) },
		Haptic:        func() { s.haptics++ },
	}
}

// yFor converts minutes-from-window-start to a pixel Y at default geometry.
func yFor(minutes float64) float64 {
	return grid.DefaultGeometry().MinutesToPx(minutes)
}

func TestSnapToInterval(t *testing.T) {
	tests := []struct {
		minutes float64
		want    int
	}{
		{0, 0},
		{7, 0},
		{7.5, 15}, // exact half rounds up
		{8, 15},
		{15, 15},
		{37, 30},
		{37.5, 45},
		{52, 45},
		{53, 60},
		{-4, 0},
	}
	for _, tt := range tests {
		if got := SnapToInterval(tt.minutes, 15); got != tt.want {
			t.Errorf("SnapToInterval(%v, 15) = %d, want %d", tt.minutes, got, tt.want)
		}
	}
}

func TestMouseClickEmptySlot(t *testing.T) {
	var s sink
	c := NewController(DefaultConfig(), s.callbacks())

	// 8:37 clock time is 187 minutes into the window; snaps to 180 (8:30).
	now := testDay.Add(12 * time.Hour)
	c.PointerDown(Press{
		Modality: ModalityMouse,
		Point:    Point{X: 40, Y: yFor(187)},
		Frame:    dayFrame(),
		Time:     now,
	})
	c.PointerUp(Point{X: 40, Y: yFor(187)}, now)

	if len(s.slots) != 1 {
		t.Fatalf("got %d slot selections, want 1", len(s.slots))
	}
	wantStart := time.Date(2026, time.March, 2, 8, 30, 0, 0, time.UTC)
	if !s.slots[0].Start.Equal(wantStart) {
		t.Errorf("slot start = %v, want %v", s.slots[0].Start, wantStart)
	}
	if got := s.slots[0].End.Sub(s.slots[0].Start); got != 30*time.Minute {
		t.Errorf("slot duration = %v, want 30m", got)
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle", c.State())
	}
}

func TestMouseClickOnLesson(t *testing.T) {
	var s sink
	c := NewController(DefaultConfig(), s.callbacks())
	l := mkLesson(t, 9, 0, 45*time.Minute)

	now := testDay.Add(12 * time.Hour)
	c.PointerDown(Press{
		Modality:   ModalityMouse,
		Point:      Point{X: 40, Y: yFor(215)},
		Event:      l,
		EventTopPx: yFor(210),
		Frame:      dayFrame(),
		Time:       now,
	})
	// A wobble below the threshold is still a click.
	c.PointerMove(Point{X: 44, Y: yFor(215) + 5}, now)
	c.PointerUp(Point{X: 44, Y: yFor(215) + 5}, now)

	if len(s.selects) != 1 || s.selects[0].Event != l {
		t.Fatalf("got %d event selections, want the pressed lesson", len(s.selects))
	}
	if len(s.moves) != 0 || len(s.slots) != 0 {
		t.Errorf("unexpected move/slot intents: %d/%d", len(s.moves), len(s.slots))
	}
}

func TestMouseDragMovesLesson(t *testing.T) {
	var s sink
	c := NewController(DefaultConfig(), s.callbacks())

	// 09:00-09:45 lesson: top edge at 210 minutes into the window.
	l := mkLesson(t, 9, 0, 45*time.Minute)
	top := yFor(210)

	now := testDay.Add(12 * time.Hour)
	c.PointerDown(Press{
		Modality:   ModalityMouse,
		Point:      Point{X: 40, Y: top + 12},
		Event:      l,
		EventTopPx: top,
		Frame:      dayFrame(),
		Time:       now,
	})
	// Drop so the grabbed point lands the top edge at 13:30 (480 minutes).
	drop := Point{X: 40, Y: yFor(480) + 12}
	c.PointerMove(drop, now)
	if !c.Dragging() {
		t.Fatal("expected drag to activate past the move threshold")
	}
	c.PointerUp(drop, now)

	if len(s.moves) != 1 {
		t.Fatalf("got %d moves, want 1", len(s.moves))
	}
	m := s.moves[0]
	wantStart := time.Date(2026, time.March, 2, 13, 30, 0, 0, time.UTC)
	wantEnd := time.Date(2026, time.March, 2, 14, 15, 0, 0, time.UTC)
	if !m.NewStart.Equal(wantStart) || !m.NewEnd.Equal(wantEnd) {
		t.Errorf("move = %v-%v, want %v-%v", m.NewStart, m.NewEnd, wantStart, wantEnd)
	}
	if len(s.selects) != 0 {
		t.Errorf("drag release also selected the lesson")
	}
}

func TestMovePreservesOddDuration(t *testing.T) {
	var s sink
	c := NewController(DefaultConfig(), s.callbacks())

	// 50 minutes does not divide into the snap interval; it must survive
	// the move untouched.
	l := mkLesson(t, 10, 0, 50*time.Minute)
	top := yFor(270)

	now := testDay.Add(12 * time.Hour)
	c.PointerDown(Press{
		Modality:   ModalityMouse,
		Point:      Point{X: 10, Y: top + 3},
		Event:      l,
		EventTopPx: top,
		Frame:      dayFrame(),
		Time:       now,
	})
	drop := Point{X: 10, Y: yFor(600) + 3}
	c.PointerMove(drop, now)
	c.PointerUp(drop, now)

	if len(s.moves) != 1 {
		t.Fatalf("got %d moves, want 1", len(s.moves))
	}
	if got := s.moves[0].NewEnd.Sub(s.moves[0].NewStart); got != 50*time.Minute {
		t.Errorf("moved duration = %v, want 50m", got)
	}
}

func TestTouchLongPressCreatesSlot(t *testing.T) {
	var s sink
	c := NewController(DefaultConfig(), s.callbacks())

	// Press at 14:22 clock time: 532 minutes into the window, snapping to
	// 525 (14:15).
	now := testDay.Add(14 * time.Hour)
	seq := c.PointerDown(Press{
		Modality: ModalityTouch,
		Point:    Point{X: 40, Y: yFor(532)},
		Frame:    dayFrame(),
		Time:     now,
	})
	if seq == 0 {
		t.Fatal("touch press should request a long-press timer")
	}
	if c.State() != StatePendingLongPress {
		t.Fatalf("state = %v, want pending long press", c.State())
	}

	c.LongPressFired(seq)
	if !c.Dragging() || c.Mode() != DragPlace {
		t.Fatal("long press should start a place drag")
	}
	if s.haptics != 1 {
		t.Errorf("haptics = %d, want 1", s.haptics)
	}

	c.PointerUp(Point{X: 40, Y: yFor(532)}, now)

	if len(s.slots) != 1 {
		t.Fatalf("got %d slot selections, want 1", len(s.slots))
	}
	wantStart := time.Date(2026, time.March, 2, 14, 15, 0, 0, time.UTC)
	wantEnd := time.Date(2026, time.March, 2, 14, 45, 0, 0, time.UTC)
	if !s.slots[0].Start.Equal(wantStart) || !s.slots[0].End.Equal(wantEnd) {
		t.Errorf("slot = %v-%v, want %v-%v", s.slots[0].Start, s.slots[0].End, wantStart, wantEnd)
	}
}

func TestTouchTapSelectsLesson(t *testing.T) {
	var s sink
	c := NewController(DefaultConfig(), s.callbacks())
	l := mkLesson(t, 9, 0, time.Hour)

	now := testDay.Add(12 * time.Hour)
	seq := c.PointerDown(Press{
		Modality:   ModalityTouch,
		Point:      Point{X: 40, Y: yFor(215)},
		Event:      l,
		EventTopPx: yFor(210),
		Frame:      dayFrame(),
		Time:       now,
	})
	c.PointerUp(Point{X: 40, Y: yFor(215)}, now)

	if len(s.selects) != 1 || s.selects[0].Event != l {
		t.Fatalf("tap should select the lesson")
	}

	// The timer fires after release: it must be a no-op, not a late drag.
	c.LongPressFired(seq)
	if c.State() != StateIdle {
		t.Errorf("stale timer changed state to %v", c.State())
	}
}

func TestTouchScrollCancelsGesture(t *testing.T) {
	var s sink
	c := NewController(DefaultConfig(), s.callbacks())

	now := testDay.Add(12 * time.Hour)
	seq := c.PointerDown(Press{
		Modality: ModalityTouch,
		Point:    Point{X: 40, Y: 200},
		Frame:    dayFrame(),
		Time:     now,
	})
	c.PointerMove(Point{X: 40, Y: 230}, now) // past the threshold: scrolling

	if c.State() != StateIdle {
		t.Fatalf("state = %v, want idle after scroll", c.State())
	}
	c.LongPressFired(seq)
	if c.State() != StateIdle {
		t.Errorf("cancelled timer still fired")
	}
	c.PointerUp(Point{X: 40, Y: 260}, now)
	if len(s.slots)+len(s.selects)+len(s.moves) != 0 {
		t.Errorf("scroll emitted intents")
	}
}

func TestSecondPointerIgnoredDuringDrag(t *testing.T) {
	var s sink
	c := NewController(DefaultConfig(), s.callbacks())
	l := mkLesson(t, 9, 0, time.Hour)
	top := yFor(210)

	now := testDay.Add(12 * time.Hour)
	seq := c.PointerDown(Press{
		Modality:   ModalityTouch,
		Point:      Point{X: 40, Y: top + 4},
		Event:      l,
		EventTopPx: top,
		Frame:      dayFrame(),
		Time:       now,
	})
	c.LongPressFired(seq)
	c.PointerMove(Point{X: 40, Y: yFor(480) + 4}, now)
	before, _ := c.Ghost()

	// A second finger lands mid-drag.
	if got := c.PointerDown(Press{
		Modality: ModalityTouch,
		Point:    Point{X: 200, Y: 50},
		Frame:    dayFrame(),
		Time:     now,
	}); got != 0 {
		t.Errorf("second pointer got timer seq %d, want 0", got)
	}
	after, ok := c.Ghost()
	if !ok || after != before {
		t.Errorf("second pointer disturbed the drag target: %+v != %+v", after, before)
	}
}

func TestNilMoveCallbackDisablesDrag(t *testing.T) {
	var s sink
	cb := s.callbacks()
	cb.OnMoveEvent = nil
	c := NewController(DefaultConfig(), cb)
	l := mkLesson(t, 9, 0, time.Hour)
	top := yFor(210)

	now := testDay.Add(12 * time.Hour)
	c.PointerDown(Press{
		Modality:   ModalityMouse,
		Point:      Point{X: 40, Y: top + 4},
		Event:      l,
		EventTopPx: top,
		Frame:      dayFrame(),
		Time:       now,
	})
	c.PointerMove(Point{X: 40, Y: top + 100}, now)
	if c.Dragging() {
		t.Fatal("drag activated with moving disabled")
	}
	c.PointerUp(Point{X: 40, Y: top + 100}, now)

	if len(s.selects) != 1 || s.selects[0].Event != l {
		t.Errorf("release should fall back to selecting the lesson")
	}
}

func TestDragClampsToWindow(t *testing.T) {
	var s sink
	c := NewController(DefaultConfig(), s.callbacks())
	l := mkLesson(t, 9, 0, time.Hour)
	top := yFor(210)

	now := testDay.Add(12 * time.Hour)
	c.PointerDown(Press{
		Modality:   ModalityMouse,
		Point:      Point{X: 40, Y: top},
		Event:      l,
		EventTopPx: top,
		Frame:      dayFrame(),
		Time:       now,
	})
	// Release far above the grid: the drop clamps to the window start.
	c.PointerMove(Point{X: 40, Y: -500}, now)
	c.PointerUp(Point{X: 40, Y: -500}, now)

	if len(s.moves) != 1 {
		t.Fatalf("got %d moves, want 1", len(s.moves))
	}
	wantStart := time.Date(2026, time.March, 2, 5, 30, 0, 0, time.UTC)
	if !s.moves[0].NewStart.Equal(wantStart) {
		t.Errorf("clamped start = %v, want %v", s.moves[0].NewStart, wantStart)
	}

	// And far below: the drop clamps so the lesson still fits.
	s.moves = nil
	later := now.Add(time.Second)
	c.PointerDown(Press{
		Modality:   ModalityMouse,
		Point:      Point{X: 40, Y: top},
		Event:      l,
		EventTopPx: top,
		Frame:      dayFrame(),
		Time:       later,
	})
	c.PointerMove(Point{X: 40, Y: yFor(5000)}, later)
	c.PointerUp(Point{X: 40, Y: yFor(5000)}, later)

	if len(s.moves) != 1 {
		t.Fatalf("got %d moves, want 1", len(s.moves))
	}
	wantStart = time.Date(2026, time.March, 3, 4, 30, 0, 0, time.UTC) // 05:30 + 23h
	if !s.moves[0].NewStart.Equal(wantStart) {
		t.Errorf("clamped start = %v, want %v", s.moves[0].NewStart, wantStart)
	}
}

func TestClickCooldownAfterDrag(t *testing.T) {
	var s sink
	c := NewController(DefaultConfig(), s.callbacks())
	l := mkLesson(t, 9, 0, time.Hour)
	top := yFor(210)

	now := testDay.Add(12 * time.Hour)
	c.PointerDown(Press{
		Modality:   ModalityMouse,
		Point:      Point{X: 40, Y: top},
		Event:      l,
		EventTopPx: top,
		Frame:      dayFrame(),
		Time:       now,
	})
	c.PointerMove(Point{X: 40, Y: yFor(480)}, now)
	c.PointerUp(Point{X: 40, Y: yFor(480)}, now)

	if !c.InCooldown(now.Add(100 * time.Millisecond)) {
		t.Error("expected cooldown right after a drag commit")
	}

	// A press landing inside the cooldown is swallowed.
	c.PointerDown(Press{
		Modality: ModalityMouse,
		Point:    Point{X: 40, Y: 100},
		Frame:    dayFrame(),
		Time:     now.Add(100 * time.Millisecond),
	})
	if c.State() != StateIdle {
		t.Errorf("cooldown press armed a gesture")
	}

	// After the cooldown, input flows again.
	later := now.Add(time.Second)
	c.PointerDown(Press{
		Modality: ModalityMouse,
		Point:    Point{X: 40, Y: yFor(187)},
		Frame:    dayFrame(),
		Time:     later,
	})
	c.PointerUp(Point{X: 40, Y: yFor(187)}, later)
	if len(s.slots) != 1 {
		t.Errorf("post-cooldown click did not register")
	}
}

func TestWeekDragAcrossColumns(t *testing.T) {
	var s sink
	c := NewController(DefaultConfig(), s.callbacks())

	// Monday 09:00-10:00, dragged into Wednesday's column.
	l := mkLesson(t, 9, 0, time.Hour)
	top := yFor(210)
	const colWidth = 60.0

	now := testDay.Add(12 * time.Hour)
	c.PointerDown(Press{
		Modality:   ModalityMouse,
		Point:      Point{X: 30, Y: top},
		DayIndex:   0,
		Event:      l,
		EventTopPx: top,
		Frame:      weekFrame(colWidth),
		Time:       now,
	})
	drop := Point{X: colWidth*2 + 30, Y: yFor(210)}
	c.PointerMove(drop, now)

	ghost, ok := c.Ghost()
	if !ok || ghost.DayIndex != 2 {
		t.Fatalf("ghost day = %d, want 2", ghost.DayIndex)
	}

	c.PointerUp(drop, now)
	if len(s.moves) != 1 {
		t.Fatalf("got %d moves, want 1", len(s.moves))
	}
	wantStart := time.Date(2026, time.March, 4, 9, 0, 0, 0, time.UTC)
	if !s.moves[0].NewStart.Equal(wantStart) {
		t.Errorf("cross-column start = %v, want %v", s.moves[0].NewStart, wantStart)
	}
}

func TestCancelAbortsWithoutIntent(t *testing.T) {
	var s sink
	c := NewController(DefaultConfig(), s.callbacks())
	l := mkLesson(t, 9, 0, time.Hour)
	top := yFor(210)

	now := testDay.Add(12 * time.Hour)
	c.PointerDown(Press{
		Modality:   ModalityMouse,
		Point:      Point{X: 40, Y: top},
		Event:      l,
		EventTopPx: top,
		Frame:      dayFrame(),
		Time:       now,
	})
	c.PointerMove(Point{X: 40, Y: yFor(480)}, now)
	c.Cancel()

	if c.State() != StateIdle {
		t.Errorf("state = %v after cancel, want idle", c.State())
	}
	c.PointerUp(Point{X: 40, Y: yFor(480)}, now)
	if len(s.moves)+len(s.slots)+len(s.selects) != 0 {
		t.Errorf("cancelled gesture emitted intents")
	}
}

func TestLongPressDelayFollowsConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LongPressDelay = 750 * time.Millisecond

	c := NewController(cfg, Callbacks{})
	if got := c.LongPressDelay(); got != 750*time.Millisecond {
		t.Errorf("LongPressDelay = %v, want 750ms", got)
	}
}
