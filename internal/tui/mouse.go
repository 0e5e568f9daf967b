package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nvidalperez/cancha/internal/gesture"
	"github.com/nvidalperez/cancha/internal/grid"
	"github.com/nvidalperez/cancha/internal/lesson"
	"github.com/nvidalperez/cancha/internal/tui/commands"
)

// handleMouse translates terminal mouse events into grid gestures.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollOffset -= 2
		m.clampScroll()
		return m, nil
	case tea.MouseButtonWheelDown:
		m.scrollOffset += 2
		m.clampScroll()
		return m, nil
	}

	if m.mode == ModeModal {
		return m, nil
	}

	if m.composer.Mode() == grid.ViewMonth {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			return m.handleMonthClick(msg.X, msg.Y)
		}
		return m, nil
	}

	pt, day, ok := m.gridPoint(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !ok {
			return m, nil
		}
		hit, topPx := m.hitLesson(day, pt.Y)
		DebugLogGesture("press", day, pt.X, pt.Y)
		seq := m.gest.PointerDown(gesture.Press{
			Modality:   gesture.ModalityMouse,
			Point:      pt,
			DayIndex:   day,
			Event:      hit,
			EventTopPx: topPx,
			Frame:      m.frame(),
			Time:       m.now(),
		})
		next, cmd := m.drainIntents()
		if lp := m.longPressCmd(seq); lp != nil {
			cmd = tea.Batch(cmd, lp)
		}
		return next, cmd

	case tea.MouseActionMotion:
		m.gest.PointerMove(pt, m.now())
		return m.drainIntents()

	case tea.MouseActionRelease:
		DebugLogGesture("release", day, pt.X, pt.Y)
		m.gest.PointerUp(pt, m.now())
		return m.drainIntents()
	}

	return m, nil
}

// gridPoint maps terminal coordinates to grid-body space: X relative to the
// first day column, Y in grid body lines adjusted for scrolling.
func (m Model) gridPoint(x, y int) (gesture.Point, int, bool) {
	gx := x - timeGutterWidth
	gy := y - gridTopLines + m.scrollOffset

	days := len(m.dayWindows())
	day := 0
	if m.colWidth > 0 {
		day = gx / m.colWidth
	}
	inside := gx >= 0 && day < days && gy >= 0 && gy < m.gridBodyLines()
	if day >= days {
		day = days - 1
	}
	if day < 0 {
		day = 0
	}

	return gesture.Point{X: float64(gx), Y: float64(gy)}, day, inside
}

// hitLesson returns the topmost lesson under the given grid-body line of a
// day column, along with its top offset.
func (m Model) hitLesson(day int, y float64) (*lesson.Lesson, float64) {
	if day < 0 || day >= len(m.rendered) {
		return nil, 0
	}
	for i := len(m.rendered[day]) - 1; i >= 0; i-- {
		r := m.rendered[day][i]
		if y >= r.TopPx && y < r.TopPx+r.HeightPx {
			return r.Event, r.TopPx
		}
	}
	return nil, 0
}

// handleMonthClick focuses the clicked month cell as a day view.
func (m Model) handleMonthClick(x, y int) (tea.Model, tea.Cmd) {
	cells := m.composer.MonthCells(m.lessons)
	col := 0
	if m.colWidth > 0 {
		col = (x - timeGutterWidth) / m.colWidth
	}
	row := (y - gridTopLines) / monthCellHeight
	if col < 0 || col >= grid.DaysPerWeek || row < 0 {
		return m, nil
	}
	idx := row*grid.DaysPerWeek + col
	if idx >= len(cells) {
		return m, nil
	}
	m.composer.FocusDay(cells[idx].Date)
	m.recalcColWidth()
	m.cursor.Day = 0
	m.relayout()
	return m, m.loadVisibleRange()
}

// drainIntents converts gesture intents collected during the last pointer
// event into model transitions and repository commands.
func (m Model) drainIntents() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	for _, mv := range m.sink.moves {
		if mv.Event.IsOccurrence {
			m.setStatus("Recurring occurrences cannot be moved; edit the series")
			cmds = append(cmds, clearStatusAfter(4*time.Second))
			continue
		}
		cmds = append(cmds, commands.Reschedule(m.repo, mv.Event.ID, mv.NewStart, mv.NewEnd))
	}
	var next tea.Model = m
	if len(m.sink.slots) > 0 {
		s := m.sink.slots[len(m.sink.slots)-1]
		next, _ = m.openLessonForm(s.Start)
	} else if len(m.sink.selects) > 0 {
		s := m.sink.selects[len(m.sink.selects)-1]
		next, _ = m.openDetail(s.Event)
	}

	m.sink.slots = m.sink.slots[:0]
	m.sink.selects = m.sink.selects[:0]
	m.sink.moves = m.sink.moves[:0]

	if len(cmds) == 0 {
		return next, nil
	}
	return next, tea.Batch(cmds...)
}

// longPressCmd arms the touch long-press timer for the given sequence.
func (m Model) longPressCmd(seq int) tea.Cmd {
	if seq == 0 {
		return nil
	}
	return tea.Tick(m.gest.LongPressDelay(), func(time.Time) tea.Msg {
		return longPressMsg{seq: seq}
	})
}

type longPressMsg struct {
	seq int
}
