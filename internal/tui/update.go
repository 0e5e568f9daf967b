package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nvidalperez/cancha/internal/grid"
	"github.com/nvidalperez/cancha/internal/tui/commands"
)

// tickMsg fires periodically to advance the current-time indicator.
type tickMsg time.Time

func tickNow() tea.Cmd {
	return tea.Tick(30*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// clearStatusAfter schedules the status line to be cleared.
func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcColWidth()
		m.clampScroll()
		return m, nil

	case tea.KeyMsg:
		DebugLogKey(msg.String(), m.modeName())
		if m.mode == ModeModal {
			return m.handleModalKeys(msg)
		}
		return m.handleNormalKeys(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case longPressMsg:
		m.gest.LongPressFired(msg.seq)
		return m.drainIntents()

	case tickMsg:
		// Redraw so the now indicator keeps up; no data reload needed.
		return m, tickNow()

	case commands.RangeLoadedMsg:
		m.loading = false
		m.lessons = msg.Lessons
		m.clients = msg.Clients
		m.relayout()
		return m, nil

	case commands.LessonMutatedMsg:
		cmds := []tea.Cmd{m.loadVisibleRange()}
		if msg.Status != "" {
			m.setStatus(msg.Status)
			cmds = append(cmds, clearStatusAfter(4*time.Second))
		}
		return m, tea.Batch(cmds...)

	case commands.WeekSummaryMsg:
		m.weekSummary = msg.Summary
		m.mode = ModeModal
		m.modalType = ModalWeekSummary
		return m, nil

	case commands.ExportedMsg:
		m.setStatus(exportedStatus(msg))
		return m, clearStatusAfter(4 * time.Second)

	case commands.StatusMsgCmd:
		m.setStatus(msg.Msg)
		return m, clearStatusAfter(4 * time.Second)

	case commands.ClearStatusMsg:
		if time.Since(m.statusTime) >= 3*time.Second {
			m.statusMsg = ""
		}
		return m, nil

	case commands.ErrMsg:
		m.loading = false
		m.err = msg.Err
		DebugLogError("command", msg.Err)
		m.setStatus("Error: " + msg.Err.Error())
		return m, clearStatusAfter(6 * time.Second)
	}

	return m, nil
}

func (m *Model) setStatus(s string) {
	m.statusMsg = s
	m.statusTime = time.Now()
}

func (m Model) modeName() string {
	if m.mode == ModeModal {
		return "modal"
	}
	return "normal"
}

// recalcColWidth divides the width left of the gutter among the visible day
// columns.
func (m *Model) recalcColWidth() {
	days := len(m.dayWindows())
	if m.composer.Mode() == grid.ViewMonth {
		days = grid.DaysPerWeek
	}
	usable := m.width - timeGutterWidth
	if usable < days {
		usable = days
	}
	m.colWidth = usable / days
	if m.colWidth < 4 {
		m.colWidth = 4
	}
}

// relayout rebuilds the rendered event placements for every visible day.
func (m *Model) relayout() {
	windows := m.dayWindows()
	m.rendered = make([][]grid.Rendered, len(windows))
	for i, w := range windows {
		placed := m.geo.Layout(m.lessons, w)
		m.rendered[i] = grid.AssignColumns(placed)
	}
}

// clampScroll keeps the viewport within the grid body.
func (m *Model) clampScroll() {
	max := m.gridBodyLines() - m.visibleRows()
	if max < 0 {
		max = 0
	}
	if m.scrollOffset > max {
		m.scrollOffset = max
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// ensureCursorVisible scrolls the viewport to contain the cursor row.
func (m *Model) ensureCursorVisible() {
	if m.cursor.Row < m.scrollOffset {
		m.scrollOffset = m.cursor.Row
	}
	bottom := m.scrollOffset + m.visibleRows() - 1
	if m.cursor.Row > bottom {
		m.scrollOffset = m.cursor.Row - m.visibleRows() + 1
	}
	m.clampScroll()
}

func exportedStatus(msg commands.ExportedMsg) string {
	if msg.Count == 1 {
		return "Exported 1 lesson to " + msg.Path
	}
	return fmt.Sprintf("Exported %d lessons to %s", msg.Count, msg.Path)
}
