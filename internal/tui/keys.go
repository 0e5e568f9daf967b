package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nvidalperez/cancha/internal/gesture"
	"github.com/nvidalperez/cancha/internal/grid"
	"github.com/nvidalperez/cancha/internal/lesson"
	"github.com/nvidalperez/cancha/internal/tui/commands"
)

// handleNormalKeys handles keys in normal (grid) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "d":
		return m.switchView(grid.ViewDay)
	case "w":
		return m.switchView(grid.ViewWeek)
	case "m":
		return m.switchView(grid.ViewMonth)

	case "t":
		m.composer.Today()
		m.cursor.Day = m.todayColumn()
		m.relayout()
		return m, m.loadVisibleRange()

	case "H", "shift+left", "pgup":
		m.composer.Prev()
		m.relayout()
		return m, m.loadVisibleRange()
	case "L", "shift+right", "pgdown":
		m.composer.Next()
		m.relayout()
		return m, m.loadVisibleRange()

	case "h", "left":
		return m.moveCursorDay(-1)
	case "l", "right":
		return m.moveCursorDay(1)
	case "j", "down":
		return m.moveCursorRow(1)
	case "k", "up":
		return m.moveCursorRow(-1)

	case "ctrl+d":
		m.scrollOffset += m.visibleRows() / 2
		m.clampScroll()
		return m, nil
	case "ctrl+u":
		m.scrollOffset -= m.visibleRows() / 2
		m.clampScroll()
		return m, nil

	case "enter", "a":
		return m.openAtCursor(msg.String() == "a")

	case "s":
		return m, commands.WeekSummary(m.repo, m.composer.Anchor())

	case "e":
		from, to := m.composer.RangeBounds()
		path := fmt.Sprintf("cancha-%s.ics", from.Format("2006-01-02"))
		return m, commands.ExportICS(m.repo, path, from, to)

	case "y":
		return m.copyDayAgenda()

	case "r":
		m.loading = true
		return m, m.loadVisibleRange()
	}

	return m, nil
}

// switchView changes the composer view mode, keeping the anchor.
func (m Model) switchView(mode grid.ViewMode) (tea.Model, tea.Cmd) {
	if m.composer.Mode() == mode {
		return m, nil
	}
	m.composer.SetMode(mode)
	m.recalcColWidth()
	m.cursor.Day = m.todayColumn()
	m.relayout()
	return m, m.loadVisibleRange()
}

func (m Model) moveCursorDay(delta int) (tea.Model, tea.Cmd) {
	switch m.composer.Mode() {
	case grid.ViewDay:
		if delta < 0 {
			m.composer.Prev()
		} else {
			m.composer.Next()
		}
		m.relayout()
		return m, m.loadVisibleRange()
	case grid.ViewMonth:
		m.composer.FocusDay(m.composer.Anchor().AddDate(0, 0, delta))
		m.composer.SetMode(grid.ViewMonth)
		return m, m.loadVisibleRange()
	default:
		m.cursor.Day += delta
		if m.cursor.Day < 0 {
			m.cursor.Day = 0
			m.composer.Prev()
			m.cursor.Day = grid.DaysPerWeek - 1
			m.relayout()
			return m, m.loadVisibleRange()
		}
		if m.cursor.Day >= grid.DaysPerWeek {
			m.cursor.Day = 0
			m.composer.Next()
			m.relayout()
			return m, m.loadVisibleRange()
		}
		return m, nil
	}
}

func (m Model) moveCursorRow(delta int) (tea.Model, tea.Cmd) {
	if m.composer.Mode() == grid.ViewMonth {
		m.composer.FocusDay(m.composer.Anchor().AddDate(0, 0, delta*grid.DaysPerWeek))
		m.composer.SetMode(grid.ViewMonth)
		return m, m.loadVisibleRange()
	}
	m.cursor.Row += delta
	if m.cursor.Row < 0 {
		m.cursor.Row = 0
	}
	if max := m.gridBodyLines() - 1; m.cursor.Row > max {
		m.cursor.Row = max
	}
	m.ensureCursorVisible()
	return m, nil
}

// openAtCursor opens the detail modal when the cursor sits on a lesson, or
// the new-lesson form on an empty slot. forceNew skips the lesson lookup.
func (m Model) openAtCursor(forceNew bool) (tea.Model, tea.Cmd) {
	if m.composer.Mode() == grid.ViewMonth {
		m.composer.SetMode(grid.ViewDay)
		m.recalcColWidth()
		m.cursor.Day = 0
		m.relayout()
		return m, m.loadVisibleRange()
	}

	if !forceNew {
		if l := m.lessonAt(m.cursor.Day, m.cursor.Row); l != nil {
			return m.openDetail(l)
		}
	}

	windows := m.dayWindows()
	if m.cursor.Day >= len(windows) {
		return m, nil
	}
	minutes := m.geo.PxToMinutes(float64(m.cursor.Row))
	snapped := gesture.SnapToInterval(minutes, m.config.Schedule.SnapMinutes)
	return m.openLessonForm(windows[m.cursor.Day].TimeAt(snapped))
}

// lessonAt finds the topmost lesson covering the given grid line, if any.
func (m Model) lessonAt(day, row int) *lesson.Lesson {
	if day < 0 || day >= len(m.rendered) {
		return nil
	}
	y := float64(row)
	for i := len(m.rendered[day]) - 1; i >= 0; i-- {
		r := m.rendered[day][i]
		if y >= r.TopPx && y < r.TopPx+r.HeightPx {
			return r.Event
		}
	}
	return nil
}

func (m Model) openDetail(l *lesson.Lesson) (tea.Model, tea.Cmd) {
	m.selected = l
	m.mode = ModeModal
	m.modalType = ModalLessonDetail
	return m, nil
}

func (m Model) openLessonForm(start time.Time) (tea.Model, tea.Cmd) {
	m.form.slotStart = start
	m.form.title.SetValue("")
	m.form.focus = 0
	m.form.clientIdx = 0
	m.form.durationIdx = defaultDurationIdx(m.config.Schedule.DefaultLessonMinutes)
	m.form.title.Focus()
	m.mode = ModeModal
	m.modalType = ModalLessonForm
	return m, nil
}

// copyDayAgenda copies the cursor day's agenda as plain text.
func (m Model) copyDayAgenda() (tea.Model, tea.Cmd) {
	windows := m.dayWindows()
	if m.cursor.Day >= len(windows) || m.cursor.Day >= len(m.rendered) {
		return m, nil
	}
	day := windows[m.cursor.Day].Start

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", day.Format("Monday, January 2"))
	for _, r := range m.rendered[m.cursor.Day] {
		l := r.Event
		fmt.Fprintf(&b, "%s-%s  %s", l.Start.Format("15:04"), l.End.Format("15:04"), l.Title)
		if c, ok := m.clients[l.ClientID]; ok {
			fmt.Fprintf(&b, " (%s)", c.Name)
		}
		if l.Status != lesson.StatusScheduled {
			fmt.Fprintf(&b, " [%s]", l.Status)
		}
		b.WriteString("\n")
	}

	if err := clipboard.WriteAll(b.String()); err != nil {
		m.setStatus("Clipboard unavailable")
	} else {
		m.setStatus("Day agenda copied")
	}
	return m, clearStatusAfter(4 * time.Second)
}

// handleModalKeys handles keys while a modal is open.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		return m.closeModal(), nil
	}

	switch m.modalType {
	case ModalLessonForm:
		return m.handleFormKeys(msg)
	case ModalLessonDetail:
		return m.handleDetailKeys(msg)
	case ModalConfirmDelete:
		return m.handleConfirmKeys(msg)
	case ModalWeekSummary:
		return m.handleSummaryKeys(msg)
	}
	return m, nil
}

func (m Model) closeModal() Model {
	m.mode = ModeNormal
	m.modalType = ModalNone
	m.selected = nil
	m.weekSummary = nil
	m.form.title.Blur()
	return m
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := m.selected
	if l == nil {
		return m.closeModal(), nil
	}

	switch msg.String() {
	case "c":
		return m.closeModal(), commands.SetStatus(m.repo, l.ID, lesson.StatusCompleted)
	case "n":
		return m.closeModal(), commands.SetStatus(m.repo, l.ID, lesson.StatusNoShow)
	case "u":
		return m.closeModal(), commands.SetStatus(m.repo, l.ID, lesson.StatusScheduled)
	case "x":
		return m.closeModal(), commands.SetStatus(m.repo, l.ID, lesson.StatusCancelled)
	case "p":
		return m.closeModal(), commands.SetPaid(m.repo, l.ID, !l.Paid)
	case "D":
		if l.IsOccurrence {
			m.setStatus("Recurring occurrences cannot be deleted individually")
			return m.closeModal(), clearStatusAfter(4 * time.Second)
		}
		m.modalType = ModalConfirmDelete
		m.confirmMessage = fmt.Sprintf("Delete %q?", l.Title)
		return m, nil
	case "q", "enter":
		return m.closeModal(), nil
	}
	return m, nil
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		id := ""
		if m.selected != nil {
			id = m.selected.ID
		}
		m = m.closeModal()
		if id == "" {
			return m, nil
		}
		return m, commands.DeleteLesson(m.repo, id)
	case "n", "q":
		return m.closeModal(), nil
	}
	return m, nil
}

func (m Model) handleSummaryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		if m.weekSummary != nil {
			text := formatWeekSummaryText(m.weekSummary, m.clients)
			if err := clipboard.WriteAll(text); err != nil {
				m.setStatus("Clipboard unavailable")
			} else {
				m.setStatus("Summary copied")
			}
			return m, clearStatusAfter(4 * time.Second)
		}
	case "q", "enter":
		return m.closeModal(), nil
	}
	return m, nil
}
