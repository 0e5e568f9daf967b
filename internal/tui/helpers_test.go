package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nvidalperez/cancha/internal/config"
	"github.com/nvidalperez/cancha/internal/grid"
	"github.com/nvidalperez/cancha/internal/lesson"
)

// testNow is a Monday mid-morning, so the whole test week is deterministic.
func testNow() time.Time {
	return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
}

// newTestModel builds a model with a fixed clock, a fixed week anchor, and a
// terminal size that gives every day column 16 cells.
func newTestModel(t *testing.T) Model {
	t.Helper()

	m := New(nil, config.Default(), WithNowFunc(testNow))
	m.composer = grid.NewComposer(testNow(), grid.ViewWeek)
	m.composer.SetNowFunc(testNow)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 119, Height: 40})
	return updated.(Model)
}

func testLesson(t *testing.T, title string, start time.Time, d time.Duration) *lesson.Lesson {
	t.Helper()
	l, err := lesson.New("client-1", title, start, start.Add(d), 4500)
	if err != nil {
		t.Fatalf("lesson.New: %v", err)
	}
	return l
}

// loadLessons seeds the model as if a range load had completed.
func loadLessons(t *testing.T, m Model, lessons ...*lesson.Lesson) Model {
	t.Helper()
	m.lessons = lessons
	m.clients = map[string]*lesson.Client{
		"client-1": {ID: "client-1", Name: "Ana García"},
	}
	m.loading = false
	m.relayout()
	return m
}

// lineFor converts a minute offset from the window start to a grid body line.
func lineFor(m Model, minutes int) int {
	return int(m.geo.MinutesToPx(float64(minutes)))
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}
