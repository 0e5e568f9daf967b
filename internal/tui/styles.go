// Package tui provides the terminal user interface for cancha.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nvidalperez/cancha/internal/tui/theme"
)

// Default column width - will be recalculated dynamically.
const defaultColWidth = 18

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	// Title style
	TitleStyle lipgloss.Style

	// Header styles
	HeaderStyle         lipgloss.Style
	DayHeaderStyle      lipgloss.Style
	DayHeaderTodayStyle lipgloss.Style

	// Time gutter
	TimeColumnStyle lipgloss.Style

	// Lesson block styles
	LessonStyle          lipgloss.Style
	LessonAltStyle       lipgloss.Style // alternate shade for adjacent overlap columns
	LessonDoneStyle      lipgloss.Style
	LessonPastStyle      lipgloss.Style
	LessonCancelledStyle lipgloss.Style
	LessonSelectedStyle  lipgloss.Style
	LessonDraggingStyle  lipgloss.Style // source block dimmed while its ghost tracks the pointer
	GhostStyle           lipgloss.Style // drag preview

	// Current-time indicator
	NowLineStyle lipgloss.Style

	// Empty cell and cursor
	EmptyCellStyle lipgloss.Style
	CursorStyle    lipgloss.Style

	// Month view
	MonthCellStyle      lipgloss.Style
	MonthCellOutStyle   lipgloss.Style // cell outside the anchor month
	MonthCellTodayStyle lipgloss.Style

	// Status message and help line
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style

	// Modal styles
	ModalStyle            lipgloss.Style
	ModalTitleStyle       lipgloss.Style
	ModalLabelStyle       lipgloss.Style
	ModalValueStyle       lipgloss.Style
	ModalHintStyle        lipgloss.Style
	ModalInputTextStyle   lipgloss.Style
	ModalInputCursorStyle lipgloss.Style
	ModalPlaceholderStyle lipgloss.Style

	// Option toggle styles (duration, client pickers)
	OptionActiveStyle   lipgloss.Style
	OptionInactiveStyle lipgloss.Style

	// App container
	AppStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	s := &Styles{palette: p}

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)

	s.HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)

	s.DayHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Foreground(p.Fg).
		Width(defaultColWidth)

	s.DayHeaderTodayStyle = s.DayHeaderStyle.
		Foreground(p.Accent)

	s.TimeColumnStyle = lipgloss.NewStyle().
		Foreground(p.FgMuted).
		Width(timeGutterWidth)

	block := lipgloss.NewStyle().
		Width(defaultColWidth).
		Align(lipgloss.Left)

	s.LessonStyle = block.
		Background(p.LessonBg).
		Foreground(p.TextOnLesson).
		Bold(true)

	s.LessonAltStyle = block.
		Background(p.LessonBgAlt).
		Foreground(p.TextOnLesson).
		Bold(true)

	s.LessonDoneStyle = block.
		Background(p.DoneBg).
		Foreground(p.TextOnDone)

	s.LessonPastStyle = block.
		Background(p.PastBg).
		Foreground(p.Fg)

	s.LessonCancelledStyle = block.
		Background(p.CancelledBg).
		Foreground(p.FgMuted).
		Strikethrough(true)

	s.LessonSelectedStyle = block.
		Background(p.BgSelection).
		Foreground(p.Fg).
		Bold(true)

	s.LessonDraggingStyle = block.
		Background(p.PastBg).
		Foreground(p.FgMuted).
		Faint(true)

	s.GhostStyle = block.
		Background(p.GhostBg).
		Foreground(p.TextOnAccent).
		Italic(true)

	s.NowLineStyle = lipgloss.NewStyle().
		Foreground(p.NowLine).
		Bold(true)

	s.EmptyCellStyle = lipgloss.NewStyle().
		Width(defaultColWidth)

	s.CursorStyle = lipgloss.NewStyle().
		Background(p.BgSelection).
		Width(defaultColWidth)

	s.MonthCellStyle = lipgloss.NewStyle().
		Foreground(p.Fg).
		Align(lipgloss.Left)

	s.MonthCellOutStyle = s.MonthCellStyle.
		Foreground(p.FgMuted)

	s.MonthCellTodayStyle = s.MonthCellStyle.
		Foreground(p.Accent).
		Bold(true)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(p.Warning)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(p.FgMuted)

	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Modal.Border).
		Background(p.Modal.Bg).
		Padding(1, 2)

	s.ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Modal.Highlight)

	s.ModalLabelStyle = lipgloss.NewStyle().
		Foreground(p.Modal.Muted)

	s.ModalValueStyle = lipgloss.NewStyle().
		Foreground(p.Modal.Text)

	s.ModalHintStyle = lipgloss.NewStyle().
		Foreground(p.Modal.Muted).
		Italic(true)

	s.ModalInputTextStyle = lipgloss.NewStyle().
		Foreground(p.Modal.Text)

	s.ModalInputCursorStyle = lipgloss.NewStyle().
		Foreground(p.Modal.Highlight)

	s.ModalPlaceholderStyle = lipgloss.NewStyle().
		Foreground(p.Modal.Muted)

	s.OptionActiveStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.TextOnAccent).
		Background(p.Accent).
		Padding(0, 1)

	s.OptionInactiveStyle = lipgloss.NewStyle().
		Foreground(p.Modal.Muted).
		Padding(0, 1)

	s.AppStyle = lipgloss.NewStyle()

	return s
}

// Palette exposes the derived palette for render helpers.
func (s *Styles) Palette() *theme.Palette {
	return s.palette
}
