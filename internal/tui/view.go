package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/nvidalperez/cancha/internal/dateutil"
	"github.com/nvidalperez/cancha/internal/grid"
	"github.com/nvidalperez/cancha/internal/lesson"
	"github.com/nvidalperez/cancha/internal/summary"
)

const monthCellHeight = 3

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var body string
	if m.composer.Mode() == grid.ViewMonth {
		body = m.viewMonth()
	} else {
		body = m.viewGrid()
	}

	out := lipgloss.JoinVertical(lipgloss.Left,
		m.viewTitle(),
		body,
		m.viewStatus(),
		m.viewHelp(),
	)

	if m.mode == ModeModal {
		modal := m.viewModal()
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
	}
	return m.styles.AppStyle.Render(out)
}

func (m Model) viewTitle() string {
	title := fmt.Sprintf("cancha  %s  [%s]", m.rangeTitle(), m.composer.Mode())
	if m.loading {
		title += "  loading..."
	}
	return m.styles.TitleStyle.Width(m.width).Render(ansi.Truncate(title, m.width, "…"))
}

// rangeTitle describes the visible period.
func (m Model) rangeTitle() string {
	switch m.composer.Mode() {
	case grid.ViewDay:
		return m.composer.DayWindow().Start.Format("Monday, January 2 2006")
	case grid.ViewMonth:
		return m.composer.Anchor().Format("January 2006")
	default:
		ws := m.composer.WeekWindows()
		start, end := ws[0].Start, ws[grid.DaysPerWeek-1].Start
		if start.Month() == end.Month() {
			return fmt.Sprintf("%s %d–%d, %d", start.Month(), start.Day(), end.Day(), start.Year())
		}
		return fmt.Sprintf("%s %d – %s %d, %d", start.Month(), start.Day(), end.Month(), end.Day(), end.Year())
	}
}

// viewGrid renders the day or week time grid.
func (m Model) viewGrid() string {
	windows := m.dayWindows()
	today := m.now()

	// Day header row.
	var headers []string
	headers = append(headers, m.styles.TimeColumnStyle.Render(""))
	for _, w := range windows {
		label := w.Start.Format("Mon 2")
		style := m.styles.DayHeaderStyle.Width(m.colWidth)
		if dateutil.SameDay(w.Start, today) {
			style = m.styles.DayHeaderTodayStyle.Width(m.colWidth)
		}
		headers = append(headers, style.Render(ansi.Truncate(label, m.colWidth, "")))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, headers...)

	gutter := m.gutterLabels(windows[0])

	var lines []string
	top := m.scrollOffset
	bottom := top + m.visibleRows()
	if max := m.gridBodyLines(); bottom > max {
		bottom = max
	}
	for line := top; line < bottom; line++ {
		parts := make([]string, 0, len(windows)+1)
		parts = append(parts, m.styles.TimeColumnStyle.Render(gutter[line]))
		for day := range windows {
			parts = append(parts, m.renderDayLine(day, line, windows[day], today))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}

	return header + "\n" + strings.Join(lines, "\n")
}

// gutterLabels builds the hour label for every grid body line.
func (m Model) gutterLabels(w grid.VisibleWindow) []string {
	labels := make([]string, m.gridBodyLines())
	for _, row := range w.Rows() {
		if row.Label == "" {
			continue
		}
		line := int(m.geo.MinutesToPx(float64(row.Minutes)))
		if line >= 0 && line < len(labels) {
			labels[line] = fmt.Sprintf("%5s ", row.Label)
		}
	}
	return labels
}

// renderDayLine renders one 30-minute cell of one day column, composing
// overlap sub-columns side by side.
func (m Model) renderDayLine(day, line int, w grid.VisibleWindow, now time.Time) string {
	y := float64(line)

	// Drag ghost paints over everything else in its column.
	if g, ok := m.gest.Ghost(); ok && g.DayIndex == day {
		if y >= g.TopPx && y < g.TopPx+g.HeightPx {
			text := ""
			if int(y) == int(g.TopPx) {
				text = w.TimeAt(g.StartMinutes).Format("15:04")
			}
			return m.styles.GhostStyle.Width(m.colWidth).Render(ansi.Truncate(text, m.colWidth, ""))
		}
	}

	covering := m.coveringEvents(day, y)
	if len(covering) == 0 {
		return m.renderEmptyCell(day, line, w, now)
	}

	// Sub-columns share the day column width; the last one absorbs the
	// remainder.
	count := covering[0].ColumnCount
	if count < 1 {
		count = 1
	}
	sub := m.colWidth / count
	if sub < 1 {
		sub = 1
	}

	segments := make([]string, count)
	for col := 0; col < count; col++ {
		width := sub
		if col == count-1 {
			width = m.colWidth - sub*(count-1)
		}
		segments[col] = m.styles.EmptyCellStyle.Width(width).Render("")
		for _, r := range covering {
			if r.Column != col {
				continue
			}
			segments[col] = m.renderEventCell(r, line, width, now)
			break
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, segments...)
}

// coveringEvents returns the rendered events of a day whose vertical span
// includes the given line.
func (m Model) coveringEvents(day int, y float64) []grid.Rendered {
	if day < 0 || day >= len(m.rendered) {
		return nil
	}
	var out []grid.Rendered
	for _, r := range m.rendered[day] {
		if y >= r.TopPx && y < r.TopPx+r.HeightPx {
			out = append(out, r)
		}
	}
	return out
}

// renderEventCell renders one line of a lesson block.
func (m Model) renderEventCell(r grid.Rendered, line, width int, now time.Time) string {
	l := r.Event
	style := m.lessonStyle(r, now).Width(width)

	text := ""
	switch line - int(r.TopPx) {
	case 0:
		text = l.Start.Format("15:04") + " " + l.Title
	case 1:
		if c, ok := m.clients[l.ClientID]; ok {
			text = c.Name
		}
		if l.Recurrence != "" {
			text += " ↻"
		}
	case 2:
		if l.Status == lesson.StatusCompleted && !l.Paid {
			text = "unpaid"
		}
	}
	return style.Render(ansi.Truncate(" "+text, width, "…"))
}

func (m Model) lessonStyle(r grid.Rendered, now time.Time) lipgloss.Style {
	l := r.Event
	// The block being moved dims while its ghost tracks the pointer.
	if d := m.gest.DraggedEvent(); d != nil && d.ID == l.ID && d.Start.Equal(l.Start) {
		return m.styles.LessonDraggingStyle
	}
	if m.selected != nil && m.selected.ID == l.ID && m.selected.Start.Equal(l.Start) {
		return m.styles.LessonSelectedStyle
	}
	switch {
	case l.Status == lesson.StatusCancelled, l.Status == lesson.StatusNoShow:
		return m.styles.LessonCancelledStyle
	case l.Status == lesson.StatusCompleted:
		return m.styles.LessonDoneStyle
	case l.End.Before(now):
		return m.styles.LessonPastStyle
	case r.Column%2 == 1:
		return m.styles.LessonAltStyle
	default:
		return m.styles.LessonStyle
	}
}

func (m Model) renderEmptyCell(day, line int, w grid.VisibleWindow, now time.Time) string {
	if px, ok := grid.NowIndicator(w, now, m.geo); ok && int(px) == line {
		rule := strings.Repeat("╌", m.colWidth)
		return m.styles.NowLineStyle.Render(rule)
	}
	if m.mode == ModeNormal && day == m.cursor.Day && line == m.cursor.Row {
		return m.styles.CursorStyle.Width(m.colWidth).Render("")
	}
	return m.styles.EmptyCellStyle.Width(m.colWidth).Render("")
}

// viewMonth renders the month overview grid.
func (m Model) viewMonth() string {
	cells := m.composer.MonthCells(m.lessons)

	var headers []string
	headers = append(headers, m.styles.TimeColumnStyle.Render(""))
	// The month grid starts on Sunday, unlike the Monday-first week view.
	for _, name := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		headers = append(headers, m.styles.DayHeaderStyle.Width(m.colWidth).Render(name))
	}
	out := []string{lipgloss.JoinHorizontal(lipgloss.Top, headers...)}

	for row := 0; row < len(cells)/grid.DaysPerWeek; row++ {
		cols := make([]string, 0, grid.DaysPerWeek+1)
		cols = append(cols, m.styles.TimeColumnStyle.Render(""))
		for col := 0; col < grid.DaysPerWeek; col++ {
			cols = append(cols, m.renderMonthCell(cells[row*grid.DaysPerWeek+col]))
		}
		out = append(out, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}
	return strings.Join(out, "\n")
}

func (m Model) renderMonthCell(c grid.MonthCell) string {
	style := m.styles.MonthCellStyle
	switch {
	case c.Today:
		style = m.styles.MonthCellTodayStyle
	case !c.InMonth:
		style = m.styles.MonthCellOutStyle
	}
	style = style.Width(m.colWidth).Height(monthCellHeight)

	count := ""
	if c.Count == 1 {
		count = "1 lesson"
	} else if c.Count > 1 {
		count = fmt.Sprintf("%d lessons", c.Count)
	}
	body := fmt.Sprintf(" %2d\n %s", c.Date.Day(), count)
	return style.Render(ansi.Truncate(body, m.colWidth*monthCellHeight, ""))
}

func (m Model) viewStatus() string {
	if m.statusMsg != "" {
		return m.styles.StatusStyle.Width(m.width).Render(ansi.Truncate(" "+m.statusMsg, m.width, "…"))
	}
	return m.styles.StatusStyle.Width(m.width).Render("")
}

func (m Model) viewHelp() string {
	var help string
	switch {
	case m.mode == ModeModal:
		help = " esc close"
	case m.composer.Mode() == grid.ViewMonth:
		help = " hjkl move · enter open day · d/w/m view · H/L month · t today · q quit"
	default:
		help = " hjkl move · enter open · a add · d/w/m view · H/L period · t today · s summary · e export · y copy · q quit"
	}
	return m.styles.HelpStyle.Width(m.width).Render(ansi.Truncate(help, m.width, "…"))
}

// viewModal renders the active modal box.
func (m Model) viewModal() string {
	switch m.modalType {
	case ModalLessonForm:
		return m.viewLessonForm()
	case ModalLessonDetail:
		return m.viewLessonDetail()
	case ModalConfirmDelete:
		return m.viewConfirm()
	case ModalWeekSummary:
		return m.viewWeekSummary()
	}
	return ""
}

func (m Model) viewLessonForm() string {
	s := m.styles
	var b strings.Builder

	b.WriteString(s.ModalTitleStyle.Render("New lesson"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s\n\n",
		s.ModalLabelStyle.Render("When:"),
		s.ModalValueStyle.Render(m.form.slotStart.Format("Mon Jan 2, 15:04")))

	b.WriteString(s.ModalLabelStyle.Render("Title:"))
	b.WriteString(" ")
	b.WriteString(m.form.title.View())
	b.WriteString("\n\n")

	b.WriteString(s.ModalLabelStyle.Render("Client:"))
	b.WriteString(" ")
	clients := m.clientList()
	switch {
	case len(clients) == 0:
		b.WriteString(s.ModalHintStyle.Render("none yet"))
	case m.form.focus == formFieldClient:
		for i, c := range clients {
			style := s.OptionInactiveStyle
			if i == m.form.clientIdx {
				style = s.OptionActiveStyle
			}
			b.WriteString(style.Render(c.Name))
			b.WriteString(" ")
		}
	default:
		idx := m.form.clientIdx
		if idx >= len(clients) {
			idx = 0
		}
		b.WriteString(s.ModalValueStyle.Render(clients[idx].Name))
	}
	b.WriteString("\n\n")

	b.WriteString(s.ModalLabelStyle.Render("Duration:"))
	b.WriteString(" ")
	for i, d := range durationOptions {
		style := s.OptionInactiveStyle
		if i == m.form.durationIdx {
			style = s.OptionActiveStyle
			if m.form.focus != formFieldDuration {
				style = s.ModalValueStyle
			}
		}
		fmt.Fprintf(&b, "%s ", style.Render(fmt.Sprintf("%dm", d)))
	}
	b.WriteString("\n\n")

	b.WriteString(s.ModalHintStyle.Render("tab field · ←/→ choose · enter save · esc cancel"))
	return s.ModalStyle.Render(b.String())
}

func (m Model) viewLessonDetail() string {
	s := m.styles
	l := m.selected
	if l == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(s.ModalTitleStyle.Render(l.Title))
	b.WriteString("\n\n")

	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", s.ModalLabelStyle.Render(label), s.ModalValueStyle.Render(value))
	}

	row("When:  ", fmt.Sprintf("%s – %s",
		l.Start.Format("Mon Jan 2, 15:04"), l.End.Format("15:04")))
	if c, ok := m.clients[l.ClientID]; ok {
		row("Client:", c.Name)
	}
	row("Status:", string(l.Status))
	row("Price: ", formatPrice(l.Price, m.config.Billing.Currency))
	if l.Status == lesson.StatusCompleted {
		paid := "no"
		if l.Paid {
			paid = "yes"
		}
		row("Paid:  ", paid)
	}
	if l.Recurrence != "" {
		row("Repeat:", l.Recurrence)
		if l.IsOccurrence {
			b.WriteString(s.ModalHintStyle.Render("(occurrence of a recurring lesson)"))
			b.WriteString("\n")
		}
	}
	if l.Notes != "" {
		row("Notes: ", l.Notes)
	}

	b.WriteString("\n")
	b.WriteString(s.ModalHintStyle.Render("c complete · n no-show · u unschedule · x cancel · p paid · D delete · esc close"))
	return s.ModalStyle.Render(b.String())
}

func (m Model) viewConfirm() string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.ModalTitleStyle.Render("Confirm"))
	b.WriteString("\n\n")
	b.WriteString(s.ModalValueStyle.Render(m.confirmMessage))
	b.WriteString("\n\n")
	b.WriteString(s.ModalHintStyle.Render("y delete · n keep"))
	return s.ModalStyle.Render(b.String())
}

func (m Model) viewWeekSummary() string {
	s := m.styles
	ws := m.weekSummary
	if ws == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(s.ModalTitleStyle.Render(fmt.Sprintf("Week of %s", ws.Start.Format("January 2"))))
	b.WriteString("\n\n")

	st := ws.Stats
	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", s.ModalLabelStyle.Render(label), s.ModalValueStyle.Render(value))
	}
	row("Lessons:    ", fmt.Sprintf("%d (%d scheduled, %d completed)", st.Total, st.Scheduled, st.Completed))
	if st.Cancelled > 0 || st.NoShow > 0 {
		row("Missed:     ", fmt.Sprintf("%d cancelled, %d no-show", st.Cancelled, st.NoShow))
	}
	row("Booked time:", formatDuration(st.BookedTime))
	row("Earned:     ", formatPrice(st.RevenueEarned, m.config.Billing.Currency))
	if st.RevenueOutstanding > 0 {
		row("Outstanding:", formatPrice(st.RevenueOutstanding, m.config.Billing.Currency))
	}

	b.WriteString("\n")
	b.WriteString(s.ModalHintStyle.Render("y copy · esc close"))
	return s.ModalStyle.Render(b.String())
}

// formatWeekSummaryText renders the week summary as shareable plain text.
func formatWeekSummaryText(ws *summary.WeekSummary, clients map[string]*lesson.Client) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Week of %s – %s\n", ws.Start.Format("Jan 2"), ws.End.Format("Jan 2, 2006"))
	st := ws.Stats
	fmt.Fprintf(&b, "Lessons: %d (%d completed, %d cancelled, %d no-show)\n",
		st.Total, st.Completed, st.Cancelled, st.NoShow)
	fmt.Fprintf(&b, "Booked time: %s\n", formatDuration(st.BookedTime))
	for _, l := range ws.Lessons {
		name := l.Title
		if c, ok := clients[l.ClientID]; ok {
			name = c.Name
		}
		fmt.Fprintf(&b, "  %s %s-%s  %s [%s]\n",
			l.Start.Format("Mon"), l.Start.Format("15:04"), l.End.Format("15:04"), name, l.Status)
	}
	return b.String()
}

func formatPrice(cents int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, currency)
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	min := int(d.Minutes()) % 60
	if min == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%02dm", h, min)
}

