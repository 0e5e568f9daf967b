package tui

import (
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nvidalperez/cancha/internal/lesson"
	"github.com/nvidalperez/cancha/internal/tui/commands"
)

const (
	formFieldTitle = iota
	formFieldClient
	formFieldDuration
	formFieldCount
)

// clientList returns the loaded clients in a stable display order.
func (m Model) clientList() []*lesson.Client {
	out := make([]*lesson.Client, 0, len(m.clients))
	for _, c := range m.clients {
		if c.Archived {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.form.focus = (m.form.focus + 1) % formFieldCount
		m.syncFormFocus()
		return m, nil
	case "shift+tab", "up":
		m.form.focus = (m.form.focus + formFieldCount - 1) % formFieldCount
		m.syncFormFocus()
		return m, nil

	case "left", "right":
		if m.form.focus == formFieldTitle {
			break
		}
		delta := 1
		if msg.String() == "left" {
			delta = -1
		}
		switch m.form.focus {
		case formFieldClient:
			if n := len(m.clientList()); n > 0 {
				m.form.clientIdx = (m.form.clientIdx + delta + n) % n
			}
		case formFieldDuration:
			n := len(durationOptions)
			m.form.durationIdx = (m.form.durationIdx + delta + n) % n
		}
		return m, nil

	case "enter":
		return m.submitForm()
	}

	if m.form.focus == formFieldTitle {
		var cmd tea.Cmd
		m.form.title, cmd = m.form.title.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) syncFormFocus() {
	if m.form.focus == formFieldTitle {
		m.form.title.Focus()
	} else {
		m.form.title.Blur()
	}
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	clients := m.clientList()
	if len(clients) == 0 {
		m.setStatus("Add a client first: cancha client add")
		return m.closeModal(), clearStatusAfter(4 * time.Second)
	}
	if m.form.clientIdx >= len(clients) {
		m.form.clientIdx = 0
	}
	client := clients[m.form.clientIdx]

	title := strings.TrimSpace(m.form.title.Value())
	if title == "" {
		title = client.Name
	}

	start := m.form.slotStart
	end := start.Add(time.Duration(durationOptions[m.form.durationIdx]) * time.Minute)

	l, err := lesson.New(client.ID, title, start, end, m.config.Billing.DefaultPrice)
	if err != nil {
		m.setStatus("Invalid lesson: " + err.Error())
		return m, clearStatusAfter(4 * time.Second)
	}
	l.Recurrence = m.config.Schedule.DefaultRecurrence

	return m.closeModal(), commands.CreateLesson(m.repo, l)
}
