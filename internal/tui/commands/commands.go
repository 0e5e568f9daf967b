// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nvidalperez/cancha/internal/ics"
	"github.com/nvidalperez/cancha/internal/lesson"
	"github.com/nvidalperez/cancha/internal/recur"
	"github.com/nvidalperez/cancha/internal/summary"
)

// RangeLoadedMsg is sent when the lessons for the visible range are loaded.
// Lessons are already expanded: recurring anchors appear as occurrences.
type RangeLoadedMsg struct {
	From    time.Time
	To      time.Time
	Lessons []*lesson.Lesson
	Clients map[string]*lesson.Client
}

// LessonMutatedMsg is sent after any write that should trigger a reload.
type LessonMutatedMsg struct {
	Status string // status line to show, empty for none
}

// WeekSummaryMsg is sent when week summary data is ready.
type WeekSummaryMsg struct {
	Summary *summary.WeekSummary
}

// ExportedMsg is sent when an ICS export finishes.
type ExportedMsg struct {
	Path  string
	Count int
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadRange loads and expands lessons intersecting [from, to), plus the
// client directory for name lookups.
func LoadRange(repo lesson.Repository, from, to time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		stored, err := repo.ListLessonsBetween(ctx, from, to)
		if err != nil {
			return ErrMsg{Err: err}
		}

		expanded, err := recur.Expand(stored, from, to)
		if err != nil {
			return ErrMsg{Err: err}
		}

		clients, err := repo.ListClients(ctx, true)
		if err != nil {
			return ErrMsg{Err: err}
		}
		byID := make(map[string]*lesson.Client, len(clients))
		for _, c := range clients {
			byID[c.ID] = c
		}

		return RangeLoadedMsg{From: from, To: to, Lessons: expanded, Clients: byID}
	}
}

// CreateLesson persists a new lesson.
func CreateLesson(repo lesson.Repository, l *lesson.Lesson) tea.Cmd {
	return func() tea.Msg {
		if err := repo.CreateLesson(context.Background(), l); err != nil {
			return ErrMsg{Err: err}
		}
		return LessonMutatedMsg{Status: "Created: " + l.Title}
	}
}

// Reschedule moves a lesson to a new time.
func Reschedule(repo lesson.Repository, id string, newStart, newEnd time.Time) tea.Cmd {
	return func() tea.Msg {
		if err := repo.RescheduleLesson(context.Background(), id, newStart, newEnd); err != nil {
			return ErrMsg{Err: err}
		}
		return LessonMutatedMsg{Status: "Moved to " + newStart.Format("Mon 15:04")}
	}
}

// SetStatus updates a lesson's status.
func SetStatus(repo lesson.Repository, id string, status lesson.Status) tea.Cmd {
	return func() tea.Msg {
		if err := repo.SetLessonStatus(context.Background(), id, status); err != nil {
			return ErrMsg{Err: err}
		}
		return LessonMutatedMsg{Status: "Marked " + string(status)}
	}
}

// SetPaid updates a lesson's paid flag.
func SetPaid(repo lesson.Repository, id string, paid bool) tea.Cmd {
	return func() tea.Msg {
		if err := repo.MarkPaid(context.Background(), id, paid); err != nil {
			return ErrMsg{Err: err}
		}
		if paid {
			return LessonMutatedMsg{Status: "Marked paid"}
		}
		return LessonMutatedMsg{Status: "Marked unpaid"}
	}
}

// DeleteLesson removes a lesson.
func DeleteLesson(repo lesson.Repository, id string) tea.Cmd {
	return func() tea.Msg {
		if err := repo.DeleteLesson(context.Background(), id); err != nil {
			return ErrMsg{Err: err}
		}
		return LessonMutatedMsg{Status: "Deleted"}
	}
}

// WeekSummary builds the summary for the week containing weekStart.
func WeekSummary(repo lesson.Repository, weekStart time.Time) tea.Cmd {
	return func() tea.Msg {
		s, err := summary.BuildWeekSummary(context.Background(), repo, weekStart)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return WeekSummaryMsg{Summary: s}
	}
}

// ExportICS writes all stored lessons in [from, to) to an ICS file.
func ExportICS(repo lesson.Repository, path string, from, to time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		lessons, err := repo.ListLessonsBetween(ctx, from, to)
		if err != nil {
			return ErrMsg{Err: err}
		}
		clients, err := repo.ListClients(ctx, true)
		if err != nil {
			return ErrMsg{Err: err}
		}
		names := make(map[string]string, len(clients))
		for _, c := range clients {
			names[c.ID] = c.Name
		}

		f, err := os.Create(path)
		if err != nil {
			return ErrMsg{Err: err}
		}
		defer func() { _ = f.Close() }()

		if err := ics.Export(f, lessons, names); err != nil {
			return ErrMsg{Err: err}
		}
		return ExportedMsg{Path: path, Count: len(lessons)}
	}
}
