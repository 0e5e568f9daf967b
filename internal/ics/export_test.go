package ics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/nvidalperez/cancha/internal/lesson"
)

func mkLesson(t *testing.T, title string, start time.Time, d time.Duration) *lesson.Lesson {
	t.Helper()
	l, err := lesson.New("client-1", title, start, start.Add(d), 4500)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l
}

func TestExport(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	l := mkLesson(t, "Forehand drills", start, time.Hour)
	l.Notes = "bring the ball machine"

	var buf bytes.Buffer
	names := map[string]string{"client-1": "Ana"}
	if err := Export(&buf, []*lesson.Lesson{l}, names); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("re-parsing export: %v", err)
	}

	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]

	gotStart, err := ev.GetStartAt()
	if err != nil {
		t.Fatalf("GetStartAt: %v", err)
	}
	if !gotStart.Equal(start) {
		t.Errorf("start = %v, want %v", gotStart, start)
	}

	if p := ev.GetProperty(ical.ComponentPropertySummary); p == nil || p.Value != "Forehand drills - Ana" {
		t.Errorf("summary = %v, want title with client name", p)
	}
	if p := ev.GetProperty(ical.ComponentPropertyDescription); p == nil || p.Value != l.Notes {
		t.Errorf("description = %v, want notes", p)
	}
}

func TestExport_RecurringCarriesRule(t *testing.T) {
	start := time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC)
	anchor := mkLesson(t, "Weekly session", start, time.Hour)
	anchor.Recurrence = "FREQ=WEEKLY;BYDAY=MO"

	occurrence := mkLesson(t, "Weekly session", start.AddDate(0, 0, 7), time.Hour)
	occurrence.IsOccurrence = true

	var buf bytes.Buffer
	if err := Export(&buf, []*lesson.Lesson{anchor, occurrence}, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	out := buf.String()

	if got := strings.Count(out, "BEGIN:VEVENT"); got != 1 {
		t.Errorf("got %d VEVENTs, want only the anchor", got)
	}
	if !strings.Contains(out, "RRULE:FREQ=WEEKLY;BYDAY=MO") {
		t.Error("export missing the recurrence rule")
	}
}

func TestExport_CancelledStatus(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	l := mkLesson(t, "Cancelled one", start, time.Hour)
	l.Status = lesson.StatusCancelled

	var buf bytes.Buffer
	if err := Export(&buf, []*lesson.Lesson{l}, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if !strings.Contains(buf.String(), "STATUS:CANCELLED") {
		t.Error("cancelled lesson should export STATUS:CANCELLED")
	}
}

func TestExport_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, nil, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "BEGIN:VCALENDAR") || !strings.Contains(out, "END:VCALENDAR") {
		t.Error("empty export should still be a valid calendar shell")
	}
}
