package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nvidalperez/cancha/internal/lesson"
)

func newTestRepo(t *testing.T) *SQLite {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}

func newTestClient(t *testing.T, repo *SQLite, name string) *lesson.Client {
	t.Helper()

	c, err := lesson.NewClient(name, "", "")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if err := repo.CreateClient(context.Background(), c); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	return c
}

func newTestLesson(t *testing.T, repo *SQLite, clientID string, start time.Time, d time.Duration) *lesson.Lesson {
	t.Helper()

	l, err := lesson.New(clientID, "Lesson", start, start.Add(d), 4500)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := repo.CreateLesson(context.Background(), l); err != nil {
		t.Fatalf("CreateLesson failed: %v", err)
	}
	return l
}

func TestCreateAndGetClient(t *testing.T) {
	repo := newTestRepo(t)

	c, err := lesson.NewClient("Marta Ruiz", "marta@example.com", "+34 600 000 000")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	c.Notes = "prefers mornings"

	if err := repo.CreateClient(context.Background(), c); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}

	got, err := repo.GetClient(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("GetClient failed: %v", err)
	}

	if got.Name != c.Name || got.Email != c.Email || got.Phone != c.Phone || got.Notes != c.Notes {
		t.Errorf("round-tripped client = %+v, want %+v", got, c)
	}
	if got.Archived {
		t.Error("new client should not be archived")
	}
}

func TestGetClient_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetClient(context.Background(), "missing")
	if !errors.Is(err, lesson.ErrClientNotFound) {
		t.Errorf("got %v, want ErrClientNotFound", err)
	}
}

func TestListClients_ExcludesArchived(t *testing.T) {
	repo := newTestRepo(t)

	active := newTestClient(t, repo, "Ana")
	archived := newTestClient(t, repo, "Bruno")

	if err := repo.ArchiveClient(context.Background(), archived.ID); err != nil {
		t.Fatalf("ArchiveClient failed: %v", err)
	}

	clients, err := repo.ListClients(context.Background(), false)
	if err != nil {
		t.Fatalf("ListClients failed: %v", err)
	}
	if len(clients) != 1 || clients[0].ID != active.ID {
		t.Errorf("got %d clients, want only the active one", len(clients))
	}

	all, err := repo.ListClients(context.Background(), true)
	if err != nil {
		t.Fatalf("ListClients failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("got %d clients with archived included, want 2", len(all))
	}
}

func TestArchiveClient_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.ArchiveClient(context.Background(), "missing")
	if !errors.Is(err, lesson.ErrClientNotFound) {
		t.Errorf("got %v, want ErrClientNotFound", err)
	}
}

func TestCreateAndGetLesson(t *testing.T) {
	repo := newTestRepo(t)
	c := newTestClient(t, repo, "Ana")

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	l, err := lesson.New(c.ID, "Backhand drills", start, start.Add(time.Hour), 4500)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	l.ColorHint = "#89b4fa"
	l.Notes = "bring the ball machine"

	if err := repo.CreateLesson(context.Background(), l); err != nil {
		t.Fatalf("CreateLesson failed: %v", err)
	}

	got, err := repo.GetLesson(context.Background(), l.ID)
	if err != nil {
		t.Fatalf("GetLesson failed: %v", err)
	}

	if !got.Start.Equal(l.Start) || !got.End.Equal(l.End) {
		t.Errorf("times = %v-%v, want %v-%v", got.Start, got.End, l.Start, l.End)
	}
	if got.Title != l.Title || got.ClientID != c.ID || got.Status != lesson.StatusScheduled {
		t.Errorf("round-tripped lesson = %+v", got)
	}
	if got.ColorHint != l.ColorHint || got.Notes != l.Notes || got.Price != 4500 || got.Paid {
		t.Errorf("round-tripped fields = %+v", got)
	}
}

func TestGetLesson_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetLesson(context.Background(), "missing")
	if !errors.Is(err, lesson.ErrLessonNotFound) {
		t.Errorf("got %v, want ErrLessonNotFound", err)
	}
}

func TestListLessonsBetween(t *testing.T) {
	repo := newTestRepo(t)
	c := newTestClient(t, repo, "Ana")

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	inRange := newTestLesson(t, repo, c.ID, monday.Add(9*time.Hour), time.Hour)
	newTestLesson(t, repo, c.ID, monday.AddDate(0, 0, 10), time.Hour) // outside

	from := monday
	to := monday.AddDate(0, 0, 7)

	lessons, err := repo.ListLessonsBetween(context.Background(), from, to)
	if err != nil {
		t.Fatalf("ListLessonsBetween failed: %v", err)
	}
	if len(lessons) != 1 || lessons[0].ID != inRange.ID {
		t.Fatalf("got %d lessons, want only the in-range one", len(lessons))
	}
}

func TestListLessonsBetween_BoundaryIsHalfOpen(t *testing.T) {
	repo := newTestRepo(t)
	c := newTestClient(t, repo, "Ana")

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	// Ends exactly at the range start: excluded.
	newTestLesson(t, repo, c.ID, from.Add(-time.Hour), time.Hour)
	// Starts exactly at the range end: excluded.
	newTestLesson(t, repo, c.ID, to, time.Hour)
	// Straddles the range start: included.
	straddler := newTestLesson(t, repo, c.ID, from.Add(-30*time.Minute), time.Hour)

	lessons, err := repo.ListLessonsBetween(context.Background(), from, to)
	if err != nil {
		t.Fatalf("ListLessonsBetween failed: %v", err)
	}
	if len(lessons) != 1 || lessons[0].ID != straddler.ID {
		t.Fatalf("got %d lessons, want only the straddler", len(lessons))
	}
}

func TestListLessonsBetween_AlwaysIncludesRecurring(t *testing.T) {
	repo := newTestRepo(t)
	c := newTestClient(t, repo, "Ana")

	// Recurring lesson anchored months before the query range.
	anchor := time.Date(2025, 11, 3, 17, 0, 0, 0, time.UTC)
	l, err := lesson.New(c.ID, "Weekly session", anchor, anchor.Add(time.Hour), 4500)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	l.Recurrence = "FREQ=WEEKLY;BYDAY=MO"
	if err := repo.CreateLesson(context.Background(), l); err != nil {
		t.Fatalf("CreateLesson failed: %v", err)
	}

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	lessons, err := repo.ListLessonsBetween(context.Background(), from, from.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("ListLessonsBetween failed: %v", err)
	}
	if len(lessons) != 1 || lessons[0].ID != l.ID {
		t.Fatalf("got %d lessons, want the recurring anchor", len(lessons))
	}
}

func TestRescheduleLesson(t *testing.T) {
	repo := newTestRepo(t)
	c := newTestClient(t, repo, "Ana")

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	l := newTestLesson(t, repo, c.ID, start, 45*time.Minute)

	newStart := time.Date(2026, 3, 2, 13, 30, 0, 0, time.UTC)
	newEnd := newStart.Add(45 * time.Minute)
	if err := repo.RescheduleLesson(context.Background(), l.ID, newStart, newEnd); err != nil {
		t.Fatalf("RescheduleLesson failed: %v", err)
	}

	got, err := repo.GetLesson(context.Background(), l.ID)
	if err != nil {
		t.Fatalf("GetLesson failed: %v", err)
	}
	if !got.Start.Equal(newStart) || !got.End.Equal(newEnd) {
		t.Errorf("times = %v-%v, want %v-%v", got.Start, got.End, newStart, newEnd)
	}
}

func TestRescheduleLesson_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	now := time.Now()
	err := repo.RescheduleLesson(context.Background(), "missing", now, now.Add(time.Hour))
	if !errors.Is(err, lesson.ErrLessonNotFound) {
		t.Errorf("got %v, want ErrLessonNotFound", err)
	}
}

func TestSetLessonStatus(t *testing.T) {
	repo := newTestRepo(t)
	c := newTestClient(t, repo, "Ana")
	l := newTestLesson(t, repo, c.ID, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), time.Hour)

	if err := repo.SetLessonStatus(context.Background(), l.ID, lesson.StatusNoShow); err != nil {
		t.Fatalf("SetLessonStatus failed: %v", err)
	}

	got, err := repo.GetLesson(context.Background(), l.ID)
	if err != nil {
		t.Fatalf("GetLesson failed: %v", err)
	}
	if got.Status != lesson.StatusNoShow {
		t.Errorf("status = %s, want no_show", got.Status)
	}
}

func TestSetLessonStatus_Invalid(t *testing.T) {
	repo := newTestRepo(t)
	c := newTestClient(t, repo, "Ana")
	l := newTestLesson(t, repo, c.ID, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), time.Hour)

	err := repo.SetLessonStatus(context.Background(), l.ID, lesson.Status("vanished"))
	if !errors.Is(err, lesson.ErrUnknownStatus) {
		t.Errorf("got %v, want ErrUnknownStatus", err)
	}
}

func TestMarkPaid(t *testing.T) {
	repo := newTestRepo(t)
	c := newTestClient(t, repo, "Ana")
	l := newTestLesson(t, repo, c.ID, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), time.Hour)

	if err := repo.MarkPaid(context.Background(), l.ID, true); err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}

	got, err := repo.GetLesson(context.Background(), l.ID)
	if err != nil {
		t.Fatalf("GetLesson failed: %v", err)
	}
	if !got.Paid {
		t.Error("lesson should be paid")
	}
}

func TestDeleteLesson(t *testing.T) {
	repo := newTestRepo(t)
	c := newTestClient(t, repo, "Ana")
	l := newTestLesson(t, repo, c.ID, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), time.Hour)

	if err := repo.DeleteLesson(context.Background(), l.ID); err != nil {
		t.Fatalf("DeleteLesson failed: %v", err)
	}

	_, err := repo.GetLesson(context.Background(), l.ID)
	if !errors.Is(err, lesson.ErrLessonNotFound) {
		t.Errorf("got %v, want ErrLessonNotFound after delete", err)
	}

	if err := repo.DeleteLesson(context.Background(), l.ID); !errors.Is(err, lesson.ErrLessonNotFound) {
		t.Errorf("second delete got %v, want ErrLessonNotFound", err)
	}
}

// setLocal swaps the process local zone for one test so wall-clock
// assertions are deterministic regardless of the host timezone.
func setLocal(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("tzdata not available: %v", err)
	}
	old := time.Local
	time.Local = loc
	t.Cleanup(func() { time.Local = old })
	return loc
}

func TestTimesRoundTripToLocal(t *testing.T) {
	loc := setLocal(t, "Europe/Madrid")
	repo := newTestRepo(t)
	c := newTestClient(t, repo, "Ana")

	// Stored as UTC, but scanned back in local time: a 9 AM booking must
	// still read 9 AM on the wall clock, not the UTC hour.
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, loc)
	l := newTestLesson(t, repo, c.ID, start, time.Hour)

	got, err := repo.GetLesson(context.Background(), l.ID)
	if err != nil {
		t.Fatalf("GetLesson failed: %v", err)
	}
	if !got.Start.Equal(start) {
		t.Errorf("start = %v, want instant %v", got.Start, start)
	}
	if label := got.Start.Format("15:04"); label != "09:00" {
		t.Errorf("rendered label = %q, want %q", label, "09:00")
	}
	if got.Start.Location() != time.Local {
		t.Errorf("scanned location = %v, want local", got.Start.Location())
	}
}
