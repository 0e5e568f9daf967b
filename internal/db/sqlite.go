// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nvidalperez/cancha/internal/lesson"
)

// Times are stored as RFC3339 in UTC so lexical ordering matches
// chronological ordering and range queries can compare strings.
const timeFormat = time.RFC3339

// SQLite implements lesson.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreateClient adds a new client.
func (s *SQLite) CreateClient(ctx context.Context, c *lesson.Client) error {
	query := `
		INSERT INTO clients (id, name, email, phone, notes, archived, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		c.ID,
		c.Name,
		c.Email,
		c.Phone,
		c.Notes,
		c.Archived,
		c.CreatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("inserting client: %w", err)
	}

	return nil
}

// GetClient retrieves a client by ID.
func (s *SQLite) GetClient(ctx context.Context, id string) (*lesson.Client, error) {
	query := `
		SELECT id, name, email, phone, notes, archived, created_at
		FROM clients
		WHERE id = ?
	`

	c, err := scanClient(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, lesson.ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying client: %w", err)
	}

	return c, nil
}

// ListClients returns all clients ordered by name, optionally including
// archived ones.
func (s *SQLite) ListClients(ctx context.Context, includeArchived bool) ([]*lesson.Client, error) {
	query := `
		SELECT id, name, email, phone, notes, archived, created_at
		FROM clients
		WHERE archived = 0 OR ?
		ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, query, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("querying clients: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var clients []*lesson.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}
		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating clients: %w", err)
	}

	return clients, nil
}

// ArchiveClient marks a client as archived.
func (s *SQLite) ArchiveClient(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE clients SET archived = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("archiving client: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return lesson.ErrClientNotFound
	}

	return nil
}

// CreateLesson adds a new lesson.
func (s *SQLite) CreateLesson(ctx context.Context, l *lesson.Lesson) error {
	query := `
		INSERT INTO lessons (
			id, client_id, title, start_at, end_at, status, color_hint,
			recurrence, price, paid, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		l.ID,
		l.ClientID,
		l.Title,
		l.Start.UTC().Format(timeFormat),
		l.End.UTC().Format(timeFormat),
		l.Status,
		l.ColorHint,
		l.Recurrence,
		l.Price,
		l.Paid,
		l.Notes,
		l.CreatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("inserting lesson: %w", err)
	}

	return nil
}

// GetLesson retrieves a lesson by ID.
func (s *SQLite) GetLesson(ctx context.Context, id string) (*lesson.Lesson, error) {
	query := `
		SELECT id, client_id, title, start_at, end_at, status, color_hint,
		       recurrence, price, paid, notes, created_at
		FROM lessons
		WHERE id = ?
	`

	l, err := scanLesson(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, lesson.ErrLessonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying lesson: %w", err)
	}

	return l, nil
}

// ListLessonsBetween returns lessons whose [start, end) range intersects
// [from, to), ordered by start time. Recurring lessons are always included
// regardless of their anchor date; the caller expands them into the range.
func (s *SQLite) ListLessonsBetween(ctx context.Context, from, to time.Time) ([]*lesson.Lesson, error) {
	query := `
		SELECT id, client_id, title, start_at, end_at, status, color_hint,
		       recurrence, price, paid, notes, created_at
		FROM lessons
		WHERE (start_at < ? AND end_at > ?) OR recurrence != ''
		ORDER BY start_at
	`

	rows, err := s.db.QueryContext(ctx, query,
		to.UTC().Format(timeFormat),
		from.UTC().Format(timeFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("querying lessons: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var lessons []*lesson.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning lesson: %w", err)
		}
		lessons = append(lessons, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lessons: %w", err)
	}

	return lessons, nil
}

// RescheduleLesson updates a lesson's start and end times in place.
func (s *SQLite) RescheduleLesson(ctx context.Context, id string, newStart, newEnd time.Time) error {
	query := `UPDATE lessons SET start_at = ?, end_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		newStart.UTC().Format(timeFormat),
		newEnd.UTC().Format(timeFormat),
		id,
	)
	if err != nil {
		return fmt.Errorf("rescheduling lesson: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return lesson.ErrLessonNotFound
	}

	return nil
}

// SetLessonStatus updates a lesson's status.
func (s *SQLite) SetLessonStatus(ctx context.Context, id string, status lesson.Status) error {
	if !status.Valid() {
		return lesson.ErrUnknownStatus
	}

	result, err := s.db.ExecContext(ctx, `UPDATE lessons SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("setting lesson status: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return lesson.ErrLessonNotFound
	}

	return nil
}

// MarkPaid sets the paid flag on a lesson.
func (s *SQLite) MarkPaid(ctx context.Context, id string, paid bool) error {
	result, err := s.db.ExecContext(ctx, `UPDATE lessons SET paid = ? WHERE id = ?`, paid, id)
	if err != nil {
		return fmt.Errorf("marking lesson paid: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return lesson.ErrLessonNotFound
	}

	return nil
}

// DeleteLesson removes a lesson.
func (s *SQLite) DeleteLesson(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting lesson: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return lesson.ErrLessonNotFound
	}

	return nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanClient(row scanner) (*lesson.Client, error) {
	var (
		c         lesson.Client
		createdAt string
	)

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Notes,
		&c.Archived,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}

	return &c, nil
}

func scanLesson(row scanner) (*lesson.Lesson, error) {
	var (
		l         lesson.Lesson
		startAt   string
		endAt     string
		createdAt string
	)

	err := row.Scan(
		&l.ID,
		&l.ClientID,
		&l.Title,
		&startAt,
		&endAt,
		&l.Status,
		&l.ColorHint,
		&l.Recurrence,
		&l.Price,
		&l.Paid,
		&l.Notes,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if l.Start, err = parseTime(startAt); err != nil {
		return nil, fmt.Errorf("parsing start: %w", err)
	}
	if l.End, err = parseTime(endAt); err != nil {
		return nil, fmt.Errorf("parsing end: %w", err)
	}
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}

	return &l, nil
}

// parseTime parses a stored timestamp, tolerating the space-separated form
// SQLite produces for DATETIME defaults. Results are converted to local
// time so rendered labels and recurrence anchors follow the wall clock.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(timeFormat, s); err == nil {
		return t.Local(), nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.UTC); err == nil {
		return t.Local(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
