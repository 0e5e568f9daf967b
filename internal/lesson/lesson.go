// Package lesson defines the core domain types for cancha.
package lesson

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Validation errors.
var (
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrEmptyClientName = errors.New("client name cannot be empty")
	ErrEndBeforeStart  = errors.New("end time must be after start time")
	ErrUnknownStatus   = errors.New("unknown lesson status")
	ErrNegativePrice   = errors.New("price cannot be negative")
)

// Domain errors.
var (
	ErrLessonNotFound = errors.New("lesson not found")
	ErrClientNotFound = errors.New("client not found")
)

// Status represents the state of a lesson.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// ParseStatus converts a string to a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return Status(s), nil
	default:
		return "", ErrUnknownStatus
	}
}

// Valid returns true if the status is a known value.
func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Lesson represents a scheduled coaching session.
type Lesson struct {
	ID         string
	ClientID   string
	Title      string
	Start      time.Time
	End        time.Time
	Status     Status
	ColorHint  string // optional hex color, empty means status default
	Recurrence string // optional RRULE, empty means one-off
	Price      int64  // cents
	Paid       bool
	Notes      string
	CreatedAt  time.Time

	// IsOccurrence marks an expanded instance of a recurring lesson.
	// Occurrences are display copies and are never persisted directly.
	IsOccurrence bool
}

// New creates a new Lesson with validation.
func New(clientID, title string, start, end time.Time, price int64) (*Lesson, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if !end.After(start) {
		return nil, ErrEndBeforeStart
	}
	if price < 0 {
		return nil, ErrNegativePrice
	}

	return &Lesson{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		Title:     title,
		Start:     start,
		End:       end,
		Status:    StatusScheduled,
		Price:     price,
		CreatedAt: time.Now(),
	}, nil
}

// Duration returns the lesson duration.
func (l *Lesson) Duration() time.Duration {
	return l.End.Sub(l.Start)
}

// IsRecurring returns true if the lesson has a recurrence rule, or is an
// expanded occurrence of one.
func (l *Lesson) IsRecurring() bool {
	return l.Recurrence != "" || l.IsOccurrence
}

// IsScheduled returns true if the lesson has scheduled status.
func (l *Lesson) IsScheduled() bool {
	return l.Status == StatusScheduled
}

// IsCancelled returns true if the lesson has cancelled status.
func (l *Lesson) IsCancelled() bool {
	return l.Status == StatusCancelled
}

// Overlaps returns true if this lesson's time range overlaps another's.
// Ranges are half-open [Start, End).
func (l *Lesson) Overlaps(other *Lesson) bool {
	if other == nil {
		return false
	}
	return l.Start.Before(other.End) && other.Start.Before(l.End)
}

// Client represents a coaching client.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Notes     string
	Archived  bool
	CreatedAt time.Time
}

// NewClient creates a new Client with validation.
func NewClient(name, email, phone string) (*Client, error) {
	if name == "" {
		return nil, ErrEmptyClientName
	}
	return &Client{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: time.Now(),
	}, nil
}
