package lesson

import (
	"context"
	"time"
)

// Repository defines the storage interface for clients and lessons.
type Repository interface {
	// CreateClient adds a new client.
	CreateClient(ctx context.Context, c *Client) error

	// GetClient retrieves a client by ID. Returns ErrClientNotFound if missing.
	GetClient(ctx context.Context, id string) (*Client, error)

	// ListClients returns all clients, optionally including archived ones.
	ListClients(ctx context.Context, includeArchived bool) ([]*Client, error)

	// ArchiveClient marks a client as archived.
	ArchiveClient(ctx context.Context, id string) error

	// CreateLesson adds a new lesson.
	CreateLesson(ctx context.Context, l *Lesson) error

	// GetLesson retrieves a lesson by ID. Returns ErrLessonNotFound if missing.
	GetLesson(ctx context.Context, id string) (*Lesson, error)

	// ListLessonsBetween returns lessons whose [Start, End) intersects
	// [from, to), plus all recurring lessons regardless of their anchor date
	// (the caller expands recurrences into the range).
	ListLessonsBetween(ctx context.Context, from, to time.Time) ([]*Lesson, error)

	// RescheduleLesson updates a lesson's start and end times in place.
	RescheduleLesson(ctx context.Context, id string, newStart, newEnd time.Time) error

	// SetLessonStatus updates a lesson's status.
	SetLessonStatus(ctx context.Context, id string, status Status) error

	// MarkPaid sets the paid flag on a lesson.
	MarkPaid(ctx context.Context, id string, paid bool) error

	// DeleteLesson removes a lesson.
	DeleteLesson(ctx context.Context, id string) error

	// Close releases any resources held by the repository.
	Close() error
}
