package calendar

import (
	"context"
	"time"

	"calbot/models"
)

// Store is the calendar collaborator. It owns appointment identity and
// persistence; the scheduling core only queries and writes through it.
type Store interface {
	// TestConnection verifies the backing calendar is reachable.
	TestConnection(ctx context.Context) error

	// ListEvents returns the events intersecting [timeMin, timeMax).
	// Ordering is not guaranteed; cancelled events may be included and
	// must be filtered by the caller.
	ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]models.CalendarEvent, error)

	// CreateEvent inserts an event and returns the store's confirmation.
	CreateEvent(ctx context.Context, title string, start, end time.Time, description string) (*models.CreatedEvent, error)

	// DeleteEvent removes an event by ID.
	DeleteEvent(ctx context.Context, id string) error

	// UpdateEvent applies the non-nil fields of patch to an event.
	UpdateEvent(ctx context.Context, id string, patch models.EventPatch) error
}
