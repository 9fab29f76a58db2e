package models

import "time"

// EventStatusCancelled is the calendar store status excluded from all
// busy-interval computations.
const EventStatusCancelled = "cancelled"

// CalendarEvent is one event as reported by the calendar store.
type CalendarEvent struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Attendees   []string  `json:"attendees,omitempty"`
}

// Cancelled reports whether the event should be ignored for scheduling.
func (e CalendarEvent) Cancelled() bool {
	return e.Status == EventStatusCancelled
}

// CreatedEvent is the calendar store's confirmation of a successful create.
type CreatedEvent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Link   string `json:"link,omitempty"`
}

// EventPatch carries the optional fields of an event update. Nil fields are
// left unchanged.
type EventPatch struct {
	Title       *string
	Description *string
	Location    *string
	Start       *time.Time
	End         *time.Time
}

// BusyInterval is a half-open [Start, End) range already occupied by a
// non-cancelled event.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether the interval intersects the half-open range
// [start, end).
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && b.End.After(start)
}

// Slot is a proposed bookable [Start, End) interval of exactly the
// requested duration. Slots are never merged.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
