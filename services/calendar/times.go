package calendar

import (
	"fmt"
	"strings"
	"time"

	gcal "google.golang.org/api/calendar/v3"
)

// isoInstant renders an instant for transmission to the calendar API.
// Instants carrying a real offset keep it; anything in UTC (our canonical
// case for times built from normalized date/time fragments) gets an
// explicit Z marker so the API never sees an offset-less timestamp.
func isoInstant(t time.Time) string {
	if t.Location() == time.UTC {
		return t.Format("2006-01-02T15:04:05") + "Z"
	}
	return t.Format(time.RFC3339)
}

// parseEventTime decodes a calendar API event boundary. All-day events carry
// only a date; timed events carry an RFC 3339 datetime.
func parseEventTime(edt *gcal.EventDateTime) (time.Time, error) {
	if edt == nil {
		return time.Time{}, fmt.Errorf("event has no time boundary")
	}
	if edt.DateTime != "" {
		// A bare timestamp without offset is treated as UTC.
		raw := edt.DateTime
		if !strings.ContainsAny(raw[10:], "Z+-") {
			raw += "Z"
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse event datetime %q: %w", edt.DateTime, err)
		}
		return t, nil
	}
	if edt.Date != "" {
		t, err := time.Parse("2006-01-02", edt.Date)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse event date %q: %w", edt.Date, err)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("event has neither date nor datetime")
}
