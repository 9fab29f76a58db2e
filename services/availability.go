// services/availability.go
package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"calbot/config"
	"calbot/models"
	"calbot/services/calendar"
	"calbot/utils"
)

// AvailabilityEngine defines point-in-time availability checks and free-slot
// enumeration under business-hour and buffer constraints.
type AvailabilityEngine interface {
	IsAvailable(ctx context.Context, start, end time.Time) (bool, error)
	FreeSlots(ctx context.Context, date time.Time, duration time.Duration, maxCount int) ([]models.Slot, error)
	NextAvailable(ctx context.Context, from time.Time, duration time.Duration, horizonDays int) (*models.Slot, error)
}

// DefaultAvailabilityEngine is a concrete implementation backed by the
// calendar store.
type DefaultAvailabilityEngine struct {
	Store    calendar.Store
	Business *config.BusinessConfig
}

// IsAvailable reports whether no non-cancelled event overlaps [start, end).
func (e *DefaultAvailabilityEngine) IsAvailable(ctx context.Context, start, end time.Time) (bool, error) {
	events, err := e.Store.ListEvents(ctx, start, end)
	if err != nil {
		return false, fmt.Errorf("failed to query calendar: %w", err)
	}
	for _, ev := range events {
		if ev.Cancelled() {
			continue
		}
		if ev.Start.Before(end) && ev.End.After(start) {
			utils.GetLogger().Debug("Time slot conflict found", zap.String("summary", ev.Summary))
			return false, nil
		}
	}
	return true, nil
}

// FreeSlots enumerates bookable slots for the business window of date. The
// walk is a greedy duration-aligned discretization: the cursor starts at the
// business start, emits fixed-duration slots while they fit before the next
// busy interval (keeping the buffer clear of its start), then jumps past the
// interval plus buffer. The buffer is only enforced adjacent to busy
// intervals, not at the window edges. Non-business days yield no slots.
func (e *DefaultAvailabilityEngine) FreeSlots(ctx context.Context, date time.Time, duration time.Duration, maxCount int) ([]models.Slot, error) {
	biz := e.Business
	if !biz.Days[date.Weekday()] {
		utils.GetLogger().Debug("Not a business day", zap.String("date", date.Format("2006-01-02")))
		return nil, nil
	}

	windowStart := time.Date(date.Year(), date.Month(), date.Day(), biz.StartHour, 0, 0, 0, biz.Location)
	windowEnd := time.Date(date.Year(), date.Month(), date.Day(), biz.EndHour, 0, 0, 0, biz.Location)

	events, err := e.Store.ListEvents(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar: %w", err)
	}
	busy := busyIntervals(events)

	var slots []models.Slot
	cursor := windowStart
	for _, b := range busy {
		for !cursor.Add(duration + biz.Buffer).After(b.Start) {
			slots = append(slots, models.Slot{Start: cursor, End: cursor.Add(duration)})
			cursor = cursor.Add(duration)
		}
		if after := b.End.Add(biz.Buffer); cursor.Before(after) {
			cursor = after
		}
	}
	for !cursor.Add(duration).After(windowEnd) {
		slots = append(slots, models.Slot{Start: cursor, End: cursor.Add(duration)})
		cursor = cursor.Add(duration)
	}

	if maxCount >= 0 && len(slots) > maxCount {
		slots = slots[:maxCount]
	}
	return slots, nil
}

// NextAvailable scans day by day from the date of `from`, up to horizonDays
// days in total, and returns the first free slot found, or nil when the
// horizon is exhausted.
func (e *DefaultAvailabilityEngine) NextAvailable(ctx context.Context, from time.Time, duration time.Duration, horizonDays int) (*models.Slot, error) {
	for i := 0; i < horizonDays; i++ {
		day := from.AddDate(0, 0, i)
		slots, err := e.FreeSlots(ctx, day, duration, 1)
		if err != nil {
			return nil, err
		}
		if len(slots) > 0 {
			return &slots[0], nil
		}
	}
	return nil, nil
}

// busyIntervals filters out cancelled events and returns the remaining
// intervals sorted ascending by start; the store does not guarantee order.
func busyIntervals(events []models.CalendarEvent) []models.BusyInterval {
	var busy []models.BusyInterval
	for _, ev := range events {
		if ev.Cancelled() {
			continue
		}
		busy = append(busy, models.BusyInterval{Start: ev.Start, End: ev.End})
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })
	return busy
}
