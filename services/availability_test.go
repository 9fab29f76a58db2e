package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calbot/config"
	"calbot/models"
)

// stubStore serves canned events. The eventsFor hook lets a test vary the
// result per queried window.
type stubStore struct {
	events    []models.CalendarEvent
	eventsFor func(timeMin time.Time) []models.CalendarEvent
	listErr   error
}

func (s *stubStore) TestConnection(ctx context.Context) error { return nil }

func (s *stubStore) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]models.CalendarEvent, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if s.eventsFor != nil {
		return s.eventsFor(timeMin), nil
	}
	return s.events, nil
}

func (s *stubStore) CreateEvent(ctx context.Context, title string, start, end time.Time, description string) (*models.CreatedEvent, error) {
	return &models.CreatedEvent{ID: "stub"}, nil
}

func (s *stubStore) DeleteEvent(ctx context.Context, id string) error { return nil }

func (s *stubStore) UpdateEvent(ctx context.Context, id string, patch models.EventPatch) error {
	return nil
}

func testBusiness() *config.BusinessConfig {
	return &config.BusinessConfig{
		StartHour: 9,
		EndHour:   17,
		Days: map[time.Weekday]bool{
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
		},
		DefaultDuration:   time.Hour,
		Buffer:            15 * time.Minute,
		MaxSuggestions:    10,
		SearchHorizonDays: 7,
		Location:          time.UTC,
	}
}

// monday is a known business day used as the reference date in these tests.
var monday = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func TestFreeSlotsSkipsBusyIntervalWithBuffer(t *testing.T) {
	store := &stubStore{events: []models.CalendarEvent{
		{ID: "1", Summary: "Standup", Start: at(monday, 10, 0), End: at(monday, 11, 0)},
	}}
	engine := &DefaultAvailabilityEngine{Store: store, Business: testBusiness()}

	slots, err := engine.FreeSlots(context.Background(), monday, time.Hour, 10)
	require.NoError(t, err)

	var starts []time.Time
	for _, s := range slots {
		starts = append(starts, s.Start)
	}
	assert.Equal(t, []time.Time{
		at(monday, 11, 15),
		at(monday, 12, 15),
		at(monday, 13, 15),
		at(monday, 14, 15),
		at(monday, 15, 15),
	}, starts)
	for _, s := range slots {
		assert.Equal(t, time.Hour, s.End.Sub(s.Start))
	}
}

func TestFreeSlotsEmitsBeforeAndAfterBusyInterval(t *testing.T) {
	store := &stubStore{events: []models.CalendarEvent{
		{ID: "1", Summary: "Lunch", Start: at(monday, 12, 0), End: at(monday, 13, 0)},
	}}
	engine := &DefaultAvailabilityEngine{Store: store, Business: testBusiness()}

	slots, err := engine.FreeSlots(context.Background(), monday, time.Hour, -1)
	require.NoError(t, err)

	var starts []time.Time
	for _, s := range slots {
		starts = append(starts, s.Start)
	}
	assert.Equal(t, []time.Time{
		at(monday, 9, 0),
		at(monday, 10, 0),
		at(monday, 13, 15),
		at(monday, 14, 15),
		at(monday, 15, 15),
	}, starts)
}

func TestFreeSlotsEmptyCalendarIsDurationAligned(t *testing.T) {
	engine := &DefaultAvailabilityEngine{Store: &stubStore{}, Business: testBusiness()}

	slots, err := engine.FreeSlots(context.Background(), monday, time.Hour, -1)
	require.NoError(t, err)
	require.Len(t, slots, 8)
	for i, s := range slots {
		assert.Equal(t, at(monday, 9+i, 0), s.Start)
		assert.Equal(t, at(monday, 10+i, 0), s.End)
	}
}

func TestFreeSlotsIgnoresCancelledEvents(t *testing.T) {
	store := &stubStore{events: []models.CalendarEvent{
		{ID: "1", Start: at(monday, 10, 0), End: at(monday, 11, 0), Status: models.EventStatusCancelled},
	}}
	engine := &DefaultAvailabilityEngine{Store: store, Business: testBusiness()}

	slots, err := engine.FreeSlots(context.Background(), monday, time.Hour, -1)
	require.NoError(t, err)
	assert.Len(t, slots, 8)
}

func TestFreeSlotsSortsUnorderedBusyIntervals(t *testing.T) {
	store := &stubStore{events: []models.CalendarEvent{
		{ID: "2", Start: at(monday, 14, 0), End: at(monday, 15, 0)},
		{ID: "1", Start: at(monday, 9, 0), End: at(monday, 10, 0)},
	}}
	engine := &DefaultAvailabilityEngine{Store: store, Business: testBusiness()}

	slots, err := engine.FreeSlots(context.Background(), monday, time.Hour, -1)
	require.NoError(t, err)

	var starts []time.Time
	for _, s := range slots {
		starts = append(starts, s.Start)
	}
	assert.Equal(t, []time.Time{
		at(monday, 10, 15),
		at(monday, 11, 15),
		at(monday, 12, 15),
		at(monday, 15, 15),
	}, starts)
}

func TestFreeSlotsTruncatesToMaxCount(t *testing.T) {
	engine := &DefaultAvailabilityEngine{Store: &stubStore{}, Business: testBusiness()}

	slots, err := engine.FreeSlots(context.Background(), monday, time.Hour, 3)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, at(monday, 9, 0), slots[0].Start)
}

func TestFreeSlotsNonBusinessDay(t *testing.T) {
	saturday := monday.AddDate(0, 0, 5)
	engine := &DefaultAvailabilityEngine{Store: &stubStore{}, Business: testBusiness()}

	slots, err := engine.FreeSlots(context.Background(), saturday, time.Hour, -1)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestFreeSlotsStoreError(t *testing.T) {
	engine := &DefaultAvailabilityEngine{
		Store:    &stubStore{listErr: errors.New("api unreachable")},
		Business: testBusiness(),
	}

	_, err := engine.FreeSlots(context.Background(), monday, time.Hour, -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query calendar")
}

func TestIsAvailable(t *testing.T) {
	busy := models.CalendarEvent{ID: "1", Start: at(monday, 10, 0), End: at(monday, 11, 0)}

	tests := []struct {
		name       string
		events     []models.CalendarEvent
		start, end time.Time
		want       bool
	}{
		{"no events", nil, at(monday, 10, 0), at(monday, 11, 0), true},
		{"overlap", []models.CalendarEvent{busy}, at(monday, 10, 30), at(monday, 11, 30), false},
		{"contained", []models.CalendarEvent{busy}, at(monday, 10, 15), at(monday, 10, 45), false},
		{"adjacent after", []models.CalendarEvent{busy}, at(monday, 11, 0), at(monday, 12, 0), true},
		{"adjacent before", []models.CalendarEvent{busy}, at(monday, 9, 0), at(monday, 10, 0), true},
		{"cancelled overlap", []models.CalendarEvent{{
			ID: "1", Start: at(monday, 10, 0), End: at(monday, 11, 0), Status: models.EventStatusCancelled,
		}}, at(monday, 10, 0), at(monday, 11, 0), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			engine := &DefaultAvailabilityEngine{Store: &stubStore{events: tc.events}, Business: testBusiness()}
			got, err := engine.IsAvailable(context.Background(), tc.start, tc.end)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNextAvailableSkipsFullDays(t *testing.T) {
	tuesday := monday.AddDate(0, 0, 1)
	store := &stubStore{eventsFor: func(timeMin time.Time) []models.CalendarEvent {
		if timeMin.Day() == monday.Day() {
			return []models.CalendarEvent{{ID: "1", Start: at(monday, 9, 0), End: at(monday, 17, 0)}}
		}
		return nil
	}}
	engine := &DefaultAvailabilityEngine{Store: store, Business: testBusiness()}

	slot, err := engine.NextAvailable(context.Background(), monday, time.Hour, 7)
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, at(tuesday, 9, 0), slot.Start)
}

func TestNextAvailableSkipsWeekend(t *testing.T) {
	saturday := monday.AddDate(0, 0, 5)
	nextMonday := monday.AddDate(0, 0, 7)
	engine := &DefaultAvailabilityEngine{Store: &stubStore{}, Business: testBusiness()}

	slot, err := engine.NextAvailable(context.Background(), saturday, time.Hour, 7)
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, at(nextMonday, 9, 0), slot.Start)
}

func TestNextAvailableHorizonExhausted(t *testing.T) {
	store := &stubStore{eventsFor: func(timeMin time.Time) []models.CalendarEvent {
		return []models.CalendarEvent{{
			ID:    "all-day",
			Start: at(timeMin, 9, 0),
			End:   at(timeMin, 17, 0),
		}}
	}}
	engine := &DefaultAvailabilityEngine{Store: store, Business: testBusiness()}

	slot, err := engine.NextAvailable(context.Background(), monday, time.Hour, 3)
	require.NoError(t, err)
	assert.Nil(t, slot)
}
