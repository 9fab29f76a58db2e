package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"calbot/config"
	"calbot/models"
)

// fakeEngine is a canned AvailabilityEngine that records the queried window.
type fakeEngine struct {
	available bool
	slots     []models.Slot
	err       error

	checkedStart time.Time
	checkedEnd   time.Time
}

func (f *fakeEngine) IsAvailable(ctx context.Context, start, end time.Time) (bool, error) {
	f.checkedStart, f.checkedEnd = start, end
	return f.available, f.err
}

func (f *fakeEngine) FreeSlots(ctx context.Context, date time.Time, duration time.Duration, maxCount int) ([]models.Slot, error) {
	return f.slots, f.err
}

func (f *fakeEngine) NextAvailable(ctx context.Context, from time.Time, duration time.Duration, horizonDays int) (*models.Slot, error) {
	if len(f.slots) == 0 {
		return nil, f.err
	}
	return &f.slots[0], f.err
}

// fakeCalStore records the created event and serves canned listings.
type fakeCalStore struct {
	events    []models.CalendarEvent
	created   *models.CreatedEvent
	createErr error
	listErr   error

	createdTitle       string
	createdStart       time.Time
	createdEnd         time.Time
	createdDescription string
}

func (f *fakeCalStore) TestConnection(ctx context.Context) error { return nil }

func (f *fakeCalStore) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]models.CalendarEvent, error) {
	return f.events, f.listErr
}

func (f *fakeCalStore) CreateEvent(ctx context.Context, title string, start, end time.Time, description string) (*models.CreatedEvent, error) {
	f.createdTitle, f.createdStart, f.createdEnd, f.createdDescription = title, start, end, description
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.created != nil {
		return f.created, nil
	}
	return &models.CreatedEvent{ID: "evt-1", Status: "confirmed"}, nil
}

func (f *fakeCalStore) DeleteEvent(ctx context.Context, id string) error { return nil }

func (f *fakeCalStore) UpdateEvent(ctx context.Context, id string, patch models.EventPatch) error {
	return nil
}

func field(value string) *models.EntityField {
	return &models.EntityField{Value: value, Provenance: models.ProvenanceStructured}
}

func newTestDispatcher(engine *fakeEngine, store *fakeCalStore) *Dispatcher {
	return &Dispatcher{
		Availability: engine,
		Store:        store,
		Business: &config.BusinessConfig{
			StartHour: 9,
			EndHour:   17,
			Days: map[time.Weekday]bool{
				time.Monday: true, time.Tuesday: true, time.Wednesday: true,
				time.Thursday: true, time.Friday: true,
			},
			DefaultDuration:   time.Hour,
			Buffer:            15 * time.Minute,
			MaxSuggestions:    10,
			SearchHorizonDays: 7,
			Location:          time.UTC,
		},
		Normalizer: testNormalizer(),
		Logger:     zap.NewNop(),
	}
}

func TestDispatchBookingSuccess(t *testing.T) {
	engine := &fakeEngine{available: true}
	store := &fakeCalStore{created: &models.CreatedEvent{ID: "evt-1", Status: "confirmed", Link: "https://cal/evt-1"}}
	d := newTestDispatcher(engine, store)

	bag := models.EntityBag{
		Title: field("Team Sync"),
		Date:  field("tomorrow"),
		Time:  field("2 PM"),
	}
	outcome, err := d.Dispatch(context.Background(), models.IntentBookAppointment, bag)
	require.NoError(t, err)

	// fixedNow is Saturday Oct 26 2024; tomorrow at 2 PM is Sunday 14:00.
	wantStart := time.Date(2024, time.October, 27, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, wantStart, store.createdStart)
	assert.Equal(t, wantStart.Add(time.Hour), store.createdEnd)
	assert.Equal(t, "Team Sync", store.createdTitle)
	assert.Equal(t, wantStart, engine.checkedStart)

	assert.Contains(t, outcome, "✅ Appointment 'Team Sync' successfully booked for October 27, 2024 at 2:00 PM (60 minutes)!")
	assert.Contains(t, outcome, "Status: confirmed")
	assert.Contains(t, outcome, "Link: https://cal/evt-1")
}

func TestDispatchBookingExplicitDuration(t *testing.T) {
	engine := &fakeEngine{available: true}
	store := &fakeCalStore{}
	d := newTestDispatcher(engine, store)

	bag := models.EntityBag{
		Date:     field("2024-12-25"),
		Time:     field("10:00"),
		Duration: &models.DurationField{Minutes: 90, Provenance: models.ProvenanceStructured},
	}
	outcome, err := d.Dispatch(context.Background(), models.IntentBookAppointment, bag)
	require.NoError(t, err)

	assert.Equal(t, 90*time.Minute, store.createdEnd.Sub(store.createdStart))
	assert.Equal(t, "Appointment", store.createdTitle)
	assert.Contains(t, outcome, "(90 minutes)")
}

func TestDispatchBookingMissingFields(t *testing.T) {
	d := newTestDispatcher(&fakeEngine{available: true}, &fakeCalStore{})

	tests := []struct {
		name string
		bag  models.EntityBag
	}{
		{"no date", models.EntityBag{Time: field("2 PM")}},
		{"no time", models.EntityBag{Date: field("tomorrow")}},
		{"neither", models.EntityBag{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			outcome, err := d.Dispatch(context.Background(), models.IntentBookAppointment, tc.bag)
			require.NoError(t, err)
			assert.Equal(t, "I need both a date and time to book an appointment. Please provide both.", outcome)
		})
	}
}

func TestDispatchBookingUnparseableDateTime(t *testing.T) {
	d := newTestDispatcher(&fakeEngine{available: true}, &fakeCalStore{})

	bag := models.EntityBag{Date: field("whenever"), Time: field("2 PM")}
	outcome, err := d.Dispatch(context.Background(), models.IntentBookAppointment, bag)
	require.NoError(t, err)
	assert.Contains(t, outcome, "I couldn't understand the date and time")
}

func TestDispatchBookingSlotTaken(t *testing.T) {
	store := &fakeCalStore{}
	d := newTestDispatcher(&fakeEngine{available: false}, store)

	bag := models.EntityBag{Date: field("tomorrow"), Time: field("2 PM")}
	outcome, err := d.Dispatch(context.Background(), models.IntentBookAppointment, bag)
	require.NoError(t, err)
	assert.Contains(t, outcome, "❌ Sorry, the time slot on October 27, 2024 at 2:00 PM is not available.")
	assert.True(t, store.createdStart.IsZero(), "no create attempt for an occupied slot")
}

func TestDispatchBookingCreateFails(t *testing.T) {
	store := &fakeCalStore{createErr: errors.New("quota exceeded")}
	d := newTestDispatcher(&fakeEngine{available: true}, store)

	bag := models.EntityBag{Date: field("tomorrow"), Time: field("2 PM")}
	outcome, err := d.Dispatch(context.Background(), models.IntentBookAppointment, bag)
	require.NoError(t, err)
	assert.Equal(t, "❌ I couldn't book the appointment. Please try again later.", outcome)
}

func TestDispatchBookingAvailabilityError(t *testing.T) {
	d := newTestDispatcher(&fakeEngine{err: errors.New("api unreachable")}, &fakeCalStore{})

	bag := models.EntityBag{Date: field("tomorrow"), Time: field("2 PM")}
	_, err := d.Dispatch(context.Background(), models.IntentBookAppointment, bag)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "availability check")
}

func TestDispatchAvailabilityCheck(t *testing.T) {
	engine := &fakeEngine{available: true}
	d := newTestDispatcher(engine, &fakeCalStore{})

	bag := models.EntityBag{Date: field("2024-12-25"), Time: field("10:00")}
	outcome, err := d.Dispatch(context.Background(), models.IntentCheckAvailability, bag)
	require.NoError(t, err)
	assert.Equal(t, "✅ The time slot on December 25, 2024 at 10:00 AM is available!", outcome)

	engine.available = false
	outcome, err = d.Dispatch(context.Background(), models.IntentCheckAvailability, bag)
	require.NoError(t, err)
	assert.Contains(t, outcome, "❌ The time slot on December 25, 2024 at 10:00 AM is not available.")
}

func TestDispatchAvailabilityCheckMissingFields(t *testing.T) {
	d := newTestDispatcher(&fakeEngine{}, &fakeCalStore{})

	outcome, err := d.Dispatch(context.Background(), models.IntentCheckAvailability, models.EntityBag{Date: field("tomorrow")})
	require.NoError(t, err)
	assert.Equal(t, "Please provide both a date and time to check availability.", outcome)
}

func TestDispatchSuggestions(t *testing.T) {
	slotAt := func(hour, minute int) models.Slot {
		start := time.Date(2024, time.December, 25, hour, minute, 0, 0, time.UTC)
		return models.Slot{Start: start, End: start.Add(time.Hour)}
	}
	engine := &fakeEngine{slots: []models.Slot{slotAt(9, 0), slotAt(11, 15)}}
	d := newTestDispatcher(engine, &fakeCalStore{})

	outcome, err := d.Dispatch(context.Background(), models.IntentSuggestTimes, models.EntityBag{Date: field("2024-12-25")})
	require.NoError(t, err)
	assert.Equal(t, "📅 Available time slots for December 25, 2024:\n\n• 9:00 AM\n• 11:15 AM", outcome)
}

func TestDispatchSuggestionsNoSlots(t *testing.T) {
	d := newTestDispatcher(&fakeEngine{}, &fakeCalStore{})

	outcome, err := d.Dispatch(context.Background(), models.IntentSuggestTimes, models.EntityBag{Date: field("2024-12-25")})
	require.NoError(t, err)
	assert.Equal(t, "❌ No available time slots found for December 25, 2024. Please try a different date.", outcome)
}

func TestDispatchSuggestionsMissingDate(t *testing.T) {
	d := newTestDispatcher(&fakeEngine{}, &fakeCalStore{})

	outcome, err := d.Dispatch(context.Background(), models.IntentSuggestTimes, models.EntityBag{})
	require.NoError(t, err)
	assert.Equal(t, "Please provide a date to suggest available times.", outcome)
}

func TestDispatchList(t *testing.T) {
	store := &fakeCalStore{events: []models.CalendarEvent{
		{
			ID: "1", Summary: "Standup",
			Start: time.Date(2024, time.December, 25, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2024, time.December, 25, 9, 30, 0, 0, time.UTC),
		},
		{
			ID:    "2",
			Start: time.Date(2024, time.December, 25, 11, 0, 0, 0, time.UTC),
			End:   time.Date(2024, time.December, 25, 12, 0, 0, 0, time.UTC),
		},
		{
			ID: "3", Summary: "Ghost", Status: models.EventStatusCancelled,
			Start: time.Date(2024, time.December, 25, 13, 0, 0, 0, time.UTC),
			End:   time.Date(2024, time.December, 25, 14, 0, 0, 0, time.UTC),
		},
	}}
	d := newTestDispatcher(&fakeEngine{}, store)

	outcome, err := d.Dispatch(context.Background(), models.IntentListAppointments, models.EntityBag{Date: field("2024-12-25")})
	require.NoError(t, err)
	assert.Equal(t, "📅 Appointments for December 25, 2024:\n\n"+
		"• December 25, 2024 at 9:00 AM - Standup\n"+
		"• December 25, 2024 at 11:00 AM - Untitled", outcome)
}

func TestDispatchListEmptyUpcoming(t *testing.T) {
	d := newTestDispatcher(&fakeEngine{}, &fakeCalStore{})

	outcome, err := d.Dispatch(context.Background(), models.IntentListAppointments, models.EntityBag{})
	require.NoError(t, err)
	assert.Equal(t, "📅 No appointments found for upcoming.", outcome)
}

func TestDispatchStubbedAndGeneralIntents(t *testing.T) {
	d := newTestDispatcher(&fakeEngine{}, &fakeCalStore{})

	outcome, err := d.Dispatch(context.Background(), models.IntentCancelAppointment, models.EntityBag{})
	require.NoError(t, err)
	assert.Contains(t, outcome, "cancellation is not yet implemented")

	outcome, err = d.Dispatch(context.Background(), models.IntentModifyAppointment, models.EntityBag{})
	require.NoError(t, err)
	assert.Contains(t, outcome, "modification is not yet implemented")

	outcome, err = d.Dispatch(context.Background(), models.IntentGeneralQuery, models.EntityBag{})
	require.NoError(t, err)
	assert.Contains(t, outcome, "I can help you book appointments")
}
