package calendar

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"calbot/models"
	"calbot/utils"
)

// GoogleStore is the Google Calendar implementation of Store, authenticated
// with a service-account credentials file.
type GoogleStore struct {
	svc        *gcal.Service
	calendarID string
	timezone   string
}

// NewGoogleStore builds a Store backed by the Google Calendar API.
func NewGoogleStore(ctx context.Context, credentialsFile, calendarID, timezone string) (*GoogleStore, error) {
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gcal.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Calendar service: %w", err)
	}
	return &GoogleStore{svc: svc, calendarID: calendarID, timezone: timezone}, nil
}

// TestConnection fetches the calendar metadata to verify connectivity.
func (s *GoogleStore) TestConnection(ctx context.Context) error {
	cal, err := s.svc.Calendars.Get(s.calendarID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("calendar connection test failed: %w", err)
	}
	utils.GetLogger().Debug("Calendar connection test successful", zap.String("summary", cal.Summary))
	return nil
}

func (s *GoogleStore) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]models.CalendarEvent, error) {
	res, err := s.svc.Events.List(s.calendarID).
		TimeMin(isoInstant(timeMin)).
		TimeMax(isoInstant(timeMax)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	logger := utils.GetLogger()
	events := make([]models.CalendarEvent, 0, len(res.Items))
	for _, item := range res.Items {
		start, err := parseEventTime(item.Start)
		if err != nil {
			logger.Warn("Skipping event with unparseable start", zap.String("event_id", item.Id), zap.Error(err))
			continue
		}
		end, err := parseEventTime(item.End)
		if err != nil {
			logger.Warn("Skipping event with unparseable end", zap.String("event_id", item.Id), zap.Error(err))
			continue
		}
		var attendees []string
		for _, a := range item.Attendees {
			attendees = append(attendees, a.Email)
		}
		events = append(events, models.CalendarEvent{
			ID:          item.Id,
			Summary:     item.Summary,
			Start:       start,
			End:         end,
			Status:      item.Status,
			Description: item.Description,
			Location:    item.Location,
			Attendees:   attendees,
		})
	}
	return events, nil
}

func (s *GoogleStore) CreateEvent(ctx context.Context, title string, start, end time.Time, description string) (*models.CreatedEvent, error) {
	event := &gcal.Event{
		Summary:     title,
		Description: description,
		Start:       &gcal.EventDateTime{DateTime: isoInstant(start), TimeZone: s.timezone},
		End:         &gcal.EventDateTime{DateTime: isoInstant(end), TimeZone: s.timezone},
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 10},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}

	created, err := s.svc.Events.Insert(s.calendarID, event).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	utils.GetLogger().Info("Event created", zap.String("event_id", created.Id))
	return &models.CreatedEvent{ID: created.Id, Status: created.Status, Link: created.HtmlLink}, nil
}

func (s *GoogleStore) DeleteEvent(ctx context.Context, id string) error {
	if err := s.svc.Events.Delete(s.calendarID, id).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	return nil
}

func (s *GoogleStore) UpdateEvent(ctx context.Context, id string, patch models.EventPatch) error {
	event, err := s.svc.Events.Get(s.calendarID, id).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to fetch event %s: %w", id, err)
	}

	if patch.Title != nil {
		event.Summary = *patch.Title
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.Location != nil {
		event.Location = *patch.Location
	}
	if patch.Start != nil {
		event.Start = &gcal.EventDateTime{DateTime: isoInstant(*patch.Start), TimeZone: s.timezone}
	}
	if patch.End != nil {
		event.End = &gcal.EventDateTime{DateTime: isoInstant(*patch.End), TimeZone: s.timezone}
	}

	if _, err := s.svc.Events.Update(s.calendarID, id, event).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to update event %s: %w", id, err)
	}
	return nil
}
