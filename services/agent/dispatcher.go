package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"calbot/config"
	"calbot/models"
	"calbot/services"
	"calbot/services/calendar"
)

const longDateTime = "January 2, 2006 at 3:04 PM"
const longDate = "January 2, 2006"

// Dispatcher maps a classified intent plus entity bag to one calendar
// operation. Required fields are validated before any collaborator call;
// recoverable failures are converted to user-facing outcome text here, so
// only unexpected collaborator errors propagate to the orchestrator.
type Dispatcher struct {
	Availability services.AvailabilityEngine
	Store        calendar.Store
	Business     *config.BusinessConfig
	Normalizer   *Normalizer
	Logger       *zap.Logger
}

// Dispatch executes the calendar operation for the intent and returns the
// tool outcome text.
func (d *Dispatcher) Dispatch(ctx context.Context, intent models.Intent, bag models.EntityBag) (string, error) {
	switch intent {
	case models.IntentBookAppointment:
		return d.handleBooking(ctx, bag)
	case models.IntentCheckAvailability:
		return d.handleAvailabilityCheck(ctx, bag)
	case models.IntentSuggestTimes:
		return d.handleSuggestions(ctx, bag)
	case models.IntentListAppointments:
		return d.handleList(ctx, bag)
	case models.IntentCancelAppointment:
		return "Appointment cancellation is not yet implemented. Please specify which appointment you'd like to cancel.", nil
	case models.IntentModifyAppointment:
		return "Appointment modification is not yet implemented. Please specify which appointment you'd like to modify.", nil
	default:
		return "I can help you book appointments, check availability, suggest times, or manage your calendar. What would you like to do?", nil
	}
}

func (d *Dispatcher) handleBooking(ctx context.Context, bag models.EntityBag) (string, error) {
	dateFragment, haveDate := bag.DateValue()
	timeFragment, haveTime := bag.TimeValue()
	if !haveDate || !haveTime {
		return "I need both a date and time to book an appointment. Please provide both.", nil
	}

	cdt, err := d.Normalizer.Normalize(dateFragment, timeFragment)
	if err != nil {
		d.Logger.Debug("Booking datetime rejected", zap.String("date", dateFragment), zap.String("time", timeFragment), zap.Error(err))
		return "I couldn't understand the date and time. Please provide them in a clear format like 'tomorrow at 2 PM' or 'October 27th at 2:00 PM'.", nil
	}

	title := bag.TitleOr(DefaultTitle)
	duration := time.Duration(bag.DurationMinutesOr(int(d.Business.DefaultDuration/time.Minute))) * time.Minute
	start := cdt.Time()
	end := start.Add(duration)

	available, err := d.Availability.IsAvailable(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("availability check: %w", err)
	}
	if !available {
		return fmt.Sprintf("❌ Sorry, the time slot on %s is not available. Please choose a different time.", start.Format(longDateTime)), nil
	}

	// The availability check and the create are not atomic: a concurrent
	// request for the same slot can pass the check too. The calendar store
	// is the only place a conditional create could close that window.
	description := ""
	if bag.Description != nil {
		description = bag.Description.Value
	}
	created, err := d.Store.CreateEvent(ctx, title, start, end, description)
	if err != nil {
		d.Logger.Error("Calendar event creation failed", zap.Error(err))
		return "❌ I couldn't book the appointment. Please try again later.", nil
	}

	outcome := fmt.Sprintf("✅ Appointment '%s' successfully booked for %s (%d minutes)!",
		title, start.Format(longDateTime), int(duration/time.Minute))
	if created.Status != "" {
		outcome += " Status: " + created.Status
	}
	if created.Link != "" {
		outcome += " Link: " + created.Link
	}
	return outcome, nil
}

func (d *Dispatcher) handleAvailabilityCheck(ctx context.Context, bag models.EntityBag) (string, error) {
	dateFragment, haveDate := bag.DateValue()
	timeFragment, haveTime := bag.TimeValue()
	if !haveDate || !haveTime {
		return "Please provide both a date and time to check availability.", nil
	}

	cdt, err := d.Normalizer.Normalize(dateFragment, timeFragment)
	if err != nil {
		return "I couldn't understand the date and time format.", nil
	}

	start := cdt.Time()
	end := start.Add(time.Duration(bag.DurationMinutesOr(int(d.Business.DefaultDuration/time.Minute))) * time.Minute)
	available, err := d.Availability.IsAvailable(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("availability check: %w", err)
	}
	if available {
		return fmt.Sprintf("✅ The time slot on %s is available!", start.Format(longDateTime)), nil
	}
	return fmt.Sprintf("❌ The time slot on %s is not available. Please choose a different time.", start.Format(longDateTime)), nil
}

func (d *Dispatcher) handleSuggestions(ctx context.Context, bag models.EntityBag) (string, error) {
	dateFragment, haveDate := bag.DateValue()
	if !haveDate {
		return "Please provide a date to suggest available times.", nil
	}

	date, err := d.Normalizer.NormalizeDate(dateFragment)
	if err != nil {
		return "I couldn't understand the date format.", nil
	}

	slots, err := d.Availability.FreeSlots(ctx, date, d.Business.DefaultDuration, d.Business.MaxSuggestions)
	if err != nil {
		return "", fmt.Errorf("free slots: %w", err)
	}
	if len(slots) == 0 {
		return fmt.Sprintf("❌ No available time slots found for %s. Please try a different date.", date.Format(longDate)), nil
	}

	var lines []string
	for _, slot := range slots {
		lines = append(lines, "• "+slot.Start.Format("3:04 PM"))
	}
	return fmt.Sprintf("📅 Available time slots for %s:\n\n%s", date.Format(longDate), strings.Join(lines, "\n")), nil
}

func (d *Dispatcher) handleList(ctx context.Context, bag models.EntityBag) (string, error) {
	var (
		from, to time.Time
		label    string
	)
	if dateFragment, ok := bag.DateValue(); ok {
		date, err := d.Normalizer.NormalizeDate(dateFragment)
		if err != nil {
			return "I couldn't understand the date format.", nil
		}
		from = date
		to = date.AddDate(0, 0, 1)
		label = date.Format(longDate)
	} else {
		from = d.Normalizer.Now().In(d.Business.Location)
		to = from.AddDate(0, 0, d.Business.SearchHorizonDays)
		label = "upcoming"
	}

	events, err := d.Store.ListEvents(ctx, from, to)
	if err != nil {
		return "", fmt.Errorf("list events: %w", err)
	}

	var lines []string
	for _, ev := range events {
		if ev.Cancelled() {
			continue
		}
		title := ev.Summary
		if title == "" {
			title = "Untitled"
		}
		lines = append(lines, fmt.Sprintf("• %s - %s", ev.Start.Format(longDateTime), title))
	}
	if len(lines) == 0 {
		return fmt.Sprintf("📅 No appointments found for %s.", label), nil
	}
	return fmt.Sprintf("📅 Appointments for %s:\n\n%s", label, strings.Join(lines, "\n")), nil
}
