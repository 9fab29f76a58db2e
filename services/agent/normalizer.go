package agent

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	naturaldate "github.com/tj/go-naturaldate"
)

// Sentinel errors for fragments that cannot be normalized. They are converted
// to user-facing clarification text at the dispatcher boundary and never
// cross into the orchestrator as raw values.
var (
	ErrUnparseableDate = errors.New("unparseable date")
	ErrUnparseableTime = errors.New("unparseable time")
)

// CanonicalDateTime is a fully resolved calendar date plus time-of-day; no
// ambiguity is left for downstream code.
type CanonicalDateTime struct {
	Date   time.Time // midnight in the configured location
	Hour   int
	Minute int
}

// Time combines the date and time-of-day into one instant.
func (c CanonicalDateTime) Time() time.Time {
	return time.Date(c.Date.Year(), c.Date.Month(), c.Date.Day(), c.Hour, c.Minute, 0, 0, c.Date.Location())
}

// Normalizer turns heterogeneous date and time fragments into canonical
// values. Now is injectable so relative keywords resolve deterministically
// in tests.
type Normalizer struct {
	Now      func() time.Time
	Location *time.Location
}

func NewNormalizer(loc *time.Location) *Normalizer {
	return &Normalizer{Now: time.Now, Location: loc}
}

// absoluteDateFormats are attempted in order; the ordering is a deliberate
// tie-break for ambiguous strings like "01/02/2024" (month-first wins).
var absoluteDateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"01-02-2006",
	"02/01/2006",
	"02-01-2006",
}

// NormalizeDate resolves a date fragment to midnight of the target day.
// Relative keywords resolve against Now at call time; absolute formats are
// tried in order; a permissive natural-language parse is the last resort.
func (n *Normalizer) NormalizeDate(fragment string) (time.Time, error) {
	s := strings.ToLower(strings.TrimSpace(fragment))
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty fragment", ErrUnparseableDate)
	}

	now := n.Now().In(n.Location)
	today := midnight(now)
	switch s {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	for _, layout := range absoluteDateFormats {
		if t, err := time.ParseInLocation(layout, s, n.Location); err == nil {
			return t, nil
		}
	}

	// naturaldate returns the reference instant when the input contains no
	// date expression at all; treat that as a failed parse.
	if t, err := naturaldate.Parse(s, now, naturaldate.WithDirection(naturaldate.Future)); err == nil && !t.Equal(now) {
		return midnight(t.In(n.Location)), nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, fragment)
}

// NormalizeTime resolves a time fragment to a 24-hour clock reading.
// Meridiem forms convert with the noon/midnight rules (12 PM -> 12:00,
// 12 AM -> 00:00); out-of-range values are rejected, not clamped.
func (n *Normalizer) NormalizeTime(fragment string) (hour, minute int, err error) {
	s := strings.ToLower(strings.TrimSpace(fragment))
	if s == "" {
		return 0, 0, fmt.Errorf("%w: empty fragment", ErrUnparseableTime)
	}

	if strings.Contains(s, "am") || strings.Contains(s, "pm") {
		isPM := strings.Contains(s, "pm")
		s = strings.TrimSpace(strings.NewReplacer("am", "", "pm", "").Replace(s))
		hour, minute, err = splitClock(s)
		if err != nil {
			return 0, 0, err
		}
		if hour < 1 || hour > 12 || minute < 0 || minute > 59 {
			return 0, 0, fmt.Errorf("%w: %q out of range", ErrUnparseableTime, fragment)
		}
		if isPM && hour != 12 {
			hour += 12
		} else if !isPM && hour == 12 {
			hour = 0
		}
		return hour, minute, nil
	}

	if strings.Contains(s, ":") {
		hour, minute, err = splitClock(s)
		if err != nil {
			return 0, 0, err
		}
		if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
			return 0, 0, fmt.Errorf("%w: %q out of range", ErrUnparseableTime, fragment)
		}
		return hour, minute, nil
	}

	// Bare integer: an hour with zero minutes.
	hour, convErr := strconv.Atoi(s)
	if convErr != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnparseableTime, fragment)
	}
	if hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q out of range", ErrUnparseableTime, fragment)
	}
	return hour, 0, nil
}

// Normalize composes date and time normalization. Both fragments are
// required; either failure rejects the pair.
func (n *Normalizer) Normalize(dateFragment, timeFragment string) (CanonicalDateTime, error) {
	date, err := n.NormalizeDate(dateFragment)
	if err != nil {
		return CanonicalDateTime{}, err
	}
	hour, minute, err := n.NormalizeTime(timeFragment)
	if err != nil {
		return CanonicalDateTime{}, err
	}
	return CanonicalDateTime{Date: date, Hour: hour, Minute: minute}, nil
}

func splitClock(s string) (int, int, error) {
	if s == "" {
		return 0, 0, fmt.Errorf("%w: empty clock reading", ErrUnparseableTime)
	}
	hourPart, minutePart, hasMinutes := strings.Cut(s, ":")
	hour, err := strconv.Atoi(strings.TrimSpace(hourPart))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnparseableTime, s)
	}
	if !hasMinutes {
		return hour, 0, nil
	}
	minute, err := strconv.Atoi(strings.TrimSpace(minutePart))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnparseableTime, s)
	}
	return hour, minute, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
