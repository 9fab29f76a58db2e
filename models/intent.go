package models

import "strings"

// Intent is the closed-set classification of what the user wants to do.
type Intent string

const (
	IntentBookAppointment   Intent = "book_appointment"
	IntentCheckAvailability Intent = "check_availability"
	IntentSuggestTimes      Intent = "suggest_times"
	IntentCancelAppointment Intent = "cancel_appointment"
	IntentModifyAppointment Intent = "modify_appointment"
	IntentListAppointments  Intent = "list_appointments"
	IntentGeneralQuery      Intent = "general_query"
)

var knownIntents = map[Intent]bool{
	IntentBookAppointment:   true,
	IntentCheckAvailability: true,
	IntentSuggestTimes:      true,
	IntentCancelAppointment: true,
	IntentModifyAppointment: true,
	IntentListAppointments:  true,
	IntentGeneralQuery:      true,
}

// ParseIntent normalizes raw classifier output into an Intent. Anything the
// classifier returns outside the known set maps to general_query; it is
// never an error.
func ParseIntent(raw string) Intent {
	candidate := Intent(strings.ToLower(strings.TrimSpace(raw)))
	if knownIntents[candidate] {
		return candidate
	}
	return IntentGeneralQuery
}
