package models

// Provenance records which extraction path produced an entity field.
type Provenance string

const (
	// ProvenanceStructured marks fields parsed from the language model's JSON.
	ProvenanceStructured Provenance = "structured"
	// ProvenanceFallback marks fields derived by regex from the raw message.
	ProvenanceFallback Provenance = "fallback"
)

// EntityField is a single extracted text field tagged with its provenance.
type EntityField struct {
	Value      string     `json:"value" bson:"value"`
	Provenance Provenance `json:"provenance" bson:"provenance"`
}

// DurationField is an extracted appointment duration in minutes.
type DurationField struct {
	Minutes    int        `json:"minutes" bson:"minutes"`
	Provenance Provenance `json:"provenance" bson:"provenance"`
}

// EntityBag is the structured field set extracted from one message.
// Absent fields are nil; every populated field carries provenance.
type EntityBag struct {
	Title       *EntityField   `json:"title,omitempty" bson:"title,omitempty"`
	Date        *EntityField   `json:"date,omitempty" bson:"date,omitempty"`
	Time        *EntityField   `json:"time,omitempty" bson:"time,omitempty"`
	Duration    *DurationField `json:"duration,omitempty" bson:"duration,omitempty"`
	Description *EntityField   `json:"description,omitempty" bson:"description,omitempty"`
	Participant *EntityField   `json:"participant,omitempty" bson:"participant,omitempty"`
}

// TitleOr returns the extracted title, or fallback when none was extracted.
func (b EntityBag) TitleOr(fallback string) string {
	if b.Title != nil && b.Title.Value != "" {
		return b.Title.Value
	}
	return fallback
}

// DateValue returns the raw date fragment, if any.
func (b EntityBag) DateValue() (string, bool) {
	if b.Date != nil && b.Date.Value != "" {
		return b.Date.Value, true
	}
	return "", false
}

// TimeValue returns the raw time fragment, if any.
func (b EntityBag) TimeValue() (string, bool) {
	if b.Time != nil && b.Time.Value != "" {
		return b.Time.Value, true
	}
	return "", false
}

// DurationMinutesOr returns the extracted duration in minutes, or fallback
// when none was extracted or the extracted value is not positive.
func (b EntityBag) DurationMinutesOr(fallback int) int {
	if b.Duration != nil && b.Duration.Minutes > 0 {
		return b.Duration.Minutes
	}
	return fallback
}
