package agent

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"calbot/models"
)

// DefaultTitle is assigned when no appointment keyword matches the message.
const DefaultTitle = "Appointment"

// Extractor converts language-model output (or its absence) into a validated
// entity bag. Extraction is total: malformed input degrades to the regex
// fallback, which itself cannot fail.
type Extractor struct {
	Logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{Logger: logger}
}

// Extract parses the model's structured proposal when possible and falls
// back to deterministic regex extraction from the raw message otherwise.
func (e *Extractor) Extract(message string, intent models.Intent, structured string) models.EntityBag {
	if bag, ok := e.parseStructured(structured); ok {
		return bag
	}
	e.Logger.Debug("Structured entity parse failed, using fallback extraction",
		zap.String("intent", string(intent)))
	return e.fallback(message)
}

// parseStructured strips markdown fences, locates the first balanced {...}
// span, and decodes it. Field names outside the fixed set are ignored.
func (e *Extractor) parseStructured(raw string) (models.EntityBag, bool) {
	if strings.TrimSpace(raw) == "" {
		return models.EntityBag{}, false
	}
	span, ok := balancedObjectSpan(stripCodeFences(raw))
	if !ok {
		return models.EntityBag{}, false
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(span), &fields); err != nil {
		e.Logger.Warn("Failed to parse entity JSON from language model",
			zap.String("payload", span), zap.Error(err))
		return models.EntityBag{}, false
	}

	var bag models.EntityBag
	if v, ok := stringField(fields, "title"); ok {
		bag.Title = &models.EntityField{Value: v, Provenance: models.ProvenanceStructured}
	}
	if v, ok := stringField(fields, "date"); ok {
		bag.Date = &models.EntityField{Value: v, Provenance: models.ProvenanceStructured}
	}
	if v, ok := stringField(fields, "time"); ok {
		bag.Time = &models.EntityField{Value: v, Provenance: models.ProvenanceStructured}
	}
	if v, ok := stringField(fields, "description"); ok {
		bag.Description = &models.EntityField{Value: v, Provenance: models.ProvenanceStructured}
	}
	if v, ok := stringField(fields, "participant"); ok {
		bag.Participant = &models.EntityField{Value: v, Provenance: models.ProvenanceStructured}
	}
	if mins, ok := intField(fields, "duration"); ok {
		bag.Duration = &models.DurationField{Minutes: mins, Provenance: models.ProvenanceStructured}
	}
	return bag, true
}

var codeFenceReplacer = strings.NewReplacer("```json", "", "```", "")

func stripCodeFences(s string) string {
	return strings.TrimSpace(codeFenceReplacer.Replace(s))
}

// balancedObjectSpan returns the first balanced {...} span in s, respecting
// JSON string literals and escapes.
func balancedObjectSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == '{':
			depth++
		case !inString && c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func stringField(fields map[string]any, name string) (string, bool) {
	v, ok := fields[name]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func intField(fields map[string]any, name string) (int, bool) {
	switch v := fields[name].(type) {
	case float64:
		return int(v), v > 0
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil && n > 0
	default:
		return 0, false
	}
}

// Fallback pattern batteries. Each battery is walked in order and the first
// accepted match of each kind wins.

var fallbackDatePatterns = []struct {
	re        *regexp.Regexp
	canonical string // non-empty: emit this keyword instead of the match
}{
	{regexp.MustCompile(`(?i)\btoday\b`), "today"},
	{regexp.MustCompile(`(?i)\btomorrow\b`), "tomorrow"},
	{regexp.MustCompile(`(?i)\byesterday\b`), "yesterday"},
	{regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`), ""},
	{regexp.MustCompile(`(?i)\b(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`), ""},
	{regexp.MustCompile(`(?i)\b(?:next|this)\s+(?:week|month|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`), ""},
}

var fallbackTimePatterns = []struct {
	re      *regexp.Regexp
	convert func(m []string) (string, bool)
}{
	{regexp.MustCompile(`(?i)\b(\d{1,2})\s*pm\b`), func(m []string) (string, bool) {
		return meridiemTo24(m[1], "0", true)
	}},
	{regexp.MustCompile(`(?i)\b(\d{1,2})\s*am\b`), func(m []string) (string, bool) {
		return meridiemTo24(m[1], "0", false)
	}},
	{regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(am|pm)\b`), func(m []string) (string, bool) {
		return meridiemTo24(m[1], m[2], strings.EqualFold(m[3], "pm"))
	}},
	{regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`), func(m []string) (string, bool) {
		return strings.TrimSpace(m[0]), true
	}},
}

var titleKeywords = []string{"meeting", "call", "appointment", "session", "conference", "interview"}

// fallback derives a bag from the raw message alone. It always returns a bag
// with at least the title populated.
func (e *Extractor) fallback(message string) models.EntityBag {
	var bag models.EntityBag

	for _, p := range fallbackDatePatterns {
		m := p.re.FindString(message)
		if m == "" {
			continue
		}
		value := strings.TrimSpace(m)
		if p.canonical != "" {
			value = p.canonical
		}
		bag.Date = &models.EntityField{Value: value, Provenance: models.ProvenanceFallback}
		break
	}

	for _, p := range fallbackTimePatterns {
		m := p.re.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		if value, ok := p.convert(m); ok {
			bag.Time = &models.EntityField{Value: value, Provenance: models.ProvenanceFallback}
			break
		}
	}

	lower := strings.ToLower(message)
	title := DefaultTitle
	for _, kw := range titleKeywords {
		if strings.Contains(lower, kw) {
			title = strings.ToUpper(kw[:1]) + kw[1:]
			break
		}
	}
	bag.Title = &models.EntityField{Value: title, Provenance: models.ProvenanceFallback}

	return bag
}

// meridiemTo24 converts a 12-hour reading to HH:MM, applying the noon and
// midnight edge rules. Readings outside the 12-hour clock are rejected so
// the next pattern in the battery gets a chance.
func meridiemTo24(hourText, minuteText string, isPM bool) (string, bool) {
	hour, err := strconv.Atoi(hourText)
	if err != nil || hour < 1 || hour > 12 {
		return "", false
	}
	minute, err := strconv.Atoi(minuteText)
	if err != nil || minute < 0 || minute > 59 {
		return "", false
	}
	if isPM && hour != 12 {
		hour += 12
	} else if !isPM && hour == 12 {
		hour = 0
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}
