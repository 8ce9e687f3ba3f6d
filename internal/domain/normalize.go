package domain

import (
	"strings"
	"unicode"
)

// DefaultDescription fills the description of records that arrive without one.
const DefaultDescription = "No description provided."

// FallbackFunc is notified each time normalization substitutes a default for
// a missing or malformed field. Wired to metrics in production; may be nil.
type FallbackFunc func(field string)

// Normalizer composes the location resolver and type mapper with timestamp
// conversion and field defaulting. It is the total function from an upstream
// record to a canonical Incident: no input shape makes it fail.
type Normalizer struct {
	locations  *LocationResolver
	onFallback FallbackFunc
}

// NewNormalizer creates a Normalizer. onFallback may be nil.
func NewNormalizer(locations *LocationResolver, onFallback FallbackFunc) *Normalizer {
	return &Normalizer{locations: locations, onFallback: onFallback}
}

// NormalizeEvent transforms one raw event record into exactly one Incident,
// total in all required fields.
func (n *Normalizer) NormalizeEvent(rec RawEventRecord) Incident {
	id := rec.ID
	if id == "" {
		id = generateID(rec.EventType, rec.Summary, rec.Description)
	}

	typ := MapEventType(rec.EventType)

	location, resolved := n.locations.Resolve(rec.Location)
	if !resolved {
		n.fallback("location")
	}

	description := strings.TrimSpace(rec.Description)
	if description == "" {
		description = DefaultDescription
		n.fallback("description")
	}

	timestamp := clock.Now().UTC()
	if rec.Timestamp != nil && !rec.Timestamp.IsZero() {
		timestamp = rec.Timestamp.UTC()
	} else {
		// Records without a stored timestamp are not stable across repeated
		// reads; the counter makes the substitution observable.
		n.fallback("timestamp")
	}

	return Incident{
		ID:          id,
		Type:        typ,
		Status:      normalizeStatus(rec.Status),
		Severity:    normalizeSeverity(rec.Severity),
		Location:    location,
		Title:       deriveTitle(rec.Summary, rec.EventType, typ),
		Description: description,
		Timestamp:   timestamp,
		ImageURL:    rec.ImageURL,
	}
}

// NormalizeReport normalizes a user-report document. A freshly submitted
// report is never pre-resolved, and users do not set severity.
func (n *Normalizer) NormalizeReport(rec RawEventRecord) Incident {
	incident := n.NormalizeEvent(rec)
	incident.Status = StatusActive
	incident.Severity = SeverityMedium
	return incident
}

func (n *Normalizer) fallback(field string) {
	if n.onFallback != nil {
		n.onFallback(field)
	}
}

// normalizeStatus folds the stored status string onto the enum:
// "resolved" (case-insensitive) → resolved, anything else → active.
func normalizeStatus(value string) IncidentStatus {
	if strings.EqualFold(strings.TrimSpace(value), string(StatusResolved)) {
		return StatusResolved
	}
	return StatusActive
}

// normalizeSeverity lower-cases the stored value and keeps it if it is a
// member of the scale; anything else defaults to medium.
func normalizeSeverity(value string) Severity {
	switch s := Severity(strings.ToLower(strings.TrimSpace(value))); s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return s
	default:
		return SeverityMedium
	}
}

// deriveTitle prefers the explicit summary; otherwise it synthesizes a label
// from the event-type token ("traffic_jam" → "Traffic Jam").
func deriveTitle(summary, token string, typ IncidentType) string {
	if s := strings.TrimSpace(summary); s != "" {
		return s
	}
	t := strings.TrimSpace(token)
	if t == "" {
		t = string(typ)
	}
	return titleCase(strings.ReplaceAll(strings.ToLower(t), "_", " "))
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
