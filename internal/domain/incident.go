package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// IncidentType is the canonical closed set of incident categories.
type IncidentType string

const (
	TypeTraffic           IncidentType = "traffic"
	TypeSafety            IncidentType = "safety"
	TypeInfrastructure    IncidentType = "infrastructure"
	TypeRoadHazard        IncidentType = "road_hazard"
	TypeAccident          IncidentType = "accident"
	TypePothole           IncidentType = "pothole"
	TypePublicDisturbance IncidentType = "public_disturbance"
)

// Valid reports whether t is a member of the canonical enum.
func (t IncidentType) Valid() bool {
	switch t {
	case TypeTraffic, TypeSafety, TypeInfrastructure, TypeRoadHazard,
		TypeAccident, TypePothole, TypePublicDisturbance:
		return true
	default:
		return false
	}
}

// IncidentStatus is the lifecycle state of an incident.
type IncidentStatus string

const (
	StatusActive   IncidentStatus = "active"
	StatusResolved IncidentStatus = "resolved"
)

// Severity is the three-level severity scale shown to users.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// LatLng is a WGS-84 coordinate pair in the canonical {lat, lng} form.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Incident is the canonical, UI-facing representation of one reported urban
// event. Every field is total except ImageURL; instances are value objects
// and are never mutated after construction.
type Incident struct {
	ID          string         `json:"id"`
	Type        IncidentType   `json:"type"`
	Status      IncidentStatus `json:"status"`
	Severity    Severity       `json:"severity"`
	Location    LatLng         `json:"location"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Timestamp   time.Time      `json:"timestamp"`
	ImageURL    string         `json:"imageUrl,omitempty"`
}

// RawEventRecord is the validated intermediate decoded from one upstream
// document. Fields are individually optional or malformed; Location keeps its
// raw shape (geo-point map, string, or nil) until the resolver runs.
type RawEventRecord struct {
	ID          string
	EventType   string
	Summary     string
	Description string
	Status      string
	Severity    string
	Location    any
	Timestamp   *time.Time
	ImageURL    string
}

// ReportSubmission is the payload a user submits. Type, description length,
// and presence of a location are enforced at the API boundary before the
// payload reaches the pipeline.
type ReportSubmission struct {
	Type        IncidentType `json:"type"`
	Description string       `json:"description"`
	Location    LatLng       `json:"location"`
	MediaURLs   []string     `json:"mediaUrls"`
}

// GeoPoint is the flattened coordinate form used on the secondary sink wire.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ForwardedReport is the JSON representation of a submission sent to
// secondary sinks. The report ID travels out of band (message key, logs);
// the body carries exactly the agreed sink contract.
type ForwardedReport struct {
	ID          string   `json:"-"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Location    GeoPoint `json:"location"`
	MediaURLs   []string `json:"mediaUrls"`
	Timestamp   string   `json:"timestamp"`
}

// NewForwardedReport flattens a stored submission into its sink wire form.
func NewForwardedReport(id string, sub ReportSubmission, submittedAt time.Time) ForwardedReport {
	media := sub.MediaURLs
	if media == nil {
		media = []string{}
	}
	return ForwardedReport{
		ID:          id,
		Type:        string(sub.Type),
		Description: sub.Description,
		Location:    GeoPoint{Latitude: sub.Location.Lat, Longitude: sub.Location.Lng},
		MediaURLs:   media,
		Timestamp:   submittedAt.UTC().Format(time.RFC3339),
	}
}

// generateID produces a deterministic fallback ID for documents that arrive
// without one, so repeated reads of the same document agree.
func generateID(eventType, summary, description string) string {
	input := fmt.Sprintf("%s|%s|%s", eventType, summary, description)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if eventType == "" {
		return short
	}
	return eventType + "-" + short
}
