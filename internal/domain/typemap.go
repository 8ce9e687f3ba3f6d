package domain

import "strings"

// eventTypeTable maps known detector tokens to canonical incident types.
// Tokens that already spell a canonical type pass through unchanged.
var eventTypeTable = map[string]IncidentType{
	"traffic_jam":          TypeTraffic,
	"congestion":           TypeTraffic,
	"suspicious_activity":  TypeSafety,
	"public_disturbance":   TypePublicDisturbance,
	"road_hazard":          TypeRoadHazard,
	"pothole":              TypePothole,
	"accident":             TypeAccident,
	"infrastructure_issue": TypeInfrastructure,
}

// MapEventType maps a free-text event-type token to a canonical incident
// type. Matching is case-insensitive; unknown tokens default to
// infrastructure. Pure, no I/O.
func MapEventType(token string) IncidentType {
	t := strings.ToLower(strings.TrimSpace(token))
	if mapped, ok := eventTypeTable[t]; ok {
		return mapped
	}
	if it := IncidentType(t); it.Valid() {
		return it
	}
	return TypeInfrastructure
}
