// Package domain models Urbanlytic incident data and its normalization.
//
// # Data Sources
//
// Incidents come from two independent upstream collections in the primary
// document store:
//
//   - "incidents": automated event detections published by the city's sensor
//     and camera analysis jobs. Documents are loosely typed; every field may
//     be absent or malformed and must never fail normalization.
//   - "reports": citizen submissions accepted by this service. Documents are
//     well formed because this service wrote them, but they are read back
//     through the same normalization boundary.
//
// # Upstream Field Conventions
//
// Event type tokens:
//
//	Free text, case-insensitive. Known detector tokens (traffic_jam,
//	suspicious_activity, infrastructure_issue, ...) map onto the canonical
//	incident type enum; tokens that already name a canonical type pass
//	through; everything else defaults to "infrastructure".
//
// Location values:
//
//	Either a structured geo-point {latitude, longitude}, or a decorated
//	string such as "13.08° N, 80.27° E" produced by older detector builds.
//	Unresolvable values fall back to a fixed city-center coordinate so the
//	canonical location is always present.
//
// Timestamps:
//
//	The store's native time type when present; otherwise the ingestion
//	clock is substituted. Reports written by this service always carry a
//	server-assigned timestamp, so substitution only happens for foreign
//	documents.
//
// The canonical Incident is total in every field except ImageURL. The
// normalizer in this package is the single boundary responsible for
// eliminating partiality from upstream data.
package domain
