package domain

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// coordStringRe parses decorated coordinate strings from older detector
// builds: "13.08° N, 80.27° E", "13.08 N, 80.27 E", or a bare "13.08, 80.27".
var coordStringRe = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*°?\s*([NSns])?\s*,\s*(-?\d+(?:\.\d+)?)\s*°?\s*([EWew])?\s*$`)

// LocationResolver turns an upstream location value of unknown shape into a
// concrete coordinate pair. It never fails: unrecognized or unparseable
// values resolve to the configured fallback coordinate, and the failure is
// logged as a diagnostic only.
type LocationResolver struct {
	fallback LatLng
	logger   *slog.Logger
}

// NewLocationResolver creates a resolver with the given fallback coordinate.
func NewLocationResolver(fallback LatLng, logger *slog.Logger) *LocationResolver {
	return &LocationResolver{fallback: fallback, logger: logger}
}

// Fallback returns the configured fallback coordinate.
func (r *LocationResolver) Fallback() LatLng {
	return r.fallback
}

// Resolve extracts a {lat, lng} pair from value. Recognized shapes are a
// LatLng, a structured geo-point map with numeric latitude/longitude, and a
// decorated coordinate string. The second return reports whether the value
// itself resolved; when false the fallback coordinate is returned.
func (r *LocationResolver) Resolve(value any) (LatLng, bool) {
	switch v := value.(type) {
	case nil:
		return r.fallback, false
	case LatLng:
		return v, true
	case *LatLng:
		if v != nil {
			return *v, true
		}
	case map[string]any:
		if loc, ok := geoPointFromMap(v); ok {
			return loc, true
		}
	case string:
		if loc, ok := parseCoordString(v); ok {
			return loc, true
		}
	}

	r.logger.Warn("unresolvable location, using fallback",
		"value", value,
		"fallback_lat", r.fallback.Lat,
		"fallback_lng", r.fallback.Lng,
	)
	return r.fallback, false
}

// geoPointFromMap reads a structured geo-point. Both the store-native
// {latitude, longitude} and the canonical {lat, lng} spellings are accepted.
func geoPointFromMap(m map[string]any) (LatLng, bool) {
	lat, okLat := numericField(m, "latitude", "lat")
	lng, okLng := numericField(m, "longitude", "lng")
	if !okLat || !okLng {
		return LatLng{}, false
	}
	return LatLng{Lat: lat, Lng: lng}, true
}

func numericField(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		}
	}
	return 0, false
}

// parseCoordString parses a decorated "<lat>° N, <lng>° E" pair. Southern and
// western hemisphere suffixes negate the component.
func parseCoordString(s string) (LatLng, bool) {
	matches := coordStringRe.FindStringSubmatch(s)
	if matches == nil {
		return LatLng{}, false
	}

	lat, errLat := strconv.ParseFloat(matches[1], 64)
	lng, errLng := strconv.ParseFloat(matches[3], 64)
	if errLat != nil || errLng != nil {
		return LatLng{}, false
	}

	if strings.EqualFold(matches[2], "S") {
		lat = -lat
	}
	if strings.EqualFold(matches[4], "W") {
		lng = -lng
	}
	return LatLng{Lat: lat, Lng: lng}, true
}
