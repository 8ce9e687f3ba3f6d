package domain

import "time"

// DecodeEventDocument decodes one raw document from the automated-detection
// collection into the typed-but-partial intermediate. Decoding is lossy by
// design: fields of unexpected shape come out as zero values, and the
// location keeps its raw form for the resolver.
func DecodeEventDocument(id string, fields map[string]any) RawEventRecord {
	rec := RawEventRecord{
		ID:          id,
		EventType:   stringField(fields, "eventType", "type"),
		Summary:     stringField(fields, "summary", "title"),
		Description: stringField(fields, "description"),
		Status:      stringField(fields, "status"),
		Severity:    stringField(fields, "severity"),
		Location:    fields["location"],
		ImageURL:    stringField(fields, "imageUrl"),
	}
	if ts, ok := timeField(fields, "firestoreCreatedAt", "timestamp", "createdAt"); ok {
		rec.Timestamp = &ts
	}
	return rec
}

// DecodeReportDocument decodes one user-report document. Report documents use
// the submission field layout: type, description, location, mediaUrls,
// timestamp.
func DecodeReportDocument(id string, fields map[string]any) RawEventRecord {
	rec := RawEventRecord{
		ID:          id,
		EventType:   stringField(fields, "type"),
		Description: stringField(fields, "description"),
		Location:    fields["location"],
		ImageURL:    firstMediaURL(fields["mediaUrls"]),
	}
	if ts, ok := timeField(fields, "timestamp"); ok {
		rec.Timestamp = &ts
	}
	return rec
}

// stringField returns the first non-empty string value among keys.
func stringField(fields map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := fields[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// timeField returns the first value among keys that is a store-native time
// or an RFC 3339 string.
func timeField(fields map[string]any, keys ...string) (time.Time, bool) {
	for _, k := range keys {
		switch v := fields[k].(type) {
		case time.Time:
			if !v.IsZero() {
				return v, true
			}
		case *time.Time:
			if v != nil && !v.IsZero() {
				return *v, true
			}
		case string:
			if ts, err := time.Parse(time.RFC3339, v); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

func firstMediaURL(value any) string {
	switch urls := value.(type) {
	case []string:
		if len(urls) > 0 {
			return urls[0]
		}
	case []any:
		if len(urls) > 0 {
			if s, ok := urls[0].(string); ok {
				return s
			}
		}
	}
	return ""
}
