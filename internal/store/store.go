// Package store provides the primary document store behind narrow
// interfaces: the event collection written by the automated detectors, the
// report collection owned by this service, and the dead-letter log for
// failed secondary forwards.
package store

import (
	"context"
	"time"

	"github.com/VarunUmapathy/Urbanlytic/internal/domain"
)

// Document is one raw document from a collection: its ID plus an untyped
// field map, decoded into the domain intermediate at the pipeline boundary.
type Document struct {
	ID     string
	Fields map[string]any
}

// EventSource reads the automated-detection collection.
type EventSource interface {
	// ListEvents returns every document in the event collection. Filtering
	// and ordering are caller-side concerns.
	ListEvents(ctx context.Context) ([]Document, error)
}

// ReportStore reads and writes the user-report collection.
type ReportStore interface {
	// InsertReport persists one submission with a server-assigned timestamp
	// and returns the generated document ID and that timestamp.
	InsertReport(ctx context.Context, sub domain.ReportSubmission) (string, time.Time, error)

	// ListReports returns at most limit report documents ordered by
	// submission time descending.
	ListReports(ctx context.Context, limit int) ([]Document, error)
}

// DeadLetterSink records secondary forwards that permanently failed.
type DeadLetterSink interface {
	RecordDeadLetter(ctx context.Context, sink, reportID string, payload []byte, cause string) error
}

// DeadLetter is one permanently failed secondary forward.
type DeadLetter struct {
	ID        int64
	Sink      string
	ReportID  string
	Payload   []byte
	Cause     string
	CreatedAt time.Time
}
