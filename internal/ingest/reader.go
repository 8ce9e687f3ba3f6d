// Package ingest is the incident ingestion pipeline: the read path that
// normalizes upstream documents into canonical incidents, and the write path
// that commits user reports to the primary store and fans them out to
// best-effort secondary sinks.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/VarunUmapathy/Urbanlytic/internal/domain"
	"github.com/VarunUmapathy/Urbanlytic/internal/observability"
	"github.com/VarunUmapathy/Urbanlytic/internal/store"
)

// Reader serves the two read operations over the upstream collections.
// Reads are side-effect-free and may run concurrently with each other and
// with writes; store failures propagate to the caller, no retry here.
type Reader struct {
	events     store.EventSource
	reports    store.ReportStore
	normalizer *domain.Normalizer
	limit      int
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewReader creates a Reader. limit caps ListUserReports.
func NewReader(events store.EventSource, reports store.ReportStore, normalizer *domain.Normalizer,
	limit int, logger *slog.Logger, metrics *observability.Metrics) *Reader {
	return &Reader{
		events:     events,
		reports:    reports,
		normalizer: normalizer,
		limit:      limit,
		logger:     logger,
		metrics:    metrics,
	}
}

// ListIncidents returns every document in the event collection, normalized.
// No ordering is guaranteed; filtering and sorting are caller-side concerns.
func (r *Reader) ListIncidents(ctx context.Context) ([]domain.Incident, error) {
	start := time.Now()

	docs, err := r.events.ListEvents(ctx)
	if err != nil {
		r.metrics.ReadFailures.WithLabelValues("events").Inc()
		return nil, fmt.Errorf("list incidents: %w", err)
	}

	incidents := make([]domain.Incident, 0, len(docs))
	for _, doc := range docs {
		rec := domain.DecodeEventDocument(doc.ID, doc.Fields)
		incidents = append(incidents, r.normalizer.NormalizeEvent(rec))
	}

	r.metrics.IncidentsListed.Add(float64(len(incidents)))
	r.metrics.ReadDuration.WithLabelValues("events").Observe(time.Since(start).Seconds())
	r.logger.Debug("listed incidents", "count", len(incidents))
	return incidents, nil
}

// ListUserReports returns the most recent user reports, newest first,
// normalized. The store provides the ordering and the limit.
func (r *Reader) ListUserReports(ctx context.Context) ([]domain.Incident, error) {
	start := time.Now()

	docs, err := r.reports.ListReports(ctx, r.limit)
	if err != nil {
		r.metrics.ReadFailures.WithLabelValues("reports").Inc()
		return nil, fmt.Errorf("list user reports: %w", err)
	}

	incidents := make([]domain.Incident, 0, len(docs))
	for _, doc := range docs {
		rec := domain.DecodeReportDocument(doc.ID, doc.Fields)
		incidents = append(incidents, r.normalizer.NormalizeReport(rec))
	}

	r.metrics.ReportsListed.Add(float64(len(incidents)))
	r.metrics.ReadDuration.WithLabelValues("reports").Observe(time.Since(start).Seconds())
	r.logger.Debug("listed user reports", "count", len(incidents))
	return incidents, nil
}
