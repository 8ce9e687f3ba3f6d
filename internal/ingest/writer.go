package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/VarunUmapathy/Urbanlytic/internal/domain"
	"github.com/VarunUmapathy/Urbanlytic/internal/observability"
	"github.com/VarunUmapathy/Urbanlytic/internal/store"
)

// Writer commits user reports to the primary store and hands accepted
// reports to the dispatcher for secondary delivery. The primary write is
// authoritative: if it fails, nothing is forwarded and the caller gets the
// error. Once the primary write succeeds the submission has succeeded,
// whatever the secondary sinks do afterwards.
type Writer struct {
	reports    store.ReportStore
	dispatcher *Dispatcher
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewWriter creates a Writer. dispatcher may be nil when no secondary sinks
// are configured.
func NewWriter(reports store.ReportStore, dispatcher *Dispatcher,
	logger *slog.Logger, metrics *observability.Metrics) *Writer {
	return &Writer{
		reports:    reports,
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// SubmitReport persists one report and returns its assigned ID.
func (w *Writer) SubmitReport(ctx context.Context, sub domain.ReportSubmission) (string, error) {
	id, submittedAt, err := w.reports.InsertReport(ctx, sub)
	if err != nil {
		w.metrics.SubmitFailures.Inc()
		return "", fmt.Errorf("submit report: %w", err)
	}

	w.metrics.ReportsSubmitted.Inc()
	w.logger.Info("report accepted", "report_id", id, "type", sub.Type)

	if w.dispatcher != nil {
		w.dispatcher.Enqueue(domain.NewForwardedReport(id, sub, submittedAt))
	}
	return id, nil
}
