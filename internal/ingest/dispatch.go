package ingest

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/VarunUmapathy/Urbanlytic/internal/domain"
	"github.com/VarunUmapathy/Urbanlytic/internal/observability"
	"github.com/VarunUmapathy/Urbanlytic/internal/store"
)

// Forwarder delivers one report payload to a secondary sink.
type Forwarder interface {
	Name() string
	Forward(ctx context.Context, report domain.ForwardedReport) error
}

// Dispatcher fans accepted reports out to the configured secondary sinks
// from a background worker, so the submit call never waits on a secondary
// sink or fails because of one. Forwards that fail, and reports that cannot
// be queued, go to the dead-letter log.
type Dispatcher struct {
	forwarders  []Forwarder
	deadLetters store.DeadLetterSink
	queue       chan domain.ForwardedReport
	timeout     time.Duration
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// NewDispatcher creates a Dispatcher with a bounded queue. timeout bounds
// each individual forward attempt.
func NewDispatcher(forwarders []Forwarder, deadLetters store.DeadLetterSink,
	queueSize int, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Dispatcher {
	return &Dispatcher{
		forwarders:  forwarders,
		deadLetters: deadLetters,
		queue:       make(chan domain.ForwardedReport, queueSize),
		timeout:     timeout,
		logger:      logger,
		metrics:     metrics,
	}
}

// Enqueue hands a report to the background worker. It never blocks: when the
// queue is full the report is dead-lettered immediately.
func (d *Dispatcher) Enqueue(report domain.ForwardedReport) {
	if len(d.forwarders) == 0 {
		return
	}
	select {
	case d.queue <- report:
		d.metrics.ForwardQueueDepth.Set(float64(len(d.queue)))
	default:
		d.logger.Error("forward queue full, dead-lettering report", "report_id", report.ID)
		d.deadLetter(context.Background(), "queue", report, "forward queue full")
	}
}

// Run drains the queue until the context is cancelled, then finishes any
// reports already queued before returning.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info("forward dispatcher started",
		"sinks", len(d.forwarders), "queue_size", cap(d.queue), "timeout", d.timeout)

	for {
		select {
		case <-ctx.Done():
			d.drain()
			d.logger.Info("forward dispatcher stopping", "reason", ctx.Err())
			return nil
		case report := <-d.queue:
			d.metrics.ForwardQueueDepth.Set(float64(len(d.queue)))
			d.dispatch(ctx, report)
		}
	}
}

// drain forwards whatever is still queued, with a fresh context since the
// run context is already cancelled.
func (d *Dispatcher) drain() {
	for {
		select {
		case report := <-d.queue:
			d.metrics.ForwardQueueDepth.Set(float64(len(d.queue)))
			d.dispatch(context.Background(), report)
		default:
			return
		}
	}
}

// dispatch sends one report to every sink. A failure at one sink does not
// stop delivery to the others.
func (d *Dispatcher) dispatch(ctx context.Context, report domain.ForwardedReport) {
	for _, fwd := range d.forwarders {
		forwardCtx, cancel := context.WithTimeout(ctx, d.timeout)
		err := fwd.Forward(forwardCtx, report)
		cancel()

		if err != nil {
			d.metrics.ForwardAttempts.WithLabelValues(fwd.Name(), "error").Inc()
			d.logger.Warn("secondary forward failed",
				"sink", fwd.Name(), "report_id", report.ID, "error", err)
			d.deadLetter(ctx, fwd.Name(), report, err.Error())
			continue
		}
		d.metrics.ForwardAttempts.WithLabelValues(fwd.Name(), "success").Inc()
		d.logger.Debug("secondary forward delivered", "sink", fwd.Name(), "report_id", report.ID)
	}
}

func (d *Dispatcher) deadLetter(ctx context.Context, sink string, report domain.ForwardedReport, cause string) {
	d.metrics.DeadLetters.Inc()
	if d.deadLetters == nil {
		return
	}

	payload, err := json.Marshal(report)
	if err != nil {
		d.logger.Error("encode dead letter failed", "report_id", report.ID, "error", err)
		return
	}
	if err := d.deadLetters.RecordDeadLetter(ctx, sink, report.ID, payload, cause); err != nil {
		d.logger.Error("record dead letter failed",
			"sink", sink, "report_id", report.ID, "error", err)
	}
}
