package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion service.
type Metrics struct {
	IncidentsListed prometheus.Counter
	ReportsListed   prometheus.Counter
	ReadFailures    *prometheus.CounterVec // labels: collection={events,reports}
	ReadDuration    *prometheus.HistogramVec

	// Normalization metrics.
	NormalizeFallbacks *prometheus.CounterVec // labels: field={location,description,timestamp}

	// Submission metrics.
	ReportsSubmitted prometheus.Counter
	SubmitFailures   prometheus.Counter

	// Secondary forwarding metrics.
	ForwardAttempts   *prometheus.CounterVec // labels: sink, outcome={success,error}
	ForwardQueueDepth prometheus.Gauge
	DeadLetters       prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.IncidentsListed,
		m.ReportsListed,
		m.ReadFailures,
		m.ReadDuration,
		m.NormalizeFallbacks,
		m.ReportsSubmitted,
		m.SubmitFailures,
		m.ForwardAttempts,
		m.ForwardQueueDepth,
		m.DeadLetters,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		IncidentsListed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "urbanlytic",
			Name:      "incidents_listed_total",
			Help:      "Total incidents returned from the event collection.",
		}),
		ReportsListed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "urbanlytic",
			Name:      "reports_listed_total",
			Help:      "Total user reports returned from the report collection.",
		}),
		ReadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "urbanlytic",
			Name:      "read_failures_total",
			Help:      "Upstream read failures by collection.",
		}, []string{"collection"}),
		ReadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "urbanlytic",
			Name:      "read_duration_seconds",
			Help:      "Duration of collection reads including normalization.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}, []string{"collection"}),
		NormalizeFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "urbanlytic",
			Name:      "normalize_fallbacks_total",
			Help:      "Defaults substituted for missing or malformed upstream fields.",
		}, []string{"field"}),
		ReportsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "urbanlytic",
			Name:      "reports_submitted_total",
			Help:      "Total reports committed to the primary store.",
		}),
		SubmitFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "urbanlytic",
			Name:      "submit_failures_total",
			Help:      "Total primary-store write failures.",
		}),
		ForwardAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "urbanlytic",
			Name:      "forward_attempts_total",
			Help:      "Secondary sink forward attempts by sink and outcome.",
		}, []string{"sink", "outcome"}),
		ForwardQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "urbanlytic",
			Name:      "forward_queue_depth",
			Help:      "Reports waiting in the secondary forward queue.",
		}),
		DeadLetters: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "urbanlytic",
			Name:      "forward_dead_letters_total",
			Help:      "Forwards abandoned to the dead-letter log.",
		}),
	}
}
