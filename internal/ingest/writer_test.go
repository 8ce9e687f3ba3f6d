package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VarunUmapathy/Urbanlytic/internal/domain"
	"github.com/VarunUmapathy/Urbanlytic/internal/observability"
)

// fakeForwarder records every forward it receives.
type fakeForwarder struct {
	mu       sync.Mutex
	name     string
	err      error
	received []domain.ForwardedReport
}

func (f *fakeForwarder) Name() string { return f.name }

func (f *fakeForwarder) Forward(ctx context.Context, report domain.ForwardedReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.received = append(f.received, report)
	return nil
}

func (f *fakeForwarder) reports() []domain.ForwardedReport {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ForwardedReport(nil), f.received...)
}

func submission() domain.ReportSubmission {
	return domain.ReportSubmission{
		Type:        domain.TypePothole,
		Description: "Crater outside the school gate.",
		Location:    domain.LatLng{Lat: 13.04, Lng: 80.2},
		MediaURLs:   []string{"https://cdn.example.com/a.jpg"},
	}
}

func TestWriter_SubmitReport(t *testing.T) {
	s := &fakeStore{
		insertID:   "rep-42",
		insertTime: time.Date(2026, 4, 26, 15, 10, 0, 0, time.UTC),
	}
	fwd := &fakeForwarder{name: "webhook"}
	dispatcher := NewDispatcher([]Forwarder{fwd}, nil, 4, time.Second,
		discardLogger(), observability.NewMetricsForTesting())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = dispatcher.Run(ctx)
	}()

	w := NewWriter(s, dispatcher, discardLogger(), observability.NewMetricsForTesting())
	id, err := w.SubmitReport(context.Background(), submission())
	require.NoError(t, err)
	assert.Equal(t, "rep-42", id)
	require.Len(t, s.inserted, 1)

	cancel()
	<-done

	got := fwd.reports()
	require.Len(t, got, 1)
	assert.Equal(t, "rep-42", got[0].ID)
	assert.Equal(t, "pothole", got[0].Type)
	assert.Equal(t, domain.GeoPoint{Latitude: 13.04, Longitude: 80.2}, got[0].Location)
	assert.Equal(t, "2026-04-26T15:10:00Z", got[0].Timestamp)
}

func TestWriter_PrimaryFailureSkipsForward(t *testing.T) {
	storeErr := errors.New("disk full")
	s := &fakeStore{insertErr: storeErr}
	fwd := &fakeForwarder{name: "webhook"}
	dispatcher := NewDispatcher([]Forwarder{fwd}, nil, 4, time.Second,
		discardLogger(), observability.NewMetricsForTesting())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = dispatcher.Run(ctx)
	}()

	w := NewWriter(s, dispatcher, discardLogger(), observability.NewMetricsForTesting())
	_, err := w.SubmitReport(context.Background(), submission())
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)

	cancel()
	<-done
	assert.Empty(t, fwd.reports(), "failed primary write must not reach the sinks")
}

func TestWriter_SinkFailureDoesNotFailSubmit(t *testing.T) {
	s := &fakeStore{insertID: "rep-9", insertTime: time.Now()}
	fwd := &fakeForwarder{name: "webhook", err: errors.New("connection refused")}
	letters := &fakeDeadLetters{}
	dispatcher := NewDispatcher([]Forwarder{fwd}, letters, 4, time.Second,
		discardLogger(), observability.NewMetricsForTesting())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = dispatcher.Run(ctx)
	}()

	w := NewWriter(s, dispatcher, discardLogger(), observability.NewMetricsForTesting())
	id, err := w.SubmitReport(context.Background(), submission())
	require.NoError(t, err, "an unreachable sink must never fail the submission")
	assert.Equal(t, "rep-9", id)

	cancel()
	<-done

	entries := letters.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "rep-9", entries[0].reportID)
}

func TestWriter_SucceedsWithoutDispatcher(t *testing.T) {
	s := &fakeStore{insertID: "rep-7", insertTime: time.Now()}

	w := NewWriter(s, nil, discardLogger(), observability.NewMetricsForTesting())
	id, err := w.SubmitReport(context.Background(), submission())
	require.NoError(t, err)
	assert.Equal(t, "rep-7", id)
}
