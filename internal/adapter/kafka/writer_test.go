package kafka

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VarunUmapathy/Urbanlytic/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	report := domain.ForwardedReport{
		ID:          "rep-1",
		Type:        "road_hazard",
		Description: "Fallen tree across the service lane.",
		Location:    domain.GeoPoint{Latitude: 13.05, Longitude: 80.21},
		MediaURLs:   []string{"https://cdn.example.com/tree.jpg"},
		Timestamp:   "2026-04-26T15:10:00Z",
	}

	msg, err := serializeToMessage(report)
	require.NoError(t, err)

	assert.Equal(t, []byte("rep-1"), msg.Key)
	assert.JSONEq(t, `{
		"type": "road_hazard",
		"description": "Fallen tree across the service lane.",
		"location": {"latitude": 13.05, "longitude": 80.21},
		"mediaUrls": ["https://cdn.example.com/tree.jpg"],
		"timestamp": "2026-04-26T15:10:00Z"
	}`, string(msg.Value))

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "report_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("road_hazard"), msg.Headers[0].Value)
	assert.Equal(t, "submitted_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2026-04-26T15:10:00Z"), msg.Headers[1].Value)
}

func TestNewWriter(t *testing.T) {
	w := NewWriter([]string{"localhost:9092"}, "incident-reports",
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, "kafka", w.Name())
	assert.NoError(t, w.Close())
}
