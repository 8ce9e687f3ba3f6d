// Command genevents seeds a store database with representative detector
// events for local development: structured geo-points, decorated coordinate
// strings, and deliberately incomplete documents that exercise the
// normalization defaults.
//
// Usage:
//
//	go run ./cmd/genevents -db urbanlytic.db -count 25
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/VarunUmapathy/Urbanlytic/internal/store"
)

var baseTime = time.Date(2026, time.April, 26, 6, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dbPath := flag.String("db", "urbanlytic.db", "path to the store database")
	count := flag.Int("count", 25, "number of events to generate")
	flag.Parse()

	s, err := store.Open(*dbPath, clockwork.NewRealClock())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	ctx := context.Background()
	templates := eventTemplates()
	for i := 0; i < *count; i++ {
		tpl := templates[i%len(templates)]
		id := fmt.Sprintf("evt-%03d", i+1)
		fields := tpl(baseTime.Add(time.Duration(i) * 7 * time.Minute))
		if err := s.InsertEvent(ctx, id, fields); err != nil {
			return fmt.Errorf("insert %s: %w", id, err)
		}
	}

	log.Printf("seeded %d events into %s", *count, *dbPath)
	return nil
}

// eventTemplates covers the upstream shapes the pipeline has to survive.
func eventTemplates() []func(ts time.Time) map[string]any {
	return []func(ts time.Time) map[string]any{
		func(ts time.Time) map[string]any {
			return map[string]any{
				"eventType":   "traffic_jam",
				"summary":     "Gridlock on Anna Salai",
				"description": "Stalled lorry blocking two lanes near the metro exit.",
				"status":      "active",
				"severity":    "high",
				"location":    map[string]any{"latitude": 13.0604, "longitude": 80.2496},
				"timestamp":   ts,
			}
		},
		func(ts time.Time) map[string]any {
			return map[string]any{
				"eventType":   "pothole",
				"description": "Deep pothole after the rains.",
				"severity":    "medium",
				"location":    "13.0418° N, 80.2341° E",
				"timestamp":   ts,
			}
		},
		func(ts time.Time) map[string]any {
			return map[string]any{
				"type":      "suspicious_activity",
				"title":     "Loitering near the pump house",
				"status":    "RESOLVED",
				"location":  map[string]any{"lat": 13.0878, "lng": 80.2785},
				"createdAt": ts.Format(time.RFC3339),
			}
		},
		func(ts time.Time) map[string]any {
			return map[string]any{
				"eventType": "accident",
				"summary":   "Two-wheeler collision at the signal",
				"severity":  "HIGH",
				"location":  "13.0102, 80.2123",
				"timestamp": ts,
				"imageUrl":  "https://cdn.example.com/incidents/collision.jpg",
			}
		},
		// Missing location and timestamp: exercises the fallback path.
		func(_ time.Time) map[string]any {
			return map[string]any{
				"eventType": "infrastructure_issue",
				"summary":   "Streetlight out on 2nd Avenue",
			}
		},
		// Unmapped detector label and garbage location.
		func(ts time.Time) map[string]any {
			return map[string]any{
				"eventType": "drone_report",
				"location":  "somewhere near the depot",
				"timestamp": ts,
			}
		},
	}
}
