package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"

	"github.com/VarunUmapathy/Urbanlytic/internal/domain"
)

// SQLite implements EventSource, ReportStore, and DeadLetterSink on a local
// SQLite database. Documents are held as JSON rows so the event collection
// keeps the loose upstream shape end to end.
type SQLite struct {
	db    *sql.DB
	clock clockwork.Clock
}

// Open opens (creating if needed) the database at path and runs migrations.
func Open(path string, clock clockwork.Clock) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &SQLite{db: db, clock: clock}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

// Ping reports whether the database is reachable, for readiness checks.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			fields_json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			description TEXT NOT NULL,
			lat REAL NOT NULL,
			lng REAL NOT NULL,
			media_json TEXT NOT NULL,
			submitted_at TIMESTAMP NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reports_submitted_at ON reports(submitted_at DESC);`,
		`CREATE TABLE IF NOT EXISTS forward_dead_letters (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sink TEXT NOT NULL,
			report_id TEXT NOT NULL,
			payload_json TEXT NOT NULL,
			cause TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// ListEvents returns every document in the event collection.
func (s *SQLite) ListEvents(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, fields_json FROM events`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var id, fieldsJSON string
		if err := rows.Scan(&id, &fieldsJSON); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		var fields map[string]any
		if err := json.Unmarshal([]byte(fieldsJSON), &fields); err != nil {
			return nil, fmt.Errorf("decode event %s: %w", id, err)
		}
		docs = append(docs, Document{ID: id, Fields: fields})
	}
	return docs, rows.Err()
}

// InsertEvent stores one raw event document. Used by the seed tool and tests;
// production detections are written by the upstream jobs.
func (s *SQLite) InsertEvent(ctx context.Context, id string, fields map[string]any) error {
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO events(id, fields_json) VALUES(?, ?)
		 ON CONFLICT(id) DO UPDATE SET fields_json=excluded.fields_json`,
		id, string(fieldsJSON))
	return err
}

// InsertReport persists one submission with a server-assigned timestamp.
func (s *SQLite) InsertReport(ctx context.Context, sub domain.ReportSubmission) (string, time.Time, error) {
	id := uuid.NewString()
	submittedAt := s.clock.Now().UTC()

	media := sub.MediaURLs
	if media == nil {
		media = []string{}
	}
	mediaJSON, err := json.Marshal(media)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("encode media urls: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports(id, type, description, lat, lng, media_json, submitted_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		id, string(sub.Type), sub.Description, sub.Location.Lat, sub.Location.Lng,
		string(mediaJSON), submittedAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("insert report: %w", err)
	}
	return id, submittedAt, nil
}

// ListReports returns at most limit reports, newest first, in the raw
// document form the normalizer expects.
func (s *SQLite) ListReports(ctx context.Context, limit int) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, description, lat, lng, media_json, submitted_at
		 FROM reports ORDER BY submitted_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			id, typ, description, mediaJSON string
			lat, lng                        float64
			submittedAt                     time.Time
		)
		if err := rows.Scan(&id, &typ, &description, &lat, &lng, &mediaJSON, &submittedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		var media []string
		if err := json.Unmarshal([]byte(mediaJSON), &media); err != nil {
			return nil, fmt.Errorf("decode report %s media: %w", id, err)
		}
		docs = append(docs, Document{
			ID: id,
			Fields: map[string]any{
				"type":        typ,
				"description": description,
				"location":    map[string]any{"latitude": lat, "longitude": lng},
				"mediaUrls":   media,
				"timestamp":   submittedAt,
			},
		})
	}
	return docs, rows.Err()
}

// RecordDeadLetter appends one permanently failed forward to the log.
func (s *SQLite) RecordDeadLetter(ctx context.Context, sink, reportID string, payload []byte, cause string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO forward_dead_letters(sink, report_id, payload_json, cause, created_at)
		 VALUES(?, ?, ?, ?, ?)`,
		sink, reportID, string(payload), cause, s.clock.Now().UTC())
	if err != nil {
		return fmt.Errorf("record dead letter: %w", err)
	}
	return nil
}

// ListDeadLetters returns the full dead-letter log, oldest first.
func (s *SQLite) ListDeadLetters(ctx context.Context) ([]DeadLetter, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, sink, report_id, payload_json, cause, created_at
		 FROM forward_dead_letters ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list dead letters: %w", err)
	}
	defer rows.Close()

	var letters []DeadLetter
	for rows.Next() {
		var (
			dl      DeadLetter
			payload string
		)
		if err := rows.Scan(&dl.ID, &dl.Sink, &dl.ReportID, &payload, &dl.Cause, &dl.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan dead letter: %w", err)
		}
		dl.Payload = []byte(payload)
		letters = append(letters, dl)
	}
	return letters, rows.Err()
}
