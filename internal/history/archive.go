// Package history provides durable interview traces using SQLite: a
// per-room event log and an archive of finished reports.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/agakshita/voxhire/internal/interview"
)

// ErrReportNotFound is returned when no archived report exists for a room.
var ErrReportNotFound = errors.New("report not found")

// Event is one entry of a room's lifecycle log.
type Event struct {
	ID        int64     `json:"id"`
	RoomID    string    `json:"room_id"`
	Type      string    `json:"type"` // "started", "question", "followup", "conclusion", "no_speech"
	Data      string    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}

// Archive stores events and reports in SQLite.
type Archive struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (or creates) the archive database at the given path.
func Open(dbPath string, logger *zap.Logger) (*Archive, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// WAL keeps concurrent rooms from blocking each other on writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archive{db: db, logger: logger}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS interview_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			room_id    TEXT NOT NULL,
			type       TEXT NOT NULL,
			data       TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_events_room_id
			ON interview_events(room_id);

		CREATE TABLE IF NOT EXISTS reports (
			room_id        TEXT PRIMARY KEY,
			candidate_name TEXT NOT NULL,
			decision       TEXT NOT NULL,
			average_score  REAL NOT NULL,
			payload        TEXT NOT NULL,
			created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
		);
	`)
	return err
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// AddEvent inserts a new event and fills in its ID.
func (a *Archive) AddEvent(e *Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	result, err := a.db.Exec(
		`INSERT INTO interview_events (room_id, type, data, created_at)
		 VALUES (?, ?, ?, ?)`,
		e.RoomID, e.Type, e.Data, e.CreatedAt,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// Record implements the engine's event recorder. Archive failures are
// logged and swallowed; the interview never stalls on its own audit trail.
func (a *Archive) Record(roomID, kind, data string) {
	a.RecordEvent(&Event{RoomID: roomID, Type: kind, Data: data})
}

// RecordEvent inserts an event, logging instead of returning failures.
func (a *Archive) RecordEvent(e *Event) {
	if err := a.AddEvent(e); err != nil {
		a.logger.Warn("recording interview event failed",
			zap.String("room_id", e.RoomID),
			zap.String("type", e.Type),
			zap.Error(err))
	}
}

// Events returns a room's events, optionally after a given event ID.
func (a *Archive) Events(roomID string, afterID int64) ([]*Event, error) {
	rows, err := a.db.Query(
		`SELECT id, room_id, type, data, created_at
		 FROM interview_events
		 WHERE room_id = ? AND id > ?
		 ORDER BY id ASC`,
		roomID, afterID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.RoomID, &e.Type, &e.Data, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// SaveReport archives a finished report. Saving again for the same room
// replaces the previous row (restart semantics).
func (a *Archive) SaveReport(report *interview.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	_, err = a.db.Exec(
		`INSERT OR REPLACE INTO reports (room_id, candidate_name, decision, average_score, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		report.RoomID, report.CandidateName, string(report.Decision),
		report.AverageScore, string(payload), report.Date,
	)
	return err
}

// ReportReady archives the report, implementing the engine's report sink.
func (a *Archive) ReportReady(ctx context.Context, report *interview.Report) error {
	return a.SaveReport(report)
}

// GetReport returns the archived report for a room.
func (a *Archive) GetReport(roomID string) (*interview.Report, error) {
	var payload string
	err := a.db.QueryRow(`SELECT payload FROM reports WHERE room_id = ?`, roomID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}

	var report interview.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("unmarshaling report payload: %w", err)
	}
	return &report, nil
}
