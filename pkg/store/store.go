// Package store keeps a SQLite processing log of ingestion runs and the
// complaints they produced.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hazyhaar/ncrp-ingest/pkg/complaint"
	_ "modernc.org/sqlite"
)

// Event is a row from the processing_log table.
type Event struct {
	ID        int64
	CaseID    string
	Status    string
	Message   string
	RunID     string
	CreatedAt int64
}

// Store manages the processing_log and complaints tables.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS processing_log (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		case_id    TEXT NOT NULL,
		status     TEXT NOT NULL,
		message    TEXT NOT NULL DEFAULT '',
		run_id     TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_processing_log_case ON processing_log(case_id)`,
	`CREATE TABLE IF NOT EXISTS complaints (
		complaint_id  TEXT NOT NULL,
		run_id        TEXT NOT NULL,
		source_file   TEXT NOT NULL,
		quality_score REAL NOT NULL,
		is_duplicate  INTEGER NOT NULL,
		payload       TEXT NOT NULL,
		created_at    INTEGER NOT NULL,
		PRIMARY KEY (run_id, source_file)
	)`,
}

// Open opens (or creates) the SQLite database at path and ensures the
// tables exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	for _, ddl := range schema {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("create tables: %w", err)
		}
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LogEvent appends one entry to the processing log.
func (s *Store) LogEvent(ctx context.Context, caseID, status, message, runID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO processing_log (case_id, status, message, run_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		caseID, status, message, runID, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("log event for %s: %w", caseID, err)
	}
	return nil
}

// SaveComplaint stores the full record. Re-saving the same source file in
// the same run replaces the earlier row.
func (s *Store) SaveComplaint(ctx context.Context, r *complaint.Record) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal complaint %s: %w", r.ComplaintID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO complaints
		(complaint_id, run_id, source_file, quality_score, is_duplicate, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ComplaintID, r.Metadata.RunID, r.SourceFile, r.Metadata.DataQualityScore,
		r.Metadata.IsDuplicate, string(payload), s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save complaint %s: %w", r.ComplaintID, err)
	}
	return nil
}

// ListEvents returns the log entries for caseID in insertion order.
// An empty caseID lists every entry.
func (s *Store) ListEvents(ctx context.Context, caseID string) ([]Event, error) {
	q := `SELECT id, case_id, status, message, run_id, created_at FROM processing_log`
	var args []any
	if caseID != "" {
		q += ` WHERE case_id = ?`
		args = append(args, caseID)
	}
	q += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.CaseID, &e.Status, &e.Message, &e.RunID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountComplaints returns how many complaints were stored for runID, or
// in total when runID is empty.
func (s *Store) CountComplaints(ctx context.Context, runID string) (int, error) {
	q := `SELECT COUNT(*) FROM complaints`
	var args []any
	if runID != "" {
		q += ` WHERE run_id = ?`
		args = append(args, runID)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count complaints: %w", err)
	}
	return n, nil
}

// Consume records a pipeline result: a processed or failed log entry, and
// the record itself on success.
func (s *Store) Consume(ctx context.Context, runID string, res complaint.Result) error {
	if !res.OK() {
		return s.LogEvent(ctx, "", "failed", string(res.ErrorType)+": "+res.Error, runID)
	}
	r := res.Data
	status := "processed"
	if r.Metadata.IsDuplicate {
		status = "duplicate"
	}
	msg := fmt.Sprintf("%s score=%.2f %s", r.SourceFile, r.Metadata.DataQualityScore, r.Metadata.ValidationStatus)
	if err := s.LogEvent(ctx, r.ComplaintID, status, msg, runID); err != nil {
		return err
	}
	return s.SaveComplaint(ctx, r)
}
