// Package history keeps an append-only log of closed notifications.
// It is an audit trail only: nothing is ever restored from it.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/llehouerou/notifyd/internal/db"
	"github.com/llehouerou/notifyd/internal/engine"
	"github.com/llehouerou/notifyd/internal/note"
)

// Entry is one closed notification.
type Entry struct {
	ID       int64 // row id, set by Recent
	RunID    string
	NoteID   uint32
	AppName  string
	Summary  string
	Body     string
	Category string
	Urgency  note.Urgency
	Reason   engine.CloseReason
	Action   string // last action invoked, if any
	ShownAt  time.Time
	ClosedAt time.Time
}

// Store is the sqlite-backed history log. Each Store gets a fresh run ID
// so that note IDs, which restart with the daemon, stay distinguishable.
type Store struct {
	db    *sql.DB
	runID string
}

// Open opens or creates the history database at path. ":memory:" gives a
// throwaway store.
func Open(path string) (*Store, error) {
	conn, err := db.Open(path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	return &Store{db: conn, runID: uuid.NewString()}, nil
}

// RunID identifies this daemon run in the log.
func (s *Store) RunID() string {
	return s.runID
}

// Record appends entries in a single transaction. Empty RunIDs are filled
// with the store's own.
func (s *Store) Record(entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return db.WithTx(s.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO closed_notifications
				(run_id, note_id, app_name, summary, body, category, urgency, reason, action, shown_at, closed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, e := range entries {
			runID := e.RunID
			if runID == "" {
				runID = s.runID
			}
			_, err := stmt.Exec(
				runID, e.NoteID, e.AppName, e.Summary, e.Body,
				db.NullString(e.Category), int(e.Urgency), uint32(e.Reason), db.NullString(e.Action),
				e.ShownAt.UnixMilli(), e.ClosedAt.UnixMilli(),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, note_id, app_name, summary, body, category, urgency, reason, action, shown_at, closed_at
		FROM closed_notifications
		ORDER BY closed_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                 Entry
			category, action  sql.NullString
			urgency           int
			reason            uint32
			shownAt, closedAt int64
		)
		if err := rows.Scan(
			&e.ID, &e.RunID, &e.NoteID, &e.AppName, &e.Summary, &e.Body,
			&category, &urgency, &reason, &action, &shownAt, &closedAt,
		); err != nil {
			return nil, err
		}
		e.Category = db.NullStringValue(category)
		e.Action = db.NullStringValue(action)
		e.Urgency = note.Urgency(urgency)
		e.Reason = engine.CloseReason(reason)
		e.ShownAt = time.UnixMilli(shownAt)
		e.ClosedAt = time.UnixMilli(closedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of logged notifications.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM closed_notifications`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
