package history

import (
	"database/sql"
)

const currentSchemaVersion = 2

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS closed_notifications (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			note_id INTEGER NOT NULL,
			app_name TEXT NOT NULL,
			summary TEXT NOT NULL,
			body TEXT NOT NULL,
			urgency INTEGER NOT NULL,
			reason INTEGER NOT NULL,
			action TEXT,
			shown_at INTEGER NOT NULL,
			closed_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_closed_notifications_closed_at
			ON closed_notifications(closed_at DESC);
		CREATE INDEX IF NOT EXISTS idx_closed_notifications_run
			ON closed_notifications(run_id, note_id);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	if err != nil {
		return err
	}

	// Migration: add category column if missing
	_, _ = db.Exec(`ALTER TABLE closed_notifications ADD COLUMN category TEXT`)

	return nil
}
