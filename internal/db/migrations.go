package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS snapshots (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			active_date  TEXT NOT NULL,
			exported_at  TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS entries (
			snapshot_id     INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			position        INTEGER NOT NULL,
			id              TEXT NOT NULL,
			kind            TEXT NOT NULL CHECK(kind IN ('task', 'non_negotiable')),
			title           TEXT NOT NULL,
			description     TEXT NOT NULL DEFAULT '',
			duration        INTEGER NOT NULL CHECK(duration > 0),
			due_date        TEXT,
			scheduled_day   TEXT,
			scheduled_start TEXT,
			scheduled_end   TEXT,
			completed       INTEGER NOT NULL DEFAULT 0,
			priority        TEXT NOT NULL CHECK(priority IN ('low', 'medium', 'high')),
			category        TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (snapshot_id, id)
		);

		CREATE INDEX IF NOT EXISTS idx_entries_day ON entries(scheduled_day);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating snapshot tables: %w", err)
	}

	return nil
}
