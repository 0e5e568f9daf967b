package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS clients (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL DEFAULT '',
			phone      TEXT NOT NULL DEFAULT '',
			notes      TEXT NOT NULL DEFAULT '',
			archived   INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS lessons (
			id         TEXT PRIMARY KEY,
			client_id  TEXT NOT NULL REFERENCES clients(id),
			title      TEXT NOT NULL,
			start_at   DATETIME NOT NULL,
			end_at     DATETIME NOT NULL,
			status     TEXT NOT NULL DEFAULT 'scheduled' CHECK(status IN ('scheduled', 'completed', 'cancelled', 'no_show')),
			color_hint TEXT NOT NULL DEFAULT '',
			recurrence TEXT NOT NULL DEFAULT '',
			price      INTEGER NOT NULL DEFAULT 0,
			paid       INTEGER NOT NULL DEFAULT 0,
			notes      TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_lessons_start ON lessons(start_at);
		CREATE INDEX IF NOT EXISTS idx_lessons_client ON lessons(client_id);
		CREATE INDEX IF NOT EXISTS idx_lessons_status ON lessons(status);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
