package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migrate runs all schema migrations. Every statement is idempotent and the
// whole list is re-run on each start. The DDL sticks to the subset shared by
// SQLite and PostgreSQL: TEXT timestamps, BIGINT counters, partial indexes.
func Migrate(db *sqlx.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS duty_sessions (
		id                   TEXT PRIMARY KEY,
		actor_id             TEXT NOT NULL,
		officer_role         TEXT NOT NULL DEFAULT '',
		officer_rank         TEXT NOT NULL DEFAULT '',
		display_name         TEXT NOT NULL DEFAULT '',
		vehicle_label        TEXT NOT NULL DEFAULT '',
		started_at           TEXT NOT NULL,
		finished_at          TEXT,
		total_active_seconds BIGINT
		                     CHECK(total_active_seconds IS NULL OR total_active_seconds >= 0),
		status               TEXT NOT NULL DEFAULT 'active'
		                     CHECK(status IN ('active','paused','pending','approved','rejected')),
		reviewer_id          TEXT NOT NULL DEFAULT '',
		reviewer_name        TEXT NOT NULL DEFAULT '',
		reviewed_at          TEXT,
		rejection_reason     TEXT NOT NULL DEFAULT '',
		version              BIGINT NOT NULL DEFAULT 1,
		created_at           TEXT NOT NULL,
		updated_at           TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_duty_sessions_actor ON duty_sessions(actor_id, started_at)`,
	`CREATE INDEX IF NOT EXISTS idx_duty_sessions_status ON duty_sessions(status, finished_at)`,

	// At most one open session per officer.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_duty_sessions_open_actor
		ON duty_sessions(actor_id) WHERE status IN ('active','paused')`,

	`CREATE TABLE IF NOT EXISTS duty_session_pauses (
		session_id TEXT NOT NULL REFERENCES duty_sessions(id) ON DELETE CASCADE,
		seq        INTEGER NOT NULL CHECK(seq >= 0),
		started_at TEXT NOT NULL,
		ended_at   TEXT,
		PRIMARY KEY (session_id, seq)
	)`,

	// At most one open pause per session.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_duty_session_pauses_open
		ON duty_session_pauses(session_id) WHERE ended_at IS NULL`,
}
