package db

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"duty_sessions", "duty_session_pauses"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_duty_sessions_actor",
		"idx_duty_sessions_status",
		"idx_duty_sessions_open_actor",
		"idx_duty_session_pauses_open",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

const insertSession = `INSERT INTO duty_sessions
	(id, actor_id, started_at, status, created_at, updated_at)
	VALUES (?, ?, '2025-06-15T10:00:00.000000000Z', ?, 'x', 'x')`

func TestMigrate_OneOpenSessionPerActor(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(insertSession, "s1", "officer-1", "active")
	require.NoError(t, err)

	_, err = db.Exec(insertSession, "s2", "officer-1", "paused")
	require.Error(t, err, "second open session for the same actor must be rejected")

	_, err = db.Exec(insertSession, "s3", "officer-1", "pending")
	require.NoError(t, err, "closed sessions are not constrained")

	_, err = db.Exec(insertSession, "s4", "officer-2", "active")
	require.NoError(t, err)
}

func TestMigrate_OneOpenPausePerSession(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(insertSession, "s1", "officer-1", "paused")
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO duty_session_pauses (session_id, seq, started_at) VALUES ('s1', 0, 'a')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO duty_session_pauses (session_id, seq, started_at) VALUES ('s1', 1, 'b')`)
	require.Error(t, err)

	_, err = db.Exec(`INSERT INTO duty_session_pauses (session_id, seq, started_at, ended_at) VALUES ('s1', 1, 'b', 'c')`)
	require.NoError(t, err)
}

func TestMigrate_RejectsUnknownStatus(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(insertSession, "s1", "officer-1", "sleeping")
	require.Error(t, err)
}

func TestMigrate_PausesCascadeOnDelete(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(insertSession, "s1", "officer-1", "active")
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO duty_session_pauses (session_id, seq, started_at, ended_at) VALUES ('s1', 0, 'a', 'b')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM duty_sessions WHERE id = 's1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM duty_session_pauses`))
	assert.Equal(t, 0, n)
}

func TestOpenDB_FileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ponto.db")

	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.Get(&mode, `PRAGMA journal_mode`))
	assert.Equal(t, "wal", mode)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
