package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/ponto/internal/db"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const insertSession = `INSERT INTO duty_sessions (id, actor_id, started_at, status, created_at, updated_at)
	VALUES (?, ?, '2025-06-15T10:00:00.000000000Z', 'active', '2025-06-15T10:00:00.000000000Z', '2025-06-15T10:00:00.000000000Z')`

func newUoW(t *testing.T) (*db.SQLUnitOfWork, *sqlx.DB) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLUnitOfWork(database), database
}

// actorOf reads the actor of session id through q, which may be a DB or a Tx.
func actorOf(ctx context.Context, q db.DBTX, id string) (string, error) {
	var actor string
	err := sqlx.GetContext(ctx, q, &actor, q.Rebind(`SELECT actor_id FROM duty_sessions WHERE id = ?`), id)
	return actor, err
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow, database := newUoW(t)
	ctx := context.Background()

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(insertSession), "s1", "officer-1"); err != nil {
			return err
		}
		// Visible inside the transaction before commit.
		actor, err := actorOf(ctx, tx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "officer-1", actor)
		return nil
	})
	require.NoError(t, err)

	actor, err := actorOf(ctx, database, "s1")
	require.NoError(t, err)
	assert.Equal(t, "officer-1", actor)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow, database := newUoW(t)
	ctx := context.Background()
	errAbort := errors.New("abort shift")

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(insertSession), "s2", "officer-2"); err != nil {
			return err
		}
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	_, err = actorOf(ctx, database, "s2")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow, database := newUoW(t)
	ctx := context.Background()

	assert.PanicsWithValue(t, "boom", func() {
		_ = uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			_, _ = tx.ExecContext(ctx, tx.Rebind(insertSession), "s3", "officer-3")
			panic("boom")
		})
	})

	_, err := actorOf(ctx, database, "s3")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestWithinTx_ConstraintErrorRollsBackEarlierWrites(t *testing.T) {
	uow, database := newUoW(t)
	ctx := context.Background()

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(insertSession), "s4", "officer-4"); err != nil {
			return err
		}
		// Second open session for the same officer violates the partial unique index.
		_, err := tx.ExecContext(ctx, tx.Rebind(insertSession), "s5", "officer-4")
		return err
	})
	require.Error(t, err)

	_, err = actorOf(ctx, database, "s4")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
