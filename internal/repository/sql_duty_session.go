package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/ponto/internal/db"
	"github.com/alexanderramin/ponto/internal/domain"
	"github.com/jmoiron/sqlx"
)

// SQLDutySessionRepo implements DutySessionRepo on top of any DBTX, so the
// same code runs against a pooled *sqlx.DB or inside a unit of work.
type SQLDutySessionRepo struct {
	db db.DBTX
}

// NewSQLDutySessionRepo creates a new SQLDutySessionRepo.
func NewSQLDutySessionRepo(db db.DBTX) *SQLDutySessionRepo {
	return &SQLDutySessionRepo{db: db}
}

const sessionColumns = `id, actor_id, officer_role, officer_rank, display_name, vehicle_label,
	started_at, finished_at, total_active_seconds, status,
	reviewer_id, reviewer_name, reviewed_at, rejection_reason,
	version, created_at, updated_at`

type sessionRow struct {
	ID                 string         `db:"id"`
	ActorID            string         `db:"actor_id"`
	Role               string         `db:"officer_role"`
	Rank               string         `db:"officer_rank"`
	DisplayName        string         `db:"display_name"`
	VehicleLabel       string         `db:"vehicle_label"`
	StartedAt          string         `db:"started_at"`
	FinishedAt         sql.NullString `db:"finished_at"`
	TotalActiveSeconds sql.NullInt64  `db:"total_active_seconds"`
	Status             string         `db:"status"`
	ReviewerID         string         `db:"reviewer_id"`
	ReviewerName       string         `db:"reviewer_name"`
	ReviewedAt         sql.NullString `db:"reviewed_at"`
	RejectionReason    string         `db:"rejection_reason"`
	Version            int64          `db:"version"`
	CreatedAt          string         `db:"created_at"`
	UpdatedAt          string         `db:"updated_at"`
}

type pauseRow struct {
	SessionID string         `db:"session_id"`
	Seq       int            `db:"seq"`
	StartedAt string         `db:"started_at"`
	EndedAt   sql.NullString `db:"ended_at"`
}

func (r *SQLDutySessionRepo) Create(ctx context.Context, s *domain.DutySession) error {
	if s.Version == 0 {
		s.Version = 1
	}
	query := r.db.Rebind(`INSERT INTO duty_sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.ActorID,
		s.Role,
		s.Rank,
		s.DisplayName,
		s.VehicleLabel,
		formatTime(s.StartedAt),
		nullableTimeToString(s.FinishedAt),
		nullableInt64ToValue(s.TotalActiveSeconds),
		string(s.Status),
		s.ReviewerID,
		s.ReviewerName,
		nullableTimeToString(s.ReviewedAt),
		s.RejectionReason,
		s.Version,
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("officer %s already has an open duty session: %w", s.ActorID, domain.ErrConflict)
		}
		return fmt.Errorf("inserting duty session: %w", err)
	}
	return r.savePauses(ctx, s)
}

func (r *SQLDutySessionRepo) GetByID(ctx context.Context, id string) (*domain.DutySession, error) {
	query := r.db.Rebind(`SELECT ` + sessionColumns + ` FROM duty_sessions WHERE id = ?`)
	return r.getOne(ctx, query, id)
}

func (r *SQLDutySessionRepo) GetOpenByActor(ctx context.Context, actorID string) (*domain.DutySession, error) {
	query := r.db.Rebind(`SELECT ` + sessionColumns + ` FROM duty_sessions
		WHERE actor_id = ? AND status IN ('active', 'paused')`)
	return r.getOne(ctx, query, actorID)
}

// ListByActor returns an officer's sessions, most recent first. A limit of
// zero or less returns all of them.
func (r *SQLDutySessionRepo) ListByActor(ctx context.Context, actorID string, limit int) ([]*domain.DutySession, error) {
	query := `SELECT ` + sessionColumns + ` FROM duty_sessions
		WHERE actor_id = ? ORDER BY started_at DESC, id`
	sessions, err := r.list(ctx, query, limit, actorID)
	if err != nil {
		return nil, fmt.Errorf("listing duty sessions by actor: %w", err)
	}
	return sessions, nil
}

// ListByStatus returns sessions in the given status, oldest finish first.
func (r *SQLDutySessionRepo) ListByStatus(ctx context.Context, status domain.SessionStatus, limit int) ([]*domain.DutySession, error) {
	query := `SELECT ` + sessionColumns + ` FROM duty_sessions
		WHERE status = ? ORDER BY finished_at, started_at, id`
	sessions, err := r.list(ctx, query, limit, string(status))
	if err != nil {
		return nil, fmt.Errorf("listing duty sessions by status: %w", err)
	}
	return sessions, nil
}

func (r *SQLDutySessionRepo) Update(ctx context.Context, s *domain.DutySession) error {
	query := r.db.Rebind(`UPDATE duty_sessions SET
		finished_at = ?, total_active_seconds = ?, status = ?,
		reviewer_id = ?, reviewer_name = ?, reviewed_at = ?, rejection_reason = ?,
		version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`)
	res, err := r.db.ExecContext(ctx, query,
		nullableTimeToString(s.FinishedAt),
		nullableInt64ToValue(s.TotalActiveSeconds),
		string(s.Status),
		s.ReviewerID,
		s.ReviewerName,
		nullableTimeToString(s.ReviewedAt),
		s.RejectionReason,
		formatTime(s.UpdatedAt),
		s.ID,
		s.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("officer %s already has an open duty session: %w", s.ActorID, domain.ErrConflict)
		}
		return fmt.Errorf("updating duty session: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking updated rows: %w", err)
	}
	if n == 0 {
		if _, getErr := r.GetByID(ctx, s.ID); errors.Is(getErr, ErrNotFound) {
			return fmt.Errorf("duty session %s: %w", s.ID, ErrNotFound)
		}
		return fmt.Errorf("duty session %s at version %d: %w", s.ID, s.Version, ErrStaleVersion)
	}

	if err := r.savePauses(ctx, s); err != nil {
		return err
	}
	s.Version++
	return nil
}

func (r *SQLDutySessionRepo) Delete(ctx context.Context, id string) error {
	// Pauses are removed explicitly so PostgreSQL deployments created without
	// the cascade still clean up.
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM duty_session_pauses WHERE session_id = ?`), id); err != nil {
		return fmt.Errorf("deleting duty session pauses: %w", err)
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM duty_sessions WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting duty session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("duty session %s: %w", id, ErrNotFound)
	}
	return nil
}

// savePauses upserts every pause of s. Pauses are append-only and only their
// end changes, so existing rows just take the new ended_at.
func (r *SQLDutySessionRepo) savePauses(ctx context.Context, s *domain.DutySession) error {
	query := r.db.Rebind(`INSERT INTO duty_session_pauses (session_id, seq, started_at, ended_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id, seq) DO UPDATE SET ended_at = excluded.ended_at`)
	for i, p := range s.Pauses {
		if _, err := r.db.ExecContext(ctx, query, s.ID, i, formatTime(p.Start), nullableTimeToString(p.End)); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("saving pause %d of session %s: second open pause: %w", i, s.ID, domain.ErrInvariantViolation)
			}
			return fmt.Errorf("saving pause %d of session %s: %w", i, s.ID, err)
		}
	}
	return nil
}

func (r *SQLDutySessionRepo) getOne(ctx context.Context, query string, args ...interface{}) (*domain.DutySession, error) {
	var row sessionRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("duty session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning duty session: %w", err)
	}
	sessions, err := r.hydrate(ctx, []sessionRow{row})
	if err != nil {
		return nil, err
	}
	return sessions[0], nil
}

func (r *SQLDutySessionRepo) list(ctx context.Context, query string, limit int, args ...interface{}) ([]*domain.DutySession, error) {
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	var rows []sessionRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return r.hydrate(ctx, rows)
}

// hydrate converts rows to domain sessions and attaches their pauses with a
// single IN query.
func (r *SQLDutySessionRepo) hydrate(ctx context.Context, rows []sessionRow) ([]*domain.DutySession, error) {
	sessions := make([]*domain.DutySession, 0, len(rows))
	if len(rows) == 0 {
		return sessions, nil
	}

	byID := make(map[string]*domain.DutySession, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		s, err := populateSession(row)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}

	query, args, err := sqlx.In(`SELECT session_id, seq, started_at, ended_at
		FROM duty_session_pauses WHERE session_id IN (?) ORDER BY session_id, seq`, ids)
	if err != nil {
		return nil, fmt.Errorf("building pause query: %w", err)
	}
	var pauses []pauseRow
	if err := sqlx.SelectContext(ctx, r.db, &pauses, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("loading pauses: %w", err)
	}
	for _, p := range pauses {
		start, err := parseTime(p.StartedAt)
		if err != nil {
			return nil, err
		}
		end, err := parseNullableTime(p.EndedAt)
		if err != nil {
			return nil, err
		}
		s := byID[p.SessionID]
		s.Pauses = append(s.Pauses, domain.PauseInterval{Start: start, End: end})
	}
	return sessions, nil
}

func populateSession(row sessionRow) (*domain.DutySession, error) {
	status, err := domain.ParseSessionStatus(row.Status)
	if err != nil {
		return nil, fmt.Errorf("duty session %s: %w", row.ID, err)
	}

	s := &domain.DutySession{
		ID:              row.ID,
		ActorID:         row.ActorID,
		Role:            row.Role,
		Rank:            row.Rank,
		DisplayName:     row.DisplayName,
		VehicleLabel:    row.VehicleLabel,
		Pauses:          []domain.PauseInterval{},
		Status:          status,
		ReviewerID:      row.ReviewerID,
		ReviewerName:    row.ReviewerName,
		RejectionReason: row.RejectionReason,
		Version:         row.Version,
	}
	if s.StartedAt, err = parseTime(row.StartedAt); err != nil {
		return nil, err
	}
	if s.CreatedAt, err = parseTime(row.CreatedAt); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTime(row.UpdatedAt); err != nil {
		return nil, err
	}
	if s.FinishedAt, err = parseNullableTime(row.FinishedAt); err != nil {
		return nil, err
	}
	if s.ReviewedAt, err = parseNullableTime(row.ReviewedAt); err != nil {
		return nil, err
	}
	if row.TotalActiveSeconds.Valid {
		v := row.TotalActiveSeconds.Int64
		s.TotalActiveSeconds = &v
	}
	return s, nil
}
