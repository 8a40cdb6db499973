package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/ponto/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = domain.ErrNotFound

// ErrStaleVersion is returned by Update when the stored row was written by
// someone else after the caller read it.
var ErrStaleVersion = errors.New("stale version")

// DutySessionRepo persists duty sessions together with their pause intervals.
type DutySessionRepo interface {
	Create(ctx context.Context, s *domain.DutySession) error
	GetByID(ctx context.Context, id string) (*domain.DutySession, error)
	// GetOpenByActor returns the active or paused session of an officer.
	GetOpenByActor(ctx context.Context, actorID string) (*domain.DutySession, error)
	ListByActor(ctx context.Context, actorID string, limit int) ([]*domain.DutySession, error)
	ListByStatus(ctx context.Context, status domain.SessionStatus, limit int) ([]*domain.DutySession, error)
	// Update writes s if its Version still matches the stored row and bumps
	// s.Version on success.
	Update(ctx context.Context, s *domain.DutySession) error
	Delete(ctx context.Context, id string) error
}
