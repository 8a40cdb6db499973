package service

import (
	"context"

	"github.com/alexanderramin/ponto/internal/domain"
)

// TimeClockService drives an officer's duty session from clock-in to finalize.
type TimeClockService interface {
	Start(ctx context.Context, actorID string, officer domain.Officer) (*domain.DutySession, error)
	Pause(ctx context.Context, sessionID string) (*domain.DutySession, error)
	Resume(ctx context.Context, sessionID string) (*domain.DutySession, error)
	Finalize(ctx context.Context, sessionID string) (*domain.DutySession, error)
	GetByID(ctx context.Context, sessionID string) (*domain.DutySession, error)
	// GetActiveFor returns the officer's open session, or (nil, nil) when
	// there is none.
	GetActiveFor(ctx context.Context, actorID string) (*domain.DutySession, error)
	ListByActor(ctx context.Context, actorID string, limit int) ([]*domain.DutySession, error)
	// Delete removes a session of any status. Administrative use only.
	Delete(ctx context.Context, sessionID string) error
}

// ApprovalService records reviewer decisions on finalized sessions.
type ApprovalService interface {
	Approve(ctx context.Context, sessionID string, reviewer domain.Reviewer) (*domain.DutySession, error)
	Reject(ctx context.Context, sessionID string, reviewer domain.Reviewer, reason string) (*domain.DutySession, error)
	// ListPending returns sessions awaiting review, oldest finish first.
	ListPending(ctx context.Context, limit int) ([]*domain.DutySession, error)
}
