package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/ponto/internal/db"
	"github.com/alexanderramin/ponto/internal/domain"
	"github.com/alexanderramin/ponto/internal/repository"
)

type approvalService struct {
	*core
}

// NewApprovalService builds the reviewer-facing service.
func NewApprovalService(sessions repository.DutySessionRepo, uow db.UnitOfWork, opts ...Option) ApprovalService {
	return &approvalService{core: newCore(sessions, uow, opts)}
}

func (s *approvalService) Approve(ctx context.Context, sessionID string, reviewer domain.Reviewer) (_ *domain.DutySession, err error) {
	startedAt := time.Now()
	fields := map[string]any{"session_id": sessionID, "reviewer_id": reviewer.ID}
	defer s.observe(ctx, "approve-session", startedAt, fields, &err)

	if reviewer.ID == "" {
		return nil, fmt.Errorf("approving session %s: empty reviewer id: %w", sessionID, domain.ErrInvalidArgument)
	}
	return s.transition(ctx, sessionID, domain.ActionApprove, func(d *domain.DutySession, now time.Time) error {
		return d.Approve(reviewer, now)
	})
}

func (s *approvalService) Reject(ctx context.Context, sessionID string, reviewer domain.Reviewer, reason string) (_ *domain.DutySession, err error) {
	startedAt := time.Now()
	fields := map[string]any{"session_id": sessionID, "reviewer_id": reviewer.ID}
	defer s.observe(ctx, "reject-session", startedAt, fields, &err)

	if reviewer.ID == "" {
		return nil, fmt.Errorf("rejecting session %s: empty reviewer id: %w", sessionID, domain.ErrInvalidArgument)
	}
	return s.transition(ctx, sessionID, domain.ActionReject, func(d *domain.DutySession, now time.Time) error {
		return d.Reject(reviewer, reason, now)
	})
}

func (s *approvalService) ListPending(ctx context.Context, limit int) ([]*domain.DutySession, error) {
	return s.sessions.ListByStatus(ctx, domain.SessionPending, limit)
}
