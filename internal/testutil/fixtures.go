package testutil

import (
	"time"

	"github.com/alexanderramin/ponto/internal/domain"
	"github.com/google/uuid"
)

// Session options
type SessionOption func(*domain.DutySession)

func WithSessionID(id string) SessionOption {
	return func(s *domain.DutySession) {
		s.ID = id
	}
}

func WithStartedAt(t time.Time) SessionOption {
	return func(s *domain.DutySession) {
		s.StartedAt = t
		s.CreatedAt = t
		s.UpdatedAt = t
	}
}

func WithOfficer(o domain.Officer) SessionOption {
	return func(s *domain.DutySession) {
		s.Role = o.Role
		s.Rank = o.Rank
		s.DisplayName = o.DisplayName
		s.VehicleLabel = o.VehicleLabel
	}
}

// WithClosedPause appends a finished pause between from and to.
func WithClosedPause(from, to time.Time) SessionOption {
	return func(s *domain.DutySession) {
		end := to
		s.Pauses = append(s.Pauses, domain.PauseInterval{Start: from, End: &end})
	}
}

// WithOpenPause appends an open pause and moves the session to paused.
func WithOpenPause(from time.Time) SessionOption {
	return func(s *domain.DutySession) {
		s.Pauses = append(s.Pauses, domain.PauseInterval{Start: from})
		s.Status = domain.SessionPaused
	}
}

// WithFinishedAt finalizes the session at t: open pauses are closed and the
// total is frozen, leaving it pending review.
func WithFinishedAt(t time.Time) SessionOption {
	return func(s *domain.DutySession) {
		for i := range s.Pauses {
			if s.Pauses[i].End == nil {
				end := t
				s.Pauses[i].End = &end
			}
		}
		total := domain.ComputeActiveSeconds(s.StartedAt, t, s.Pauses)
		s.FinishedAt = &t
		s.TotalActiveSeconds = &total
		s.Status = domain.SessionPending
		s.UpdatedAt = t
	}
}

// WithReview marks a pending session approved or rejected by r at t.
func WithReview(status domain.SessionStatus, r domain.Reviewer, t time.Time, reason string) SessionOption {
	return func(s *domain.DutySession) {
		s.Status = status
		s.ReviewerID = r.ID
		s.ReviewerName = r.Name
		s.ReviewedAt = &t
		if status == domain.SessionRejected {
			s.RejectionReason = reason
		}
		s.UpdatedAt = t
	}
}

// NewTestSession builds an active session for actorID starting at FixedNow.
// Options are applied in order, so finishing options go last.
func NewTestSession(actorID string, opts ...SessionOption) *domain.DutySession {
	s := domain.NewDutySession(uuid.New().String(), actorID, domain.Officer{
		Role:         "agent",
		Rank:         "2nd Sergeant",
		DisplayName:  "Officer " + actorID,
		VehicleLabel: "VTR-01",
	}, FixedNow)
	for _, opt := range opts {
		opt(s)
	}
	return s
}
