package handler

import (
	"time"

	"github.com/alexanderramin/ponto/internal/domain"
)

type StartSessionRequest struct {
	VehicleLabel string `json:"vehicle_label" validate:"max=64"`
	DisplayName  string `json:"display_name" validate:"max=120"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type PauseResponse struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

// SessionResponse is the wire form of a duty session. Timestamps are UTC.
type SessionResponse struct {
	ID                   string          `json:"id"`
	ActorID              string          `json:"actor_id"`
	Role                 string          `json:"role"`
	Rank                 string          `json:"rank"`
	DisplayName          string          `json:"display_name"`
	VehicleLabel         string          `json:"vehicle_label"`
	StartedAt            time.Time       `json:"started_at"`
	Pauses               []PauseResponse `json:"pauses"`
	FinishedAt           *time.Time      `json:"finished_at,omitempty"`
	TotalActiveSeconds   *int64          `json:"total_active_seconds,omitempty"`
	ElapsedActiveSeconds int64           `json:"elapsed_active_seconds"`
	Status               string          `json:"status"`
	AvailableActions     []string        `json:"available_actions"`
	ReviewerID           string          `json:"reviewer_id,omitempty"`
	ReviewerName         string          `json:"reviewer_name,omitempty"`
	ReviewedAt           *time.Time      `json:"reviewed_at,omitempty"`
	RejectionReason      string          `json:"rejection_reason,omitempty"`
	Version              int64           `json:"version"`
}

type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Count    int               `json:"count"`
}

func toSessionResponse(s *domain.DutySession, now time.Time) SessionResponse {
	pauses := make([]PauseResponse, len(s.Pauses))
	for i, p := range s.Pauses {
		pauses[i] = PauseResponse{Start: p.Start.UTC(), End: utcPtr(p.End)}
	}
	actions := domain.AvailableActions(s.Status)
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return SessionResponse{
		ID:                   s.ID,
		ActorID:              s.ActorID,
		Role:                 s.Role,
		Rank:                 s.Rank,
		DisplayName:          s.DisplayName,
		VehicleLabel:         s.VehicleLabel,
		StartedAt:            s.StartedAt.UTC(),
		Pauses:               pauses,
		FinishedAt:           utcPtr(s.FinishedAt),
		TotalActiveSeconds:   s.TotalActiveSeconds,
		ElapsedActiveSeconds: s.ActiveSecondsAt(now),
		Status:               string(s.Status),
		AvailableActions:     names,
		ReviewerID:           s.ReviewerID,
		ReviewerName:         s.ReviewerName,
		ReviewedAt:           utcPtr(s.ReviewedAt),
		RejectionReason:      s.RejectionReason,
		Version:              s.Version,
	}
}

func toSessionList(sessions []*domain.DutySession, now time.Time) SessionListResponse {
	out := make([]SessionResponse, len(sessions))
	for i, s := range sessions {
		out[i] = toSessionResponse(s, now)
	}
	return SessionListResponse{Sessions: out, Count: len(out)}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
