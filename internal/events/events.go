// Package events fans out duty-session lifecycle changes after they commit.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/ponto/internal/domain"
)

// Event types.
const (
	TypeStarted   = "session.started"
	TypePaused    = "session.paused"
	TypeResumed   = "session.resumed"
	TypeFinalized = "session.finalized"
	TypeApproved  = "session.approved"
	TypeRejected  = "session.rejected"
)

var typeByAction = map[domain.Action]string{
	domain.ActionStart:    TypeStarted,
	domain.ActionPause:    TypePaused,
	domain.ActionResume:   TypeResumed,
	domain.ActionFinalize: TypeFinalized,
	domain.ActionApprove:  TypeApproved,
	domain.ActionReject:   TypeRejected,
}

// SessionEvent is the message body published for every committed transition.
type SessionEvent struct {
	Type               string    `json:"type"`
	SessionID          string    `json:"session_id"`
	ActorID            string    `json:"actor_id"`
	Status             string    `json:"status"`
	OccurredAt         time.Time `json:"occurred_at"`
	TotalActiveSeconds *int64    `json:"total_active_seconds,omitempty"`
	ReviewerID         string    `json:"reviewer_id,omitempty"`
}

// NewSessionEvent describes the session as it stands after action.
func NewSessionEvent(action domain.Action, s *domain.DutySession) SessionEvent {
	return SessionEvent{
		Type:               typeByAction[action],
		SessionID:          s.ID,
		ActorID:            s.ActorID,
		Status:             string(s.Status),
		OccurredAt:         s.UpdatedAt.UTC(),
		TotalActiveSeconds: s.TotalActiveSeconds,
		ReviewerID:         s.ReviewerID,
	}
}

// Publisher delivers session events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, e SessionEvent) error
	Close() error
}

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, SessionEvent) error { return nil }
func (Noop) Close() error                                { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []SessionEvent
	Err    error
}

func (r *Recorder) Publish(_ context.Context, e SessionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []SessionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SessionEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the type of every published event in order.
func (r *Recorder) Types() []string {
	events := r.Events()
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}
