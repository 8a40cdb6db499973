package domain

import (
	"fmt"
	"time"
)

// Officer carries the descriptive attributes copied onto a session at start.
// They are kept for reporting and never influence state logic.
type Officer struct {
	Role         string
	Rank         string
	DisplayName  string
	VehicleLabel string
}

// Reviewer identifies who approved or rejected a finalized session.
type Reviewer struct {
	ID   string
	Name string
}

// DutySession is one duty period of one officer, from clock-in to review.
type DutySession struct {
	ID      string
	ActorID string

	Role         string
	Rank         string
	DisplayName  string
	VehicleLabel string

	StartedAt          time.Time
	Pauses             []PauseInterval
	FinishedAt         *time.Time
	TotalActiveSeconds *int64
	Status             SessionStatus

	// Review
	ReviewerID      string
	ReviewerName    string
	ReviewedAt      *time.Time
	RejectionReason string

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewDutySession builds a freshly started session in the active state.
func NewDutySession(id, actorID string, o Officer, now time.Time) *DutySession {
	return &DutySession{
		ID:           id,
		ActorID:      actorID,
		Role:         o.Role,
		Rank:         o.Rank,
		DisplayName:  o.DisplayName,
		VehicleLabel: o.VehicleLabel,
		StartedAt:    now,
		Pauses:       []PauseInterval{},
		Status:       SessionActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Officer returns the descriptive attributes recorded at start.
func (s *DutySession) Officer() Officer {
	return Officer{Role: s.Role, Rank: s.Rank, DisplayName: s.DisplayName, VehicleLabel: s.VehicleLabel}
}

// OpenPauseIndex returns the index of the last pause without an end, or -1.
func (s *DutySession) OpenPauseIndex() int {
	for i := len(s.Pauses) - 1; i >= 0; i-- {
		if s.Pauses[i].IsOpen() {
			return i
		}
	}
	return -1
}

// OpenPauseCount returns how many pauses have no end.
func (s *DutySession) OpenPauseCount() int {
	n := 0
	for _, p := range s.Pauses {
		if p.IsOpen() {
			n++
		}
	}
	return n
}

func (s *DutySession) next(action Action) (SessionStatus, error) {
	to, err := NextStatus(s.Status, action)
	if err != nil {
		return "", &TransitionError{SessionID: s.ID, From: s.Status, Action: action}
	}
	return to, nil
}

// Pause opens a new pause interval at now. Only legal while active.
func (s *DutySession) Pause(now time.Time) error {
	to, err := s.next(ActionPause)
	if err != nil {
		return err
	}
	if s.OpenPauseIndex() >= 0 {
		return fmt.Errorf("pausing session %s: active session already has an open pause: %w", s.ID, ErrInvariantViolation)
	}
	s.Pauses = append(s.Pauses, PauseInterval{Start: now})
	s.Status = to
	s.UpdatedAt = now
	return nil
}

// Resume closes the open pause at now. Only legal while paused.
func (s *DutySession) Resume(now time.Time) error {
	to, err := s.next(ActionResume)
	if err != nil {
		return err
	}
	idx := s.OpenPauseIndex()
	if idx < 0 {
		return fmt.Errorf("resuming session %s: no open pause: %w", s.ID, ErrInvariantViolation)
	}
	s.closePause(idx, now)
	s.Status = to
	s.UpdatedAt = now
	return nil
}

// Finalize freezes the worked time at now and hands the session to review.
// A pause still open at this point is closed at now first.
func (s *DutySession) Finalize(now time.Time) error {
	to, err := s.next(ActionFinalize)
	if err != nil {
		return err
	}
	if idx := s.OpenPauseIndex(); idx >= 0 {
		s.closePause(idx, now)
	}
	total := ComputeActiveSeconds(s.StartedAt, now, s.Pauses)
	finished := now
	s.FinishedAt = &finished
	s.TotalActiveSeconds = &total
	s.Status = to
	s.UpdatedAt = now
	return nil
}

// Approve records the reviewer's acceptance of a pending session.
func (s *DutySession) Approve(r Reviewer, now time.Time) error {
	to, err := s.next(ActionApprove)
	if err != nil {
		return err
	}
	s.review(r, now)
	s.Status = to
	return nil
}

// Reject records the reviewer's refusal of a pending session. The reason may be empty.
func (s *DutySession) Reject(r Reviewer, reason string, now time.Time) error {
	to, err := s.next(ActionReject)
	if err != nil {
		return err
	}
	s.review(r, now)
	s.RejectionReason = reason
	s.Status = to
	return nil
}

func (s *DutySession) review(r Reviewer, now time.Time) {
	reviewed := now
	s.ReviewerID = r.ID
	s.ReviewerName = r.Name
	s.ReviewedAt = &reviewed
	s.UpdatedAt = now
}

// closePause ends pause idx at now. A clock reading earlier than the pause
// start yields a zero-length pause instead of a negative one.
func (s *DutySession) closePause(idx int, now time.Time) {
	end := now
	if end.Before(s.Pauses[idx].Start) {
		end = s.Pauses[idx].Start
	}
	s.Pauses[idx].End = &end
}

// ActiveSecondsAt returns worked seconds as of now. Once finalized the frozen
// total is returned unchanged.
func (s *DutySession) ActiveSecondsAt(now time.Time) int64 {
	if s.TotalActiveSeconds != nil {
		return *s.TotalActiveSeconds
	}
	end := now
	if s.FinishedAt != nil {
		end = *s.FinishedAt
	}
	return ComputeActiveSeconds(s.StartedAt, end, s.Pauses)
}

// CheckInvariants verifies the record is internally consistent for its status.
func (s *DutySession) CheckInvariants() error {
	if !ValidSessionStatuses[s.Status] {
		return &UnknownStatusError{Value: string(s.Status)}
	}
	open := s.OpenPauseCount()
	if open > 1 {
		return s.violation("%d open pauses", open)
	}
	switch s.Status {
	case SessionActive:
		if open != 0 {
			return s.violation("active session has an open pause")
		}
	case SessionPaused:
		if open != 1 {
			return s.violation("paused session has no open pause")
		}
	default:
		if open != 0 {
			return s.violation("%s session has an open pause", s.Status)
		}
		if s.FinishedAt == nil || s.TotalActiveSeconds == nil {
			return s.violation("%s session is missing its finalized total", s.Status)
		}
	}
	if s.TotalActiveSeconds != nil && *s.TotalActiveSeconds < 0 {
		return s.violation("negative total active seconds")
	}
	reviewed := s.Status.IsTerminal()
	if reviewed != (s.ReviewedAt != nil) {
		return s.violation("review fields do not match status %s", s.Status)
	}
	if s.Status != SessionRejected && s.RejectionReason != "" {
		return s.violation("rejection reason on a %s session", s.Status)
	}
	return nil
}

func (s *DutySession) violation(format string, args ...any) error {
	return fmt.Errorf("session %s: %s: %w", s.ID, fmt.Sprintf(format, args...), ErrInvariantViolation)
}

// Clone returns a deep copy, so callers can keep a pre-mutation snapshot.
func (s *DutySession) Clone() *DutySession {
	c := *s
	c.Pauses = make([]PauseInterval, len(s.Pauses))
	for i, p := range s.Pauses {
		c.Pauses[i] = PauseInterval{Start: p.Start, End: copyTime(p.End)}
	}
	c.FinishedAt = copyTime(s.FinishedAt)
	c.ReviewedAt = copyTime(s.ReviewedAt)
	if s.TotalActiveSeconds != nil {
		v := *s.TotalActiveSeconds
		c.TotalActiveSeconds = &v
	}
	return &c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
