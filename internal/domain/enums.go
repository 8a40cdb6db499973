package domain

type SessionStatus string

const (
	SessionActive   SessionStatus = "active"
	SessionPaused   SessionStatus = "paused"
	SessionPending  SessionStatus = "pending"
	SessionApproved SessionStatus = "approved"
	SessionRejected SessionStatus = "rejected"
)

// ValidSessionStatuses is the canonical set of accepted status strings.
var ValidSessionStatuses = map[SessionStatus]bool{
	SessionActive:   true,
	SessionPaused:   true,
	SessionPending:  true,
	SessionApproved: true,
	SessionRejected: true,
}

// AllSessionStatuses lists every status in lifecycle order.
var AllSessionStatuses = []SessionStatus{
	SessionActive, SessionPaused, SessionPending, SessionApproved, SessionRejected,
}

// IsOpen reports whether the officer is still clocked in.
func (s SessionStatus) IsOpen() bool {
	return s == SessionActive || s == SessionPaused
}

// IsTerminal reports whether no further transition is possible.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionApproved || s == SessionRejected
}

// ParseSessionStatus converts a stored string into a SessionStatus.
func ParseSessionStatus(s string) (SessionStatus, error) {
	st := SessionStatus(s)
	if !ValidSessionStatuses[st] {
		return "", &UnknownStatusError{Value: s}
	}
	return st, nil
}

type Action string

const (
	ActionStart    Action = "start"
	ActionPause    Action = "pause"
	ActionResume   Action = "resume"
	ActionFinalize Action = "finalize"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
)

// AllActions lists every action that can be applied to an existing session.
var AllActions = []Action{ActionPause, ActionResume, ActionFinalize, ActionApprove, ActionReject}
