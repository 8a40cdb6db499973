package domain

// transitions is the complete table of legal moves. Any (status, action)
// pair missing from it is rejected with a *TransitionError.
var transitions = map[SessionStatus]map[Action]SessionStatus{
	SessionActive: {
		ActionPause:    SessionPaused,
		ActionFinalize: SessionPending,
	},
	SessionPaused: {
		ActionResume:   SessionActive,
		ActionFinalize: SessionPending,
	},
	SessionPending: {
		ActionApprove: SessionApproved,
		ActionReject:  SessionRejected,
	},
	SessionApproved: {},
	SessionRejected: {},
}

// NextStatus returns the status reached by applying action from status from.
func NextStatus(from SessionStatus, action Action) (SessionStatus, error) {
	to, ok := transitions[from][action]
	if !ok {
		return "", &TransitionError{From: from, Action: action}
	}
	return to, nil
}

// CanApply reports whether action is legal from status from.
func CanApply(from SessionStatus, action Action) bool {
	_, ok := transitions[from][action]
	return ok
}

// AvailableActions lists the actions legal from status, in AllActions order.
func AvailableActions(status SessionStatus) []Action {
	var out []Action
	for _, a := range AllActions {
		if CanApply(status, a) {
			out = append(out, a)
		}
	}
	return out
}
