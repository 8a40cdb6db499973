// Package lock serialises writers that touch the same duty session.
package lock

import (
	"context"
	"errors"
)

// ErrLockBusy is returned when a key could not be acquired in time.
var ErrLockBusy = errors.New("lock busy")

// Locker hands out exclusive, keyed locks. The returned release function is
// safe to call more than once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// SessionKey is the lock key for mutations of one session.
func SessionKey(sessionID string) string {
	return "session:" + sessionID
}

// ActorKey is the lock key for starting a session for one officer.
func ActorKey(actorID string) string {
	return "actor:" + actorID
}
