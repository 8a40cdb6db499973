package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ponto/internal/db"
	"github.com/alexanderramin/ponto/internal/domain"
	"github.com/alexanderramin/ponto/internal/events"
	"github.com/alexanderramin/ponto/internal/lock"
	"github.com/alexanderramin/ponto/internal/repository"
	"github.com/sirupsen/logrus"
)

// core holds what the time-clock and approval services share: every mutation
// is one locked, transactional read-modify-write followed by an event.
type core struct {
	sessions  repository.DutySessionRepo
	uow       db.UnitOfWork
	txRepo    func(tx db.DBTX) repository.DutySessionRepo
	locker    lock.Locker
	publisher events.Publisher
	now       Clock
	log       *logrus.Logger
	observer  UseCaseObserver
}

// transition loads the session, applies fn at the current instant and stores
// the result. Any error leaves the stored record untouched.
func (k *core) transition(ctx context.Context, sessionID string, action domain.Action,
	fn func(s *domain.DutySession, now time.Time) error,
) (*domain.DutySession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%s: empty session id: %w", action, domain.ErrInvalidArgument)
	}

	release, err := k.locker.Acquire(ctx, lock.SessionKey(sessionID))
	if err != nil {
		return nil, lockError(fmt.Sprintf("%s session %s", action, sessionID), err)
	}
	defer release()

	var updated *domain.DutySession
	err = k.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := k.txRepo(tx)
		s, err := repo.GetByID(ctx, sessionID)
		if err != nil {
			return err
		}
		if err := fn(s, k.now().UTC()); err != nil {
			return err
		}
		if err := s.CheckInvariants(); err != nil {
			return err
		}
		if err := repo.Update(ctx, s); err != nil {
			if errors.Is(err, repository.ErrStaleVersion) {
				return fmt.Errorf("%s session %s: %w: %w", action, sessionID, domain.ErrInvalidState, err)
			}
			return err
		}
		updated = s
		return nil
	})
	if err != nil {
		k.reportInvariant(sessionID, err)
		return nil, err
	}

	k.publish(ctx, action, updated)
	return updated, nil
}

// publish runs after commit. The record is already durable, so a failed
// publish is logged and never reported to the caller.
func (k *core) publish(ctx context.Context, action domain.Action, s *domain.DutySession) {
	e := events.NewSessionEvent(action, s)
	if err := k.publisher.Publish(ctx, e); err != nil {
		k.log.WithFields(logrus.Fields{
			"event":      e.Type,
			"session_id": s.ID,
		}).WithError(err).Warn("publishing session event failed")
	}
}

func (k *core) reportInvariant(sessionID string, err error) {
	if errors.Is(err, domain.ErrInvariantViolation) {
		k.log.WithField("session_id", sessionID).WithError(err).Error("duty session invariant violated")
	}
}

// observe reports a finished use case. Call it deferred with a pointer to the
// named error result.
func (k *core) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err *error) {
	k.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   *err == nil,
		Err:       *err,
		Fields:    fields,
	})
}

// lockError reports a busy lock as ErrInvalidState so the caller re-queries.
// Any other failure comes from the lock backend and is passed through.
func lockError(op string, err error) error {
	if errors.Is(err, lock.ErrLockBusy) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrInvalidState, err)
	}
	return fmt.Errorf("%s: acquiring lock: %w", op, err)
}
