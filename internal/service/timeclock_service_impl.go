package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ponto/internal/db"
	"github.com/alexanderramin/ponto/internal/domain"
	"github.com/alexanderramin/ponto/internal/lock"
	"github.com/alexanderramin/ponto/internal/repository"
	"github.com/google/uuid"
)

type timeClockService struct {
	*core
}

// NewTimeClockService builds the officer-facing service. sessions serves
// reads outside transactions; uow scopes every write.
func NewTimeClockService(sessions repository.DutySessionRepo, uow db.UnitOfWork, opts ...Option) TimeClockService {
	return &timeClockService{core: newCore(sessions, uow, opts)}
}

func (s *timeClockService) Start(ctx context.Context, actorID string, officer domain.Officer) (_ *domain.DutySession, err error) {
	startedAt := time.Now()
	fields := map[string]any{"actor_id": actorID}
	defer s.observe(ctx, "start-session", startedAt, fields, &err)

	if actorID == "" {
		return nil, fmt.Errorf("starting session: empty actor id: %w", domain.ErrInvalidArgument)
	}

	release, err := s.locker.Acquire(ctx, lock.ActorKey(actorID))
	if err != nil {
		return nil, lockError("starting session for "+actorID, err)
	}
	defer release()

	var created *domain.DutySession
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := s.txRepo(tx)
		open, err := repo.GetOpenByActor(ctx, actorID)
		switch {
		case err == nil:
			return fmt.Errorf("officer %s has open session %s: %w", actorID, open.ID, domain.ErrConflict)
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		sess := domain.NewDutySession(uuid.New().String(), actorID, officer, s.now().UTC())
		if err := repo.Create(ctx, sess); err != nil {
			return err
		}
		created = sess
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["session_id"] = created.ID
	s.publish(ctx, domain.ActionStart, created)
	return created, nil
}

func (s *timeClockService) Pause(ctx context.Context, sessionID string) (_ *domain.DutySession, err error) {
	startedAt := time.Now()
	defer s.observe(ctx, "pause-session", startedAt, map[string]any{"session_id": sessionID}, &err)

	return s.transition(ctx, sessionID, domain.ActionPause, func(d *domain.DutySession, now time.Time) error {
		return d.Pause(now)
	})
}

func (s *timeClockService) Resume(ctx context.Context, sessionID string) (_ *domain.DutySession, err error) {
	startedAt := time.Now()
	defer s.observe(ctx, "resume-session", startedAt, map[string]any{"session_id": sessionID}, &err)

	return s.transition(ctx, sessionID, domain.ActionResume, func(d *domain.DutySession, now time.Time) error {
		return d.Resume(now)
	})
}

func (s *timeClockService) Finalize(ctx context.Context, sessionID string) (_ *domain.DutySession, err error) {
	startedAt := time.Now()
	fields := map[string]any{"session_id": sessionID}
	defer s.observe(ctx, "finalize-session", startedAt, fields, &err)

	sess, err := s.transition(ctx, sessionID, domain.ActionFinalize, func(d *domain.DutySession, now time.Time) error {
		return d.Finalize(now)
	})
	if err == nil {
		fields["total_active_seconds"] = *sess.TotalActiveSeconds
	}
	return sess, err
}

func (s *timeClockService) GetByID(ctx context.Context, sessionID string) (*domain.DutySession, error) {
	return s.sessions.GetByID(ctx, sessionID)
}

func (s *timeClockService) GetActiveFor(ctx context.Context, actorID string) (*domain.DutySession, error) {
	sess, err := s.sessions.GetOpenByActor(ctx, actorID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *timeClockService) ListByActor(ctx context.Context, actorID string, limit int) ([]*domain.DutySession, error) {
	return s.sessions.ListByActor(ctx, actorID, limit)
}

func (s *timeClockService) Delete(ctx context.Context, sessionID string) (err error) {
	startedAt := time.Now()
	defer s.observe(ctx, "delete-session", startedAt, map[string]any{"session_id": sessionID}, &err)

	release, err := s.locker.Acquire(ctx, lock.SessionKey(sessionID))
	if err != nil {
		return lockError("deleting session "+sessionID, err)
	}
	defer release()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return s.txRepo(tx).Delete(ctx, sessionID)
	})
}
