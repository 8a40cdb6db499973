package service

import (
	"io"
	"time"

	"github.com/alexanderramin/ponto/internal/db"
	"github.com/alexanderramin/ponto/internal/events"
	"github.com/alexanderramin/ponto/internal/lock"
	"github.com/alexanderramin/ponto/internal/repository"
	"github.com/sirupsen/logrus"
)

// Clock returns the current instant. Services read it once per operation.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// Option configures the collaborators shared by both services.
type Option func(*core)

// WithClock overrides the wall clock.
func WithClock(c Clock) Option {
	return func(k *core) {
		if c != nil {
			k.now = c
		}
	}
}

// WithLocker sets the per-session lock. Defaults to an in-process lock.
func WithLocker(l lock.Locker) Option {
	return func(k *core) {
		if l != nil {
			k.locker = l
		}
	}
}

// WithPublisher sets where lifecycle events go. Defaults to events.Noop.
func WithPublisher(p events.Publisher) Option {
	return func(k *core) {
		if p != nil {
			k.publisher = p
		}
	}
}

// WithLogger sets the logger for publish failures and invariant violations.
func WithLogger(l *logrus.Logger) Option {
	return func(k *core) {
		if l != nil {
			k.log = l
		}
	}
}

// WithObserver sets the use-case observer.
func WithObserver(o UseCaseObserver) Option {
	return func(k *core) {
		k.observer = useCaseObserverOrNoop([]UseCaseObserver{o})
	}
}

// WithTxRepo overrides how a transaction-scoped repository is built.
func WithTxRepo(f func(tx db.DBTX) repository.DutySessionRepo) Option {
	return func(k *core) {
		if f != nil {
			k.txRepo = f
		}
	}
}

func newCore(sessions repository.DutySessionRepo, uow db.UnitOfWork, opts []Option) *core {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	k := &core{
		sessions:  sessions,
		uow:       uow,
		txRepo:    func(tx db.DBTX) repository.DutySessionRepo { return repository.NewSQLDutySessionRepo(tx) },
		locker:    lock.NewMemory(),
		publisher: events.Noop{},
		now:       systemClock,
		log:       quiet,
		observer:  NoopUseCaseObserver{},
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}
