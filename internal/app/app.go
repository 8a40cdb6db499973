// Package app assembles the runtime: storage, locks, events and the
// time-clock services built on them.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ponto/internal/config"
	"github.com/alexanderramin/ponto/internal/db"
	"github.com/alexanderramin/ponto/internal/events"
	"github.com/alexanderramin/ponto/internal/lock"
	"github.com/alexanderramin/ponto/internal/repository"
	"github.com/alexanderramin/ponto/internal/service"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Runtime holds every long-lived collaborator. Close releases them.
type Runtime struct {
	DB        *sqlx.DB
	Locker    lock.Locker
	Publisher events.Publisher
	TimeClock service.TimeClockService
	Approvals service.ApprovalService

	closers []func() error
}

// New opens the configured database, picks the lock and event backends
// and wires both services to share them.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger, opts ...service.Option) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	rt := &Runtime{DB: database}
	rt.closers = append(rt.closers, database.Close)

	rt.Locker, err = rt.newLocker(ctx, cfg, logger)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}

	rt.Publisher, err = newPublisher(cfg, logger)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.closers = append(rt.closers, rt.Publisher.Close)

	shared := []service.Option{
		service.WithLocker(rt.Locker),
		service.WithPublisher(rt.Publisher),
		service.WithLogger(logger),
		service.WithObserver(service.NewLogUseCaseObserver(logger)),
	}
	shared = append(shared, opts...)

	repo := repository.NewSQLDutySessionRepo(database)
	uow := db.NewSQLUnitOfWork(database)
	rt.TimeClock = service.NewTimeClockService(repo, uow, shared...)
	rt.Approvals = service.NewApprovalService(repo, uow, shared...)
	return rt, nil
}

func (rt *Runtime) newLocker(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (lock.Locker, error) {
	if cfg.Redis.Addr == "" {
		logger.Debug("using in-process session locks")
		return lock.NewMemory(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	rt.closers = append(rt.closers, client.Close)
	logger.WithField("addr", cfg.Redis.Addr).Info("using redis session locks")
	return lock.NewRedis(client, cfg.Lock.TTL, cfg.Lock.Wait), nil
}

func newPublisher(cfg *config.Config, logger *logrus.Logger) (events.Publisher, error) {
	if cfg.AMQP.URL == "" {
		return events.Noop{}, nil
	}
	p, err := events.NewAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange)
	if err != nil {
		return nil, err
	}
	logger.WithField("exchange", cfg.AMQP.Exchange).Info("publishing session events to amqp")
	return p, nil
}

// Close releases resources in reverse order of acquisition.
func (rt *Runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}
