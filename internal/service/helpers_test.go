package service

import (
	"context"
	"sync"
	"testing"

	"github.com/alexanderramin/ponto/internal/db"
	"github.com/alexanderramin/ponto/internal/domain"
	"github.com/alexanderramin/ponto/internal/events"
	"github.com/alexanderramin/ponto/internal/repository"
	"github.com/alexanderramin/ponto/internal/testutil"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var t0 = testutil.FixedNow

type fixture struct {
	db        *sqlx.DB
	repo      *repository.SQLDutySessionRepo
	clock     *testutil.FakeClock
	events    *events.Recorder
	observer  *recordingObserver
	timeClock TimeClockService
	approvals ApprovalService
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	return newFixtureOn(t, testutil.NewTestDB(t), opts...)
}

func newFixtureOn(t *testing.T, database *sqlx.DB, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		db:       database,
		repo:     repository.NewSQLDutySessionRepo(database),
		clock:    testutil.NewFakeClock(t0),
		events:   &events.Recorder{},
		observer: &recordingObserver{},
	}
	base := []Option{
		WithClock(f.clock.Now),
		WithPublisher(f.events),
		WithObserver(f.observer),
	}
	opts = append(base, opts...)
	uow := db.NewSQLUnitOfWork(database)
	f.timeClock = NewTimeClockService(f.repo, uow, opts...)
	f.approvals = NewApprovalService(f.repo, uow, opts...)
	return f
}

// seed stores s directly, bypassing the services.
func (f *fixture) seed(t *testing.T, s *domain.DutySession) *domain.DutySession {
	t.Helper()
	require.NoError(t, f.repo.Create(context.Background(), s))
	return s
}

func (f *fixture) stored(t *testing.T, id string) *domain.DutySession {
	t.Helper()
	s, err := f.repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return s
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}
