package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/ponto/internal/domain"
	"github.com/alexanderramin/ponto/internal/events"
	"github.com/alexanderramin/ponto/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var costa = domain.Reviewer{ID: "rev-1", Name: "Lt. Costa"}

func finalized(t *testing.T, f *fixture, actor string) *domain.DutySession {
	t.Helper()
	ctx := context.Background()
	sess, err := f.timeClock.Start(ctx, actor, officer)
	require.NoError(t, err)
	f.clock.Advance(8 * time.Hour)
	done, err := f.timeClock.Finalize(ctx, sess.ID)
	require.NoError(t, err)
	return done
}

func TestApprove(t *testing.T) {
	f := newFixture(t)
	sess := finalized(t, f, "officer-1")

	f.clock.Advance(time.Hour)
	approved, err := f.approvals.Approve(context.Background(), sess.ID, costa)
	require.NoError(t, err)

	assert.Equal(t, domain.SessionApproved, approved.Status)
	assert.Equal(t, "rev-1", approved.ReviewerID)
	assert.Equal(t, "Lt. Costa", approved.ReviewerName)
	require.NotNil(t, approved.ReviewedAt)
	assert.Equal(t, f.clock.Now(), *approved.ReviewedAt)
	assert.Equal(t, *sess.TotalActiveSeconds, *approved.TotalActiveSeconds, "approval keeps the total")
	assert.Empty(t, approved.RejectionReason)

	stored := f.stored(t, sess.ID)
	assert.Equal(t, domain.SessionApproved, stored.Status)
	require.NoError(t, stored.CheckInvariants())

	types := f.events.Types()
	assert.Equal(t, events.TypeApproved, types[len(types)-1])
	assert.Equal(t, "approve-session", f.observer.last().Name)
}

// Reject keeps the reason and a later approve is refused.
func TestReject_ThenApproveIsInvalidState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := finalized(t, f, "officer-1")

	rejected, err := f.approvals.Reject(ctx, sess.ID, costa, "late arrival")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionRejected, rejected.Status)
	assert.Equal(t, "late arrival", rejected.RejectionReason)

	_, err = f.approvals.Approve(ctx, sess.ID, costa)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	stored := f.stored(t, sess.ID)
	assert.Equal(t, domain.SessionRejected, stored.Status)
	assert.Equal(t, "late arrival", stored.RejectionReason)
}

func TestReject_EmptyReasonAllowed(t *testing.T) {
	f := newFixture(t)
	sess := finalized(t, f, "officer-1")

	rejected, err := f.approvals.Reject(context.Background(), sess.ID, costa, "")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionRejected, rejected.Status)
	assert.Empty(t, rejected.RejectionReason)
}

func TestReview_TwiceFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := finalized(t, f, "officer-1")

	_, err := f.approvals.Approve(ctx, sess.ID, costa)
	require.NoError(t, err)

	_, err = f.approvals.Approve(ctx, sess.ID, costa)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.approvals.Reject(ctx, sess.ID, costa, "changed my mind")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestReview_RequiresReviewerID(t *testing.T) {
	f := newFixture(t)
	sess := finalized(t, f, "officer-1")

	_, err := f.approvals.Approve(context.Background(), sess.ID, domain.Reviewer{Name: "anon"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = f.approvals.Reject(context.Background(), sess.ID, domain.Reviewer{}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Equal(t, domain.SessionPending, f.stored(t, sess.ID).Status)
}

func TestSelfReviewIsNotBlocked(t *testing.T) {
	f := newFixture(t)
	sess := finalized(t, f, "officer-1")

	_, err := f.approvals.Approve(context.Background(), sess.ID, domain.Reviewer{ID: "officer-1"})
	require.NoError(t, err)
}

func TestListPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := finalized(t, f, "officer-1")
	second := finalized(t, f, "officer-2")
	reviewed := finalized(t, f, "officer-3")
	_, err := f.approvals.Approve(ctx, reviewed.ID, costa)
	require.NoError(t, err)
	f.seed(t, testutil.NewTestSession("officer-4"))

	pending, err := f.approvals.ListPending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, second.ID, pending[1].ID)

	one, err := f.approvals.ListPending(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}
