package cli

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/ponto/internal/domain"
	"github.com/alexanderramin/ponto/internal/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func newTimerDriver(t *testing.T, env *testEnv, s *domain.DutySession) *teatest.Driver {
	t.Helper()
	m := newTimerModel(context.Background(), env.app.TimeClock, s, env.clock.Now)
	d := teatest.New(t, m, teatest.WithSize(80, 24))
	d.DrainInit()
	return d
}

func timer(d *teatest.Driver) timerModel {
	return d.Model.(timerModel)
}

func TestTimer_RecomputesOnTick(t *testing.T) {
	env := newTestEnv(t)
	s := env.start(t, "officer-1")
	d := newTimerDriver(t, env, s)

	assert.Contains(t, stripANSI(d.View()), "00:00:00")

	env.clock.Advance(61 * time.Second)
	d.Send(tickMsg(env.clock.Now()))
	assert.Contains(t, stripANSI(d.View()), "00:01:01")

	env.clock.Advance(time.Hour)
	d.Send(tickMsg(env.clock.Now()))
	out := stripANSI(d.View())
	assert.Contains(t, out, "01:01:01")
	assert.Contains(t, out, "On duty")
	assert.Contains(t, out, "pause")
}

func TestTimer_PauseResumeFinalize(t *testing.T) {
	env := newTestEnv(t)
	s := env.start(t, "officer-1")
	d := newTimerDriver(t, env, s)

	env.clock.Advance(10 * time.Minute)
	d.PressKey('p')
	require.NoError(t, timer(d).err)
	assert.Equal(t, domain.SessionPaused, timer(d).session.Status)
	out := stripANSI(d.View())
	assert.Contains(t, out, "On break since")
	assert.Contains(t, out, "resume")

	// Paused time does not count.
	env.clock.Advance(5 * time.Minute)
	d.Send(tickMsg(env.clock.Now()))
	assert.Contains(t, stripANSI(d.View()), "00:10:00")

	d.PressKey('p')
	assert.Equal(t, domain.SessionActive, timer(d).session.Status)

	env.clock.Advance(20 * time.Minute)
	d.PressKey('f')
	m := timer(d)
	require.NoError(t, m.err)
	assert.Equal(t, domain.SessionPending, m.session.Status)
	require.NotNil(t, m.session.TotalActiveSeconds)
	assert.Equal(t, int64(30*60), *m.session.TotalActiveSeconds)

	// Further ticks freeze on the stored total.
	env.clock.Advance(time.Hour)
	d.Send(tickMsg(env.clock.Now()))
	out = stripANSI(d.View())
	assert.Contains(t, out, "00:30:00")
	assert.Contains(t, out, "Clocked out")

	// Toggle is disabled once finalized.
	d.PressKey('p')
	assert.Equal(t, domain.SessionPending, timer(d).session.Status)
	assert.NoError(t, timer(d).err)
}

func TestTimer_ShowsServiceErrors(t *testing.T) {
	env := newTestEnv(t)
	s := env.start(t, "officer-1")
	d := newTimerDriver(t, env, s)

	// Another terminal finalizes the session behind the timer's back.
	_, err := env.app.TimeClock.Finalize(context.Background(), s.ID)
	require.NoError(t, err)

	d.PressKey('p')
	m := timer(d)
	require.Error(t, m.err)
	assert.ErrorIs(t, m.err, domain.ErrInvalidState)
	assert.Contains(t, stripANSI(d.View()), "Error:")
	assert.False(t, m.busy)
}

func TestTimer_Quit(t *testing.T) {
	env := newTestEnv(t)
	s := env.start(t, "officer-1")
	d := newTimerDriver(t, env, s)

	d.PressKey('q')
	assert.True(t, d.Quitting)
}
