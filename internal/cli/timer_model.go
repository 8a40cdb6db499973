package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ponto/internal/cli/formatter"
	"github.com/alexanderramin/ponto/internal/domain"
	"github.com/alexanderramin/ponto/internal/service"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type timerKeyMap struct {
	Toggle   key.Binding
	Finalize key.Binding
	Quit     key.Binding
}

func defaultTimerKeys() timerKeyMap {
	return timerKeyMap{
		Toggle:   key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "pause")),
		Finalize: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finalize")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k timerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Finalize, k.Quit}
}

func (k timerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type tickMsg time.Time

type sessionUpdatedMsg struct{ session *domain.DutySession }

type timerErrMsg struct{ err error }

// timerModel shows a live elapsed-time counter for one open session. The
// counter is recomputed from the cached record on every tick; only key
// presses reach the service.
type timerModel struct {
	ctx     context.Context
	clock   service.TimeClockService
	session *domain.DutySession
	now     func() time.Time

	keys timerKeyMap
	help help.Model
	busy bool
	err  error
}

func newTimerModel(ctx context.Context, clock service.TimeClockService, s *domain.DutySession, now func() time.Time) timerModel {
	m := timerModel{
		ctx:     ctx,
		clock:   clock,
		session: s,
		now:     now,
		keys:    defaultTimerKeys(),
		help:    help.New(),
	}
	m.syncKeys()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m timerModel) Init() tea.Cmd {
	return tick()
}

func (m timerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if !m.session.Status.IsOpen() {
			return m, nil
		}
		return m, tick()

	case sessionUpdatedMsg:
		m.session = msg.session
		m.busy = false
		m.err = nil
		m.syncKeys()
		return m, nil

	case timerErrMsg:
		m.busy = false
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case m.busy:
			return m, nil
		case key.Matches(msg, m.keys.Toggle):
			op := m.clock.Pause
			if m.session.Status == domain.SessionPaused {
				op = m.clock.Resume
			}
			m.busy = true
			return m, m.apply(op)
		case key.Matches(msg, m.keys.Finalize):
			m.busy = true
			return m, m.apply(m.clock.Finalize)
		}
	}
	return m, nil
}

func (m timerModel) apply(op func(ctx context.Context, id string) (*domain.DutySession, error)) tea.Cmd {
	id := m.session.ID
	ctx := m.ctx
	return func() tea.Msg {
		s, err := op(ctx, id)
		if err != nil {
			return timerErrMsg{err: err}
		}
		return sessionUpdatedMsg{session: s}
	}
}

// syncKeys enables only the bindings legal in the current status.
func (m *timerModel) syncKeys() {
	status := m.session.Status
	m.keys.Toggle.SetEnabled(status.IsOpen())
	if status == domain.SessionPaused {
		m.keys.Toggle.SetHelp("p", "resume")
	} else {
		m.keys.Toggle.SetHelp("p", "pause")
	}
	m.keys.Finalize.SetEnabled(domain.CanApply(status, domain.ActionFinalize))
}

func (m timerModel) elapsed() int64 {
	if m.session.TotalActiveSeconds != nil {
		return *m.session.TotalActiveSeconds
	}
	return m.session.ActiveSecondsAt(m.now())
}

func (m timerModel) View() string {
	s := m.session
	var b strings.Builder

	b.WriteString(formatter.Bold(domain.CoalesceStr(s.DisplayName, s.ActorID)))
	if s.VehicleLabel != "" {
		b.WriteString(formatter.Dim("  " + s.VehicleLabel))
	}
	b.WriteString("\n\n")
	b.WriteString(formatter.StyleHeader.Render(formatter.Clock(m.elapsed())))
	b.WriteString("  " + formatter.StatusPill(s.Status) + "\n")

	switch {
	case s.Status == domain.SessionPaused:
		if i := s.OpenPauseIndex(); i >= 0 {
			since := s.Pauses[i].Start.Local().Format("15:04")
			b.WriteString(formatter.StyleYellow.Render("On break since "+since) + "\n")
		}
	case s.FinishedAt != nil:
		b.WriteString(formatter.Dim(fmt.Sprintf("Clocked out at %s", s.FinishedAt.Local().Format("15:04"))) + "\n")
	}

	if m.err != nil {
		b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return formatter.RenderBox("Duty timer", b.String()) + "\n"
}
