package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alexanderramin/ponto/internal/cli/formatter"
	"github.com/alexanderramin/ponto/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var errNoOpenSession = errors.New("no open duty session")

func newClockCmd(app *App) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "clock",
		Short: "Clock in, take breaks and clock out",
	}
	fallback := ""
	if app.Config != nil {
		fallback = app.Config.CLI.Actor
	}
	identityFlag(cmd.PersistentFlags(), &actor, "actor", "PONTO_ACTOR", fallback, "Officer id")

	actorID := func() (string, error) { return requireIdentity(actor, "actor", "PONTO_ACTOR") }

	cmd.AddCommand(
		newClockStartCmd(app, actorID),
		newClockTransitionCmd(app, actorID, "pause", "Start a break", func(ctx context.Context, id string) (*domain.DutySession, error) {
			return app.TimeClock.Pause(ctx, id)
		}),
		newClockTransitionCmd(app, actorID, "resume", "End the current break", func(ctx context.Context, id string) (*domain.DutySession, error) {
			return app.TimeClock.Resume(ctx, id)
		}),
		newClockTransitionCmd(app, actorID, "finalize", "Clock out and submit for review", func(ctx context.Context, id string) (*domain.DutySession, error) {
			return app.TimeClock.Finalize(ctx, id)
		}),
		newClockStatusCmd(app, actorID),
		newClockHistoryCmd(app, actorID),
		newClockWatchCmd(app, actorID),
	)

	return cmd
}

func newClockStartCmd(app *App, actorID func() (string, error)) *cobra.Command {
	var officer domain.Officer

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Clock in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := actorID()
			if err != nil {
				return err
			}
			officer.DisplayName = domain.CoalesceStr(officer.DisplayName, actor)

			s, err := app.TimeClock.Start(cmd.Context(), actor, officer)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSession(s, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&officer.VehicleLabel, "vehicle", "", "Vehicle label, e.g. VTR-07")
	cmd.Flags().StringVar(&officer.DisplayName, "name", "", "Display name (defaults to the actor id)")
	cmd.Flags().StringVar(&officer.Rank, "rank", "", "Rank")
	cmd.Flags().StringVar(&officer.Role, "role", "", "Role")

	return cmd
}

// newClockTransitionCmd builds a command that applies op to the actor's open session.
func newClockTransitionCmd(
	app *App,
	actorID func() (string, error),
	use, short string,
	op func(ctx context.Context, id string) (*domain.DutySession, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			open, err := openSession(cmd.Context(), app, actorID)
			if err != nil {
				return err
			}
			s, err := op(cmd.Context(), open.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSession(s, app.now()))
			return nil
		},
	}
}

func newClockStatusCmd(app *App, actorID func() (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the open duty session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := actorID()
			if err != nil {
				return err
			}
			s, err := app.TimeClock.GetActiveFor(cmd.Context(), actor)
			if err != nil {
				return err
			}
			if s == nil {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Off duty. Run 'ponto clock start' to clock in."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSession(s, app.now()))
			return nil
		},
	}
}

func newClockHistoryCmd(app *App, actorID func() (string, error)) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent duty sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := actorID()
			if err != nil {
				return err
			}
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}
			sessions, err := app.TimeClock.ListByActor(cmd.Context(), actor, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSessionTable("History", sessions, app.now()))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of sessions")

	return cmd
}

func newClockWatchCmd(app *App, actorID func() (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live timer for the open duty session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			open, err := openSession(cmd.Context(), app, actorID)
			if err != nil {
				return err
			}
			return runTimer(cmd.Context(), app, open, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runTimer(ctx context.Context, app *App, s *domain.DutySession, in io.Reader, out io.Writer) error {
	m := newTimerModel(ctx, app.TimeClock, s, app.now)
	_, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out)).Run()
	return err
}

func openSession(ctx context.Context, app *App, actorID func() (string, error)) (*domain.DutySession, error) {
	actor, err := actorID()
	if err != nil {
		return nil, err
	}
	s, err := app.TimeClock.GetActiveFor(ctx, actor)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w for %s", errNoOpenSession, actor)
	}
	return s, nil
}
