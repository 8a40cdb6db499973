package cli

import (
	"time"

	"github.com/alexanderramin/ponto/internal/config"
	"github.com/alexanderramin/ponto/internal/handler"
	"github.com/alexanderramin/ponto/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// App holds references to everything CLI commands use.
type App struct {
	TimeClock service.TimeClockService
	Approvals service.ApprovalService
	DB        handler.Pinger
	Config    *config.Config
	Logger    *logrus.Logger

	// Now drives the advisory elapsed time shown for open sessions.
	Now func() time.Time

	// IsInteractive reports whether stdin is a terminal. Nil means no.
	IsInteractive func() bool

	// PromptReason asks for a rejection reason. Nil uses a huh form.
	PromptReason func(reason *string) error
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "ponto" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "ponto",
		Short:         "Electronic time clock for duty sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newClockCmd(app),
		newReviewCmd(app),
		newServeCmd(app),
		newTokenCmd(app),
	)

	return root
}
