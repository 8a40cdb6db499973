package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/ponto/internal/handler"
	"github.com/alexanderramin/ponto/pkg/jwt"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config
			if cfg == nil {
				return errors.New("serve: configuration not loaded")
			}
			if err := cfg.ValidateServe(); err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			tokens, err := jwt.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)
			if err != nil {
				return err
			}

			server := handler.NewApp(handler.AppDeps{
				TimeClock:    app.TimeClock,
				Approvals:    app.Approvals,
				DB:           app.DB,
				Tokens:       tokens,
				Logger:       app.Logger,
				Now:          app.Now,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				app.Logger.WithField("addr", addr).Info("http server listening")
				errCh <- server.Listen(addr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			app.Logger.Info("shutting down http server")
			if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil {
				return err
			}
			app.Logger.Info("http server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to $PONTO_HTTP_ADDR)")

	return cmd
}
