package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/ponto/internal/app"
	"github.com/alexanderramin/ponto/internal/cli"
	"github.com/alexanderramin/ponto/internal/config"
	"github.com/alexanderramin/ponto/internal/logging"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return err
	}

	ctx := context.Background()
	rt, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.WithError(err).Warn("closing runtime")
		}
	}()

	cliApp := &cli.App{
		TimeClock: rt.TimeClock,
		Approvals: rt.Approvals,
		DB:        rt.DB,
		Config:    cfg,
		Logger:    logger,
		Now:       func() time.Time { return time.Now().UTC() },
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	return cli.NewRootCmd(cliApp).ExecuteContext(ctx)
}
