package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/goliatone/go-admin-shell/pkg/config"
	"github.com/goliatone/go-admin-shell/pkg/dashboard"
	router "github.com/goliatone/go-router"
)

type serveCmd struct {
	Addr      string `help:"Listen address, overrides server.addr."`
	Transport string `enum:",chi,fiber" default:"" help:"HTTP transport, overrides server.transport."`
	Prefetch  bool   `help:"Load every resource before accepting requests."`
}

func (cmd *serveCmd) Run(ctx context.Context, root *cli) error {
	cfg, err := root.load()
	if err != nil {
		return err
	}
	if cmd.Addr != "" {
		cfg.Server.Addr = cmd.Addr
	}
	if cmd.Transport != "" {
		cfg.Server.Transport = cmd.Transport
	}
	logger := root.logger(cfg, nil)

	app, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("close shell", slog.Any("error", err))
		}
	}()
	if cmd.Prefetch {
		if err := app.Prefetch(ctx); err != nil {
			logger.Warn("prefetch", slog.Any("error", err))
		}
	}

	if cfg.Server.Transport == "fiber" {
		return serveFiber(ctx, app, cfg, logger)
	}
	return serveChi(ctx, app, cfg, logger)
}

func serveChi(ctx context.Context, app *dashboard.App, cfg config.Config, logger *slog.Logger) error {
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.Server.Addr), slog.String("transport", "chi"))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func serveFiber(ctx context.Context, app *dashboard.App, cfg config.Config, logger *slog.Logger) error {
	server := router.NewFiberAdapter()
	if err := dashboard.Register(app, server.Router()); err != nil {
		return err
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.Server.Addr), slog.String("transport", "fiber"))
		errCh <- server.Serve(cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.WrappedRouter().ShutdownWithContext(shutdownCtx)
}
