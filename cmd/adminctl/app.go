package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goliatone/go-admin-shell/pkg/config"
	"github.com/goliatone/go-admin-shell/pkg/dashboard"
)

func (c *cli) load() (config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return config.Config{}, fmt.Errorf("adminctl: %w", err)
	}
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}
	return cfg, nil
}

func (c *cli) logger(cfg config.Config, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := config.NewLogger(cfg.Log, w)
	slog.SetDefault(logger)
	return logger
}

func buildApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*dashboard.App, error) {
	app, err := dashboard.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("adminctl: build shell: %w", err)
	}
	return app, nil
}
