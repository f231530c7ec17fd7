package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/goliatone/go-admin-shell/components/dashboard/tui"
)

type tuiCmd struct {
	Remote string `help:"Base URL of a served mock API, e.g. http://localhost:8080/mock."`
	Page   string `default:"dashboard" enum:"dashboard,orders" help:"Page to open."`
}

func (cmd *tuiCmd) Run(ctx context.Context, root *cli) error {
	cfg, err := root.load()
	if err != nil {
		return err
	}
	if cmd.Remote != "" {
		cfg.Mock.RemoteURL = cmd.Remote
	}
	// The alternate screen owns stdout and stderr.
	logger := root.logger(cfg, io.Discard)

	app, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	model, err := tui.New(tui.Options{
		Context:    ctx,
		Store:      app.Store,
		Registry:   app.Registry,
		Events:     app.Events,
		Breakpoint: cfg.Shell.TUIBreakpoint,
		Page:       cmd.Page,
	})
	if err != nil {
		return err
	}
	defer model.Close()

	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("adminctl: tui: %w", err)
	}
	return nil
}
