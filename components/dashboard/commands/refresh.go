package commands

import (
	"context"
	"errors"

	dashboard "github.com/goliatone/go-admin-shell/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// RefreshResourceInput selects the slices to load. Force refetches even
// when a slice already settled; otherwise only idle slices are fetched.
type RefreshResourceInput struct {
	Slices []dashboard.Slice
	Force  bool
}

type resourceLoader interface {
	Fetch(ctx context.Context, slice dashboard.Slice) error
	EnsureLoaded(ctx context.Context, slices ...dashboard.Slice) error
}

// RefreshResourceCommand loads resource slices through the store.
type RefreshResourceCommand struct {
	store     resourceLoader
	telemetry Telemetry
}

// NewRefreshResourceCommand creates the command.
func NewRefreshResourceCommand(store resourceLoader, telemetry Telemetry) *RefreshResourceCommand {
	return &RefreshResourceCommand{store: store, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshResourceInput] = (*RefreshResourceCommand)(nil)

// Execute fetches the requested slices. Forced fetches of several slices
// report every failure.
func (c *RefreshResourceCommand) Execute(ctx context.Context, msg RefreshResourceInput) error {
	if c.store == nil {
		return errors.New("refresh command requires store")
	}
	if len(msg.Slices) == 0 {
		return errors.New("refresh command requires at least one slice")
	}
	var err error
	if msg.Force {
		var errs []error
		for _, slice := range msg.Slices {
			errs = append(errs, c.store.Fetch(ctx, slice))
		}
		err = errors.Join(errs...)
	} else {
		err = c.store.EnsureLoaded(ctx, msg.Slices...)
	}
	names := make([]string, len(msg.Slices))
	for i, slice := range msg.Slices {
		names[i] = string(slice)
	}
	c.telemetry.Record(ctx, "dashboard.command.refresh", map[string]any{
		"slices": names,
		"force":  msg.Force,
		"failed": err != nil,
	})
	return err
}
