package commands

import (
	"context"
	"errors"

	dashboard "github.com/goliatone/go-admin-shell/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// ResetResourceInput returns a slice to idle and discards in-flight results.
type ResetResourceInput struct {
	Slice dashboard.Slice
}

type resourceResetter interface {
	Reset(ctx context.Context, slice dashboard.Slice) error
}

// ResetResourceCommand resets a resource slice.
type ResetResourceCommand struct {
	store     resourceResetter
	telemetry Telemetry
}

// NewResetResourceCommand creates the command.
func NewResetResourceCommand(store resourceResetter, telemetry Telemetry) *ResetResourceCommand {
	return &ResetResourceCommand{store: store, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ResetResourceInput] = (*ResetResourceCommand)(nil)

// Execute delegates to the store.
func (c *ResetResourceCommand) Execute(ctx context.Context, msg ResetResourceInput) error {
	if c.store == nil {
		return errors.New("reset command requires store")
	}
	if err := c.store.Reset(ctx, msg.Slice); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.reset", map[string]any{"slice": string(msg.Slice)})
	return nil
}
