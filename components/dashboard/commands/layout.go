package commands

import (
	"context"
	"errors"

	dashboard "github.com/goliatone/go-admin-shell/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// UpdateLayoutInput applies a layout action. Result receives the new layout.
type UpdateLayoutInput struct {
	Action dashboard.LayoutAction
	Result *dashboard.LayoutState
}

type layoutUpdater interface {
	ApplyLayoutAction(ctx context.Context, action dashboard.LayoutAction) (dashboard.LayoutState, error)
}

// UpdateLayoutCommand changes panel visibility.
type UpdateLayoutCommand struct {
	store     layoutUpdater
	telemetry Telemetry
}

// NewUpdateLayoutCommand creates the command.
func NewUpdateLayoutCommand(store layoutUpdater, telemetry Telemetry) *UpdateLayoutCommand {
	return &UpdateLayoutCommand{store: store, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateLayoutInput] = (*UpdateLayoutCommand)(nil)

// Execute applies the action.
func (c *UpdateLayoutCommand) Execute(ctx context.Context, msg UpdateLayoutInput) error {
	if c.store == nil {
		return errors.New("layout command requires store")
	}
	layout, err := c.store.ApplyLayoutAction(ctx, msg.Action)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = layout
	}
	c.telemetry.Record(ctx, "dashboard.command.layout", map[string]any{"op": string(msg.Action.Op)})
	return nil
}
