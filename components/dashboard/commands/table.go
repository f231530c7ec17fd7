package commands

import (
	"context"
	"errors"

	dashboard "github.com/goliatone/go-admin-shell/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// UpdateTableInput applies a table action. Result receives the new view.
type UpdateTableInput struct {
	Action dashboard.TableAction
	Result *dashboard.TableView
}

type tableUpdater interface {
	ApplyTableAction(ctx context.Context, action dashboard.TableAction) (dashboard.TableView, error)
}

// UpdateTableCommand changes the order table query.
type UpdateTableCommand struct {
	store     tableUpdater
	telemetry Telemetry
}

// NewUpdateTableCommand creates the command.
func NewUpdateTableCommand(store tableUpdater, telemetry Telemetry) *UpdateTableCommand {
	return &UpdateTableCommand{store: store, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateTableInput] = (*UpdateTableCommand)(nil)

// Execute applies the action.
func (c *UpdateTableCommand) Execute(ctx context.Context, msg UpdateTableInput) error {
	if c.store == nil {
		return errors.New("table command requires store")
	}
	view, err := c.store.ApplyTableAction(ctx, msg.Action)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = view
	}
	c.telemetry.Record(ctx, "dashboard.command.table", map[string]any{
		"op":       string(msg.Action.Op),
		"filtered": view.Filtered,
	})
	return nil
}
