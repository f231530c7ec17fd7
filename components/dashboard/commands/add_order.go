package commands

import (
	"context"
	"errors"

	dashboard "github.com/goliatone/go-admin-shell/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// AddOrderInput carries a candidate order. When Result is set it receives
// the stored order.
type AddOrderInput struct {
	Candidate dashboard.OrderCandidate
	Result    *dashboard.Order
}

type orderAdder interface {
	AddOrder(ctx context.Context, candidate dashboard.OrderCandidate) (dashboard.Order, error)
}

// AddOrderCommand validates and submits new orders.
type AddOrderCommand struct {
	store     orderAdder
	telemetry Telemetry
}

// NewAddOrderCommand creates the command.
func NewAddOrderCommand(store orderAdder, telemetry Telemetry) *AddOrderCommand {
	return &AddOrderCommand{store: store, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AddOrderInput] = (*AddOrderCommand)(nil)

// Execute adds the order through the store.
func (c *AddOrderCommand) Execute(ctx context.Context, msg AddOrderInput) error {
	if c.store == nil {
		return errors.New("add order command requires store")
	}
	order, err := c.store.AddOrder(ctx, msg.Candidate)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = order
	}
	c.telemetry.Record(ctx, "dashboard.command.add_order", map[string]any{
		"order_id": order.ID,
		"status":   string(order.Status),
	})
	return nil
}
