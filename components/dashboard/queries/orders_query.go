package queries

import (
	"context"

	dashboard "github.com/goliatone/go-admin-shell/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// OrdersTableInput controls whether an idle order list is fetched first.
type OrdersTableInput struct {
	Load bool
}

type ordersStore interface {
	EnsureLoaded(ctx context.Context, slices ...dashboard.Slice) error
	OrdersTable() dashboard.TableView
}

// OrdersTableQuery returns the visible page of the order table.
type OrdersTableQuery struct {
	store ordersStore
}

// NewOrdersTableQuery builds the query.
func NewOrdersTableQuery(store ordersStore) *OrdersTableQuery {
	return &OrdersTableQuery{store: store}
}

var _ gocommand.Querier[OrdersTableInput, dashboard.TableView] = (*OrdersTableQuery)(nil)

// Query returns the table view. Load failures surface through the view's
// Status and Error; only cancellation is returned.
func (q *OrdersTableQuery) Query(ctx context.Context, input OrdersTableInput) (dashboard.TableView, error) {
	if input.Load {
		if err := q.store.EnsureLoaded(ctx, dashboard.SliceOrders); err != nil && ctx.Err() != nil {
			return dashboard.TableView{}, ctx.Err()
		}
	}
	return q.store.OrdersTable(), nil
}
