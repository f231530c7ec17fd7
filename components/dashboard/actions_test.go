package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyTableActions(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(&stubAPI{orders: sampleOrders(35)})
	require.NoError(t, store.FetchOrders(ctx))

	view, err := store.ApplyTableAction(ctx, TableAction{Op: TableSetGlobalFilter, Filter: "Natali"})
	require.NoError(t, err)
	assert.Equal(t, 5, view.Filtered)

	view, err = store.ApplyTableAction(ctx, TableAction{Op: TableToggleSort, Column: "orderId"})
	require.NoError(t, err)
	assert.Equal(t, []SortRule{{Column: ColumnID}}, view.State.Sorting)

	view, err = store.ApplyTableAction(ctx, TableAction{Op: TableSetGlobalFilter})
	require.NoError(t, err)
	view, err = store.ApplyTableAction(ctx, TableAction{Op: TableSetStatusFilter, Statuses: []OrderStatus{"complete", "pending"}})
	require.NoError(t, err)
	assert.Equal(t, 14, view.Filtered)

	view, err = store.ApplyTableAction(ctx, TableAction{Op: TableNextPage})
	require.NoError(t, err)
	assert.Equal(t, 1, view.PageIndex)

	view, err = store.ApplyTableAction(ctx, TableAction{Op: TableSetPageSize, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 20, view.PageSize)
}

func TestApplyTableActionRejectsBadInput(t *testing.T) {
	store := newTestStore(&stubAPI{})
	for _, action := range []TableAction{
		{Op: "explode"},
		{Op: TableToggleSort, Column: "price"},
		{Op: TableSetStatusFilter, Statuses: []OrderStatus{"Lost"}},
		{Op: TableSetSorting, Sorting: []SortRule{{Column: "price"}}},
		{Op: TableSetColumnFilters, ColumnFilters: []ColumnFilter{{Column: "user", Values: []string{"Ada"}}}},
		{Op: TableSetColumnFilters, ColumnFilters: []ColumnFilter{{Column: "price", Values: []string{"1"}}}},
		{Op: TableSetColumnFilters, ColumnFilters: []ColumnFilter{{Column: "status", Values: []string{"Lost"}}}},
	} {
		_, err := store.ApplyTableAction(context.Background(), action)
		assert.ErrorIs(t, err, ErrInvalidAction, action.Op)
	}
}

func TestApplyColumnFiltersNormalizesKeysAndStatuses(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(&stubAPI{orders: sampleOrders(35)})
	require.NoError(t, store.FetchOrders(ctx))

	view, err := store.ApplyTableAction(ctx, TableAction{
		Op:            TableSetColumnFilters,
		ColumnFilters: []ColumnFilter{{Column: "Status", Values: []string{"complete", "in-progress"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, []OrderStatus{OrderComplete, OrderInProgress}, view.State.StatusFilter())
	assert.Equal(t, 14, view.Filtered)
}

func TestApplyLayoutActions(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(&stubAPI{})

	layout, err := store.ApplyLayoutAction(ctx, LayoutAction{Op: LayoutViewport, Width: 500})
	require.NoError(t, err)
	assert.True(t, layout.Narrow)

	layout, err = store.ApplyLayoutAction(ctx, LayoutAction{Op: LayoutSetLeftPanel, Open: true})
	require.NoError(t, err)
	assert.True(t, layout.LeftPanelOpen)

	layout, err = store.ApplyLayoutAction(ctx, LayoutAction{Op: LayoutOutsideClick, Region: "main"})
	require.NoError(t, err)
	assert.False(t, layout.LeftPanelOpen)

	_, err = store.ApplyLayoutAction(ctx, LayoutAction{Op: LayoutOutsideClick, Region: "footer"})
	assert.ErrorIs(t, err, ErrInvalidAction)
	_, err = store.ApplyLayoutAction(ctx, LayoutAction{Op: "spin"})
	assert.ErrorIs(t, err, ErrInvalidAction)
}
