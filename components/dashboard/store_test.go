package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-admin-shell/pkg/activity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(api *stubAPI, opts ...func(*Options)) *Store {
	o := Options{Orders: api, Dashboard: api, Sidebar: api}
	for _, fn := range opts {
		fn(&o)
	}
	return NewStore(o)
}

func TestNewStoreStartsIdle(t *testing.T) {
	store := NewStore(Options{})
	state := store.Snapshot()
	assert.Equal(t, ResourceIdle, state.Sidebar.Status)
	assert.Equal(t, ResourceIdle, state.Dashboard.Status)
	assert.Equal(t, ResourceIdle, state.Orders.List.Status)
	assert.Equal(t, ResourceIdle, state.Orders.Adding.Status)
	assert.Equal(t, DefaultPageSize, state.Orders.Table.Pagination.PageSize)
	assert.True(t, state.Layout.LeftPanelOpen)
	assert.True(t, state.Layout.RightPanelOpen)
	assert.Equal(t, DefaultBreakpoint, store.Breakpoint())
}

func TestFetchOrdersSuccess(t *testing.T) {
	hook := &recordingHook{}
	telemetry := &recordingTelemetry{}
	api := &stubAPI{orders: sampleOrders(35)}
	store := newTestStore(api, func(o *Options) {
		o.RefreshHook = hook
		o.Telemetry = telemetry
	})

	require.NoError(t, store.FetchOrders(context.Background()))

	state := store.Snapshot()
	assert.Equal(t, ResourceSucceeded, state.Orders.List.Status)
	assert.Len(t, state.Orders.List.Data, 35)
	assert.Equal(t, []string{ReasonFetchStarted, ReasonFetchSucceeded}, hook.reasons())
	assert.True(t, telemetry.has("dashboard.fetch"))
}

func TestFetchFailureKeepsPreviousData(t *testing.T) {
	api := &stubAPI{sidebar: SidebarFeed{Contacts: []string{"Drew Cano"}}}
	store := newTestStore(api)
	require.NoError(t, store.FetchSidebar(context.Background()))

	api.setErr(errBoom)
	err := store.FetchSidebar(context.Background())
	require.ErrorIs(t, err, ErrFetchFailed)
	require.ErrorIs(t, err, errBoom)

	state := store.Snapshot()
	assert.Equal(t, ResourceFailed, state.Sidebar.Status)
	assert.Equal(t, "network down", state.Sidebar.Error)
	assert.Equal(t, []string{"Drew Cano"}, state.Sidebar.Data.Contacts)
	assert.True(t, state.Sidebar.Stale())

	api.setErr(nil)
	require.NoError(t, store.FetchSidebar(context.Background()))
	assert.Equal(t, ResourceSucceeded, store.Snapshot().Sidebar.Status)
}

func TestFetchWithoutProvider(t *testing.T) {
	store := NewStore(Options{})
	assert.Error(t, store.FetchOrders(context.Background()))
	assert.Error(t, store.FetchDashboard(context.Background()))
	assert.Error(t, store.FetchSidebar(context.Background()))
	assert.ErrorIs(t, store.Fetch(context.Background(), Slice("widgets")), ErrUnknownSlice)
	assert.Equal(t, ResourceIdle, store.Snapshot().Orders.List.Status)
}

func TestConcurrentFetchesShareOneProviderCall(t *testing.T) {
	gate := make(chan struct{})
	api := &stubAPI{dashboard: DashboardData{Stats: []StatCard{{Title: "Orders"}}}, gate: gate}
	store := newTestStore(api)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = store.FetchDashboard(context.Background())
		}()
	}
	require.Eventually(t, func() bool {
		status, _ := store.Status(SliceDashboard)
		return status == ResourceLoading
	}, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), api.calls.Load())
	assert.Equal(t, ResourceSucceeded, store.Snapshot().Dashboard.Status)
}

func TestResetDiscardsInFlightResult(t *testing.T) {
	gate := make(chan struct{})
	api := &stubAPI{orders: sampleOrders(3), gate: gate}
	telemetry := &recordingTelemetry{}
	store := newTestStore(api, func(o *Options) { o.Telemetry = telemetry })

	done := make(chan error, 1)
	go func() { done <- store.FetchOrders(context.Background()) }()
	require.Eventually(t, func() bool {
		status, _ := store.Status(SliceOrders)
		return status == ResourceLoading
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, store.Reset(context.Background(), SliceOrders))
	close(gate)
	require.NoError(t, <-done)

	state := store.Snapshot()
	assert.Equal(t, ResourceIdle, state.Orders.List.Status)
	assert.Empty(t, state.Orders.List.Data)
	assert.True(t, telemetry.has("dashboard.fetch.discarded"))
}

func TestFetchCallerCancellationLeavesFlightRunning(t *testing.T) {
	gate := make(chan struct{})
	api := &stubAPI{orders: sampleOrders(2), gate: gate}
	store := newTestStore(api)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.FetchOrders(ctx) }()
	require.Eventually(t, func() bool {
		status, _ := store.Status(SliceOrders)
		return status == ResourceLoading
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(gate)
	require.Eventually(t, func() bool {
		return store.Snapshot().Orders.List.Ready()
	}, time.Second, 5*time.Millisecond)
	assert.Len(t, store.Snapshot().Orders.List.Data, 2)
}

func TestEnsureLoadedOnlyFetchesIdle(t *testing.T) {
	api := &stubAPI{orders: sampleOrders(4), sidebar: SidebarFeed{Contacts: []string{"a"}}}
	store := newTestStore(api)

	require.NoError(t, store.EnsureLoaded(context.Background(), SliceSidebar, SliceOrders, SliceLayout))
	assert.Equal(t, int32(2), api.calls.Load())

	require.NoError(t, store.EnsureLoaded(context.Background(), SliceSidebar, SliceOrders))
	assert.Equal(t, int32(2), api.calls.Load(), "loaded slices are not refetched")

	api.setErr(errBoom)
	require.Error(t, store.FetchSidebar(context.Background()))
	require.NoError(t, store.EnsureLoaded(context.Background(), SliceSidebar))
	assert.Equal(t, int32(3), api.calls.Load(), "failed slices wait for an explicit refetch")
}

func TestPrefetchRunsInBackground(t *testing.T) {
	api := &stubAPI{dashboard: DashboardData{Stats: []StatCard{{Title: "Revenue"}}}}
	store := newTestStore(api)

	store.Prefetch(context.Background(), SliceDashboard)
	require.Eventually(t, func() bool {
		return store.Snapshot().Dashboard.Ready()
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "Revenue", store.Snapshot().Dashboard.Data.Stats[0].Title)
}

func TestAddOrderPrependsWithGeneratedID(t *testing.T) {
	hook := &recordingHook{}
	capture := &activity.CaptureHook{}
	api := &stubAPI{orders: sampleOrders(35)}
	store := newTestStore(api, func(o *Options) {
		o.RefreshHook = hook
		o.ActivityHooks = activity.Hooks{capture}
		o.ActivityConfig = activity.Config{Enabled: true, Channel: "admin"}
	})
	require.NoError(t, store.FetchOrders(context.Background()))

	ctx := WithActor(context.Background(), Actor{ID: "ops-1"})
	order, err := store.AddOrder(ctx, validCandidate())
	require.NoError(t, err)
	assert.Equal(t, "#CM9836", order.ID)
	assert.Equal(t, DefaultOrderDate, order.Date)

	state := store.Snapshot()
	require.Len(t, state.Orders.List.Data, 36)
	assert.Equal(t, order, state.Orders.List.Data[0])
	assert.Equal(t, ResourceSucceeded, state.Orders.Adding.Status)
	assert.Equal(t, order, state.Orders.Adding.Data)
	assert.Equal(t, ResourceSucceeded, state.Orders.List.Status)

	assert.Contains(t, hook.reasons(), ReasonOrderAdded)
	require.Len(t, capture.Events, 1)
	assert.Equal(t, "admin.order.add", capture.Events[0].Verb)
	assert.Equal(t, "#CM9836", capture.Events[0].ObjectID)
	assert.Equal(t, "ops-1", capture.Events[0].ActorID)
	assert.Equal(t, "admin", capture.Events[0].Channel)
}

func TestAddOrderKeepsProviderID(t *testing.T) {
	api := &stubAPI{assignIDs: true}
	store := newTestStore(api)

	order, err := store.AddOrder(context.Background(), validCandidate())
	require.NoError(t, err)
	assert.Equal(t, "#CM9901", order.ID)
	assert.Equal(t, ResourceIdle, store.Snapshot().Orders.List.Status, "adding does not touch the list lifecycle")
}

func TestAddOrderRejectsInvalidCandidate(t *testing.T) {
	api := &stubAPI{}
	store := newTestStore(api)

	_, err := store.AddOrder(context.Background(), OrderCandidate{Status: OrderPending})
	require.ErrorIs(t, err, ErrInvalidOrder)
	assert.Equal(t, int32(0), api.addCalls.Load())

	state := store.Snapshot()
	assert.Equal(t, ResourceFailed, state.Orders.Adding.Status)
	assert.Empty(t, state.Orders.List.Data)
}

func TestAddOrderProviderFailure(t *testing.T) {
	api := &stubAPI{orders: sampleOrders(2)}
	store := newTestStore(api)
	require.NoError(t, store.FetchOrders(context.Background()))

	api.setErr(errBoom)
	_, err := store.AddOrder(context.Background(), validCandidate())
	require.ErrorIs(t, err, errBoom)

	state := store.Snapshot()
	assert.Equal(t, ResourceFailed, state.Orders.Adding.Status)
	assert.Len(t, state.Orders.List.Data, 2)
}

func TestAddOrderRejectsDuplicateProviderID(t *testing.T) {
	api := &stubAPI{orders: []Order{{ID: "#CM9901"}}, assignIDs: true}
	store := newTestStore(api)
	require.NoError(t, store.FetchOrders(context.Background()))

	_, err := store.AddOrder(context.Background(), validCandidate())
	assert.ErrorIs(t, err, ErrDuplicateOrderID)
	assert.Len(t, store.Snapshot().Orders.List.Data, 1)
}

func TestAddedOrderIsSubjectToFilters(t *testing.T) {
	api := &stubAPI{orders: sampleOrders(35)}
	store := newTestStore(api)
	require.NoError(t, store.FetchOrders(context.Background()))

	view := store.SetGlobalFilter(context.Background(), "ada")
	assert.True(t, view.Empty())

	_, err := store.AddOrder(context.Background(), validCandidate())
	require.NoError(t, err)

	view = store.OrdersTable()
	require.Equal(t, 1, view.Filtered)
	assert.Equal(t, "Ada Lovelace", view.Rows[0].User.Name)
}

func TestOrdersScenario(t *testing.T) {
	api := &stubAPI{orders: sampleOrders(35)}
	store := newTestStore(api)
	ctx := context.Background()
	require.NoError(t, store.FetchOrders(ctx))

	store.NextPage(ctx)
	view := store.SetGlobalFilter(ctx, "Natali")
	assert.Equal(t, 0, view.PageIndex)
	assert.Equal(t, 5, view.Filtered)
	assert.Equal(t, 1, view.PageCount)

	store.SetGlobalFilter(ctx, "")
	view = store.SetStatusFilter(ctx, OrderComplete, OrderPending)
	assert.Equal(t, 14, view.Filtered)
	assert.Equal(t, 2, view.PageCount)

	view = store.NextPage(ctx)
	assert.Equal(t, 1, view.PageIndex)
	assert.Len(t, view.Rows, 6)
	view = store.NextPage(ctx)
	assert.Equal(t, 1, view.PageIndex, "no-op on the last page")

	view = store.ToggleSort(ctx, ColumnID, false)
	assert.Equal(t, 1, view.PageIndex, "sorting keeps the page")
	view = store.ToggleSort(ctx, ColumnID, false)
	assert.Equal(t, "#CM9813", view.Rows[0].ID)

	view = store.SetPageSize(ctx, 4)
	assert.Equal(t, 2, view.PageIndex)
	view = store.SetPageIndex(ctx, 99)
	assert.Equal(t, 3, view.PageIndex)
	view = store.PreviousPage(ctx)
	assert.Equal(t, 2, view.PageIndex)

	view = store.ClearSorting(ctx)
	assert.Empty(t, view.State.Sorting)
	view = store.SetPagination(ctx, Pagination{PageIndex: 0, PageSize: 8})
	assert.Equal(t, 8, view.PageSize)
}

func TestLayoutTransitionsThroughStore(t *testing.T) {
	hook := &recordingHook{}
	store := NewStore(Options{RefreshHook: hook, Breakpoint: 1024})
	ctx := context.Background()

	l := store.ApplyViewport(ctx, 900)
	assert.False(t, l.LeftPanelOpen)
	l = store.ToggleRightPanel(ctx)
	assert.True(t, l.RightPanelOpen)
	l = store.OutsideClick(ctx, RegionContent)
	assert.False(t, l.RightPanelOpen)
	l = store.SetLeftPanel(ctx, true)
	assert.True(t, l.LeftPanelOpen)
	l = store.ToggleLeftPanel(ctx)
	assert.False(t, l.LeftPanelOpen)
	l = store.SetRightPanel(ctx, true)
	assert.Equal(t, l, store.Layout())

	require.NoError(t, store.Reset(ctx, SliceLayout))
	assert.Equal(t, NewLayoutState(), store.Layout())
	assert.Contains(t, hook.reasons(), "layout.viewport")
}

func TestRefreshHookErrorsAreRecorded(t *testing.T) {
	hook := &recordingHook{err: errors.New("closed")}
	telemetry := &recordingTelemetry{}
	store := NewStore(Options{RefreshHook: hook, Telemetry: telemetry})

	store.ToggleLeftPanel(context.Background())
	assert.True(t, telemetry.has("dashboard.refresh_hook.error"))
}

func TestSnapshotIsACopy(t *testing.T) {
	api := &stubAPI{orders: sampleOrders(3)}
	store := newTestStore(api)
	require.NoError(t, store.FetchOrders(context.Background()))

	snap := store.Snapshot()
	snap.Orders.List.Data[0].ID = "mutated"
	assert.Equal(t, "#CM9801", store.Snapshot().Orders.List.Data[0].ID)
}

func TestResetUnknownSlice(t *testing.T) {
	store := NewStore(Options{})
	assert.ErrorIs(t, store.Reset(context.Background(), "widgets"), ErrUnknownSlice)
	_, err := ParseSlice("Orders")
	assert.NoError(t, err)
}

func TestPagingClampsStoredCursor(t *testing.T) {
	store := newTestStore(&stubAPI{orders: sampleOrders(35)})
	ctx := context.Background()
	require.NoError(t, store.FetchOrders(ctx))

	view := store.SetPagination(ctx, Pagination{PageIndex: 100, PageSize: 8})
	assert.Equal(t, 4, view.PageIndex)
	assert.Equal(t, 4, view.State.Pagination.PageIndex)
	assert.Equal(t, 4, store.Snapshot().Orders.Table.Pagination.PageIndex)

	view = store.PreviousPage(ctx)
	assert.Equal(t, 3, view.PageIndex)

	store.SetPagination(ctx, Pagination{PageIndex: 100, PageSize: 8})
	view = store.SetPageSize(ctx, 5)
	assert.Equal(t, 6, view.PageIndex, "row 33 stays visible")
	assert.Equal(t, "#CM9831", view.Rows[0].ID)
}

func TestOrdersTableCarriesListStatus(t *testing.T) {
	api := &stubAPI{orders: sampleOrders(35), err: errBoom}
	store := newTestStore(api)
	ctx := context.Background()

	require.Error(t, store.FetchOrders(ctx))
	view := store.OrdersTable()
	assert.Equal(t, ResourceFailed, view.Status)
	assert.Contains(t, view.Error, errBoom.Error())
	assert.False(t, view.Stale)
	assert.False(t, view.NoResults(), "a failed load is not an empty result")

	api.setErr(nil)
	require.NoError(t, store.FetchOrders(ctx))
	view = store.SetGlobalFilter(ctx, "zzz")
	assert.Equal(t, ResourceSucceeded, view.Status)
	assert.True(t, view.NoResults())

	store.SetGlobalFilter(ctx, "")
	api.setErr(errBoom)
	require.Error(t, store.FetchOrders(ctx))
	view = store.OrdersTable()
	assert.Equal(t, ResourceFailed, view.Status)
	assert.True(t, view.Stale)
	assert.Len(t, view.Rows, DefaultPageSize)
}
