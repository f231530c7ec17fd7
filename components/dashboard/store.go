package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-admin-shell/pkg/activity"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrFetchFailed wraps provider errors surfaced by Fetch calls.
	ErrFetchFailed = errors.New("dashboard: fetch failed")
	// ErrUnknownSlice is returned for slice names the store does not hold.
	ErrUnknownSlice = errors.New("dashboard: unknown slice")

	errMissingOrdersAPI    = errors.New("dashboard: orders api not configured")
	errMissingDashboardAPI = errors.New("dashboard: dashboard api not configured")
	errMissingSidebarAPI   = errors.New("dashboard: sidebar api not configured")
)

// Slice names a top-level part of the application state.
type Slice string

const (
	SliceLayout    Slice = "layout"
	SliceSidebar   Slice = "sidebar"
	SliceDashboard Slice = "dashboard"
	SliceOrders    Slice = "orders"
)

// ParseSlice validates a slice name.
func ParseSlice(raw string) (Slice, error) {
	switch slice := Slice(strings.ToLower(strings.TrimSpace(raw))); slice {
	case SliceLayout, SliceSidebar, SliceDashboard, SliceOrders:
		return slice, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSlice, raw)
}

// Transition reasons carried by StateEvent.
const (
	ReasonFetchStarted   = "fetch.started"
	ReasonFetchSucceeded = "fetch.succeeded"
	ReasonFetchFailed    = "fetch.failed"
	ReasonReset          = "reset"
	ReasonAddStarted     = "order.add.started"
	ReasonOrderAdded     = "order.added"
	ReasonAddFailed      = "order.add.failed"
)

// OrdersState is the orders slice: the loaded list, the add-order lifecycle
// and the table query.
type OrdersState struct {
	List   Resource[[]Order] `json:"list"`
	Adding Resource[Order]   `json:"adding"`
	Table  TableState        `json:"table"`
}

// View computes the visible table page, tagged with the list lifecycle.
func (o OrdersState) View() TableView {
	view := BuildTable(o.List.Data, o.Table)
	view.Status = o.List.Status
	view.Error = o.List.Error
	view.Stale = o.List.Stale()
	return view
}

// AppState is the whole application state.
type AppState struct {
	Layout    LayoutState             `json:"layout"`
	Sidebar   Resource[SidebarFeed]   `json:"sidebar"`
	Dashboard Resource[DashboardData] `json:"dashboard"`
	Orders    OrdersState             `json:"orders"`
}

// NewAppState returns the startup state: panels open, resources idle.
func NewAppState(pageSize int) AppState {
	return AppState{
		Layout: NewLayoutState(),
		Orders: OrdersState{
			List:  Resource[[]Order]{Data: []Order{}},
			Table: NewTableState(pageSize),
		},
	}
}

// Clone returns a deep copy.
func (s AppState) Clone() AppState {
	out := s
	out.Sidebar.Data = s.Sidebar.Data.Clone()
	out.Dashboard.Data = s.Dashboard.Data.Clone()
	out.Orders.List.Data = cloneSlice(s.Orders.List.Data)
	out.Orders.Table = s.Orders.Table.Clone()
	return out
}

// Options configures the Store. Nil collaborators fall back to no-op defaults.
type Options struct {
	Orders         OrdersAPI
	Dashboard      DashboardAPI
	Sidebar        SidebarAPI
	IDs            IDGenerator
	RefreshHook    RefreshHook
	Telemetry      Telemetry
	ActivityHooks  activity.Hooks
	ActivityConfig activity.Config
	PageSize       int
	Breakpoint     int
	Now            func() time.Time
}

// Store owns the application state. Transitions are serialized; provider calls
// run outside the lock and land through generation-checked resolves.
type Store struct {
	opts     Options
	activity *activity.Emitter

	mu      sync.Mutex
	state   AppState
	flights singleflight.Group
}

// NewStore builds a Store with safe defaults.
func NewStore(opts Options) *Store {
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.IDs == nil {
		opts.IDs = NewSequentialIDs("#CM", 9801)
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Breakpoint <= 0 {
		opts.Breakpoint = DefaultBreakpoint
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		opts:     opts,
		activity: activity.NewEmitter(opts.ActivityHooks, opts.ActivityConfig),
		state:    NewAppState(opts.PageSize),
	}
}

// Breakpoint returns the configured narrow viewport threshold.
func (s *Store) Breakpoint() int {
	return s.opts.Breakpoint
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Layout returns the current panel visibility.
func (s *Store) Layout() LayoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Layout
}

// OrdersTable returns the visible page of the order table.
func (s *Store) OrdersTable() TableView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Orders.View()
}

// Status reports the lifecycle of a resource slice. Layout is always succeeded.
func (s *Store) Status(slice Slice) (ResourceStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch slice {
	case SliceLayout:
		return ResourceSucceeded, nil
	case SliceSidebar:
		return s.state.Sidebar.Status, nil
	case SliceDashboard:
		return s.state.Dashboard.Status, nil
	case SliceOrders:
		return s.state.Orders.List.Status, nil
	}
	return ResourceIdle, fmt.Errorf("%w: %q", ErrUnknownSlice, slice)
}

// Fetch (re)loads a resource slice regardless of its current status.
func (s *Store) Fetch(ctx context.Context, slice Slice) error {
	switch slice {
	case SliceSidebar:
		return s.FetchSidebar(ctx)
	case SliceDashboard:
		return s.FetchDashboard(ctx)
	case SliceOrders:
		return s.FetchOrders(ctx)
	case SliceLayout:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownSlice, slice)
}

// FetchOrders replaces the order list with the provider's.
func (s *Store) FetchOrders(ctx context.Context) error {
	if s.opts.Orders == nil {
		return errMissingOrdersAPI
	}
	return s.fetch(ctx, SliceOrders, fetchInto(s, SliceOrders,
		func(st *AppState) *Resource[[]Order] { return &st.Orders.List },
		s.opts.Orders.FetchOrders,
		func(orders []Order) []Order {
			if observer, ok := s.opts.IDs.(IDObserver); ok {
				observer.Observe(orderIDs(orders)...)
			}
			out := cloneSlice(orders)
			if out == nil {
				out = []Order{}
			}
			return out
		},
	))
}

// FetchDashboard replaces the overview payload.
func (s *Store) FetchDashboard(ctx context.Context) error {
	if s.opts.Dashboard == nil {
		return errMissingDashboardAPI
	}
	return s.fetch(ctx, SliceDashboard, fetchInto(s, SliceDashboard,
		func(st *AppState) *Resource[DashboardData] { return &st.Dashboard },
		s.opts.Dashboard.FetchDashboard,
		DashboardData.Clone,
	))
}

// FetchSidebar replaces the right panel feed.
func (s *Store) FetchSidebar(ctx context.Context) error {
	if s.opts.Sidebar == nil {
		return errMissingSidebarAPI
	}
	return s.fetch(ctx, SliceSidebar, fetchInto(s, SliceSidebar,
		func(st *AppState) *Resource[SidebarFeed] { return &st.Sidebar },
		s.opts.Sidebar.FetchSidebar,
		SidebarFeed.Clone,
	))
}

// EnsureLoaded fetches every listed slice that is still idle and waits for them.
func (s *Store) EnsureLoaded(ctx context.Context, slices ...Slice) error {
	group, gctx := errgroup.WithContext(ctx)
	for _, slice := range s.idle(slices) {
		group.Go(func() error {
			return s.Fetch(gctx, slice)
		})
	}
	return group.Wait()
}

// Prefetch starts fetches for idle slices without waiting for them.
func (s *Store) Prefetch(ctx context.Context, slices ...Slice) {
	detached := context.WithoutCancel(ctx)
	for _, slice := range s.idle(slices) {
		go func() {
			if err := s.Fetch(detached, slice); err != nil {
				s.recordTelemetry(detached, "dashboard.prefetch.error", map[string]any{
					"slice": string(slice),
					"error": err.Error(),
				})
			}
		}()
	}
}

func (s *Store) idle(slices []Slice) []Slice {
	out := make([]Slice, 0, len(slices))
	for _, slice := range slices {
		status, err := s.Status(slice)
		if err != nil || slice == SliceLayout {
			continue
		}
		if status == ResourceIdle {
			out = append(out, slice)
		}
	}
	return out
}

// Reset returns a slice to its startup state. Results of fetches still in
// flight for that slice are discarded.
func (s *Store) Reset(ctx context.Context, slice Slice) error {
	s.mu.Lock()
	switch slice {
	case SliceLayout:
		s.state.Layout = NewLayoutState()
	case SliceSidebar:
		s.state.Sidebar.Reset()
	case SliceDashboard:
		s.state.Dashboard.Reset()
	case SliceOrders:
		s.state.Orders.List.Reset()
		s.state.Orders.List.Data = []Order{}
		s.state.Orders.Adding.Reset()
		s.state.Orders.Table = NewTableState(s.opts.PageSize)
	default:
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownSlice, slice)
	}
	s.mu.Unlock()
	s.flights.Forget(string(slice))
	s.notify(ctx, StateEvent{Slice: slice, Reason: ReasonReset, Status: ResourceIdle})
	s.recordTelemetry(ctx, "dashboard.reset", map[string]any{"slice": string(slice)})
	return nil
}

func (s *Store) fetch(ctx context.Context, slice Slice, run func(context.Context) error) error {
	ch := s.flights.DoChan(string(slice), func() (any, error) {
		return nil, run(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

func fetchInto[T any](
	s *Store,
	slice Slice,
	pick func(*AppState) *Resource[T],
	load func(context.Context) (T, error),
	keep func(T) T,
) func(context.Context) error {
	return func(ctx context.Context) error {
		s.mu.Lock()
		token := pick(&s.state).Begin()
		s.mu.Unlock()
		s.notify(ctx, StateEvent{Slice: slice, Reason: ReasonFetchStarted, Status: ResourceLoading})

		started := s.opts.Now()
		data, err := load(ctx)
		if err == nil && keep != nil {
			data = keep(data)
		}

		s.mu.Lock()
		res := pick(&s.state)
		var applied bool
		if err != nil {
			applied = res.Reject(token, err)
		} else {
			applied = res.Resolve(token, data)
		}
		status := res.Status
		s.mu.Unlock()

		payload := map[string]any{
			"slice":       string(slice),
			"duration_ms": s.opts.Now().Sub(started).Milliseconds(),
		}
		if err != nil {
			payload["error"] = err.Error()
			err = fmt.Errorf("%w: %s: %w", ErrFetchFailed, slice, err)
		}
		if !applied {
			s.recordTelemetry(ctx, "dashboard.fetch.discarded", payload)
			return err
		}

		payload["status"] = status.String()
		event := StateEvent{Slice: slice, Reason: ReasonFetchSucceeded, Status: status}
		if err != nil {
			event.Reason = ReasonFetchFailed
			event.Error = payload["error"].(string)
		}
		s.notify(ctx, event)
		s.recordTelemetry(ctx, "dashboard.fetch", payload)
		return err
	}
}

// AddOrder submits a candidate and prepends the created order to the list.
// Orders returned without an id get one from the configured IDGenerator.
func (s *Store) AddOrder(ctx context.Context, candidate OrderCandidate) (Order, error) {
	if s.opts.Orders == nil {
		return Order{}, errMissingOrdersAPI
	}

	s.mu.Lock()
	token := s.state.Orders.Adding.Begin()
	s.mu.Unlock()
	s.notify(ctx, StateEvent{Slice: SliceOrders, Reason: ReasonAddStarted, Status: ResourceLoading})

	var order Order
	err := candidate.Validate()
	if err == nil {
		order, err = s.opts.Orders.AddOrder(ctx, candidate)
	}

	s.mu.Lock()
	if err == nil {
		current := s.state.Orders.List.Data
		var next []Order
		if strings.TrimSpace(order.ID) == "" {
			next, order, err = InsertOrder(current, order.Candidate(), s.opts.IDs)
		} else {
			next, err = PrependOrder(current, order)
		}
		if err == nil {
			s.state.Orders.List.Mutate(func([]Order) []Order { return next })
		}
	}
	if err != nil {
		s.state.Orders.Adding.Reject(token, err)
	} else {
		s.state.Orders.Adding.Resolve(token, order)
	}
	s.mu.Unlock()

	if err != nil {
		s.notify(ctx, StateEvent{Slice: SliceOrders, Reason: ReasonAddFailed, Status: ResourceFailed, Error: err.Error()})
		s.recordTelemetry(ctx, "dashboard.order.add_failed", map[string]any{"error": err.Error()})
		return Order{}, err
	}

	s.notify(ctx, StateEvent{Slice: SliceOrders, Reason: ReasonOrderAdded, Status: ResourceSucceeded})
	s.recordTelemetry(ctx, "dashboard.order.add", map[string]any{
		"order_id": order.ID,
		"status":   string(order.Status),
	})
	actor := ActorFrom(ctx)
	s.emitActivity(ctx, activity.Event{
		Verb:       "admin.order.add",
		ActorID:    actor.ID,
		UserID:     actor.UserID,
		TenantID:   actor.TenantID,
		ObjectType: "order",
		ObjectID:   order.ID,
		Metadata: map[string]any{
			"customer": order.User.Name,
			"project":  order.Project,
			"status":   string(order.Status),
		},
	})
	return order, nil
}

// UpdateTable applies a table transition. The callback receives the number of
// rows left after filtering so page moves can clamp. The stored cursor is
// clamped to the pages available before and after the transition.
func (s *Store) UpdateTable(ctx context.Context, op string, fn func(state TableState, filtered int) TableState) TableView {
	s.mu.Lock()
	orders := &s.state.Orders
	filtered := len(FilterOrders(orders.List.Data, orders.Table.GlobalFilter, orders.Table.ColumnFilters))
	current := orders.Table.WithPageIndex(orders.Table.Pagination.PageIndex, filtered)
	orders.Table = fn(current, filtered)
	view := orders.View()
	orders.Table.Pagination.PageIndex = view.PageIndex
	view.State = orders.Table.Clone()
	s.mu.Unlock()

	s.notify(ctx, StateEvent{Slice: SliceOrders, Reason: "table." + op})
	s.recordTelemetry(ctx, "dashboard.table.update", map[string]any{
		"op":         op,
		"page_index": view.PageIndex,
		"filtered":   view.Filtered,
	})
	return view
}

// SetGlobalFilter replaces the search text and returns to the first page.
func (s *Store) SetGlobalFilter(ctx context.Context, text string) TableView {
	return s.UpdateTable(ctx, "filter", func(t TableState, _ int) TableState { return t.WithGlobalFilter(text) })
}

// SetSorting replaces the sort list.
func (s *Store) SetSorting(ctx context.Context, rules []SortRule) TableView {
	return s.UpdateTable(ctx, "sort", func(t TableState, _ int) TableState { return t.WithSorting(rules) })
}

// ToggleSort cycles a column's sort direction.
func (s *Store) ToggleSort(ctx context.Context, column ColumnKey, multi bool) TableView {
	return s.UpdateTable(ctx, "toggle_sort", func(t TableState, _ int) TableState { return t.ToggleSort(column, multi) })
}

// ClearSorting drops every sort key.
func (s *Store) ClearSorting(ctx context.Context) TableView {
	return s.UpdateTable(ctx, "clear_sort", func(t TableState, _ int) TableState { return t.ClearSorting() })
}

// SetColumnFilters replaces the column filters and returns to the first page.
func (s *Store) SetColumnFilters(ctx context.Context, filters []ColumnFilter) TableView {
	return s.UpdateTable(ctx, "column_filters", func(t TableState, _ int) TableState { return t.WithColumnFilters(filters) })
}

// SetStatusFilter replaces the status multi-select.
func (s *Store) SetStatusFilter(ctx context.Context, statuses ...OrderStatus) TableView {
	return s.UpdateTable(ctx, "status_filter", func(t TableState, _ int) TableState { return t.WithStatusFilter(statuses...) })
}

// SetPagination replaces the page cursor.
func (s *Store) SetPagination(ctx context.Context, p Pagination) TableView {
	return s.UpdateTable(ctx, "pagination", func(t TableState, _ int) TableState { return t.WithPagination(p) })
}

// SetPageIndex moves to a page, clamped to the available pages.
func (s *Store) SetPageIndex(ctx context.Context, index int) TableView {
	return s.UpdateTable(ctx, "page", func(t TableState, n int) TableState { return t.WithPageIndex(index, n) })
}

// NextPage advances one page.
func (s *Store) NextPage(ctx context.Context) TableView {
	return s.UpdateTable(ctx, "next_page", func(t TableState, n int) TableState { return t.NextPage(n) })
}

// PreviousPage goes back one page.
func (s *Store) PreviousPage(ctx context.Context) TableView {
	return s.UpdateTable(ctx, "previous_page", func(t TableState, n int) TableState { return t.PreviousPage(n) })
}

// SetPageSize changes the page size keeping the first visible row.
func (s *Store) SetPageSize(ctx context.Context, size int) TableView {
	return s.UpdateTable(ctx, "page_size", func(t TableState, _ int) TableState { return t.WithPageSize(size) })
}

// UpdateLayout applies a layout transition.
func (s *Store) UpdateLayout(ctx context.Context, op string, fn func(LayoutState) LayoutState) LayoutState {
	s.mu.Lock()
	before := s.state.Layout
	s.state.Layout = fn(before)
	after := s.state.Layout
	s.mu.Unlock()

	if before != after {
		s.notify(ctx, StateEvent{Slice: SliceLayout, Reason: "layout." + op})
	}
	s.recordTelemetry(ctx, "dashboard.layout.update", map[string]any{
		"op":    op,
		"left":  after.LeftPanelOpen,
		"right": after.RightPanelOpen,
	})
	return after
}

// SetLeftPanel forces the left panel open or closed.
func (s *Store) SetLeftPanel(ctx context.Context, open bool) LayoutState {
	return s.UpdateLayout(ctx, "set_left", func(l LayoutState) LayoutState { return l.SetLeftPanel(open) })
}

// ToggleLeftPanel flips the left panel.
func (s *Store) ToggleLeftPanel(ctx context.Context) LayoutState {
	return s.UpdateLayout(ctx, "toggle_left", LayoutState.ToggleLeftPanel)
}

// SetRightPanel forces the right panel open or closed.
func (s *Store) SetRightPanel(ctx context.Context, open bool) LayoutState {
	return s.UpdateLayout(ctx, "set_right", func(l LayoutState) LayoutState { return l.SetRightPanel(open) })
}

// ToggleRightPanel flips the right panel.
func (s *Store) ToggleRightPanel(ctx context.Context) LayoutState {
	return s.UpdateLayout(ctx, "toggle_right", LayoutState.ToggleRightPanel)
}

// ApplyViewport applies the responsive rule for the reported width.
func (s *Store) ApplyViewport(ctx context.Context, width int) LayoutState {
	return s.UpdateLayout(ctx, "viewport", func(l LayoutState) LayoutState { return l.ApplyViewport(width, s.opts.Breakpoint) })
}

// OutsideClick closes open panels on narrow viewports when the click missed them.
func (s *Store) OutsideClick(ctx context.Context, target Region) LayoutState {
	return s.UpdateLayout(ctx, "outside_click", func(l LayoutState) LayoutState { return l.OutsideClick(target) })
}

// ToggleNavigation flips the left panel, closing the right one on narrow viewports.
func (s *Store) ToggleNavigation(ctx context.Context) LayoutState {
	return s.UpdateLayout(ctx, "toggle_navigation", LayoutState.ToggleNavigation)
}

// ToggleNotifications flips the right panel, closing the left one on narrow viewports.
func (s *Store) ToggleNotifications(ctx context.Context) LayoutState {
	return s.UpdateLayout(ctx, "toggle_notifications", LayoutState.ToggleNotifications)
}

// DismissOverlay closes both panels.
func (s *Store) DismissOverlay(ctx context.Context) LayoutState {
	return s.UpdateLayout(ctx, "dismiss_overlay", LayoutState.DismissOverlay)
}

func (s *Store) notify(ctx context.Context, event StateEvent) {
	if event.At.IsZero() {
		event.At = s.opts.Now()
	}
	if err := s.opts.RefreshHook.StateChanged(ctx, event); err != nil {
		s.recordTelemetry(ctx, "dashboard.refresh_hook.error", map[string]any{
			"slice": string(event.Slice),
			"error": err.Error(),
		})
	}
}

func (s *Store) emitActivity(ctx context.Context, event activity.Event) {
	if err := s.activity.Emit(ctx, event); err != nil {
		s.recordTelemetry(ctx, "dashboard.activity.error", map[string]any{
			"verb":  event.Verb,
			"error": err.Error(),
		})
	}
}

func (s *Store) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

type noopRefreshHook struct{}

func (noopRefreshHook) StateChanged(context.Context, StateEvent) error { return nil }
