package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrUnknownPage is returned for page codes the registry does not hold.
var ErrUnknownPage = errors.New("dashboard: unknown page")

// ControllerOptions wires the collaborators a Controller needs.
type ControllerOptions struct {
	Store     *Store
	Registry  *Registry
	Renderer  Renderer
	Charts    *ChartRenderer
	Telemetry Telemetry
	// APIPath is where the JSON API is mounted, used by page scripts.
	APIPath string
}

// Controller turns store snapshots into page payloads and rendered HTML.
type Controller struct {
	store     *Store
	registry  *Registry
	renderer  Renderer
	charts    *ChartRenderer
	telemetry Telemetry
	apiPath   string
}

// NewController validates options and fills defaults.
func NewController(opts ControllerOptions) (*Controller, error) {
	if opts.Store == nil {
		return nil, errors.New("dashboard: controller requires a store")
	}
	if opts.Registry == nil {
		reg, err := NewRegistry()
		if err != nil {
			return nil, err
		}
		opts.Registry = reg
	}
	if opts.Charts == nil {
		opts.Charts = NewChartRenderer()
	}
	if opts.APIPath == "" {
		opts.APIPath = "/api"
	}
	return &Controller{
		store:     opts.Store,
		registry:  opts.Registry,
		renderer:  opts.Renderer,
		charts:    opts.Charts,
		telemetry: normalizeTelemetry(opts.Telemetry),
		apiPath:   opts.APIPath,
	}, nil
}

// Registry exposes the page registry.
func (c *Controller) Registry() *Registry {
	return c.registry
}

// Store exposes the underlying store.
func (c *Controller) Store() *Store {
	return c.store
}

// PageRequest selects a page and its presentation.
type PageRequest struct {
	Page  string    `json:"page"`
	Theme ThemeMode `json:"theme"`
	// Width is the viewport width hint; zero leaves the layout untouched.
	Width int `json:"width,omitempty"`
}

// OrderRow is a table row with its status badge tone.
type OrderRow struct {
	Order
	Tone string `json:"tone"`
}

// OrdersPayload is the order page view model.
type OrdersPayload struct {
	Status   ResourceStatus  `json:"status"`
	Error    string          `json:"error,omitempty"`
	Stale    bool            `json:"stale,omitempty"`
	Adding   Resource[Order] `json:"adding"`
	Table    TableView       `json:"table"`
	Rows     []OrderRow      `json:"rows"`
	Columns  []Column        `json:"columns"`
	Statuses []OrderStatus   `json:"statuses"`
}

// ShellPayload is the frame around every page.
type ShellPayload struct {
	Layout     LayoutState           `json:"layout"`
	Breakpoint int                   `json:"breakpoint"`
	Navigation []NavSection          `json:"navigation"`
	Sidebar    Resource[SidebarFeed] `json:"sidebar"`
	APIPath    string                `json:"api_path"`
}

// PagePayload is everything a page template needs.
type PagePayload struct {
	ShellPayload
	Page      Page                     `json:"page"`
	Theme     ThemeMode                `json:"theme"`
	Dashboard *Resource[DashboardData] `json:"dashboard,omitempty"`
	Charts    map[string]string        `json:"charts,omitempty"`
	Orders    *OrdersPayload           `json:"orders,omitempty"`
}

// Shell loads the sidebar when idle and returns the shell frame.
func (c *Controller) Shell(ctx context.Context, activePath string) (ShellPayload, error) {
	if err := c.load(ctx, SliceSidebar); err != nil {
		return ShellPayload{}, err
	}
	return c.shell(c.store.Snapshot(), activePath), nil
}

// PagePayload loads the page's slices when idle and builds its view model.
// Fetch failures surface on the resources, not as errors.
func (c *Controller) PagePayload(ctx context.Context, req PageRequest) (PagePayload, error) {
	page, ok := c.registry.Page(req.Page)
	if !ok {
		return PagePayload{}, fmt.Errorf("%w: %q", ErrUnknownPage, req.Page)
	}
	if req.Width > 0 {
		c.store.ApplyViewport(ctx, req.Width)
	}
	if err := c.load(ctx, page.Slices...); err != nil {
		return PagePayload{}, err
	}
	if req.Theme == "" {
		req.Theme = ThemeLight
	}

	snapshot := c.store.Snapshot()
	payload := PagePayload{
		ShellPayload: c.shell(snapshot, page.Path),
		Page:         page,
		Theme:        req.Theme,
	}
	switch page.Code {
	case PageDashboard:
		payload.Dashboard = &snapshot.Dashboard
		if snapshot.Dashboard.HasData() {
			charts, err := c.charts.RenderAll(snapshot.Dashboard.Data, ChartTheme(req.Theme))
			if err != nil {
				c.telemetry.Record(ctx, "dashboard.chart.error", map[string]any{"error": err.Error()})
			} else {
				payload.Charts = charts
			}
		}
	case PageOrders:
		payload.Orders = ordersPayload(snapshot.Orders)
	}
	return payload, nil
}

// RenderPage renders the page template into out.
func (c *Controller) RenderPage(ctx context.Context, req PageRequest, out io.Writer) error {
	if c.renderer == nil {
		return errors.New("dashboard: renderer not configured")
	}
	payload, err := c.PagePayload(ctx, req)
	if err != nil {
		return err
	}
	data, err := templateData(payload)
	if err != nil {
		return err
	}
	if _, err := c.renderer.Render(payload.Page.Template, data, out); err != nil {
		return fmt.Errorf("dashboard: render %s: %w", payload.Page.Code, err)
	}
	c.telemetry.Record(ctx, "dashboard.page.render", map[string]any{
		"page":  payload.Page.Code,
		"theme": string(payload.Theme),
	})
	return nil
}

func (c *Controller) load(ctx context.Context, slices ...Slice) error {
	if err := c.store.EnsureLoaded(ctx, slices...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.telemetry.Record(ctx, "dashboard.page.load_error", map[string]any{"error": err.Error()})
	}
	return nil
}

func (c *Controller) shell(snapshot AppState, activePath string) ShellPayload {
	return ShellPayload{
		Layout:     snapshot.Layout,
		Breakpoint: c.store.Breakpoint(),
		Navigation: c.registry.Navigation(activePath),
		Sidebar:    snapshot.Sidebar,
		APIPath:    c.apiPath,
	}
}

func ordersPayload(orders OrdersState) *OrdersPayload {
	view := orders.View()
	rows := make([]OrderRow, len(view.Rows))
	for i, order := range view.Rows {
		rows[i] = OrderRow{Order: order, Tone: order.Status.Tone()}
	}
	return &OrdersPayload{
		Status:   orders.List.Status,
		Error:    orders.List.Error,
		Stale:    orders.List.Stale(),
		Adding:   orders.Adding,
		Table:    view,
		Rows:     rows,
		Columns:  OrderColumns(),
		Statuses: OrderStatuses(),
	}
}

// templateData flattens the payload into plain maps keyed by JSON names so
// templates address fields the same way API clients do.
func templateData(payload any) (map[string]any, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("dashboard: encode template data: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("dashboard: decode template data: %w", err)
	}
	return out, nil
}
