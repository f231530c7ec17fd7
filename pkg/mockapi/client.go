package mockapi

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	dashboard "github.com/goliatone/go-admin-shell/components/dashboard"
	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Endpoint names a mock call, used to inject failures.
type Endpoint string

const (
	EndpointDashboard Endpoint = "dashboard"
	EndpointOrders    Endpoint = "orders"
	EndpointAddOrder  Endpoint = "add_order"
	EndpointSidebar   Endpoint = "sidebar"
)

// Options configures latency and fixtures. Zero delays respond immediately.
type Options struct {
	DashboardDelay time.Duration
	OrdersDelay    time.Duration
	AddOrderDelay  time.Duration
	SidebarDelay   time.Duration
	OrderCount     int
	MaxActivities  int
	IDs            dashboard.IDGenerator
}

// DefaultOptions returns the demo latencies: 2s for the overview, 1.5s otherwise.
func DefaultOptions() Options {
	return Options{
		DashboardDelay: 2 * time.Second,
		OrdersDelay:    1500 * time.Millisecond,
		AddOrderDelay:  1500 * time.Millisecond,
		SidebarDelay:   1500 * time.Millisecond,
		OrderCount:     DefaultOrderCount,
	}
}

// Client serves fixtures with simulated latency. It implements dashboard.API
// and the go-users activity sink, so recorded activity shows up in the
// sidebar feed.
type Client struct {
	opts Options

	mu        sync.RWMutex
	dashboard dashboard.DashboardData
	sidebar   dashboard.SidebarFeed
	orders    []dashboard.Order
	failures  map[Endpoint]error
}

var _ dashboard.API = (*Client)(nil)

// NewClient builds a mock client from options.
func NewClient(opts Options) *Client {
	if opts.OrderCount <= 0 {
		opts.OrderCount = DefaultOrderCount
	}
	if opts.MaxActivities <= 0 {
		opts.MaxActivities = 10
	}
	if opts.IDs == nil {
		opts.IDs = dashboard.NewSequentialIDs(OrderIDPrefix, int64(FirstOrderNumber+opts.OrderCount))
	}
	return &Client{
		opts:      opts,
		dashboard: DashboardFixture(),
		sidebar:   SidebarFixture(),
		orders:    GenerateOrders(opts.OrderCount),
		failures:  map[Endpoint]error{},
	}
}

// FailWith makes the endpoint return err until cleared with a nil error.
func (c *Client) FailWith(endpoint Endpoint, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.failures, endpoint)
		return
	}
	c.failures[endpoint] = err
}

// FetchDashboard implements dashboard.DashboardAPI.
func (c *Client) FetchDashboard(ctx context.Context) (dashboard.DashboardData, error) {
	if err := c.await(ctx, EndpointDashboard, c.opts.DashboardDelay); err != nil {
		return dashboard.DashboardData{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dashboard.Clone(), nil
}

// FetchOrders implements dashboard.OrdersAPI.
func (c *Client) FetchOrders(ctx context.Context) ([]dashboard.Order, error) {
	if err := c.await(ctx, EndpointOrders, c.opts.OrdersDelay); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]dashboard.Order(nil), c.orders...), nil
}

// AddOrder echoes the candidate back with a generated id. The fixture list is
// not modified, so a later FetchOrders returns the generated orders only.
func (c *Client) AddOrder(ctx context.Context, candidate dashboard.OrderCandidate) (dashboard.Order, error) {
	if err := c.await(ctx, EndpointAddOrder, c.opts.AddOrderDelay); err != nil {
		return dashboard.Order{}, err
	}
	return dashboard.NewOrder(c.opts.IDs.NextID(), candidate)
}

// FetchSidebar implements dashboard.SidebarAPI.
func (c *Client) FetchSidebar(ctx context.Context) (dashboard.SidebarFeed, error) {
	if err := c.await(ctx, EndpointSidebar, c.opts.SidebarDelay); err != nil {
		return dashboard.SidebarFeed{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sidebar.Clone(), nil
}

// Log records a go-users activity at the top of the sidebar activity list.
func (c *Client) Log(_ context.Context, record types.ActivityRecord) error {
	entry := dashboard.Activity{
		User: actorLabel(record.ActorID),
		Text: describe(record),
		Time: "Just now",
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	activities := append([]dashboard.Activity{entry}, c.sidebar.Activities...)
	if len(activities) > c.opts.MaxActivities {
		activities = activities[:c.opts.MaxActivities]
	}
	c.sidebar.Activities = activities
	return nil
}

func (c *Client) await(ctx context.Context, endpoint Endpoint, delay time.Duration) error {
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.failures[endpoint]; err != nil {
		return fmt.Errorf("mockapi: %s: %w", endpoint, err)
	}
	return nil
}

func actorLabel(id uuid.UUID) string {
	if id == uuid.Nil {
		return "system"
	}
	return id.String()[:8]
}

func describe(record types.ActivityRecord) string {
	action := record.Verb
	if idx := strings.LastIndex(action, "."); idx >= 0 {
		action = action[idx+1:]
	}
	switch action {
	case "add", "create":
		action = "Created"
	case "update":
		action = "Updated"
	case "remove", "delete":
		action = "Deleted"
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", action, record.ObjectType, record.ObjectID))
}
