package dashboard

import (
	"context"
	"time"
)

// OrdersAPI is the data boundary for the order list.
type OrdersAPI interface {
	FetchOrders(ctx context.Context) ([]Order, error)
	AddOrder(ctx context.Context, candidate OrderCandidate) (Order, error)
}

// DashboardAPI loads the analytics overview payload.
type DashboardAPI interface {
	FetchDashboard(ctx context.Context) (DashboardData, error)
}

// SidebarAPI loads the right-hand panel feed.
type SidebarAPI interface {
	FetchSidebar(ctx context.Context) (SidebarFeed, error)
}

// API is a convenience union for providers that serve every slice.
type API interface {
	OrdersAPI
	DashboardAPI
	SidebarAPI
}

// RefreshHook notifies transports (SSE/WebSocket/TUI) about state changes.
type RefreshHook interface {
	StateChanged(ctx context.Context, event StateEvent) error
}

// StateEvent describes a transition applied by the Store.
type StateEvent struct {
	Slice  Slice          `json:"slice"`
	Reason string         `json:"reason"`
	Status ResourceStatus `json:"status,omitempty"`
	Error  string         `json:"error,omitempty"`
	At     time.Time      `json:"at"`
}

// StatCard is a headline metric on the overview page.
type StatCard struct {
	Title    string `json:"title" yaml:"title"`
	Value    string `json:"value" yaml:"value"`
	Change   string `json:"change" yaml:"change"`
	Positive bool   `json:"is_positive" yaml:"is_positive"`
	Type     string `json:"type" yaml:"type"`
}

// RevenuePoint compares the current and previous period for a month.
type RevenuePoint struct {
	Month    string  `json:"name" yaml:"name"`
	Current  float64 `json:"current" yaml:"current"`
	Previous float64 `json:"previous" yaml:"previous"`
}

// ProjectionPoint is a projected value for a month.
type ProjectionPoint struct {
	Month string  `json:"name" yaml:"name"`
	Value float64 `json:"val" yaml:"val"`
}

// SalesSlice is one channel of the sales distribution.
type SalesSlice struct {
	Channel string  `json:"name" yaml:"name"`
	Value   float64 `json:"value" yaml:"value"`
	Fill    string  `json:"fill" yaml:"fill"`
}

// LocationMetric is revenue attributed to a city.
type LocationMetric struct {
	City  string  `json:"city" yaml:"city"`
	Value float64 `json:"value" yaml:"value"`
	Label string  `json:"label" yaml:"label"`
}

// TopProduct is a row of the top selling table.
type TopProduct struct {
	Name     string `json:"name" yaml:"name"`
	Price    string `json:"price" yaml:"price"`
	Quantity int    `json:"quantity" yaml:"quantity"`
	Amount   string `json:"amount" yaml:"amount"`
}

// DashboardData is the analytics overview payload.
type DashboardData struct {
	Stats             []StatCard        `json:"stats" yaml:"stats"`
	Revenue           []RevenuePoint    `json:"revenue_data" yaml:"revenue_data"`
	Projections       []ProjectionPoint `json:"projection_data" yaml:"projection_data"`
	SalesDistribution []SalesSlice      `json:"sales_distribution" yaml:"sales_distribution"`
	Locations         []LocationMetric  `json:"location_data" yaml:"location_data"`
	TopSelling        []TopProduct      `json:"top_selling" yaml:"top_selling"`
}

// Clone returns a deep copy.
func (d DashboardData) Clone() DashboardData {
	return DashboardData{
		Stats:             cloneSlice(d.Stats),
		Revenue:           cloneSlice(d.Revenue),
		Projections:       cloneSlice(d.Projections),
		SalesDistribution: cloneSlice(d.SalesDistribution),
		Locations:         cloneSlice(d.Locations),
		TopSelling:        cloneSlice(d.TopSelling),
	}
}

// Notification is an entry of the notifications list.
type Notification struct {
	Icon      string `json:"icon" yaml:"icon"`
	Text      string `json:"text" yaml:"text"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// Activity is an entry of the activities list. User is an avatar reference.
type Activity struct {
	User string `json:"user" yaml:"user"`
	Text string `json:"text" yaml:"text"`
	Time string `json:"time" yaml:"time"`
}

// SidebarFeed is the right panel payload.
type SidebarFeed struct {
	Notifications []Notification `json:"notifications" yaml:"notifications"`
	Activities    []Activity     `json:"activities" yaml:"activities"`
	Contacts      []string       `json:"contacts" yaml:"contacts"`
}

// Clone returns a deep copy.
func (f SidebarFeed) Clone() SidebarFeed {
	return SidebarFeed{
		Notifications: cloneSlice(f.Notifications),
		Activities:    cloneSlice(f.Activities),
		Contacts:      cloneSlice(f.Contacts),
	}
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
