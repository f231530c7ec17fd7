package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	testNames     = []string{"Natali Craig", "Kate Morrison", "Drew Cano", "Orlando Diggs", "Andi Lane", "Koray Okumus", "Phoenix Baker"}
	testProjects  = []string{"Landing Page", "CRM Admin pages", "Client Project", "Admin Dashboard", "App Landing Page", "Marketing Site", "SaaS Platform"}
	testAddresses = []string{"Meadow Lane Oakland", "Larry San Francisco", "Bagwell Avenue Ocala", "Washburn Baton Rouge", "Nest Lane Olivette", "Fifth Avenue NY", "Sunset Blvd LA"}
	testDates     = []string{"Just now", "A minute ago", "1 hour ago", "Yesterday", "Feb 2, 2023", "Mar 10, 2023"}
)

func sampleOrders(n int) []Order {
	statuses := OrderStatuses()
	out := make([]Order, n)
	for i := range n {
		out[i] = Order{
			ID:      fmt.Sprintf("#CM%d", 9801+i),
			User:    OrderUser{Name: testNames[i%7], Avatar: fmt.Sprintf("https://i.pravatar.cc/150?u=%d", i)},
			Project: testProjects[i%7],
			Address: testAddresses[i%7],
			Date:    testDates[i%6],
			Status:  statuses[i%5],
		}
	}
	return out
}

func validCandidate() OrderCandidate {
	return OrderCandidate{
		User:    OrderUser{Name: "Ada Lovelace"},
		Project: "Analytical Engine",
		Address: "Marylebone London",
		Status:  OrderPending,
	}
}

func sampleDashboard() DashboardData {
	return DashboardData{
		Stats: []StatCard{
			{Title: "Customers", Value: "3,781", Change: "+11.01%", Positive: true, Type: "customers"},
			{Title: "Orders", Value: "1,219", Change: "-0.03%", Positive: false, Type: "orders"},
		},
		Revenue: []RevenuePoint{
			{Month: "Jan", Current: 12, Previous: 8},
			{Month: "Feb", Current: 9, Previous: 14},
		},
		Projections: []ProjectionPoint{{Month: "Jan", Value: 17}, {Month: "Feb", Value: 20}},
		SalesDistribution: []SalesSlice{
			{Channel: "Direct", Value: 300.56, Fill: "#1C1C1C"},
			{Channel: "Sponsored", Value: 154.02, Fill: "#95A4FC"},
		},
		Locations:  []LocationMetric{{City: "New York", Value: 72, Label: "72K"}},
		TopSelling: []TopProduct{{Name: "ASOS Ridley High Waist", Price: "$79.49", Quantity: 82, Amount: "$6,518.18"}},
	}
}

// stubAPI serves canned payloads. gate, when set, blocks calls until closed.
type stubAPI struct {
	mu        sync.Mutex
	orders    []Order
	dashboard DashboardData
	sidebar   SidebarFeed
	err       error
	gate      chan struct{}
	calls     atomic.Int32
	addCalls  atomic.Int32
	assignIDs bool
}

func (s *stubAPI) wait(ctx context.Context) error {
	s.calls.Add(1)
	s.mu.Lock()
	gate := s.gate
	err := s.err
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (s *stubAPI) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *stubAPI) FetchOrders(ctx context.Context) ([]Order, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return cloneSlice(s.orders), nil
}

func (s *stubAPI) AddOrder(ctx context.Context, candidate OrderCandidate) (Order, error) {
	s.addCalls.Add(1)
	s.mu.Lock()
	err := s.err
	s.mu.Unlock()
	if err != nil {
		return Order{}, err
	}
	if s.assignIDs {
		return NewOrder(fmt.Sprintf("#CM%d", 9900+s.addCalls.Load()), candidate)
	}
	return Order{
		User:    candidate.User,
		Project: candidate.Project,
		Address: candidate.Address,
		Date:    candidate.Date,
		Status:  candidate.Status,
	}, nil
}

func (s *stubAPI) FetchDashboard(ctx context.Context) (DashboardData, error) {
	if err := s.wait(ctx); err != nil {
		return DashboardData{}, err
	}
	return s.dashboard.Clone(), nil
}

func (s *stubAPI) FetchSidebar(ctx context.Context) (SidebarFeed, error) {
	if err := s.wait(ctx); err != nil {
		return SidebarFeed{}, err
	}
	return s.sidebar.Clone(), nil
}

type recordingHook struct {
	mu     sync.Mutex
	events []StateEvent
	err    error
}

func (h *recordingHook) StateChanged(_ context.Context, event StateEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingHook) reasons() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.events))
	for i, e := range h.events {
		out[i] = e.Reason
	}
	return out
}

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingTelemetry) has(event string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == event {
			return true
		}
	}
	return false
}

var errBoom = errors.New("network down")
