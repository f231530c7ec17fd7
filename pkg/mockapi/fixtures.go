package mockapi

import (
	"fmt"

	dashboard "github.com/goliatone/go-admin-shell/components/dashboard"
)

// DefaultOrderCount is the size of the generated order list.
const DefaultOrderCount = 35

// OrderIDPrefix and FirstOrderNumber shape generated ids: #CM9801, #CM9802, ...
const (
	OrderIDPrefix    = "#CM"
	FirstOrderNumber = 9801
)

var (
	customerNames = []string{"Natali Craig", "Kate Morrison", "Drew Cano", "Orlando Diggs", "Andi Lane", "Koray Okumus", "Phoenix Baker"}
	projects      = []string{"Landing Page", "CRM Admin pages", "Client Project", "Admin Dashboard", "App Landing Page", "Marketing Site", "SaaS Platform"}
	addresses     = []string{"Meadow Lane Oakland", "Larry San Francisco", "Bagwell Avenue Ocala", "Washburn Baton Rouge", "Nest Lane Olivette", "Fifth Avenue NY", "Sunset Blvd LA"}
	relativeDates = []string{"Just now", "A minute ago", "1 hour ago", "Yesterday", "Feb 2, 2023", "Mar 10, 2023"}
)

// AvatarURL returns the placeholder avatar for a seed.
func AvatarURL(seed int) string {
	return fmt.Sprintf("https://i.pravatar.cc/150?u=%d", seed)
}

// GenerateOrders builds n deterministic orders.
func GenerateOrders(n int) []dashboard.Order {
	statuses := dashboard.OrderStatuses()
	orders := make([]dashboard.Order, 0, max(n, 0))
	for i := range max(n, 0) {
		orders = append(orders, dashboard.Order{
			ID: fmt.Sprintf("%s%d", OrderIDPrefix, FirstOrderNumber+i),
			User: dashboard.OrderUser{
				Name:   customerNames[i%len(customerNames)],
				Avatar: AvatarURL(i),
			},
			Project: projects[i%len(projects)],
			Address: addresses[i%len(addresses)],
			Date:    relativeDates[i%len(relativeDates)],
			Status:  statuses[i%len(statuses)],
		})
	}
	return orders
}

// DashboardFixture returns the overview payload.
func DashboardFixture() dashboard.DashboardData {
	return dashboard.DashboardData{
		Stats: []dashboard.StatCard{
			{Title: "Customers", Value: "3,781", Change: "+11.01%", Positive: true, Type: "customers"},
			{Title: "Orders", Value: "1,219", Change: "-0.03%", Positive: false, Type: "orders"},
			{Title: "Revenue", Value: "$695", Change: "+15.03%", Positive: true, Type: "revenue"},
			{Title: "Growth", Value: "30.1%", Change: "+6.08%", Positive: true, Type: "growth"},
		},
		Revenue: []dashboard.RevenuePoint{
			{Month: "Jan", Current: 12, Previous: 8},
			{Month: "Feb", Current: 16, Previous: 14},
			{Month: "Mar", Current: 17, Previous: 12},
			{Month: "Apr", Current: 13, Previous: 9},
			{Month: "May", Current: 18, Previous: 11},
			{Month: "Jun", Current: 24, Previous: 19},
		},
		Projections: []dashboard.ProjectionPoint{
			{Month: "Jan", Value: 18},
			{Month: "Feb", Value: 24},
			{Month: "Mar", Value: 21},
			{Month: "Apr", Value: 28},
			{Month: "May", Value: 16},
			{Month: "Jun", Value: 24},
		},
		SalesDistribution: []dashboard.SalesSlice{
			{Channel: "Direct", Value: 300.56, Fill: "#1C1C1C"},
			{Channel: "Affiliate", Value: 135.18, Fill: "#BAEDBD"},
			{Channel: "Sponsored", Value: 154.02, Fill: "#95A4FC"},
			{Channel: "E-mail", Value: 48.96, Fill: "#B1E3FF"},
		},
		Locations: []dashboard.LocationMetric{
			{City: "New York", Value: 72, Label: "72K"},
			{City: "San Francisco", Value: 39, Label: "39K"},
			{City: "Sydney", Value: 25, Label: "25K"},
			{City: "Singapore", Value: 61, Label: "61K"},
		},
		TopSelling: []dashboard.TopProduct{
			{Name: "ASOS Ridley High Waist", Price: "$79.49", Quantity: 82, Amount: "$6,518.18"},
			{Name: "Marco Lightweight Shirt", Price: "$128.50", Quantity: 37, Amount: "$4,754.50"},
			{Name: "Half Sleeve Shirt", Price: "$39.99", Quantity: 64, Amount: "$2,559.36"},
			{Name: "Lightweight Jacket", Price: "$20.00", Quantity: 184, Amount: "$3,680.00"},
			{Name: "Marco Shoes", Price: "$79.49", Quantity: 64, Amount: "$1,965.81"},
		},
	}
}

// SidebarFixture returns the right panel feed.
func SidebarFixture() dashboard.SidebarFeed {
	return dashboard.SidebarFeed{
		Notifications: []dashboard.Notification{
			{Icon: "bug", Text: "You have a bug that needs...", Timestamp: "Just now"},
			{Icon: "user-add", Text: "New user registered", Timestamp: "59 minutes ago"},
			{Icon: "bug", Text: "You have a bug that needs...", Timestamp: "12 hours ago"},
			{Icon: "broadcast", Text: "Andi Lane subscribed to you", Timestamp: "Today, 11:59 AM"},
		},
		Activities: []dashboard.Activity{
			{User: "1", Text: "You have a bug that needs...", Time: "Just now"},
			{User: "2", Text: "Released a new version", Time: "59 minutes ago"},
			{User: "3", Text: "Submitted a bug", Time: "12 hours ago"},
			{User: "4", Text: "Modified A data in Page X", Time: "Today, 11:59 AM"},
			{User: "5", Text: "Deleted a page in Project X", Time: "Feb 2, 2023"},
		},
		Contacts: []string{"Natali Craig", "Drew Cano", "Orlando Diggs", "Andi Lane", "Kate Morrison", "Koray Okumus"},
	}
}
