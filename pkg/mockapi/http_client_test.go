package mockapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	dashboard "github.com/goliatone/go-admin-shell/components/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRemote(t *testing.T, client *Client) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(NewHandler(client))
	t.Cleanup(server.Close)
	remote, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL + "/"})
	require.NoError(t, err)
	return remote
}

func TestHTTPClientRoundTrip(t *testing.T) {
	remote := newRemote(t, NewClient(Options{}))
	ctx := context.Background()

	orders, err := remote.FetchOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, GenerateOrders(35), orders)

	data, err := remote.FetchDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, DashboardFixture(), data)

	feed, err := remote.FetchSidebar(ctx)
	require.NoError(t, err)
	assert.Equal(t, SidebarFixture(), feed)

	order, err := remote.AddOrder(ctx, dashboard.OrderCandidate{
		User:    dashboard.OrderUser{Name: "Drew Cano"},
		Project: "Client Project",
		Address: "Fifth Avenue NY",
		Status:  dashboard.OrderComplete,
	})
	require.NoError(t, err)
	assert.Equal(t, "#CM9836", order.ID)
}

func TestHTTPClientMapsRemoteErrors(t *testing.T) {
	client := NewClient(Options{})
	client.FailWith(EndpointOrders, errors.New("maintenance"))
	remote := newRemote(t, client)

	_, err := remote.FetchOrders(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "maintenance")

	_, err = remote.AddOrder(context.Background(), dashboard.OrderCandidate{})
	assert.ErrorIs(t, err, dashboard.ErrInvalidOrder)
}

func TestHTTPClientSendsAuthHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("expected auth header, got %s", got)
		}
		_, _ = w.Write([]byte(`{"contacts":["Andi Lane"]}`))
	}))
	t.Cleanup(server.Close)

	remote, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL, APIKey: "secret"})
	require.NoError(t, err)
	feed, err := remote.FetchSidebar(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Andi Lane"}, feed.Contacts)
}

func TestNewHTTPClientRequiresBaseURL(t *testing.T) {
	_, err := NewHTTPClient(HTTPConfig{})
	assert.Error(t, err)
}
