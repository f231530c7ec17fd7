package mockapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	dashboard "github.com/goliatone/go-admin-shell/components/dashboard"
)

// HTTPConfig configures the remote provider client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient implements dashboard.API against a handler built by NewHandler.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ dashboard.API = (*HTTPClient)(nil)

// NewHTTPClient builds a remote provider client.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("mockapi: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// FetchDashboard implements dashboard.DashboardAPI.
func (c *HTTPClient) FetchDashboard(ctx context.Context) (dashboard.DashboardData, error) {
	var data dashboard.DashboardData
	err := c.do(ctx, http.MethodGet, "/dashboard", nil, &data)
	return data, err
}

// FetchOrders implements dashboard.OrdersAPI.
func (c *HTTPClient) FetchOrders(ctx context.Context) ([]dashboard.Order, error) {
	var orders []dashboard.Order
	err := c.do(ctx, http.MethodGet, "/orders", nil, &orders)
	return orders, err
}

// AddOrder implements dashboard.OrdersAPI.
func (c *HTTPClient) AddOrder(ctx context.Context, candidate dashboard.OrderCandidate) (dashboard.Order, error) {
	var order dashboard.Order
	err := c.do(ctx, http.MethodPost, "/orders", candidate, &order)
	return order, err
}

// FetchSidebar implements dashboard.SidebarAPI.
func (c *HTTPClient) FetchSidebar(ctx context.Context) (dashboard.SidebarFeed, error) {
	var feed dashboard.SidebarFeed
	err := c.do(ctx, http.MethodGet, "/sidebar", nil, &feed)
	return feed, err
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return fmt.Errorf("mockapi: encode payload: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &body)
	if err != nil {
		return fmt.Errorf("mockapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("mockapi: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var remote errorBody
		_ = json.NewDecoder(resp.Body).Decode(&remote)
		if resp.StatusCode == http.StatusUnprocessableEntity {
			return fmt.Errorf("%w: %s", dashboard.ErrInvalidOrder, remote.Error)
		}
		return fmt.Errorf("mockapi: remote error %d: %s", resp.StatusCode, remote.Error)
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("mockapi: decode response: %w", err)
	}
	return nil
}
