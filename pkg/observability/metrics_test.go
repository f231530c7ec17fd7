package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func scrape(t *testing.T, metrics *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	return rr.Body.String()
}

func TestMetricsRecordCountsEvents(t *testing.T) {
	metrics := NewMetrics()
	metrics.Record(context.Background(), "dashboard.fetch", map[string]any{"slice": "orders", "status": "failed"})
	metrics.Record(context.Background(), "dashboard.fetch", map[string]any{"slice": "orders", "status": "succeeded"})

	body := scrape(t, metrics)
	if !strings.Contains(body, `admin_shell_events_total{event="dashboard.fetch"} 2`) {
		t.Fatalf("expected event counter, got: %s", body)
	}
	if !strings.Contains(body, `admin_shell_resource_failures_total{slice="orders"} 1`) {
		t.Fatalf("expected failure counter, got: %s", body)
	}
}

func TestMetricsTrackSubscribers(t *testing.T) {
	metrics := NewMetrics()
	metrics.TrackSubscribers(func() int { return 3 })
	metrics.TrackSubscribers(func() int { return 9 })

	body := scrape(t, metrics)
	if !strings.Contains(body, "admin_shell_live_subscribers 3") {
		t.Fatalf("expected gauge from the first registration, got: %s", body)
	}
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := w.(http.Flusher); !ok {
			t.Errorf("expected recorder to expose Flush")
		}
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/api/orders")

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, rr.Code)
	}

	body := scrape(t, metrics)
	if !strings.Contains(body, `admin_shell_http_requests_total{code="418",route="/api/orders"} 1`) {
		t.Fatalf("expected metrics to record request, got: %s", body)
	}
	if !strings.Contains(body, `admin_shell_http_request_duration_seconds_bucket{route="/api/orders"`) {
		t.Fatalf("expected duration histogram, got: %s", body)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *Metrics
	metrics.Record(context.Background(), "x", nil)
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	if metrics.Middleware(next) == nil {
		t.Fatalf("expected passthrough handler")
	}
	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}
