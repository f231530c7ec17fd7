// Package observability exposes Prometheus metrics for the admin shell.
package observability

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects HTTP and store metrics. It satisfies the dashboard
// Telemetry interface so store events become counters.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	eventsTotal     *prometheus.CounterVec
	failuresTotal   *prometheus.CounterVec
	subscribers     prometheus.GaugeFunc
}

// NewMetrics builds a private registry with the base metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_shell_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "admin_shell_http_request_duration_seconds",
		Help:    "HTTP request duration by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_shell_events_total",
		Help: "Store and view events by name.",
	}, []string{"event"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_shell_resource_failures_total",
		Help: "Failed resource fetches by slice.",
	}, []string{"slice"})
	registry.MustRegister(requests, duration, events, failures)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		eventsTotal:     events,
		failuresTotal:   failures,
	}
}

// Record counts a telemetry event. Failed fetches are also counted per slice.
func (m *Metrics) Record(_ context.Context, event string, payload map[string]any) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(event).Inc()
	if !isFailure(event, payload) {
		return
	}
	if slice, ok := payload["slice"].(string); ok && slice != "" {
		m.failuresTotal.WithLabelValues(slice).Inc()
	}
}

func isFailure(event string, payload map[string]any) bool {
	if status, ok := payload["status"].(string); ok && status == "failed" {
		return true
	}
	return strings.HasSuffix(event, "failed") || strings.HasSuffix(event, "error")
}

// TrackSubscribers exports a gauge reading the live subscriber count.
func (m *Metrics) TrackSubscribers(count func() int) {
	if m == nil || count == nil || m.subscribers != nil {
		return
	}
	m.subscribers = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "admin_shell_live_subscribers",
		Help: "Open live-update connections.",
	}, func() float64 { return float64(count()) })
	m.registry.MustRegister(m.subscribers)
}

// Handler returns the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request counts and durations.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Registerer exposes the registry for custom metrics.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps event streams working behind the middleware.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack lets websocket upgrades pass through the middleware.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("observability: response writer does not support hijacking")
	}
	return hijacker.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
