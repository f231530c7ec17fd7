package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	dashboard "github.com/goliatone/go-admin-shell/components/dashboard"
	"github.com/unrolled/secure"
)

// Metrics is the instrumentation the router mounts when present.
type Metrics interface {
	Middleware(next http.Handler) http.Handler
	Handler() http.Handler
}

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Handlers *Handlers
	// Events streams state changes over SSE and WebSocket when set.
	Events  *dashboard.BroadcastHook
	Metrics Metrics
	Logger  *slog.Logger
	// APIPath defaults to "/api".
	APIPath string
	// RateLimit caps mutating API requests per client IP per minute. Zero
	// disables the limiter.
	RateLimit      int
	RequestTimeout time.Duration
	Production     bool
}

// NewRouter mounts the shell pages and the JSON API on a chi router.
func NewRouter(opts RouterOptions) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.APIPath == "" {
		opts.APIPath = "/api"
	}
	opts.APIPath = "/" + strings.Trim(opts.APIPath, "/")
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	h := opts.Handlers

	r := chi.NewRouter()
	r.Use(middleware.RealIP, middleware.RequestID, middleware.Recoverer, secureHeaders(opts))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/"+dashboard.PageDashboard, http.StatusFound)
	})
	r.Group(func(pages chi.Router) {
		pages.Use(middleware.Timeout(opts.RequestTimeout))
		pages.Get("/"+dashboard.PageDashboard, h.HandlePage(dashboard.PageDashboard))
		pages.Get("/"+dashboard.PageOrders, h.HandlePage(dashboard.PageOrders))
	})

	r.Route(opts.APIPath, func(api chi.Router) {
		if opts.Events != nil {
			api.Get("/events", opts.Events.ServeSSE)
			api.Get("/ws", opts.Events.ServeWebSocket)
		}
		api.Group(func(reads chi.Router) {
			reads.Use(middleware.Timeout(opts.RequestTimeout))
			reads.Get("/shell", h.HandleShell)
			reads.Get("/dashboard", h.HandlePagePayload(dashboard.PageDashboard))
			reads.Get("/orders", h.HandlePagePayload(dashboard.PageOrders))
			reads.Get("/orders/table", h.HandleOrdersTable)
		})
		api.Group(func(writes chi.Router) {
			writes.Use(middleware.Timeout(opts.RequestTimeout))
			if opts.RateLimit > 0 {
				writes.Use(httprate.Limit(opts.RateLimit, time.Minute,
					httprate.WithKeyFuncs(httprate.KeyByIP),
					httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
						writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "")
					}),
				))
			}
			writes.Post("/orders", h.HandleAddOrder)
			writes.Put("/orders/table", h.HandleTableAction)
			writes.Post("/layout", h.HandleLayoutAction)
			writes.Post("/{slice}/refresh", h.HandleRefresh)
			writes.Post("/{slice}/reset", h.HandleReset)
		})
	})
	return r
}

func secureHeaders(opts RouterOptions) func(http.Handler) http.Handler {
	sm := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		// Pages load chart scripts from the assets host and run inline handlers.
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline' https:; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:",
		SSLRedirect:           opts.Production,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !opts.Production,
	})
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := sm.Process(w, r); err != nil {
				opts.Logger.Warn("secure headers blocked request", slog.Any("error", err))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
