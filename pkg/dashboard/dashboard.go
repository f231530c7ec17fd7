// Package dashboard assembles a runnable admin shell from configuration.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	core "github.com/goliatone/go-admin-shell/components/dashboard"
	"github.com/goliatone/go-admin-shell/components/dashboard/gorouter"
	"github.com/goliatone/go-admin-shell/components/dashboard/httpapi"
	"github.com/goliatone/go-admin-shell/pkg/activity"
	"github.com/goliatone/go-admin-shell/pkg/activity/usersink"
	"github.com/goliatone/go-admin-shell/pkg/config"
	"github.com/goliatone/go-admin-shell/pkg/mockapi"
	"github.com/goliatone/go-admin-shell/pkg/observability"
	router "github.com/goliatone/go-router"
	"github.com/redis/go-redis/v9"
)

// Store exposes the underlying components/dashboard.Store type.
type Store = core.Store

// Options re-export for convenience.
type Options = core.Options

// Controller exposes the page controller.
type Controller = core.Controller

// NewStore proxies to the internal constructor.
func NewStore(opts Options) *Store {
	return core.NewStore(opts)
}

var errNoStore = errors.New("dashboard: app has no store")

// MockPath is where the in-process provider is mounted when enabled.
const MockPath = "/mock"

// App is a fully wired shell: provider, store, controller, live updates and
// metrics.
type App struct {
	Config     config.Config
	Logger     *slog.Logger
	Provider   core.API
	Store      *core.Store
	Registry   *core.Registry
	Controller *core.Controller
	Events     *core.BroadcastHook
	Metrics    *observability.Metrics
	Handlers   *httpapi.Handlers

	// mock is nil when a remote provider is configured.
	mock  *mockapi.Client
	redis *redis.Client
}

// Option customizes New.
type Option func(*buildOptions)

type buildOptions struct {
	renderer core.Renderer
	redis    *redis.Client
	provider core.API
}

// WithRenderer replaces the embedded template renderer.
func WithRenderer(renderer core.Renderer) Option {
	return func(o *buildOptions) { o.renderer = renderer }
}

// WithRedisClient reuses an existing client for the redis chart cache.
func WithRedisClient(client *redis.Client) Option {
	return func(o *buildOptions) { o.redis = client }
}

// WithProvider replaces the configured data provider.
func WithProvider(api core.API) Option {
	return func(o *buildOptions) { o.provider = api }
}

// New validates cfg and wires the shell.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, options ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	var bo buildOptions
	for _, opt := range options {
		opt(&bo)
	}

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Events:  core.NewBroadcastHook(),
		Metrics: observability.NewMetrics(),
		redis:   bo.redis,
	}
	app.Events.AllowedOrigins = cfg.Server.AllowedOrigins
	app.Metrics.TrackSubscribers(app.Events.Subscribers)

	ids := idGenerator(cfg.Shell.IDStrategy)
	provider, err := app.provider(bo.provider, ids)
	if err != nil {
		return nil, err
	}
	app.Provider = provider

	telemetry := core.MultiTelemetry{core.SlogTelemetry{Logger: logger}, app.Metrics}
	var hooks activity.Hooks
	if cfg.Activity.Enabled && app.mock != nil {
		hooks = activity.Hooks{usersink.Hook{Sink: app.mock}}
	}
	app.Store = core.NewStore(core.Options{
		Orders:         provider,
		Dashboard:      provider,
		Sidebar:        provider,
		IDs:            ids,
		RefreshHook:    app.Events,
		Telemetry:      telemetry,
		ActivityHooks:  hooks,
		ActivityConfig: activity.Config{Enabled: cfg.Activity.Enabled, Channel: cfg.Activity.Channel},
		PageSize:       cfg.Shell.PageSize,
		Breakpoint:     cfg.Shell.Breakpoint,
	})

	registry, err := core.NewRegistry()
	if err != nil {
		return nil, err
	}
	app.Registry = registry

	renderer := bo.renderer
	if renderer == nil {
		if renderer, err = core.NewTemplateRenderer(); err != nil {
			return nil, fmt.Errorf("dashboard: templates: %w", err)
		}
	}
	cache, err := app.chartCache(ctx)
	if err != nil {
		return nil, err
	}
	charts := core.NewChartRenderer(
		core.WithChartCache(cache),
		core.WithChartTheme(core.ChartTheme(core.ThemeMode(cfg.Charts.Theme))),
		core.WithChartAssetsHost(cfg.Charts.AssetsHost),
	)
	app.Controller, err = core.NewController(core.ControllerOptions{
		Store:     app.Store,
		Registry:  registry,
		Renderer:  renderer,
		Charts:    charts,
		Telemetry: telemetry,
		APIPath:   joinPath(cfg.Server.BasePath, cfg.Server.APIPath),
	})
	if err != nil {
		return nil, err
	}
	app.Handlers = httpapi.NewHandlers(app.Controller, telemetry)
	return app, nil
}

func (a *App) provider(override core.API, ids core.IDGenerator) (core.API, error) {
	if override != nil {
		return override, nil
	}
	mock := a.Config.Mock
	if mock.RemoteURL != "" {
		a.Logger.Info("using remote provider", "url", mock.RemoteURL)
		return mockapi.NewHTTPClient(mockapi.HTTPConfig{BaseURL: mock.RemoteURL})
	}
	a.mock = mockapi.NewClient(mockapi.Options{
		DashboardDelay: mock.DashboardDelay,
		OrdersDelay:    mock.OrdersDelay,
		AddOrderDelay:  mock.AddOrderDelay,
		SidebarDelay:   mock.SidebarDelay,
		OrderCount:     mock.OrderCount,
		IDs:            ids,
	})
	return a.mock, nil
}

func (a *App) chartCache(ctx context.Context) (core.RenderCache, error) {
	charts := a.Config.Charts
	switch charts.CacheBackend {
	case "redis":
		if a.redis == nil {
			client, err := core.DialRedis(ctx, charts.RedisAddr)
			if err != nil {
				return nil, err
			}
			a.redis = client
		}
		return core.NewRedisChartCache(a.redis, charts.CacheTTL, core.WithRedisErrorHandler(func(err error) {
			a.Logger.Warn("chart cache degraded", "error", err)
		})), nil
	default:
		return core.NewChartCache(charts.CacheTTL), nil
	}
}

// Mock returns the in-process provider, or nil when a remote one is used.
func (a *App) Mock() *mockapi.Client {
	return a.mock
}

// Handler returns the chi transport. The mock provider is mounted under
// MockPath when configured.
func (a *App) Handler() http.Handler {
	server := a.Config.Server
	shell := httpapi.NewRouter(httpapi.RouterOptions{
		Handlers:       a.Handlers,
		Events:         a.Events,
		Metrics:        a.Metrics,
		Logger:         a.Logger,
		APIPath:        server.APIPath,
		RateLimit:      server.RateLimit,
		RequestTimeout: server.RequestTimeout,
		Production:     server.Production,
	})
	root := chi.NewRouter()
	if server.MountMock && a.mock != nil {
		root.Mount(MockPath, mockapi.NewHandler(a.mock))
	}
	if base := strings.TrimRight(server.BasePath, "/"); base != "" {
		root.Mount(base, shell)
	} else {
		root.Mount("/", shell)
	}
	return root
}

// Register mounts the shell on a go-router router, the fiber transport.
func Register[T any](a *App, r router.Router[T]) error {
	return gorouter.Register(gorouter.Config[T]{
		Router:     r,
		Controller: a.Controller,
		API:        a.Handlers,
		Broadcast:  a.Events,
		BasePath:   a.Config.Server.BasePath,
		Routes:     gorouter.RouteConfig{API: a.Config.Server.APIPath},
	})
}

// Close releases live subscribers and the redis connection.
func (a *App) Close() error {
	a.Events.Close()
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

func idGenerator(strategy string) core.IDGenerator {
	if strings.EqualFold(strategy, "uuid") {
		return core.UUIDGenerator{}
	}
	return nil
}

func joinPath(base, path string) string {
	base = strings.TrimRight(base, "/")
	path = "/" + strings.Trim(path, "/")
	if path == "/" {
		path = "/api"
	}
	return base + path
}

// Prefetch warms the sidebar, the overview and the orders list.
func (a *App) Prefetch(ctx context.Context) error {
	if a == nil || a.Store == nil {
		return errNoStore
	}
	return a.Store.EnsureLoaded(ctx, core.SliceSidebar, core.SliceDashboard, core.SliceOrders)
}
