package gorouter

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"

	dashboard "github.com/goliatone/go-admin-shell/components/dashboard"
	"github.com/goliatone/go-admin-shell/components/dashboard/commands"
	"github.com/goliatone/go-admin-shell/components/dashboard/httpapi"
	"github.com/goliatone/go-admin-shell/components/dashboard/queries"
	router "github.com/goliatone/go-router"
)

// Config wires go-router with the shell controller, commands and live updates.
type Config[T any] struct {
	Router     router.Router[T]
	Controller *dashboard.Controller
	// API carries the commands and queries behind the JSON routes. When nil
	// they are built from Controller.
	API       *httpapi.Handlers
	Broadcast *dashboard.BroadcastHook
	Telemetry dashboard.Telemetry
	BasePath  string
	Routes    RouteConfig
}

// RouteConfig customizes the relative paths used for shell endpoints.
type RouteConfig struct {
	API       string
	Shell     string
	Orders    string
	Table     string
	Layout    string
	Refresh   string
	Reset     string
	WebSocket string
}

// Register mounts the shell (HTML pages, JSON state, commands, WebSocket) on
// a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	api := cfg.API
	if api == nil {
		api = httpapi.NewHandlers(cfg.Controller, cfg.Telemetry)
	}

	root := cfg.Router
	if base := strings.TrimRight(cfg.BasePath, "/"); base != "" {
		root = cfg.Router.Group(base)
	}

	home := strings.TrimRight(cfg.BasePath, "/") + "/" + dashboard.PageDashboard
	root.Get("/", router.WrapHandler(func(ctx router.Context) error {
		ctx.SetHeader("Location", home)
		return ctx.JSON(http.StatusFound, map[string]string{"location": home})
	}))

	group := root.Group(routes.API)
	for _, page := range cfg.Controller.Registry().Pages() {
		registerPage(root, group, api, page)
	}
	registerAPI(group, api, routes)
	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}
	return nil
}

func registerPage[T any](r, apiGroup router.Router[T], api *httpapi.Handlers, page dashboard.Page) {
	r.Get(page.Path, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := api.Pages.RenderPage(ctx.Context(), pageRequest(ctx, page.Code), &buf); err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))
	apiGroup.Get("/"+page.Code, router.WrapHandler(func(ctx router.Context) error {
		payload, err := api.Page.Query(ctx.Context(), pageRequest(ctx, page.Code))
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, payload)
	}))
}

func registerAPI[T any](r router.Router[T], api *httpapi.Handlers, routes RouteConfig) {
	r.Get(routes.Shell, router.WrapHandler(func(ctx router.Context) error {
		payload, err := api.Shell.Query(ctx.Context(), queries.ShellInput{ActivePath: ctx.Query("path")})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, payload)
	}))

	r.Get(routes.Table, router.WrapHandler(func(ctx router.Context) error {
		view, err := api.Table.Query(ctx.Context(), queries.OrdersTableInput{Load: ctx.Query("load") != "false"})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, view)
	}))

	r.Put(routes.Table, router.WrapHandler(func(ctx router.Context) error {
		action, err := api.Decoder.DecodeTableAction(ctx.Body())
		if err != nil {
			return respondError(ctx, err)
		}
		var view dashboard.TableView
		if err := api.UpdateTable.Execute(ctx.Context(), commands.UpdateTableInput{Action: action, Result: &view}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, view)
	}))

	r.Post(routes.Orders, router.WrapHandler(func(ctx router.Context) error {
		candidate, err := api.Decoder.DecodeCandidate(ctx.Body())
		if err != nil {
			return respondError(ctx, err)
		}
		var order dashboard.Order
		if err := api.AddOrder.Execute(ctx.Context(), commands.AddOrderInput{Candidate: candidate, Result: &order}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, order)
	}))

	r.Post(routes.Layout, router.WrapHandler(func(ctx router.Context) error {
		action, err := api.Decoder.DecodeLayoutAction(ctx.Body())
		if err != nil {
			return respondError(ctx, err)
		}
		var layout dashboard.LayoutState
		if err := api.UpdateLayout.Execute(ctx.Context(), commands.UpdateLayoutInput{Action: action, Result: &layout}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, layout)
	}))

	r.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		slice, err := dashboard.ParseSlice(ctx.Param("slice"))
		if err != nil {
			return respondError(ctx, err)
		}
		input := commands.RefreshResourceInput{
			Slices: []dashboard.Slice{slice},
			Force:  ctx.Query("force") != "false",
		}
		if err := api.Refresh.Execute(ctx.Context(), input); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "refreshed"})
	}))

	r.Post(routes.Reset, router.WrapHandler(func(ctx router.Context) error {
		slice, err := dashboard.ParseSlice(ctx.Param("slice"))
		if err != nil {
			return respondError(ctx, err)
		}
		if err := api.Reset.Execute(ctx.Context(), commands.ResetResourceInput{Slice: slice}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "reset"})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func pageRequest(ctx router.Context, page string) dashboard.PageRequest {
	req := dashboard.PageRequest{
		Page:  page,
		Theme: dashboard.ThemeMode(ctx.Query("theme")),
	}
	if width, err := strconv.Atoi(ctx.Query("width")); err == nil && width > 0 {
		req.Width = width
	}
	return req
}

func respondError(ctx router.Context, err error) error {
	problem := httpapi.ProblemFor(err)
	return ctx.JSON(problem.Status, problem)
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.API == "" {
		routes.API = "/api"
	}
	if routes.Shell == "" {
		routes.Shell = "/shell"
	}
	if routes.Orders == "" {
		routes.Orders = "/orders"
	}
	if routes.Table == "" {
		routes.Table = "/orders/table"
	}
	if routes.Layout == "" {
		routes.Layout = "/layout"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/:slice/refresh"
	}
	if routes.Reset == "" {
		routes.Reset = "/:slice/reset"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	return routes
}
