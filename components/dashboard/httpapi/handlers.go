package httpapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	dashboard "github.com/goliatone/go-admin-shell/components/dashboard"
	"github.com/goliatone/go-admin-shell/components/dashboard/commands"
	"github.com/goliatone/go-admin-shell/components/dashboard/queries"
	gocommand "github.com/goliatone/go-command"
)

const maxBodyBytes = 64 << 10

// PageRenderer renders a registered page as HTML.
type PageRenderer interface {
	RenderPage(ctx context.Context, req dashboard.PageRequest, out io.Writer) error
}

// BodyDecoder validates and decodes request bodies.
type BodyDecoder interface {
	DecodeCandidate(raw []byte) (dashboard.OrderCandidate, error)
	DecodeTableAction(raw []byte) (dashboard.TableAction, error)
	DecodeLayoutAction(raw []byte) (dashboard.LayoutAction, error)
}

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	Shell        gocommand.Querier[queries.ShellInput, dashboard.ShellPayload]
	Page         gocommand.Querier[dashboard.PageRequest, dashboard.PagePayload]
	Table        gocommand.Querier[queries.OrdersTableInput, dashboard.TableView]
	Refresh      gocommand.Commander[commands.RefreshResourceInput]
	Reset        gocommand.Commander[commands.ResetResourceInput]
	AddOrder     gocommand.Commander[commands.AddOrderInput]
	UpdateTable  gocommand.Commander[commands.UpdateTableInput]
	UpdateLayout gocommand.Commander[commands.UpdateLayoutInput]
	Decoder      BodyDecoder
	Pages        PageRenderer
}

// NewHandlers wires the default commands and queries around a controller.
func NewHandlers(controller *dashboard.Controller, telemetry dashboard.Telemetry) *Handlers {
	store := controller.Store()
	return &Handlers{
		Shell:        queries.NewShellQuery(controller),
		Page:         queries.NewPageQuery(controller),
		Table:        queries.NewOrdersTableQuery(store),
		Refresh:      commands.NewRefreshResourceCommand(store, telemetry),
		Reset:        commands.NewResetResourceCommand(store, telemetry),
		AddOrder:     commands.NewAddOrderCommand(store, telemetry),
		UpdateTable:  commands.NewUpdateTableCommand(store, telemetry),
		UpdateLayout: commands.NewUpdateLayoutCommand(store, telemetry),
		Decoder:      dashboard.NewSchemaValidator(),
		Pages:        controller,
	}
}

// HandleShell returns the shell frame. The sidebar is fetched when idle.
func (h *Handlers) HandleShell(w http.ResponseWriter, r *http.Request) {
	payload, err := h.Shell.Query(r.Context(), queries.ShellInput{ActivePath: r.URL.Query().Get("path")})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// HandlePagePayload returns a page view model as JSON.
func (h *Handlers) HandlePagePayload(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := h.Page.Query(r.Context(), pageRequest(r, page))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, payload)
	}
}

// HandleOrdersTable returns the visible page of the order table.
func (h *Handlers) HandleOrdersTable(w http.ResponseWriter, r *http.Request) {
	view, err := h.Table.Query(r.Context(), queries.OrdersTableInput{Load: r.URL.Query().Get("load") != "false"})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleAddOrder validates the body against the order schema and adds it.
func (h *Handlers) HandleAddOrder(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(r)
	if err != nil {
		respondError(w, err)
		return
	}
	candidate, err := h.Decoder.DecodeCandidate(raw)
	if err != nil {
		respondError(w, err)
		return
	}
	var order dashboard.Order
	if err := h.AddOrder.Execute(r.Context(), commands.AddOrderInput{Candidate: candidate, Result: &order}); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// HandleTableAction applies a table interaction and returns the new view.
func (h *Handlers) HandleTableAction(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(r)
	if err != nil {
		respondError(w, err)
		return
	}
	action, err := h.Decoder.DecodeTableAction(raw)
	if err != nil {
		respondError(w, err)
		return
	}
	var view dashboard.TableView
	if err := h.UpdateTable.Execute(r.Context(), commands.UpdateTableInput{Action: action, Result: &view}); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleLayoutAction applies a panel interaction and returns the layout.
func (h *Handlers) HandleLayoutAction(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(r)
	if err != nil {
		respondError(w, err)
		return
	}
	action, err := h.Decoder.DecodeLayoutAction(raw)
	if err != nil {
		respondError(w, err)
		return
	}
	var layout dashboard.LayoutState
	if err := h.UpdateLayout.Execute(r.Context(), commands.UpdateLayoutInput{Action: action, Result: &layout}); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, layout)
}

// HandleRefresh refetches the {slice} route parameter. A failed fetch is
// reported as 503; the slice keeps its prior data flagged stale.
func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	slice, err := dashboard.ParseSlice(chi.URLParam(r, "slice"))
	if err != nil {
		respondError(w, err)
		return
	}
	input := commands.RefreshResourceInput{
		Slices: []dashboard.Slice{slice},
		Force:  r.URL.Query().Get("force") != "false",
	}
	if err := h.Refresh.Execute(r.Context(), input); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// HandleReset returns the {slice} route parameter to idle.
func (h *Handlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	slice, err := dashboard.ParseSlice(chi.URLParam(r, "slice"))
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.Reset.Execute(r.Context(), commands.ResetResourceInput{Slice: slice}); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePage renders a page inside the shell.
func (h *Handlers) HandlePage(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := h.Pages.RenderPage(r.Context(), pageRequest(r, page), &buf); err != nil {
			respondError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}

func pageRequest(r *http.Request, page string) dashboard.PageRequest {
	query := r.URL.Query()
	req := dashboard.PageRequest{
		Page:  page,
		Theme: dashboard.ThemeMode(query.Get("theme")),
	}
	if width, err := strconv.Atoi(query.Get("width")); err == nil && width > 0 {
		req.Width = width
	}
	return req
}

func readBody(r *http.Request) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, errors.Join(dashboard.ErrInvalidPayload, err)
	}
	if len(raw) > maxBodyBytes {
		return nil, errors.Join(dashboard.ErrInvalidPayload, errors.New("body too large"))
	}
	return raw, nil
}
