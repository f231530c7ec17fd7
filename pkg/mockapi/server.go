package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	dashboard "github.com/goliatone/go-admin-shell/components/dashboard"
)

// NewHandler exposes a provider over HTTP so remote shells (for example the
// terminal UI) can use it through HTTPClient.
func NewHandler(api dashboard.API) http.Handler {
	r := chi.NewRouter()
	r.Get("/dashboard", func(w http.ResponseWriter, req *http.Request) {
		data, err := api.FetchDashboard(req.Context())
		respond(w, data, err)
	})
	r.Get("/orders", func(w http.ResponseWriter, req *http.Request) {
		orders, err := api.FetchOrders(req.Context())
		respond(w, orders, err)
	})
	r.Post("/orders", func(w http.ResponseWriter, req *http.Request) {
		var candidate dashboard.OrderCandidate
		if err := json.NewDecoder(req.Body).Decode(&candidate); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		order, err := api.AddOrder(req.Context(), candidate)
		respond(w, order, err)
	})
	r.Get("/sidebar", func(w http.ResponseWriter, req *http.Request) {
		feed, err := api.FetchSidebar(req.Context())
		respond(w, feed, err)
	})
	return r
}

type errorBody struct {
	Error string `json:"error"`
}

func respond(w http.ResponseWriter, payload any, err error) {
	if err != nil {
		status := http.StatusServiceUnavailable
		if errors.Is(err, dashboard.ErrInvalidOrder) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: err.Error()})
}
