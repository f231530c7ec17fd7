package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	dashboard "github.com/goliatone/go-admin-shell/components/dashboard"
)

// ProblemDetail is an RFC7807 problem body.
type ProblemDetail struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

const problemContentType = "application/problem+json"

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", problemContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ProblemDetail{
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

// ProblemFor maps store sentinels to a problem body. Unknown errors become
// a 500 without detail.
func ProblemFor(err error) ProblemDetail {
	status, title, detail := http.StatusInternalServerError, "Internal Error", ""
	switch {
	case errors.Is(err, dashboard.ErrInvalidPayload), errors.Is(err, dashboard.ErrInvalidAction):
		status, title, detail = http.StatusBadRequest, "Invalid Request", err.Error()
	case errors.Is(err, dashboard.ErrInvalidOrder):
		status, title, detail = http.StatusUnprocessableEntity, "Invalid Order", err.Error()
	case errors.Is(err, dashboard.ErrDuplicateOrderID):
		status, title, detail = http.StatusConflict, "Duplicate Order", err.Error()
	case errors.Is(err, dashboard.ErrUnknownPage), errors.Is(err, dashboard.ErrUnknownSlice):
		status, title, detail = http.StatusNotFound, "Not Found", err.Error()
	case errors.Is(err, dashboard.ErrFetchFailed):
		status, title, detail = http.StatusServiceUnavailable, "Upstream Unavailable", err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		status, title = http.StatusGatewayTimeout, "Timeout"
	case errors.Is(err, context.Canceled):
		status, title = http.StatusServiceUnavailable, "Cancelled"
	}
	return ProblemDetail{Title: title, Status: status, Detail: detail}
}

func respondError(w http.ResponseWriter, err error) {
	problem := ProblemFor(err)
	writeProblem(w, problem.Status, problem.Title, problem.Detail)
}
