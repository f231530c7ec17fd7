package queries

import (
	"context"

	dashboard "github.com/goliatone/go-admin-shell/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

type pageController interface {
	PagePayload(ctx context.Context, req dashboard.PageRequest) (dashboard.PagePayload, error)
}

// PageQuery builds the view model of a registered page.
type PageQuery struct {
	controller pageController
}

// NewPageQuery builds the query.
func NewPageQuery(controller pageController) *PageQuery {
	return &PageQuery{controller: controller}
}

var _ gocommand.Querier[dashboard.PageRequest, dashboard.PagePayload] = (*PageQuery)(nil)

// Query resolves the page payload.
func (q *PageQuery) Query(ctx context.Context, req dashboard.PageRequest) (dashboard.PagePayload, error) {
	return q.controller.PagePayload(ctx, req)
}
