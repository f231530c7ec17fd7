package queries

import (
	"context"

	dashboard "github.com/goliatone/go-admin-shell/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// ShellInput names the path whose navigation entry is active.
type ShellInput struct {
	ActivePath string
}

type shellController interface {
	Shell(ctx context.Context, activePath string) (dashboard.ShellPayload, error)
}

// ShellQuery resolves the shell frame (layout, navigation, sidebar feed).
type ShellQuery struct {
	controller shellController
}

// NewShellQuery builds the query.
func NewShellQuery(controller shellController) *ShellQuery {
	return &ShellQuery{controller: controller}
}

var _ gocommand.Querier[ShellInput, dashboard.ShellPayload] = (*ShellQuery)(nil)

// Query resolves the shell.
func (q *ShellQuery) Query(ctx context.Context, input ShellInput) (dashboard.ShellPayload, error) {
	return q.controller.Shell(ctx, input.ActivePath)
}
