package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	dashboard "github.com/goliatone/go-admin-shell/components/dashboard"
)

// loadedMsg reports that a load request settled. Failures stay on the
// resource; err only carries what the store returned.
type loadedMsg struct {
	slices []dashboard.Slice
	err    error
}

type addedMsg struct {
	order dashboard.Order
	err   error
}

// eventMsg carries a store transition from the broadcast hook.
type eventMsg dashboard.StateEvent

type eventsClosedMsg struct{}

func ensureCmd(ctx context.Context, store *dashboard.Store, slices ...dashboard.Slice) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{slices: slices, err: store.EnsureLoaded(ctx, slices...)}
	}
}

func refetchCmd(ctx context.Context, store *dashboard.Store, slice dashboard.Slice) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{slices: []dashboard.Slice{slice}, err: store.Fetch(ctx, slice)}
	}
}

func addOrderCmd(ctx context.Context, store *dashboard.Store, candidate dashboard.OrderCandidate) tea.Cmd {
	return func() tea.Msg {
		order, err := store.AddOrder(ctx, candidate)
		return addedMsg{order: order, err: err}
	}
}

func waitForEvent(events <-chan dashboard.StateEvent) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(event)
	}
}
