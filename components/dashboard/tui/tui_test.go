package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	dashboard "github.com/goliatone/go-admin-shell/components/dashboard"
	"github.com/goliatone/go-admin-shell/pkg/mockapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, page string) (Model, *dashboard.Store) {
	t.Helper()
	client := mockapi.NewClient(mockapi.Options{})
	store := dashboard.NewStore(dashboard.Options{
		Orders:    client,
		Dashboard: client,
		Sidebar:   client,
	})
	m, err := New(Options{Store: store, Page: page})
	require.NoError(t, err)
	return m, store
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestNewValidatesOptions(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	store := dashboard.NewStore(dashboard.Options{})
	_, err = New(Options{Store: store, Page: "settings"})
	assert.ErrorIs(t, err, dashboard.ErrUnknownPage)
}

func TestLoadCommandFillsPageSlices(t *testing.T) {
	m, store := newTestModel(t, dashboard.PageOrders)
	msg := m.loadPage()()
	loaded, ok := msg.(loadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.err)

	snapshot := store.Snapshot()
	assert.Equal(t, dashboard.ResourceSucceeded, snapshot.Orders.List.Status)
	assert.Equal(t, dashboard.ResourceSucceeded, snapshot.Sidebar.Status)
	assert.Equal(t, dashboard.ResourceIdle, snapshot.Dashboard.Status)

	view := send(t, m, loaded).View()
	assert.Contains(t, view, "#CM9801")
	assert.Contains(t, view, "Page 1 of 5")
}

func TestWindowSizeAppliesTerminalBreakpoint(t *testing.T) {
	m, store := newTestModel(t, dashboard.PageDashboard)
	send(t, m, tea.WindowSizeMsg{Width: 80, Height: 40})
	layout := store.Layout()
	assert.True(t, layout.Narrow)
	assert.False(t, layout.LeftPanelOpen)
	assert.False(t, layout.RightPanelOpen)

	send(t, m, tea.WindowSizeMsg{Width: 160, Height: 40})
	layout = store.Layout()
	assert.False(t, layout.Narrow)
	assert.True(t, layout.LeftPanelOpen)
}

func TestPanelKeysToggleLayout(t *testing.T) {
	m, store := newTestModel(t, dashboard.PageDashboard)
	m = send(t, m, key("["))
	assert.False(t, store.Layout().LeftPanelOpen)
	send(t, m, key("]"))
	assert.False(t, store.Layout().RightPanelOpen)
}

func TestPageSwitching(t *testing.T) {
	m, _ := newTestModel(t, dashboard.PageDashboard)
	m = send(t, m, key("2"))
	assert.Equal(t, dashboard.PageOrders, m.page)
	m = send(t, m, key("tab"))
	assert.Equal(t, dashboard.PageDashboard, m.page)
}

func TestFilterModeUpdatesGlobalFilter(t *testing.T) {
	m, store := newTestModel(t, dashboard.PageOrders)
	require.NoError(t, store.EnsureLoaded(context.Background(), dashboard.SliceOrders))

	m = send(t, m, key("/"))
	require.True(t, m.filtering)
	m = typeText(t, m, "natali")
	m = send(t, m, key("enter"))
	assert.False(t, m.filtering)

	view := store.OrdersTable()
	assert.Equal(t, "natali", view.State.GlobalFilter)
	assert.Equal(t, 5, view.Filtered)

	m = typeText(t, m, "x")
	assert.Equal(t, 35, store.OrdersTable().Filtered)

	m = send(t, m, key("/"))
	m = typeText(t, m, "zzz")
	assert.Contains(t, m.View(), `No results found for "zzz"`)
}

func TestSortAndPagingKeys(t *testing.T) {
	m, store := newTestModel(t, dashboard.PageOrders)
	require.NoError(t, store.EnsureLoaded(context.Background(), dashboard.SliceOrders))

	m = send(t, m, key("s"))
	state := store.OrdersTable().State
	require.Len(t, state.Sorting, 1)
	assert.Equal(t, dashboard.ColumnUser, state.Sorting[0].Column)

	m = send(t, m, key(">"), key("S"))
	assert.Len(t, store.OrdersTable().State.Sorting, 2)
	m = send(t, m, key("c"))
	assert.Empty(t, store.OrdersTable().State.Sorting)

	m = send(t, m, key("n"), key("n"))
	assert.Equal(t, 2, store.OrdersTable().PageIndex)
	m = send(t, m, key("p"))
	assert.Equal(t, 1, store.OrdersTable().PageIndex)

	send(t, m, key("+"))
	assert.Equal(t, dashboard.DefaultPageSize+1, store.OrdersTable().PageSize)
}

func TestStatusFilterCycles(t *testing.T) {
	statuses := dashboard.OrderStatuses()
	got := nextStatusFilter(nil)
	assert.Equal(t, statuses[:1], got)
	got = nextStatusFilter(got)
	assert.Equal(t, statuses[1:2], got)
	assert.Nil(t, nextStatusFilter(statuses[len(statuses)-1:]))
}

func TestAddOrderForm(t *testing.T) {
	m, store := newTestModel(t, dashboard.PageOrders)
	require.NoError(t, store.EnsureLoaded(context.Background(), dashboard.SliceOrders))

	m = send(t, m, key("a"))
	require.NotNil(t, m.form)

	next, cmd := m.Update(key("enter"))
	m = next.(Model)
	assert.Nil(t, cmd, "blank candidates are rejected locally")
	assert.NotEmpty(t, m.form.err)

	m = typeText(t, m, "Ada Lovelace")
	m = send(t, m, key("tab"))
	m = typeText(t, m, "Analytical Engine")
	m = send(t, m, key("tab"))
	m = typeText(t, m, "Marylebone London")

	next, cmd = m.Update(key("enter"))
	m = next.(Model)
	require.NotNil(t, cmd)
	added, ok := cmd().(addedMsg)
	require.True(t, ok)
	require.NoError(t, added.err)
	assert.Equal(t, "#CM9836", added.order.ID)
	assert.Equal(t, dashboard.OrderPending, added.order.Status)

	m = send(t, m, added)
	assert.Nil(t, m.form)
	assert.Contains(t, m.View(), "Added #CM9836")
	assert.Equal(t, "Ada Lovelace", store.OrdersTable().Rows[0].User.Name)
}

func TestFormEscapeCancels(t *testing.T) {
	m, _ := newTestModel(t, dashboard.PageOrders)
	m = send(t, m, key("a"), key("esc"))
	assert.Nil(t, m.form)
}

func TestFailedLoadShowsRetry(t *testing.T) {
	client := mockapi.NewClient(mockapi.Options{})
	client.FailWith(mockapi.EndpointDashboard, assert.AnError)
	store := dashboard.NewStore(dashboard.Options{Orders: client, Dashboard: client, Sidebar: client})
	m, err := New(Options{Store: store})
	require.NoError(t, err)

	m = send(t, m, m.loadPage()())
	view := m.View()
	assert.Contains(t, view, "Failed to load dashboard")
	assert.Contains(t, view, "press r to retry")

	client.FailWith(mockapi.EndpointDashboard, nil)
	next, cmd := m.Update(key("r"))
	m = next.(Model)
	require.NotNil(t, cmd)
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c != nil {
				m = send(t, m, c())
			}
		}
	} else {
		m = send(t, m, msg)
	}
	assert.Equal(t, dashboard.ResourceSucceeded, store.Snapshot().Dashboard.Status)
	assert.Contains(t, m.View(), "Top Selling Products")
}

func TestEventsKeepListening(t *testing.T) {
	hook := dashboard.NewBroadcastHook()
	t.Cleanup(hook.Close)
	store := dashboard.NewStore(dashboard.Options{RefreshHook: hook})
	m, err := New(Options{Store: store, Events: hook})
	require.NoError(t, err)
	defer m.Close()

	store.ToggleLeftPanel(context.Background())
	msg := waitForEvent(m.events)()
	event, ok := msg.(eventMsg)
	require.True(t, ok)
	assert.Equal(t, dashboard.SliceLayout, event.Slice)

	_, cmd := m.Update(event)
	assert.NotNil(t, cmd)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, dashboard.PageDashboard)
	next, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.True(t, next.(Model).quitting)
	assert.True(t, strings.TrimSpace(next.(Model).View()) == "")
}
