// Package tui is a terminal front end for the admin shell store.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	dashboard "github.com/goliatone/go-admin-shell/components/dashboard"
)

// DefaultBreakpoint is the terminal width (columns) below which the shell
// keeps its side panels closed.
const DefaultBreakpoint = 100

// Options wires the model.
type Options struct {
	Context  context.Context
	Store    *dashboard.Store
	Registry *dashboard.Registry
	// Events, when set, keeps the view in sync with changes made elsewhere
	// (for example the HTTP shell sharing the same store).
	Events     *dashboard.BroadcastHook
	Breakpoint int
	Page       string
}

// Model is the bubbletea model of the shell.
type Model struct {
	ctx         context.Context
	store       *dashboard.Store
	registry    *dashboard.Registry
	events      <-chan dashboard.StateEvent
	unsubscribe func()
	breakpoint  int

	page      string
	width     int
	height    int
	spinner   spinner.Model
	filter    textinput.Model
	filtering bool
	column    int
	form      *orderForm
	notice    string
	quitting  bool
}

// New builds the model. A nil registry gets the default pages.
func New(opts Options) (Model, error) {
	if opts.Store == nil {
		return Model{}, errors.New("tui: store is required")
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Registry == nil {
		reg, err := dashboard.NewRegistry()
		if err != nil {
			return Model{}, err
		}
		opts.Registry = reg
	}
	if opts.Breakpoint <= 0 {
		opts.Breakpoint = DefaultBreakpoint
	}
	if opts.Page == "" {
		opts.Page = dashboard.PageDashboard
	}
	if _, ok := opts.Registry.Page(opts.Page); !ok {
		return Model{}, fmt.Errorf("%w: %q", dashboard.ErrUnknownPage, opts.Page)
	}

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "Search orders"
	filter.CharLimit = 64

	m := Model{
		ctx:        opts.Context,
		store:      opts.Store,
		registry:   opts.Registry,
		breakpoint: opts.Breakpoint,
		page:       opts.Page,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(accent))),
		filter:     filter,
		column:     1,
	}
	if opts.Events != nil {
		m.events, m.unsubscribe = opts.Events.Subscribe()
	}
	return m, nil
}

// Close releases the event subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Init loads the sidebar and the first page.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadPage(), m.spinner.Tick, waitForEvent(m.events))
}

func (m Model) loadPage() tea.Cmd {
	page, _ := m.registry.Page(m.page)
	return ensureCmd(m.ctx, m.store, page.Slices...)
}

//nolint:cyclop
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		breakpoint := m.breakpoint
		m.store.UpdateLayout(m.ctx, "viewport", func(l dashboard.LayoutState) dashboard.LayoutState {
			return l.ApplyViewport(msg.Width, breakpoint)
		})
		return m, nil

	case loadedMsg:
		if msg.err != nil && !errors.Is(msg.err, dashboard.ErrFetchFailed) {
			m.notice = msg.err.Error()
		}
		return m, nil

	case addedMsg:
		if msg.err != nil {
			if m.form != nil {
				m.form.err = msg.err.Error()
			}
			return m, nil
		}
		m.form = nil
		m.notice = "Added " + msg.order.ID
		return m, nil

	case eventMsg:
		return m, waitForEvent(m.events)

	case eventsClosedMsg:
		m.events = nil
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.form != nil {
			return m.updateForm(msg)
		}
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.form = nil
		return m, nil
	}
	cmd, submit := m.form.update(msg)
	if !submit {
		return m, cmd
	}
	candidate := m.form.candidate()
	if err := candidate.Validate(); err != nil {
		m.form.err = err.Error()
		return m, nil
	}
	m.form.err = ""
	return m, addOrderCmd(m.ctx, m.store, candidate)
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.store.SetGlobalFilter(m.ctx, m.filter.Value())
	return m, cmd
}

//nolint:cyclop
func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "1", "2":
		pages := m.registry.Pages()
		idx := int(msg.String()[0] - '1')
		if idx < len(pages) {
			m.page = pages[idx].Code
			return m, m.loadPage()
		}
	case "tab":
		pages := m.registry.Pages()
		for i, page := range pages {
			if page.Code == m.page {
				m.page = pages[(i+1)%len(pages)].Code
				break
			}
		}
		return m, m.loadPage()
	case "[":
		m.store.ToggleNavigation(m.ctx)
	case "]":
		m.store.ToggleNotifications(m.ctx)
	case "esc":
		m.store.DismissOverlay(m.ctx)
	case "r":
		page, _ := m.registry.Page(m.page)
		cmds := make([]tea.Cmd, 0, len(page.Slices))
		for _, slice := range page.Slices {
			if slice != dashboard.SliceSidebar {
				cmds = append(cmds, refetchCmd(m.ctx, m.store, slice))
			}
		}
		return m, tea.Batch(cmds...)
	}
	if m.page == dashboard.PageOrders {
		return m.updateOrderKeys(msg)
	}
	return m, nil
}

//nolint:cyclop
func (m Model) updateOrderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sortable := sortableColumns()
	switch msg.String() {
	case "/":
		m.filtering = true
		return m, m.filter.Focus()
	case "a":
		m.form = newOrderForm()
		return m, textinput.Blink
	case "n", "right":
		m.store.NextPage(m.ctx)
	case "p", "left":
		m.store.PreviousPage(m.ctx)
	case ">":
		m.column = (m.column + 1) % len(sortable)
	case "<":
		m.column = (m.column - 1 + len(sortable)) % len(sortable)
	case "s":
		m.store.ToggleSort(m.ctx, sortable[m.column].Key, false)
	case "S":
		m.store.ToggleSort(m.ctx, sortable[m.column].Key, true)
	case "c":
		m.store.ClearSorting(m.ctx)
	case "f":
		m.store.SetStatusFilter(m.ctx, nextStatusFilter(m.store.OrdersTable().State.StatusFilter())...)
	case "x":
		m.filter.SetValue("")
		m.store.SetGlobalFilter(m.ctx, "")
		m.store.SetStatusFilter(m.ctx)
	case "+":
		view := m.store.OrdersTable()
		m.store.SetPageSize(m.ctx, view.PageSize+1)
	case "-":
		view := m.store.OrdersTable()
		if view.PageSize > 1 {
			m.store.SetPageSize(m.ctx, view.PageSize-1)
		}
	}
	return m, nil
}

// nextStatusFilter walks none, each status alone, then back to none.
func nextStatusFilter(current []dashboard.OrderStatus) []dashboard.OrderStatus {
	statuses := dashboard.OrderStatuses()
	if len(current) != 1 {
		return statuses[:1]
	}
	for i, status := range statuses {
		if status == current[0] && i+1 < len(statuses) {
			return statuses[i+1 : i+2]
		}
	}
	return nil
}

func sortableColumns() []dashboard.Column {
	var out []dashboard.Column
	for _, col := range dashboard.OrderColumns() {
		if col.Sortable {
			out = append(out, col)
		}
	}
	return out
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	snapshot := m.store.Snapshot()
	header := m.renderHeader()

	var main string
	switch {
	case m.form != nil:
		main = m.form.view()
	case m.page == dashboard.PageOrders:
		main = m.renderOrders(snapshot.Orders)
	default:
		main = m.renderDashboard(snapshot.Dashboard)
	}

	columns := []string{}
	if snapshot.Layout.LeftPanelOpen {
		columns = append(columns, panelStyle.Render(m.renderNavigation()))
	}
	columns = append(columns, main)
	if snapshot.Layout.RightPanelOpen {
		columns = append(columns, panelStyle.Render(m.renderSidebar(snapshot.Sidebar)))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	footer := m.renderHelp()
	if m.filtering {
		footer = m.filter.View() + "\n" + footer
	}
	if m.notice != "" {
		footer = noticeStyle.Render(m.notice) + "\n" + footer
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, body, footer))
}

func (m Model) renderHeader() string {
	tabs := []string{titleStyle.Render("Admin")}
	for i, page := range m.registry.Pages() {
		label := fmt.Sprintf("%d %s", i+1, page.Title)
		if page.Code == m.page {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	if page, ok := m.registry.Page(m.page); ok && len(page.Breadcrumb) > 0 {
		tabs = append(tabs, mutedStyle.Render(strings.Join(page.Breadcrumb, " / ")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n"
}

func (m Model) renderNavigation() string {
	page, _ := m.registry.Page(m.page)
	var b strings.Builder
	for _, section := range m.registry.Navigation(page.Path) {
		b.WriteString(mutedStyle.Render(section.Title))
		b.WriteString("\n")
		for _, item := range section.Items {
			label := "  " + item.Label
			if item.Active {
				label = sortedStyle.Render("› " + item.Label)
			}
			b.WriteString(label)
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderSidebar(res dashboard.Resource[dashboard.SidebarFeed]) string {
	if !res.HasData() {
		return m.renderPending(res.Status, res.Error, "sidebar")
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render("Notifications"))
	b.WriteString("\n")
	for _, n := range res.Data.Notifications {
		b.WriteString(fmt.Sprintf("%s %s\n", n.Text, mutedStyle.Render(n.Timestamp)))
	}
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Activities"))
	b.WriteString("\n")
	for _, a := range res.Data.Activities {
		b.WriteString(fmt.Sprintf("%s %s\n", a.Text, mutedStyle.Render(a.Time)))
	}
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Contacts"))
	b.WriteString("\n")
	b.WriteString(strings.Join(res.Data.Contacts, "\n"))
	if res.Stale() {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(res.Error))
	}
	return b.String()
}

func (m Model) renderDashboard(res dashboard.Resource[dashboard.DashboardData]) string {
	if !res.HasData() {
		return m.renderPending(res.Status, res.Error, "dashboard")
	}
	data := res.Data
	cards := make([]string, 0, len(data.Stats))
	for _, stat := range data.Stats {
		change := noticeStyle.Render(stat.Change)
		if !stat.Positive {
			change = errorStyle.Render(stat.Change)
		}
		cards = append(cards, cardStyle.Render(fmt.Sprintf("%s\n%s %s", mutedStyle.Render(stat.Title), headerStyle.Render(stat.Value), change)))
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render("Revenue"))
	b.WriteString("\n")
	for _, point := range data.Revenue {
		b.WriteString(fmt.Sprintf("%-4s %s %s\n", point.Month, bar(point.Current, 30), mutedStyle.Render(fmt.Sprintf("%.0f / %.0f", point.Current, point.Previous))))
	}
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Revenue by Location"))
	b.WriteString("\n")
	for _, loc := range data.Locations {
		b.WriteString(fmt.Sprintf("%-14s %s\n", loc.City, loc.Label))
	}
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Top Selling Products"))
	b.WriteString("\n")
	for _, p := range data.TopSelling {
		b.WriteString(fmt.Sprintf("%-28s %8s %4d %10s\n", p.Name, p.Price, p.Quantity, p.Amount))
	}
	if res.Stale() {
		b.WriteString(errorStyle.Render(res.Error + " (press r to retry)"))
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderOrders(orders dashboard.OrdersState) string {
	if !orders.List.HasData() && orders.List.Status != dashboard.ResourceSucceeded {
		return m.renderPending(orders.List.Status, orders.List.Error, "orders")
	}
	view := orders.View()
	sortable := sortableColumns()
	sortDir := map[dashboard.ColumnKey]string{}
	for _, rule := range view.State.Sorting {
		sortDir[rule.Column] = "↑"
		if rule.Desc {
			sortDir[rule.Column] = "↓"
		}
	}

	var b strings.Builder
	headers := make([]string, len(sortable))
	for i, col := range sortable {
		label := fmt.Sprintf("%-18s", col.Header+sortDir[col.Key])
		if i == m.column {
			headers[i] = sortedStyle.Render(label)
		} else {
			headers[i] = headerStyle.Render(label)
		}
	}
	b.WriteString(strings.Join(headers, " "))
	b.WriteString("\n")

	if view.Empty() {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("No results found for %q (x clears filters)", view.State.GlobalFilter)))
		b.WriteString("\n")
	}
	for _, order := range view.Rows {
		cells := make([]string, len(sortable))
		for i, col := range sortable {
			text := fmt.Sprintf("%-18s", truncate(col.Value(order), 18))
			if col.Key == dashboard.ColumnStatus {
				text = toneStyle(order.Status.Tone()).Render(text)
			}
			cells[i] = text
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Page %d of %d • %d of %d orders • %d per page",
		view.PageIndex+1, max(view.PageCount, 1), view.Filtered, view.Total, view.PageSize)))
	if statuses := view.State.StatusFilter(); len(statuses) > 0 {
		names := make([]string, len(statuses))
		for i, s := range statuses {
			names[i] = string(s)
		}
		b.WriteString(mutedStyle.Render(" • status: " + strings.Join(names, ", ")))
	}
	if orders.List.Stale() {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(orders.List.Error + " (press r to retry)"))
	}
	if orders.Adding.Status == dashboard.ResourceLoading {
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + " Saving order...")
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}

func (m Model) renderPending(status dashboard.ResourceStatus, errText, what string) string {
	switch status {
	case dashboard.ResourceFailed:
		return errorStyle.Render(fmt.Sprintf("Failed to load %s: %s", what, errText)) + "\n" + helpStyle.Render("press r to retry")
	case dashboard.ResourceLoading:
		return m.spinner.View() + " Loading " + what + "..."
	}
	return mutedStyle.Render("Waiting for " + what)
}

func (m Model) renderHelp() string {
	help := "1/2/tab: page • [: navigation • ]: notifications • r: refresh • q: quit"
	if m.page == dashboard.PageOrders {
		help += "\n/: search • a: add • </>: column • s/S: sort • c: clear sort • f: status • x: clear filters • n/p: page • +/-: size"
	}
	return helpStyle.Render(help)
}

func bar(value float64, width int) string {
	n := int(value)
	if n > width {
		n = width
	}
	if n < 0 {
		n = 0
	}
	return strings.Repeat("█", n)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
