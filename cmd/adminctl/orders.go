package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	core "github.com/goliatone/go-admin-shell/components/dashboard"
	"gopkg.in/yaml.v3"
)

type ordersCmd struct {
	Filter   string   `short:"f" help:"Global search over id, customer, project and address."`
	Sort     []string `short:"s" help:"Sort rule column[:desc], repeat for multi-sort (e.g. --sort user --sort date:desc)."`
	Status   []string `help:"Only show these statuses (repeatable)."`
	Page     int      `default:"1" help:"1-based page number."`
	PageSize int      `name:"page-size" help:"Rows per page, overrides shell.page_size."`
	Format   string   `default:"table" enum:"table,json,yaml" help:"Output format."`

	out io.Writer
}

func (cmd *ordersCmd) Run(ctx context.Context, root *cli) error {
	cfg, err := root.load()
	if err != nil {
		return err
	}
	// Queries print immediately; the demo latency only matters to the UI.
	if cfg.Mock.RemoteURL == "" {
		cfg.Mock.OrdersDelay = 0
	}
	if cmd.PageSize > 0 {
		cfg.Shell.PageSize = cmd.PageSize
	}
	app, err := buildApp(ctx, cfg, root.logger(cfg, nil))
	if err != nil {
		return err
	}
	defer app.Close()

	store := app.Store
	if err := store.EnsureLoaded(ctx, core.SliceOrders); err != nil {
		return fmt.Errorf("adminctl: load orders: %w", err)
	}
	rules, err := parseSortRules(cmd.Sort)
	if err != nil {
		return err
	}
	statuses := make([]core.OrderStatus, 0, len(cmd.Status))
	for _, raw := range cmd.Status {
		status, err := core.ParseOrderStatus(raw)
		if err != nil {
			return err
		}
		statuses = append(statuses, status)
	}

	store.SetGlobalFilter(ctx, cmd.Filter)
	store.SetSorting(ctx, rules)
	store.SetStatusFilter(ctx, statuses...)
	view := store.SetPageIndex(ctx, cmd.Page-1)
	return cmd.print(view)
}

func (cmd *ordersCmd) print(view core.TableView) error {
	out := cmd.out
	if out == nil {
		out = os.Stdout
	}
	switch cmd.Format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(view)
	}
	if view.Empty() {
		_, err := fmt.Fprintf(out, "No results found for %q\n", view.State.GlobalFilter)
		return err
	}
	_, err := fmt.Fprintf(out, "%s\nPage %d of %d, %d of %d orders\n",
		renderTable(view.Rows), view.PageIndex+1, view.PageCount, view.Filtered, view.Total)
	return err
}

func renderTable(rows []core.Order) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Order ID", "User", "Project", "Address", "Date", "Status").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, order := range rows {
		t.Row(order.ID, order.User.Name, order.Project, order.Address, order.Date, string(order.Status))
	}
	return t.Render()
}

func parseSortRules(raw []string) ([]core.SortRule, error) {
	rules := make([]core.SortRule, 0, len(raw))
	for _, item := range raw {
		name, dir, _ := strings.Cut(item, ":")
		key, err := core.ParseColumnKey(name)
		if err != nil {
			return nil, err
		}
		col, ok := core.LookupColumn(key)
		if !ok || !col.Sortable {
			return nil, fmt.Errorf("adminctl: column %q is not sortable", name)
		}
		switch strings.ToLower(dir) {
		case "", "asc":
			rules = append(rules, core.SortRule{Column: key})
		case "desc":
			rules = append(rules, core.SortRule{Column: key, Desc: true})
		default:
			return nil, fmt.Errorf("adminctl: sort direction %q must be asc or desc", dir)
		}
	}
	return rules, nil
}
