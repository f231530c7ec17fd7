package dashboard

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidAction reports an action the store cannot apply.
var ErrInvalidAction = errors.New("dashboard: invalid action")

// TableOp names a table interaction.
type TableOp string

const (
	TableSetGlobalFilter  TableOp = "set_global_filter"
	TableToggleSort       TableOp = "toggle_sort"
	TableSetSorting       TableOp = "set_sorting"
	TableClearSorting     TableOp = "clear_sorting"
	TableSetStatusFilter  TableOp = "set_status_filter"
	TableSetColumnFilters TableOp = "set_column_filters"
	TableSetPage          TableOp = "set_page"
	TableNextPage         TableOp = "next_page"
	TablePreviousPage     TableOp = "previous_page"
	TableSetPageSize      TableOp = "set_page_size"
)

// TableAction is the wire form of a table interaction.
type TableAction struct {
	Op            TableOp        `json:"op"`
	Filter        string         `json:"filter,omitempty"`
	Column        string         `json:"column,omitempty"`
	Multi         bool           `json:"multi,omitempty"`
	Sorting       []SortRule     `json:"sorting,omitempty"`
	Statuses      []OrderStatus  `json:"statuses,omitempty"`
	ColumnFilters []ColumnFilter `json:"column_filters,omitempty"`
	PageIndex     int            `json:"page_index,omitempty"`
	PageSize      int            `json:"page_size,omitempty"`
}

// ApplyTableAction dispatches a table action to the matching store transition.
func (s *Store) ApplyTableAction(ctx context.Context, action TableAction) (TableView, error) {
	switch action.Op {
	case TableSetGlobalFilter:
		return s.SetGlobalFilter(ctx, action.Filter), nil
	case TableToggleSort:
		column, err := ParseColumnKey(action.Column)
		if err != nil {
			return TableView{}, fmt.Errorf("%w: %w", ErrInvalidAction, err)
		}
		return s.ToggleSort(ctx, column, action.Multi), nil
	case TableSetSorting:
		rules := make([]SortRule, 0, len(action.Sorting))
		for _, rule := range action.Sorting {
			column, err := ParseColumnKey(string(rule.Column))
			if err != nil {
				return TableView{}, fmt.Errorf("%w: %w", ErrInvalidAction, err)
			}
			rules = append(rules, SortRule{Column: column, Desc: rule.Desc})
		}
		return s.SetSorting(ctx, rules), nil
	case TableClearSorting:
		return s.ClearSorting(ctx), nil
	case TableSetStatusFilter:
		statuses := make([]OrderStatus, 0, len(action.Statuses))
		for _, raw := range action.Statuses {
			status, err := ParseOrderStatus(string(raw))
			if err != nil {
				return TableView{}, fmt.Errorf("%w: %w", ErrInvalidAction, err)
			}
			statuses = append(statuses, status)
		}
		return s.SetStatusFilter(ctx, statuses...), nil
	case TableSetColumnFilters:
		filters, err := normalizeColumnFilters(action.ColumnFilters)
		if err != nil {
			return TableView{}, fmt.Errorf("%w: %w", ErrInvalidAction, err)
		}
		return s.SetColumnFilters(ctx, filters), nil
	case TableSetPage:
		return s.SetPageIndex(ctx, action.PageIndex), nil
	case TableNextPage:
		return s.NextPage(ctx), nil
	case TablePreviousPage:
		return s.PreviousPage(ctx), nil
	case TableSetPageSize:
		return s.SetPageSize(ctx, action.PageSize), nil
	}
	return TableView{}, fmt.Errorf("%w: table %q", ErrInvalidAction, action.Op)
}

// normalizeColumnFilters resolves column keys and, for the status column,
// status labels. Only filterable columns are accepted.
func normalizeColumnFilters(filters []ColumnFilter) ([]ColumnFilter, error) {
	out := make([]ColumnFilter, 0, len(filters))
	for _, f := range filters {
		key, err := ParseColumnKey(string(f.Column))
		if err != nil {
			return nil, err
		}
		if col, _ := LookupColumn(key); !col.Filterable {
			return nil, fmt.Errorf("dashboard: column %q is not filterable", f.Column)
		}
		values := make([]string, 0, len(f.Values))
		for _, raw := range f.Values {
			if key != ColumnStatus {
				values = append(values, raw)
				continue
			}
			status, err := ParseOrderStatus(raw)
			if err != nil {
				return nil, err
			}
			values = append(values, string(status))
		}
		out = append(out, ColumnFilter{Column: key, Values: values})
	}
	return out, nil
}

// LayoutOp names a shell layout interaction.
type LayoutOp string

const (
	LayoutToggleLeftPanel  LayoutOp = "toggle_left_panel"
	LayoutToggleRightPanel LayoutOp = "toggle_right_panel"
	LayoutSetLeftPanel     LayoutOp = "set_left_panel"
	LayoutSetRightPanel    LayoutOp = "set_right_panel"
	LayoutViewport         LayoutOp = "viewport"
	LayoutOutsideClick     LayoutOp = "outside_click"
	LayoutToggleNavigation LayoutOp = "toggle_navigation"
	LayoutToggleNotices    LayoutOp = "toggle_notifications"
	LayoutDismissOverlay   LayoutOp = "dismiss_overlay"
)

// LayoutAction is the wire form of a layout interaction.
type LayoutAction struct {
	Op     LayoutOp `json:"op"`
	Open   bool     `json:"open,omitempty"`
	Width  int      `json:"width,omitempty"`
	Region string   `json:"region,omitempty"`
}

// ApplyLayoutAction dispatches a layout action to the matching store transition.
func (s *Store) ApplyLayoutAction(ctx context.Context, action LayoutAction) (LayoutState, error) {
	switch action.Op {
	case LayoutToggleLeftPanel:
		return s.ToggleLeftPanel(ctx), nil
	case LayoutToggleRightPanel:
		return s.ToggleRightPanel(ctx), nil
	case LayoutSetLeftPanel:
		return s.SetLeftPanel(ctx, action.Open), nil
	case LayoutSetRightPanel:
		return s.SetRightPanel(ctx, action.Open), nil
	case LayoutViewport:
		return s.ApplyViewport(ctx, action.Width), nil
	case LayoutToggleNavigation:
		return s.ToggleNavigation(ctx), nil
	case LayoutToggleNotices:
		return s.ToggleNotifications(ctx), nil
	case LayoutDismissOverlay:
		return s.DismissOverlay(ctx), nil
	case LayoutOutsideClick:
		region, err := ParseRegion(action.Region)
		if err != nil {
			return LayoutState{}, fmt.Errorf("%w: %w", ErrInvalidAction, err)
		}
		return s.OutsideClick(ctx, region), nil
	}
	return LayoutState{}, fmt.Errorf("%w: layout %q", ErrInvalidAction, action.Op)
}
