package dashboard

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// MaxPageButtons caps the numbered buttons in the pagination strip.
const MaxPageButtons = 5

// TableView is the computed page of the order table.
type TableView struct {
	Rows        []Order        `json:"rows" yaml:"rows"`
	Total       int            `json:"total" yaml:"total"`
	Filtered    int            `json:"filtered" yaml:"filtered"`
	PageIndex   int            `json:"page_index" yaml:"page_index"`
	PageSize    int            `json:"page_size" yaml:"page_size"`
	PageCount   int            `json:"page_count" yaml:"page_count"`
	CanPrevious bool           `json:"can_previous_page" yaml:"can_previous_page"`
	CanNext     bool           `json:"can_next_page" yaml:"can_next_page"`
	PageButtons []int          `json:"page_buttons" yaml:"page_buttons"`
	State       TableState     `json:"state" yaml:"state"`
	Status      ResourceStatus `json:"status" yaml:"status"`
	Error       string         `json:"error,omitempty" yaml:"error,omitempty"`
	Stale       bool           `json:"stale" yaml:"stale"`
}

// Empty reports a table with no rows left after filtering.
func (v TableView) Empty() bool {
	return v.Filtered == 0
}

// NoResults reports a loaded table whose filters matched nothing. Failed or
// pending loads are not "no results".
func (v TableView) NoResults() bool {
	return v.Empty() && v.Status == ResourceSucceeded
}

// FirstRow is the 1-based position of the first visible row, 0 when empty.
func (v TableView) FirstRow() int {
	if len(v.Rows) == 0 {
		return 0
	}
	return v.PageIndex*v.PageSize + 1
}

// LastRow is the 1-based position of the last visible row.
func (v TableView) LastRow() int {
	if len(v.Rows) == 0 {
		return 0
	}
	return v.PageIndex*v.PageSize + len(v.Rows)
}

// PageCount is ceil(rows/size); zero rows yield zero pages.
func PageCount(rows, size int) int {
	if rows <= 0 || size <= 0 {
		return 0
	}
	return (rows + size - 1) / size
}

// FilterOrders keeps rows matching the global text and every active column filter.
func FilterOrders(orders []Order, globalFilter string, filters []ColumnFilter) []Order {
	fold := cases.Fold()
	needle := fold.String(globalFilter)

	searchable := make([]Column, 0, len(orderColumns))
	for _, col := range orderColumns {
		if col.Searchable {
			searchable = append(searchable, col)
		}
	}

	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		if needle != "" && !matchesAny(order, searchable, needle, fold) {
			continue
		}
		if !matchesColumnFilters(order, filters) {
			continue
		}
		out = append(out, order)
	}
	return out
}

func matchesAny(order Order, cols []Column, needle string, fold cases.Caser) bool {
	for _, col := range cols {
		if strings.Contains(fold.String(col.Value(order)), needle) {
			return true
		}
	}
	return false
}

func matchesColumnFilters(order Order, filters []ColumnFilter) bool {
	for _, f := range filters {
		if len(f.Values) == 0 {
			continue
		}
		col, ok := LookupColumn(f.Column)
		if !ok {
			continue
		}
		if !slices.Contains(f.Values, col.Value(order)) {
			return false
		}
	}
	return true
}

// SortOrders returns a stably sorted copy. The first rule is the primary key.
func SortOrders(orders []Order, rules []SortRule) []Order {
	out := cloneSlice(orders)
	if len(rules) == 0 {
		return out
	}
	cols := make([]Column, 0, len(rules))
	desc := make([]bool, 0, len(rules))
	for _, rule := range rules {
		col, ok := LookupColumn(rule.Column)
		if !ok || !col.Sortable {
			continue
		}
		cols = append(cols, col)
		desc = append(desc, rule.Desc)
	}
	slices.SortStableFunc(out, func(a, b Order) int {
		for i, col := range cols {
			c := strings.Compare(col.Value(a), col.Value(b))
			if c == 0 {
				continue
			}
			if desc[i] {
				return -c
			}
			return c
		}
		return 0
	})
	return out
}

// Paginate slices rows for the cursor. The index is clamped to the available pages.
func Paginate(rows []Order, p Pagination) ([]Order, int) {
	size := p.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	index := clampPage(p.PageIndex, PageCount(len(rows), size))
	start := min(index*size, len(rows))
	end := min(start+size, len(rows))
	return cloneSlice(rows[start:end]), index
}

// BuildTable runs filter, sort and pagination over the loaded orders.
func BuildTable(orders []Order, state TableState) TableView {
	filtered := FilterOrders(orders, state.GlobalFilter, state.ColumnFilters)
	sorted := SortOrders(filtered, state.Sorting)
	size := state.pageSize()
	rows, index := Paginate(sorted, Pagination{PageIndex: state.Pagination.PageIndex, PageSize: size})
	pages := PageCount(len(sorted), size)

	buttons := make([]int, 0, MaxPageButtons)
	for i := range min(pages, MaxPageButtons) {
		buttons = append(buttons, i)
	}

	return TableView{
		Rows:        rows,
		Total:       len(orders),
		Filtered:    len(sorted),
		PageIndex:   index,
		PageSize:    size,
		PageCount:   pages,
		CanPrevious: index > 0,
		CanNext:     index+1 < pages,
		PageButtons: buttons,
		State:       state.Clone(),
	}
}
