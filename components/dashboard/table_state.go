package dashboard

import "strings"

// DefaultPageSize is the number of rows shown per page.
const DefaultPageSize = 8

// SortRule orders rows by a column.
type SortRule struct {
	Column ColumnKey `json:"id" yaml:"id"`
	Desc   bool      `json:"desc" yaml:"desc"`
}

// ColumnFilter restricts a column to a set of accepted values. An empty set is inactive.
type ColumnFilter struct {
	Column ColumnKey `json:"id" yaml:"id"`
	Values []string  `json:"value" yaml:"value"`
}

// Pagination is the 0-based page cursor.
type Pagination struct {
	PageIndex int `json:"page_index" yaml:"page_index"`
	PageSize  int `json:"page_size" yaml:"page_size"`
}

// TableState is the query state of the order table. Methods never mutate the
// receiver; they return the next state.
type TableState struct {
	GlobalFilter  string         `json:"global_filter" yaml:"global_filter"`
	Sorting       []SortRule     `json:"sorting" yaml:"sorting"`
	ColumnFilters []ColumnFilter `json:"column_filters" yaml:"column_filters"`
	Pagination    Pagination     `json:"pagination" yaml:"pagination"`
}

// NewTableState returns the initial query state.
func NewTableState(pageSize int) TableState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return TableState{
		Sorting:       []SortRule{},
		ColumnFilters: []ColumnFilter{},
		Pagination:    Pagination{PageSize: pageSize},
	}
}

// Clone returns a copy that shares no slices with the receiver.
func (t TableState) Clone() TableState {
	out := t
	out.Sorting = cloneSlice(t.Sorting)
	out.ColumnFilters = make([]ColumnFilter, len(t.ColumnFilters))
	for i, f := range t.ColumnFilters {
		out.ColumnFilters[i] = ColumnFilter{Column: f.Column, Values: cloneSlice(f.Values)}
	}
	return out
}

// WithGlobalFilter replaces the search text and returns to the first page.
func (t TableState) WithGlobalFilter(text string) TableState {
	next := t.Clone()
	next.GlobalFilter = text
	next.Pagination.PageIndex = 0
	return next
}

// WithSorting replaces the sort list. The page cursor is kept.
func (t TableState) WithSorting(rules []SortRule) TableState {
	next := t.Clone()
	next.Sorting = dedupeSorting(rules)
	return next
}

// ToggleSort cycles a column through ascending, descending and unsorted.
// With multi set the column is appended as a secondary key instead of
// replacing the list.
func (t TableState) ToggleSort(column ColumnKey, multi bool) TableState {
	next := t.Clone()
	idx := -1
	for i, rule := range next.Sorting {
		if rule.Column == column {
			idx = i
			break
		}
	}

	switch {
	case idx < 0:
		rule := SortRule{Column: column}
		if multi {
			next.Sorting = append(next.Sorting, rule)
		} else {
			next.Sorting = []SortRule{rule}
		}
	case !next.Sorting[idx].Desc:
		if multi {
			next.Sorting[idx].Desc = true
		} else {
			next.Sorting = []SortRule{{Column: column, Desc: true}}
		}
	default:
		if multi {
			next.Sorting = append(next.Sorting[:idx], next.Sorting[idx+1:]...)
		} else {
			next.Sorting = []SortRule{}
		}
	}
	return next
}

// ClearSorting drops every sort key.
func (t TableState) ClearSorting() TableState {
	next := t.Clone()
	next.Sorting = []SortRule{}
	return next
}

// WithColumnFilters replaces the column filters and returns to the first page.
func (t TableState) WithColumnFilters(filters []ColumnFilter) TableState {
	next := t.Clone()
	next.ColumnFilters = next.ColumnFilters[:0]
	for _, f := range filters {
		values := make([]string, 0, len(f.Values))
		for _, v := range f.Values {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		next.ColumnFilters = append(next.ColumnFilters, ColumnFilter{Column: f.Column, Values: values})
	}
	next.Pagination.PageIndex = 0
	return next
}

// WithStatusFilter sets the status multi-select, keeping other column filters.
func (t TableState) WithStatusFilter(statuses ...OrderStatus) TableState {
	filters := make([]ColumnFilter, 0, len(t.ColumnFilters)+1)
	for _, f := range t.ColumnFilters {
		if f.Column != ColumnStatus {
			filters = append(filters, f)
		}
	}
	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		filters = append(filters, ColumnFilter{Column: ColumnStatus, Values: values})
	}
	return t.WithColumnFilters(filters)
}

// StatusFilter returns the active status selection.
func (t TableState) StatusFilter() []OrderStatus {
	for _, f := range t.ColumnFilters {
		if f.Column != ColumnStatus {
			continue
		}
		out := make([]OrderStatus, len(f.Values))
		for i, v := range f.Values {
			out[i] = OrderStatus(v)
		}
		return out
	}
	return nil
}

// WithPagination replaces the cursor as given; sizes below one fall back to the default.
func (t TableState) WithPagination(p Pagination) TableState {
	next := t.Clone()
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageIndex < 0 {
		p.PageIndex = 0
	}
	next.Pagination = p
	return next
}

// WithPageIndex moves to a page, clamped to the pages available for rowCount rows.
func (t TableState) WithPageIndex(index, rowCount int) TableState {
	next := t.Clone()
	next.Pagination.PageIndex = clampPage(index, PageCount(rowCount, t.pageSize()))
	return next
}

// NextPage advances one page; it is a no-op on the last page.
func (t TableState) NextPage(rowCount int) TableState {
	return t.WithPageIndex(t.Pagination.PageIndex+1, rowCount)
}

// PreviousPage goes back one page; it is a no-op on the first page.
func (t TableState) PreviousPage(rowCount int) TableState {
	return t.WithPageIndex(t.Pagination.PageIndex-1, rowCount)
}

// WithPageSize changes the page size and keeps the first visible row on screen.
func (t TableState) WithPageSize(size int) TableState {
	if size <= 0 {
		size = DefaultPageSize
	}
	next := t.Clone()
	top := t.Pagination.PageIndex * t.pageSize()
	next.Pagination = Pagination{PageIndex: top / size, PageSize: size}
	return next
}

func (t TableState) pageSize() int {
	if t.Pagination.PageSize <= 0 {
		return DefaultPageSize
	}
	return t.Pagination.PageSize
}

func clampPage(index, pageCount int) int {
	if index < 0 || pageCount == 0 {
		return 0
	}
	if index > pageCount-1 {
		return pageCount - 1
	}
	return index
}

func dedupeSorting(rules []SortRule) []SortRule {
	out := make([]SortRule, 0, len(rules))
	seen := make(map[ColumnKey]struct{}, len(rules))
	for _, rule := range rules {
		if rule.Column == "" {
			continue
		}
		if _, dup := seen[rule.Column]; dup {
			continue
		}
		seen[rule.Column] = struct{}{}
		out = append(out, rule)
	}
	return out
}
