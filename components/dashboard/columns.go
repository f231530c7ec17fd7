package dashboard

import (
	"fmt"
	"strings"

	"github.com/ettle/strcase"
)

// ColumnKey identifies an order table column.
type ColumnKey string

const (
	ColumnSelect  ColumnKey = "select"
	ColumnID      ColumnKey = "id"
	ColumnUser    ColumnKey = "user"
	ColumnProject ColumnKey = "project"
	ColumnAddress ColumnKey = "address"
	ColumnDate    ColumnKey = "date"
	ColumnStatus  ColumnKey = "status"
	ColumnActions ColumnKey = "actions"
)

// Column describes how a column participates in the table query.
type Column struct {
	Key        ColumnKey `json:"key"`
	Header     string    `json:"header"`
	Searchable bool      `json:"searchable"`
	Sortable   bool      `json:"sortable"`
	Filterable bool      `json:"filterable"`

	value func(Order) string
}

// Value extracts the comparable cell text for an order.
func (c Column) Value(order Order) string {
	if c.value == nil {
		return ""
	}
	return c.value(order)
}

var orderColumns = []Column{
	{Key: ColumnSelect, Header: ""},
	{Key: ColumnID, Header: "Order ID", Searchable: true, Sortable: true, value: func(o Order) string { return o.ID }},
	{Key: ColumnUser, Header: "User", Searchable: true, Sortable: true, value: func(o Order) string { return o.User.Name }},
	{Key: ColumnProject, Header: "Project", Searchable: true, Sortable: true, value: func(o Order) string { return o.Project }},
	{Key: ColumnAddress, Header: "Address", Searchable: true, Sortable: true, value: func(o Order) string { return o.Address }},
	{Key: ColumnDate, Header: "Date", Sortable: true, value: func(o Order) string { return o.Date }},
	{Key: ColumnStatus, Header: "Status", Sortable: true, Filterable: true, value: func(o Order) string { return string(o.Status) }},
	{Key: ColumnActions, Header: ""},
}

var columnAliases = map[string]ColumnKey{
	"order_id":  ColumnID,
	"user_name": ColumnUser,
	"name":      ColumnUser,
}

// OrderColumns returns the table columns in display order.
func OrderColumns() []Column {
	return cloneSlice(orderColumns)
}

// LookupColumn finds a column by key.
func LookupColumn(key ColumnKey) (Column, bool) {
	for _, col := range orderColumns {
		if col.Key == key {
			return col, true
		}
	}
	return Column{}, false
}

// ParseColumnKey normalizes userName, user-name and "User Name" style input.
func ParseColumnKey(raw string) (ColumnKey, error) {
	key := strcase.ToSnake(strings.TrimSpace(raw))
	if alias, ok := columnAliases[key]; ok {
		return alias, nil
	}
	if _, ok := LookupColumn(ColumnKey(key)); ok {
		return ColumnKey(key), nil
	}
	return "", fmt.Errorf("dashboard: unknown column %q", raw)
}
