package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	core "github.com/goliatone/go-admin-shell/components/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseSortRules(t *testing.T) {
	rules, err := parseSortRules([]string{"userName", "date:desc"})
	require.NoError(t, err)
	assert.Equal(t, []core.SortRule{
		{Column: core.ColumnUser},
		{Column: core.ColumnDate, Desc: true},
	}, rules)

	_, err = parseSortRules([]string{"actions"})
	assert.Error(t, err)
	_, err = parseSortRules([]string{"user:sideways"})
	assert.Error(t, err)
}

func TestOrdersCommandJSON(t *testing.T) {
	var out bytes.Buffer
	cmd := ordersCmd{Filter: "natali", Page: 1, Format: "json", out: &out}
	require.NoError(t, cmd.Run(context.Background(), &cli{LogLevel: "error"}))

	var view core.TableView
	require.NoError(t, json.Unmarshal(out.Bytes(), &view))
	assert.Equal(t, 35, view.Total)
	assert.Equal(t, 5, view.Filtered)
	for _, row := range view.Rows {
		assert.Equal(t, "Natali Craig", row.User.Name)
	}
}

func TestOrdersCommandTable(t *testing.T) {
	var out bytes.Buffer
	cmd := ordersCmd{Sort: []string{"id:desc"}, Page: 2, PageSize: 10, Format: "table", out: &out}
	require.NoError(t, cmd.Run(context.Background(), &cli{LogLevel: "error"}))

	text := out.String()
	assert.Contains(t, text, "Order ID")
	assert.Contains(t, text, "#CM9825")
	assert.Contains(t, text, "Page 2 of 4, 35 of 35 orders")
}

func TestOrdersCommandNoResults(t *testing.T) {
	var out bytes.Buffer
	cmd := ordersCmd{Filter: "nobody", Page: 1, Format: "table", out: &out}
	require.NoError(t, cmd.Run(context.Background(), &cli{LogLevel: "error"}))
	assert.Equal(t, "No results found for \"nobody\"\n", out.String())
}

func TestOrdersCommandRejectsUnknownStatus(t *testing.T) {
	cmd := ordersCmd{Status: []string{"shipped"}, Page: 1, Format: "json", out: &bytes.Buffer{}}
	assert.Error(t, cmd.Run(context.Background(), &cli{LogLevel: "error"}))
}

func TestFixturesCommandWritesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "fixtures.yaml")
	cmd := fixturesCmd{Count: 3, Out: path}
	require.NoError(t, cmd.Run(context.Background()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc fixtureDocument
	require.NoError(t, yaml.Unmarshal(raw, &doc))
	assert.Len(t, doc.Orders, 3)
	assert.Equal(t, "#CM9801", doc.Orders[0].ID)
	assert.NotEmpty(t, doc.Dashboard.Stats)
	assert.NotEmpty(t, doc.Sidebar.Contacts)
}

func TestCLIParses(t *testing.T) {
	var root cli
	parser, err := kong.New(&root, kong.Name("adminctl"), kong.Exit(func(int) {}))
	require.NoError(t, err)

	kctx, err := parser.Parse([]string{"orders", "--filter", "drew", "-s", "user", "-s", "date:desc", "--format", "yaml"})
	require.NoError(t, err)
	assert.Equal(t, "orders", kctx.Command())
	assert.Equal(t, "drew", root.Orders.Filter)
	assert.Equal(t, []string{"user", "date:desc"}, root.Orders.Sort)

	_, err = parser.Parse([]string{"serve", "--transport", "grpc"})
	assert.Error(t, err)
	_, err = parser.Parse([]string{"tui", "--page", "orders"})
	require.NoError(t, err)
	assert.True(t, strings.EqualFold(root.TUI.Page, "orders"))
}
