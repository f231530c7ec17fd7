package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	core "github.com/goliatone/go-admin-shell/components/dashboard"
	"github.com/goliatone/go-admin-shell/pkg/mockapi"
	"gopkg.in/yaml.v3"
)

type fixturesCmd struct {
	Count int    `default:"35" help:"Number of generated orders."`
	Out   string `short:"o" type:"path" help:"Write to this file instead of stdout."`
}

type fixtureDocument struct {
	Dashboard core.DashboardData `yaml:"dashboard"`
	Sidebar   core.SidebarFeed   `yaml:"sidebar"`
	Orders    []core.Order       `yaml:"orders"`
}

func (cmd *fixturesCmd) Run(_ context.Context) error {
	if cmd.Count < 0 {
		return fmt.Errorf("adminctl: count must not be negative")
	}
	doc := fixtureDocument{
		Dashboard: mockapi.DashboardFixture(),
		Sidebar:   mockapi.SidebarFixture(),
		Orders:    mockapi.GenerateOrders(cmd.Count),
	}
	if cmd.Out == "" {
		return writeFixtures(os.Stdout, doc)
	}
	if err := os.MkdirAll(filepath.Dir(cmd.Out), 0o755); err != nil {
		return fmt.Errorf("adminctl: mkdir %s: %w", filepath.Dir(cmd.Out), err)
	}
	file, err := os.Create(cmd.Out) //nolint:gosec
	if err != nil {
		return fmt.Errorf("adminctl: create %s: %w", cmd.Out, err)
	}
	defer file.Close()
	if err := writeFixtures(file, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ Wrote %d orders to %s\n", len(doc.Orders), cmd.Out)
	return nil
}

func writeFixtures(w io.Writer, doc fixtureDocument) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("adminctl: write fixtures: %w", err)
	}
	return nil
}
