package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "320px"

// ChartKind identifies a chart on the overview page.
type ChartKind string

const (
	ChartRevenue     ChartKind = "revenue"
	ChartProjections ChartKind = "projections"
	ChartSales       ChartKind = "sales"
	ChartLocations   ChartKind = "locations"
)

// ChartKinds lists every overview chart in display order.
func ChartKinds() []ChartKind {
	return []ChartKind{ChartProjections, ChartRevenue, ChartLocations, ChartSales}
}

// ThemeMode is the shell color scheme.
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

// ChartTheme maps a color scheme to an ECharts theme.
func ChartTheme(mode ThemeMode) string {
	if mode == ThemeDark {
		return types.ThemeChalk
	}
	return types.ThemeWesteros
}

// ChartRenderer renders overview charts as embeddable ECharts HTML.
type ChartRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
	height     string
}

// ChartOption customizes a ChartRenderer.
type ChartOption func(*ChartRenderer)

// WithChartCache injects a render cache.
func WithChartCache(cache RenderCache) ChartOption {
	return func(r *ChartRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets the default theme (defaults to Westeros).
func WithChartTheme(theme string) ChartOption {
	return func(r *ChartRenderer) {
		if theme != "" {
			r.theme = theme
		}
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) ChartOption {
	return func(r *ChartRenderer) {
		r.assetsHost = host
	}
}

// WithChartHeight overrides the chart container height.
func WithChartHeight(height string) ChartOption {
	return func(r *ChartRenderer) {
		if height != "" {
			r.height = height
		}
	}
}

// NewChartRenderer builds a renderer backed by a 5 minute in-memory cache.
func NewChartRenderer(options ...ChartOption) *ChartRenderer {
	r := &ChartRenderer{
		cache:  NewChartCache(5 * time.Minute),
		theme:  types.ThemeWesteros,
		height: defaultChartHeight,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Render returns the chart HTML for kind. An empty theme uses the default.
func (r *ChartRenderer) Render(kind ChartKind, data DashboardData, theme string) (string, error) {
	if theme == "" {
		theme = r.theme
	}
	var (
		source any
		render func() (string, error)
	)
	switch kind {
	case ChartRevenue:
		source = data.Revenue
		render = func() (string, error) { return r.revenue(data.Revenue, theme) }
	case ChartProjections:
		source = data.Projections
		render = func() (string, error) { return r.projections(data.Projections, theme) }
	case ChartSales:
		source = data.SalesDistribution
		render = func() (string, error) { return r.sales(data.SalesDistribution, theme) }
	case ChartLocations:
		source = data.Locations
		render = func() (string, error) { return r.locations(data.Locations, theme) }
	default:
		return "", fmt.Errorf("dashboard: unsupported chart %q", kind)
	}
	if r.cache == nil {
		return render()
	}
	key := fmt.Sprintf("%s:%s:%s", kind, theme, payloadHash(source))
	return r.cache.GetOrRender(key, render)
}

// RenderAll renders every overview chart keyed by kind name.
func (r *ChartRenderer) RenderAll(data DashboardData, theme string) (map[string]string, error) {
	out := make(map[string]string, len(ChartKinds()))
	for _, kind := range ChartKinds() {
		html, err := r.Render(kind, data, theme)
		if err != nil {
			return nil, err
		}
		out[string(kind)] = html
	}
	return out, nil
}

func (r *ChartRenderer) revenue(points []RevenuePoint, theme string) (string, error) {
	months := make([]string, len(points))
	current := make([]opts.LineData, len(points))
	previous := make([]opts.LineData, len(points))
	for i, p := range points {
		months[i] = p.Month
		current[i] = opts.LineData{Name: p.Month, Value: p.Current}
		previous[i] = opts.LineData{Name: p.Month, Value: p.Previous}
	}
	line := charts.NewLine()
	line.SetGlobalOptions(r.globalOptions("Revenue", theme)...)
	line.SetXAxis(months).
		AddSeries("Current Week", current).
		AddSeries("Previous Week", previous)
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return renderChart(line)
}

func (r *ChartRenderer) projections(points []ProjectionPoint, theme string) (string, error) {
	months := make([]string, len(points))
	values := make([]opts.BarData, len(points))
	for i, p := range points {
		months[i] = p.Month
		values[i] = opts.BarData{Name: p.Month, Value: p.Value}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalOptions("Projections vs Actuals", theme)...)
	bar.SetXAxis(months).AddSeries("Projection", values)
	return renderChart(bar)
}

func (r *ChartRenderer) sales(slices []SalesSlice, theme string) (string, error) {
	values := make([]opts.PieData, len(slices))
	for i, s := range slices {
		values[i] = opts.PieData{Name: s.Channel, Value: s.Value}
		if s.Fill != "" {
			values[i].ItemStyle = &opts.ItemStyle{Color: s.Fill}
		}
	}
	pie := charts.NewPie()
	pie.SetGlobalOptions(r.globalOptions("Total Sales", theme)...)
	pie.AddSeries("Sales", values)
	pie.SetSeriesOptions(charts.WithPieChartOpts(opts.PieChart{Radius: []string{"45%", "70%"}}))
	return renderChart(pie)
}

func (r *ChartRenderer) locations(metrics []LocationMetric, theme string) (string, error) {
	cities := make([]string, len(metrics))
	values := make([]opts.BarData, len(metrics))
	for i, m := range metrics {
		cities[i] = m.City
		values[i] = opts.BarData{Name: m.Label, Value: m.Value}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalOptions("Revenue by Location", theme)...)
	bar.SetXAxis(cities).AddSeries("Revenue", values)
	bar.XYReversal()
	return renderChart(bar)
}

func (r *ChartRenderer) globalOptions(title, theme string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  theme,
		Width:  "100%",
		Height: r.height,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
