package dashboard

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Page codes shipped with the shell.
const (
	PageDashboard = "dashboard"
	PageOrders    = "orders"
)

// Page is a routable view rendered inside the shell.
type Page struct {
	Code       string   `json:"code" yaml:"code"`
	Title      string   `json:"title" yaml:"title"`
	Path       string   `json:"path" yaml:"path"`
	Template   string   `json:"template" yaml:"template"`
	Slices     []Slice  `json:"slices" yaml:"slices"`
	Breadcrumb []string `json:"breadcrumb" yaml:"breadcrumb"`
}

// NavItem is a left panel entry. Items without Href are inert.
type NavItem struct {
	Label    string    `json:"label" yaml:"label"`
	Icon     string    `json:"icon,omitempty" yaml:"icon,omitempty"`
	Href     string    `json:"href,omitempty" yaml:"href,omitempty"`
	Active   bool      `json:"active" yaml:"-"`
	Children []NavItem `json:"children,omitempty" yaml:"children,omitempty"`
}

// NavSection groups left panel entries under a heading.
type NavSection struct {
	Title string    `json:"title" yaml:"title"`
	Items []NavItem `json:"items" yaml:"items"`
}

// PageHook lets packages register pages or navigation during init().
type PageHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []PageHook
)

// RegisterPageHook registers a hook executed against new registries.
func RegisterPageHook(h PageHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry holds the shell's pages and navigation.
type Registry struct {
	mu       sync.RWMutex
	pages    map[string]Page
	order    []string
	sections []NavSection
}

// NewRegistry builds a registry with the dashboard and orders pages and
// applies global hooks.
func NewRegistry() (*Registry, error) {
	reg := &Registry{pages: map[string]Page{}}
	for _, page := range defaultPages() {
		if err := reg.RegisterPage(page); err != nil {
			return nil, err
		}
	}
	reg.sections = defaultNavigation()
	if err := reg.ApplyHooks(); err != nil {
		return nil, err
	}
	return reg, nil
}

func defaultPages() []Page {
	return []Page{
		{
			Code:       PageDashboard,
			Title:      "eCommerce",
			Path:       "/dashboard",
			Template:   "dashboard",
			Slices:     []Slice{SliceSidebar, SliceDashboard},
			Breadcrumb: []string{"Dashboards", "Default"},
		},
		{
			Code:       PageOrders,
			Title:      "Order List",
			Path:       "/orders",
			Template:   "orders",
			Slices:     []Slice{SliceSidebar, SliceOrders},
			Breadcrumb: []string{"Pages", "Orders"},
		},
	}
}

func defaultNavigation() []NavSection {
	return []NavSection{
		{Title: "Favorites", Items: []NavItem{
			{Label: "Overview", Icon: "list"},
			{Label: "Projects", Icon: "folder"},
		}},
		{Title: "Dashboards", Items: []NavItem{
			{Label: "Default", Icon: "chart-pie", Href: "/dashboard"},
			{Label: "eCommerce", Icon: "house"},
			{Label: "Projects", Icon: "folder"},
			{Label: "Online Courses", Icon: "book-open"},
		}},
		{Title: "Pages", Items: []NavItem{
			{Label: "Orders", Icon: "list", Href: "/orders"},
			{Label: "User Profile", Icon: "identification-badge", Children: []NavItem{
				{Label: "Overview"},
				{Label: "Projects"},
				{Label: "Campaigns"},
				{Label: "Documents"},
				{Label: "Followers"},
			}},
			{Label: "Account", Icon: "identification-card"},
			{Label: "Corporate", Icon: "users"},
			{Label: "Blog", Icon: "notebook"},
			{Label: "Social", Icon: "chats"},
		}},
	}
}

// ApplyHooks executes registered page hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterPage adds a page. Codes and paths must be unique.
func (r *Registry) RegisterPage(page Page) error {
	page.Code = strings.TrimSpace(page.Code)
	if page.Code == "" {
		return fmt.Errorf("dashboard: page code is required")
	}
	if page.Template == "" {
		return fmt.Errorf("dashboard: page %s needs a template", page.Code)
	}
	if page.Path == "" {
		page.Path = "/" + page.Code
	}
	for _, slice := range page.Slices {
		if _, err := ParseSlice(string(slice)); err != nil {
			return fmt.Errorf("dashboard: page %s: %w", page.Code, err)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pages[page.Code]; ok {
		return fmt.Errorf("dashboard: page %s already registered", page.Code)
	}
	for _, existing := range r.pages {
		if existing.Path == page.Path {
			return fmt.Errorf("dashboard: path %s already used by %s", page.Path, existing.Code)
		}
	}
	r.pages[page.Code] = page
	r.order = append(r.order, page.Code)
	return nil
}

// AddSection appends a navigation section.
func (r *Registry) AddSection(section NavSection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sections = append(r.sections, section)
}

// Page fetches a page by code.
func (r *Registry) Page(code string) (Page, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	page, ok := r.pages[code]
	return page, ok
}

// Pages returns every page in registration order.
func (r *Registry) Pages() []Page {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Page, 0, len(r.order))
	for _, code := range r.order {
		out = append(out, r.pages[code])
	}
	return out
}

// Navigation returns the nav sections with items linking to activePath marked active.
func (r *Registry) Navigation(activePath string) []NavSection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]NavSection, len(r.sections))
	for i, section := range r.sections {
		out[i] = NavSection{Title: section.Title, Items: markActive(section.Items, activePath)}
	}
	return out
}

func markActive(items []NavItem, activePath string) []NavItem {
	out := slices.Clone(items)
	for i := range out {
		out[i].Active = activePath != "" && out[i].Href == activePath
		if len(out[i].Children) > 0 {
			out[i].Children = markActive(out[i].Children, activePath)
		}
	}
	return out
}
