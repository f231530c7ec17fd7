package dashboard

import (
	"fmt"

	"github.com/ettle/strcase"
)

// DefaultBreakpoint is the viewport width (px) below which the shell is narrow.
const DefaultBreakpoint = 768

// Region is the area of the shell a pointer event landed in.
type Region string

const (
	RegionLeftPanel  Region = "left_panel"
	RegionRightPanel Region = "right_panel"
	RegionContent    Region = "content"
)

// ParseRegion accepts leftPanel, left-panel, left_panel and similar spellings.
func ParseRegion(raw string) (Region, error) {
	switch key := Region(strcase.ToSnake(raw)); key {
	case RegionLeftPanel, RegionRightPanel, RegionContent:
		return key, nil
	case "left", "sidebar":
		return RegionLeftPanel, nil
	case "right", "notifications":
		return RegionRightPanel, nil
	case "", "main", "header":
		return RegionContent, nil
	}
	return "", fmt.Errorf("dashboard: unknown region %q", raw)
}

// LayoutState holds the visibility of the two side panels.
type LayoutState struct {
	LeftPanelOpen  bool `json:"left_panel_open"`
	RightPanelOpen bool `json:"right_panel_open"`
	Narrow         bool `json:"narrow"`

	viewportKnown bool
}

// NewLayoutState returns both panels open.
func NewLayoutState() LayoutState {
	return LayoutState{LeftPanelOpen: true, RightPanelOpen: true}
}

// SetLeftPanel forces the left panel open or closed.
func (l LayoutState) SetLeftPanel(open bool) LayoutState {
	l.LeftPanelOpen = open
	return l
}

// ToggleLeftPanel flips the left panel.
func (l LayoutState) ToggleLeftPanel() LayoutState {
	l.LeftPanelOpen = !l.LeftPanelOpen
	return l
}

// SetRightPanel forces the right panel open or closed.
func (l LayoutState) SetRightPanel(open bool) LayoutState {
	l.RightPanelOpen = open
	return l
}

// ToggleRightPanel flips the right panel.
func (l LayoutState) ToggleRightPanel() LayoutState {
	l.RightPanelOpen = !l.RightPanelOpen
	return l
}

// ApplyViewport opens both panels on wide viewports and closes both on narrow
// ones. The rule fires on the first report and afterwards only when the width
// crosses the breakpoint, so manual toggles survive resizes on the same side.
func (l LayoutState) ApplyViewport(width, breakpoint int) LayoutState {
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	narrow := width < breakpoint
	if l.viewportKnown && narrow == l.Narrow {
		return l
	}
	l.viewportKnown = true
	l.Narrow = narrow
	l.LeftPanelOpen = !narrow
	l.RightPanelOpen = !narrow
	return l
}

// OutsideClick closes, on narrow viewports, every open panel the click landed outside of.
func (l LayoutState) OutsideClick(target Region) LayoutState {
	if !l.Narrow {
		return l
	}
	if l.LeftPanelOpen && target != RegionLeftPanel {
		l.LeftPanelOpen = false
	}
	if l.RightPanelOpen && target != RegionRightPanel {
		l.RightPanelOpen = false
	}
	return l
}

// ToggleNavigation is the header navigation button. On narrow viewports it
// also closes the right panel so only one drawer is shown.
func (l LayoutState) ToggleNavigation() LayoutState {
	l = l.ToggleLeftPanel()
	if l.Narrow {
		l.RightPanelOpen = false
	}
	return l
}

// ToggleNotifications is the header notifications button, the mirror of ToggleNavigation.
func (l LayoutState) ToggleNotifications() LayoutState {
	l = l.ToggleRightPanel()
	if l.Narrow {
		l.LeftPanelOpen = false
	}
	return l
}

// DismissOverlay closes both panels.
func (l LayoutState) DismissOverlay() LayoutState {
	l.LeftPanelOpen = false
	l.RightPanelOpen = false
	return l
}
