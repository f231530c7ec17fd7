package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.Color("#95A4FC")

	docStyle   = lipgloss.NewStyle().Margin(0, 1)
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#1C1C1C")).
			Padding(0, 1)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeTabStyle = tabStyle.Foreground(accent).Bold(true).Underline(true)
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	headerStyle    = lipgloss.NewStyle().Bold(true)
	sortedStyle    = headerStyle.Foreground(accent)

	panelStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238"))
	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("238"))

	toneStyles = map[string]lipgloss.Style{
		"blue":    lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8CD9")),
		"emerald": lipgloss.NewStyle().Foreground(lipgloss.Color("#4AA785")),
		"sky":     lipgloss.NewStyle().Foreground(lipgloss.Color("#59A8D4")),
		"amber":   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC555")),
		"gray":    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
)

func toneStyle(tone string) lipgloss.Style {
	if style, ok := toneStyles[tone]; ok {
		return style
	}
	return toneStyles["gray"]
}
