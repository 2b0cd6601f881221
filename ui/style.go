package ui

import "github.com/charmbracelet/lipgloss"

var (
	cyan    = lipgloss.Color("#00E5FF")
	magenta = lipgloss.Color("#FF1B6B")
	yellow  = lipgloss.Color("#FFB500")
	green   = lipgloss.Color("#2AFFAA")
	red     = lipgloss.Color("#FF5555")
	muted   = lipgloss.Color("#6C7280")
	text    = lipgloss.Color("#ECEFF4")
)

type styles struct {
	title       lipgloss.Style
	tab         lipgloss.Style
	activeTab   lipgloss.Style
	metric      lipgloss.Style
	metricLabel lipgloss.Style
	metricValue lipgloss.Style
	panel       lipgloss.Style
	heading     lipgloss.Style
	muted       lipgloss.Style
	positive    lipgloss.Style
	negative    lipgloss.Style
	warning     lipgloss.Style
	actual      lipgloss.Style
	predicted   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title: lipgloss.NewStyle().
			Foreground(cyan).
			Bold(true).
			MarginBottom(1),
		tab: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 2),
		activeTab: lipgloss.NewStyle().
			Foreground(magenta).
			Bold(true).
			Underline(true).
			Padding(0, 2),
		metric: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cyan).
			Padding(0, 2).
			MarginRight(1),
		metricLabel: lipgloss.NewStyle().Foreground(muted),
		metricValue: lipgloss.NewStyle().Foreground(text).Bold(true),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
		heading:   lipgloss.NewStyle().Foreground(magenta).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(muted),
		positive:  lipgloss.NewStyle().Foreground(green).Bold(true),
		negative:  lipgloss.NewStyle().Foreground(red).Bold(true),
		warning:   lipgloss.NewStyle().Foreground(yellow),
		actual:    lipgloss.NewStyle().Foreground(red),
		predicted: lipgloss.NewStyle().Foreground(cyan),
	}
}
