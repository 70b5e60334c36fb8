package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	key       lipgloss.Style
	activeKey lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	errText   lipgloss.Style
	help      lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
		key:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		activeKey: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("48")),
		label:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		value:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		errText:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		help:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}
