package summary

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	label      lipgloss.Style
	detail     lipgloss.Style
	key        lipgloss.Style
	section    lipgloss.Style
	empty      lipgloss.Style
	undefined  lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barEmpty   lipgloss.Style
	tableHead  lipgloss.Style
	tableCell  lipgloss.Style
	tableEdge  lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		label:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		key:        lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		section:    lipgloss.NewStyle().MarginTop(1),
		empty:      lipgloss.NewStyle().Faint(true),
		undefined:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		tableHead:  lipgloss.NewStyle().Bold(true).Padding(0, 1),
		tableCell:  lipgloss.NewStyle().Padding(0, 1),
		tableEdge:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
