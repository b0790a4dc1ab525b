package accounts

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	account lipgloss.Style
	active  lipgloss.Style
	detail  lipgloss.Style
	label   lipgloss.Style
	warning lipgloss.Style
	section lipgloss.Style
	empty   lipgloss.Style
	faint   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		account: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		active:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("78")),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section: lipgloss.NewStyle().MarginTop(1),
		empty:   lipgloss.NewStyle().Faint(true),
		faint:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}
