package tui

import "github.com/charmbracelet/lipgloss"

var (
	brandStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	navStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	navActive     = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("255"))
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("244"))
	screenStyle   = lipgloss.NewStyle().Padding(1, 2)
)
