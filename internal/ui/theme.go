package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#7C5CFF")

	HelpStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2)

	HelpTitleStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)
)
