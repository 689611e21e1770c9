package ui

import "github.com/charmbracelet/lipgloss"

// ANSI palette indexes, so the terminal theme decides the exact colours.
var (
	// TitleStyle for section headings
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	// UsageStyle for usage lines and message authors
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle for secondary text
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// FlagStyle for flags
	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)
