// Package ui holds the terminal styles shared by the CLI help and the installer.
package ui

import "github.com/charmbracelet/lipgloss"

// Basic ANSI colors so the output reads on light and dark terminals alike.
var (
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	DescStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	FlagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)
