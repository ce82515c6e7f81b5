package tui

import "github.com/charmbracelet/lipgloss"

var (
	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	assistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	hintStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	statusStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	docStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	spinnerStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	inputBoxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
