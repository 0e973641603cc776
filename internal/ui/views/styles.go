package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the monitor
type Styles struct {
	Title        lipgloss.Style
	Dim          lipgloss.Style
	Counters     lipgloss.Style
	Internal     lipgloss.Style
	External     lipgloss.Style
	Notification lipgloss.Style
	Suppressed   lipgloss.Style
	Error        lipgloss.Style
	Success      lipgloss.Style
	Status       lipgloss.Style
	Help         lipgloss.Style
	LogBox       lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim:          lipgloss.NewStyle().Faint(true),
		Counters:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Internal:     lipgloss.NewStyle().Foreground(lipgloss.Color("51")),  // cyan
		External:     lipgloss.NewStyle().Foreground(lipgloss.Color("33")),  // blue
		Notification: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Suppressed:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Help: lipgloss.NewStyle().Faint(true),
		LogBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")),
	}
}
