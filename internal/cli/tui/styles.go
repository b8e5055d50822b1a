package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains all lipgloss styles for the TUI
type Styles struct {
	// Header styling
	Title    lipgloss.Style
	Scenario lipgloss.Style
	Timer    lipgloss.Style

	// Boundary line styling
	BoundaryName lipgloss.Style
	Rung         lipgloss.Style
	History      lipgloss.Style
	ErrorText    lipgloss.Style

	// Phase colors
	PhaseHealthy    lipgloss.Style
	PhaseFailed     lipgloss.Style
	PhaseEscalating lipgloss.Style
	PhaseTerminal   lipgloss.Style

	// Status counts
	StatusEscalations lipgloss.Style
	StatusCriticals   lipgloss.Style

	// Event feed styling
	FeedTitle lipgloss.Style
	FeedLine  lipgloss.Style

	// Footer styling
	Footer    lipgloss.Style
	FooterKey lipgloss.Style
}

// DefaultStyles returns the default TUI styles
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Scenario: lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Italic(true),
		Timer:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

		BoundaryName: lipgloss.NewStyle().Bold(true),
		Rung:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		History:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		ErrorText:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Italic(true),

		PhaseHealthy:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		PhaseFailed:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		PhaseEscalating: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		PhaseTerminal:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),

		StatusEscalations: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		StatusCriticals:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),

		FeedTitle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Bold(true),
		FeedLine:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

		Footer:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).MarginTop(1),
		FooterKey: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	}
}

// Icons used in the TUI
const (
	IconHealthy    = "✓"
	IconFailed     = "●"
	IconEscalating = "▲"
	IconTerminal   = "✗"
)
