package views

import (
	"github.com/charmbracelet/lipgloss"

	"gitsuggest/internal/domain"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Scroll        lipgloss.Style
	Highlight     lipgloss.Style
	HighlightBg   lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
	Label         lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Dim:  lipgloss.NewStyle().Faint(true),
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2).
			MaxHeight(100), // Will be dynamically adjusted
		Scroll:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Highlight:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		HighlightBg:   lipgloss.NewStyle().Background(lipgloss.Color("238")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		Label:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// OriginColor returns the label color for a suggestion source
func OriginColor(origin domain.Origin) string {
	switch origin {
	case domain.OriginPerson:
		return "33" // blue
	case domain.OriginRepository:
		return "214" // yellow
	default:
		return "241"
	}
}
