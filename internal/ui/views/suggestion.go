package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitsuggest/internal/domain"
)

// SuggestionRenderer handles rendering of suggestion rows
type SuggestionRenderer struct {
	styles *Styles
}

// NewSuggestionRenderer creates a new suggestion renderer
func NewSuggestionRenderer(styles *Styles) *SuggestionRenderer {
	return &SuggestionRenderer{styles: styles}
}

// RenderSuggestion renders one row: the value on the left, the source label
// right-aligned. query is highlighted inside the value.
func (r *SuggestionRenderer) RenderSuggestion(item domain.RankedItem, isSelected bool, query string, width int) string {
	bgColor := ""
	if isSelected {
		bgColor = "238"
	}

	prefix := "  "
	if isSelected {
		prefix = "> "
	}

	labelStyle := r.styles.Label.Foreground(lipgloss.Color(OriginColor(item.Origin)))
	if isSelected {
		labelStyle = labelStyle.Background(lipgloss.Color(bgColor))
	}
	label := labelStyle.Render(item.Origin.Label())

	value := r.highlightMatch(item.Value, query, bgColor)

	if width <= 0 {
		width = 80
	}
	available := width - 4 // main container padding
	padding := available - lipgloss.Width(prefix) - lipgloss.Width(value) - lipgloss.Width(label)
	if padding < 2 {
		padding = 2
	}

	fill := strings.Repeat(" ", padding)
	if isSelected {
		bg := r.styles.HighlightBg
		return bg.Render(prefix) + value + bg.Render(fill) + label
	}
	return prefix + value + fill + label
}

// highlightMatch highlights the first case-insensitive occurrence of query
func (r *SuggestionRenderer) highlightMatch(value, query, bgColor string) string {
	base := lipgloss.NewStyle()
	highlight := r.styles.Highlight
	if bgColor != "" {
		base = base.Background(lipgloss.Color(bgColor))
		highlight = highlight.Background(lipgloss.Color(bgColor))
	}

	if query == "" {
		return base.Render(value)
	}

	lowerValue := strings.ToLower(value)
	lowerQuery := strings.ToLower(query)
	idx := strings.Index(lowerValue, lowerQuery)
	// Lowercasing can change byte lengths; only slice when it did not
	if idx < 0 || len(lowerValue) != len(value) || len(lowerQuery) != len(query) {
		return base.Render(value)
	}

	end := idx + len(query)
	return base.Render(value[:idx]) + highlight.Render(value[idx:end]) + base.Render(value[end:])
}
