package views

import (
	"fmt"
	"strings"

	"gitsuggest/internal/domain"
	"gitsuggest/internal/ui/state"
)

// Screen rows above the first suggestion: container padding, title and its
// margin, input line, status line.
const ListOffset = 5

// rows below the list: scroll indicator, gap, help, container padding
const listFooter = 4

// Messages shown on the status line
const (
	LoadingMessage = "LOADING..."
	ErrorMessage   = "Sorry, something goes wrong. Try again."
)

// ReadyMarker is printed once the first frame is drawn in test mode
const ReadyMarker = "__READY__"

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width          int
	Height         int
	Input          string // rendered text input
	Search         state.SearchUIState
	Focused        bool
	Cursor         int // highlighted suggestion, -1 for none
	ViewportOffset int
	ViewportHeight int
	Spinner        string // current spinner frame
	Hint           string // shown when idle
	HelpView       string
	Ready          bool
}

// ListHeight returns how many suggestion rows fit in a terminal of the given height
func ListHeight(termHeight int) int {
	if termHeight <= 0 {
		termHeight = 24
	}
	h := termHeight - ListOffset - listFooter
	if h < 1 {
		h = 1
	}
	return h
}

// Renderer handles all view rendering
type Renderer struct {
	styles     *Styles
	itemRender *SuggestionRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:     styles,
		itemRender: NewSuggestionRenderer(styles),
	}
}

// Styles returns the renderer's styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(vs ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.styles.Title.Render("gitsuggest"))
	content.WriteString("\n")
	content.WriteString(vs.Input)
	content.WriteString("\n")
	content.WriteString(r.renderStatus(vs))

	if list := r.renderSuggestionList(vs); list != "" {
		content.WriteString("\n")
		content.WriteString(list)
	}

	helpText := vs.HelpView
	if helpText == "" {
		helpText = "Press ? for help"
	}
	helpText = r.styles.Help.Render(helpText)
	if vs.Ready {
		helpText += "  " + ReadyMarker
	}

	// Push help to the bottom
	currentLines := strings.Count(content.String(), "\n") + 1
	availableLines := vs.Height - 2
	if availableLines <= 0 {
		availableLines = 22 // Default terminal height minus padding
	}
	if paddingNeeded := availableLines - currentLines - 1; paddingNeeded > 0 {
		content.WriteString(strings.Repeat("\n", paddingNeeded))
	}
	content.WriteString("\n")
	content.WriteString(helpText)

	mainStyle := r.styles.Main
	if vs.Height > 0 {
		mainStyle = mainStyle.MaxHeight(vs.Height)
	}
	return mainStyle.Render(content.String())
}

// renderStatus always produces exactly one line so the list never moves
func (r *Renderer) renderStatus(vs ViewState) string {
	switch vs.Search.Phase() {
	case state.PhaseLoading:
		return r.styles.StatusLoading.Render(strings.TrimSpace(vs.Spinner + " " + LoadingMessage))
	case state.PhaseError:
		return r.styles.StatusError.Render(ErrorMessage)
	case state.PhaseResults:
		return r.styles.StatusSuccess.Render(countLabel(len(vs.Search.Items)))
	default:
		return r.styles.Dim.Render(vs.Hint)
	}
}

func countLabel(n int) string {
	if n == 1 {
		return "1 suggestion"
	}
	return fmt.Sprintf("%d suggestions", n)
}

// renderSuggestionList renders the visible window of suggestions
func (r *Renderer) renderSuggestionList(vs ViewState) string {
	items := vs.Search.Items
	if len(items) == 0 {
		return ""
	}

	height := vs.ViewportHeight
	if height <= 0 {
		height = len(items)
	}
	start, end := visibleRange(len(items), vs.ViewportOffset, height)

	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		lines = append(lines, r.itemRender.RenderSuggestion(items[i], i == vs.Cursor, vs.Search.Text, vs.Width))
	}

	var indicators []string
	if start > 0 {
		indicators = append(indicators, fmt.Sprintf("↑ %d more above", start))
	}
	if end < len(items) {
		indicators = append(indicators, fmt.Sprintf("↓ %d more below", len(items)-end))
	}
	if len(indicators) > 0 {
		lines = append(lines, r.styles.Scroll.Render(strings.Join(indicators, " · ")))
	}

	return strings.Join(lines, "\n")
}

func visibleRange(total, offset, height int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := offset + height
	if end > total {
		end = total
	}
	return offset, end
}

// ItemAt maps a screen row to a suggestion index, or -1
func ItemAt(row int, vs ViewState) int {
	idx := row - ListOffset
	if idx < 0 {
		return -1
	}
	height := vs.ViewportHeight
	if height <= 0 {
		height = len(vs.Search.Items)
	}
	if idx >= height {
		return -1
	}
	idx += vs.ViewportOffset
	if idx >= len(vs.Search.Items) {
		return -1
	}
	return idx
}

// PlainItem renders a suggestion without styling, for non-terminal output
func PlainItem(item domain.RankedItem) string {
	return fmt.Sprintf("%s\t%s\t%d", item.Value, item.Origin.Label(), item.ID)
}
