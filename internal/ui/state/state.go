package state

import (
	"gitsuggest/internal/domain"
)

// SearchUIState is everything the view needs to render the widget.
// It is owned by the suggest service; the view only reads copies of it.
type SearchUIState struct {
	Text    string              // current input text
	Items   []domain.RankedItem // ranked suggestions, never longer than the cap
	Loading bool                // a fetch cycle is in flight
	Error   bool                // the latest fetch cycle failed
}

// NewSearchUIState creates the idle state
func NewSearchUIState() *SearchUIState {
	return &SearchUIState{
		Items: []domain.RankedItem{},
	}
}

// Snapshot returns a copy that shares nothing with s
func (s *SearchUIState) Snapshot() SearchUIState {
	c := *s
	c.Items = append([]domain.RankedItem(nil), s.Items...)
	return c
}

// Phase is the informal widget state derived from the flags
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseResults
	PhaseError
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseResults:
		return "results"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// Phase derives the current phase. Loading wins over error and results,
// error wins over results since a failed cycle keeps the old list.
func (s *SearchUIState) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseLoading
	case s.Error:
		return PhaseError
	case len(s.Items) > 0:
		return PhaseResults
	default:
		return PhaseIdle
	}
}
