package suggest

import (
	"time"

	"gitsuggest/internal/domain"
)

// Settings tune the input state machine
type Settings struct {
	MinLength  int           // rune count that triggers a fetch
	ClearDelay time.Duration // wait between a blur and clearing the list
}

// DefaultSettings returns the stock trigger length and clear delay
func DefaultSettings() Settings {
	return Settings{
		MinLength:  3,
		ClearDelay: 100 * time.Millisecond,
	}
}

// FetchCompletedMsg carries the outcome of one fetch cycle back to the
// update loop
type FetchCompletedMsg struct {
	CycleID    string
	Generation uint64
	Text       string
	Items      []domain.RankedItem
	Err        error
	Duration   time.Duration
}

// ClearDueMsg fires when the deferred clear scheduled by a blur is due
type ClearDueMsg struct {
	Token uint64
}
