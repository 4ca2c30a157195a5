package suggest

import (
	"context"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"gitsuggest/internal/domain"
	"gitsuggest/internal/eventbus"
	"gitsuggest/internal/ui/state"
)

// Fetcher runs one search cycle
type Fetcher interface {
	FetchAndRank(ctx context.Context, text string) ([]domain.RankedItem, error)
}

// Service is the input state machine of the widget. All methods must be
// called from the Bubble Tea update loop; fetches run inside the returned
// commands and report back through FetchCompletedMsg.
type Service struct {
	state    *state.SearchUIState
	fetcher  Fetcher
	bus      eventbus.EventBus
	settings Settings

	// generation identifies the latest triggered fetch; older results are dropped
	generation  uint64
	cancelFetch context.CancelFunc

	// pendingClear is the token of the scheduled clear, 0 when none
	clearSeq     uint64
	pendingClear uint64
}

// NewService creates the state machine. bus may be nil.
func NewService(fetcher Fetcher, bus eventbus.EventBus, settings Settings) *Service {
	if settings.MinLength <= 0 {
		settings.MinLength = DefaultSettings().MinLength
	}
	if settings.ClearDelay < 0 {
		settings.ClearDelay = 0
	}
	return &Service{
		state:    state.NewSearchUIState(),
		fetcher:  fetcher,
		bus:      bus,
		settings: settings,
	}
}

// State returns a copy of the current UI state
func (s *Service) State() state.SearchUIState {
	return s.state.Snapshot()
}

// Settings returns the effective settings
func (s *Service) Settings() Settings {
	return s.settings
}

// Generation returns the number of fetch cycles triggered so far
func (s *Service) Generation() uint64 {
	return s.generation
}

// ClearPending reports whether a blur's deferred clear is still scheduled
func (s *Service) ClearPending() bool {
	return s.pendingClear != 0
}

// TextChanged stores text and, once it is long enough, starts a new fetch
// cycle. Any fetch still in flight is cancelled and its result will be
// discarded.
func (s *Service) TextChanged(text string) tea.Cmd {
	s.state.Text = text
	if utf8.RuneCountInString(text) < s.settings.MinLength {
		return nil
	}

	s.state.Loading = true
	s.state.Error = false

	if s.cancelFetch != nil {
		s.cancelFetch()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelFetch = cancel

	s.generation++
	gen := s.generation
	cycleID := uuid.NewString()
	s.publish(eventbus.SearchStartedEvent{CycleID: cycleID, Generation: gen, Text: text})

	fetcher := s.fetcher
	return func() tea.Msg {
		start := time.Now()
		items, err := fetcher.FetchAndRank(ctx, text)
		return FetchCompletedMsg{
			CycleID:    cycleID,
			Generation: gen,
			Text:       text,
			Items:      items,
			Err:        err,
			Duration:   time.Since(start),
		}
	}
}

// HandleFetchCompleted applies a finished fetch and reports whether the
// result reached the state. Results of superseded cycles are dropped
// without touching the state; a result for text the user has since edited
// only ends the loading phase.
func (s *Service) HandleFetchCompleted(msg FetchCompletedMsg) bool {
	if msg.Generation != s.generation {
		s.publish(eventbus.SearchDiscardedEvent{
			CycleID:    msg.CycleID,
			Generation: msg.Generation,
			Text:       msg.Text,
			Reason:     domain.DiscardSuperseded,
		})
		return false
	}

	if s.cancelFetch != nil {
		s.cancelFetch()
		s.cancelFetch = nil
	}
	s.state.Loading = false

	if msg.Text != s.state.Text {
		s.publish(eventbus.SearchDiscardedEvent{
			CycleID:    msg.CycleID,
			Generation: msg.Generation,
			Text:       msg.Text,
			Reason:     domain.DiscardTextChanged,
		})
		return false
	}

	if msg.Err != nil {
		// the previous list stays visible under the error message
		s.state.Error = true
		s.publish(eventbus.SearchFailedEvent{
			CycleID:    msg.CycleID,
			Generation: msg.Generation,
			Text:       msg.Text,
			Duration:   msg.Duration,
			Err:        msg.Err,
		})
		return true
	}

	items := msg.Items
	if items == nil {
		items = []domain.RankedItem{}
	}
	s.state.Items = items
	s.publish(eventbus.SearchCompletedEvent{
		CycleID:    msg.CycleID,
		Generation: msg.Generation,
		Text:       msg.Text,
		Count:      len(items),
		Duration:   msg.Duration,
	})
	return true
}

// Blurred stores text and schedules the list to be cleared after the
// configured delay
func (s *Service) Blurred(text string) tea.Cmd {
	s.state.Text = text

	s.clearSeq++
	token := s.clearSeq
	s.pendingClear = token

	return tea.Tick(s.settings.ClearDelay, func(time.Time) tea.Msg {
		return ClearDueMsg{Token: token}
	})
}

// Selected puts value into the input and clears the list. A clear still
// scheduled by an earlier blur is revoked so it cannot run afterwards.
func (s *Service) Selected(value string) {
	s.state.Text = value
	s.state.Items = []domain.RankedItem{}
	s.pendingClear = 0

	s.publish(eventbus.ItemSelectedEvent{Value: value})
}

// HandleClearDue runs a deferred clear if it is still the pending one and
// reports whether it did
func (s *Service) HandleClearDue(msg ClearDueMsg) bool {
	if msg.Token == 0 || msg.Token != s.pendingClear {
		return false
	}
	s.pendingClear = 0
	s.state.Items = []domain.RankedItem{}

	s.publish(eventbus.ResultsClearedEvent{})
	return true
}

// Close cancels the fetch in flight, if any
func (s *Service) Close() {
	if s.cancelFetch != nil {
		s.cancelFetch()
		s.cancelFetch = nil
	}
}

func (s *Service) publish(event eventbus.DomainEvent) {
	if s.bus != nil {
		s.bus.Publish(event)
	}
}
