package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchStarted   EventType = "SearchStarted"
	EventSearchCompleted EventType = "SearchCompleted"
	EventSearchFailed    EventType = "SearchFailed"
	EventSearchDiscarded EventType = "SearchDiscarded"
	EventItemSelected    EventType = "ItemSelected"
	EventResultsCleared  EventType = "ResultsCleared"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchStartedEvent is emitted when a text change triggers a fetch cycle
type SearchStartedEvent struct {
	CycleID    string
	Generation uint64
	Text       string
}

func (e SearchStartedEvent) Type() EventType { return EventSearchStarted }

// SearchCompletedEvent is emitted when a fetch cycle's results are applied
type SearchCompletedEvent struct {
	CycleID    string
	Generation uint64
	Text       string
	Count      int
	Duration   time.Duration
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SearchFailedEvent is emitted when a fetch cycle ends in the error state
type SearchFailedEvent struct {
	CycleID    string
	Generation uint64
	Text       string
	Duration   time.Duration
	Err        error
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// DiscardReason explains why a finished fetch was not applied
type DiscardReason string

const (
	DiscardSuperseded  DiscardReason = "superseded"   // a newer fetch was triggered
	DiscardTextChanged DiscardReason = "text_changed" // input no longer matches the fetched text
)

// SearchDiscardedEvent is emitted when a finished fetch is dropped
type SearchDiscardedEvent struct {
	CycleID    string
	Generation uint64
	Text       string
	Reason     DiscardReason
}

func (e SearchDiscardedEvent) Type() EventType { return EventSearchDiscarded }

// ItemSelectedEvent is emitted when a suggestion is picked
type ItemSelectedEvent struct {
	Value string
}

func (e ItemSelectedEvent) Type() EventType { return EventItemSelected }

// ResultsClearedEvent is emitted when the deferred clear after a blur runs
type ResultsClearedEvent struct{}

func (e ResultsClearedEvent) Type() EventType { return EventResultsCleared }
