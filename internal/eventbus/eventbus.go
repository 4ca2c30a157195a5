package eventbus

import (
	"log/slog"
	"runtime/debug"
	"sync"

	"gitsuggest/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventSearchStarted   = domain.EventSearchStarted
	EventSearchCompleted = domain.EventSearchCompleted
	EventSearchFailed    = domain.EventSearchFailed
	EventSearchDiscarded = domain.EventSearchDiscarded
	EventItemSelected    = domain.EventItemSelected
	EventResultsCleared  = domain.EventResultsCleared
)

// Re-export domain event types
type SearchStartedEvent = domain.SearchStartedEvent
type SearchCompletedEvent = domain.SearchCompletedEvent
type SearchFailedEvent = domain.SearchFailedEvent
type SearchDiscardedEvent = domain.SearchDiscardedEvent
type ItemSelectedEvent = domain.ItemSelectedEvent
type ResultsClearedEvent = domain.ResultsClearedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// New creates a new event bus
func New() EventBus {
	return NewWithBuffer(1000)
}

// NewWithBuffer creates an event bus whose queue holds up to size events
func NewWithBuffer(size int) EventBus {
	if size <= 0 {
		size = 1
	}
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, size),
		quit:      make(chan struct{}),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish queues an event for all subscribers. It never blocks the caller;
// when the queue is full the event is dropped.
func (b *bus) Publish(event DomainEvent) {
	select {
	case <-b.quit:
		return
	default:
	}

	select {
	case b.eventChan <- event:
	default:
		slog.Warn("event bus channel full, dropping event", "type", event.Type())
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher and drops queued events
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
		b.wg.Wait()
	})
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			subs := make([]subscription, len(b.handlers[event.Type()]))
			copy(subs, b.handlers[event.Type()])
			b.mu.RUnlock()

			// Handlers run in order on the dispatcher goroutine so that
			// subscribers observe events in publish order.
			for _, s := range subs {
				b.call(s.handler, event)
			}

		case <-b.quit:
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}

func (b *bus) call(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event handler panic", "type", event.Type(), "panic", r, "stack", string(debug.Stack()))
		}
	}()
	h(event)
}
