package cli

import (
	"context"

	"gitsuggest/internal/config"
	"gitsuggest/internal/eventbus"
	"gitsuggest/internal/logger"
	"gitsuggest/internal/metrics"
	"gitsuggest/internal/search"
)

// newMetrics builds the metrics manager from config
func newMetrics(cfg *config.Config) *metrics.Manager {
	return metrics.NewManager(
		metrics.WithNamespace(cfg.Metrics.Namespace),
		metrics.WithSubsystem(cfg.Metrics.Subsystem),
		metrics.WithHistogramBuckets(cfg.Metrics.Buckets),
	)
}

// newOrchestrator wires the HTTP client and query builder from config
func newOrchestrator(cfg *config.Config, m *metrics.Manager) *search.Orchestrator {
	client := search.NewClient(cfg.API.UserAgent, cfg.API.Timeout)
	queries := search.NewQueryBuilder(cfg.API.PersonEndpoint, cfg.API.RepositoryEndpoint)
	return search.NewOrchestrator(client, queries,
		search.WithLimit(cfg.Search.MaxRecords),
		search.WithRecorder(m),
	)
}

// subscribeLogging writes the widget's lifecycle to the log. Failures keep
// their cause here; the widget itself only shows a generic message.
func subscribeLogging(bus eventbus.EventBus, log logger.Logger) func() {
	ctx := context.Background()
	unsubs := []func(){
		bus.Subscribe(eventbus.EventSearchStarted, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.SearchStartedEvent); ok {
				log.Debug(ctx, "search started",
					logger.String("cycle_id", ev.CycleID),
					logger.Uint64("generation", ev.Generation),
					logger.String("text", ev.Text))
			}
		}),
		bus.Subscribe(eventbus.EventSearchCompleted, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.SearchCompletedEvent); ok {
				log.Debug(ctx, "search completed",
					logger.String("cycle_id", ev.CycleID),
					logger.Int("count", ev.Count),
					logger.Duration("duration", ev.Duration))
			}
		}),
		bus.Subscribe(eventbus.EventSearchFailed, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.SearchFailedEvent); ok {
				log.Warn(ctx, "search failed",
					logger.String("cycle_id", ev.CycleID),
					logger.String("text", ev.Text),
					logger.Duration("duration", ev.Duration),
					logger.Error(ev.Err))
			}
		}),
		bus.Subscribe(eventbus.EventSearchDiscarded, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.SearchDiscardedEvent); ok {
				log.Debug(ctx, "search discarded",
					logger.String("cycle_id", ev.CycleID),
					logger.String("reason", string(ev.Reason)))
			}
		}),
		bus.Subscribe(eventbus.EventItemSelected, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.ItemSelectedEvent); ok {
				log.Info(ctx, "suggestion selected", logger.String("value", ev.Value))
			}
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
