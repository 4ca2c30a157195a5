package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitsuggest/internal/domain"
	"gitsuggest/internal/eventbus"
)

// Outcome label values.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"

	statusOK    = "ok"
	statusError = "error"
)

const shutdownTimeout = 2 * time.Second

// Manager owns the search metrics and the registry they live in.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	searchesStarted  prometheus.Counter
	searches         *prometheus.CounterVec
	searchDuration   *prometheus.HistogramVec
	searchesDiscard  *prometheus.CounterVec
	resultCount      prometheus.Gauge
	selections       prometheus.Counter
	resultsCleared   prometheus.Counter
	sourceRequests   *prometheus.CounterVec
	sourceRequestDur *prometheus.HistogramVec
}

// NewManager creates a metrics manager. Without WithPrometheusRegistry a
// fresh registry is used so tests and multiple managers never collide.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gitsuggest",
		subsystem:        "search",
		histogramBuckets: prometheus.DefBuckets,
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.searchesStarted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "started_total",
		Help:      "Total number of fetch cycles started",
	})

	m.searches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "finished_total",
		Help:      "Total number of fetch cycles applied to the widget by outcome",
	}, []string{"outcome"})

	m.searchDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duration_seconds",
		Help:      "Duration of applied fetch cycles in seconds",
		Buckets:   m.histogramBuckets,
	}, []string{"outcome"})

	m.searchesDiscard = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "discarded_total",
		Help:      "Total number of finished fetch cycles that were not applied",
	}, []string{"reason"})

	m.resultCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_result_count",
		Help:      "Number of suggestions shown by the latest completed cycle",
	})

	m.selections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "selections_total",
		Help:      "Total number of suggestions picked",
	})

	m.resultsCleared = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "results_cleared_total",
		Help:      "Total number of deferred clears that ran after a blur",
	})

	m.sourceRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_requests_total",
		Help:      "Total number of search API requests by source and status",
	}, []string{"source", "status"})

	m.sourceRequestDur = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_request_duration_seconds",
		Help:      "Search API request duration in seconds by source",
		Buckets:   m.histogramBuckets,
	}, []string{"source"})
}

// Registry returns the registry holding the metrics.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// ObserveSourceRequest records one search API request.
func (m *Manager) ObserveSourceRequest(source string, d time.Duration, err error) {
	status := statusOK
	if err != nil {
		status = statusError
	}
	m.sourceRequests.WithLabelValues(source, status).Inc()
	m.sourceRequestDur.WithLabelValues(source).Observe(d.Seconds())
}

// RecordSearchStarted counts a fetch cycle that was triggered.
func (m *Manager) RecordSearchStarted() { m.searchesStarted.Inc() }

// RecordSearchCompleted records an applied cycle and the size of its list.
func (m *Manager) RecordSearchCompleted(d time.Duration, count int) {
	m.searches.WithLabelValues(OutcomeCompleted).Inc()
	m.searchDuration.WithLabelValues(OutcomeCompleted).Observe(d.Seconds())
	m.resultCount.Set(float64(count))
}

// RecordSearchFailed records a cycle that ended in the error state.
func (m *Manager) RecordSearchFailed(d time.Duration) {
	m.searches.WithLabelValues(OutcomeFailed).Inc()
	m.searchDuration.WithLabelValues(OutcomeFailed).Observe(d.Seconds())
}

// RecordSearchDiscarded counts a finished cycle that was dropped.
func (m *Manager) RecordSearchDiscarded(reason domain.DiscardReason) {
	m.searchesDiscard.WithLabelValues(string(reason)).Inc()
}

// RecordSelection counts a picked suggestion.
func (m *Manager) RecordSelection() { m.selections.Inc() }

// RecordResultsCleared counts a deferred clear that ran.
func (m *Manager) RecordResultsCleared() { m.resultsCleared.Inc() }

// Subscribe records bus events until the returned function is called.
func (m *Manager) Subscribe(bus eventbus.EventBus) func() {
	unsubs := []func(){
		bus.Subscribe(eventbus.EventSearchStarted, func(eventbus.DomainEvent) {
			m.RecordSearchStarted()
		}),
		bus.Subscribe(eventbus.EventSearchCompleted, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.SearchCompletedEvent); ok {
				m.RecordSearchCompleted(ev.Duration, ev.Count)
			}
		}),
		bus.Subscribe(eventbus.EventSearchFailed, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.SearchFailedEvent); ok {
				m.RecordSearchFailed(ev.Duration)
			}
		}),
		bus.Subscribe(eventbus.EventSearchDiscarded, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.SearchDiscardedEvent); ok {
				m.RecordSearchDiscarded(ev.Reason)
			}
		}),
		bus.Subscribe(eventbus.EventItemSelected, func(eventbus.DomainEvent) {
			m.RecordSelection()
		}),
		bus.Subscribe(eventbus.EventResultsCleared, func(eventbus.DomainEvent) {
			m.RecordResultsCleared()
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Manager) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
