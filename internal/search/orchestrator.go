package search

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"gitsuggest/internal/domain"
)

// Source names passed to a Recorder
const (
	SourcePeople       = "people"
	SourceRepositories = "repositories"
)

// Recorder observes individual source requests
type Recorder interface {
	ObserveSourceRequest(source string, d time.Duration, err error)
}

// Orchestrator runs one fetch cycle: both searches concurrently, then
// normalisation and ranking
type Orchestrator struct {
	getter   Getter
	queries  QueryBuilder
	limit    int
	recorder Recorder
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithLimit overrides the result cap
func WithLimit(limit int) Option {
	return func(o *Orchestrator) {
		if limit > 0 {
			o.limit = limit
		}
	}
}

// WithRecorder reports every source request to r
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) {
		o.recorder = r
	}
}

// NewOrchestrator creates an orchestrator
func NewOrchestrator(getter Getter, queries QueryBuilder, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		getter:  getter,
		queries: queries,
		limit:   MaxRecords,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// FetchAndRank searches people and repositories for text and returns the
// ranked suggestions. Both requests must succeed; the first failure cancels
// the other request and the whole cycle fails with ErrFetchFailed.
func (o *Orchestrator) FetchAndRank(ctx context.Context, text string) ([]domain.RankedItem, error) {
	var (
		people domain.PersonSearchResponse
		repos  domain.RepositorySearchResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return o.fetch(gctx, SourcePeople, o.queries.PersonQuery(text), &people)
	})
	g.Go(func() error {
		return o.fetch(gctx, SourceRepositories, o.queries.RepositoryQuery(text), &repos)
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	personItems, err := NormalizePeople(people)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	repoItems, err := NormalizeRepositories(repos)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	return Rank(personItems, repoItems, o.limit), nil
}

func (o *Orchestrator) fetch(ctx context.Context, source, rawURL string, v any) error {
	start := time.Now()
	err := o.getter.GetJSON(ctx, rawURL, v)
	if o.recorder != nil {
		o.recorder.ObserveSourceRequest(source, time.Since(start), err)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}
	return nil
}
