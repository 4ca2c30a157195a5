package suggest

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitsuggest/internal/domain"
	"gitsuggest/internal/eventbus"
	"gitsuggest/internal/search"
	"gitsuggest/internal/search/searchtest"
)

type stubResult struct {
	items []domain.RankedItem
	err   error
}

type stubFetcher struct {
	mu      sync.Mutex
	results map[string]stubResult
	ctxs    map[string]context.Context
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		results: make(map[string]stubResult),
		ctxs:    make(map[string]context.Context),
	}
}

func (f *stubFetcher) on(text string, items []domain.RankedItem, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[text] = stubResult{items: items, err: err}
}

func (f *stubFetcher) ctx(text string) context.Context {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ctxs[text]
}

func (f *stubFetcher) FetchAndRank(ctx context.Context, text string) ([]domain.RankedItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctxs[text] = ctx
	r, ok := f.results[text]
	if !ok {
		return nil, search.ErrFetchFailed
	}
	return r.items, r.err
}

// recordingBus delivers synchronously so tests can assert right away
type recordingBus struct {
	mu     sync.Mutex
	events []eventbus.DomainEvent
}

func (b *recordingBus) Publish(e eventbus.DomainEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBus) Subscribe(eventbus.EventType, eventbus.EventHandler) func() { return func() {} }

func (b *recordingBus) Close() {}

func (b *recordingBus) types() []domain.EventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []domain.EventType
	for _, e := range b.events {
		out = append(out, e.Type())
	}
	return out
}

var (
	alaPerson = domain.RankedItem{ID: 166012, Value: "ala", Origin: domain.OriginPerson}
	alaRepo   = domain.RankedItem{ID: 22458259, Value: "Alamofire/Alamofire", Origin: domain.OriginRepository}
)

func testSettings() Settings {
	return Settings{MinLength: 3, ClearDelay: 10 * time.Millisecond}
}

func fetchCompleted(t *testing.T, cmd tea.Cmd) FetchCompletedMsg {
	t.Helper()
	msg, ok := cmd().(FetchCompletedMsg)
	require.True(t, ok, "command should yield FetchCompletedMsg")
	return msg
}

func TestTextBelowThresholdDoesNotFetch(t *testing.T) {
	fetcher := newStubFetcher()
	svc := NewService(fetcher, nil, testSettings())

	for _, text := range []string{"", "a", "al"} {
		assert.Nil(t, svc.TextChanged(text))
		st := svc.State()
		assert.Equal(t, text, st.Text)
		assert.False(t, st.Loading)
		assert.False(t, st.Error)
	}
	assert.Zero(t, svc.Generation())
}

func TestTextBelowThresholdKeepsFlags(t *testing.T) {
	fetcher := newStubFetcher()
	svc := NewService(fetcher, nil, testSettings())

	cmd := svc.TextChanged("xyz")
	require.NotNil(t, cmd)
	svc.HandleFetchCompleted(fetchCompleted(t, cmd))
	require.True(t, svc.State().Error)

	assert.Nil(t, svc.TextChanged("xy"))
	assert.True(t, svc.State().Error, "error stays until a new fetch is triggered")
	assert.False(t, svc.State().Loading)
}

func TestTriggerCountsRunes(t *testing.T) {
	svc := NewService(newStubFetcher(), nil, testSettings())

	assert.Nil(t, svc.TextChanged("żó"))
	assert.NotNil(t, svc.TextChanged("żół"))
}

func TestSuccessfulFetch(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.on("ala", []domain.RankedItem{alaPerson, alaRepo}, nil)
	bus := &recordingBus{}
	svc := NewService(fetcher, bus, testSettings())

	cmd := svc.TextChanged("ala")
	require.NotNil(t, cmd)

	st := svc.State()
	assert.True(t, st.Loading)
	assert.False(t, st.Error)

	assert.True(t, svc.HandleFetchCompleted(fetchCompleted(t, cmd)))

	st = svc.State()
	assert.False(t, st.Loading)
	assert.False(t, st.Error)
	assert.Equal(t, []domain.RankedItem{alaPerson, alaRepo}, st.Items)
	assert.Equal(t, []domain.EventType{eventbus.EventSearchStarted, eventbus.EventSearchCompleted}, bus.types())
}

func TestFailedFetchKeepsItems(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.on("ala", []domain.RankedItem{alaPerson}, nil)
	fetcher.on("alam", nil, search.ErrFetchFailed)
	bus := &recordingBus{}
	svc := NewService(fetcher, bus, testSettings())

	cmd := svc.TextChanged("ala")
	svc.HandleFetchCompleted(fetchCompleted(t, cmd))

	cmd = svc.TextChanged("alam")
	assert.True(t, svc.HandleFetchCompleted(fetchCompleted(t, cmd)))

	st := svc.State()
	assert.True(t, st.Error)
	assert.False(t, st.Loading)
	assert.Equal(t, []domain.RankedItem{alaPerson}, st.Items)
	assert.Contains(t, bus.types(), eventbus.EventSearchFailed)
}

func TestNewTriggerResetsError(t *testing.T) {
	fetcher := newStubFetcher()
	svc := NewService(fetcher, nil, testSettings())

	cmd := svc.TextChanged("bad")
	svc.HandleFetchCompleted(fetchCompleted(t, cmd))
	require.True(t, svc.State().Error)

	svc.TextChanged("badx")
	st := svc.State()
	assert.True(t, st.Loading)
	assert.False(t, st.Error)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.on("alam", []domain.RankedItem{{ID: 1, Value: "alam"}}, nil)
	fetcher.on("alamo", []domain.RankedItem{{ID: 2, Value: "alamo"}}, nil)
	bus := &recordingBus{}
	svc := NewService(fetcher, bus, testSettings())

	older := svc.TextChanged("alam")
	newer := svc.TextChanged("alamo")

	// the newer cycle finishes first, the older one arrives late
	assert.True(t, svc.HandleFetchCompleted(fetchCompleted(t, newer)))
	assert.False(t, svc.HandleFetchCompleted(fetchCompleted(t, older)))

	st := svc.State()
	assert.Equal(t, []domain.RankedItem{{ID: 2, Value: "alamo"}}, st.Items)
	assert.False(t, st.Loading)
	assert.Equal(t, eventbus.EventSearchDiscarded, bus.types()[len(bus.types())-1])
}

func TestStaleFailureDoesNotSetError(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.on("alamo", []domain.RankedItem{alaPerson}, nil)
	svc := NewService(fetcher, nil, testSettings())

	older := svc.TextChanged("alam") // not configured, fails
	newer := svc.TextChanged("alamo")

	svc.HandleFetchCompleted(fetchCompleted(t, newer))
	svc.HandleFetchCompleted(fetchCompleted(t, older))

	assert.False(t, svc.State().Error)
}

func TestSupersededFetchIsCancelled(t *testing.T) {
	fetcher := newStubFetcher()
	svc := NewService(fetcher, nil, testSettings())

	older := svc.TextChanged("alam")
	older()
	svc.TextChanged("alamo")

	require.NotNil(t, fetcher.ctx("alam"))
	assert.ErrorIs(t, fetcher.ctx("alam").Err(), context.Canceled)
}

func TestResultForEditedTextOnlyStopsLoading(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.on("ala", []domain.RankedItem{alaPerson}, nil)
	svc := NewService(fetcher, nil, testSettings())

	cmd := svc.TextChanged("ala")
	svc.TextChanged("al")

	assert.False(t, svc.HandleFetchCompleted(fetchCompleted(t, cmd)))

	st := svc.State()
	assert.Equal(t, "al", st.Text)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Items)
}

func TestBlurClearsAfterDelay(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.on("ala", []domain.RankedItem{alaPerson}, nil)
	bus := &recordingBus{}
	svc := NewService(fetcher, bus, testSettings())

	cmd := svc.TextChanged("ala")
	svc.HandleFetchCompleted(fetchCompleted(t, cmd))

	clearCmd := svc.Blurred("ala")
	require.NotNil(t, clearCmd)
	assert.True(t, svc.ClearPending())
	assert.Len(t, svc.State().Items, 1, "items survive until the delay has passed")

	msg, ok := clearCmd().(ClearDueMsg)
	require.True(t, ok)
	assert.True(t, svc.HandleClearDue(msg))

	assert.Empty(t, svc.State().Items)
	assert.False(t, svc.ClearPending())
	assert.Equal(t, eventbus.EventResultsCleared, bus.types()[len(bus.types())-1])
}

func TestBlurThenSelectFavoursSelection(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.on("ala", []domain.RankedItem{alaPerson, alaRepo}, nil)
	svc := NewService(fetcher, nil, testSettings())

	cmd := svc.TextChanged("ala")
	svc.HandleFetchCompleted(fetchCompleted(t, cmd))

	clearCmd := svc.Blurred("ala")
	svc.Selected("Alamofire/Alamofire")

	st := svc.State()
	assert.Equal(t, "Alamofire/Alamofire", st.Text)
	assert.Empty(t, st.Items)
	assert.False(t, svc.ClearPending())

	assert.False(t, svc.HandleClearDue(clearCmd().(ClearDueMsg)))
	st = svc.State()
	assert.Equal(t, "Alamofire/Alamofire", st.Text)
	assert.Empty(t, st.Items)
}

func TestBlurSelectScenario(t *testing.T) {
	svc := NewService(newStubFetcher(), nil, testSettings())

	clearCmd := svc.Blurred("al")
	svc.Selected("ala")
	svc.HandleClearDue(clearCmd().(ClearDueMsg))

	st := svc.State()
	assert.Equal(t, "ala", st.Text)
	assert.Empty(t, st.Items)
}

func TestOnlyLatestBlurClears(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.on("ala", []domain.RankedItem{alaPerson}, nil)
	svc := NewService(fetcher, nil, testSettings())

	first := svc.Blurred("ala")
	second := svc.Blurred("ala")

	cmd := svc.TextChanged("ala")
	svc.HandleFetchCompleted(fetchCompleted(t, cmd))

	assert.False(t, svc.HandleClearDue(first().(ClearDueMsg)))
	assert.Len(t, svc.State().Items, 1)
	assert.True(t, svc.HandleClearDue(second().(ClearDueMsg)))
	assert.Empty(t, svc.State().Items)
}

func TestSelectedPublishesEvent(t *testing.T) {
	bus := &recordingBus{}
	svc := NewService(newStubFetcher(), bus, testSettings())

	svc.Selected("ala")

	assert.Equal(t, []domain.EventType{eventbus.EventItemSelected}, bus.types())
}

func TestCloseCancelsInFlightFetch(t *testing.T) {
	fetcher := newStubFetcher()
	svc := NewService(fetcher, nil, testSettings())

	cmd := svc.TextChanged("ala")
	cmd()
	svc.Close()

	assert.ErrorIs(t, fetcher.ctx("ala").Err(), context.Canceled)
}

func TestDefaultSettingsApplied(t *testing.T) {
	svc := NewService(newStubFetcher(), nil, Settings{})

	assert.Nil(t, svc.TextChanged("ab"))
	assert.NotNil(t, svc.TextChanged("abc"))
}

func TestAgainstFakeAPI(t *testing.T) {
	srv := searchtest.NewServer()
	defer srv.Close()

	orchestrator := search.NewOrchestrator(
		search.NewClient("gitsuggest-test", 5*time.Second),
		search.NewQueryBuilder(srv.PersonEndpoint(), srv.RepositoryEndpoint()),
	)
	svc := NewService(orchestrator, nil, testSettings())

	t.Run("results", func(t *testing.T) {
		srv.AlaScenario()

		cmd := svc.TextChanged("ala")
		svc.HandleFetchCompleted(fetchCompleted(t, cmd))

		st := svc.State()
		assert.Equal(t, []domain.RankedItem{alaPerson, alaRepo}, st.Items)
		assert.False(t, st.Loading)
		assert.False(t, st.Error)
	})

	t.Run("both sources fail", func(t *testing.T) {
		srv.Failing(http.StatusBadRequest)
		before := svc.State().Items

		cmd := svc.TextChanged("alaa")
		msg := fetchCompleted(t, cmd)
		assert.True(t, errors.Is(msg.Err, search.ErrFetchFailed))
		svc.HandleFetchCompleted(msg)

		st := svc.State()
		assert.True(t, st.Error)
		assert.False(t, st.Loading)
		assert.Equal(t, before, st.Items)
	})
}
