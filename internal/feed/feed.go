package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/samvad-hq/samvad-headline-feed/internal/domain"
	"github.com/samvad-hq/samvad-headline-feed/internal/logger"
	"github.com/samvad-hq/samvad-headline-feed/pkg/providers"
)

// Phase is the controller's position in its load cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseLoadingMore
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseLoadingMore:
		return "loading_more"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Progress milestones reported to the Observer.
const (
	ProgressStarted    = 10
	ProgressResponded  = 30
	ProgressNormalized = 70
	ProgressDone       = 100
)

// Observer receives coarse progress updates. It must not influence control flow.
type Observer interface {
	OnProgress(percent int)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(percent int)

func (f ObserverFunc) OnProgress(percent int) { f(percent) }

// State is a snapshot of the accumulated feed.
type State struct {
	Articles       []domain.Article `json:"articles"`
	CurrentPage    int              `json:"current_page"`
	TotalAvailable int              `json:"total_available"`
	CanLoadMore    bool             `json:"can_load_more"`
	Notice         string           `json:"notice,omitempty"`
	Error          string           `json:"error,omitempty"`
	IsLoading      bool             `json:"is_loading"`
	Phase          Phase            `json:"phase"`
	Generation     uint64           `json:"generation"`
}

// Feed accumulates pages of headlines for one filter configuration.
//
// The mutex only guards state between the start and the arrival of a fetch;
// it is never held across network calls. A response is applied only if the
// generation it was issued under is still current.
type Feed struct {
	resolver PageResolver
	observer Observer
	log      logger.Logger

	mu     sync.Mutex
	params domain.FilterParams
	state  State
}

// Option customises a Feed.
type Option func(*Feed)

// WithObserver installs a progress observer.
func WithObserver(o Observer) Option {
	return func(f *Feed) { f.observer = o }
}

// WithLogger sets the logger used for feed events.
func WithLogger(log logger.Logger) Option {
	return func(f *Feed) { f.log = logger.Ensure(log) }
}

// New creates an idle feed; call Refresh to load the first page.
func New(resolver PageResolver, params domain.FilterParams, opts ...Option) (*Feed, error) {
	if resolver == nil {
		return nil, fmt.Errorf("page resolver must not be nil")
	}
	f := &Feed{
		resolver: resolver,
		log:      logger.NopLogger{},
		params:   params,
		state:    State{CurrentPage: 1},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Filters returns the current filter params.
func (f *Feed) Filters() domain.FilterParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.params
}

// State returns a read-only snapshot.
func (f *Feed) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.state
	s.Articles = append([]domain.Article(nil), f.state.Articles...)
	return s
}

// SetFilters replaces the filter params, discards all accumulated state and
// invalidates any outstanding fetch. The feed is left idle.
func (f *Feed) SetFilters(params domain.FilterParams) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.params = params
	f.state = State{CurrentPage: 1, Generation: f.state.Generation + 1}
}

// UpdateFilters applies params and reloads from page 1.
func (f *Feed) UpdateFilters(ctx context.Context, params domain.FilterParams) error {
	f.SetFilters(params)
	return f.Refresh(ctx)
}

// Refresh loads page 1 and replaces the article list. On failure the previous
// articles are kept and Error is set.
func (f *Feed) Refresh(ctx context.Context) error {
	f.mu.Lock()
	f.state.Generation++
	gen := f.state.Generation
	params := f.params
	f.state.Phase = PhaseLoading
	f.state.IsLoading = true
	f.state.Error = ""
	f.mu.Unlock()

	f.progress(ProgressStarted)
	defer f.progress(ProgressDone)

	res, err := f.resolver.Resolve(ctx, params, 1)
	f.progress(ProgressResponded)

	var articles []domain.Article
	if err == nil {
		articles = providers.Normalize(res.Items)
		f.progress(ProgressNormalized)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Generation != gen {
		f.log.DebugObj("discarding superseded refresh", "feed_stale", map[string]any{
			"issued_generation":  gen,
			"current_generation": f.state.Generation,
		})
		return ErrSuperseded
	}

	f.state.IsLoading = false
	if err != nil {
		f.state.Phase = PhaseFailed
		f.state.Error = err.Error()
		f.logFailure("refresh failed", 1, err)
		return err
	}

	count := len(articles)
	total := count
	if res.HasTotal {
		total = res.Total
	}

	f.state.Articles = articles
	f.state.CurrentPage = 1
	f.state.TotalAvailable = total
	f.state.CanLoadMore = total > count || count == params.PageSize
	f.state.Notice = res.Notice
	f.state.Phase = PhaseReady

	f.log.InfoObj("feed refreshed", "feed_state", f.summaryLocked())
	return nil
}

// FetchNext loads the page after CurrentPage and appends it. An empty page
// ends pagination; any failure ends it until the next Refresh.
func (f *Feed) FetchNext(ctx context.Context) error {
	f.mu.Lock()
	if f.state.IsLoading {
		f.mu.Unlock()
		return ErrBusy
	}
	if f.state.Phase != PhaseReady || !f.state.CanLoadMore {
		f.mu.Unlock()
		return ErrExhausted
	}
	gen := f.state.Generation
	params := f.params
	next := f.state.CurrentPage + 1
	f.state.Phase = PhaseLoadingMore
	f.state.IsLoading = true
	f.mu.Unlock()

	f.progress(ProgressStarted)
	defer f.progress(ProgressDone)

	res, err := f.resolver.Resolve(ctx, params, next)
	f.progress(ProgressResponded)

	var articles []domain.Article
	if err == nil {
		articles = providers.Normalize(res.Items)
		f.progress(ProgressNormalized)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Generation != gen {
		f.log.DebugObj("discarding superseded page", "feed_stale", map[string]any{
			"page":               next,
			"issued_generation":  gen,
			"current_generation": f.state.Generation,
		})
		return ErrSuperseded
	}

	f.state.IsLoading = false
	if err != nil {
		f.state.Phase = PhaseFailed
		f.state.Error = err.Error()
		f.state.CanLoadMore = false
		f.logFailure("fetch next failed", next, err)
		return err
	}

	count := len(articles)
	f.state.Articles = append(f.state.Articles, articles...)
	f.state.CurrentPage = next
	if res.HasTotal {
		f.state.TotalAvailable = res.Total
	} else {
		f.state.TotalAvailable += count
	}
	if count == 0 {
		f.state.CanLoadMore = false
	} else {
		f.state.CanLoadMore = f.state.TotalAvailable > len(f.state.Articles) || count == params.PageSize
	}
	f.state.Notice = res.Notice
	f.state.Phase = PhaseReady

	f.log.InfoObj("feed page appended", "feed_state", f.summaryLocked())
	return nil
}

func (f *Feed) progress(percent int) {
	if f.observer != nil {
		f.observer.OnProgress(percent)
	}
}

func (f *Feed) logFailure(msg string, page int, err error) {
	kind := "unknown"
	var fe *FetchError
	if errors.As(err, &fe) {
		kind = fe.Kind.String()
	}
	f.log.ErrorObj(msg, "feed_error", map[string]any{
		"page":  page,
		"kind":  kind,
		"error": err.Error(),
	})
}

func (f *Feed) summaryLocked() map[string]any {
	return map[string]any{
		"category":        f.params.Category,
		"country":         f.params.Country,
		"page":            f.state.CurrentPage,
		"articles":        len(f.state.Articles),
		"total_available": f.state.TotalAvailable,
		"can_load_more":   f.state.CanLoadMore,
		"notice":          f.state.Notice,
	}
}
