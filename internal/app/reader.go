package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-headline-feed/internal/config"
	"github.com/samvad-hq/samvad-headline-feed/internal/domain"
	"github.com/samvad-hq/samvad-headline-feed/internal/feed"
	"github.com/samvad-hq/samvad-headline-feed/internal/logger"
	"github.com/samvad-hq/samvad-headline-feed/pkg/httpclient"
	"github.com/samvad-hq/samvad-headline-feed/pkg/providers"
	"github.com/samvad-hq/samvad-headline-feed/pkg/publishers"
)

// Reader wires config, provider adapter, feed and page publishers, and pages
// through headlines for one filter configuration.
type Reader struct {
	cfg      *config.Config
	provider providers.Provider
	feed     *feed.Feed
	fanout   *publishers.Fanout
	log      logger.Logger
}

// NewReader builds a reader runtime from config files using the default
// resty transport.
func NewReader(ctx context.Context, cfg *config.Config, log logger.Logger) (*Reader, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	return NewReaderWithClient(ctx, cfg, httpclient.NewRestyClient(cfg.HTTPTimeout), log)
}

// NewReaderWithClient is NewReader with an injected HTTP client.
func NewReaderWithClient(ctx context.Context, cfg *config.Config, client httpclient.Client, log logger.Logger) (*Reader, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)

	providerReg, err := providers.LoadRegistry(cfg.ProvidersFile)
	if err != nil {
		return nil, fmt.Errorf("load providers registry: %w", err)
	}
	provider, ok := providerReg.ByID(cfg.ProviderID)
	if !ok {
		return nil, fmt.Errorf("provider %q not found in %s", cfg.ProviderID, cfg.ProvidersFile)
	}
	adapter, err := providers.DefaultAdapterRegistry().AdapterFor(provider)
	if err != nil {
		return nil, err
	}
	log.InfoObj("provider selected", "provider_meta", map[string]any{
		"id":   provider.ID,
		"type": provider.Type,
	})

	resolver, err := feed.NewResolver(client, adapter, provider, log)
	if err != nil {
		return nil, fmt.Errorf("init resolver: %w", err)
	}

	params := domain.FilterParams{
		Category: cfg.Category,
		Country:  cfg.Country,
		Language: cfg.Language,
		PageSize: cfg.PageSize,
		APIKey:   cfg.APIKey,
	}
	f, err := feed.New(resolver, params,
		feed.WithLogger(log),
		feed.WithObserver(progressLogger{log: log}),
	)
	if err != nil {
		return nil, fmt.Errorf("init feed: %w", err)
	}

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &Reader{
		cfg:      cfg,
		provider: provider,
		feed:     f,
		fanout:   fanout,
		log:      log,
	}, nil
}

func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, p := range enabled {
		summaries = append(summaries, map[string]string{"id": p.ID, "type": p.Type})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubs), nil
}

// Feed exposes the underlying feed controller.
func (r *Reader) Feed() *feed.Feed { return r.feed }

// Run loads the first page and keeps paging until the provider is exhausted,
// MaxPages is reached or ctx is cancelled. Only a failed first page is returned
// as an error; later page failures end paging and are logged.
func (r *Reader) Run(ctx context.Context) error {
	if r == nil || r.feed == nil {
		return fmt.Errorf("reader is not initialized")
	}
	defer r.closeFanout()

	start := time.Now()
	if err := r.feed.Refresh(ctx); err != nil {
		return fmt.Errorf("initial refresh: %w", err)
	}
	r.publishPage(ctx, 0)

	for page := 1; page < r.cfg.MaxPages; page++ {
		if ctx.Err() != nil {
			r.log.InfoObj("reader exiting", "reason", ctx.Err().Error())
			return nil
		}

		before := len(r.feed.State().Articles)
		err := r.feed.FetchNext(ctx)
		switch {
		case errors.Is(err, feed.ErrExhausted):
			r.logDone(start, "exhausted")
			return nil
		case err != nil:
			r.log.WarnObj("paging halted", "reader_error", map[string]any{
				"page":  page + 1,
				"error": err.Error(),
			})
			return nil
		}
		r.publishPage(ctx, before)
	}

	r.logDone(start, "max_pages")
	return nil
}

// publishPage emits the articles appended since offset as one page event.
// A page that added nothing is not published.
func (r *Reader) publishPage(ctx context.Context, offset int) {
	if r.fanout.Size() == 0 {
		return
	}

	s := r.feed.State()
	if offset >= len(s.Articles) {
		return
	}
	params := r.feed.Filters()
	evt := publishers.NewPageEvent(r.provider.ID, params, s.CurrentPage, s.Articles[offset:], s.TotalAvailable, s.Notice)

	delivered, err := r.fanout.Publish(ctx, evt)
	if err != nil {
		r.log.ErrorObj("page publish failed", "publish_error", map[string]any{
			"page":      s.CurrentPage,
			"delivered": delivered,
			"error":     err.Error(),
		})
	}
}

func (r *Reader) logDone(start time.Time, reason string) {
	s := r.feed.State()
	r.log.InfoObj("reader completed", "reader_meta", map[string]any{
		"reason":          reason,
		"pages":           s.CurrentPage,
		"articles":        len(s.Articles),
		"total_available": s.TotalAvailable,
		"elapsed_ms":      time.Since(start).Milliseconds(),
	})
}

func (r *Reader) closeFanout() {
	if err := r.fanout.Close(); err != nil {
		r.log.ErrorObj("publisher close failed", "error", err.Error())
	}
}

// progressLogger reports feed milestones at debug level.
type progressLogger struct {
	log logger.Logger
}

func (p progressLogger) OnProgress(percent int) {
	p.log.DebugObj("feed progress", "progress", percent)
}
