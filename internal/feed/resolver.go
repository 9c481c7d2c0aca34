package feed

import (
	"context"
	"fmt"

	"github.com/samvad-hq/samvad-headline-feed/internal/domain"
	"github.com/samvad-hq/samvad-headline-feed/internal/logger"
	"github.com/samvad-hq/samvad-headline-feed/pkg/httpclient"
	"github.com/samvad-hq/samvad-headline-feed/pkg/providers"
)

// GlobalFallbackNotice is set when a regional query came back empty and the
// unrestricted query was used instead.
const GlobalFallbackNotice = "Showing global headlines because no articles were found for your selected region."

// PageResolver fetches one page of raw articles.
type PageResolver interface {
	Resolve(ctx context.Context, params domain.FilterParams, page int) (Result, error)
}

// Result is one resolved page.
type Result struct {
	Items    []providers.RawArticle
	Total    int
	HasTotal bool
	Notice   string
}

// Resolver issues page requests against a provider and applies the single
// regional-to-global fallback.
type Resolver struct {
	client   httpclient.Client
	adapter  providers.Adapter
	provider providers.Provider
	log      logger.Logger
}

// NewResolver builds a resolver for the provider using adapter to speak its format.
func NewResolver(client httpclient.Client, adapter providers.Adapter, provider providers.Provider, log logger.Logger) (*Resolver, error) {
	if client == nil {
		return nil, fmt.Errorf("http client must not be nil")
	}
	if adapter == nil {
		return nil, fmt.Errorf("adapter must not be nil for provider %q", provider.ID)
	}
	return &Resolver{
		client:   client,
		adapter:  adapter,
		provider: provider,
		log:      logger.Ensure(log),
	}, nil
}

// Resolve fetches page. Failures are returned as *FetchError and never
// trigger the fallback; only a successful empty regional page does, and
// the fallback's own result is final.
func (r *Resolver) Resolve(ctx context.Context, params domain.FilterParams, page int) (Result, error) {
	useLocale := params.HasLocale()

	res, err := r.fetch(ctx, params, page, useLocale)
	if err != nil {
		return Result{}, err
	}
	if len(res.Items) > 0 || !useLocale {
		return res, nil
	}

	r.log.InfoObj("regional query empty, retrying globally", "feed_fallback", map[string]any{
		"provider_id": r.provider.ID,
		"country":     params.Country,
		"category":    params.Category,
		"page":        page,
	})

	global, err := r.fetch(ctx, params, page, false)
	if err != nil {
		return Result{}, err
	}
	global.Notice = GlobalFallbackNotice
	return global, nil
}

func (r *Resolver) fetch(ctx context.Context, params domain.FilterParams, page int, includeLocale bool) (Result, error) {
	url, err := r.adapter.BuildQuery(r.provider, params, page, includeLocale)
	if err != nil {
		return Result{}, &FetchError{Kind: KindProvider, Page: page, Message: err.Error(), Err: err}
	}

	resp, err := r.client.Get(ctx, url, providers.Headers(r.provider))
	if err != nil {
		return Result{}, &FetchError{
			Kind:    KindTransport,
			Page:    page,
			Message: fmt.Sprintf("fetch %s page %d: %v", r.provider.ID, page, err),
			Err:     err,
		}
	}

	body := resp.Body()
	if msg, failed := r.adapter.IsError(resp.StatusCode(), body); failed {
		return Result{}, &FetchError{Kind: KindProvider, Page: page, Status: resp.StatusCode(), Message: msg}
	}

	items, err := r.adapter.ExtractItems(body)
	if err != nil {
		return Result{}, &FetchError{Kind: KindProvider, Page: page, Status: resp.StatusCode(), Message: err.Error(), Err: err}
	}
	total, hasTotal := r.adapter.ExtractTotal(body)

	r.log.DebugObj("provider page fetched", "feed_page", map[string]any{
		"provider_id":    r.provider.ID,
		"page":           page,
		"include_locale": includeLocale,
		"items":          len(items),
		"total":          total,
	})

	return Result{Items: items, Total: total, HasTotal: hasTotal}, nil
}
