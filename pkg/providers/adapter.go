package providers

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/samvad-hq/samvad-headline-feed/internal/domain"
)

// Adapter is the capability set the feed needs from a news API provider.
// Implementations are stateless and safe for concurrent use.
type Adapter interface {
	// Type is the provider type this adapter serves (matches Provider.Type).
	Type() string
	// BuildQuery returns the request URL for page. The locale restriction is
	// only added when includeLocale is true and params carry a country. Params
	// are not validated.
	BuildQuery(cfg Provider, params domain.FilterParams, page int, includeLocale bool) (string, error)
	// IsError reports whether the response signals a provider failure and, if
	// so, the message to surface.
	IsError(status int, body []byte) (string, bool)
	// ExtractItems decodes the page of raw articles.
	ExtractItems(body []byte) ([]RawArticle, error)
	// ExtractTotal returns the provider-reported result count, if present.
	ExtractTotal(body []byte) (int, bool)
}

const (
	TypeNewsAPI    = "newsapi"
	TypeTheNewsAPI = "thenewsapi"

	defaultErrorMessage = "Unable to fetch news headlines"
)

// AdapterRegistry resolves the adapter for a provider config.
type AdapterRegistry struct {
	mu     sync.RWMutex
	byType map[string]Adapter
}

// NewAdapterRegistry builds a registry keyed by each adapter's Type.
func NewAdapterRegistry(adapters ...Adapter) *AdapterRegistry {
	reg := &AdapterRegistry{byType: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		reg.Register(a)
	}
	return reg
}

// DefaultAdapterRegistry wires up the known provider adapters.
func DefaultAdapterRegistry() *AdapterRegistry {
	return NewAdapterRegistry(NewsAPIAdapter{}, TheNewsAPIAdapter{})
}

// Register adds or replaces the adapter for its type.
func (r *AdapterRegistry) Register(a Adapter) {
	if a == nil {
		return
	}
	key := strings.ToLower(strings.TrimSpace(a.Type()))
	if key == "" {
		return
	}

	r.mu.Lock()
	r.byType[key] = a
	r.mu.Unlock()
}

// AdapterFor selects the adapter for the given provider based on its type.
func (r *AdapterRegistry) AdapterFor(cfg Provider) (Adapter, error) {
	if r == nil {
		return nil, fmt.Errorf("adapter registry is nil")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	key := strings.ToLower(strings.TrimSpace(cfg.Type))
	if a, ok := r.byType[key]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("no adapter registered for provider %q (type %q)", cfg.ID, cfg.Type)
}

// ConfigString returns the trimmed string value for key from provider.Config or a fallback.
func ConfigString(cfg Provider, key, fallback string) string {
	if raw, ok := cfg.Config[key]; ok {
		if val, ok := raw.(string); ok {
			if trimmed := strings.TrimSpace(val); trimmed != "" {
				return trimmed
			}
		}
	}
	return fallback
}

var headerKeys = []struct{ key, header string }{
	{"user_agent", "User-Agent"},
	{"accept", "Accept"},
	{"accept_language", "Accept-Language"},
	{"cache_control", "Cache-Control"},
}

// Headers builds request headers from a provider config, skipping empty values.
func Headers(cfg Provider) map[string]string {
	headers := make(map[string]string, len(headerKeys))
	for _, h := range headerKeys {
		if v := ConfigString(cfg, h.key, ""); v != "" {
			headers[h.header] = v
		}
	}
	return headers
}

func isSuccessStatus(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

// ResponseSnippet trims a response body for inclusion in error messages.
func ResponseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
