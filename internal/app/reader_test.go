package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-headline-feed/internal/config"
	"github.com/samvad-hq/samvad-headline-feed/internal/feed"
	"github.com/samvad-hq/samvad-headline-feed/pkg/publishers"
)

// newsAPIServer serves 5 global headlines in pages and nothing for country=in.
func newsAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newsAPIServerWithTotal(t, 5)
}

func newsAPIServerWithTotal(t *testing.T, total int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("apiKey") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid."}`))
			return
		}
		if q.Get("country") != "" {
			_, _ = w.Write([]byte(`{"status":"ok","totalResults":0,"articles":[]}`))
			return
		}

		page, _ := strconv.Atoi(q.Get("page"))
		size, _ := strconv.Atoi(q.Get("pageSize"))
		type article struct {
			Title  string            `json:"title"`
			URL    string            `json:"url"`
			Source map[string]string `json:"source"`
		}
		var articles []article
		for i := (page - 1) * size; i < page*size && i < total; i++ {
			articles = append(articles, article{
				Title:  fmt.Sprintf("headline %d", i),
				URL:    fmt.Sprintf("https://news.example/%d", i),
				Source: map[string]string{"name": "Wire"},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":       "ok",
			"totalResults": total,
			"articles":     articles,
		})
	}))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	providersFile := writeFile(t, dir, "providers.yaml", fmt.Sprintf(`
providers:
  - id: newsapi
    name: NewsAPI
    type: newsapi
    source_url: %s/v2/top-headlines
`, apiURL))

	return &config.Config{
		ProvidersFile: providersFile,
		ProviderID:    "newsapi",
		Category:      "general",
		Country:       "in",
		PageSize:      2,
		APIKey:        "secret",
		MaxPages:      10,
		HTTPTimeout:   2 * time.Second,
	}
}

func TestReaderPagesAndPublishes(t *testing.T) {
	api := newsAPIServer(t)
	defer api.Close()

	var mu sync.Mutex
	var events []publishers.PageEvent
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var evt publishers.PageEvent
		if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
			t.Errorf("decode event: %v", err)
		}
		mu.Lock()
		events = append(events, evt)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer sink.Close()

	cfg := testConfig(t, api.URL)
	cfg.PublishersFile = writeFile(t, t.TempDir(), "publishers.yaml", fmt.Sprintf(`
publishers:
  - id: sink
    type: http
    http:
      url: %s
`, sink.URL))

	reader, err := NewReader(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if err := reader.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	s := reader.Feed().State()
	if len(s.Articles) != 5 || s.CurrentPage != 3 || s.CanLoadMore {
		t.Fatalf("unexpected final state %+v", s)
	}
	if s.Notice != feed.GlobalFallbackNotice {
		t.Fatalf("expected global fallback notice, got %q", s.Notice)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 3 {
		t.Fatalf("expected 3 page events, got %d", len(events))
	}
	for i, want := range []int{2, 2, 1} {
		if events[i].Page != i+1 || len(events[i].Articles) != want {
			t.Fatalf("event %d: page %d with %d articles", i, events[i].Page, len(events[i].Articles))
		}
	}
	if events[2].Articles[0].Title != "headline 4" {
		t.Fatalf("last page should carry only new articles, got %q", events[2].Articles[0].Title)
	}
}

func TestReaderSkipsEmptyFinalPage(t *testing.T) {
	api := newsAPIServerWithTotal(t, 4)
	defer api.Close()

	var mu sync.Mutex
	var sizes []int
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var evt publishers.PageEvent
		if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
			t.Errorf("decode event: %v", err)
		}
		mu.Lock()
		sizes = append(sizes, len(evt.Articles))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer sink.Close()

	cfg := testConfig(t, api.URL)
	cfg.PublishersFile = writeFile(t, t.TempDir(), "publishers.yaml", fmt.Sprintf(`
publishers:
  - id: sink
    type: http
    http:
      url: %s
`, sink.URL))

	reader, err := NewReader(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if err := reader.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Page 3 comes back empty and ends pagination.
	if s := reader.Feed().State(); len(s.Articles) != 4 || s.CurrentPage != 3 || s.CanLoadMore {
		t.Fatalf("unexpected final state %+v", s)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(sizes) != 2 || sizes[0] != 2 || sizes[1] != 2 {
		t.Fatalf("expected two events of 2 articles, got %v", sizes)
	}
}

func TestReaderStopsAtMaxPages(t *testing.T) {
	api := newsAPIServer(t)
	defer api.Close()

	cfg := testConfig(t, api.URL)
	cfg.MaxPages = 2

	reader, err := NewReader(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if err := reader.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s := reader.Feed().State(); len(s.Articles) != 4 || s.CurrentPage != 2 {
		t.Fatalf("unexpected state %+v", s)
	}
}

func TestReaderInitialFailure(t *testing.T) {
	api := newsAPIServer(t)
	defer api.Close()

	cfg := testConfig(t, api.URL)
	cfg.APIKey = "wrong"

	reader, err := NewReader(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	err = reader.Run(context.Background())
	if !feed.IsProvider(err) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if got := reader.Feed().State().Error; got != "Your API key is invalid." {
		t.Fatalf("unexpected state error %q", got)
	}
}

func TestNewReaderUnknownProvider(t *testing.T) {
	cfg := testConfig(t, "https://unused.example")
	cfg.ProviderID = "missing"
	if _, err := NewReader(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for unknown provider id")
	}
}
