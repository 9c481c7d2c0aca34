package providers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadRegistryYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "providers.yaml")
	content := `
providers:
  - id: newsapi
    name: NewsAPI
    type: NewsAPI
    source_url: https://newsapi.org/v2/top-headlines
    config:
      user_agent: samvad-headline-feed
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write providers file: %v", err)
	}

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry returned error: %v", err)
	}
	if len(reg.All()) != 1 {
		t.Fatalf("expected 1 provider, got %d", len(reg.All()))
	}

	p, ok := reg.ByID("newsapi")
	if !ok {
		t.Fatalf("expected provider id newsapi to be loaded")
	}
	if p.Type != TypeNewsAPI {
		t.Fatalf("expected type to be normalized, got %q", p.Type)
	}
	if got := Headers(p)["User-Agent"]; got != "samvad-headline-feed" {
		t.Fatalf("unexpected User-Agent header %q", got)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "providers.json")
	content := `{"providers":[{"id":"tna","name":"TheNewsAPI","type":"thenewsapi","source_url":"https://api.thenewsapi.com/v1/news/top"}]}`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write providers file: %v", err)
	}

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry returned error: %v", err)
	}
	if _, ok := reg.ByID("tna"); !ok {
		t.Fatalf("expected provider tna")
	}
}

func TestLoadRegistryDuplicateID(t *testing.T) {
	content := `
providers:
  - id: duplicate
    name: Provider One
    type: newsapi
    source_url: https://p1.example
  - id: duplicate
    name: Provider Two
    type: newsapi
    source_url: https://p2.example
`
	_, err := ParseRegistry([]byte(content), ".yaml")
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate provider error, got %v", err)
	}
}

func TestLoadRegistryMissingSourceURL(t *testing.T) {
	content := `
providers:
  - id: p1
    name: Provider One
    type: newsapi
`
	if _, err := ParseRegistry([]byte(content), ".yaml"); err == nil {
		t.Fatalf("expected validation error for missing source_url")
	}
}

func TestAdapterRegistryResolvesByType(t *testing.T) {
	reg := DefaultAdapterRegistry()

	a, err := reg.AdapterFor(Provider{ID: "x", Type: "TheNewsAPI"})
	if err != nil {
		t.Fatalf("AdapterFor: %v", err)
	}
	if a.Type() != TypeTheNewsAPI {
		t.Fatalf("unexpected adapter %q", a.Type())
	}

	if _, err := reg.AdapterFor(Provider{ID: "x", Type: "rss"}); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}
