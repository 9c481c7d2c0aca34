package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Category != "general" || cfg.Country != "in" || cfg.PageSize != 8 {
		t.Fatalf("unexpected feed defaults %+v", cfg)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.HTTPTimeout)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("FEED_PROVIDER", "thenewsapi")
	t.Setenv("FEED_COUNTRY", " US ")
	t.Setenv("FEED_PAGE_SIZE", "20")
	t.Setenv("FEED_MAX_PAGES", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ProviderID != "thenewsapi" {
		t.Fatalf("provider = %q", cfg.ProviderID)
	}
	if cfg.Country != "us" {
		t.Fatalf("country = %q", cfg.Country)
	}
	if cfg.PageSize != 20 || cfg.MaxPages != 5 {
		t.Fatalf("paging = %d/%d", cfg.PageSize, cfg.MaxPages)
	}
}

func TestLoadRejectsInvalidPageSize(t *testing.T) {
	t.Setenv("FEED_PAGE_SIZE", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero page size")
	}
}

func TestLoadEmptyCountryDisablesLocale(t *testing.T) {
	for _, val := range []string{"", "none", " NONE "} {
		t.Setenv("FEED_COUNTRY", val)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load with FEED_COUNTRY=%q: %v", val, err)
		}
		if cfg.Country != "" {
			t.Fatalf("FEED_COUNTRY=%q should unset country, got %q", val, cfg.Country)
		}
	}
}
