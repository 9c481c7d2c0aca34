package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName        string `mapstructure:"app_name"`
	Env            string `mapstructure:"app_env"`
	LogLevel       string `mapstructure:"log_level"`
	ProvidersFile  string `mapstructure:"providers_file"`
	PublishersFile string `mapstructure:"publishers_file"`

	ProviderID string `mapstructure:"feed_provider"`
	Category   string `mapstructure:"feed_category"`
	Country    string `mapstructure:"feed_country"`
	Language   string `mapstructure:"feed_language"`
	PageSize   int    `mapstructure:"feed_page_size"`
	APIKey     string `mapstructure:"feed_api_key"`
	MaxPages   int    `mapstructure:"feed_max_pages"`

	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`
}

// countryNone disables the regional restriction, same as an empty FEED_COUNTRY.
const countryNone = "none"

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "samvad-headline-feed")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("providers_file", "./configs/providers.yaml")
	v.SetDefault("publishers_file", "")
	v.SetDefault("feed_provider", "newsapi")
	v.SetDefault("feed_category", "general")
	v.SetDefault("feed_country", "in")
	v.SetDefault("feed_language", "")
	v.SetDefault("feed_page_size", 8)
	v.SetDefault("feed_api_key", "")
	v.SetDefault("feed_max_pages", 3)
	v.SetDefault("http_timeout_seconds", 15)

	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.ProviderID = strings.TrimSpace(cfg.ProviderID)
	cfg.Country = strings.ToLower(strings.TrimSpace(cfg.Country))
	if cfg.Country == countryNone {
		cfg.Country = ""
	}
	cfg.Language = strings.ToLower(strings.TrimSpace(cfg.Language))

	if cfg.ProviderID == "" {
		return nil, fmt.Errorf("feed_provider is required")
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("invalid feed_page_size (must be positive)")
	}
	if cfg.MaxPages <= 0 {
		return nil, fmt.Errorf("invalid feed_max_pages (must be positive)")
	}
	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	return &cfg, nil
}
