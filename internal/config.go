package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	LogLevel    string
	Port        uint16
	BaseURL     string
	CORSOrigins []string // origins allowed to call the JSON API from a browser
	Shopify     ShopifyConfig
	Search      SearchConfig
	Cookie      CookieConfig
	Sentry      SentryConfig
}

// ShopifyConfig holds the Storefront API connection settings.
// StoreDomain and StorefrontToken are not validated at startup: the gateway
// client reports a configuration error when a call is made without them.
type ShopifyConfig struct {
	StoreDomain     string // e.g. "plushies.myshopify.com"
	StorefrontToken string
	APIVersion      string
	CacheTTL        time.Duration // catalog read cache lifetime
	Timeout         time.Duration
}

type SearchConfig struct {
	Debounce time.Duration
	Limit    int
}

// CookieConfig controls how the cart cookie is scoped.
type CookieConfig struct {
	Domain string
	Secure bool
}

// SentryConfig holds configuration for Sentry error tracking
type SentryConfig struct {
	DSN              string
	Enabled          bool
	Environment      string
	Release          string
	SampleRate       float64
	TracesSampleRate float64
	Debug            bool
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:         getEnv("ENV", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Port:        getEnvInt("PORT", 3000),
		BaseURL:     getEnv("BASE_URL", "http://localhost:3000"),
		CORSOrigins: getEnvList("CORS_ORIGINS"),
		Shopify: ShopifyConfig{
			StoreDomain:     getEnv("SHOPIFY_STORE_DOMAIN", ""),
			StorefrontToken: getEnv("SHOPIFY_STOREFRONT_ACCESS_TOKEN", ""),
			APIVersion:      getEnv("SHOPIFY_API_VERSION", "2024-10"),
			CacheTTL:        getEnvDuration("SHOPIFY_CACHE_TTL", time.Hour),
			Timeout:         getEnvDuration("SHOPIFY_TIMEOUT", 10*time.Second),
		},
		Search: SearchConfig{
			Debounce: getEnvDuration("SEARCH_DEBOUNCE", 300*time.Millisecond),
			Limit:    int(getEnvInt("SEARCH_LIMIT", 10)),
		},
		Cookie: CookieConfig{
			Domain: getEnv("COOKIE_DOMAIN", ""),
		},
		Sentry: SentryConfig{
			DSN:              getEnv("SENTRY_DSN", ""),
			Enabled:          getEnvBool("SENTRY_ENABLED", false), // Disabled by default for development
			Environment:      getEnv("SENTRY_ENVIRONMENT", "development"),
			Release:          getEnv("SENTRY_RELEASE", ""),
			SampleRate:       getEnvFloat("SENTRY_SAMPLE_RATE", 1.0),
			TracesSampleRate: getEnvFloat("SENTRY_TRACES_SAMPLE_RATE", 0.0),
			Debug:            getEnvBool("SENTRY_DEBUG", false),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	cfg.Cookie.Secure = getEnvBool("COOKIE_SECURE", cfg.Env == "prod")

	if cfg.Shopify.StoreDomain == "" || cfg.Shopify.StorefrontToken == "" {
		slog.Default().Warn("Shopify credentials not set; storefront pages will report a configuration error",
			slog.Bool("has_domain", cfg.Shopify.StoreDomain != ""),
			slog.Bool("has_token", cfg.Shopify.StorefrontToken != ""),
		)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var floatValue float64
		if _, err := fmt.Sscanf(value, "%f", &floatValue); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go duration strings ("1h", "300ms").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
