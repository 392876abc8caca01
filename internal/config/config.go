package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env        string
	ListenAddr string

	DatabaseURL    string
	MigrateOnStart bool

	CatalogLimit    int
	CatalogFallback string // "" (sentinel text) or "builtin"

	PricingBaseURL     string
	PricingTimeout     time.Duration
	PricingConcurrency int

	GeminiAPIKey      string
	GeminiModel       string
	ExtractionTimeout time.Duration
}

const (
	FallbackNone    = ""
	FallbackBuiltin = "builtin"
)

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// Load reads the process environment, after merging a local .env file if one
// exists. Defaults are for local development only.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:                getenv("APP_ENV", "development"),
		ListenAddr:         getenv("LISTEN_ADDR", ":8000"),
		DatabaseURL:        databaseURL(),
		MigrateOnStart:     getenvBool("MIGRATE_ON_START", false),
		CatalogLimit:       getenvInt("CATALOG_LIMIT", 50),
		CatalogFallback:    strings.ToLower(getenv("CATALOG_FALLBACK", FallbackNone)),
		PricingBaseURL:     strings.TrimRight(getenv("PRICING_BASE_URL", "http://localhost:8080"), "/"),
		PricingTimeout:     getenvDuration("PRICING_TIMEOUT", 10*time.Second),
		PricingConcurrency: getenvInt("PRICING_CONCURRENCY", 4),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getenv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		ExtractionTimeout:  getenvDuration("EXTRACTION_TIMEOUT", 30*time.Second),
	}
	if cfg.CatalogLimit <= 0 {
		cfg.CatalogLimit = 50
	}
	if cfg.PricingConcurrency < 1 {
		cfg.PricingConcurrency = 1
	}
	switch cfg.CatalogFallback {
	case FallbackNone, FallbackBuiltin:
	default:
		return cfg, fmt.Errorf("CATALOG_FALLBACK must be empty or %q, got %q", FallbackBuiltin, cfg.CatalogFallback)
	}
	if cfg.GeminiAPIKey == "" {
		// The server still starts; every extraction call will fail until a key is set.
		return cfg, fmt.Errorf("GEMINI_API_KEY not set")
	}
	return cfg, nil
}

// databaseURL prefers DATABASE_URL and otherwise assembles a DSN from the
// discrete DB_* variables.
func databaseURL() string {
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		return v
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(getenv("DB_USER", "dongseo"), getenv("DB_PASSWORD", "dongseo")),
		Host:     net.JoinHostPort(getenv("DB_HOST", "localhost"), getenv("DB_PORT", "5432")),
		Path:     "/" + getenv("DB_NAME", "dongseo"),
		RawQuery: "sslmode=" + getenv("DB_SSLMODE", "disable"),
	}
	return u.String()
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		_, err := fmt.Sscanf(v, "%d", &out)
		if err == nil {
			return out
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

// getenvDuration accepts Go durations ("10s") or a bare number of seconds.
func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if secs := getenvInt(key, 0); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}
