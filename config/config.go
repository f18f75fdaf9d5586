package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Fetch     FetchConfig
	Extract   ExtractConfig
	Seed      SeedConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig

	// RulesPath points at an optional TOML file with logo quality rules.
	RulesPath string
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// FetchConfig controls outbound page and asset requests.
type FetchConfig struct {
	PageTimeout   time.Duration // default: 30s
	AssetTimeout  time.Duration // default: 10s
	MaxPageBytes  int64         // default: 10 MB
	MaxAssetBytes int64         // default: 5 MB

	// ProbeMemoryTTL is how long asset probe outcomes are remembered.
	ProbeMemoryTTL time.Duration // default: 1h
}

// ExtractConfig controls the extraction engine.
type ExtractConfig struct {
	DefaultMaxWords int // default: 2
	ClassifyLimit   int // default: 5
}

// SeedConfig controls seeding and maintenance.
type SeedConfig struct {
	// OwnerID owns every seeded product. Required for seeding.
	OwnerID string

	DatabasePath string // default: "data/brandseed.db"

	// StorageDir enables image mirroring when set.
	StorageDir string

	// StorageBaseURL is the public URL StorageDir is served at.
	StorageBaseURL string

	// WebhookSecret signs seed.completed deliveries.
	WebhookSecret string

	// RefreshSchedule is a cron expression for periodic refresh sweeps.
	// Empty disables them.
	RefreshSchedule string
}

// CacheConfig controls the extraction response cache.
type CacheConfig struct {
	MaxEntries int // default: 1000
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	Enabled bool // default: true
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 // default: 5
	Burst             int     // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("BRANDSEED_HOST", "0.0.0.0"),
			Port: envIntOr("BRANDSEED_PORT", 8080),
			Mode: envOr("BRANDSEED_MODE", "release"),
		},
		Fetch: FetchConfig{
			PageTimeout:    envDurationOr("BRANDSEED_PAGE_TIMEOUT", 30*time.Second),
			AssetTimeout:   envDurationOr("BRANDSEED_ASSET_TIMEOUT", 10*time.Second),
			MaxPageBytes:   int64(envIntOr("BRANDSEED_MAX_PAGE_BYTES", 10<<20)),
			MaxAssetBytes:  int64(envIntOr("BRANDSEED_MAX_ASSET_BYTES", 5<<20)),
			ProbeMemoryTTL: envDurationOr("BRANDSEED_PROBE_TTL", time.Hour),
		},
		Extract: ExtractConfig{
			DefaultMaxWords: envIntOr("BRANDSEED_MAX_WORDS", 2),
			ClassifyLimit:   envIntOr("BRANDSEED_SVG_CLASSIFY_LIMIT", 5),
		},
		Seed: SeedConfig{
			OwnerID:         os.Getenv("BRANDSEED_OWNER_ID"),
			DatabasePath:    envOr("BRANDSEED_DB_PATH", "data/brandseed.db"),
			StorageDir:      os.Getenv("BRANDSEED_STORAGE_DIR"),
			StorageBaseURL:  envOr("BRANDSEED_STORAGE_BASE_URL", "http://localhost:8080/assets"),
			WebhookSecret:   os.Getenv("BRANDSEED_WEBHOOK_SECRET"),
			RefreshSchedule: os.Getenv("BRANDSEED_REFRESH_SCHEDULE"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("BRANDSEED_AUTH_ENABLED", true),
			APIKeys: envSliceOr("BRANDSEED_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("BRANDSEED_RATE_RPS", 5.0),
			Burst:             envIntOr("BRANDSEED_RATE_BURST", 10),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("BRANDSEED_CACHE_MAX_ENTRIES", 1000),
		},
		Log: LogConfig{
			Level:  envOr("BRANDSEED_LOG_LEVEL", "info"),
			Format: envOr("BRANDSEED_LOG_FORMAT", "json"),
		},
		RulesPath: os.Getenv("BRANDSEED_RULES_PATH"),
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
