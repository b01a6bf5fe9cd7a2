package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/erraggy/apiparser/strategy"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Resolution settings.
	WorkingDir     string
	DependencyRepo string
	DefaultMode    strategy.Mode

	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// Result listing limits.
	ResultLimit int
	MaxLimit    int

	// MaxInlineSize is the largest inline content accepted, in bytes.
	MaxInlineSize int64
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from APIPARSER_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		WorkingDir:         envDir("APIPARSER_WORKING_DIR"),
		DependencyRepo:     envDir("APIPARSER_DEPENDENCY_REPO"),
		DefaultMode:        envMode("APIPARSER_DEFAULT_MODE"),
		CacheEnabled:       envBool("APIPARSER_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("APIPARSER_CACHE_MAX_SIZE", 10),
		CacheFileTTL:       envDuration("APIPARSER_CACHE_FILE_TTL", 15*time.Minute),
		CacheContentTTL:    envDuration("APIPARSER_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("APIPARSER_CACHE_SWEEP_INTERVAL", 60*time.Second),
		ResultLimit:        envInt("APIPARSER_RESULT_LIMIT", 100),
		MaxLimit:           envInt("APIPARSER_MAX_LIMIT", 1000),
		MaxInlineSize:      int64(envInt("APIPARSER_MAX_INLINE_SIZE", 10*1024*1024)),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

func envMode(key string) strategy.Mode {
	v := os.Getenv(key)
	m, err := strategy.ParseMode(v)
	if err != nil {
		slog.Warn("invalid mode env var, using default", "key", key, "value", v, "default", strategy.ModeAuto)
		return strategy.ModeAuto
	}
	return m
}

// envDir returns the directory named by key, or "" when it is unset or
// not a directory.
func envDir(key string) string {
	v := os.Getenv(key)
	if v == "" {
		return ""
	}
	info, err := os.Stat(v)
	if err != nil || !info.IsDir() {
		slog.Warn("invalid directory env var, ignoring", "key", key, "value", v)
		return ""
	}
	return v
}
