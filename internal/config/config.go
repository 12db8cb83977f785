package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all engine configuration.
type Config struct {
	// APIBaseURL is the root of the remote test service, including the
	// version prefix (e.g. https://api.example.com/api/v1).
	APIBaseURL  string
	HTTPTimeout time.Duration
	LogLevel    string
	LogFormat   string
	// TickInterval is the countdown resolution. One second in production;
	// tests shrink it to keep timer cases fast.
	TickInterval time.Duration
	// SaveQueueDepth bounds the background answer-save queue. Saves beyond
	// the bound are dropped, never blocked on.
	SaveQueueDepth int
	// CacheDir is where tokens and the cached profile live on device.
	CacheDir string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // Ignore error — .env is optional

	return &Config{
		APIBaseURL:     getEnv("API_BASE_URL", "https://dekho-exam.onrender.com/api/v1"),
		HTTPTimeout:    time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 10)) * time.Second,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "pretty"),
		TickInterval:   time.Duration(getEnvInt("TICK_INTERVAL_MS", 1000)) * time.Millisecond,
		SaveQueueDepth: getEnvInt("SAVE_QUEUE_DEPTH", 64),
		CacheDir:       getEnv("CACHE_DIR", ".dekho"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
