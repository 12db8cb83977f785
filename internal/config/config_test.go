package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.APIBaseURL == "" {
		t.Error("base url empty")
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("http timeout = %v, want 10s", cfg.HTTPTimeout)
	}
	if cfg.TickInterval != time.Second {
		t.Errorf("tick interval = %v, want 1s", cfg.TickInterval)
	}
	if cfg.SaveQueueDepth != 64 {
		t.Errorf("save queue depth = %d, want 64", cfg.SaveQueueDepth)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:8080/api/v1")
	t.Setenv("TICK_INTERVAL_MS", "250")
	t.Setenv("SAVE_QUEUE_DEPTH", "8")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "not-a-number") // falls back

	cfg := Load()

	if cfg.APIBaseURL != "http://localhost:8080/api/v1" {
		t.Errorf("base url = %q", cfg.APIBaseURL)
	}
	if cfg.TickInterval != 250*time.Millisecond {
		t.Errorf("tick interval = %v", cfg.TickInterval)
	}
	if cfg.SaveQueueDepth != 8 {
		t.Errorf("save queue depth = %d", cfg.SaveQueueDepth)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("http timeout = %v, want default on bad value", cfg.HTTPTimeout)
	}
}
