// ABOUTME: Tests for environment-driven configuration
// ABOUTME: Verifies defaults, overrides, and fail-fast validation
package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Empty values read as unset, so this isolates the test from the
	// ambient environment.
	for _, key := range []string{
		"ASSISTANT_CHAT_MODEL", "ASSISTANT_EMBEDDING_MODEL", "CHUNK_SIZE",
		"CHUNK_OVERLAP", "TOP_K", "SYSTEM_PROMPT", "OPENAI_TIMEOUT",
		"OPENAI_MAX_RETRIES", "OPENAI_RETRY_DELAY", "UPLOADS_DIR", "INDEX_DIR",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("ChatModel = %q, want gpt-4o-mini", cfg.ChatModel)
	}
	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %q, want text-embedding-3-small", cfg.EmbeddingModel)
	}
	if cfg.ChunkSize != 1000 {
		t.Errorf("ChunkSize = %d, want 1000", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 200 {
		t.Errorf("ChunkOverlap = %d, want 200", cfg.ChunkOverlap)
	}
	if cfg.TopK != 4 {
		t.Errorf("TopK = %d, want 4", cfg.TopK)
	}
	if cfg.SystemPrompt == "" {
		t.Error("SystemPrompt default should not be empty")
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.UploadsDir != "data/uploads" || cfg.IndexDir != "data/index" {
		t.Errorf("storage dirs = %q / %q, want data/uploads and data/index", cfg.UploadsDir, cfg.IndexDir)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ASSISTANT_CHAT_MODEL", "gpt-4o")
	t.Setenv("CHUNK_SIZE", "500")
	t.Setenv("CHUNK_OVERLAP", "50")
	t.Setenv("TOP_K", "8")
	t.Setenv("OPENAI_TIMEOUT", "10s")
	t.Setenv("INDEX_DIR", "/tmp/idx")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ChatModel != "gpt-4o" {
		t.Errorf("ChatModel = %q, want gpt-4o", cfg.ChatModel)
	}
	if cfg.ChunkSize != 500 || cfg.ChunkOverlap != 50 {
		t.Errorf("chunking = %d/%d, want 500/50", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.TopK != 8 {
		t.Errorf("TopK = %d, want 8", cfg.TopK)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Timeout)
	}
	if cfg.IndexDir != "/tmp/idx" {
		t.Errorf("IndexDir = %q, want /tmp/idx", cfg.IndexDir)
	}
}

func TestLoad_InvalidNumberFallsBackToDefault(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "lots")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ChunkSize != 1000 {
		t.Errorf("ChunkSize = %d, want default 1000 for unparsable value", cfg.ChunkSize)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			ChunkSize:    1000,
			ChunkOverlap: 200,
			TopK:         4,
			MaxRetries:   3,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }, true},
		{"overlap equals chunk size", func(c *Config) { c.ChunkOverlap = c.ChunkSize }, true},
		{"overlap above chunk size", func(c *Config) { c.ChunkOverlap = c.ChunkSize + 1 }, true},
		{"negative overlap", func(c *Config) { c.ChunkOverlap = -1 }, true},
		{"zero overlap ok", func(c *Config) { c.ChunkOverlap = 0 }, false},
		{"zero top_k", func(c *Config) { c.TopK = 0 }, true},
		{"too many retries", func(c *Config) { c.MaxRetries = 11 }, true},
		{"negative retry delay", func(c *Config) { c.RetryDelay = -time.Second }, true},
		{"zero retry delay ok", func(c *Config) { c.RetryDelay = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
