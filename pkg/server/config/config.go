// Package config holds the service configuration, populated from flags,
// LUCIDITY_* environment variables, or config.yaml.
package config

import (
	"fmt"
	"time"
)

type HTTPConfig struct {
	// Addr is the listen address of the HTTP server.
	Addr string
	// CORSAllowedOrigins is passed to the CORS middleware.
	CORSAllowedOrigins []string
}

type LogConfig struct {
	// Format is either "text" or "json".
	Format string
	// Level is one of debug, info, warn, error, panic, fatal, none.
	Level string
}

type PipelineConfig struct {
	// TextStageTimeout bounds pure-text analysis stages.
	TextStageTimeout time.Duration
	// SearchStageTimeout bounds web-search-backed stages, which are
	// expected to be slower.
	SearchStageTimeout time.Duration
	// MaxConcurrency caps the number of stages in flight per run.
	MaxConcurrency int
	// MaxDocumentBytes rejects oversized documents at the boundary.
	MaxDocumentBytes int
}

type RateLimitConfig struct {
	Enabled bool
	// Limit is the number of requests admitted per identity and route
	// within Window.
	Limit  int
	Window time.Duration
}

type CacheConfig struct {
	Enabled bool
	// MaxEntries bounds the report dedup cache.
	MaxEntries int64
	TTL        time.Duration
}

type LLMConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	SearchModel string
}

type Config struct {
	HTTP      HTTPConfig
	Log       LogConfig
	Pipeline  PipelineConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	LLM       LLMConfig
}

// DefaultConfig returns the config the service runs with when nothing is
// overridden.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:               "0.0.0.0:8080",
			CORSAllowedOrigins: []string{"*"},
		},
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
		Pipeline: PipelineConfig{
			TextStageTimeout:   45 * time.Second,
			SearchStageTimeout: 120 * time.Second,
			MaxConcurrency:     8,
			MaxDocumentBytes:   1 << 20,
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			Limit:   20,
			Window:  time.Minute,
		},
		Cache: CacheConfig{
			Enabled:    true,
			MaxEntries: 10000,
			TTL:        24 * time.Hour,
		},
		LLM: LLMConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
		},
	}
}

// Verify validates the configuration before the server starts.
func (c *Config) Verify() error {
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr must not be empty")
	}
	if c.Pipeline.TextStageTimeout <= 0 || c.Pipeline.SearchStageTimeout <= 0 {
		return fmt.Errorf("pipeline stage timeouts must be positive")
	}
	if c.Pipeline.MaxConcurrency <= 0 {
		return fmt.Errorf("pipeline.max-concurrency must be positive")
	}
	if c.Pipeline.MaxDocumentBytes <= 0 {
		return fmt.Errorf("pipeline.max-document-bytes must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Limit <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("ratelimit.limit and ratelimit.window must be positive when rate limiting is enabled")
	}
	if c.Cache.Enabled && (c.Cache.MaxEntries <= 0 || c.Cache.TTL <= 0) {
		return fmt.Errorf("cache.max-entries and cache.ttl must be positive when the report cache is enabled")
	}
	if c.LLM.BaseURL == "" {
		return fmt.Errorf("llm.base-url must not be empty")
	}
	return nil
}
