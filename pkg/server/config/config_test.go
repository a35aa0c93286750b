package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigVerifies(t *testing.T) {
	require.NoError(t, DefaultConfig().Verify())
}

func TestVerifyRejectsBadValues(t *testing.T) {
	var testcases = map[string]func(*Config){
		`empty_addr`:          func(c *Config) { c.HTTP.Addr = "" },
		`zero_text_timeout`:   func(c *Config) { c.Pipeline.TextStageTimeout = 0 },
		`zero_search_timeout`: func(c *Config) { c.Pipeline.SearchStageTimeout = 0 },
		`zero_concurrency`:    func(c *Config) { c.Pipeline.MaxConcurrency = 0 },
		`zero_document_max`:   func(c *Config) { c.Pipeline.MaxDocumentBytes = 0 },
		`zero_rate_limit`:     func(c *Config) { c.RateLimit.Limit = 0 },
		`zero_cache_ttl`:      func(c *Config) { c.Cache.TTL = 0 },
		`empty_llm_base_url`:  func(c *Config) { c.LLM.BaseURL = "" },
	}

	for name, mutate := range testcases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			require.Error(t, cfg.Verify())
		})
	}
}

func TestVerifyAllowsDisabledSubsystems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = RateLimitConfig{Enabled: false}
	cfg.Cache = CacheConfig{Enabled: false}
	require.NoError(t, cfg.Verify())
}
