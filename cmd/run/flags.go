package run

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lucidity-ai/lucidity/cmd/util"
)

// bindRunFlagsFunc binds the cobra cmd flags to the equivalent config value being
// managed by viper. This bridges the config between cobra flags and viper flags.
func bindRunFlagsFunc(flags *pflag.FlagSet) func(*cobra.Command, []string) {
	return func(*cobra.Command, []string) {
		util.MustBindPFlag("http.addr", flags.Lookup("http-addr"))
		util.MustBindEnv("http.addr", "LUCIDITY_HTTP_ADDR")

		util.MustBindPFlag("http.corsAllowedOrigins", flags.Lookup("http-cors-allowed-origins"))
		util.MustBindEnv("http.corsAllowedOrigins", "LUCIDITY_HTTP_CORS_ALLOWED_ORIGINS", "LUCIDITY_HTTP_CORSALLOWEDORIGINS")

		util.MustBindPFlag("log.format", flags.Lookup("log-format"))
		util.MustBindEnv("log.format", "LUCIDITY_LOG_FORMAT")

		util.MustBindPFlag("log.level", flags.Lookup("log-level"))
		util.MustBindEnv("log.level", "LUCIDITY_LOG_LEVEL")

		util.MustBindPFlag("pipeline.textStageTimeout", flags.Lookup("pipeline-text-stage-timeout"))
		util.MustBindEnv("pipeline.textStageTimeout", "LUCIDITY_PIPELINE_TEXT_STAGE_TIMEOUT", "LUCIDITY_PIPELINE_TEXTSTAGETIMEOUT")

		util.MustBindPFlag("pipeline.searchStageTimeout", flags.Lookup("pipeline-search-stage-timeout"))
		util.MustBindEnv("pipeline.searchStageTimeout", "LUCIDITY_PIPELINE_SEARCH_STAGE_TIMEOUT", "LUCIDITY_PIPELINE_SEARCHSTAGETIMEOUT")

		util.MustBindPFlag("pipeline.maxConcurrency", flags.Lookup("pipeline-max-concurrency"))
		util.MustBindEnv("pipeline.maxConcurrency", "LUCIDITY_PIPELINE_MAX_CONCURRENCY", "LUCIDITY_PIPELINE_MAXCONCURRENCY")

		util.MustBindPFlag("pipeline.maxDocumentBytes", flags.Lookup("pipeline-max-document-bytes"))
		util.MustBindEnv("pipeline.maxDocumentBytes", "LUCIDITY_PIPELINE_MAX_DOCUMENT_BYTES", "LUCIDITY_PIPELINE_MAXDOCUMENTBYTES")

		util.MustBindPFlag("ratelimit.enabled", flags.Lookup("ratelimit-enabled"))
		util.MustBindEnv("ratelimit.enabled", "LUCIDITY_RATELIMIT_ENABLED")

		util.MustBindPFlag("ratelimit.limit", flags.Lookup("ratelimit-limit"))
		util.MustBindEnv("ratelimit.limit", "LUCIDITY_RATELIMIT_LIMIT")

		util.MustBindPFlag("ratelimit.window", flags.Lookup("ratelimit-window"))
		util.MustBindEnv("ratelimit.window", "LUCIDITY_RATELIMIT_WINDOW")

		util.MustBindPFlag("cache.enabled", flags.Lookup("cache-enabled"))
		util.MustBindEnv("cache.enabled", "LUCIDITY_CACHE_ENABLED")

		util.MustBindPFlag("cache.maxEntries", flags.Lookup("cache-max-entries"))
		util.MustBindEnv("cache.maxEntries", "LUCIDITY_CACHE_MAX_ENTRIES", "LUCIDITY_CACHE_MAXENTRIES")

		util.MustBindPFlag("cache.ttl", flags.Lookup("cache-ttl"))
		util.MustBindEnv("cache.ttl", "LUCIDITY_CACHE_TTL")

		util.MustBindPFlag("llm.baseURL", flags.Lookup("llm-base-url"))
		util.MustBindEnv("llm.baseURL", "LUCIDITY_LLM_BASE_URL", "LUCIDITY_LLM_BASEURL")

		util.MustBindPFlag("llm.apiKey", flags.Lookup("llm-api-key"))
		util.MustBindEnv("llm.apiKey", "LUCIDITY_LLM_API_KEY", "LUCIDITY_LLM_APIKEY")

		util.MustBindPFlag("llm.model", flags.Lookup("llm-model"))
		util.MustBindEnv("llm.model", "LUCIDITY_LLM_MODEL")

		util.MustBindPFlag("llm.searchModel", flags.Lookup("llm-search-model"))
		util.MustBindEnv("llm.searchModel", "LUCIDITY_LLM_SEARCH_MODEL", "LUCIDITY_LLM_SEARCHMODEL")
	}
}
