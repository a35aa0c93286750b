// Package run contains the command to run a Lucidity server.
package run

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lucidity-ai/lucidity/internal/build"
	"github.com/lucidity-ai/lucidity/internal/pipeline"
	"github.com/lucidity-ai/lucidity/internal/ratelimit"
	"github.com/lucidity-ai/lucidity/internal/reportcache"
	"github.com/lucidity-ai/lucidity/pkg/llm"
	"github.com/lucidity-ai/lucidity/pkg/logger"
	"github.com/lucidity-ai/lucidity/pkg/server"
	serverconfig "github.com/lucidity-ai/lucidity/pkg/server/config"
)

func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the Lucidity server",
		Long:  "Run the Lucidity server.",
		Run:   run,
		Args:  cobra.NoArgs,
	}

	defaultConfig := serverconfig.DefaultConfig()
	flags := cmd.Flags()

	flags.String("http-addr", defaultConfig.HTTP.Addr, "the host:port address to serve the HTTP server on")

	flags.StringSlice("http-cors-allowed-origins", defaultConfig.HTTP.CORSAllowedOrigins, "specifies the CORS allowed origins")

	flags.String("log-format", defaultConfig.Log.Format, "the log format to output logs in")

	flags.String("log-level", defaultConfig.Log.Level, "the log level to use")

	flags.Duration("pipeline-text-stage-timeout", defaultConfig.Pipeline.TextStageTimeout, "the per-attempt timeout for text analysis stages")

	flags.Duration("pipeline-search-stage-timeout", defaultConfig.Pipeline.SearchStageTimeout, "the per-attempt timeout for web-search-backed analysis stages")

	flags.Int("pipeline-max-concurrency", defaultConfig.Pipeline.MaxConcurrency, "the maximum number of analysis stages in flight per audit")

	flags.Int("pipeline-max-document-bytes", defaultConfig.Pipeline.MaxDocumentBytes, "the maximum accepted document size in bytes")

	flags.Bool("ratelimit-enabled", defaultConfig.RateLimit.Enabled, "enable/disable per-client rate limiting")

	flags.Int("ratelimit-limit", defaultConfig.RateLimit.Limit, "the number of requests admitted per client and route within the window")

	flags.Duration("ratelimit-window", defaultConfig.RateLimit.Window, "the sliding window over which the rate limit is enforced")

	flags.Bool("cache-enabled", defaultConfig.Cache.Enabled, "enable/disable report deduplication for identical documents")

	flags.Int64("cache-max-entries", defaultConfig.Cache.MaxEntries, "the maximum number of reports kept in the dedup cache")

	flags.Duration("cache-ttl", defaultConfig.Cache.TTL, "how long a cached report stays valid")

	flags.String("llm-base-url", defaultConfig.LLM.BaseURL, "the base URL of the OpenAI-compatible completion provider")

	flags.String("llm-api-key", defaultConfig.LLM.APIKey, "the API key used to authenticate against the completion provider")

	flags.String("llm-model", defaultConfig.LLM.Model, "the model used for text analysis stages")

	flags.String("llm-search-model", defaultConfig.LLM.SearchModel, "the model used for web-search-backed stages (defaults to llm-model)")

	cmd.PreRun = bindRunFlagsFunc(flags)

	return cmd
}

// ReadConfig returns the Lucidity server configuration based on the values provided
// in the server's 'config.yaml' file. The 'config.yaml' file is loaded from
// '/etc/lucidity', '$HOME/.lucidity', or the current working directory. If no
// configuration file is present, the default values are returned.
func ReadConfig() (*serverconfig.Config, error) {
	config := serverconfig.DefaultConfig()

	viper.SetTypeByDefaultValue(true)
	err := viper.ReadInConfig()
	if err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("failed to load server config: %w", err)
		}
	}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal server config: %w", err)
	}

	return config, nil
}

func run(_ *cobra.Command, _ []string) {
	config, err := ReadConfig()
	if err != nil {
		panic(err)
	}

	if err := config.Verify(); err != nil {
		panic(err)
	}

	logger := logger.MustNewLogger(config.Log.Format, config.Log.Level)
	serverCtx := &ServerContext{Logger: logger}
	if err := serverCtx.Run(context.Background(), config); err != nil {
		panic(err)
	}
}

type ServerContext struct {
	Logger logger.Logger
}

// Run returns an error if the server was unable to start successfully.
// If it started and terminated successfully, it returns a nil error.
func (s *ServerContext) Run(ctx context.Context, config *serverconfig.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := llm.NewHTTPClient(llm.Config{
		BaseURL:     config.LLM.BaseURL,
		APIKey:      config.LLM.APIKey,
		Model:       config.LLM.Model,
		SearchModel: config.LLM.SearchModel,
		// A single provider call must be able to outlive the slowest
		// stage class it serves.
		RequestTimeout: config.Pipeline.SearchStageTimeout,
	})

	var gate reportcache.Gate = reportcache.NoopGate{}
	if config.Cache.Enabled {
		gate = reportcache.NewMemoryGate(config.Cache.MaxEntries, config.Cache.TTL)
	}
	defer gate.Close()

	var limiter ratelimit.Limiter = ratelimit.NoopLimiter{}
	if config.RateLimit.Enabled {
		limiter = ratelimit.NewSlidingWindowLimiter(config.RateLimit.Limit, config.RateLimit.Window)
	}
	defer limiter.Close()

	auditPipeline, err := pipeline.New(client, gate, s.Logger,
		pipeline.WithStageTimeouts(config.Pipeline.TextStageTimeout, config.Pipeline.SearchStageTimeout),
		pipeline.WithMaxConcurrency(config.Pipeline.MaxConcurrency),
		pipeline.WithMaxDocumentBytes(config.Pipeline.MaxDocumentBytes),
	)
	if err != nil {
		return fmt.Errorf("failed to construct the audit pipeline: %w", err)
	}

	svc := server.New(&server.Dependencies{
		Pipeline: auditPipeline,
		Limiter:  limiter,
		Logger:   s.Logger,
	}, config)

	httpServer := &http.Server{
		Addr:    config.HTTP.Addr,
		Handler: svc.Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.Logger.Info(fmt.Sprintf("🧭 starting %s v%s on '%s'", build.ProjectName, build.Version, config.HTTP.Addr))

		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start the http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.Logger.Info("attempting to shutdown gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.Logger.Info("failed to shutdown the http server", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	s.Logger.Info("server exited. bye 👋")
	return nil
}
