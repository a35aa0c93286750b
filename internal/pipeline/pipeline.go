// Package pipeline orchestrates the analysis of one decision document: it
// schedules the stage dependency graph over the shared audit state,
// absorbs individual stage failures into fallbacks, streams progress, and
// folds the final state into a report.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/lucidity-ai/lucidity/internal/aggregate"
	"github.com/lucidity-ai/lucidity/internal/build"
	"github.com/lucidity-ai/lucidity/internal/concurrency"
	"github.com/lucidity-ai/lucidity/internal/reportcache"
	"github.com/lucidity-ai/lucidity/internal/stages"
	"github.com/lucidity-ai/lucidity/pkg/llm"
	"github.com/lucidity-ai/lucidity/pkg/logger"
	"github.com/lucidity-ai/lucidity/pkg/types"
)

var (
	runDurationHistogram = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: build.ProjectName,
		Name:      "pipeline_duration_seconds",
		Help:      "Wall-clock duration of full pipeline runs.",
		Buckets:   []float64{0.5, 1, 5, 10, 30, 60, 120, 300},
	}, []string{"result"})

	cachedRunCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Name:      "pipeline_cached_runs_total",
		Help:      "The total number of runs answered from the report cache.",
	})
)

// Mode selects what happens with the produced report.
type Mode string

const (
	// ModePersist runs the pipeline and records the report in the dedup
	// gate for future identical uploads.
	ModePersist Mode = "persist"
	// ModeSimulate runs the full pipeline but records nothing.
	ModeSimulate Mode = "simulate"
)

const (
	defaultMaxDocumentBytes = 1 << 20 // 1 MiB of extracted text
	defaultMaxConcurrency   = 8
	defaultTextTimeout      = 45 * time.Second
	defaultSearchTimeout    = 120 * time.Second
)

// Pipeline executes audits. Construct it once at startup with an injected
// llm.Client and share it across requests; each Run creates its own state.
type Pipeline struct {
	graph   *Graph
	runner  *Runner
	gate    reportcache.Gate
	logger  logger.Logger
	weights aggregate.Weights

	maxDocumentBytes int
	maxConcurrency   int
}

type Option func(*Pipeline)

// WithStages replaces the default stage set. Used by tests to inject
// instrumented stages.
func WithStages(set []stages.Stage) Option {
	return func(p *Pipeline) {
		g, err := NewGraph(set)
		if err != nil {
			panic(err)
		}
		p.graph = g
	}
}

func WithWeights(w aggregate.Weights) Option {
	return func(p *Pipeline) { p.weights = w }
}

func WithMaxDocumentBytes(n int) Option {
	return func(p *Pipeline) { p.maxDocumentBytes = n }
}

func WithMaxConcurrency(n int) Option {
	return func(p *Pipeline) { p.maxConcurrency = n }
}

// WithStageTimeouts overrides the per-class stage budgets.
func WithStageTimeouts(text, search time.Duration) Option {
	return func(p *Pipeline) {
		p.runner = NewRunner(p.runner.client, p.runner.logger, text, search)
	}
}

// New builds a pipeline over the default stage set. The dependency graph
// is validated here, once, so a bad stage declaration fails at startup.
func New(client llm.Client, gate reportcache.Gate, log logger.Logger, opts ...Option) (*Pipeline, error) {
	graph, err := NewGraph(stages.All())
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		graph:            graph,
		runner:           NewRunner(client, log, defaultTextTimeout, defaultSearchTimeout),
		gate:             gate,
		logger:           log,
		weights:          aggregate.DefaultWeights(),
		maxDocumentBytes: defaultMaxDocumentBytes,
		maxConcurrency:   defaultMaxConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run is the blocking form: it executes the full pipeline and returns the
// report. Stage failures degrade the report; only ingress validation,
// cancellation, and fatal orchestrator errors surface as errors.
func (p *Pipeline) Run(ctx context.Context, content string, mode Mode) (*types.Report, error) {
	em := newEmitter(ctx, len(p.graph.Stages()))
	return p.execute(ctx, content, mode, em)
}

// Stream is the streaming form. The returned channel carries progress
// events in occurrence order and is always terminated by exactly one
// complete or error event, then closed.
func (p *Pipeline) Stream(ctx context.Context, content string, mode Mode) <-chan Event {
	em := newEmitter(ctx, len(p.graph.Stages()))
	go func() {
		if _, err := p.execute(ctx, content, mode, em); err != nil {
			em.fail(err.Error())
		}
	}()
	return em.events()
}

func (p *Pipeline) execute(ctx context.Context, content string, mode Mode, em *emitter) (*types.Report, error) {
	start := time.Now()

	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyDocument
	}
	if len(content) > p.maxDocumentBytes {
		return nil, ErrDocumentTooLarge
	}

	fingerprint := reportcache.Fingerprint([]byte(content))
	if cached, ok := p.gate.Lookup(ctx, fingerprint); ok {
		cachedRunCounter.Inc()
		em.complete(cached)
		return cached, nil
	}

	documentID := uuid.NewString()
	p.logger.InfoWithContext(ctx, "starting audit",
		zap.String("document_id", documentID),
		zap.Int("document_bytes", len(content)),
		zap.String("mode", string(mode)),
	)

	store := newStateStore(documentID, content)
	if err := p.schedule(ctx, store, em); err != nil {
		runDurationHistogram.WithLabelValues("error").Observe(time.Since(start).Seconds())
		p.logger.WarnWithContext(ctx, "audit aborted",
			zap.String("document_id", documentID),
			zap.Error(err),
		)
		return nil, err
	}

	report := aggregate.Aggregate(store.snapshot(), p.weights)
	if err := store.setFinalReport(report); err != nil {
		return nil, err
	}

	if mode == ModePersist && ctx.Err() == nil {
		p.gate.Store(ctx, fingerprint, report)
	}

	runDurationHistogram.WithLabelValues("complete").Observe(time.Since(start).Seconds())
	p.logger.InfoWithContext(ctx, "audit complete",
		zap.String("document_id", documentID),
		zap.Float64("overall_score", report.OverallScore),
		zap.String("risk_level", report.RiskLevel),
		zap.Duration("elapsed", time.Since(start)),
	)

	em.complete(report)
	return report, nil
}

type stageDone struct {
	idx     int
	outcome Outcome
}

// schedule drives the dependency graph to completion. It repeatedly
// dispatches every ready stage into the worker pool, then applies one
// completion at a time to the state store. Because the only writer of the
// started/terminal sets is this goroutine, no locking is needed beyond the
// state store's own guard.
func (p *Pipeline) schedule(ctx context.Context, store *stateStore, em *emitter) error {
	set := p.graph.Stages()
	n := len(set)

	started := make([]bool, n)
	terminal := make([]bool, n)
	outcomes := make(chan stageDone, n)

	pool := concurrency.NewPool(ctx, p.maxConcurrency)
	inFlight := 0
	completed := 0

	for completed < n {
		ready := p.graph.ready(started, terminal)
		for _, i := range ready {
			started[i] = true
			inFlight++
			em.stageStarted(set[i].Name)

			stage := set[i]
			idx := i
			snap := store.snapshot()
			pool.Go(func(ctx context.Context) error {
				oc := p.runner.Run(ctx, stage, snap)
				concurrency.TrySendThroughChannel(ctx, stageDone{idx: idx, outcome: oc}, outcomes)
				return nil
			})
		}

		if inFlight == 0 {
			// validated DAGs cannot reach this; treat it as fatal
			// rather than spinning forever
			_ = pool.Wait()
			return ErrStateCorrupted
		}

		select {
		case <-ctx.Done():
			_ = pool.Wait()
			return ErrCancelled
		case done := <-outcomes:
			inFlight--
			completed++
			terminal[done.idx] = true
			if err := store.put(done.outcome.Value); err != nil {
				_ = pool.Wait()
				return err
			}
			em.stageTerminal(done.outcome)
		}
	}

	return pool.Wait()
}
