package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/lucidity-ai/lucidity/internal/build"
	"github.com/lucidity-ai/lucidity/internal/stages"
	stackerrors "github.com/lucidity-ai/lucidity/pkg/errors"
	"github.com/lucidity-ai/lucidity/pkg/llm"
	"github.com/lucidity-ai/lucidity/pkg/logger"
	"github.com/lucidity-ai/lucidity/pkg/types"
)

var tracer = otel.Tracer("github.com/lucidity-ai/lucidity/internal/pipeline")

var (
	stageDurationHistogram = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: build.ProjectName,
		Name:      "stage_duration_seconds",
		Help:      "Wall-clock duration of each analysis stage invocation.",
		Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"stage", "status"})

	stageRetryCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Name:      "stage_retries_total",
		Help:      "The total number of stage-level retries.",
	})
)

// Status is a stage's terminal state.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFallback  Status = "failed-with-fallback"
)

// Outcome is the uniform result of one stage invocation. The runner never
// lets an error or panic escape a stage; failures arrive here as a
// fallback value plus the reason it was substituted.
type Outcome struct {
	Stage   string
	Slot    types.Slot
	Status  Status
	Value   types.SlotValue
	Elapsed time.Duration
}

// Runner wraps stage invocations with timeout, a single retry for
// transient and malformed-output errors, and error-to-fallback
// translation.
type Runner struct {
	client        llm.Client
	logger        logger.Logger
	textTimeout   time.Duration
	searchTimeout time.Duration
}

func NewRunner(client llm.Client, log logger.Logger, textTimeout, searchTimeout time.Duration) *Runner {
	return &Runner{
		client:        client,
		logger:        log,
		textTimeout:   textTimeout,
		searchTimeout: searchTimeout,
	}
}

func (r *Runner) timeoutFor(class stages.Class) time.Duration {
	if class == stages.ClassSearch {
		return r.searchTimeout
	}
	return r.textTimeout
}

// Run invokes the stage against a read-only snapshot and always returns an
// Outcome. ctx cancellation aborts the underlying call; the cancelled
// stage terminates as a fallback and the scheduler decides whether the run
// as a whole is abandoned.
func (r *Runner) Run(ctx context.Context, stage stages.Stage, snap *types.AuditState) Outcome {
	ctx, span := tracer.Start(ctx, "stage."+stage.Name)
	span.SetAttributes(attribute.String("stage", stage.Name))
	defer span.End()

	start := time.Now()
	value, err := r.runWithRetry(ctx, stage, snap)
	elapsed := time.Since(start)

	outcome := Outcome{
		Stage:   stage.Name,
		Slot:    stage.Writes,
		Status:  StatusSucceeded,
		Value:   value,
		Elapsed: elapsed,
	}

	if err != nil {
		reason := reasonFor(err)
		outcome.Status = StatusFallback
		outcome.Value = stage.Fallback(reason)
		r.logger.WarnWithContext(ctx, "stage failed, substituting fallback",
			zap.String("stage", stage.Name),
			zap.String("reason", reason),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
	}

	stageDurationHistogram.WithLabelValues(stage.Name, string(outcome.Status)).Observe(elapsed.Seconds())
	return outcome
}

// runWithRetry performs the stage call with its class timeout and at most
// one retry. Only transient provider errors and malformed output are
// retried; everything else fails immediately.
func (r *Runner) runWithRetry(ctx context.Context, stage stages.Stage, snap *types.AuditState) (types.SlotValue, error) {
	attempt := func() (types.SlotValue, error) {
		callCtx, cancel := context.WithTimeout(ctx, r.timeoutFor(stage.Class))
		defer cancel()
		return r.runOnce(callCtx, stage, snap)
	}

	var value types.SlotValue

	operation := func() error {
		v, err := attempt()
		if err != nil {
			if ctx.Err() != nil || !llm.IsRetryable(err) {
				return backoff.Permanent(err)
			}
			stageRetryCounter.Inc()
			return err
		}
		value = v
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 1)
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return nil, err
	}
	return value, nil
}

// runOnce guards a single stage call. A panicking stage is converted into
// an error so the scheduler's control flow stays uniform.
func (r *Runner) runOnce(ctx context.Context, stage stages.Stage, snap *types.AuditState) (value types.SlotValue, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			// Keep the recovery-site stack; it is the only trace of
			// where the stage blew up.
			err = llm.Transient(stackerrors.ErrorWithStack(fmt.Errorf("stage panicked: %v", rec)))
		}
	}()

	value, err = stage.Run(ctx, r.client, snap)
	if err != nil {
		return nil, err
	}
	if value == nil || value.Slot() != stage.Writes {
		return nil, fmt.Errorf("stage %q produced a value for the wrong slot", stage.Name)
	}
	return value, nil
}

// reasonFor maps an error onto the fixed fallback vocabulary. Raw error
// text never reaches a report.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, llm.ErrMalformedOutput):
		return ReasonMalformedOutput
	default:
		return ReasonProviderFailure
	}
}
