package pipeline

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/lucidity-ai/lucidity/internal/concurrency"
	"github.com/lucidity-ai/lucidity/pkg/types"
)

// EventType is the wire-level discriminator of a progress event.
type EventType string

const (
	EventProgress EventType = "progress"
	EventComplete EventType = "complete"
	EventError    EventType = "error"
)

// Stage lifecycle phases carried by progress events.
const (
	PhaseStarted  = "stage-started"
	PhaseComplete = "stage-completed"
	PhaseFallback = "stage-failed-with-fallback"
)

// Event is one message on the progress stream. The stream is terminated by
// exactly one terminal event: a complete event carrying the report, or an
// error event carrying a safe message.
type Event struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	Stage     string        `json:"stage,omitempty"`
	Phase     string        `json:"phase,omitempty"`
	Result    *types.Report `json:"result,omitempty"`
	Message   string        `json:"message,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// emitter converts scheduler lifecycle events into the ordered stream
// consumed by the SSE transport. All emission happens from the scheduler
// goroutine, so events appear in true occurrence order. A slow or gone
// consumer never blocks the pipeline: the channel is sized for a full run
// and sends are abandoned when the run context ends.
type emitter struct {
	ctx      context.Context
	ch       chan Event
	terminal bool
}

func newEmitter(ctx context.Context, stageCount int) *emitter {
	// every stage starts and terminates once, plus one terminal event
	return &emitter{
		ctx: ctx,
		ch:  make(chan Event, 2*stageCount+1),
	}
}

func (e *emitter) events() <-chan Event {
	return e.ch
}

func (e *emitter) send(ev Event) {
	ev.ID = ulid.Make().String()
	ev.Timestamp = time.Now().UTC()
	concurrency.TrySendThroughChannel(e.ctx, ev, e.ch)
}

func (e *emitter) stageStarted(stage string) {
	e.send(Event{Type: EventProgress, Stage: stage, Phase: PhaseStarted})
}

func (e *emitter) stageTerminal(oc Outcome) {
	phase := PhaseComplete
	if oc.Status == StatusFallback {
		phase = PhaseFallback
	}
	e.send(Event{Type: EventProgress, Stage: oc.Stage, Phase: phase})
}

// complete emits the terminal complete event. At most one terminal event
// is ever emitted; later calls to complete or fail are ignored.
func (e *emitter) complete(report *types.Report) {
	if e.terminal {
		return
	}
	e.terminal = true
	e.send(Event{Type: EventComplete, Result: report})
	close(e.ch)
}

// fail emits the terminal error event with a fixed-vocabulary message.
func (e *emitter) fail(message string) {
	if e.terminal {
		return
	}
	e.terminal = true
	e.send(Event{Type: EventError, Message: message})
	close(e.ch)
}
