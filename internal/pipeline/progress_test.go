package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lucidity-ai/lucidity/pkg/types"
)

func TestEmitterTerminalExactlyOnce(t *testing.T) {
	t.Run("complete_then_fail_keeps_complete", func(t *testing.T) {
		em := newEmitter(context.Background(), 1)

		em.complete(&types.Report{DocumentID: "doc"})
		em.fail("should be ignored")

		var events []Event
		for ev := range em.events() {
			events = append(events, ev)
		}
		require.Len(t, events, 1)
		require.Equal(t, EventComplete, events[0].Type)
		require.Equal(t, "doc", events[0].Result.DocumentID)
	})

	t.Run("fail_then_complete_keeps_error", func(t *testing.T) {
		em := newEmitter(context.Background(), 1)

		em.fail("analysis cancelled")
		em.complete(&types.Report{})

		var events []Event
		for ev := range em.events() {
			events = append(events, ev)
		}
		require.Len(t, events, 1)
		require.Equal(t, EventError, events[0].Type)
		require.Equal(t, "analysis cancelled", events[0].Message)
	})
}

func TestEmitterStageEvents(t *testing.T) {
	em := newEmitter(context.Background(), 2)

	em.stageStarted("bias")
	em.stageTerminal(Outcome{Stage: "bias", Status: StatusSucceeded})
	em.stageTerminal(Outcome{Stage: "noise", Status: StatusFallback})
	em.complete(&types.Report{})

	var events []Event
	for ev := range em.events() {
		events = append(events, ev)
	}

	require.Len(t, events, 4)
	require.Equal(t, PhaseStarted, events[0].Phase)
	require.Equal(t, PhaseComplete, events[1].Phase)
	require.Equal(t, PhaseFallback, events[2].Phase)
	require.Equal(t, EventComplete, events[3].Type)

	// ids are unique and timestamps monotone non-decreasing
	seen := map[string]bool{}
	for i, ev := range events {
		require.False(t, seen[ev.ID])
		seen[ev.ID] = true
		if i > 0 {
			require.False(t, ev.Timestamp.Before(events[i-1].Timestamp))
		}
	}
}

func TestEmitterDropsEventsAfterCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	em := newEmitter(ctx, 1)
	em.stageStarted("bias")
	em.complete(&types.Report{})

	// the send is abandoned but the channel still closes
	var events []Event
	for ev := range em.events() {
		events = append(events, ev)
	}
	require.Empty(t, events)
}
