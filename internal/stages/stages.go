// Package stages declares the analysis stage set. Each stage is one
// LLM-backed analysis unit that reads previously populated audit-state
// slots and writes exactly one slot it owns. The dependency graph and all
// execution concerns (timeouts, retries, fallbacks) live in the pipeline
// package; stages only describe what to analyze and how to recover.
package stages

import (
	"context"

	"github.com/lucidity-ai/lucidity/pkg/llm"
	"github.com/lucidity-ai/lucidity/pkg/types"
)

// Class selects the timeout budget for a stage. Search-backed stages call
// out to live web sources and get a longer budget than pure-text stages.
type Class int

const (
	ClassText Class = iota
	ClassSearch
)

// RunFunc executes the analysis against a read-only state snapshot. The
// snapshot is guaranteed to have every declared read slot populated, either
// by the owning stage or by its fallback.
type RunFunc func(ctx context.Context, client llm.Client, snap *types.AuditState) (types.SlotValue, error)

// Stage is one analysis unit.
type Stage struct {
	// Name identifies the stage in progress events and logs.
	Name string
	// Priority breaks ties when several stages become ready at once.
	// Lower is dispatched first. It never affects correctness.
	Priority int
	// Writes is the single slot this stage owns.
	Writes types.Slot
	// Reads lists the slots this stage depends on.
	Reads []types.Slot
	Class Class
	Run   RunFunc
	// Fallback builds the safe default written when the stage fails.
	// reason is drawn from the fixed failure vocabulary.
	Fallback func(reason string) types.SlotValue
}

// All returns the full stage set in priority order. The slice is rebuilt on
// every call so callers may reorder or trim it freely in tests.
func All() []Stage {
	return []Stage{
		structureStage(),
		biasStage(),
		noiseStage(),
		sentimentStage(),
		logicStage(),
		factCheckStage(),
		complianceStage(),
		swotStage(),
		memoryStage(),
		preMortemStage(),
		cognitiveStage(),
		simulationStage(),
	}
}

func fallbackMark(reason string) types.StageMark {
	return types.StageMark{Fallback: true, Reason: reason}
}
