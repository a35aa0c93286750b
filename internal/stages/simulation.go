package stages

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lucidity-ai/lucidity/pkg/llm"
	"github.com/lucidity-ai/lucidity/pkg/types"
)

const simulationSystemPrompt = `Simulate plausible outcomes of the decision given the detected biases and the pre-mortem scenarios. Respond with strict JSON only: {"outcomes":[{"scenario":"...","probability":0.0,"result":"..."}]} with probabilities summing to about 1.`

func simulationStage() Stage {
	return Stage{
		Name:     "simulation",
		Priority: 11,
		Writes:   types.SlotSimulation,
		Reads:    []types.Slot{types.SlotBiases, types.SlotPreMortem},
		Class:    ClassText,
		Run: func(ctx context.Context, client llm.Client, snap *types.AuditState) (types.SlotValue, error) {
			biases, err := json.Marshal(snap.Biases.Findings)
			if err != nil {
				return nil, err
			}
			scenarios, err := json.Marshal(snap.PreMortem.Scenarios)
			if err != nil {
				return nil, err
			}
			prompt := fmt.Sprintf("Biases:\n%s\n\nPre-mortem scenarios:\n%s", biases, scenarios)
			return completeJSON[types.SimulationResult](ctx, client, llm.CompletionRequest{
				System: simulationSystemPrompt,
				Prompt: prompt,
			})
		},
		Fallback: func(reason string) types.SlotValue {
			return &types.SimulationResult{
				StageMark: fallbackMark(reason),
				Outcomes:  []types.SimulatedOutcome{},
			}
		},
	}
}
