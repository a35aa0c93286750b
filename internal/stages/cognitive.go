package stages

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lucidity-ai/lucidity/pkg/llm"
	"github.com/lucidity-ai/lucidity/pkg/types"
)

const cognitiveSystemPrompt = `Synthesize a cognitive profile of the decision process from the detected biases and the noise assessment. Respond with strict JSON only: {"load":"low|moderate|high","patterns":["..."],"summary":"..."}.`

// cognitiveStage is a synthesis stage over the bias and noise outputs; it
// never sees the document itself.
func cognitiveStage() Stage {
	return Stage{
		Name:     "cognitive",
		Priority: 10,
		Writes:   types.SlotCognitive,
		Reads:    []types.Slot{types.SlotBiases, types.SlotNoise},
		Class:    ClassText,
		Run: func(ctx context.Context, client llm.Client, snap *types.AuditState) (types.SlotValue, error) {
			biases, err := json.Marshal(snap.Biases.Findings)
			if err != nil {
				return nil, err
			}
			noise, err := json.Marshal(snap.NoiseStats)
			if err != nil {
				return nil, err
			}
			prompt := fmt.Sprintf("Biases:\n%s\n\nNoise assessment:\n%s", biases, noise)
			return completeJSON[types.CognitiveAnalysis](ctx, client, llm.CompletionRequest{
				System: cognitiveSystemPrompt,
				Prompt: prompt,
			})
		},
		Fallback: func(reason string) types.SlotValue {
			return &types.CognitiveAnalysis{
				StageMark: fallbackMark(reason),
				Load:      "moderate",
				Summary:   "cognitive synthesis unavailable",
			}
		},
	}
}
