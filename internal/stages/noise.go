package stages

import (
	"context"

	"github.com/lucidity-ai/lucidity/pkg/llm"
	"github.com/lucidity-ai/lucidity/pkg/types"
)

const noiseSystemPrompt = `You measure decision noise: unwanted variability in judgment that is distinct from bias. Assess how much the document's conclusions would vary if re-judged by equally competent people. Respond with strict JSON only: {"score":0,"variability":0,"drivers":["..."],"summary":"..."} where score and variability are 0-100.`

// noiseStage scores judgment variability. A score of 0 means the reasoning
// would reproduce; 100 means the outcome is essentially arbitrary.
func noiseStage() Stage {
	return Stage{
		Name:     "noise",
		Priority: 2,
		Writes:   types.SlotNoise,
		Reads:    []types.Slot{types.SlotStructured},
		Class:    ClassText,
		Run: func(ctx context.Context, client llm.Client, snap *types.AuditState) (types.SlotValue, error) {
			return completeJSON[types.NoiseStats](ctx, client, llm.CompletionRequest{
				System: noiseSystemPrompt,
				Prompt: sourceText(snap),
			})
		},
		Fallback: func(reason string) types.SlotValue {
			return &types.NoiseStats{
				StageMark: fallbackMark(reason),
				Score:     50,
				Summary:   "noise assessment unavailable",
			}
		},
	}
}
