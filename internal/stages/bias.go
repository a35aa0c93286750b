package stages

import (
	"context"

	"github.com/lucidity-ai/lucidity/pkg/llm"
	"github.com/lucidity-ai/lucidity/pkg/types"
)

const biasSystemPrompt = `You are an expert in behavioral decision science. Identify cognitive biases present in the decision document: anchoring, confirmation bias, sunk-cost fallacy, overconfidence, groupthink, availability heuristic, loss aversion and similar. Respond with strict JSON only: {"findings":[{"type":"...","excerpt":"...","explanation":"...","severity":"low|medium|high","confidence":0.0}]}. Report an empty findings array when no bias is evident.`

func biasStage() Stage {
	return Stage{
		Name:     "bias",
		Priority: 1,
		Writes:   types.SlotBiases,
		Reads:    []types.Slot{types.SlotStructured},
		Class:    ClassText,
		Run: func(ctx context.Context, client llm.Client, snap *types.AuditState) (types.SlotValue, error) {
			return completeJSON[types.BiasReport](ctx, client, llm.CompletionRequest{
				System: biasSystemPrompt,
				Prompt: sourceText(snap),
			})
		},
		Fallback: func(reason string) types.SlotValue {
			return &types.BiasReport{
				StageMark: fallbackMark(reason),
				Findings:  []types.BiasFinding{},
			}
		},
	}
}
