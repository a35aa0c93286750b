package stages

import (
	"context"

	"github.com/lucidity-ai/lucidity/pkg/llm"
	"github.com/lucidity-ai/lucidity/pkg/types"
)

const factCheckSystemPrompt = `You verify factual claims against live web sources. Extract the checkable claims from the document, verify each, and cite the source consulted. Respond with strict JSON only: {"status":"verified|contested|indeterminate","claims":[{"claim":"...","verdict":"supported|refuted|unverifiable","source":"..."}]}. Status reflects the worst claim verdict.`

// factCheckStage is search-backed and carries the long timeout budget.
func factCheckStage() Stage {
	return Stage{
		Name:     "factcheck",
		Priority: 5,
		Writes:   types.SlotFactCheck,
		Reads:    []types.Slot{types.SlotStructured},
		Class:    ClassSearch,
		Run: func(ctx context.Context, client llm.Client, snap *types.AuditState) (types.SlotValue, error) {
			return completeJSON[types.FactCheckResult](ctx, client, llm.CompletionRequest{
				System:    factCheckSystemPrompt,
				Prompt:    sourceText(snap),
				WebSearch: true,
			})
		},
		Fallback: func(reason string) types.SlotValue {
			return &types.FactCheckResult{
				StageMark: fallbackMark(reason),
				Status:    "indeterminate",
			}
		},
	}
}
