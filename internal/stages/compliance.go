package stages

import (
	"context"

	"github.com/lucidity-ai/lucidity/pkg/llm"
	"github.com/lucidity-ai/lucidity/pkg/types"
)

const complianceSystemPrompt = `You are a regulatory compliance analyst. Assess the decision document against current applicable regulation for its domain, consulting live sources where needed. Respond with strict JSON only: {"status":"compliant|violations-found|indeterminate","issues":[{"regulation":"...","description":"...","severity":"low|medium|high"}]}.`

// complianceStage is search-backed; it runs in parallel with factcheck
// once the structuring stage has completed.
func complianceStage() Stage {
	return Stage{
		Name:     "compliance",
		Priority: 6,
		Writes:   types.SlotCompliance,
		Reads:    []types.Slot{types.SlotStructured},
		Class:    ClassSearch,
		Run: func(ctx context.Context, client llm.Client, snap *types.AuditState) (types.SlotValue, error) {
			return completeJSON[types.ComplianceResult](ctx, client, llm.CompletionRequest{
				System:    complianceSystemPrompt,
				Prompt:    sourceText(snap),
				WebSearch: true,
			})
		},
		Fallback: func(reason string) types.SlotValue {
			return &types.ComplianceResult{
				StageMark: fallbackMark(reason),
				Status:    "indeterminate",
			}
		},
	}
}
