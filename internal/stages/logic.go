package stages

import (
	"context"

	"github.com/lucidity-ai/lucidity/pkg/llm"
	"github.com/lucidity-ai/lucidity/pkg/types"
)

const logicSystemPrompt = `You are a logician auditing an argument. Detect logical fallacies (ad hominem, false dilemma, slippery slope, circular reasoning, hasty generalization, appeal to authority and similar) and rate internal consistency. Respond with strict JSON only: {"fallacies":[{"type":"...","excerpt":"...","explanation":"..."}],"consistency":0} with consistency 0-100.`

func logicStage() Stage {
	return Stage{
		Name:     "logic",
		Priority: 4,
		Writes:   types.SlotLogic,
		Reads:    []types.Slot{types.SlotStructured},
		Class:    ClassText,
		Run: func(ctx context.Context, client llm.Client, snap *types.AuditState) (types.SlotValue, error) {
			return completeJSON[types.LogicalAnalysis](ctx, client, llm.CompletionRequest{
				System: logicSystemPrompt,
				Prompt: sourceText(snap),
			})
		},
		Fallback: func(reason string) types.SlotValue {
			return &types.LogicalAnalysis{
				StageMark:   fallbackMark(reason),
				Fallacies:   []types.Fallacy{},
				Consistency: 50,
			}
		},
	}
}
