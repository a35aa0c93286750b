package stages

import (
	"context"

	"github.com/lucidity-ai/lucidity/pkg/llm"
	"github.com/lucidity-ai/lucidity/pkg/types"
)

const memorySystemPrompt = `You are an institutional-memory analyst. Recall well-documented historical decisions (corporate, governmental, or academic) that resemble this one and extract the lesson each offers. Respond with strict JSON only: {"precedents":[{"title":"...","relevance":"...","lesson":"..."}]}.`

func memoryStage() Stage {
	return Stage{
		Name:     "memory",
		Priority: 8,
		Writes:   types.SlotMemory,
		Reads:    []types.Slot{types.SlotStructured},
		Class:    ClassText,
		Run: func(ctx context.Context, client llm.Client, snap *types.AuditState) (types.SlotValue, error) {
			return completeJSON[types.InstitutionalMemory](ctx, client, llm.CompletionRequest{
				System: memorySystemPrompt,
				Prompt: sourceText(snap),
			})
		},
		Fallback: func(reason string) types.SlotValue {
			return &types.InstitutionalMemory{
				StageMark:  fallbackMark(reason),
				Precedents: []types.Precedent{},
			}
		},
	}
}
