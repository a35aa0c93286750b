package stages

import (
	"context"

	"github.com/lucidity-ai/lucidity/pkg/llm"
	"github.com/lucidity-ai/lucidity/pkg/types"
)

const swotSystemPrompt = `Produce a SWOT analysis of the decision described in the document. Respond with strict JSON only: {"strengths":["..."],"weaknesses":["..."],"opportunities":["..."],"threats":["..."]}.`

func swotStage() Stage {
	return Stage{
		Name:     "swot",
		Priority: 7,
		Writes:   types.SlotSWOT,
		Reads:    []types.Slot{types.SlotStructured},
		Class:    ClassText,
		Run: func(ctx context.Context, client llm.Client, snap *types.AuditState) (types.SlotValue, error) {
			return completeJSON[types.SWOTAnalysis](ctx, client, llm.CompletionRequest{
				System: swotSystemPrompt,
				Prompt: sourceText(snap),
			})
		},
		Fallback: func(reason string) types.SlotValue {
			return &types.SWOTAnalysis{
				StageMark:     fallbackMark(reason),
				Strengths:     []string{},
				Weaknesses:    []string{},
				Opportunities: []string{},
				Threats:       []string{},
			}
		},
	}
}
