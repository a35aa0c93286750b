package stages

import (
	"context"

	"github.com/lucidity-ai/lucidity/pkg/llm"
	"github.com/lucidity-ai/lucidity/pkg/types"
)

const sentimentSystemPrompt = `Score the overall sentiment of the decision document on a scale from -1 (strongly negative) to 1 (strongly positive). Respond with strict JSON only: {"score":0.0,"label":"negative|neutral|positive","confidence":0.0}.`

// sentimentStage reads the raw document directly, so it has no
// dependencies and dispatches in the first wave.
func sentimentStage() Stage {
	return Stage{
		Name:     "sentiment",
		Priority: 3,
		Writes:   types.SlotSentiment,
		Class:    ClassText,
		Run: func(ctx context.Context, client llm.Client, snap *types.AuditState) (types.SlotValue, error) {
			return completeJSON[types.SentimentResult](ctx, client, llm.CompletionRequest{
				System: sentimentSystemPrompt,
				Prompt: snap.OriginalContent,
			})
		},
		Fallback: func(reason string) types.SlotValue {
			return &types.SentimentResult{
				StageMark: fallbackMark(reason),
				Score:     0,
				Label:     "neutral",
			}
		},
	}
}
