package stages

import (
	"context"

	"github.com/lucidity-ai/lucidity/pkg/llm"
	"github.com/lucidity-ai/lucidity/pkg/types"
)

const structureSystemPrompt = `You are a document analyst. Normalize the given decision document into sections. Respond with strict JSON only, shaped as {"sections":[{"heading":"...","text":"..."}],"speakers":[{"name":"...","role":"..."}],"summary":"..."}. For documents that are not transcripts, omit speakers.`

// structureStage normalizes the raw document into sections and speakers.
// It has no dependencies and runs first; nearly every other stage reads
// its output.
func structureStage() Stage {
	return Stage{
		Name:     "structure",
		Priority: 0,
		Writes:   types.SlotStructured,
		Class:    ClassText,
		Run: func(ctx context.Context, client llm.Client, snap *types.AuditState) (types.SlotValue, error) {
			return completeJSON[types.StructuredContent](ctx, client, llm.CompletionRequest{
				System: structureSystemPrompt,
				Prompt: snap.OriginalContent,
			})
		},
		Fallback: func(reason string) types.SlotValue {
			// downstream stages fall back to the original text when
			// no sections exist
			return &types.StructuredContent{
				StageMark: fallbackMark(reason),
				Sections:  []types.Section{},
			}
		},
	}
}
