package stages

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lucidity-ai/lucidity/pkg/llm"
	"github.com/lucidity-ai/lucidity/pkg/types"
)

const preMortemSystemPrompt = `Run a pre-mortem: assume the decision in the document has failed one year from now and narrate the most plausible failure scenarios. Weigh the detected cognitive biases when constructing them. Respond with strict JSON only: {"scenarios":[{"title":"...","narrative":"...","likelihood":"low|medium|high","impact":"low|medium|high"}]}.`

// preMortemStage waits for the bias stage so its scenarios can build on
// the detected biases.
func preMortemStage() Stage {
	return Stage{
		Name:     "premortem",
		Priority: 9,
		Writes:   types.SlotPreMortem,
		Reads:    []types.Slot{types.SlotStructured, types.SlotBiases},
		Class:    ClassText,
		Run: func(ctx context.Context, client llm.Client, snap *types.AuditState) (types.SlotValue, error) {
			biases, err := json.Marshal(snap.Biases.Findings)
			if err != nil {
				return nil, err
			}
			prompt := fmt.Sprintf("Document:\n%s\n\nDetected biases:\n%s", sourceText(snap), biases)
			return completeJSON[types.PreMortemResult](ctx, client, llm.CompletionRequest{
				System: preMortemSystemPrompt,
				Prompt: prompt,
			})
		},
		Fallback: func(reason string) types.SlotValue {
			return &types.PreMortemResult{
				StageMark: fallbackMark(reason),
				Scenarios: []types.PreMortemScenario{},
			}
		},
	}
}
