package stages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lucidity-ai/lucidity/pkg/llm"
	"github.com/lucidity-ai/lucidity/pkg/types"
)

func TestStageSetDeclarations(t *testing.T) {
	set := All()
	require.Len(t, set, 12)

	t.Run("one_writer_per_slot", func(t *testing.T) {
		writers := map[types.Slot]string{}
		for _, st := range set {
			prev, dup := writers[st.Writes]
			require.False(t, dup, "slot %q written by both %q and %q", st.Writes, prev, st.Name)
			writers[st.Writes] = st.Name
		}
	})

	t.Run("reads_have_writers", func(t *testing.T) {
		writers := map[types.Slot]bool{}
		for _, st := range set {
			writers[st.Writes] = true
		}
		for _, st := range set {
			for _, r := range st.Reads {
				require.True(t, writers[r], "stage %q reads slot %q that no stage writes", st.Name, r)
			}
		}
	})

	t.Run("priorities_are_declaration_order", func(t *testing.T) {
		for i, st := range set {
			require.Equal(t, i, st.Priority, "stage %q", st.Name)
		}
	})

	t.Run("fallbacks_populate_owned_slot", func(t *testing.T) {
		for _, st := range set {
			v := st.Fallback("analysis unavailable")
			require.NotNil(t, v, "stage %q", st.Name)
			require.Equal(t, st.Writes, v.Slot(), "stage %q", st.Name)
		}
	})
}

func TestStageRunsDecodeTypedResults(t *testing.T) {
	responses := map[string]string{
		"structure":  `{"sections":[{"heading":"Context","text":"We will enter the market."}],"summary":"Expansion memo."}`,
		"bias":       `{"findings":[{"type":"overconfidence","excerpt":"cannot fail","severity":"high","confidence":0.9}]}`,
		"noise":      `{"score":35,"variability":22,"drivers":["single reviewer"],"summary":"moderate"}`,
		"sentiment":  `{"score":0.4,"label":"positive","confidence":0.8}`,
		"logic":      `{"fallacies":[{"type":"false dilemma","excerpt":"now or never"}],"consistency":70}`,
		"factcheck":  `{"status":"verified","claims":[{"claim":"market grew 8%","verdict":"supported","source":"example.org"}]}`,
		"compliance": `{"status":"compliant","issues":[]}`,
		"swot":       `{"strengths":["team"],"weaknesses":["cash"],"opportunities":["market"],"threats":["rival"]}`,
		"memory":     `{"precedents":[{"title":"New Coke","lesson":"test assumptions"}]}`,
		"premortem":  `{"scenarios":[{"title":"Churn","narrative":"...","likelihood":"medium","impact":"high"}]}`,
		"cognitive":  `{"load":"high","patterns":["anchoring"],"summary":"strained"}`,
		"simulation": `{"outcomes":[{"scenario":"base","probability":0.7,"result":"breakeven"}]}`,
	}

	snap := types.NewAuditState("doc-1", "We will enter the market. It cannot fail.")
	snap.Assign(&types.StructuredContent{Sections: []types.Section{{Heading: "Context", Text: "We will enter the market."}}})
	snap.Assign(&types.BiasReport{Findings: []types.BiasFinding{{Type: "overconfidence", Severity: "high"}}})
	snap.Assign(&types.NoiseStats{Score: 35})
	snap.Assign(&types.PreMortemResult{Scenarios: []types.PreMortemScenario{{Title: "Churn"}}})

	for _, st := range All() {
		t.Run(st.Name, func(t *testing.T) {
			client := llm.ClientFunc(func(_ context.Context, req llm.CompletionRequest) (string, error) {
				require.NotEmpty(t, req.System)
				require.NotEmpty(t, req.Prompt)
				require.Equal(t, st.Class == ClassSearch, req.WebSearch)
				// models often wrap their JSON in fences; parsing must cope
				return "```json\n" + responses[st.Name] + "\n```", nil
			})

			v, err := st.Run(context.Background(), client, snap)
			require.NoError(t, err)
			require.Equal(t, st.Writes, v.Slot())
		})
	}
}

func TestStageRunRejectsMalformedOutput(t *testing.T) {
	client := llm.ClientFunc(func(context.Context, llm.CompletionRequest) (string, error) {
		return "the document looks fine to me", nil
	})

	snap := types.NewAuditState("doc-1", "content")
	snap.Assign(&types.StructuredContent{Sections: []types.Section{}})

	st := biasStage()
	_, err := st.Run(context.Background(), client, snap)
	require.ErrorIs(t, err, llm.ErrMalformedOutput)
}
