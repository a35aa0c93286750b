package aggregate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lucidity-ai/lucidity/pkg/types"
)

func fullState() *types.AuditState {
	state := types.NewAuditState("doc-1", "content")
	state.Assign(&types.StructuredContent{Sections: []types.Section{{Text: "content"}}})
	state.Assign(&types.BiasReport{Findings: []types.BiasFinding{
		{Type: "anchoring", Severity: "medium", Confidence: 0.8},
	}})
	state.Assign(&types.NoiseStats{Score: 30})
	state.Assign(&types.SentimentResult{Score: 0.2, Label: "positive"})
	state.Assign(&types.LogicalAnalysis{Consistency: 85, Fallacies: []types.Fallacy{}})
	state.Assign(&types.FactCheckResult{Status: "verified"})
	state.Assign(&types.ComplianceResult{Status: "compliant"})
	state.Assign(&types.PreMortemResult{Scenarios: []types.PreMortemScenario{{Title: "churn"}}})
	state.Assign(&types.SWOTAnalysis{Strengths: []string{"team"}})
	state.Assign(&types.CognitiveAnalysis{Load: "moderate"})
	state.Assign(&types.SimulationResult{Outcomes: []types.SimulatedOutcome{{Scenario: "base", Probability: 1}}})
	state.Assign(&types.InstitutionalMemory{Precedents: []types.Precedent{}})
	return state
}

func TestAggregateFullState(t *testing.T) {
	report := Aggregate(fullState(), DefaultWeights())

	require.Equal(t, "doc-1", report.DocumentID)
	require.GreaterOrEqual(t, report.OverallScore, 0.0)
	require.LessOrEqual(t, report.OverallScore, 100.0)
	require.Equal(t, 30.0, report.NoiseScore)
	require.Len(t, report.Biases, 1)
	require.Equal(t, 1.0, report.Confidence)
	require.NotEmpty(t, report.Summary)
	require.Contains(t, []string{"low", "moderate", "elevated", "high"}, report.RiskLevel)
	require.NotNil(t, report.PreMortem)
	require.NotNil(t, report.Simulation)
	require.False(t, report.GeneratedAt.IsZero())
}

func TestAggregateIsTotalOverFallbackSubsets(t *testing.T) {
	// every scored dimension flips between real and fallback; the
	// aggregator must return a bounded score for all combinations
	dimensions := []func(*types.AuditState, bool){
		func(s *types.AuditState, fb bool) {
			s.Biases = &types.BiasReport{StageMark: types.StageMark{Fallback: fb}, Findings: []types.BiasFinding{}}
		},
		func(s *types.AuditState, fb bool) {
			s.NoiseStats = &types.NoiseStats{StageMark: types.StageMark{Fallback: fb}, Score: 40}
		},
		func(s *types.AuditState, fb bool) {
			s.LogicalAnalysis = &types.LogicalAnalysis{StageMark: types.StageMark{Fallback: fb}, Consistency: 60}
		},
		func(s *types.AuditState, fb bool) {
			s.FactCheck = &types.FactCheckResult{StageMark: types.StageMark{Fallback: fb}, Status: "indeterminate"}
		},
		func(s *types.AuditState, fb bool) {
			s.Compliance = &types.ComplianceResult{StageMark: types.StageMark{Fallback: fb}, Status: "indeterminate"}
		},
		func(s *types.AuditState, fb bool) {
			s.Sentiment = &types.SentimentResult{StageMark: types.StageMark{Fallback: fb}, Label: "neutral"}
		},
	}

	for mask := 0; mask < 1<<len(dimensions); mask++ {
		t.Run(fmt.Sprintf("fallback_mask_%06b", mask), func(t *testing.T) {
			state := types.NewAuditState("doc", "content")
			for i, apply := range dimensions {
				apply(state, mask&(1<<i) != 0)
			}

			report := Aggregate(state, DefaultWeights())
			require.GreaterOrEqual(t, report.OverallScore, 0.0)
			require.LessOrEqual(t, report.OverallScore, 100.0)
			require.NotEmpty(t, report.RiskLevel)
			require.NotEmpty(t, report.Summary)
			require.NotNil(t, report.Biases)
		})
	}
}

func TestAggregateAllFallbacksIsLowConfidence(t *testing.T) {
	state := types.NewAuditState("doc", "content")
	mark := types.StageMark{Fallback: true, Reason: "analysis provider unavailable"}
	state.Assign(&types.BiasReport{StageMark: mark, Findings: []types.BiasFinding{}})
	state.Assign(&types.NoiseStats{StageMark: mark, Score: 50})
	state.Assign(&types.SentimentResult{StageMark: mark, Label: "neutral"})
	state.Assign(&types.LogicalAnalysis{StageMark: mark, Consistency: 50})
	state.Assign(&types.FactCheckResult{StageMark: mark, Status: "indeterminate"})
	state.Assign(&types.ComplianceResult{StageMark: mark, Status: "indeterminate"})

	report := Aggregate(state, DefaultWeights())
	require.Equal(t, neutralScore, report.OverallScore)
	require.Zero(t, report.Confidence)
	require.Contains(t, report.Summary, "low confidence")
}

func TestAggregateEmptyState(t *testing.T) {
	report := Aggregate(types.NewAuditState("doc", "content"), DefaultWeights())
	require.Equal(t, neutralScore, report.OverallScore)
	require.Zero(t, report.Confidence)
	require.NotNil(t, report.Biases)
	require.Empty(t, report.Biases)
}

func TestBiasScorePenalizesSeverity(t *testing.T) {
	low := biasScore([]types.BiasFinding{{Severity: "low", Confidence: 1}})
	high := biasScore([]types.BiasFinding{{Severity: "high", Confidence: 1}})
	require.Greater(t, low, high)
}

func TestRiskLevelThresholds(t *testing.T) {
	require.Equal(t, "low", riskLevel(80))
	require.Equal(t, "moderate", riskLevel(60))
	require.Equal(t, "elevated", riskLevel(40))
	require.Equal(t, "high", riskLevel(20))
}
