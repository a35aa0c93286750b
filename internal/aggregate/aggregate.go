// Package aggregate folds the final audit state into the externally
// visible report. Aggregation is pure and total: any subset of slots may
// be fallback values and the result is still a valid report, just a less
// confident one.
package aggregate

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/lucidity-ai/lucidity/pkg/types"
)

// Weights is the fixed configuration table combining per-dimension scores
// into the overall score. Keys are dimension names; values are relative
// weights, normalized over the dimensions actually populated by a
// non-fallback stage.
type Weights map[string]float64

const (
	DimensionBias       = "bias"
	DimensionNoise      = "noise"
	DimensionLogic      = "logic"
	DimensionFactCheck  = "factcheck"
	DimensionCompliance = "compliance"
	DimensionSentiment  = "sentiment"
)

// DefaultWeights reflect how strongly each dimension predicts decision
// quality. Bias and logic dominate; sentiment is a weak signal. The table
// is tunable configuration, not a contract.
func DefaultWeights() Weights {
	return Weights{
		DimensionBias:       0.25,
		DimensionNoise:      0.20,
		DimensionLogic:      0.20,
		DimensionFactCheck:  0.15,
		DimensionCompliance: 0.15,
		DimensionSentiment:  0.05,
	}
}

// neutralScore is reported when no dimension produced a real signal.
const neutralScore = 50.0

// Aggregate computes the report from the final state. It never fails; a
// state where every stage fell back yields a low-confidence neutral
// report.
func Aggregate(state *types.AuditState, weights Weights) *types.Report {
	report := &types.Report{
		DocumentID:  state.DocumentID,
		GeneratedAt: time.Now().UTC(),
		Biases:      []types.BiasFinding{},
	}

	var weightSum, scoreSum float64
	use := func(dimension string, score float64) {
		w := weights[dimension]
		scoreSum += w * clamp(score)
		weightSum += w
	}

	if b := state.Biases; b != nil {
		report.Biases = b.Findings
		if !b.Fallback {
			use(DimensionBias, biasScore(b.Findings))
		}
	}
	if n := state.NoiseStats; n != nil {
		report.NoiseStats = n
		report.NoiseScore = clamp(n.Score)
		if !n.Fallback {
			use(DimensionNoise, 100-n.Score)
		}
	}
	if l := state.LogicalAnalysis; l != nil {
		report.LogicalAnalysis = l
		if !l.Fallback {
			use(DimensionLogic, logicScore(l))
		}
	}
	if f := state.FactCheck; f != nil {
		report.FactCheck = f
		if !f.Fallback {
			use(DimensionFactCheck, factCheckScore(f))
		}
	}
	if c := state.Compliance; c != nil {
		report.Compliance = c
		if !c.Fallback {
			use(DimensionCompliance, complianceScore(c))
		}
	}
	if s := state.Sentiment; s != nil {
		report.Sentiment = s
		if !s.Fallback {
			// sentiment maps [-1,1] onto [0,100]; extremes in either
			// direction are not penalized, only rewarded for balance
			use(DimensionSentiment, 100-50*math.Abs(s.Score))
		}
	}

	report.PreMortem = state.PreMortem
	report.SWOTAnalysis = state.SWOTAnalysis
	report.CognitiveAnalysis = state.CognitiveAnalysis
	report.Simulation = state.Simulation
	report.InstitutionalMemory = state.InstitutionalMemory

	if weightSum > 0 {
		report.OverallScore = round1(scoreSum / weightSum)
		report.Confidence = round1(weightSum / totalWeight(weights))
	} else {
		report.OverallScore = neutralScore
		report.Confidence = 0
	}
	report.RiskLevel = riskLevel(report.OverallScore)
	report.Summary = summarize(state, report)

	return report
}

// biasScore starts at 100 and subtracts a severity-scaled penalty per
// finding.
func biasScore(findings []types.BiasFinding) float64 {
	score := 100.0
	for _, f := range findings {
		penalty := 8.0
		switch strings.ToLower(f.Severity) {
		case "high":
			penalty = 18
		case "medium":
			penalty = 10
		case "low":
			penalty = 5
		}
		if f.Confidence > 0 {
			penalty *= f.Confidence
		}
		score -= penalty
	}
	return score
}

func logicScore(l *types.LogicalAnalysis) float64 {
	score := l.Consistency
	if score == 0 && len(l.Fallacies) == 0 {
		score = 100
	}
	score -= 7 * float64(len(l.Fallacies))
	return score
}

func factCheckScore(f *types.FactCheckResult) float64 {
	switch f.Status {
	case "verified":
		return 100
	case "contested":
		refuted := 0
		for _, c := range f.Claims {
			if c.Verdict == "refuted" {
				refuted++
			}
		}
		return math.Max(20, 70-15*float64(refuted))
	default:
		return neutralScore
	}
}

func complianceScore(c *types.ComplianceResult) float64 {
	switch c.Status {
	case "compliant":
		return 100
	case "violations-found":
		score := 80.0
		for _, issue := range c.Issues {
			switch strings.ToLower(issue.Severity) {
			case "high":
				score -= 25
			case "medium":
				score -= 12
			default:
				score -= 5
			}
		}
		return score
	default:
		return neutralScore
	}
}

func riskLevel(score float64) string {
	switch {
	case score >= 75:
		return "low"
	case score >= 55:
		return "moderate"
	case score >= 35:
		return "elevated"
	default:
		return "high"
	}
}

func summarize(state *types.AuditState, report *types.Report) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("Decision quality scored %.1f/100 (%s risk).", report.OverallScore, report.RiskLevel))

	if len(report.Biases) > 0 {
		parts = append(parts, fmt.Sprintf("%d cognitive bias finding(s).", len(report.Biases)))
	}
	if n := state.NoiseStats; n != nil && !n.Fallback {
		parts = append(parts, fmt.Sprintf("Decision noise %.0f/100.", n.Score))
	}
	if f := state.FactCheck; f != nil && f.Status != "" {
		parts = append(parts, fmt.Sprintf("Fact check: %s.", f.Status))
	}
	if c := state.Compliance; c != nil && c.Status != "" {
		parts = append(parts, fmt.Sprintf("Compliance: %s.", c.Status))
	}
	if report.Confidence == 0 {
		parts = append(parts, "All scoring dimensions were unavailable; treat this report as low confidence.")
	}
	return strings.Join(parts, " ")
}

func totalWeight(w Weights) float64 {
	var sum float64
	for _, v := range w {
		sum += v
	}
	if sum == 0 {
		return 1
	}
	return sum
}

func clamp(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
