// Package types defines the audit state threaded through the analysis
// pipeline and the report shape handed to persistence and UI collaborators.
package types

import (
	"time"
)

// Slot names a field in AuditState owned by exactly one analysis stage.
type Slot string

const (
	SlotStructured    Slot = "structuredContent"
	SlotBiases        Slot = "biases"
	SlotNoise         Slot = "noiseStats"
	SlotSentiment     Slot = "sentiment"
	SlotLogic         Slot = "logicalAnalysis"
	SlotFactCheck     Slot = "factCheck"
	SlotCompliance    Slot = "compliance"
	SlotPreMortem     Slot = "preMortem"
	SlotSWOT          Slot = "swotAnalysis"
	SlotCognitive     Slot = "cognitiveAnalysis"
	SlotSimulation    Slot = "simulation"
	SlotMemory        Slot = "institutionalMemory"
	SlotFinalReport   Slot = "finalReport"
)

// SlotValue is implemented by every per-dimension result that a stage can
// write into AuditState.
type SlotValue interface {
	Slot() Slot
}

// StageMark records how a slot was produced. Reason is drawn from a fixed
// vocabulary and never contains raw error text or document content.
type StageMark struct {
	Fallback bool   `json:"fallback,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Speaker is a participant attributed in a transcript-style document.
type Speaker struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// Section is one normalized unit of the input document.
type Section struct {
	Heading string `json:"heading,omitempty"`
	Text    string `json:"text"`
}

// StructuredContent is the normalized view of the input document, written
// once by the structuring stage and read by most downstream stages.
type StructuredContent struct {
	StageMark
	Sections []Section `json:"sections"`
	Speakers []Speaker `json:"speakers,omitempty"`
	Summary  string    `json:"summary,omitempty"`
}

func (*StructuredContent) Slot() Slot { return SlotStructured }

// BiasFinding is one detected cognitive bias with its supporting excerpt.
type BiasFinding struct {
	Type        string  `json:"type"`
	Excerpt     string  `json:"excerpt,omitempty"`
	Explanation string  `json:"explanation,omitempty"`
	Severity    string  `json:"severity"`
	Confidence  float64 `json:"confidence"`
}

type BiasReport struct {
	StageMark
	Findings []BiasFinding `json:"findings"`
}

func (*BiasReport) Slot() Slot { return SlotBiases }

// NoiseStats quantifies decision noise: unwanted variability in judgment
// that is distinct from bias. Score is 0 (no noise) to 100.
type NoiseStats struct {
	StageMark
	Score       float64  `json:"score"`
	Variability float64  `json:"variability"`
	Drivers     []string `json:"drivers,omitempty"`
	Summary     string   `json:"summary,omitempty"`
}

func (*NoiseStats) Slot() Slot { return SlotNoise }

type ClaimVerification struct {
	Claim   string `json:"claim"`
	Verdict string `json:"verdict"`
	Source  string `json:"source,omitempty"`
}

// FactCheckResult carries live-source verification of factual claims.
// Status is one of "verified", "contested", or "indeterminate".
type FactCheckResult struct {
	StageMark
	Status string              `json:"status"`
	Claims []ClaimVerification `json:"claims,omitempty"`
}

func (*FactCheckResult) Slot() Slot { return SlotFactCheck }

type ComplianceIssue struct {
	Regulation  string `json:"regulation"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// ComplianceResult reports the regulatory assessment. Status is one of
// "compliant", "violations-found", or "indeterminate".
type ComplianceResult struct {
	StageMark
	Status string            `json:"status"`
	Issues []ComplianceIssue `json:"issues,omitempty"`
}

func (*ComplianceResult) Slot() Slot { return SlotCompliance }

type PreMortemScenario struct {
	Title      string `json:"title"`
	Narrative  string `json:"narrative"`
	Likelihood string `json:"likelihood"`
	Impact     string `json:"impact"`
}

type PreMortemResult struct {
	StageMark
	Scenarios []PreMortemScenario `json:"scenarios"`
}

func (*PreMortemResult) Slot() Slot { return SlotPreMortem }

// SentimentResult scores document tone on [-1, 1] with 0 neutral.
type SentimentResult struct {
	StageMark
	Score      float64 `json:"score"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

func (*SentimentResult) Slot() Slot { return SlotSentiment }

type Fallacy struct {
	Type        string `json:"type"`
	Excerpt     string `json:"excerpt,omitempty"`
	Explanation string `json:"explanation,omitempty"`
}

type LogicalAnalysis struct {
	StageMark
	Fallacies   []Fallacy `json:"fallacies"`
	Consistency float64   `json:"consistency"`
}

func (*LogicalAnalysis) Slot() Slot { return SlotLogic }

type SWOTAnalysis struct {
	StageMark
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

func (*SWOTAnalysis) Slot() Slot { return SlotSWOT }

type CognitiveAnalysis struct {
	StageMark
	Load     string   `json:"load"`
	Patterns []string `json:"patterns,omitempty"`
	Summary  string   `json:"summary,omitempty"`
}

func (*CognitiveAnalysis) Slot() Slot { return SlotCognitive }

type SimulatedOutcome struct {
	Scenario    string  `json:"scenario"`
	Probability float64 `json:"probability"`
	Result      string  `json:"result"`
}

type SimulationResult struct {
	StageMark
	Outcomes []SimulatedOutcome `json:"outcomes"`
}

func (*SimulationResult) Slot() Slot { return SlotSimulation }

type Precedent struct {
	Title     string `json:"title"`
	Relevance string `json:"relevance,omitempty"`
	Lesson    string `json:"lesson,omitempty"`
}

type InstitutionalMemory struct {
	StageMark
	Precedents []Precedent `json:"precedents"`
}

func (*InstitutionalMemory) Slot() Slot { return SlotMemory }

// Report is the externally visible audit result.
type Report struct {
	DocumentID   string    `json:"documentId"`
	OverallScore float64   `json:"overallScore"`
	NoiseScore   float64   `json:"noiseScore"`
	RiskLevel    string    `json:"riskLevel"`
	Confidence   float64   `json:"confidence"`
	Summary      string    `json:"summary"`
	Cached       bool      `json:"cached,omitempty"`
	GeneratedAt  time.Time `json:"generatedAt"`

	Biases              []BiasFinding        `json:"biases"`
	NoiseStats          *NoiseStats          `json:"noiseStats,omitempty"`
	FactCheck           *FactCheckResult     `json:"factCheck,omitempty"`
	Compliance          *ComplianceResult    `json:"compliance,omitempty"`
	PreMortem           *PreMortemResult     `json:"preMortem,omitempty"`
	Sentiment           *SentimentResult     `json:"sentiment,omitempty"`
	LogicalAnalysis     *LogicalAnalysis     `json:"logicalAnalysis,omitempty"`
	SWOTAnalysis        *SWOTAnalysis        `json:"swotAnalysis,omitempty"`
	CognitiveAnalysis   *CognitiveAnalysis   `json:"cognitiveAnalysis,omitempty"`
	Simulation          *SimulationResult    `json:"simulation,omitempty"`
	InstitutionalMemory *InstitutionalMemory `json:"institutionalMemory,omitempty"`
}
