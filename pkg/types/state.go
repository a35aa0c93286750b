package types

// AuditState is the single mutable record threaded through the pipeline.
// DocumentID and OriginalContent are set at creation and never change.
// Every other field is a slot: empty until its owning stage completes,
// then immutable.
type AuditState struct {
	DocumentID      string `json:"documentId"`
	OriginalContent string `json:"originalContent"`

	StructuredContent   *StructuredContent   `json:"structuredContent,omitempty"`
	Biases              *BiasReport          `json:"biases,omitempty"`
	NoiseStats          *NoiseStats          `json:"noiseStats,omitempty"`
	Sentiment           *SentimentResult     `json:"sentiment,omitempty"`
	LogicalAnalysis     *LogicalAnalysis     `json:"logicalAnalysis,omitempty"`
	FactCheck           *FactCheckResult     `json:"factCheck,omitempty"`
	Compliance          *ComplianceResult    `json:"compliance,omitempty"`
	PreMortem           *PreMortemResult     `json:"preMortem,omitempty"`
	SWOTAnalysis        *SWOTAnalysis        `json:"swotAnalysis,omitempty"`
	CognitiveAnalysis   *CognitiveAnalysis   `json:"cognitiveAnalysis,omitempty"`
	Simulation          *SimulationResult    `json:"simulation,omitempty"`
	InstitutionalMemory *InstitutionalMemory `json:"institutionalMemory,omitempty"`

	FinalReport *Report `json:"finalReport,omitempty"`
}

// NewAuditState creates the state record at pipeline entry.
func NewAuditState(documentID, content string) *AuditState {
	return &AuditState{
		DocumentID:      documentID,
		OriginalContent: content,
	}
}

// Assign writes v into its owning slot. It does not enforce write-once
// semantics; the state store wraps it with that guard.
func (s *AuditState) Assign(v SlotValue) {
	switch t := v.(type) {
	case *StructuredContent:
		s.StructuredContent = t
	case *BiasReport:
		s.Biases = t
	case *NoiseStats:
		s.NoiseStats = t
	case *SentimentResult:
		s.Sentiment = t
	case *LogicalAnalysis:
		s.LogicalAnalysis = t
	case *FactCheckResult:
		s.FactCheck = t
	case *ComplianceResult:
		s.Compliance = t
	case *PreMortemResult:
		s.PreMortem = t
	case *SWOTAnalysis:
		s.SWOTAnalysis = t
	case *CognitiveAnalysis:
		s.CognitiveAnalysis = t
	case *SimulationResult:
		s.Simulation = t
	case *InstitutionalMemory:
		s.InstitutionalMemory = t
	}
}

// Populated reports whether the given slot has been written.
func (s *AuditState) Populated(slot Slot) bool {
	switch slot {
	case SlotStructured:
		return s.StructuredContent != nil
	case SlotBiases:
		return s.Biases != nil
	case SlotNoise:
		return s.NoiseStats != nil
	case SlotSentiment:
		return s.Sentiment != nil
	case SlotLogic:
		return s.LogicalAnalysis != nil
	case SlotFactCheck:
		return s.FactCheck != nil
	case SlotCompliance:
		return s.Compliance != nil
	case SlotPreMortem:
		return s.PreMortem != nil
	case SlotSWOT:
		return s.SWOTAnalysis != nil
	case SlotCognitive:
		return s.CognitiveAnalysis != nil
	case SlotSimulation:
		return s.Simulation != nil
	case SlotMemory:
		return s.InstitutionalMemory != nil
	case SlotFinalReport:
		return s.FinalReport != nil
	}
	return false
}

// Clone returns a shallow copy of the state. Slot values are immutable once
// written, so sharing them between the copy and the original is safe.
func (s *AuditState) Clone() *AuditState {
	c := *s
	return &c
}
